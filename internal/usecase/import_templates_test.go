package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/testutil"
)

func breadCatalog() *domain.CatalogSpec {
	return &domain.CatalogSpec{
		Ingredients: []domain.IngredientSpec{{
			Name:      "Flour",
			Unit:      "kg",
			Templates: []domain.TemplateSpec{{Title: "Sift flour"}},
		}},
		Products: []domain.ProductSpec{{
			Name:        "Bread",
			Price:       dec("4.50"),
			Ingredients: []domain.IngredientUse{{Name: "Flour", Quantity: dec("0.5")}},
			Templates: []domain.TemplateSpec{
				{Title: "Prepare", Priority: domain.PriorityHigh, Subtasks: []domain.TemplateSpec{{Title: "Wash"}}},
				{Title: "Package"},
			},
		}},
	}
}

func TestImportTemplates_Execute(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	codec := &testutil.MockCatalogCodec{Spec: breadCatalog()}
	logger := &testutil.MockLogger{}
	uc := NewImportTemplates(store, codec, newTestClock(), logger)

	// Execute
	out, err := uc.Execute(context.Background(), ImportTemplatesInput{Content: []byte("ignored")})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, out.Products)
	assert.Equal(t, 1, out.Ingredients)
	assert.Equal(t, 1, out.Links)
	assert.Equal(t, 4, out.Templates)
	assert.Equal(t, 0, out.Skipped)
	assert.Len(t, store.Templates, 4)
	assert.Len(t, store.Links, 1)
	assert.Equal(t, 1, store.TxCount)
	assert.Equal(t, 1, logger.Count("INFO"))

	byTitle := make(map[string]*domain.TaskTemplate)
	for _, tmpl := range store.Templates {
		byTitle[tmpl.Title] = tmpl
	}
	require.Contains(t, byTitle, "Wash")
	assert.Equal(t, byTitle["Prepare"].ID, domain.StringValue(byTitle["Wash"].ParentTemplateID))
	assert.True(t, byTitle["Wash"].IsSubtask)
	assert.True(t, byTitle["Sift flour"].IsIngredientOnly())
	assert.Equal(t, domain.PriorityHigh, byTitle["Prepare"].Priority)
}

func TestImportTemplates_Execute_Idempotent(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	codec := &testutil.MockCatalogCodec{Spec: breadCatalog()}
	uc := NewImportTemplates(store, codec, newTestClock(), nil)
	ctx := context.Background()
	_, err := uc.Execute(ctx, ImportTemplatesInput{})
	require.NoError(t, err)

	// Execute
	out, err := uc.Execute(ctx, ImportTemplatesInput{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, out.Products)
	assert.Equal(t, 0, out.Ingredients)
	assert.Equal(t, 0, out.Templates)
	assert.Equal(t, 4, out.Skipped)
	assert.Len(t, store.Templates, 4)
	assert.Len(t, store.Products, 1)
}

func TestImportTemplates_Execute_AddsToExisting(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	p := seedProduct(t, store, "Bread", "3.00")
	seedIngredient(t, store, "Flour")
	seedTemplate(t, store, &domain.TaskTemplate{Title: "Prepare", ProductID: &p.ID})
	uc := NewImportTemplates(store, &testutil.MockCatalogCodec{Spec: breadCatalog()}, newTestClock(), nil)

	// Execute
	out, err := uc.Execute(context.Background(), ImportTemplatesInput{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, out.Products)
	assert.Equal(t, 3, out.Templates)
	assert.Equal(t, 1, out.Skipped)
	assert.True(t, store.Products[p.ID].Price.Equal(dec("3")), "existing product is not overwritten")
}

func TestImportTemplates_Execute_Errors(t *testing.T) {
	t.Run("decode error", func(t *testing.T) {
		store := testutil.NewMockStore()
		uc := NewImportTemplates(store, &testutil.MockCatalogCodec{DecodeErr: assert.AnError}, newTestClock(), nil)
		_, err := uc.Execute(context.Background(), ImportTemplatesInput{})
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("invalid catalog", func(t *testing.T) {
		spec := breadCatalog()
		spec.Products[0].Templates[0].Subtasks[0].Subtasks = []domain.TemplateSpec{{Title: "Deep"}}
		store := testutil.NewMockStore()
		uc := NewImportTemplates(store, &testutil.MockCatalogCodec{Spec: spec}, newTestClock(), nil)
		_, err := uc.Execute(context.Background(), ImportTemplatesInput{})
		assert.ErrorIs(t, err, domain.ErrNestedSubtask)
		assert.Equal(t, 0, store.TxCount)
	})

	t.Run("unknown ingredient rolls back", func(t *testing.T) {
		spec := breadCatalog()
		spec.Ingredients = nil
		store := testutil.NewMockStore()
		uc := NewImportTemplates(store, &testutil.MockCatalogCodec{Spec: spec}, newTestClock(), nil)
		_, err := uc.Execute(context.Background(), ImportTemplatesInput{})
		assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
		assert.Contains(t, err.Error(), `product "Bread"`)
		assert.Empty(t, store.Templates)
	})
}

func TestExportTemplates_Execute(t *testing.T) {
	// Setup
	store := testutil.NewMockStore()
	codec := &testutil.MockCatalogCodec{Spec: breadCatalog()}
	_, err := NewImportTemplates(store, codec, newTestClock(), nil).Execute(context.Background(), ImportTemplatesInput{})
	require.NoError(t, err)
	uc := NewExportTemplates(store, codec)

	// Execute
	out, err := uc.Execute(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []byte("encoded"), out.Content)
	assert.Same(t, out.Spec, codec.Encoded)
	require.Len(t, out.Spec.Products, 1)
	bread := out.Spec.Products[0]
	assert.Equal(t, "Bread", bread.Name)
	assert.True(t, bread.Price.Equal(dec("4.5")))
	require.Len(t, bread.Ingredients, 1)
	assert.Equal(t, "Flour", bread.Ingredients[0].Name)
	require.Len(t, bread.Templates, 2)
	assert.Equal(t, "Prepare", bread.Templates[0].Title)
	require.Len(t, bread.Templates[0].Subtasks, 1)
	assert.Equal(t, "Wash", bread.Templates[0].Subtasks[0].Title)
	require.Len(t, out.Spec.Ingredients, 1)
	assert.Equal(t, "Sift flour", out.Spec.Ingredients[0].Templates[0].Title)
}
