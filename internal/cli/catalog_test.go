package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/shopdesk/internal/domain"
)

const breadCatalog = `ingredients:
  - name: Flour
    unit: kg
    templates:
      - title: Sift flour
products:
  - name: Bread
    price: "4.50"
    ingredients:
      - name: Flour
        quantity: "0.5"
    templates:
      - title: Prepare
        priority: high
        subtasks:
          - title: Wash
`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestProductCommands(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)

	// Execute: add
	stdout, _, err := run(t, c, "product", "add", "--name", "Cake", "--price", "12", "--stock", "1", "--min-stock", "2")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created product Cake (product-1)")
	assert.Equal(t, "12", store.Products["product-1"].Price.String())

	// Execute: list
	stdout, _, err = run(t, c, "product", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "12.00")
	assert.Contains(t, stdout, "1 (low)")

	// Execute: rm
	stdout, _, err = run(t, c, "product", "rm", "product-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Deleted product product-1 (0 template(s))")
	assert.Empty(t, store.Products)
}

func TestProductAdd_InvalidPrice(t *testing.T) {
	c, store := newTestContainer(t)

	_, _, err := run(t, c, "product", "add", "--name", "Cake", "--price", "twelve")

	assert.Error(t, err)
	assert.Empty(t, store.Products)
}

func TestProductRm_InUse(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)
	seedBread(t, store)
	_, _, err := run(t, c, "order", "create", "--item", "product-1:1")
	require.NoError(t, err)

	// Execute
	_, _, err = run(t, c, "product", "rm", "product-1")

	// Assert
	assert.ErrorIs(t, err, domain.ErrProductInUse)
	assert.Contains(t, store.Products, "product-1")
}

func TestIngredientAndLink(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)
	seedBread(t, store)

	// Execute
	addOut, _, err := run(t, c, "ingredient", "add", "--name", "Flour", "--unit", "kg", "--stock", "5")
	require.NoError(t, err)
	linkOut, _, err := run(t, c, "product", "link", "product-1", "ingredient-1", "--quantity", "0.5")
	require.NoError(t, err)
	listOut, _, err := run(t, c, "ingredient", "list")
	require.NoError(t, err)

	// Assert
	assert.Contains(t, addOut, "Created ingredient Flour (ingredient-1)")
	assert.Contains(t, linkOut, "Linked ingredient ingredient-1 to product product-1 (quantity 0.5)")
	assert.Contains(t, listOut, "Flour")
	assert.Contains(t, listOut, "kg")
	assert.Len(t, store.Links, 1)
}

func TestIngredientRm_DeletesProvenanceTemplates(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)
	_, _, err := run(t, c, "product", "add", "--name", "Bread")
	require.NoError(t, err)
	_, _, err = run(t, c, "ingredient", "add", "--name", "Flour")
	require.NoError(t, err)
	_, _, err = run(t, c, "template", "add", "--product", "product-1", "--title", "Prepare")
	require.NoError(t, err)
	_, _, err = run(t, c, "template", "add", "--product", "product-1", "--ingredient", "ingredient-1", "--title", "Sift")
	require.NoError(t, err)
	_, _, err = run(t, c, "template", "add", "--product", "product-1", "--parent", "tmpl-2", "--title", "Weigh")
	require.NoError(t, err)

	// Execute
	stdout, _, err := run(t, c, "ingredient", "rm", "ingredient-1")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, stdout, "Deleted ingredient ingredient-1 (2 template(s))")
	require.Len(t, store.Templates, 1)
	assert.Equal(t, "Prepare", store.Templates["tmpl-1"].Title)

	help := newIngredientRmCommand(c).Long
	assert.Contains(t, help, "provenance")
}

func TestProductTasks(t *testing.T) {
	// Setup
	c, _ := newTestContainer(t)
	_, _, err := run(t, c, "template", "import", writeCatalog(t, breadCatalog))
	require.NoError(t, err)
	_, _, err = run(t, c, "order", "create", "--item", "product-1:1")
	require.NoError(t, err)

	// Execute
	stdout, _, err := run(t, c, "product", "tasks", "product-1")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, stdout, "Product: Bread (product-1)")
	assert.Contains(t, stdout, "  Prepare (")
	assert.Contains(t, stdout, "    └─ Wash (")
	assert.Contains(t, stdout, "  Sift flour ← Flour")
	assert.Contains(t, stdout, "automatic")
}

func TestTemplateAddListRm(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)
	_, _, err := run(t, c, "product", "add", "--name", "Bread")
	require.NoError(t, err)

	// Execute
	parentOut, _, err := run(t, c, "template", "add", "--product", "product-1", "--title", "Prepare", "--priority", "high")
	require.NoError(t, err)
	_, _, err = run(t, c, "template", "add", "--product", "product-1", "--parent", "tmpl-1", "--title", "Wash")
	require.NoError(t, err)
	listOut, _, err := run(t, c, "template", "list", "--product", "product-1")
	require.NoError(t, err)
	topOut, _, err := run(t, c, "template", "list", "--top-level")
	require.NoError(t, err)
	rmOut, _, err := run(t, c, "template", "rm", "tmpl-1")
	require.NoError(t, err)

	// Assert
	assert.Contains(t, parentOut, "Created template Prepare (tmpl-1)")
	assert.Contains(t, listOut, "product:product-")
	assert.Contains(t, listOut, "Wash")
	assert.NotContains(t, topOut, "Wash")
	assert.Contains(t, rmOut, "Deleted 2 template(s)")
	assert.Empty(t, store.Templates)
}

func TestTemplateAdd_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no origin", []string{"--title", "Orphan"}, domain.ErrTemplateOrigin},
		{"bad priority", []string{"--product", "product-1", "--title", "X", "--priority", "urgent"}, domain.ErrInvalidPriority},
		{"unknown product", []string{"--product", "product-9", "--title", "X"}, domain.ErrProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, store := newTestContainer(t)
			_, _, err := run(t, c, "product", "add", "--name", "Bread")
			require.NoError(t, err)

			_, _, err = run(t, c, append([]string{"template", "add"}, tt.args...)...)

			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, store.Templates)
		})
	}
}

func TestTemplateImport(t *testing.T) {
	// Setup
	c, store := newTestContainer(t)
	path := writeCatalog(t, breadCatalog)

	// Execute
	first, _, err := run(t, c, "template", "import", path)
	require.NoError(t, err)
	second, _, err := run(t, c, "template", "import", path)
	require.NoError(t, err)

	// Assert
	assert.Contains(t, first, "Imported 1 product(s), 1 ingredient(s), 1 link(s), 3 template(s) (0 already present)")
	assert.Contains(t, second, "Imported 0 product(s), 0 ingredient(s), 1 link(s), 0 template(s) (3 already present)")
	assert.Len(t, store.Templates, 3)
	assert.Len(t, store.Products, 1)
}

func TestTemplateImport_Errors(t *testing.T) {
	c, store := newTestContainer(t)

	_, _, missing := run(t, c, "template", "import", filepath.Join(t.TempDir(), "none.yaml"))
	_, _, invalid := run(t, c, "template", "import", writeCatalog(t, "products:\n  - nme: Bread\n"))

	assert.Error(t, missing)
	assert.Error(t, invalid)
	assert.Empty(t, store.Products)
}

func TestTemplateExport(t *testing.T) {
	// Setup
	c, _ := newTestContainer(t)
	_, _, err := run(t, c, "template", "import", writeCatalog(t, breadCatalog))
	require.NoError(t, err)
	outPath := filepath.Join(t.TempDir(), "out.yaml")

	// Execute
	stdout, _, err := run(t, c, "template", "export")
	require.NoError(t, err)
	fileOut, _, err := run(t, c, "template", "export", "-o", outPath)
	require.NoError(t, err)

	// Assert
	assert.Contains(t, stdout, "name: Bread")
	assert.Contains(t, stdout, "title: Wash")
	assert.Contains(t, fileOut, "Wrote "+outPath)
	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, stdout, string(content))
}
