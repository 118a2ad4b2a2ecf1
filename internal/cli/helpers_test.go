package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/shopdesk/internal/app"
	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/testutil"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// newTestContainer creates a container backed by in-memory mocks.
func newTestContainer(t *testing.T) (*app.Container, *testutil.MockStore) {
	t.Helper()
	store := testutil.NewMockStore()
	c := app.NewWithDeps(
		app.Config{Root: t.TempDir(), DataDir: t.TempDir()},
		store,
		&testutil.MockStoreInitializer{},
		&testutil.MockClock{NowTime: testNow},
		&testutil.MockLogger{},
	)
	return c, store
}

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, c *app.Container, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(c, "test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// seedBread creates product-1 "Bread" (10.00) with a Prepare template and
// a Wash subtask template.
func seedBread(t *testing.T, store *testutil.MockStore) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.CreateProduct(ctx, &domain.Product{Name: "Bread", Price: decimal.RequireFromString("10.00")}))
	prepare := &domain.TaskTemplate{ProductID: domain.Ptr("product-1"), Title: "Prepare", Priority: domain.PriorityHigh}
	require.NoError(t, store.CreateTemplate(ctx, prepare))
	require.NoError(t, store.CreateTemplate(ctx, &domain.TaskTemplate{
		ProductID:        domain.Ptr("product-1"),
		ParentTemplateID: &prepare.ID,
		Title:            "Wash",
		IsSubtask:        true,
	}))
}
