// Package usecase contains application use cases.
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase/shared"
)

// DeriveTasksOutput summarizes one derivation run.
type DeriveTasksOutput struct {
	TaskIDs  []string `json:"taskIds"`  // IDs of tasks created in this run
	Created  int      `json:"created"`  // Tasks created
	Reused   int      `json:"reused"`   // Templates that already had a task
	Products int      `json:"products"` // Distinct products processed
}

func (o *DeriveTasksOutput) merge(other *DeriveTasksOutput) {
	o.TaskIDs = append(o.TaskIDs, other.TaskIDs...)
	o.Created += other.Created
	o.Reused += other.Reused
	o.Products += other.Products
}

// DeriveTasks materializes product templates into order tasks.
//
// Top-level templates of a product become top-level tasks; their direct
// subtask templates become subtasks of those tasks. Templates that only
// belong to an ingredient are never materialized. Running the derivation
// again for the same order and product creates nothing new: existing tasks
// are found by (order, product, title) for top-level templates and by
// (order, product, title, parent task) for subtasks.
type DeriveTasks struct {
	catalog   domain.CatalogRepository
	templates domain.TemplateRepository
	tasks     domain.TaskRepository
	orders    domain.OrderRepository
	clock     domain.Clock
	logger    domain.Logger
}

// NewDeriveTasks creates a new DeriveTasks use case.
func NewDeriveTasks(catalog domain.CatalogRepository, templates domain.TemplateRepository, tasks domain.TaskRepository, orders domain.OrderRepository, clock domain.Clock, logger domain.Logger) *DeriveTasks {
	return &DeriveTasks{
		catalog:   catalog,
		templates: templates,
		tasks:     tasks,
		orders:    orders,
		clock:     clock,
		logger:    logger,
	}
}

// newDeriveTasksForStore builds a deriver bound to a single store, for
// example a transaction.
func newDeriveTasksForStore(store domain.Store, clock domain.Clock, logger domain.Logger) *DeriveTasks {
	return NewDeriveTasks(store, store, store, store, clock, logger)
}

// DeriveTasksInput selects what to derive.
type DeriveTasksInput struct {
	ProductID *string // Only this product (nil = every product on the order)
	OrderID   string  // Order to derive tasks for (required)
}

// Execute derives tasks for a whole order, or for one of its products.
func (uc *DeriveTasks) Execute(ctx context.Context, in DeriveTasksInput) (*DeriveTasksOutput, error) {
	if in.ProductID == nil {
		return uc.ForOrder(ctx, in.OrderID)
	}
	if _, err := shared.GetOrder(ctx, uc.orders, in.OrderID); err != nil {
		return nil, err
	}
	if _, err := shared.GetProduct(ctx, uc.catalog, *in.ProductID); err != nil {
		return nil, err
	}
	return uc.ForProduct(ctx, in.OrderID, *in.ProductID)
}

// ForOrder derives tasks for every distinct product on the order, in the
// order the products first appear among the items.
// Tasks created before a failure are kept.
func (uc *DeriveTasks) ForOrder(ctx context.Context, orderID string) (*DeriveTasksOutput, error) {
	if _, err := shared.GetOrder(ctx, uc.orders, orderID); err != nil {
		return nil, err
	}

	items, err := uc.orders.ListOrderItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}

	out := &DeriveTasksOutput{}
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true

		res, err := uc.ForProduct(ctx, orderID, item.ProductID)
		if res != nil {
			out.merge(res)
		}
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

// ForProduct derives tasks for one product of an order. It does not check
// that the product is actually on the order.
//
// Templates are processed one at a time so that each existence check
// observes the inserts made for earlier templates.
func (uc *DeriveTasks) ForProduct(ctx context.Context, orderID, productID string) (*DeriveTasksOutput, error) {
	out := &DeriveTasksOutput{Products: 1}

	tops, err := uc.templates.ListTemplates(ctx, domain.TemplateFilter{
		ProductID: &productID,
		IsSubtask: domain.Ptr(false),
	})
	if err != nil {
		return out, fmt.Errorf("list templates: %w", err)
	}

	// template ID -> task ID
	mapping := make(map[string]string, len(tops))
	for _, tmpl := range tops {
		taskID, created, err := uc.materialize(ctx, orderID, productID, tmpl, nil)
		if err != nil {
			return out, err
		}
		mapping[tmpl.ID] = taskID
		out.record(taskID, created)
	}

	for _, tmpl := range tops {
		parentTaskID := mapping[tmpl.ID]
		subs, err := uc.templates.ListTemplates(ctx, domain.TemplateFilter{
			ParentTemplateID: &tmpl.ID,
		})
		if err != nil {
			return out, fmt.Errorf("list subtask templates: %w", err)
		}
		for _, sub := range subs {
			taskID, created, err := uc.materialize(ctx, orderID, productID, sub, &parentTaskID)
			if err != nil {
				return out, err
			}
			out.record(taskID, created)
		}
	}

	if uc.logger != nil {
		uc.logger.Info(orderID, "derive", fmt.Sprintf("product %s: %d created, %d already derived", productID, out.Created, out.Reused))
	}
	return out, nil
}

func (o *DeriveTasksOutput) record(taskID string, created bool) {
	if created {
		o.Created++
		o.TaskIDs = append(o.TaskIDs, taskID)
		return
	}
	o.Reused++
}

// materialize returns the ID of the task standing for tmpl, creating it
// when none exists. created reports whether a new task was inserted.
func (uc *DeriveTasks) materialize(ctx context.Context, orderID, productID string, tmpl *domain.TaskTemplate, parentTaskID *string) (string, bool, error) {
	existing, err := uc.findExisting(ctx, orderID, productID, tmpl.Title, parentTaskID)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}

	now := uc.clock.Now()
	task := &domain.Task{
		Title:        tmpl.Title,
		Description:  tmpl.Description,
		Priority:     tmpl.Priority,
		Status:       domain.StatusTodo,
		TaskType:     domain.TaskTypeAutomatic,
		OrderID:      domain.Ptr(orderID),
		ProductID:    domain.Ptr(productID),
		IngredientID: tmpl.IngredientID,
		ParentTaskID: parentTaskID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tasks.CreateTask(ctx, task)
	if err == nil {
		return task.ID, true, nil
	}
	if !errors.Is(err, domain.ErrDuplicateDerivation) {
		return "", false, fmt.Errorf("create task %q: %w", tmpl.Title, err)
	}

	// Another writer derived the same task between our check and insert.
	existing, ferr := uc.findExisting(ctx, orderID, productID, tmpl.Title, parentTaskID)
	if ferr != nil {
		return "", false, ferr
	}
	if existing == nil {
		return "", false, fmt.Errorf("create task %q: %w", tmpl.Title, err)
	}
	return existing.ID, false, nil
}

// findExisting looks up a task already standing for a template.
// Top-level lookups match (order, product, title) and prefer a root task.
// With no root match they fall back to a subtask of the same title.
// Subtask lookups also match the parent task.
func (uc *DeriveTasks) findExisting(ctx context.Context, orderID, productID, title string, parentTaskID *string) (*domain.Task, error) {
	filter := domain.TaskFilter{
		OrderID:      &orderID,
		ProductID:    &productID,
		Title:        &title,
		ParentTaskID: parentTaskID,
	}
	found, err := uc.tasks.FindTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	if parentTaskID == nil {
		for _, t := range found {
			if t.IsRoot() {
				return t, nil
			}
		}
	}
	return found[0], nil
}

// deriveAfterMutation runs a derivation after an order or item change has
// been committed. With bestEffort a failure is logged and returned as warn
// so the caller can report it; otherwise it is returned as err.
func deriveAfterMutation(orderID string, bestEffort bool, logger domain.Logger, derive func() (*DeriveTasksOutput, error)) (out *DeriveTasksOutput, warn error, err error) {
	out, derr := derive()
	if derr == nil {
		return out, nil, nil
	}
	if !bestEffort {
		return out, nil, fmt.Errorf("derive tasks: %w", derr)
	}
	if logger != nil {
		logger.Warn(orderID, "derive", fmt.Sprintf("task derivation failed: %v", derr))
	}
	return out, derr, nil
}
