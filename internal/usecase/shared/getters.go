// Package shared holds helpers used by several use cases.
package shared

import (
	"context"
	"fmt"

	"github.com/runoshun/shopdesk/internal/domain"
)

// GetOrder retrieves an order by ID and returns domain.ErrOrderNotFound if not found.
// This centralizes the common pattern of:
//
//	order, err := repo.GetOrder(ctx, id)
//	if err != nil { return nil, fmt.Errorf("get order: %w", err) }
//	if order == nil { return nil, domain.ErrOrderNotFound }
func GetOrder(ctx context.Context, repo domain.OrderRepository, id string) (*domain.Order, error) {
	order, err := repo.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// GetOrderItem retrieves an item and checks it belongs to orderID.
func GetOrderItem(ctx context.Context, repo domain.OrderRepository, orderID, itemID string) (*domain.OrderItem, error) {
	item, err := repo.GetOrderItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get order item: %w", err)
	}
	if item == nil || item.OrderID != orderID {
		return nil, domain.ErrOrderItemNotFound
	}
	return item, nil
}

// GetTask retrieves a task by ID and returns domain.ErrTaskNotFound if not found.
func GetTask(ctx context.Context, repo domain.TaskRepository, id string) (*domain.Task, error) {
	task, err := repo.GetTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
}

// GetTemplate retrieves a template by ID and returns domain.ErrTemplateNotFound if not found.
func GetTemplate(ctx context.Context, repo domain.TemplateRepository, id string) (*domain.TaskTemplate, error) {
	tmpl, err := repo.GetTemplate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}
	if tmpl == nil {
		return nil, domain.ErrTemplateNotFound
	}
	return tmpl, nil
}

// GetProduct retrieves a product by ID and returns domain.ErrProductNotFound if not found.
func GetProduct(ctx context.Context, repo domain.CatalogRepository, id string) (*domain.Product, error) {
	p, err := repo.GetProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// GetIngredient retrieves an ingredient by ID and returns domain.ErrIngredientNotFound if not found.
func GetIngredient(ctx context.Context, repo domain.CatalogRepository, id string) (*domain.Ingredient, error) {
	i, err := repo.GetIngredient(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	if i == nil {
		return nil, domain.ErrIngredientNotFound
	}
	return i, nil
}

// DeleteTemplateTree deletes a template after deleting its child templates.
func DeleteTemplateTree(ctx context.Context, repo domain.TemplateRepository, id string) (int, error) {
	children, err := repo.ListTemplates(ctx, domain.TemplateFilter{ParentTemplateID: &id})
	if err != nil {
		return 0, fmt.Errorf("list child templates: %w", err)
	}
	deleted := 0
	for _, child := range children {
		n, err := DeleteTemplateTree(ctx, repo, child.ID)
		if err != nil {
			return deleted, err
		}
		deleted += n
	}
	if err := repo.DeleteTemplate(ctx, id); err != nil {
		return deleted, fmt.Errorf("delete template: %w", err)
	}
	return deleted + 1, nil
}

// DeleteOriginTemplates deletes every template owned by a product or an
// ingredient, children before parents.
func DeleteOriginTemplates(ctx context.Context, repo domain.TemplateRepository, filter domain.TemplateFilter) (int, error) {
	filter.IsSubtask = domain.Ptr(false)
	tops, err := repo.ListTemplates(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("list templates: %w", err)
	}
	deleted := 0
	for _, t := range tops {
		n, err := DeleteTemplateTree(ctx, repo, t.ID)
		deleted += n
		if err != nil {
			return deleted, err
		}
	}
	// Orphaned subtasks (parent removed out of band) still block the origin delete.
	filter.IsSubtask = domain.Ptr(true)
	rest, err := repo.ListTemplates(ctx, filter)
	if err != nil {
		return deleted, fmt.Errorf("list templates: %w", err)
	}
	for _, t := range rest {
		n, err := DeleteTemplateTree(ctx, repo, t.ID)
		deleted += n
		if err != nil {
			return deleted, err
		}
	}
	return deleted, nil
}
