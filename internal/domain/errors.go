package domain

import "errors"

// Domain errors.
var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrOrderItemNotFound   = errors.New("order item not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrIngredientNotFound  = errors.New("ingredient not found")
	ErrTemplateNotFound    = errors.New("task template not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrParentNotFound      = errors.New("parent task not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidPriority     = errors.New("invalid priority (use low, medium or high)")
	ErrEmptyTitle          = errors.New("title cannot be empty")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrInvalidQuantity     = errors.New("quantity must be greater than zero")
	ErrNegativePrice       = errors.New("price cannot be negative")
	ErrTemplateOrigin      = errors.New("template must belong to a product or an ingredient")
	ErrSubtaskParent       = errors.New("subtask template requires a parent template, top-level templates must not have one")
	ErrNestedSubtask       = errors.New("parent template is itself a subtask")
	ErrProductInUse        = errors.New("product is referenced by order items")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
	ErrDuplicateDerivation = errors.New("task already derived for this order and product")
	ErrNotInitialized      = errors.New("shopdesk not initialized (run 'shopdesk init' first)")
	ErrConfigExists        = errors.New("config file already exists")
	ErrDuplicateName       = errors.New("name already exists")
	ErrLogNotFound         = errors.New("no log file found")
)
