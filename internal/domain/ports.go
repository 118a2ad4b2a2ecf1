package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// IsInitialized reports whether the schema has been created.
	IsInitialized(ctx context.Context) (bool, error)

	// Initialize creates or migrates the schema. Safe to call repeatedly.
	Initialize(ctx context.Context) error
}

// TemplateRepository manages task template persistence.
type TemplateRepository interface {
	// GetTemplate retrieves a template by ID. Returns nil if not found.
	GetTemplate(ctx context.Context, id string) (*TaskTemplate, error)

	// ListTemplates retrieves templates matching the filter, oldest first.
	ListTemplates(ctx context.Context, filter TemplateFilter) ([]*TaskTemplate, error)

	// CreateTemplate inserts a template and assigns its ID.
	CreateTemplate(ctx context.Context, tmpl *TaskTemplate) error

	// DeleteTemplate removes a template by ID.
	DeleteTemplate(ctx context.Context, id string) error
}

// TaskRepository manages task persistence.
type TaskRepository interface {
	// GetTask retrieves a task by ID. Returns nil if not found.
	GetTask(ctx context.Context, id string) (*Task, error)

	// FindTasks retrieves tasks matching the filter, oldest first.
	FindTasks(ctx context.Context, filter TaskFilter) ([]*Task, error)

	// CreateTask inserts a task and assigns its ID.
	// Returns ErrDuplicateDerivation if an automatic task with the same
	// order, product, title and parent already exists.
	CreateTask(ctx context.Context, task *Task) error

	// UpdateTask updates an existing task.
	UpdateTask(ctx context.Context, task *Task) error

	// DeleteTask removes a task and its subtasks.
	DeleteTask(ctx context.Context, id string) error
}

// OrderRepository manages orders and their line items.
type OrderRepository interface {
	// GetOrder retrieves an order by ID. Returns nil if not found.
	GetOrder(ctx context.Context, id string) (*Order, error)

	// ListOrders retrieves orders matching the filter, newest first.
	ListOrders(ctx context.Context, filter OrderFilter) ([]*Order, error)

	// CreateOrder inserts an order and assigns its ID.
	CreateOrder(ctx context.Context, order *Order) error

	// UpdateOrder updates an existing order's own fields (not its total).
	UpdateOrder(ctx context.Context, order *Order) error

	// DeleteOrder removes an order together with its items and tasks.
	DeleteOrder(ctx context.Context, id string) error

	// UpdateOrderTotal writes the derived total amount.
	UpdateOrderTotal(ctx context.Context, orderID string, total decimal.Decimal) error

	// ListOrderItems retrieves the items of an order.
	ListOrderItems(ctx context.Context, orderID string) ([]*OrderItem, error)

	// GetOrderItem retrieves an item by ID. Returns nil if not found.
	GetOrderItem(ctx context.Context, id string) (*OrderItem, error)

	// CreateOrderItem inserts an item and assigns its ID.
	CreateOrderItem(ctx context.Context, item *OrderItem) error

	// UpdateOrderItem updates quantity and price of an item.
	UpdateOrderItem(ctx context.Context, item *OrderItem) error

	// DeleteOrderItem removes an item by ID.
	DeleteOrderItem(ctx context.Context, id string) error

	// CountProductItems returns how many order items reference a product.
	CountProductItems(ctx context.Context, productID string) (int, error)
}

// CatalogRepository manages products, ingredients and the links between them.
type CatalogRepository interface {
	// GetProduct retrieves a product by ID. Returns nil if not found.
	GetProduct(ctx context.Context, id string) (*Product, error)

	// FindProductByName retrieves a product by exact name. Returns nil if not found.
	FindProductByName(ctx context.Context, name string) (*Product, error)

	// ListProducts retrieves all products ordered by name.
	ListProducts(ctx context.Context) ([]*Product, error)

	// CreateProduct inserts a product and assigns its ID.
	CreateProduct(ctx context.Context, p *Product) error

	// DeleteProduct removes a product and its ingredient links.
	DeleteProduct(ctx context.Context, id string) error

	// GetIngredient retrieves an ingredient by ID. Returns nil if not found.
	GetIngredient(ctx context.Context, id string) (*Ingredient, error)

	// FindIngredientByName retrieves an ingredient by exact name. Returns nil if not found.
	FindIngredientByName(ctx context.Context, name string) (*Ingredient, error)

	// ListIngredients retrieves all ingredients ordered by name.
	ListIngredients(ctx context.Context) ([]*Ingredient, error)

	// CreateIngredient inserts an ingredient and assigns its ID.
	CreateIngredient(ctx context.Context, i *Ingredient) error

	// DeleteIngredient removes an ingredient and its product links.
	DeleteIngredient(ctx context.Context, id string) error

	// LinkIngredient records that a product uses an ingredient.
	// Linking an existing pair updates its quantity.
	LinkIngredient(ctx context.Context, link *ProductIngredient) error

	// ListProductIngredients retrieves the ingredient links of a product.
	ListProductIngredients(ctx context.Context, productID string) ([]*ProductIngredient, error)
}

// Store aggregates every repository and adds transactions.
type Store interface {
	TemplateRepository
	TaskRepository
	OrderRepository
	CatalogRepository

	// WithinTx runs fn against a transactional view of the store.
	// The transaction commits if fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (default ← global ← local ← env).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetLocalConfigInfo returns information about the data-dir config file.
	GetLocalConfigInfo() ConfigInfo

	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// InitLocalConfig writes the default config into the data dir.
	InitLocalConfig(cfg *Config) error

	// InitGlobalConfig writes the default config into the global config dir.
	InitGlobalConfig(cfg *Config) error
}

// ConfigInfo describes a config file on disk.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// Logger writes operational log entries.
// scope is an order ID for order-scoped entries, or "" for global ones.
type Logger interface {
	Debug(scope, category, msg string)
	Info(scope, category, msg string)
	Warn(scope, category, msg string)
	Error(scope, category, msg string)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// CatalogCodec converts catalog files to and from CatalogSpec.
type CatalogCodec interface {
	// Decode parses catalog file content.
	Decode(data []byte) (*CatalogSpec, error)

	// Encode renders a catalog as file content.
	Encode(spec *CatalogSpec) ([]byte, error)
}
