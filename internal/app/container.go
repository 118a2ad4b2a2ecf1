// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/infra/catalogfile"
	"github.com/runoshun/shopdesk/internal/infra/config"
	"github.com/runoshun/shopdesk/internal/infra/logging"
	"github.com/runoshun/shopdesk/internal/infra/sqlstore"
	"github.com/runoshun/shopdesk/internal/usecase"
)

// Config holds the application paths.
type Config struct {
	Root         string // Directory shopdesk was started in
	DataDir      string // Path to .shopdesk directory
	DatabasePath string // Path to the SQLite database
}

// newConfig resolves paths for root using the loaded app config.
func newConfig(root string, appConfig *domain.Config) Config {
	dataDir := domain.DataDir(root)
	return Config{
		Root:         root,
		DataDir:      dataDir,
		DatabasePath: domain.DatabasePath(dataDir, appConfig.Store.Path),
	}
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Store            domain.Store
	StoreInitializer domain.StoreInitializer
	Clock            domain.Clock
	Logger           domain.Logger
	ConfigLoader     domain.ConfigLoader
	ConfigManager    domain.ConfigManager
	Codec            domain.CatalogCodec

	// Pointer fields
	AppConfig *domain.Config
	db        *sqlx.DB
	logFile   *logging.Logger

	// Configuration
	Config Config
}

// New creates a new Container for the data directory below root.
// The database is opened only if the data directory exists; call OpenStore
// after creating it.
func New(root string) (*Container, error) {
	dataDir := domain.DataDir(root)

	configLoader := config.NewLoader(dataDir)
	appConfig, err := configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg := newConfig(root, appConfig)
	logFile := logging.New(dataDir, logging.ParseLevel(appConfig.Log.Level))

	c := &Container{
		Clock:         domain.RealClock{},
		Logger:        logFile,
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(dataDir),
		Codec:         catalogfile.NewCodec(),
		AppConfig:     appConfig,
		logFile:       logFile,
		Config:        cfg,
	}

	if _, err := os.Stat(dataDir); err == nil {
		if err := c.OpenStore(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(cfg Config, store domain.Store, storeInit domain.StoreInitializer, clock domain.Clock, logger domain.Logger) *Container {
	return &Container{
		Store:            store,
		StoreInitializer: storeInit,
		Clock:            clock,
		Logger:           logger,
		Codec:            catalogfile.NewCodec(),
		AppConfig:        domain.NewDefaultConfig(),
		Config:           cfg,
	}
}

// OpenStore opens the SQLite database. It is a no-op if the store is
// already bound.
func (c *Container) OpenStore() error {
	if c.Store != nil {
		return nil
	}
	db, err := sqlstore.Open(sqlstore.Options{
		Path:          c.Config.DatabasePath,
		BusyTimeoutMS: c.AppConfig.Store.BusyTimeoutMS,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	c.db = db
	c.Store = sqlstore.New(db)
	c.StoreInitializer = sqlstore.NewInitializer(db)
	return nil
}

// Ready reports whether a store is bound.
func (c *Container) Ready() bool {
	return c.Store != nil
}

// MirrorLogs copies log entries to w in addition to the log files.
func (c *Container) MirrorLogs(w io.Writer) {
	if c.logFile != nil {
		c.logFile.SetMirror(w)
	}
}

// Close releases the database and log files.
func (c *Container) Close() error {
	var errs []error
	if c.db != nil {
		errs = append(errs, c.db.Close())
	}
	if c.logFile != nil {
		errs = append(errs, c.logFile.Close())
	}
	return errors.Join(errs...)
}

func (c *Container) bestEffort() bool {
	return c.AppConfig == nil || c.AppConfig.Derive.BestEffort
}

// UseCase factory methods

// InitStoreUseCase returns a new InitStore use case.
func (c *Container) InitStoreUseCase() *usecase.InitStore {
	return usecase.NewInitStore(c.StoreInitializer, c.Logger)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowConfigTemplateUseCase returns a new ShowConfigTemplate use case.
func (c *Container) ShowConfigTemplateUseCase() *usecase.ShowConfigTemplate {
	return usecase.NewShowConfigTemplate()
}

// ShowLogsUseCase returns a new ShowLogs use case.
func (c *Container) ShowLogsUseCase() *usecase.ShowLogs {
	return usecase.NewShowLogs(c.Store, c.Config.DataDir)
}

// CreateProductUseCase returns a new CreateProduct use case.
func (c *Container) CreateProductUseCase() *usecase.CreateProduct {
	return usecase.NewCreateProduct(c.Store, c.Clock)
}

// ListProductsUseCase returns a new ListProducts use case.
func (c *Container) ListProductsUseCase() *usecase.ListProducts {
	return usecase.NewListProducts(c.Store)
}

// DeleteProductUseCase returns a new DeleteProduct use case.
func (c *Container) DeleteProductUseCase() *usecase.DeleteProduct {
	return usecase.NewDeleteProduct(c.Store)
}

// CreateIngredientUseCase returns a new CreateIngredient use case.
func (c *Container) CreateIngredientUseCase() *usecase.CreateIngredient {
	return usecase.NewCreateIngredient(c.Store, c.Clock)
}

// ListIngredientsUseCase returns a new ListIngredients use case.
func (c *Container) ListIngredientsUseCase() *usecase.ListIngredients {
	return usecase.NewListIngredients(c.Store)
}

// DeleteIngredientUseCase returns a new DeleteIngredient use case.
func (c *Container) DeleteIngredientUseCase() *usecase.DeleteIngredient {
	return usecase.NewDeleteIngredient(c.Store)
}

// LinkIngredientUseCase returns a new LinkIngredient use case.
func (c *Container) LinkIngredientUseCase() *usecase.LinkIngredient {
	return usecase.NewLinkIngredient(c.Store)
}

// CreateTemplateUseCase returns a new CreateTemplate use case.
func (c *Container) CreateTemplateUseCase() *usecase.CreateTemplate {
	return usecase.NewCreateTemplate(c.Store, c.Store, c.Clock)
}

// ListTemplatesUseCase returns a new ListTemplates use case.
func (c *Container) ListTemplatesUseCase() *usecase.ListTemplates {
	return usecase.NewListTemplates(c.Store)
}

// DeleteTemplateUseCase returns a new DeleteTemplate use case.
func (c *Container) DeleteTemplateUseCase() *usecase.DeleteTemplate {
	return usecase.NewDeleteTemplate(c.Store)
}

// ImportTemplatesUseCase returns a new ImportTemplates use case.
func (c *Container) ImportTemplatesUseCase() *usecase.ImportTemplates {
	return usecase.NewImportTemplates(c.Store, c.Codec, c.Clock, c.Logger)
}

// ExportTemplatesUseCase returns a new ExportTemplates use case.
func (c *Container) ExportTemplatesUseCase() *usecase.ExportTemplates {
	return usecase.NewExportTemplates(c.Store, c.Codec)
}

// ListProductTasksUseCase returns a new ListProductTasks use case.
func (c *Container) ListProductTasksUseCase() *usecase.ListProductTasks {
	return usecase.NewListProductTasks(c.Store)
}

// CreateOrderUseCase returns a new CreateOrder use case.
func (c *Container) CreateOrderUseCase() *usecase.CreateOrder {
	return usecase.NewCreateOrder(c.Store, c.Clock, c.Logger, c.bestEffort())
}

// ListOrdersUseCase returns a new ListOrders use case.
func (c *Container) ListOrdersUseCase() *usecase.ListOrders {
	return usecase.NewListOrders(c.Store)
}

// ShowOrderUseCase returns a new ShowOrder use case.
func (c *Container) ShowOrderUseCase() *usecase.ShowOrder {
	return usecase.NewShowOrder(c.Store, c.Store)
}

// UpdateOrderStatusUseCase returns a new UpdateOrderStatus use case.
func (c *Container) UpdateOrderStatusUseCase() *usecase.UpdateOrderStatus {
	return usecase.NewUpdateOrderStatus(c.Store, c.Clock, c.Logger)
}

// DeleteOrderUseCase returns a new DeleteOrder use case.
func (c *Container) DeleteOrderUseCase() *usecase.DeleteOrder {
	return usecase.NewDeleteOrder(c.Store, c.Logger)
}

// AddOrderItemUseCase returns a new AddOrderItem use case.
func (c *Container) AddOrderItemUseCase() *usecase.AddOrderItem {
	return usecase.NewAddOrderItem(c.Store, c.Clock, c.Logger, c.bestEffort())
}

// UpdateOrderItemUseCase returns a new UpdateOrderItem use case.
func (c *Container) UpdateOrderItemUseCase() *usecase.UpdateOrderItem {
	return usecase.NewUpdateOrderItem(c.Store, c.Logger)
}

// RemoveOrderItemUseCase returns a new RemoveOrderItem use case.
func (c *Container) RemoveOrderItemUseCase() *usecase.RemoveOrderItem {
	return usecase.NewRemoveOrderItem(c.Store, c.Logger)
}

// RecomputeOrderTotalUseCase returns a new RecomputeOrderTotal use case.
func (c *Container) RecomputeOrderTotalUseCase() *usecase.RecomputeOrderTotal {
	return usecase.NewRecomputeOrderTotal(c.Store)
}

// DeriveTasksUseCase returns a new DeriveTasks use case.
func (c *Container) DeriveTasksUseCase() *usecase.DeriveTasks {
	return usecase.NewDeriveTasks(c.Store, c.Store, c.Store, c.Store, c.Clock, c.Logger)
}

// CreateTaskUseCase returns a new CreateTask use case.
func (c *Container) CreateTaskUseCase() *usecase.CreateTask {
	return usecase.NewCreateTask(c.Store, c.Store, c.Clock, c.Logger)
}

// ListTasksUseCase returns a new ListTasks use case.
func (c *Container) ListTasksUseCase() *usecase.ListTasks {
	return usecase.NewListTasks(c.Store)
}

// ShowTaskUseCase returns a new ShowTask use case.
func (c *Container) ShowTaskUseCase() *usecase.ShowTask {
	return usecase.NewShowTask(c.Store)
}

// MoveTaskUseCase returns a new MoveTask use case.
func (c *Container) MoveTaskUseCase() *usecase.MoveTask {
	return usecase.NewMoveTask(c.Store, c.Clock, c.Logger)
}

// EditTaskUseCase returns a new EditTask use case.
func (c *Container) EditTaskUseCase() *usecase.EditTask {
	return usecase.NewEditTask(c.Store, c.Clock)
}

// DeleteTaskUseCase returns a new DeleteTask use case.
func (c *Container) DeleteTaskUseCase() *usecase.DeleteTask {
	return usecase.NewDeleteTask(c.Store, c.Logger)
}
