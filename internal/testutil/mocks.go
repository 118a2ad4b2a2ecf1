// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/runoshun/shopdesk/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockStore is an in-memory domain.Store. IDs are sequential per kind
// ("task-1", "order-1", ...) so tests can refer to them directly.
// The automatic-task uniqueness rules of the SQL schema are enforced.
// MockStore is not safe for concurrent use.
// Fields are ordered to minimize memory padding.
type MockStore struct {
	Orders      map[string]*domain.Order
	Items       map[string]*domain.OrderItem
	Tasks       map[string]*domain.Task
	Templates   map[string]*domain.TaskTemplate
	Products    map[string]*domain.Product
	Ingredients map[string]*domain.Ingredient
	Links       map[string]*domain.ProductIngredient

	// Error injection
	CreateTaskErr    error
	FindTasksErr     error
	ListTemplatesErr error
	ListItemsErr     error
	UpdateTotalErr   error
	CreateItemErr    error

	// CreateTaskHook runs before each CreateTask; returning an error fails the call.
	CreateTaskHook func(task *domain.Task) error

	seq        map[string]int
	order      map[string]int // insertion sequence per ID
	counter    int
	TxCount    int // Number of WithinTx calls
	TotalCalls int // Number of UpdateOrderTotal calls
}

// NewMockStore creates a new MockStore with initialized maps.
func NewMockStore() *MockStore {
	return &MockStore{
		Orders:      make(map[string]*domain.Order),
		Items:       make(map[string]*domain.OrderItem),
		Tasks:       make(map[string]*domain.Task),
		Templates:   make(map[string]*domain.TaskTemplate),
		Products:    make(map[string]*domain.Product),
		Ingredients: make(map[string]*domain.Ingredient),
		Links:       make(map[string]*domain.ProductIngredient),
		seq:         make(map[string]int),
		order:       make(map[string]int),
	}
}

var _ domain.Store = (*MockStore)(nil)

func (m *MockStore) nextID(kind string) string {
	m.seq[kind]++
	return fmt.Sprintf("%s-%d", kind, m.seq[kind])
}

func (m *MockStore) track(id string) {
	m.counter++
	m.order[id] = m.counter
}

func (m *MockStore) sortByInsertion(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return m.order[ids[i]] < m.order[ids[j]] })
}

func matchPtr(filter, value *string) bool {
	if filter == nil {
		return true
	}
	return value != nil && *value == *filter
}

// === Templates ===

// GetTemplate retrieves a template by ID.
func (m *MockStore) GetTemplate(_ context.Context, id string) (*domain.TaskTemplate, error) {
	t, ok := m.Templates[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

// ListTemplates returns templates matching the filter in insertion order.
func (m *MockStore) ListTemplates(_ context.Context, f domain.TemplateFilter) ([]*domain.TaskTemplate, error) {
	if m.ListTemplatesErr != nil {
		return nil, m.ListTemplatesErr
	}
	ids := make([]string, 0, len(m.Templates))
	for id, t := range m.Templates {
		if !matchPtr(f.ProductID, t.ProductID) || !matchPtr(f.IngredientID, t.IngredientID) ||
			!matchPtr(f.ParentTemplateID, t.ParentTemplateID) {
			continue
		}
		if f.IsSubtask != nil && t.IsSubtask != *f.IsSubtask {
			continue
		}
		ids = append(ids, id)
	}
	m.sortByInsertion(ids)
	out := make([]*domain.TaskTemplate, 0, len(ids))
	for _, id := range ids {
		cp := *m.Templates[id]
		out = append(out, &cp)
	}
	return out, nil
}

// CreateTemplate stores a template.
func (m *MockStore) CreateTemplate(_ context.Context, t *domain.TaskTemplate) error {
	if t.ID == "" {
		t.ID = m.nextID("tmpl")
	}
	cp := *t
	m.Templates[t.ID] = &cp
	m.track(t.ID)
	return nil
}

// DeleteTemplate removes a template.
func (m *MockStore) DeleteTemplate(_ context.Context, id string) error {
	delete(m.Templates, id)
	return nil
}

// === Tasks ===

// GetTask retrieves a task by ID.
func (m *MockStore) GetTask(_ context.Context, id string) (*domain.Task, error) {
	t, ok := m.Tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

// FindTasks returns tasks matching the filter in insertion order.
func (m *MockStore) FindTasks(_ context.Context, f domain.TaskFilter) ([]*domain.Task, error) {
	if m.FindTasksErr != nil {
		return nil, m.FindTasksErr
	}
	ids := make([]string, 0, len(m.Tasks))
	for id, t := range m.Tasks {
		if !matchPtr(f.OrderID, t.OrderID) || !matchPtr(f.ProductID, t.ProductID) ||
			!matchPtr(f.ParentTaskID, t.ParentTaskID) || !matchPtr(f.Title, &t.Title) {
			continue
		}
		if f.RootOnly && t.ParentTaskID != nil {
			continue
		}
		if f.Status != nil && t.Status != *f.Status {
			continue
		}
		if f.TaskType != nil && t.TaskType != *f.TaskType {
			continue
		}
		ids = append(ids, id)
	}
	m.sortByInsertion(ids)
	out := make([]*domain.Task, 0, len(ids))
	for _, id := range ids {
		cp := *m.Tasks[id]
		out = append(out, &cp)
	}
	return out, nil
}

// CreateTask stores a task, enforcing automatic-task uniqueness.
func (m *MockStore) CreateTask(_ context.Context, t *domain.Task) error {
	if m.CreateTaskErr != nil {
		return m.CreateTaskErr
	}
	if m.CreateTaskHook != nil {
		if err := m.CreateTaskHook(t); err != nil {
			return err
		}
	}
	if t.IsAutomatic() {
		for _, existing := range m.Tasks {
			if existing.IsAutomatic() &&
				domain.StringValue(existing.OrderID) == domain.StringValue(t.OrderID) &&
				domain.StringValue(existing.ProductID) == domain.StringValue(t.ProductID) &&
				domain.StringValue(existing.ParentTaskID) == domain.StringValue(t.ParentTaskID) &&
				existing.Title == t.Title {
				return domain.ErrDuplicateDerivation
			}
		}
	}
	if t.ID == "" {
		t.ID = m.nextID("task")
	}
	cp := *t
	m.Tasks[t.ID] = &cp
	m.track(t.ID)
	return nil
}

// UpdateTask replaces a stored task.
func (m *MockStore) UpdateTask(_ context.Context, t *domain.Task) error {
	if _, ok := m.Tasks[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	cp := *t
	m.Tasks[t.ID] = &cp
	return nil
}

// DeleteTask removes a task and its descendants.
func (m *MockStore) DeleteTask(_ context.Context, id string) error {
	for childID, t := range m.Tasks {
		if t.ParentTaskID != nil && *t.ParentTaskID == id {
			_ = m.DeleteTask(context.Background(), childID)
		}
	}
	delete(m.Tasks, id)
	return nil
}

// === Orders ===

// GetOrder retrieves an order by ID.
func (m *MockStore) GetOrder(_ context.Context, id string) (*domain.Order, error) {
	o, ok := m.Orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

// ListOrders returns orders matching the filter, newest first.
func (m *MockStore) ListOrders(_ context.Context, f domain.OrderFilter) ([]*domain.Order, error) {
	ids := make([]string, 0, len(m.Orders))
	for id, o := range m.Orders {
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		if f.CustomerID != nil && o.CustomerID != *f.CustomerID {
			continue
		}
		ids = append(ids, id)
	}
	m.sortByInsertion(ids)
	slices.Reverse(ids)
	out := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		cp := *m.Orders[id]
		out = append(out, &cp)
	}
	return out, nil
}

// CreateOrder stores an order.
func (m *MockStore) CreateOrder(_ context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = m.nextID("order")
	}
	cp := *o
	m.Orders[o.ID] = &cp
	m.track(o.ID)
	return nil
}

// UpdateOrder replaces an order's own fields, keeping the stored total.
func (m *MockStore) UpdateOrder(_ context.Context, o *domain.Order) error {
	existing, ok := m.Orders[o.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	cp := *o
	cp.TotalAmount = existing.TotalAmount
	m.Orders[o.ID] = &cp
	return nil
}

// DeleteOrder removes an order, its items and its tasks.
func (m *MockStore) DeleteOrder(_ context.Context, id string) error {
	for itemID, it := range m.Items {
		if it.OrderID == id {
			delete(m.Items, itemID)
		}
	}
	for taskID, t := range m.Tasks {
		if t.OrderID != nil && *t.OrderID == id {
			delete(m.Tasks, taskID)
		}
	}
	delete(m.Orders, id)
	return nil
}

// UpdateOrderTotal writes the derived total.
func (m *MockStore) UpdateOrderTotal(_ context.Context, orderID string, total decimal.Decimal) error {
	m.TotalCalls++
	if m.UpdateTotalErr != nil {
		return m.UpdateTotalErr
	}
	o, ok := m.Orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	o.TotalAmount = total
	return nil
}

// ListOrderItems returns the items of an order in insertion order.
func (m *MockStore) ListOrderItems(_ context.Context, orderID string) ([]*domain.OrderItem, error) {
	if m.ListItemsErr != nil {
		return nil, m.ListItemsErr
	}
	ids := make([]string, 0)
	for id, it := range m.Items {
		if it.OrderID == orderID {
			ids = append(ids, id)
		}
	}
	m.sortByInsertion(ids)
	out := make([]*domain.OrderItem, 0, len(ids))
	for _, id := range ids {
		cp := *m.Items[id]
		out = append(out, &cp)
	}
	return out, nil
}

// GetOrderItem retrieves an item by ID.
func (m *MockStore) GetOrderItem(_ context.Context, id string) (*domain.OrderItem, error) {
	it, ok := m.Items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

// CreateOrderItem stores an item.
func (m *MockStore) CreateOrderItem(_ context.Context, it *domain.OrderItem) error {
	if m.CreateItemErr != nil {
		return m.CreateItemErr
	}
	if it.ID == "" {
		it.ID = m.nextID("item")
	}
	cp := *it
	m.Items[it.ID] = &cp
	m.track(it.ID)
	return nil
}

// UpdateOrderItem replaces an item.
func (m *MockStore) UpdateOrderItem(_ context.Context, it *domain.OrderItem) error {
	if _, ok := m.Items[it.ID]; !ok {
		return domain.ErrOrderItemNotFound
	}
	cp := *it
	m.Items[it.ID] = &cp
	return nil
}

// DeleteOrderItem removes an item.
func (m *MockStore) DeleteOrderItem(_ context.Context, id string) error {
	delete(m.Items, id)
	return nil
}

// CountProductItems counts items referencing a product.
func (m *MockStore) CountProductItems(_ context.Context, productID string) (int, error) {
	n := 0
	for _, it := range m.Items {
		if it.ProductID == productID {
			n++
		}
	}
	return n, nil
}

// === Catalog ===

// GetProduct retrieves a product by ID.
func (m *MockStore) GetProduct(_ context.Context, id string) (*domain.Product, error) {
	p, ok := m.Products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// FindProductByName retrieves a product by name.
func (m *MockStore) FindProductByName(_ context.Context, name string) (*domain.Product, error) {
	for _, p := range m.Products {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

// ListProducts returns all products ordered by name.
func (m *MockStore) ListProducts(_ context.Context) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(m.Products))
	for _, p := range m.Products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CreateProduct stores a product.
func (m *MockStore) CreateProduct(_ context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = m.nextID("product")
	}
	cp := *p
	m.Products[p.ID] = &cp
	m.track(p.ID)
	return nil
}

// DeleteProduct removes a product and its links.
func (m *MockStore) DeleteProduct(_ context.Context, id string) error {
	for k, l := range m.Links {
		if l.ProductID == id {
			delete(m.Links, k)
		}
	}
	delete(m.Products, id)
	return nil
}

// GetIngredient retrieves an ingredient by ID.
func (m *MockStore) GetIngredient(_ context.Context, id string) (*domain.Ingredient, error) {
	i, ok := m.Ingredients[id]
	if !ok {
		return nil, nil
	}
	cp := *i
	return &cp, nil
}

// FindIngredientByName retrieves an ingredient by name.
func (m *MockStore) FindIngredientByName(_ context.Context, name string) (*domain.Ingredient, error) {
	for _, i := range m.Ingredients {
		if i.Name == name {
			cp := *i
			return &cp, nil
		}
	}
	return nil, nil
}

// ListIngredients returns all ingredients ordered by name.
func (m *MockStore) ListIngredients(_ context.Context) ([]*domain.Ingredient, error) {
	out := make([]*domain.Ingredient, 0, len(m.Ingredients))
	for _, i := range m.Ingredients {
		cp := *i
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// CreateIngredient stores an ingredient.
func (m *MockStore) CreateIngredient(_ context.Context, i *domain.Ingredient) error {
	if i.ID == "" {
		i.ID = m.nextID("ingredient")
	}
	cp := *i
	m.Ingredients[i.ID] = &cp
	m.track(i.ID)
	return nil
}

// DeleteIngredient removes an ingredient and its links.
func (m *MockStore) DeleteIngredient(_ context.Context, id string) error {
	for k, l := range m.Links {
		if l.IngredientID == id {
			delete(m.Links, k)
		}
	}
	delete(m.Ingredients, id)
	return nil
}

// LinkIngredient stores or updates a product-ingredient link.
func (m *MockStore) LinkIngredient(_ context.Context, l *domain.ProductIngredient) error {
	key := l.ProductID + "/" + l.IngredientID
	if _, ok := m.Links[key]; !ok {
		m.track(key)
	}
	cp := *l
	m.Links[key] = &cp
	return nil
}

// ListProductIngredients returns the links of a product in insertion order.
func (m *MockStore) ListProductIngredients(_ context.Context, productID string) ([]*domain.ProductIngredient, error) {
	keys := make([]string, 0)
	for k, l := range m.Links {
		if l.ProductID == productID {
			keys = append(keys, k)
		}
	}
	m.sortByInsertion(keys)
	out := make([]*domain.ProductIngredient, 0, len(keys))
	for _, k := range keys {
		cp := *m.Links[k]
		out = append(out, &cp)
	}
	return out, nil
}

// WithinTx runs fn against the store itself. On error the maps are
// restored to their state before the call.
func (m *MockStore) WithinTx(_ context.Context, fn func(tx domain.Store) error) error {
	m.TxCount++
	snap := m.snapshot()
	if err := fn(m); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type mockSnapshot struct {
	orders    map[string]domain.Order
	items     map[string]domain.OrderItem
	tasks     map[string]domain.Task
	templates map[string]domain.TaskTemplate
}

func (m *MockStore) snapshot() mockSnapshot {
	s := mockSnapshot{
		orders:    make(map[string]domain.Order, len(m.Orders)),
		items:     make(map[string]domain.OrderItem, len(m.Items)),
		tasks:     make(map[string]domain.Task, len(m.Tasks)),
		templates: make(map[string]domain.TaskTemplate, len(m.Templates)),
	}
	for k, v := range m.Orders {
		s.orders[k] = *v
	}
	for k, v := range m.Items {
		s.items[k] = *v
	}
	for k, v := range m.Tasks {
		s.tasks[k] = *v
	}
	for k, v := range m.Templates {
		s.templates[k] = *v
	}
	return s
}

func (m *MockStore) restore(s mockSnapshot) {
	m.Orders = make(map[string]*domain.Order, len(s.orders))
	for k, v := range s.orders {
		m.Orders[k] = &v
	}
	m.Items = make(map[string]*domain.OrderItem, len(s.items))
	for k, v := range s.items {
		m.Items[k] = &v
	}
	m.Tasks = make(map[string]*domain.Task, len(s.tasks))
	for k, v := range s.tasks {
		m.Tasks[k] = &v
	}
	m.Templates = make(map[string]*domain.TaskTemplate, len(s.templates))
	for k, v := range s.templates {
		m.Templates[k] = &v
	}
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	InitErr     error
	Initialized bool
}

// IsInitialized reports the configured state.
func (m *MockStoreInitializer) IsInitialized(_ context.Context) (bool, error) {
	return m.Initialized, nil
}

// Initialize marks the store initialized.
func (m *MockStoreInitializer) Initialize(_ context.Context) error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Initialized = true
	return nil
}

// LogEntry is a single entry recorded by MockLogger.
type LogEntry struct {
	Level    string
	Scope    string
	Category string
	Msg      string
}

// MockLogger records log entries.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (l *MockLogger) add(level, scope, category, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Scope: scope, Category: category, Msg: msg})
}

// Debug records a debug entry.
func (l *MockLogger) Debug(scope, category, msg string) { l.add("DEBUG", scope, category, msg) }

// Info records an info entry.
func (l *MockLogger) Info(scope, category, msg string) { l.add("INFO", scope, category, msg) }

// Warn records a warning entry.
func (l *MockLogger) Warn(scope, category, msg string) { l.add("WARN", scope, category, msg) }

// Error records an error entry.
func (l *MockLogger) Error(scope, category, msg string) { l.add("ERROR", scope, category, msg) }

// Count returns how many entries were recorded at level.
func (l *MockLogger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config *domain.Config
	Err    error
}

// Load returns the configured config or the default.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Config == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.Config, nil
}

// LoadGlobal returns the same as Load.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	return m.Load()
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitErr          error
	LocalConfigInfo  domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
	InitLocalCalled  bool
	InitGlobalCalled bool
}

// NewMockConfigManager creates a new MockConfigManager.
func NewMockConfigManager() *MockConfigManager {
	return &MockConfigManager{}
}

var _ domain.ConfigManager = (*MockConfigManager)(nil)

// GetLocalConfigInfo returns the configured local info.
func (m *MockConfigManager) GetLocalConfigInfo() domain.ConfigInfo {
	return m.LocalConfigInfo
}

// GetGlobalConfigInfo returns the configured global info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo {
	return m.GlobalConfigInfo
}

// InitLocalConfig records the call and fails if the file exists.
func (m *MockConfigManager) InitLocalConfig(_ *domain.Config) error {
	m.InitLocalCalled = true
	if m.InitErr != nil {
		return m.InitErr
	}
	if m.LocalConfigInfo.Exists {
		return domain.ErrConfigExists
	}
	return nil
}

// InitGlobalConfig records the call and fails if the file exists.
func (m *MockConfigManager) InitGlobalConfig(_ *domain.Config) error {
	m.InitGlobalCalled = true
	if m.InitErr != nil {
		return m.InitErr
	}
	if m.GlobalConfigInfo.Exists {
		return domain.ErrConfigExists
	}
	return nil
}

// MockCatalogCodec is a test double for domain.CatalogCodec.
type MockCatalogCodec struct {
	Spec      *domain.CatalogSpec // Returned by Decode
	DecodeErr error
	Encoded   *domain.CatalogSpec // Last spec passed to Encode
}

// Decode returns the configured spec.
func (m *MockCatalogCodec) Decode(_ []byte) (*domain.CatalogSpec, error) {
	if m.DecodeErr != nil {
		return nil, m.DecodeErr
	}
	if m.Spec == nil {
		return &domain.CatalogSpec{}, nil
	}
	return m.Spec, nil
}

// Encode records spec and returns a short marker.
func (m *MockCatalogCodec) Encode(spec *domain.CatalogSpec) ([]byte, error) {
	m.Encoded = spec
	return []byte("encoded"), nil
}
