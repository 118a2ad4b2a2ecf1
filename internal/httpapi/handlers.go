package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/runoshun/shopdesk/internal/domain"
	"github.com/runoshun/shopdesk/internal/usecase"
)

// queryPtr returns a pointer to the query value, or nil if it is absent.
func queryPtr(r *http.Request, name string) *string {
	if v := r.URL.Query().Get(name); v != "" {
		return &v
	}
	return nil
}

func queryBool(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, badRequest("query %s: %v", name, err)
	}
	return b, nil
}

// ---- orders ----

type itemRequest struct {
	Price     *decimal.Decimal `json:"price,omitempty"`
	Quantity  decimal.Decimal  `json:"quantity"`
	ProductID string           `json:"productId"`
}

func (r itemRequest) toInput() usecase.OrderItemInput {
	return usecase.OrderItemInput{ProductID: r.ProductID, Quantity: r.Quantity, Price: r.Price}
}

type createOrderRequest struct {
	OrderDate    *time.Time    `json:"orderDate,omitempty"`
	DeliveryDate *time.Time    `json:"deliveryDate,omitempty"`
	CustomerID   string        `json:"customerId"`
	Notes        string        `json:"notes"`
	Items        []itemRequest `json:"items"`
}

type createOrderResponse struct {
	Order   *domain.Order              `json:"order"`
	Derived *usecase.DeriveTasksOutput `json:"derived,omitempty"`
	Warning string                     `json:"warning,omitempty"`
	Items   []*domain.OrderItem        `json:"items"`
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	in := usecase.CreateOrderInput{
		OrderDate:    req.OrderDate,
		DeliveryDate: req.DeliveryDate,
		CustomerID:   req.CustomerID,
		Notes:        req.Notes,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, item.toInput())
	}

	out, err := s.container.CreateOrderUseCase().Execute(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createOrderResponse{
		Order:   out.Order,
		Items:   out.Items,
		Derived: out.Derived,
		Warning: warningOf(out.DerivationErr),
	})
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	in := usecase.ListOrdersInput{CustomerID: queryPtr(r, "customerId")}
	if st := queryPtr(r, "status"); st != nil {
		status := domain.OrderStatus(*st)
		in.Status = &status
	}
	out, err := s.container.ListOrdersUseCase().Execute(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": nonNil(out.Orders)})
}

func (s *Server) showOrder(w http.ResponseWriter, r *http.Request) {
	out, err := s.container.ShowOrderUseCase().Execute(r.Context(), usecase.ShowOrderInput{OrderID: mux.Vars(r)["id"]})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"order": out.Order,
		"items": nonNil(out.Items),
		"tasks": nonNil(out.Tasks),
	})
}

func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	out, err := s.container.DeleteOrderUseCase().Execute(r.Context(), usecase.DeleteOrderInput{OrderID: mux.Vars(r)["id"]})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"itemsDeleted": out.ItemsDeleted,
		"tasksDeleted": out.TasksDeleted,
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (s *Server) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	out, err := s.container.UpdateOrderStatusUseCase().Execute(r.Context(), usecase.UpdateOrderStatusInput{
		OrderID: mux.Vars(r)["id"],
		Status:  domain.OrderStatus(req.Status),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out.Order)
}

type addItemResponse struct {
	Item    *domain.OrderItem          `json:"item"`
	Derived *usecase.DeriveTasksOutput `json:"derived,omitempty"`
	Warning string                     `json:"warning,omitempty"`
	Total   decimal.Decimal            `json:"total"`
}

func (s *Server) addOrderItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	out, err := s.container.AddOrderItemUseCase().Execute(r.Context(), usecase.AddOrderItemInput{
		OrderID:        mux.Vars(r)["id"],
		OrderItemInput: req.toInput(),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, addItemResponse{
		Item:    out.Item,
		Derived: out.Derived,
		Warning: warningOf(out.DerivationErr),
		Total:   out.Total,
	})
}

type updateItemRequest struct {
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Price    *decimal.Decimal `json:"price,omitempty"`
}

func (s *Server) updateOrderItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	vars := mux.Vars(r)
	out, err := s.container.UpdateOrderItemUseCase().Execute(r.Context(), usecase.UpdateOrderItemInput{
		OrderID:  vars["id"],
		ItemID:   vars["itemID"],
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item": out.Item, "total": out.Total})
}

func (s *Server) removeOrderItem(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	out, err := s.container.RemoveOrderItemUseCase().Execute(r.Context(), usecase.RemoveOrderItemInput{
		OrderID: vars["id"],
		ItemID:  vars["itemID"],
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"total": out.Total})
}

func (s *Server) deriveTasks(w http.ResponseWriter, r *http.Request) {
	out, err := s.container.DeriveTasksUseCase().Execute(r.Context(), usecase.DeriveTasksInput{
		OrderID:   mux.Vars(r)["id"],
		ProductID: queryPtr(r, "productId"),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// ---- tasks ----

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	all, err := queryBool(r, "all")
	if err != nil {
		s.writeError(w, err)
		return
	}
	rootOnly, err := queryBool(r, "rootOnly")
	if err != nil {
		s.writeError(w, err)
		return
	}
	in := usecase.ListTasksInput{
		OrderID:         queryPtr(r, "orderId"),
		ProductID:       queryPtr(r, "productId"),
		ParentTaskID:    queryPtr(r, "parentTaskId"),
		RootOnly:        rootOnly,
		IncludeTerminal: all,
	}
	if st := queryPtr(r, "status"); st != nil {
		status := domain.Status(*st)
		in.Status = &status
	}
	if tt := queryPtr(r, "type"); tt != nil {
		taskType := domain.TaskType(*tt)
		in.TaskType = &taskType
	}
	out, err := s.container.ListTasksUseCase().Execute(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": nonNil(out.Tasks)})
}

type createTaskRequest struct {
	Deadline     *time.Time `json:"deadline,omitempty"`
	OrderID      *string    `json:"orderId,omitempty"`
	ParentTaskID *string    `json:"parentTaskId,omitempty"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Assignee     string     `json:"assignee"`
	Priority     string     `json:"priority"`
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	out, err := s.container.CreateTaskUseCase().Execute(r.Context(), usecase.CreateTaskInput{
		Deadline:     req.Deadline,
		OrderID:      req.OrderID,
		ParentTaskID: req.ParentTaskID,
		Title:        req.Title,
		Description:  req.Description,
		Assignee:     req.Assignee,
		Priority:     domain.Priority(req.Priority),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out.Task)
}

func (s *Server) showTask(w http.ResponseWriter, r *http.Request) {
	out, err := s.container.ShowTaskUseCase().Execute(r.Context(), usecase.ShowTaskInput{TaskID: mux.Vars(r)["id"]})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"task": out.Task, "subtasks": nonNil(out.Subtasks)})
}

func (s *Server) moveTask(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	out, err := s.container.MoveTaskUseCase().Execute(r.Context(), usecase.MoveTaskInput{
		TaskID: mux.Vars(r)["id"],
		Status: domain.Status(req.Status),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"task": out.Task, "from": out.From})
}

// ---- templates and catalog ----

func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	filter := domain.TemplateFilter{
		ProductID:        queryPtr(r, "productId"),
		IngredientID:     queryPtr(r, "ingredientId"),
		ParentTemplateID: queryPtr(r, "parentTemplateId"),
	}
	if r.URL.Query().Has("subtask") {
		sub, err := queryBool(r, "subtask")
		if err != nil {
			s.writeError(w, err)
			return
		}
		filter.IsSubtask = &sub
	}
	out, err := s.container.ListTemplatesUseCase().Execute(r.Context(), usecase.ListTemplatesInput{Filter: filter})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": nonNil(out.Templates)})
}

type createTemplateRequest struct {
	ProductID        *string `json:"productId,omitempty"`
	IngredientID     *string `json:"ingredientId,omitempty"`
	ParentTemplateID *string `json:"parentTemplateId,omitempty"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Priority         string  `json:"priority"`
}

func (s *Server) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req createTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	out, err := s.container.CreateTemplateUseCase().Execute(r.Context(), usecase.CreateTemplateInput{
		ProductID:        req.ProductID,
		IngredientID:     req.IngredientID,
		ParentTemplateID: req.ParentTemplateID,
		Title:            req.Title,
		Description:      req.Description,
		Priority:         domain.Priority(req.Priority),
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out.Template)
}

func (s *Server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	out, err := s.container.DeleteTemplateUseCase().Execute(r.Context(), usecase.DeleteTemplateInput{TemplateID: mux.Vars(r)["id"]})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": out.Deleted})
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	out, err := s.container.ListProductsUseCase().Execute(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": nonNil(out.Products)})
}

type createProductRequest struct {
	Price    decimal.Decimal `json:"price"`
	Name     string          `json:"name"`
	Stock    int             `json:"stock"`
	MinStock int             `json:"minStock"`
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	out, err := s.container.CreateProductUseCase().Execute(r.Context(), usecase.CreateProductInput{
		Price:    req.Price,
		Name:     req.Name,
		Stock:    req.Stock,
		MinStock: req.MinStock,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out.Product)
}

type inheritedTemplate struct {
	Template   *domain.TaskTemplate `json:"template"`
	Ingredient *domain.Ingredient   `json:"ingredient"`
}

func (s *Server) listProductTasks(w http.ResponseWriter, r *http.Request) {
	out, err := s.container.ListProductTasksUseCase().Execute(r.Context(), usecase.ListProductTasksInput{ProductID: mux.Vars(r)["id"]})
	if err != nil {
		s.writeError(w, err)
		return
	}
	inherited := make([]inheritedTemplate, 0, len(out.Inherited))
	for _, it := range out.Inherited {
		inherited = append(inherited, inheritedTemplate{Template: it.Template, Ingredient: it.Ingredient})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"product":   out.Product,
		"tasks":     nonNil(out.Tasks),
		"templates": nonNil(out.Templates),
		"inherited": inherited,
	})
}

func (s *Server) listIngredients(w http.ResponseWriter, r *http.Request) {
	out, err := s.container.ListIngredientsUseCase().Execute(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ingredients": nonNil(out.Ingredients)})
}

type createIngredientRequest struct {
	Name  string `json:"name"`
	Unit  string `json:"unit"`
	Stock int    `json:"stock"`
}

func (s *Server) createIngredient(w http.ResponseWriter, r *http.Request) {
	var req createIngredientRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	out, err := s.container.CreateIngredientUseCase().Execute(r.Context(), usecase.CreateIngredientInput{
		Name:  req.Name,
		Unit:  req.Unit,
		Stock: req.Stock,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, out.Ingredient)
}

// nonNil makes empty lists encode as [] instead of null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
