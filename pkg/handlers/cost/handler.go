package cost

import (
	"net/http"

	"github.com/gmn-dev/dispatch/pkg/adapters"
	"github.com/gmn-dev/dispatch/pkg/handlers"
	"github.com/gmn-dev/dispatch/pkg/models/api"
	"github.com/gmn-dev/dispatch/pkg/models/domain"
	"github.com/gmn-dev/dispatch/pkg/store/duckdb/cost"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	store cost.Store
}

func NewHandler(store cost.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.CostFilter{
		Status:       q.Get("status"),
		WorkOrderID:  q.Get("work_order_id"),
		TechnicianID: q.Get("technician_id"),
	}
	page := handlers.ParsePage(r)

	records, total, err := h.store.List(r.Context(), filter, page)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	response := api.PaginatedResponse[api.Cost]{
		Data:       make([]api.Cost, 0, len(records)),
		Pagination: handlers.NewPagination(page, total),
	}
	for _, record := range records {
		response.Data = append(response.Data, adapters.MapCostDomainToApi(adapters.MapStoreCostToDomain(record)))
	}
	handlers.WriteJSON(w, r, http.StatusOK, response)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapCostDomainToApi(adapters.MapStoreCostToDomain(*record)))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req api.CreateCostRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	c, err := adapters.MapCreateCostRequestToDomain(req)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	record, err := h.store.Create(r.Context(), adapters.MapDomainCostToStore(c))
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, r, http.StatusCreated, adapters.MapCostDomainToApi(adapters.MapStoreCostToDomain(*record)))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateCostRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	update, err := adapters.MapUpdateCostRequestToDomain(req)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}

	record, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, adapters.MapCostDomainToApi(adapters.MapStoreCostToDomain(*record)))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handlers.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, r, http.StatusOK, api.DeleteResponse{Success: true})
}
