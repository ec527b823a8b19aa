package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/retailku/order-admin/internal/order/domain"
	"github.com/retailku/order-admin/internal/order/service"
	"github.com/retailku/order-admin/pkg/httputil"
	"github.com/retailku/order-admin/pkg/i18n"
	"github.com/retailku/order-admin/pkg/logger"
)

// StatusRequest is the body of a status change.
type StatusRequest struct {
	Status string `json:"status" validate:"required,order_status"`
}

// APIHandler serves admin views as JSON.
type APIHandler struct {
	registry *service.ViewRegistry
	present  presenter
	logger   *logger.Logger
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(registry *service.ViewRegistry, loc *time.Location, log *logger.Logger) *APIHandler {
	domain.RegisterValidation()
	return &APIHandler{
		registry: registry,
		present:  presenter{loc: loc},
		logger:   log,
	}
}

// Routes registers the view endpoints on r.
func (h *APIHandler) Routes(r chi.Router) {
	r.Get("/statuses", h.Statuses)
	r.Route("/views", func(r chi.Router) {
		r.Post("/", h.Open)
		r.Route("/{viewID}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Delete("/", h.Close)
			r.Post("/prev", h.Prev)
			r.Post("/next", h.Next)
			r.Patch("/orders/{orderID}/status", h.SetStatus)
			r.Delete("/orders/{orderID}", h.DeleteOrder)
		})
	})
}

// Open mounts a new view
func (h *APIHandler) Open(w http.ResponseWriter, r *http.Request) {
	v := h.registry.Open(r.Context())
	httputil.Created(w, ViewResponse{ID: v.ID(), State: v.State(), Orders: []OrderResponse{}})
}

// Get returns the current page, jumping first when ?page is given
func (h *APIHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.registry.Get(chi.URLParam(r, "viewID"))
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	page, err := pageParam(r)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	if page != 0 {
		v.GoTo(page)
	}

	h.writePage(w, r, v)
}

// Prev moves back one page
func (h *APIHandler) Prev(w http.ResponseWriter, r *http.Request) {
	v, err := h.registry.Get(chi.URLParam(r, "viewID"))
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	v.Prev()
	h.writePage(w, r, v)
}

// Next moves forward one page
func (h *APIHandler) Next(w http.ResponseWriter, r *http.Request) {
	v, err := h.registry.Get(chi.URLParam(r, "viewID"))
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	v.Next()
	h.writePage(w, r, v)
}

// SetStatus changes the status of one order
func (h *APIHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	v, err := h.registry.Get(chi.URLParam(r, "viewID"))
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	var req StatusRequest
	if err := httputil.DecodeAndValidate(r, &req); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	notice, err := v.SetStatus(r.Context(), chi.URLParam(r, "orderID"), req.Status)
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	h.writeNotice(w, r, notice)
}

// DeleteOrder removes one order
func (h *APIHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	v, err := h.registry.Get(chi.URLParam(r, "viewID"))
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	notice, err := v.DeleteOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}

	h.writeNotice(w, r, notice)
}

// Close unmounts a view
func (h *APIHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Close(chi.URLParam(r, "viewID")); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	httputil.NoContent(w)
}

// Statuses lists the status vocabulary in presentation order
func (h *APIHandler) Statuses(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, domain.Statuses())
}

func (h *APIHandler) writePage(w http.ResponseWriter, r *http.Request, v *service.OrderView) {
	p := v.Snapshot()

	switch p.State {
	case service.StateLoading:
		httputil.JSON(w, http.StatusAccepted, h.present.view(r.Context(), p))
	case service.StateFailed:
		httputil.ErrorLocalized(w, r, p.Err)
	default:
		httputil.JSONWithMeta(w, http.StatusOK, h.present.view(r.Context(), p), &httputil.Meta{
			Page:       p.Number,
			PerPage:    service.PageSize,
			Total:      int64(p.TotalOrders),
			TotalPages: p.TotalPages,
		})
	}
}

func (h *APIHandler) writeNotice(w http.ResponseWriter, r *http.Request, n service.Notice) {
	httputil.JSON(w, http.StatusOK, NoticeResponse{
		Notice:  n,
		Message: n.Message(i18n.LocalizerFromContext(r.Context())),
	})
}
