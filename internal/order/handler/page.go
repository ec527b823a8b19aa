package handler

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/retailku/order-admin/internal/order/domain"
	"github.com/retailku/order-admin/internal/order/service"
	"github.com/retailku/order-admin/pkg/errors"
	"github.com/retailku/order-admin/pkg/i18n"
	"github.com/retailku/order-admin/pkg/logger"
)

// ViewCookie carries the id of the browser's mounted view.
const ViewCookie = "pesanan_view"

const pagePath = "/pesanan"

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/pesanan.html"))

// PageHandler serves the server-rendered admin page.
type PageHandler struct {
	registry     *service.ViewRegistry
	present      presenter
	logger       *logger.Logger
	secureCookie bool
}

// NewPageHandler creates a new page handler. secureCookie marks the view
// cookie Secure and should be set behind TLS.
func NewPageHandler(registry *service.ViewRegistry, loc *time.Location, secureCookie bool, log *logger.Logger) *PageHandler {
	return &PageHandler{
		registry:     registry,
		present:      presenter{loc: loc},
		logger:       log,
		secureCookie: secureCookie,
	}
}

// Routes registers the page endpoints on r.
func (h *PageHandler) Routes(r chi.Router) {
	r.Get(pagePath, h.Show)
	r.Post(pagePath+"/{orderID}/status", h.SetStatus)
	r.Post(pagePath+"/{orderID}/hapus", h.Delete)
}

// Show renders the current view, mounting one when needed.
func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("muat") == "ulang" {
		if c, err := r.Cookie(ViewCookie); err == nil {
			_ = h.registry.Close(c.Value)
		}
		h.mount(w, r)
		http.Redirect(w, r, pagePath, http.StatusSeeOther)
		return
	}

	v := h.currentView(r)
	if v == nil {
		v = h.mount(w, r)
	}

	page, err := pageParam(r)
	if err != nil {
		writeHTMLError(w, r, err)
		return
	}
	if page != 0 {
		v.GoTo(page)
	}
	if nav := q.Get("nav"); nav != "" {
		switch nav {
		case "prev":
			v.Prev()
		case "next":
			v.Next()
		}
		target := url.Values{"page": {strconv.Itoa(v.CurrentPage())}}
		http.Redirect(w, r, pagePath+"?"+target.Encode(), http.StatusSeeOther)
		return
	}

	h.render(w, r, v.Snapshot(), q.Get("notice"), q.Get("error"))
}

// SetStatus handles the status select of one row.
func (h *PageHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	v := h.currentView(r)
	if v == nil {
		http.Redirect(w, r, pagePath, http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeHTMLError(w, r, errors.BadRequest("invalid form"))
		return
	}

	notice, err := v.SetStatus(r.Context(), chi.URLParam(r, "orderID"), r.PostFormValue("status"))
	h.redirectBack(w, r, v, notice, err)
}

// Delete handles the delete button of one row.
func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	v := h.currentView(r)
	if v == nil {
		http.Redirect(w, r, pagePath, http.StatusSeeOther)
		return
	}

	notice, err := v.DeleteOrder(r.Context(), chi.URLParam(r, "orderID"))
	h.redirectBack(w, r, v, notice, err)
}

func (h *PageHandler) currentView(r *http.Request) *service.OrderView {
	c, err := r.Cookie(ViewCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	v, err := h.registry.Get(c.Value)
	if err != nil {
		return nil
	}
	return v
}

func (h *PageHandler) mount(w http.ResponseWriter, r *http.Request) *service.OrderView {
	v := h.registry.Open(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     ViewCookie,
		Value:    v.ID(),
		Path:     pagePath,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return v
}

func (h *PageHandler) redirectBack(w http.ResponseWriter, r *http.Request, v *service.OrderView, n service.Notice, err error) {
	q := url.Values{"page": {strconv.Itoa(v.CurrentPage())}}
	if err != nil {
		q.Set("error", localizeErr(r.Context(), err))
	} else {
		q.Set("notice", n.Message(i18n.LocalizerFromContext(r.Context())))
	}
	http.Redirect(w, r, pagePath+"?"+q.Encode(), http.StatusSeeOther)
}

type pageRow struct {
	First         bool
	Span          int
	OrderID       string
	CreatedAt     string
	PaymentMethod string
	TotalQuantity int64
	TotalPrice    string
	Address       string
	Status        string
	DetailURL     string
	StatusAction  string
	DeleteAction  string
	ConfirmDelete string
	Error         string
}

type pageData struct {
	Lang       string
	T          func(key string) string
	State      string
	LoadError  string
	Notice     string
	FlashError string
	Page       int
	TotalPages int
	Pages      []int
	PrevURL    string
	NextURL    string
	ReloadURL  string
	Statuses   []string
	Rows       []pageRow
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, p service.Page, notice, flashErr string) {
	l := i18n.LocalizerFromContext(r.Context())

	data := pageData{
		Lang:       l.GetLocale(),
		T:          func(key string) string { return l.T(key) },
		State:      string(p.State),
		Notice:     notice,
		FlashError: flashErr,
		Page:       p.Number,
		TotalPages: p.TotalPages,
		PrevURL:    pagePath + "?nav=prev",
		NextURL:    pagePath + "?nav=next",
		ReloadURL:  pagePath + "?muat=ulang",
		Statuses:   domain.Statuses(),
	}
	if p.State == service.StateFailed {
		data.LoadError = localizeErr(r.Context(), p.Err)
	}
	for i := 1; i <= p.TotalPages; i++ {
		data.Pages = append(data.Pages, i)
	}
	data.Rows = h.rows(r, l, p.Items)

	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "pesanan.html", data); err != nil {
		h.logger.Error().Err(err).Msg("failed to render order page")
		writeHTMLError(w, r, errors.Internal("failed to render page"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *PageHandler) rows(r *http.Request, l *i18n.Localizer, items []service.Item) []pageRow {
	orders := make([]domain.Order, len(items))
	byID := make(map[string]service.Item, len(items))
	for i, it := range items {
		orders[i] = it.Order
		byID[it.Order.ID] = it
	}

	expanded := domain.ExpandRows(orders)
	rows := make([]pageRow, 0, len(expanded))
	for _, row := range expanded {
		if !row.First {
			rows = append(rows, pageRow{})
			continue
		}

		it := byID[row.Order.ID]
		resp := h.present.order(r.Context(), it)
		escaped := url.PathEscape(resp.ID)
		rows = append(rows, pageRow{
			First:         true,
			Span:          row.Span,
			OrderID:       resp.ID,
			CreatedAt:     resp.CreatedAtText,
			PaymentMethod: resp.PaymentMethod,
			TotalQuantity: resp.TotalQuantity,
			TotalPrice:    resp.TotalPriceText,
			Address:       resp.Address,
			Status:        resp.Status,
			DetailURL:     DetailPath + escaped,
			StatusAction:  pagePath + "/" + escaped + "/status",
			DeleteAction:  pagePath + "/" + escaped + "/hapus",
			ConfirmDelete: l.T("page.confirm_delete", map[string]string{"id": resp.ID}),
			Error:         resp.Error,
		})
	}
	return rows
}

// AuthError answers a rejected page request with a plain localized message.
func AuthError(w http.ResponseWriter, r *http.Request, err error) {
	writeHTMLError(w, r, err)
}

func writeHTMLError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		status = appErr.StatusCode
	}
	http.Error(w, localizeErr(r.Context(), err), status)
}
