package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/retailku/order-admin/internal/order/domain"
	"github.com/retailku/order-admin/internal/order/service"
	"github.com/retailku/order-admin/pkg/errors"
	"github.com/retailku/order-admin/pkg/i18n"
)

// DetailPath is the order detail route served by the storefront admin.
const DetailPath = "/detail_pesanan/"

// OrderResponse is an order as exposed to clients, with display strings
// already formatted for the request locale.
type OrderResponse struct {
	ID             string            `json:"id"`
	CreatedAt      time.Time         `json:"created_at"`
	CreatedAtText  string            `json:"created_at_text"`
	PaymentMethod  string            `json:"payment_method"`
	TotalQuantity  int64             `json:"total_quantity"`
	TotalPrice     float64           `json:"total_price"`
	TotalPriceText string            `json:"total_price_text"`
	UserID         string            `json:"user_id"`
	Address        string            `json:"address"`
	Status         string            `json:"status"`
	CartItems      []domain.CartItem `json:"cart_items"`
	DetailURL      string            `json:"detail_url"`
	Error          string            `json:"error,omitempty"`
}

// ViewResponse is one page of a view.
type ViewResponse struct {
	ID     string          `json:"id"`
	State  service.State   `json:"state"`
	Orders []OrderResponse `json:"orders"`
}

// NoticeResponse confirms a mutation.
type NoticeResponse struct {
	service.Notice
	Message string `json:"message"`
}

type presenter struct {
	loc *time.Location
}

func (p presenter) order(ctx context.Context, it service.Item) OrderResponse {
	locale := i18n.GetLocaleFromContext(ctx)
	o := it.Order

	items := o.CartItems
	if items == nil {
		items = []domain.CartItem{}
	}

	resp := OrderResponse{
		ID:             o.ID,
		CreatedAt:      o.CreatedAt.Time(),
		CreatedAtText:  domain.FormatTimestamp(o.CreatedAt, p.loc, locale),
		PaymentMethod:  o.PaymentMethod,
		TotalQuantity:  o.TotalQuantity,
		TotalPrice:     o.TotalPrice,
		TotalPriceText: domain.FormatRupiah(o.TotalPrice),
		UserID:         o.UserID,
		Address:        it.Address(),
		Status:         o.Status,
		CartItems:      items,
		DetailURL:      DetailPath + o.ID,
	}
	if it.Err != nil {
		resp.Error = localizeErr(ctx, it.Err)
	}
	return resp
}

func (p presenter) view(ctx context.Context, page service.Page) ViewResponse {
	resp := ViewResponse{ID: page.ViewID, State: page.State, Orders: make([]OrderResponse, 0, len(page.Items))}
	for _, it := range page.Items {
		resp.Orders = append(resp.Orders, p.order(ctx, it))
	}
	return resp
}

// localizeErr renders err for the request locale. Errors that are not
// AppErrors show the generic row failure text.
func localizeErr(ctx context.Context, err error) string {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return appErr.Localize(ctx)
	}
	return i18n.TFromContext(ctx, "page.row_error")
}

// pageParam parses the optional page query parameter. Zero means absent.
func pageParam(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.BadRequest("page must be a number").WithDetails(map[string]string{"page": raw})
	}
	return n, nil
}
