package service

import "github.com/retailku/order-admin/pkg/i18n"

// Notice message keys.
const (
	NoticeStatusChanged = "notices.status_changed"
	NoticeOrderDeleted  = "notices.order_deleted"
)

// Notice confirms a successful mutation. It is rendered by the caller in
// the request's locale.
type Notice struct {
	Key     string `json:"key"`
	OrderID string `json:"order_id"`
	Status  string `json:"status,omitempty"`
}

// Params returns the interpolation parameters for Key.
func (n Notice) Params() map[string]string {
	return map[string]string{"id": n.OrderID, "status": n.Status}
}

// Message localizes the notice.
func (n Notice) Message(l *i18n.Localizer) string {
	return l.T(n.Key, n.Params())
}
