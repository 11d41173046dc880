package domain

import "time"

// ============================================================
// Orders: lifecycle (display-only) and rows
// ============================================================

// OrderStatus is the order_status enum of the hosted schema.
type OrderStatus string

const (
	StatusPendente    OrderStatus = "pendente"
	StatusEmAndamento OrderStatus = "em_andamento"
	StatusDemo        OrderStatus = "demo"
	StatusAvaliacao   OrderStatus = "avaliacao"
	StatusConcluido   OrderStatus = "concluido"
	StatusCancelado   OrderStatus = "cancelado"
)

// InitialOrderStatus is the status every new order is created with.
const InitialOrderStatus = StatusPendente

// OrderStatuses lists the statuses in lifecycle order.
var OrderStatuses = []OrderStatus{
	StatusPendente,
	StatusEmAndamento,
	StatusDemo,
	StatusAvaliacao,
	StatusConcluido,
	StatusCancelado,
}

var statusLabels = map[OrderStatus]string{
	StatusPendente:    "Pendente",
	StatusEmAndamento: "Em Andamento",
	StatusDemo:        "Demo",
	StatusAvaliacao:   "Avaliação",
	StatusConcluido:   "Concluído",
	StatusCancelado:   "Cancelado",
}

var statusNext = map[OrderStatus]OrderStatus{
	StatusPendente:    StatusEmAndamento,
	StatusEmAndamento: StatusDemo,
	StatusDemo:        StatusAvaliacao,
	StatusAvaliacao:   StatusConcluido,
}

// Label returns the Portuguese display label, or the raw value if unknown.
func (s OrderStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return s == StatusConcluido || s == StatusCancelado
}

// Pending reports whether the order still counts as open work.
func (s OrderStatus) Pending() bool {
	return s == StatusPendente || s == StatusEmAndamento
}

// CanTransition encodes the lifecycle graph. It is used for display and
// validation only; no endpoint mutates status.
func CanTransition(from, to OrderStatus) bool {
	if !from.Valid() || !to.Valid() || from.Terminal() {
		return false
	}
	if to == StatusCancelado {
		return true
	}
	return statusNext[from] == to
}

// OrderStatusInfo is one entry of GET /v1/orders/statuses.
type OrderStatusInfo struct {
	Value    OrderStatus   `json:"value"`
	Label    string        `json:"label"`
	Terminal bool          `json:"terminal"`
	Next     []OrderStatus `json:"next"`
}

// Order is a client's submitted request.
type Order struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	OrderNumber  string      `json:"order_number"`
	BusinessName string      `json:"business_name"`
	BusinessType *string     `json:"business_type"`
	PackageID    *string     `json:"package_id"`
	PlanID       *string     `json:"plan_id"`
	Description  *string     `json:"description"`
	Preferences  *string     `json:"preferences"`
	Notes        *string     `json:"notes"`
	Status       OrderStatus `json:"status"`
	DemoURL      *string     `json:"demo_url"`
	FinalURL     *string     `json:"final_url"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NewOrder carries the columns written on order insert.
type NewOrder struct {
	UserID       string
	OrderNumber  string
	BusinessName string
	BusinessType string
	PackageID    string
	PlanID       string
	Description  string
	Preferences  string
	Status       OrderStatus
}

// OrderSummary is an order joined with its catalog names, as listed on
// dashboards.
type OrderSummary struct {
	Order
	PackageName  string  `json:"package_name,omitempty"`
	PlanName     string  `json:"plan_name,omitempty"`
	StatusLabel  string  `json:"status_label"`
	PackagePrice float64 `json:"package_price,omitempty"`
	PlanPrice    float64 `json:"plan_price_monthly,omitempty"`
}
