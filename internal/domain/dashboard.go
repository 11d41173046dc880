package domain

import "time"

// ============================================================
// Dashboards (client and admin)
// ============================================================

// OrderStats counts orders by progress.
type OrderStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
}

// CountOrders derives OrderStats from a list of orders.
func CountOrders(orders []OrderSummary) OrderStats {
	stats := OrderStats{Total: len(orders)}
	for _, o := range orders {
		switch {
		case o.Status.Pending():
			stats.Pending++
		case o.Status == StatusConcluido:
			stats.Completed++
		}
	}
	return stats
}

// ClientDashboard is the body of GET /v1/me/dashboard.
type ClientDashboard struct {
	Profile *Profile       `json:"profile,omitempty"`
	Orders  []OrderSummary `json:"orders"`
	Stats   OrderStats     `json:"stats"`
}

// AdminUser is a profile joined with its role.
type AdminUser struct {
	Profile
	Role           Role `json:"role"`
	IsSupremeAdmin bool `json:"is_supreme_admin"`
}

// AdminStats are the headline counters of the admin dashboard.
type AdminStats struct {
	TotalUsers      int `json:"totalUsers"`
	TotalOrders     int `json:"totalOrders"`
	PendingOrders   int `json:"pendingOrders"`
	CompletedOrders int `json:"completedOrders"`
}

// AdminDashboardQuery holds the admin dashboard filters.
type AdminDashboardQuery struct {
	Search       string
	StatusFilter string
}

// AdminDashboard is the body of GET /v1/admin/dashboard.
type AdminDashboard struct {
	Users        []AdminUser    `json:"users"`
	RecentOrders []OrderSummary `json:"recentOrders"`
	Stats        AdminStats     `json:"stats"`
	TopPages     []PageVisits   `json:"topPages"`
	GeneratedAt  time.Time      `json:"generatedAt"`
}

// StatusFilterAll disables the admin status filter.
const StatusFilterAll = "all"

// RecentOrdersLimit is how many orders the admin dashboard lists.
const RecentOrdersLimit = 10

// TopPagesLimit is how many visited paths the admin dashboard ranks.
const TopPagesLimit = 4
