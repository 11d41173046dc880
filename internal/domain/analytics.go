package domain

import "time"

// ============================================================
// Navigation analytics
// ============================================================

// NavigationLog is one page-view event.
type NavigationLog struct {
	ID        string    `json:"id"`
	PagePath  string    `json:"page_path"`
	PageTitle *string   `json:"page_title"`
	Referrer  *string   `json:"referrer"`
	UserAgent *string   `json:"user_agent"`
	SessionID *string   `json:"session_id"`
	UserID    *string   `json:"user_id"`
	IPAddress *string   `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}

// PageViewRequest is the body of POST /v1/analytics/pageview.
type PageViewRequest struct {
	PagePath  string `json:"pagePath"`
	PageTitle string `json:"pageTitle"`
	Referrer  string `json:"referrer"`
	SessionID string `json:"sessionId"`
}

// PageViewResponse hands back the session id the SPA must keep in
// tab-scoped storage.
type PageViewResponse struct {
	SessionID string `json:"sessionId"`
	Recorded  bool   `json:"recorded"`
}

// PageVisits is an aggregated count per path.
type PageVisits struct {
	Path  string `json:"path"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// SessionStorageKey is the key the SPA uses for the analytics session id.
const SessionStorageKey = "sp_session_id"

var pageLabels = map[string]string{
	"/":         "Página Inicial",
	"/servicos": "Serviços",
	"/planos":   "Planos",
	"/pedido":   "Formulário de Pedido",
	"/sobre":    "Sobre Nós",
	"/login":    "Login",
	"/registro": "Registro",
}

// PageLabel returns the display label of a path, or the path itself.
func PageLabel(path string) string {
	if l, ok := pageLabels[path]; ok {
		return l
	}
	return path
}
