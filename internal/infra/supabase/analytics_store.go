package supabase

import (
	"context"
	"net/http"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// AnalyticsStore: navigation_logs
// ============================================================

// InsertNavigationLog stores one page-view event. The insert is a plain
// write and is not retried.
func (c *Client) InsertNavigationLog(ctx context.Context, l *domain.NavigationLog) error {
	ctx, span := tracer.Start(ctx, "Supabase.InsertNavigationLog")
	defer span.End()
	span.SetAttributes(attribute.String("page.path", l.PagePath))

	data := map[string]any{
		"page_path":  l.PagePath,
		"page_title": l.PageTitle,
		"referrer":   l.Referrer,
		"user_agent": l.UserAgent,
		"session_id": l.SessionID,
		"user_id":    l.UserID,
		"ip_address": l.IPAddress,
	}

	return c.write("supabase/navigation_logs", func() error {
		_, err := c.doPost(ctx, "navigation_logs", data)
		return err
	})
}

// ListPagePaths fetches the page_path of every logged event.
func (c *Client) ListPagePaths(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListPagePaths")
	defer span.End()

	type row struct {
		PagePath string `json:"page_path"`
	}

	var paths []string
	err := c.read(ctx, "supabase/navigation_logs", func() error {
		body, err := c.doRequest(ctx, http.MethodGet, "navigation_logs?select=page_path")
		if err != nil {
			return err
		}
		rows, err := decodeAll[row](body, "navigation_logs")
		if err != nil {
			return err
		}
		paths = make([]string, 0, len(rows))
		for _, r := range rows {
			paths = append(paths, r.PagePath)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}
