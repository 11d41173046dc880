package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/boddenberg/smartpresence-bfa-go/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// HTTP helpers for inserts and GoTrue calls
// ============================================================

func (c *Client) doPost(ctx context.Context, table string, data map[string]any) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	jsonBody, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, "return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase: POST request failed",
			zap.String("table", table),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("supabase: POST non-2xx",
			zap.String("table", table),
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(body)),
		)
		return nil, parseBackendError(resp.StatusCode, body)
	}

	c.logger.Debug("supabase: POST OK", zap.String("table", table), zap.Int("status", resp.StatusCode))
	return body, nil
}

// doAuth posts to a GoTrue endpoint with the anon key.
func (c *Client) doAuth(ctx context.Context, path string, data any) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/auth/v1/%s", c.baseURL, path)
	jsonBody, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase: auth request failed", zap.String("path", path), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("supabase: auth non-2xx",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return nil, parseBackendError(resp.StatusCode, body)
	}
	return body, nil
}

// backendError is the union of PostgREST and GoTrue error bodies.
type backendError struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// parseBackendError extracts the backend-supplied message so it can be
// shown to the user unchanged.
func parseBackendError(status int, body []byte) *domain.ErrBackend {
	out := &domain.ErrBackend{Status: status}

	var be backendError
	if err := json.Unmarshal(body, &be); err != nil {
		out.Message = strings.TrimSpace(string(body))
		if out.Message == "" {
			out.Message = http.StatusText(status)
		}
		return out
	}

	switch code := be.Code.(type) {
	case string:
		out.Code = code
	case float64:
		out.Code = fmt.Sprintf("%.0f", code)
	}
	if be.ErrorCode != "" {
		out.Code = be.ErrorCode
	}

	for _, m := range []string{be.Message, be.Msg, be.ErrorDescription, be.Error} {
		if m != "" {
			out.Message = m
			break
		}
	}
	if out.Message == "" {
		out.Message = http.StatusText(status)
	}
	return out
}

func readBody(resp *http.Response) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isEmpty(body []byte) bool {
	return body == nil || string(body) == "[]"
}

func eq(v string) string {
	return "eq." + url.QueryEscape(v)
}

// decodeFirst decodes a PostgREST array and returns its first element.
func decodeFirst[T any](body []byte, what string) (*T, error) {
	if isEmpty(body) {
		return nil, nil
	}
	var rows []T
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", what, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// decodeAll decodes a PostgREST array; an empty body yields an empty slice.
func decodeAll[T any](body []byte, what string) ([]T, error) {
	rows := []T{}
	if isEmpty(body) {
		return rows, nil
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", what, err)
	}
	return rows, nil
}
