package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/boddenberg/smartpresence-bfa-go/internal/infra/storage"
)

func TestNewS3Archive_RequiresBucket(t *testing.T) {
	if _, err := storage.NewS3Archive(context.Background(), storage.S3Options{Region: "us-east-1"}); err == nil {
		t.Fatal("expected error without bucket")
	}
}

func TestS3Archive_Put(t *testing.T) {
	var gotMethod, gotPath, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a, err := storage.NewS3Archive(context.Background(), storage.S3Options{
		Bucket:   "contracts-archive",
		Region:   "us-east-1",
		Endpoint: srv.URL,
		Key:      "key",
		Secret:   "secret",
	})
	if err != nil {
		t.Fatalf("new archive: %v", err)
	}

	err = a.Put(context.Background(), "contracts/CTR-20260101-ABC123.html", "text/html; charset=utf-8", []byte("<h1>CONTRATO</h1>"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Errorf("expected PUT, got %s", gotMethod)
	}
	if gotPath != "/contracts-archive/contracts/CTR-20260101-ABC123.html" {
		t.Errorf("expected path-style key, got %s", gotPath)
	}
	if !strings.Contains(gotBody, "<h1>CONTRATO</h1>") {
		t.Errorf("body not forwarded: %q", gotBody)
	}
}

func TestS3Archive_PutError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`<?xml version="1.0"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
	}))
	defer srv.Close()

	a, err := storage.NewS3Archive(context.Background(), storage.S3Options{
		Bucket: "b", Region: "us-east-1", Endpoint: srv.URL, Key: "k", Secret: "s",
	})
	if err != nil {
		t.Fatalf("new archive: %v", err)
	}
	if err := a.Put(context.Background(), "contracts/x.html", "text/html", []byte("x")); err == nil {
		t.Fatal("expected error on 403")
	}
}
