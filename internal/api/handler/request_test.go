package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"todo_app/internal/app/service"
	"todo_app/internal/common"

	"github.com/go-chi/chi/v5"
)

func TestValidateTodoPriority(t *testing.T) {
	done := false
	tests := []struct {
		priority int
		wantErr  bool
		detail   string
	}{
		{0, true, "priority: field required"},
		{1, false, ""},
		{5, false, ""},
		{6, true, "priority: must be between 1 and 5"},
		{-2, true, "priority: must be between 1 and 5"},
	}
	for _, tt := range tests {
		req := service.TodoRequest{Title: "buy milk", Description: "2% milk", Priority: tt.priority, Completed: &done}
		err := validateStruct(req)
		if !tt.wantErr {
			if err != nil {
				t.Errorf("priority %d: unexpected error %v", tt.priority, err)
			}
			continue
		}
		var detailed *common.DetailedError
		if !errors.As(err, &detailed) || !errors.Is(err, common.ErrValidation) {
			t.Fatalf("priority %d: error = %v, want a detailed validation error", tt.priority, err)
		}
		if len(detailed.Details) != 1 || detailed.Details[0] != tt.detail {
			t.Errorf("priority %d: details = %q, want [%q]", tt.priority, detailed.Details, tt.detail)
		}
	}
}

func TestDecodeJSONRejectsMalformedBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title": `))
	var req service.TodoRequest
	if err := decodeJSON(r, &req); !errors.Is(err, common.ErrValidation) {
		t.Errorf("decodeJSON(truncated body) = %v, want ErrValidation", err)
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"7", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("todoID", tt.raw)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

		got, err := pathID(r, "todoID")
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("pathID(%q) = %d, %v", tt.raw, got, err)
		}
		if err != nil && common.HTTPStatusFromError(err) != http.StatusUnprocessableEntity {
			t.Errorf("pathID(%q) error maps to %d, want 422", tt.raw, common.HTTPStatusFromError(err))
		}
	}
}
