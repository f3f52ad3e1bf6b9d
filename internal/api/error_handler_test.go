package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/freight-pricing/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	conflict := &domain.ConflictError{Report: &domain.ConflictReport{
		HasConflict: true,
		Conflicts:   []domain.Conflict{{Price: domain.PriceRecord{ID: "p1"}}},
	}}

	cases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"validation", &domain.ValidationError{Errors: []string{"price is required"}}, http.StatusBadRequest, "validation failed"},
		{"conflict", fmt.Errorf("create: %w", conflict), http.StatusConflict, "price conflicts with existing prices"},
		{"not found", domain.ErrPriceNotFound, http.StatusNotFound, "price not found"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"invalid identity", domain.ErrInvalidIdentity, http.StatusUnauthorized, "invalid identity"},
		{"scope locked", domain.ErrScopeLocked, http.StatusConflict, domain.ErrScopeLocked.Error()},
		{"unexpected", errors.New("mongo: connection reset"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/v1/prices", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.msg {
				t.Fatalf("expected %q, got %q", tc.msg, body.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_Details(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/prices", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	report := &domain.ConflictReport{HasConflict: true, Conflicts: []domain.Conflict{{Price: domain.PriceRecord{ID: "p7"}}}}
	NewHTTPErrorHandler(zerolog.Nop())(&domain.ConflictError{Report: report}, c)

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Conflicts == nil || len(body.Conflicts.Conflicts) != 1 || body.Conflicts.Conflicts[0].Price.ID != "p7" {
		t.Fatalf("conflict report not rendered: %s", rec.Body.String())
	}
}
