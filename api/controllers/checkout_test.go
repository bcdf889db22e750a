package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/desesperanza/panaderia-backend/api/middleware"
	checkoutsvc "github.com/desesperanza/panaderia-backend/internal/checkout"
	"github.com/desesperanza/panaderia-backend/pkg/enums"
)

func TestCheckoutSuccess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &stubCheckoutService{result: &checkoutsvc.Result{
		OrderID:       uuid.New(),
		Status:        enums.OrderStatusPending,
		SubtotalCents: 2500,
		ShippingCents: 5000,
		TotalCents:    7500,
	}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	resp := httptest.NewRecorder()

	Checkout(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastUser != userID {
		t.Fatalf("expected user %s, got %s", userID, svc.lastUser)
	}

	var envelope struct {
		Data checkoutsvc.Result `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderID != svc.result.OrderID {
		t.Fatalf("unexpected order id: %s", envelope.Data.OrderID)
	}
	if envelope.Data.TotalCents != 7500 {
		t.Fatalf("unexpected total: %d", envelope.Data.TotalCents)
	}
}

func TestCheckoutMissingUserContext(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	resp := httptest.NewRecorder()

	Checkout(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}
