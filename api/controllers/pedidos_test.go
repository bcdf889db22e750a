package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	checkoutsvc "github.com/desesperanza/panaderia-backend/internal/checkout"
	pkgerrors "github.com/desesperanza/panaderia-backend/pkg/errors"
)

type stubCheckoutService struct {
	result    *checkoutsvc.Result
	err       error
	lastUser  uuid.UUID
	lastItems []checkoutsvc.ItemRequest
}

func (s *stubCheckoutService) Execute(ctx context.Context, userID uuid.UUID) (*checkoutsvc.Result, error) {
	s.lastUser = userID
	return s.result, s.err
}

func (s *stubCheckoutService) ExecuteItems(ctx context.Context, userID uuid.UUID, items []checkoutsvc.ItemRequest) (*checkoutsvc.Result, error) {
	s.lastUser = userID
	s.lastItems = items
	return s.result, s.err
}

func TestLegacyCheckoutSuccess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	productID := uuid.New()
	svc := &stubCheckoutService{result: &checkoutsvc.Result{OrderID: uuid.New(), SubtotalCents: 9100}}

	body := `{"usuario_id":"` + userID.String() + `","items":[{"producto_id":"` + productID.String() + `","cantidad":2,"precio_unitario":45.50}],"total":91.00}`
	req := httptest.NewRequest(http.MethodPost, "/api/pedidos", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	LegacyCheckout(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["success"] != true {
		t.Fatalf("expected success true, got %v", payload["success"])
	}
	if payload["pedido_id"] != svc.result.OrderID.String() {
		t.Fatalf("unexpected pedido_id: %v", payload["pedido_id"])
	}

	if svc.lastUser != userID {
		t.Fatalf("expected user %s, got %s", userID, svc.lastUser)
	}
	if len(svc.lastItems) != 1 || svc.lastItems[0].ProductID != productID || svc.lastItems[0].Qty != 2 {
		t.Fatalf("unexpected items forwarded: %+v", svc.lastItems)
	}
}

func TestLegacyCheckoutInsufficientStockShape(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock")}

	body := `{"usuario_id":"` + uuid.NewString() + `","items":[{"producto_id":"` + uuid.NewString() + `","cantidad":1,"precio_unitario":10.00}],"total":10.00}`
	req := httptest.NewRequest(http.MethodPost, "/api/pedidos", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	LegacyCheckout(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["error"] != "insufficient stock" {
		t.Fatalf("unexpected error message: %v", payload["error"])
	}
	if _, ok := payload["success"]; ok {
		t.Fatalf("error responses must not carry success")
	}
}

func TestLegacyCheckoutRejectsEmptyItems(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}

	body := `{"usuario_id":"` + uuid.NewString() + `","items":[],"total":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/pedidos", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	LegacyCheckout(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if len(svc.lastItems) != 0 {
		t.Fatalf("service must not be called for an empty cart")
	}
}

func TestLegacyCheckoutRejectsNonPositivePrice(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}

	body := `{"usuario_id":"` + uuid.NewString() + `","items":[{"producto_id":"` + uuid.NewString() + `","cantidad":1,"precio_unitario":0}],"total":0}`
	req := httptest.NewRequest(http.MethodPost, "/api/pedidos", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	LegacyCheckout(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
