package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/desesperanza/panaderia-backend/api/middleware"
	cartsvc "github.com/desesperanza/panaderia-backend/internal/cart"
)

type stubCartService struct {
	view        *cartsvc.View
	err         error
	lastUser    uuid.UUID
	lastProduct uuid.UUID
	lastIndex   int
	lastDelta   int
	cleared     bool
}

func (s *stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cartsvc.View, error) {
	s.lastUser = userID
	return s.view, s.err
}

func (s *stubCartService) Add(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.View, error) {
	s.lastUser = userID
	s.lastProduct = productID
	return s.view, s.err
}

func (s *stubCartService) ChangeQuantity(ctx context.Context, userID uuid.UUID, index, delta int) (*cartsvc.View, error) {
	s.lastUser = userID
	s.lastIndex = index
	s.lastDelta = delta
	return s.view, s.err
}

func (s *stubCartService) Remove(ctx context.Context, userID uuid.UUID, index int) (*cartsvc.View, error) {
	s.lastUser = userID
	s.lastIndex = index
	return s.view, s.err
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	s.lastUser = userID
	s.cleared = true
	return s.err
}

func authedRequest(method, target string, body string, userID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestCartAddItemForwardsProduct(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	productID := uuid.New()
	svc := &stubCartService{view: &cartsvc.View{}}

	req := authedRequest(http.MethodPost, "/api/v1/cart/items", `{"product_id":"`+productID.String()+`"}`, userID)
	resp := httptest.NewRecorder()

	CartAddItem(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastUser != userID || svc.lastProduct != productID {
		t.Fatalf("unexpected call: user=%s product=%s", svc.lastUser, svc.lastProduct)
	}
}

func TestCartChangeQuantityParsesIndexAndDelta(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &stubCartService{view: &cartsvc.View{}}

	req := authedRequest(http.MethodPatch, "/api/v1/cart/items/2", `{"delta":-1}`, userID)
	req = withURLParam(req, "index", "2")
	resp := httptest.NewRecorder()

	CartChangeQuantity(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastIndex != 2 || svc.lastDelta != -1 {
		t.Fatalf("unexpected call: index=%d delta=%d", svc.lastIndex, svc.lastDelta)
	}
}

func TestCartChangeQuantityRejectsBadIndex(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{view: &cartsvc.View{}}

	req := authedRequest(http.MethodPatch, "/api/v1/cart/items/two", `{"delta":1}`, uuid.New())
	req = withURLParam(req, "index", "two")
	resp := httptest.NewRecorder()

	CartChangeQuantity(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartFetchReturnsView(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{view: &cartsvc.View{
		Totals: cartsvc.Totals{SubtotalCents: 2500, ShippingCents: 5000, TotalCents: 7500, ItemCount: 3},
	}}

	req := authedRequest(http.MethodGet, "/api/v1/cart", "", uuid.New())
	resp := httptest.NewRecorder()

	CartFetch(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data cartsvc.View `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Totals.TotalCents != 7500 {
		t.Fatalf("unexpected total: %d", envelope.Data.Totals.TotalCents)
	}
}

func TestCartClear(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	req := authedRequest(http.MethodDelete, "/api/v1/cart", "", uuid.New())
	resp := httptest.NewRecorder()

	CartClear(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.cleared {
		t.Fatalf("expected clear to be forwarded")
	}
}
