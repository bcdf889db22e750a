package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/desesperanza/panaderia-backend/api/validators"
	checkoutsvc "github.com/desesperanza/panaderia-backend/internal/checkout"
	pkgerrors "github.com/desesperanza/panaderia-backend/pkg/errors"
	"github.com/desesperanza/panaderia-backend/pkg/logger"
)

// The storefront still posts its cart in the original shape: decimal peso
// amounts and Spanish field names, answered without the response envelope.
type legacyOrderRequest struct {
	UsuarioID uuid.UUID         `json:"usuario_id" validate:"required"`
	Items     []legacyOrderItem `json:"items" validate:"required,min=1,dive"`
	Total     decimal.Decimal   `json:"total"`
}

type legacyOrderItem struct {
	ProductoID     uuid.UUID       `json:"producto_id" validate:"required"`
	Cantidad       int             `json:"cantidad" validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
}

var centsPerUnit = decimal.NewFromInt(100)

func toCents(amount decimal.Decimal) int {
	return int(amount.Mul(centsPerUnit).Round(0).IntPart())
}

// LegacyCheckout serves POST /api/pedidos. Line prices are recomputed from
// the catalog; the posted amounts are only validated and compared for drift.
func LegacyCheckout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeLegacyError(w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var body legacyOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			writeLegacyError(w, err)
			return
		}

		postedTotal := 0
		items := make([]checkoutsvc.ItemRequest, 0, len(body.Items))
		for _, item := range body.Items {
			if item.PrecioUnitario.Sign() <= 0 {
				writeLegacyError(w, pkgerrors.New(pkgerrors.CodeValidation, "precio_unitario must be positive"))
				return
			}
			postedTotal += toCents(item.PrecioUnitario) * item.Cantidad
			items = append(items, checkoutsvc.ItemRequest{
				ProductID: item.ProductoID,
				Qty:       item.Cantidad,
			})
		}

		result, err := svc.ExecuteItems(r.Context(), body.UsuarioID, items)
		if err != nil {
			if logg != nil {
				logg.Error(r.Context(), "legacy checkout failed", err)
			}
			writeLegacyError(w, err)
			return
		}

		if logg != nil && postedTotal != result.SubtotalCents {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"order_id":     result.OrderID,
				"posted_cents": postedTotal,
				"priced_cents": result.SubtotalCents,
			})
			logg.Warn(ctx, "legacy checkout repriced against the catalog")
		}

		writeLegacyJSON(w, http.StatusCreated, map[string]any{
			"success":   true,
			"pedido_id": result.OrderID,
		})
	}
}

func writeLegacyError(w http.ResponseWriter, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())
	msg := meta.PublicMessage
	switch typed.Code() {
	case pkgerrors.CodeValidation,
		pkgerrors.CodeNotFound,
		pkgerrors.CodeInsufficientStock:
		if m := typed.Message(); m != "" {
			msg = m
		}
	}

	writeLegacyJSON(w, meta.HTTPStatus, map[string]any{"error": msg})
}

func writeLegacyJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
