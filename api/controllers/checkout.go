package controllers

import (
	"net/http"

	"github.com/desesperanza/panaderia-backend/api/responses"
	checkoutsvc "github.com/desesperanza/panaderia-backend/internal/checkout"
	pkgerrors "github.com/desesperanza/panaderia-backend/pkg/errors"
	"github.com/desesperanza/panaderia-backend/pkg/logger"
)

// Checkout converts the requester's session cart into an order. The cart is
// cleared only when the order commits.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := requesterID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Execute(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
