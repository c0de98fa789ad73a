package cart

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lumenmarket/storefront-backend/api/middleware"
	"github.com/lumenmarket/storefront-backend/api/responses"
	"github.com/lumenmarket/storefront-backend/api/validators"
	cartsvc "github.com/lumenmarket/storefront-backend/internal/cart"
	pkgerrors "github.com/lumenmarket/storefront-backend/pkg/errors"
	"github.com/lumenmarket/storefront-backend/pkg/logger"
)

// StoreProvider builds per-session cart stores and runs sign-in reconciliation.
type StoreProvider interface {
	Store(ctx context.Context, session cartsvc.Session) (*cartsvc.Store, error)
	Reconcile(ctx context.Context, userID uuid.UUID, guestKey string) (cartsvc.Cart, error)
}

// CartFetch returns the session's current cart snapshot.
func CartFetch(provider StoreProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := storeForRequest(r, provider, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(store.Cart()))
	}
}

// CartAddLine adds a variant to the session's cart.
func CartAddLine(provider StoreProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload AddLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := storeForRequest(r, provider, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := store.AddItem(r.Context(), payload.ProductID, payload.VariantID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartUpdateLine applies a +1/-1 quantity step to a line.
func CartUpdateLine(provider StoreProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID, err := lineIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload UpdateLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := storeForRequest(r, provider, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := store.UpdateQuantity(r.Context(), lineID, payload.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartRemoveLine deletes a line from the session's cart.
func CartRemoveLine(provider StoreProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lineID, err := lineIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := storeForRequest(r, provider, logg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := store.RemoveLine(r.Context(), lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartReconcile merges the device's guest cart into the signed-in user's
// server cart. Called once by the storefront right after sign-in.
func CartReconcile(provider StoreProvider, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if provider == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart provider unavailable"))
			return
		}

		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		guestKey := middleware.GuestKeyFromContext(r.Context())
		if guestKey == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "guest session missing"))
			return
		}

		snapshot, err := provider.Reconcile(r.Context(), userID, guestKey)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

func storeForRequest(r *http.Request, provider StoreProvider, logg *logger.Logger) (*cartsvc.Store, error) {
	if provider == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart provider unavailable")
	}

	guestKey := middleware.GuestKeyFromContext(r.Context())
	if guestKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "guest session missing")
	}

	session := cartsvc.Session{GuestKey: guestKey}
	if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
		}
		session.UserID = &userID
	}

	return provider.Store(r.Context(), session)
}

func userIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}

func lineIDFromRequest(r *http.Request) (uuid.UUID, error) {
	lineID, err := uuid.Parse(chi.URLParam(r, "lineId"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid line id")
	}
	return lineID, nil
}
