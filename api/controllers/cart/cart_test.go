package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumenmarket/storefront-backend/api/middleware"
	cartsvc "github.com/lumenmarket/storefront-backend/internal/cart"
	"github.com/lumenmarket/storefront-backend/pkg/enums"
	pkgerrors "github.com/lumenmarket/storefront-backend/pkg/errors"
	"github.com/lumenmarket/storefront-backend/pkg/logger"
	"github.com/lumenmarket/storefront-backend/pkg/money"
	"github.com/lumenmarket/storefront-backend/pkg/types"
)

type stubCatalog struct {
	variants map[uuid.UUID]cartsvc.VariantDetail
}

func (s *stubCatalog) VariantDetail(_ context.Context, _, variantID uuid.UUID) (cartsvc.VariantDetail, error) {
	detail, ok := s.variants[variantID]
	if !ok {
		return cartsvc.VariantDetail{}, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
	}
	return detail, nil
}

type stubRemote struct {
	snapshot cartsvc.Cart
	added    int
}

func (s *stubRemote) AddLine(context.Context, cartsvc.Merchandise, int) error {
	s.added++
	return nil
}
func (s *stubRemote) UpdateLine(context.Context, uuid.UUID, int) error { return nil }
func (s *stubRemote) RemoveLine(context.Context, uuid.UUID) error     { return nil }
func (s *stubRemote) Get(context.Context) (cartsvc.Cart, error)       { return s.snapshot, nil }

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cart-api-test", Output: io.Discard})
}

type testEnv struct {
	router    http.Handler
	remote    *stubRemote
	variantID uuid.UUID
	productID uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	variantID := uuid.New()
	productID := uuid.New()
	catalog := &stubCatalog{variants: map[uuid.UUID]cartsvc.VariantDetail{
		variantID: {
			Merchandise: cartsvc.Merchandise{
				ProductID:       productID,
				VariantID:       variantID,
				Title:           "Trail Runner",
				SelectedOptions: types.SelectedOptions{{Name: "size", Value: "42"}},
			},
			UnitPrice: money.New(decimal.RequireFromString("499.00"), enums.CurrencyINR),
		},
	}}

	remote := &stubRemote{snapshot: cartsvc.NewEmpty()}
	provider, err := cartsvc.NewProvider(cartsvc.ProviderParams{
		Catalog:       catalog,
		Storage:       cartsvc.NewMemoryStorage(),
		RemoteFactory: func(uuid.UUID) cartsvc.Remote { return remote },
		Logger:        testLogger(),
	})
	require.NoError(t, err)

	logg := testLogger()
	r := chi.NewRouter()
	r.Use(middleware.GuestSession(logg))
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", CartFetch(provider, logg))
		r.Post("/lines", CartAddLine(provider, logg))
		r.Patch("/lines/{lineId}", CartUpdateLine(provider, logg))
		r.Delete("/lines/{lineId}", CartRemoveLine(provider, logg))
		r.Post("/reconcile", CartReconcile(provider, logg))
	})

	return &testEnv{router: r, remote: remote, variantID: variantID, productID: productID}
}

func (e *testEnv) do(t *testing.T, method, path, guestKey, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-Guest-Session", guestKey)
	if userID != "" {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) CartResponse {
	t.Helper()
	var envelope struct {
		Data CartResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestCartFetchEmpty(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/cart/", "guest-1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cart := decodeCart(t, rec)
	assert.Empty(t, cart.Lines)
	assert.Zero(t, cart.TotalQuantity)
	assert.Equal(t, "0.00", cart.Cost.Total.Amount)
}

func TestCartAddLine(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/cart/lines", "guest-1", "", AddLineRequest{
		ProductID: env.productID,
		VariantID: env.variantID,
		Quantity:  2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cart := decodeCart(t, rec)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, "499.00", cart.Lines[0].UnitPrice.Amount)
	assert.Equal(t, "998.00", cart.Lines[0].Total.Amount)
	assert.Equal(t, "998.00", cart.Cost.Subtotal.Amount)
	assert.Equal(t, "INR", cart.Cost.Subtotal.CurrencyCode)

	// the guest cart survives across requests on the same session key
	rec = env.do(t, http.MethodGet, "/cart/", "guest-1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeCart(t, rec).TotalQuantity)
}

func TestCartAddLineValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/cart/lines", "guest-1", "", map[string]any{
		"product_id": env.productID,
		"variant_id": env.variantID,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartAddLineUnknownVariant(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/cart/lines", "guest-1", "", AddLineRequest{
		ProductID: uuid.New(),
		VariantID: uuid.New(),
		Quantity:  1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartUpdateAndRemoveLine(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/cart/lines", "guest-1", "", AddLineRequest{
		ProductID: env.productID,
		VariantID: env.variantID,
		Quantity:  1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	lineID := decodeCart(t, rec).Lines[0].ID

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/cart/lines/%s", lineID), "guest-1", "", UpdateLineRequest{Delta: 1})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decodeCart(t, rec).TotalQuantity)

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/cart/lines/%s", lineID), "guest-1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCart(t, rec).Lines)

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/cart/lines/%s", lineID), "guest-1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartUpdateLineRejectsBadDelta(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPatch, fmt.Sprintf("/cart/lines/%s", uuid.New()), "guest-1", "", UpdateLineRequest{Delta: 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartReconcileRequiresUser(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/cart/reconcile", "guest-1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartReconcileReplaysGuestCart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/cart/lines", "guest-1", "", AddLineRequest{
		ProductID: env.productID,
		VariantID: env.variantID,
		Quantity:  3,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/cart/reconcile", "guest-1", uuid.NewString(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, 1, env.remote.added)
	assert.Equal(t, env.remote.snapshot.ID, decodeCart(t, rec).ID)

	// the guest cart is gone after the merge
	rec = env.do(t, http.MethodGet, "/cart/", "guest-1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCart(t, rec).Lines)
}
