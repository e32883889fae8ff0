package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luiscarvajal/velamart-backend/api/middleware"
	"github.com/luiscarvajal/velamart-backend/internal/cart"
	"github.com/luiscarvajal/velamart-backend/internal/identity"
	"github.com/luiscarvajal/velamart-backend/pkg/types"
)

type stubCartService struct {
	lines []cart.Line

	addedProduct  uuid.UUID
	addedVariant  *uuid.UUID
	addedQuantity int

	removedProduct uuid.UUID
	removedVariant *uuid.UUID
	cleared        bool
}

func (s *stubCartService) FetchAll(ctx context.Context, userID uuid.UUID) ([]cart.Line, error) {
	return s.lines, nil
}

func (s *stubCartService) AddOrUpdate(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID, quantity int) error {
	s.addedProduct = productID
	s.addedVariant = variantID
	s.addedQuantity = quantity
	return nil
}

func (s *stubCartService) SetQuantity(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID, quantity int) error {
	return nil
}

func (s *stubCartService) Remove(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) error {
	s.removedProduct = productID
	s.removedVariant = variantID
	return nil
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	s.cleared = true
	return nil
}

func (s *stubCartService) Lines(userID uuid.UUID) []cart.Line {
	return s.lines
}

func (s *stubCartService) TotalQuantity(userID uuid.UUID) int {
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

func (s *stubCartService) TotalPrice(userID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

func (s *stubCartService) Syncing() bool {
	return false
}

func (s *stubCartService) WatchIdentity(holder *identity.Holder) func() {
	return func() {}
}

func authedRequest(t *testing.T, method, target string, body []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	ctx := middleware.WithUserID(req.Context(), uuid.NewString())
	return req.WithContext(ctx)
}

func TestCartAddReturnsUpdatedView(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	svc := &stubCartService{
		lines: []cart.Line{{
			ProductID: productID,
			Quantity:  2,
			Product:   &cart.LineProduct{Name: "Desk Lamp", Price: decimal.RequireFromString("19.99")},
		}},
	}

	payload, err := json.Marshal(map[string]any{
		"product_id": productID.String(),
		"quantity":   2,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	CartAdd(svc, nil).ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/v1/cart/", payload))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, productID, svc.addedProduct)
	assert.Nil(t, svc.addedVariant)
	assert.Equal(t, 2, svc.addedQuantity)

	var body types.SuccessEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	view := body.Data.(map[string]any)
	assert.Equal(t, float64(2), view["total_quantity"])
	assert.Equal(t, "39.98", view["total_price"])
}

func TestCartAddRejectsMissingQuantity(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	payload := []byte(`{"product_id":"` + uuid.NewString() + `"}`)

	w := httptest.NewRecorder()
	CartAdd(svc, nil).ServeHTTP(w, authedRequest(t, http.MethodPost, "/api/v1/cart/", payload))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartFetchRequiresUser(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	CartFetch(&stubCartService{}, nil).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCartRemoveParsesVariantQuery(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	variantID := uuid.New()
	svc := &stubCartService{}

	r := chi.NewRouter()
	r.Delete("/cart/{productId}", CartRemove(svc, nil))

	w := httptest.NewRecorder()
	target := "/cart/" + productID.String() + "?variant_id=" + variantID.String()
	r.ServeHTTP(w, authedRequest(t, http.MethodDelete, target, nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, productID, svc.removedProduct)
	require.NotNil(t, svc.removedVariant)
	assert.Equal(t, variantID, *svc.removedVariant)
}

func TestCartClear(t *testing.T) {
	t.Parallel()

	svc := &stubCartService{}
	w := httptest.NewRecorder()
	CartClear(svc, nil).ServeHTTP(w, authedRequest(t, http.MethodDelete, "/api/v1/cart/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.cleared)
}
