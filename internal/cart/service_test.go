package cart

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luiscarvajal/velamart-backend/internal/identity"
	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
	pkgerrors "github.com/luiscarvajal/velamart-backend/pkg/errors"
	"github.com/luiscarvajal/velamart-backend/pkg/logger"
)

func TestAddReplacesQuantityForSameKey(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	product := newTestProduct("Walnut Desk Lamp", "49.90")
	env := newTestEnv(t, product)

	if err := env.svc.AddOrUpdate(context.Background(), userID, product.ID, nil, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if err := env.svc.AddOrUpdate(context.Background(), userID, product.ID, nil, 5); err != nil {
		t.Fatalf("second add: %v", err)
	}

	lines := env.svc.Lines(userID)
	if len(lines) != 1 {
		t.Fatalf("expected a single line, got %d", len(lines))
	}
	if lines[0].Quantity != 5 {
		t.Fatalf("expected quantity replaced to 5, got %d", lines[0].Quantity)
	}
}

func TestTotalPriceIncludesVariantAdjustment(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	product := newTestProduct("Linen Shirt", "30.00")
	variant := &models.ProductVariant{
		ID:              uuid.New(),
		ProductID:       product.ID,
		Name:            "Size",
		Value:           "XL",
		PriceAdjustment: decimal.RequireFromString("5.50"),
		IsActive:        true,
	}
	env := newTestEnv(t, product)
	env.repo.variants[variant.ID] = variant

	if err := env.svc.AddOrUpdate(context.Background(), userID, product.ID, &variant.ID, 3); err != nil {
		t.Fatalf("add: %v", err)
	}

	// (30.00 + 5.50) * 3
	want := decimal.RequireFromString("106.50")
	if got := env.svc.TotalPrice(userID); !got.Equal(want) {
		t.Fatalf("expected total %s, got %s", want, got)
	}
	if got := env.svc.TotalQuantity(userID); got != 3 {
		t.Fatalf("expected quantity 3, got %d", got)
	}
}

func TestTotalPriceTreatsMissingProductAsZero(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	product := newTestProduct("Ceramic Mug", "12.00")
	env := newTestEnv(t, product)

	if err := env.svc.AddOrUpdate(context.Background(), userID, product.ID, nil, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	// A line whose product hydration went missing prices at zero but
	// still counts toward the item total.
	env.repo.dropHydration(product.ID)
	if _, err := env.svc.FetchAll(context.Background(), userID); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if got := env.svc.TotalPrice(userID); !got.IsZero() {
		t.Fatalf("expected zero total, got %s", got)
	}
	if got := env.svc.TotalQuantity(userID); got != 2 {
		t.Fatalf("expected quantity 2, got %d", got)
	}
}

func TestSetQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	product := newTestProduct("Oak Bookend", "18.00")
	env := newTestEnv(t, product)

	if err := env.svc.AddOrUpdate(context.Background(), userID, product.ID, nil, 4); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := env.svc.SetQuantity(context.Background(), userID, product.ID, nil, 0); err != nil {
		t.Fatalf("set quantity: %v", err)
	}

	if lines := env.svc.Lines(userID); len(lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(lines))
	}
}

func TestFetchFailureEmptiesMirror(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	product := newTestProduct("Brass Candle Holder", "22.00")
	env := newTestEnv(t, product)

	if err := env.svc.AddOrUpdate(context.Background(), userID, product.ID, nil, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	env.repo.setListErr(fmt.Errorf("connection refused"))
	lines, err := env.svc.FetchAll(context.Background(), userID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("expected empty result on failure, got %d", len(lines))
	}
	if mirrored := env.svc.Lines(userID); len(mirrored) != 0 {
		t.Fatalf("stale lines survived failed refresh: %d", len(mirrored))
	}
}

func TestAddUnknownProductRejected(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, newTestProduct("Known", "1.00"))

	err := env.svc.AddOrUpdate(context.Background(), uuid.New(), uuid.New(), nil, 1)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWatchIdentityWarmsAndDropsMirror(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	product := newTestProduct("Wool Throw", "75.00")
	env := newTestEnv(t, product)
	env.repo.seedLine(userID, product.ID, nil, 2)

	holder := identity.NewHolder()
	stop := env.svc.WatchIdentity(holder)
	defer stop()

	holder.SignIn(identity.Identity{UserID: userID})
	waitFor(t, func() bool { return len(env.svc.Lines(userID)) == 1 })

	holder.SignOut()
	waitFor(t, func() bool { return len(env.svc.Lines(userID)) == 0 })
}

func TestCheckoutJourneyTotals(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	lamp := newTestProduct("Walnut Desk Lamp", "49.90")
	mug := newTestProduct("Ceramic Mug", "12.00")
	env := newTestEnv(t, lamp)
	env.addProduct(mug)

	ctx := context.Background()
	if err := env.svc.AddOrUpdate(ctx, userID, lamp.ID, nil, 1); err != nil {
		t.Fatalf("add lamp: %v", err)
	}
	if err := env.svc.AddOrUpdate(ctx, userID, mug.ID, nil, 2); err != nil {
		t.Fatalf("add mug: %v", err)
	}
	if err := env.svc.SetQuantity(ctx, userID, mug.ID, nil, 4); err != nil {
		t.Fatalf("bump mug: %v", err)
	}

	// 49.90 + 4 * 12.00
	want := decimal.RequireFromString("97.90")
	if got := env.svc.TotalPrice(userID); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if got := env.svc.TotalQuantity(userID); got != 5 {
		t.Fatalf("expected 5 items, got %d", got)
	}

	if err := env.svc.Clear(ctx, userID); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := env.svc.TotalQuantity(userID); got != 0 {
		t.Fatalf("expected empty cart after clear, got %d items", got)
	}
}

func TestNewServiceWarmsFromSnapshot(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	snapshot := newMemorySnapshot()
	snapshot.state[userID] = []Line{{
		ID:        uuid.New(),
		ProductID: uuid.New(),
		Quantity:  2,
		Product:   &LineProduct{Name: "Cached Lamp", Price: decimal.RequireFromString("10.00")},
	}}

	svc, err := NewService(ServiceParams{
		CartRepo:    newMemoryCartRepo(),
		ProductRepo: newMemoryCartRepo(),
		Snapshots:   snapshot,
		Logger:      testLogger(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if got := svc.TotalQuantity(userID); got != 2 {
		t.Fatalf("expected snapshot-warmed quantity 2, got %d", got)
	}
	want := decimal.RequireFromString("20.00")
	if got := svc.TotalPrice(userID); !got.Equal(want) {
		t.Fatalf("expected snapshot-warmed total %s, got %s", want, got)
	}
	if svc.Syncing() {
		t.Fatal("no fetch in flight, syncing should be false")
	}
}

type testEnv struct {
	svc  Service
	repo *memoryCartRepo
	snap *memorySnapshot
}

func newTestEnv(t *testing.T, product *models.Product) *testEnv {
	t.Helper()

	repo := newMemoryCartRepo()
	repo.products[product.ID] = product
	snap := newMemorySnapshot()

	svc, err := NewService(ServiceParams{
		CartRepo:    repo,
		ProductRepo: repo,
		Snapshots:   snap,
		Logger:      testLogger(),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &testEnv{svc: svc, repo: repo, snap: snap}
}

func (e *testEnv) addProduct(p *models.Product) {
	e.repo.mu.Lock()
	defer e.repo.mu.Unlock()
	e.repo.products[p.ID] = p
}

func newTestProduct(name, price string) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.RequireFromString(price),
		IsActive: true,
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// memoryCartRepo doubles as CartRepository and ProductLoader.
type memoryCartRepo struct {
	mu       sync.Mutex
	lines    []models.CartLine
	products map[uuid.UUID]*models.Product
	variants map[uuid.UUID]*models.ProductVariant
	listErr  error
}

func newMemoryCartRepo() *memoryCartRepo {
	return &memoryCartRepo{
		products: map[uuid.UUID]*models.Product{},
		variants: map[uuid.UUID]*models.ProductVariant{},
	}
}

func (m *memoryCartRepo) setListErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

func (m *memoryCartRepo) dropHydration(productID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.products, productID)
}

func (m *memoryCartRepo) seedLine(userID, productID uuid.UUID, variantID *uuid.UUID, quantity int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lines = append(m.lines, models.CartLine{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
	})
}

func (m *memoryCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []models.CartLine
	for _, line := range m.lines {
		if line.UserID != userID {
			continue
		}
		hydrated := line
		hydrated.Product = m.products[line.ProductID]
		if line.VariantID != nil {
			hydrated.Variant = m.variants[*line.VariantID]
		}
		out = append(out, hydrated)
	}
	return out, nil
}

func (m *memoryCartRepo) Upsert(ctx context.Context, line *models.CartLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.lines {
		if existing.UserID == line.UserID && existing.ProductID == line.ProductID && variantKeyEqual(existing.VariantID, line.VariantID) {
			m.lines[i].Quantity = line.Quantity
			return nil
		}
	}
	stored := *line
	stored.ID = uuid.New()
	m.lines = append(m.lines, stored)
	return nil
}

func (m *memoryCartRepo) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.lines {
		if existing.UserID == userID && existing.ProductID == productID && variantKeyEqual(existing.VariantID, variantID) {
			m.lines[i].Quantity = quantity
		}
	}
	return nil
}

func (m *memoryCartRepo) Delete(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.lines[:0]
	for _, existing := range m.lines {
		if existing.UserID == userID && existing.ProductID == productID && variantKeyEqual(existing.VariantID, variantID) {
			continue
		}
		kept = append(kept, existing)
	}
	m.lines = kept
	return nil
}

func (m *memoryCartRepo) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.lines[:0]
	for _, existing := range m.lines {
		if existing.UserID == userID {
			continue
		}
		kept = append(kept, existing)
	}
	m.lines = kept
	return nil
}

func (m *memoryCartRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if product, ok := m.products[id]; ok {
		return product, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryCartRepo) FindVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if variant, ok := m.variants[variantID]; ok && variant.ProductID == productID {
		return variant, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func variantKeyEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type memorySnapshot struct {
	mu    sync.Mutex
	state map[uuid.UUID][]Line
	saves int
}

func newMemorySnapshot() *memorySnapshot {
	return &memorySnapshot{state: map[uuid.UUID][]Line{}}
}

func (m *memorySnapshot) Load() (map[uuid.UUID][]Line, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID][]Line, len(m.state))
	for k, v := range m.state {
		out[k] = v
	}
	return out, nil
}

func (m *memorySnapshot) Save(state map[uuid.UUID][]Line) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.saves++
	return nil
}
