package cart

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luiscarvajal/velamart-backend/internal/identity"
	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
	pkgerrors "github.com/luiscarvajal/velamart-backend/pkg/errors"
	"github.com/luiscarvajal/velamart-backend/pkg/logger"
)

// Service is the cart synchronizer: every mutation goes to the backing
// store first, then the in-memory mirror is refreshed from it and the
// durable snapshot rewritten. Totals read only the mirror.
type Service interface {
	FetchAll(ctx context.Context, userID uuid.UUID) ([]Line, error)
	AddOrUpdate(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID, quantity int) error
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
	Lines(userID uuid.UUID) []Line
	TotalQuantity(userID uuid.UUID) int
	TotalPrice(userID uuid.UUID) decimal.Decimal
	Syncing() bool
	WatchIdentity(holder *identity.Holder) func()
}

// CartRepository defines the persistence surface required by the service.
type CartRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	Upsert(ctx context.Context, line *models.CartLine) error
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID, quantity int) error
	Delete(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) error
}

// ProductLoader validates that added lines reference real catalog rows.
type ProductLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindVariant(ctx context.Context, productID, variantID uuid.UUID) (*models.ProductVariant, error)
}

// SnapshotBlob is the durable single-blob persistence for the mirror.
type SnapshotBlob interface {
	Load() (map[uuid.UUID][]Line, error)
	Save(state map[uuid.UUID][]Line) error
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	CartRepo    CartRepository
	ProductRepo ProductLoader
	Snapshots   SnapshotBlob
	Logger      *logger.Logger
}

type service struct {
	repo      CartRepository
	products  ProductLoader
	snapshots SnapshotBlob
	log       *logger.Logger

	mu     sync.RWMutex
	mirror map[uuid.UUID][]Line

	inflight atomic.Int64
}

// NewService builds the cart synchronizer and warms the mirror from the
// durable snapshot. A corrupt snapshot is discarded, not fatal.
func NewService(params ServiceParams) (Service, error) {
	if params.CartRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.Snapshots == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "snapshot store is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}

	s := &service{
		repo:      params.CartRepo,
		products:  params.ProductRepo,
		snapshots: params.Snapshots,
		log:       params.Logger,
		mirror:    map[uuid.UUID][]Line{},
	}

	state, err := params.Snapshots.Load()
	if err != nil {
		s.log.Warn(context.Background(), "cart snapshot unreadable, starting empty")
	} else {
		s.mirror = state
	}
	return s, nil
}

// FetchAll reloads the user's cart from the backing store into the
// mirror. On a load failure the mirror entry is emptied so stale lines
// never survive a failed refresh; the error is still returned.
func (s *service) FetchAll(ctx context.Context, userID uuid.UUID) ([]Line, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	s.inflight.Add(1)
	defer s.inflight.Add(-1)

	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.replaceMirror(ctx, userID, []Line{})
		return []Line{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch cart")
	}

	lines := make([]Line, 0, len(records))
	for _, record := range records {
		lines = append(lines, lineFromModel(record))
	}
	s.replaceMirror(ctx, userID, lines)
	return lines, nil
}

// AddOrUpdate upserts a line keyed by (user, product, variant). An add
// for an existing key replaces the stored quantity with the incoming
// one rather than incrementing it.
func (s *service) AddOrUpdate(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID, quantity int) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if variantID != nil {
		if _, err := s.products.FindVariant(ctx, productID, *variantID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "variant not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
		}
	}

	line := &models.CartLine{
		UserID:    userID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
	}
	if err := s.repo.Upsert(ctx, line); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert cart line")
	}
	return s.refreshAfterMutation(ctx, userID)
}

// SetQuantity updates the quantity on an existing line. A target of
// zero or less removes the line instead.
func (s *service) SetQuantity(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, userID, productID, variantID)
	}
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	if err := s.repo.UpdateQuantity(ctx, userID, productID, variantID, quantity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart quantity")
	}
	return s.refreshAfterMutation(ctx, userID)
}

// Remove deletes the line for the key if present.
func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID, variantID *uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	if err := s.repo.Delete(ctx, userID, productID, variantID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart line")
	}
	return s.refreshAfterMutation(ctx, userID)
}

// Clear empties the user's cart.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if err := s.repo.DeleteAll(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return s.refreshAfterMutation(ctx, userID)
}

// Lines returns a copy of the mirrored cart.
func (s *service) Lines(userID uuid.UUID) []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lines := make([]Line, len(s.mirror[userID]))
	copy(lines, s.mirror[userID])
	return lines
}

// TotalQuantity sums line quantities from the mirror.
func (s *service) TotalQuantity(userID uuid.UUID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, line := range s.mirror[userID] {
		total += line.Quantity
	}
	return total
}

// Syncing reports whether any remote fetch is in flight.
func (s *service) Syncing() bool {
	return s.inflight.Load() > 0
}

// TotalPrice sums line subtotals from the mirror. Lines that never
// hydrated a product contribute zero.
func (s *service) TotalPrice(userID uuid.UUID) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, line := range s.mirror[userID] {
		total = total.Add(line.Subtotal())
	}
	return total
}

// WatchIdentity reacts to identity transitions: a sign-in warms the
// user's mirror, a sign-out drops it. The returned stop func tears the
// subscription down.
func (s *service) WatchIdentity(holder *identity.Holder) func() {
	events, cancel := holder.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for event := range events {
			switch event.Kind {
			case identity.EventSignedIn:
				if _, err := s.FetchAll(context.Background(), event.Identity.UserID); err != nil {
					ctx := s.log.WithUserID(context.Background(), event.Identity.UserID.String())
					s.log.Warn(ctx, "cart warm after sign-in failed")
				}
			case identity.EventSignedOut:
				s.dropMirror(event.Identity.UserID)
			}
		}
	}()

	return func() {
		cancel()
		<-done
	}
}

func (s *service) refreshAfterMutation(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.FetchAll(ctx, userID); err != nil {
		return err
	}
	return nil
}

func (s *service) replaceMirror(ctx context.Context, userID uuid.UUID, lines []Line) {
	s.mu.Lock()
	s.mirror[userID] = lines
	state := s.copyStateLocked()
	s.mu.Unlock()
	s.persist(ctx, state)
}

func (s *service) dropMirror(userID uuid.UUID) {
	s.mu.Lock()
	delete(s.mirror, userID)
	state := s.copyStateLocked()
	s.mu.Unlock()
	s.persist(context.Background(), state)
}

func (s *service) copyStateLocked() map[uuid.UUID][]Line {
	state := make(map[uuid.UUID][]Line, len(s.mirror))
	for userID, lines := range s.mirror {
		copied := make([]Line, len(lines))
		copy(copied, lines)
		state[userID] = copied
	}
	return state
}

// persist failures degrade durability, not correctness; the backing
// store already holds the truth.
func (s *service) persist(ctx context.Context, state map[uuid.UUID][]Line) {
	if err := s.snapshots.Save(state); err != nil {
		s.log.Warn(ctx, "cart snapshot write failed")
	}
}
