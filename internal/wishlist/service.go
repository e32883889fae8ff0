package wishlist

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luiscarvajal/velamart-backend/internal/identity"
	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
	pkgerrors "github.com/luiscarvajal/velamart-backend/pkg/errors"
	"github.com/luiscarvajal/velamart-backend/pkg/logger"
)

// Service is the wishlist synchronizer. Like the cart it mutates the
// backing store first and refreshes an in-memory mirror afterwards, but
// it carries no durable snapshot.
type Service interface {
	FetchAll(ctx context.Context, userID uuid.UUID) ([]Item, error)
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Items(userID uuid.UUID) []Item
	Contains(userID, productID uuid.UUID) bool
	WatchIdentity(holder *identity.Holder) func()
}

// WishlistRepository defines the persistence surface required by the
// service.
type WishlistRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WishlistLine, error)
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

// ProductLoader validates that liked products exist in the catalog.
type ProductLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo WishlistRepository
	ProductRepo  ProductLoader
	Logger       *logger.Logger
}

type service struct {
	repo     WishlistRepository
	products ProductLoader
	log      *logger.Logger

	mu     sync.RWMutex
	mirror map[uuid.UUID][]Item
}

// NewService builds a wishlist synchronizer with the required
// dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.ProductRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:     params.WishlistRepo,
		products: params.ProductRepo,
		log:      params.Logger,
		mirror:   map[uuid.UUID][]Item{},
	}, nil
}

// FetchAll reloads the user's wishlist into the mirror. On failure the
// mirror entry empties so no stale likes survive.
func (s *service) FetchAll(ctx context.Context, userID uuid.UUID) ([]Item, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		s.replaceMirror(userID, []Item{})
		return []Item{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch wishlist")
	}

	items := make([]Item, 0, len(records))
	for _, record := range records {
		items = append(items, itemFromModel(record))
	}
	s.replaceMirror(userID, items)
	return items, nil
}

// Add ensures the product exists and appends a wishlist line. No
// dedup: liking a product twice stores two entries.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.repo.Add(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist line")
	}
	return s.refreshAfterMutation(ctx, userID)
}

// Remove drops every entry for the product regardless of prior state.
func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist line")
	}
	return s.refreshAfterMutation(ctx, userID)
}

// Items returns a copy of the mirrored wishlist.
func (s *service) Items(userID uuid.UUID) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]Item, len(s.mirror[userID]))
	copy(items, s.mirror[userID])
	return items
}

// Contains reports whether any mirrored entry references the product.
func (s *service) Contains(userID, productID uuid.UUID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.mirror[userID] {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// WatchIdentity warms the mirror on sign-in and drops it on sign-out.
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
					s.log.Warn(ctx, "wishlist warm after sign-in failed")
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

func (s *service) replaceMirror(userID uuid.UUID, items []Item) {
	s.mu.Lock()
	s.mirror[userID] = items
	s.mu.Unlock()
}

func (s *service) dropMirror(userID uuid.UUID) {
	s.mu.Lock()
	delete(s.mirror, userID)
	s.mu.Unlock()
}
