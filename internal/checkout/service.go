package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luiscarvajal/velamart-backend/internal/cart"
	"github.com/luiscarvajal/velamart-backend/internal/orders"
	"github.com/luiscarvajal/velamart-backend/pkg/db/models"
	"github.com/luiscarvajal/velamart-backend/pkg/enums"
	pkgerrors "github.com/luiscarvajal/velamart-backend/pkg/errors"
	"github.com/luiscarvajal/velamart-backend/pkg/logger"
	"github.com/luiscarvajal/velamart-backend/pkg/types"
)

// PlaceOrderRequest is the payload submitted at checkout.
type PlaceOrderRequest struct {
	ShippingAddress types.Address `json:"shipping_address" validate:"required"`
	BillingAddress  types.Address `json:"billing_address" validate:"required"`
	PaymentMethod   string        `json:"payment_method" validate:"required"`
	Notes           *string       `json:"notes,omitempty"`
}

// Service derives checkout quotes and turns carts into orders.
type Service interface {
	Quote(ctx context.Context, userID uuid.UUID) (Quote, error)
	PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*orders.OrderDTO, error)
}

type cartSynchronizer interface {
	FetchAll(ctx context.Context, userID uuid.UUID) ([]cart.Line, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type orderWriter interface {
	Create(ctx context.Context, order *models.Order) error
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Cart      cartSynchronizer
	Products  productLoader
	OrderRepo orderWriter
	Logger    *logger.Logger
}

type service struct {
	cart     cartSynchronizer
	products productLoader
	orders   orderWriter
	log      *logger.Logger
}

// NewService constructs a checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	if params.OrderRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order repo is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		cart:     params.Cart,
		products: params.Products,
		orders:   params.OrderRepo,
		log:      params.Logger,
	}, nil
}

// Quote refreshes the cart and derives its money breakdown.
func (s *service) Quote(ctx context.Context, userID uuid.UUID) (Quote, error) {
	lines, err := s.cart.FetchAll(ctx, userID)
	if err != nil {
		return Quote{}, err
	}
	return BuildQuote(lines), nil
}

// PlaceOrder freezes the current cart into an order. Payment is
// recorded as settled immediately; there is no external processor in
// the loop. The cart is cleared after the order lands.
func (s *service) PlaceOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*orders.OrderDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(req.PaymentMethod) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method is required")
	}

	lines, err := s.cart.FetchAll(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	quote := BuildQuote(lines)

	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cart references a product no longer for sale")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}

		snapshot := types.ProductSnapshot{
			Name:  product.Name,
			Price: product.Price,
		}
		if line.Product != nil && line.Product.ImageURL != "" {
			imageURL := line.Product.ImageURL
			snapshot.ImageURL = &imageURL
		}
		if line.Variant != nil {
			variantName, variantValue := line.Variant.Name, line.Variant.Value
			snapshot.VariantName = &variantName
			snapshot.VariantValue = &variantValue
		}

		items = append(items, models.OrderItem{
			ProductID:       line.ProductID,
			VariantID:       line.VariantID,
			SellerID:        product.SellerID,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice(),
			TotalPrice:      line.Subtotal(),
			ProductSnapshot: snapshot,
		})
	}

	paymentMethod := req.PaymentMethod
	order := &models.Order{
		UserID:          userID,
		OrderNumber:     newOrderNumber(),
		Status:          enums.OrderStatusConfirmed,
		PaymentStatus:   enums.PaymentStatusPaid,
		Subtotal:        quote.Subtotal,
		TaxAmount:       quote.Tax,
		ShippingAmount:  quote.Shipping,
		TotalAmount:     quote.Total,
		Currency:        "USD",
		PaymentMethod:   &paymentMethod,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		Notes:           req.Notes,
		Items:           items,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	// The order is already placed; a failed cart clear must not void it.
	if err := s.cart.Clear(ctx, userID); err != nil {
		logCtx := s.log.WithUserID(ctx, userID.String())
		s.log.Warn(logCtx, "cart clear after checkout failed")
	}

	dto := orders.FromModel(order)
	return &dto, nil
}

func newOrderNumber() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("VM-%s-%s", time.Now().UTC().Format("20060102"), fragment)
}
