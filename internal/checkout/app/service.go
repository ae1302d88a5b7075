package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/shanedle/cipher-cart/internal/checkout/domain"
	"github.com/shanedle/cipher-cart/pkg/pricing"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrCheckoutFailed = errors.New("checkout failed")
	ErrInvalidInput   = errors.New("invalid input")
)

const (
	DefaultPendingTTL = 24 * time.Hour

	checkoutSessionPlaceholder = "{CHECKOUT_SESSION_ID}"
)

var tracer = otel.Tracer("github.com/shanedle/cipher-cart/internal/checkout")

type Options struct {
	BaseURL       string
	Currency      string
	MaxConcurrent int
	PendingTTL    time.Duration
}

type pendingOrder struct {
	cartID string
	order  domain.PlacedOrder
	at     time.Time
}

type Service struct {
	Cart     CartSource
	Catalog  CatalogReader
	Sessions SessionProvider
	Orders   OrderRecorder

	opts Options
	log  *slog.Logger
	now  func() time.Time

	mu      sync.Mutex
	pending map[string]pendingOrder
}

// NewService wires the checkout handoff. catalog and orders may be nil:
// without a catalog the cart's prices are charged as they are, without a
// recorder confirmations only clear the cart.
func NewService(cart CartSource, catalog CatalogReader, sessions SessionProvider, orders OrderRecorder, opts Options, log *slog.Logger) *Service {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 10
	}
	if opts.PendingTTL <= 0 {
		opts.PendingTTL = DefaultPendingTTL
	}
	if opts.Currency == "" {
		opts.Currency = "usd"
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		Cart:     cart,
		Catalog:  catalog,
		Sessions: sessions,
		Orders:   orders,
		opts:     opts,
		log:      log,
		now:      time.Now,
		pending:  map[string]pendingOrder{},
	}
}

// Begin creates a hosted checkout session for the cart. The cart is left
// untouched whatever the outcome; it is cleared by Confirm.
func (s *Service) Begin(ctx context.Context, cartID string, customer domain.Customer) (domain.Session, error) {
	ctx, span := tracer.Start(ctx, "checkout.Begin")
	defer span.End()

	items := s.Cart.GroupedItems(cartID)
	if len(items) == 0 {
		return domain.Session{}, ErrEmptyCart
	}

	if s.Catalog != nil {
		if err := s.refresh(ctx, items); err != nil {
			s.log.Error("checkout price refresh failed", slog.String("cart_id", cartID), slog.Any("err", err))
			failSpan(span, err, "refresh failed")
			return domain.Session{}, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
		}
	}

	meta := metadataFor(customer)
	lines, discount := lineItems(items)
	span.SetAttributes(
		attribute.String("checkout.order_number", meta.OrderNumber),
		attribute.Int("checkout.lines", len(lines)),
	)

	req := domain.SessionRequest{
		Currency:   s.opts.Currency,
		Lines:      lines,
		Metadata:   meta,
		SuccessURL: s.opts.BaseURL + "/success?session_id=" + checkoutSessionPlaceholder + "&orderNumber=" + url.QueryEscape(meta.OrderNumber),
		CancelURL:  s.opts.BaseURL + "/cart",
	}

	sessionURL, err := s.Sessions.CreateCheckoutSession(ctx, req)
	if err == nil && sessionURL == "" {
		err = errors.New("checkout url was not generated")
	}
	if err != nil {
		s.log.Error("checkout session failed",
			slog.String("cart_id", cartID),
			slog.String("order_number", meta.OrderNumber),
			slog.Any("err", err),
		)
		failSpan(span, err, "session failed")
		return domain.Session{}, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}

	s.remember(cartID, domain.PlacedOrder{
		Metadata:       meta,
		Currency:       s.opts.Currency,
		Lines:          lines,
		DiscountAmount: discount,
	})

	s.log.Info("checkout session created", slog.String("cart_id", cartID), slog.String("order_number", meta.OrderNumber))
	return domain.Session{URL: sessionURL, OrderNumber: meta.OrderNumber}, nil
}

// Confirm handles the return from the provider's success page. The pending
// order is recorded only once the provider reports sessionID as paid for
// the same order number. Both the requesting cart and the cart that began
// the checkout are reset either way.
func (s *Service) Confirm(ctx context.Context, cartID, orderNumber, sessionID string) (domain.Confirmation, error) {
	ctx, span := tracer.Start(ctx, "checkout.Confirm")
	defer span.End()

	orderNumber = strings.TrimSpace(orderNumber)
	sessionID = strings.TrimSpace(sessionID)
	if orderNumber == "" {
		return domain.Confirmation{}, ErrInvalidInput
	}
	span.SetAttributes(attribute.String("checkout.order_number", orderNumber))

	s.mu.Lock()
	p, ok := s.pending[orderNumber]
	delete(s.pending, orderNumber)
	s.mu.Unlock()

	conf := domain.Confirmation{OrderNumber: orderNumber}
	if ok {
		paid, err := s.verify(ctx, sessionID, orderNumber)
		switch {
		case err != nil:
			// Keep the order so a retried confirmation can still record it.
			s.log.Error("checkout session lookup failed",
				slog.String("order_number", orderNumber),
				slog.String("session_id", sessionID),
				slog.Any("err", err),
			)
			failSpan(span, err, "session lookup failed")
			s.restore(orderNumber, p)
		case !paid:
			s.log.Warn("checkout session not paid, order not recorded",
				slog.String("order_number", orderNumber),
				slog.String("session_id", sessionID),
			)
		default:
			conf.Paid = true
			conf.Recorded = s.record(ctx, span, p.order)
		}

		if p.cartID != cartID {
			s.log.Warn("order confirmed from another cart",
				slog.String("order_number", orderNumber),
				slog.String("cart_id", cartID),
				slog.String("origin_cart_id", p.cartID),
			)
			s.Cart.Reset(p.cartID)
		}
	}

	s.Cart.Reset(cartID)
	return conf, nil
}

func (s *Service) verify(ctx context.Context, sessionID, orderNumber string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	st, err := s.Sessions.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return false, err
	}
	return st.Paid && st.OrderNumber == orderNumber, nil
}

func (s *Service) record(ctx context.Context, span trace.Span, order domain.PlacedOrder) bool {
	if s.Orders == nil {
		return false
	}
	if err := s.Orders.RecordOrder(ctx, order); err != nil {
		s.log.Error("record order failed", slog.String("order_number", order.OrderNumber), slog.Any("err", err))
		span.RecordError(err)
		return false
	}
	return true
}

func (s *Service) refresh(ctx context.Context, items []CartItem) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxConcurrent)

	for idx := range items {
		g.Go(func() error {
			it := &items[idx]
			product, err := s.Catalog.GetProduct(ctx, it.ProductID)
			if err != nil {
				return fmt.Errorf("failed to get product %s: %w", it.ProductID, err)
			}
			it.Name = product.Name
			it.Price = product.Price
			it.Discount = product.Discount
			return nil
		})
	}

	return g.Wait()
}

func (s *Service) remember(cartID string, order domain.PlacedOrder) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for n, p := range s.pending {
		if now.Sub(p.at) > s.opts.PendingTTL {
			delete(s.pending, n)
		}
	}
	s.pending[order.OrderNumber] = pendingOrder{cartID: cartID, order: order, at: now}
}

func (s *Service) restore(orderNumber string, p pendingOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[orderNumber] = p
}

func (s *Service) pendingLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func failSpan(span trace.Span, err error, msg string) {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, msg)
}

func metadataFor(c domain.Customer) domain.Metadata {
	meta := domain.Metadata{
		OrderNumber:   uuid.NewString(),
		CustomerName:  c.Name,
		CustomerEmail: c.Email,
		UserID:        c.ID,
	}
	if strings.TrimSpace(meta.CustomerName) == "" {
		meta.CustomerName = domain.UnknownCustomer
	}
	if strings.TrimSpace(meta.CustomerEmail) == "" {
		meta.CustomerEmail = domain.NoEmail
	}
	return meta
}

// lineItems converts cart items to minor units and returns the total
// discount granted across all lines.
func lineItems(items []CartItem) ([]domain.LineItem, int64) {
	lines := make([]domain.LineItem, 0, len(items))
	var discount int64
	for _, it := range items {
		unit := pricing.MinorUnits(pricing.EffectivePrice(it.Price, it.Discount))
		list := pricing.MinorUnits(it.Price)
		lines = append(lines, domain.LineItem{
			ProductID:  it.ProductID,
			Name:       it.Name,
			UnitAmount: unit,
			ListAmount: list,
			Quantity:   it.Quantity,
		})
		discount += (list - unit) * it.Quantity
	}
	return lines, discount
}
