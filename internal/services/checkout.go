package services

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"concert-ticketing/internal/cache"
	"concert-ticketing/internal/events"
	"concert-ticketing/internal/models"
)

var tracer = otel.Tracer("concert-ticketing/internal/services")

// CheckoutState is a step of a single checkout.
type CheckoutState string

const (
	StateIdle                 CheckoutState = "idle"
	StateValidatingCart       CheckoutState = "validating_cart"
	StateCheckingAvailability CheckoutState = "checking_availability"
	StatePurchasing           CheckoutState = "purchasing"
	StateCleared              CheckoutState = "cleared"
	StateCompleted            CheckoutState = "completed"
	StateRejected             CheckoutState = "rejected"
	StateFailed               CheckoutState = "failed"
)

// DefaultCheckoutLockTTL bounds how long a crashed checkout blocks the user.
const DefaultCheckoutLockTTL = 30 * time.Second

// CheckoutService converts a user's cart into an order.
type CheckoutService struct {
	carts        CartStore
	availability AvailabilityPolicy
	purchaser    PurchaseExecutor
	locker       Locker
	lockTTL      time.Duration
	publisher    EventPublisher
}

type CheckoutOption func(*CheckoutService)

// WithCheckoutLock serializes checkouts of the same user.
func WithCheckoutLock(locker Locker, ttl time.Duration) CheckoutOption {
	return func(s *CheckoutService) {
		s.locker = locker
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithEventPublisher publishes an order.created event after each checkout.
func WithEventPublisher(publisher EventPublisher) CheckoutOption {
	return func(s *CheckoutService) {
		s.publisher = publisher
	}
}

func NewCheckoutService(carts CartStore, availability AvailabilityPolicy, purchaser PurchaseExecutor, opts ...CheckoutOption) *CheckoutService {
	s := &CheckoutService{
		carts:        carts,
		availability: availability,
		purchaser:    purchaser,
		lockTTL:      DefaultCheckoutLockTTL,
		publisher:    events.NoopPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout validates the user's cart, checks availability of every line
// concurrently and purchases the whole cart. A rejected checkout has no
// side effects.
func (s *CheckoutService) Checkout(ctx context.Context, userID string) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "CheckoutService.Checkout")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	c := &checkout{logger: log.WithField("user_id", userID), state: StateIdle}

	order, err := s.run(ctx, c, userID)
	if err != nil {
		if models.IsInvalidOperation(err) || models.IsNotFound(err) {
			c.enter(StateRejected)
			c.logger.WithError(err).Info("Checkout rejected")
		} else {
			c.enter(StateFailed)
			c.logger.WithError(err).Error("Checkout failed")
			span.RecordError(err)
			span.SetStatus(codes.Error, "checkout failed")
		}
		return nil, err
	}

	c.enter(StateCompleted)
	span.SetAttributes(attribute.String("order.id", order.ID), attribute.Int("tickets.count", len(order.Tickets)))
	s.publishOrderCreated(ctx, order)
	return order, nil
}

func (s *CheckoutService) run(ctx context.Context, c *checkout, userID string) (*models.Order, error) {
	if s.locker != nil {
		key := cache.CheckoutLockKey(userID)
		token, ok, err := s.locker.AcquireLock(ctx, key, s.lockTTL)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, models.InvalidOperationf("checkout already in progress")
		}
		defer func() {
			if err := s.locker.ReleaseLock(context.WithoutCancel(ctx), key, token); err != nil {
				c.logger.WithError(err).Warn("Failed to release checkout lock")
			}
		}()
	}

	c.enter(StateValidatingCart)
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, models.InvalidOperationf("Can't checkout tickets. Cart is empty.")
	}

	c.enter(StateCheckingAvailability)
	if err := s.checkAvailability(ctx, cart); err != nil {
		return nil, err
	}

	c.enter(StatePurchasing)
	order, err := s.purchaser.Purchase(ctx, userID, cart)
	if err != nil {
		return nil, err
	}
	c.enter(StateCleared)
	return order, nil
}

// checkAvailability runs one policy check per cart line concurrently and
// returns the first failure.
func (s *CheckoutService) checkAvailability(ctx context.Context, cart models.Cart) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, item := range cart.Items() {
		g.Go(func() error {
			return s.availability.CheckAvailability(gctx, item.ConcertID, item.Quantity)
		})
	}
	return g.Wait()
}

func (s *CheckoutService) publishOrderCreated(ctx context.Context, order *models.Order) {
	event := events.NewOrderCreated(order)
	if err := s.publisher.PublishJSON(ctx, events.RKOrderCreated, event); err != nil {
		log.WithField("order_id", order.ID).WithError(err).Warn("Failed to publish order created event")
	}
}

type checkout struct {
	logger *log.Entry
	state  CheckoutState
}

func (c *checkout) enter(next CheckoutState) {
	c.logger.WithFields(log.Fields{"from": c.state, "to": next}).Debug("Checkout state changed")
	c.state = next
}
