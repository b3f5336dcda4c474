package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"shop-backend/internal/domain"
	"shop-backend/internal/repository"
	"shop-backend/pkg/metrics"

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"
)

// LineCommitPolicy decides what happens when one line of a multi-line order
// cannot commit stock.
type LineCommitPolicy string

const (
	// PolicyPartial commits each line independently and tolerates individual
	// failures, matching the historical behaviour of the shop.
	PolicyPartial LineCommitPolicy = "partial"
	// PolicyAtomic releases already-committed lines and fails the operation
	// on the first line that cannot commit.
	PolicyAtomic LineCommitPolicy = "atomic"
)

func ParseLineCommitPolicy(s string) LineCommitPolicy {
	if LineCommitPolicy(s) == PolicyAtomic {
		return PolicyAtomic
	}
	return PolicyPartial
}

type VerifyDecision string

const (
	DecisionApprove VerifyDecision = "approve"
	DecisionReject  VerifyDecision = "reject"
)

type PlaceOrderRequest struct {
	Lines          []RequestedLine
	PaymentMethod  domain.PaymentMethod
	PaymentStatus  domain.PaymentStatus
	DeliveryCharge int64
	CustomerName   string
	CustomerEmail  string
	CustomerPhone  string
}

// OrderService owns the order lifecycle: placement, payment verification,
// status progression and cancellation. It is the only caller of the stock
// ledger, and gates every commit and release on the order's
// InventoryCommitted flag so each order adjusts stock at most once in each
// direction.
type OrderService struct {
	orders      repository.OrderRepository
	validator   *OrderValidator
	ledger      *StockLedger
	notifier    Notifier
	policy      LineCommitPolicy
	metrics     *metrics.OrderMetrics
	redisClient *redis.Client
}

func NewOrderService(orders repository.OrderRepository, validator *OrderValidator, ledger *StockLedger, notifier Notifier) *OrderService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &OrderService{
		orders:    orders,
		validator: validator,
		ledger:    ledger,
		notifier:  notifier,
		policy:    PolicyPartial,
	}
}

func (s *OrderService) SetLineCommitPolicy(p LineCommitPolicy) {
	s.policy = p
}

func (s *OrderService) SetMetrics(m *metrics.OrderMetrics) {
	s.metrics = m
}

func (s *OrderService) SetRedisClient(client *redis.Client) {
	s.redisClient = client
}

// Place validates the request, decides whether stock commits now or waits
// for payment verification, and persists the new order. COD orders need no
// verification, so their payment counts as verified at placement.
func (s *OrderService) Place(ctx context.Context, req PlaceOrderRequest) (*domain.Order, error) {
	if req.CustomerName == "" {
		return nil, &domain.ValidationError{Field: "customerName", Msg: "is required"}
	}
	if !domain.ValidPaymentMethod(req.PaymentMethod) {
		return nil, &domain.ValidationError{Field: "paymentMethod", Msg: "must be cod or online"}
	}
	if req.DeliveryCharge < 0 {
		return nil, &domain.ValidationError{Field: "deliveryCharge", Msg: "must not be negative"}
	}

	lines, err := s.validator.Validate(req.Lines)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, l := range lines {
		total += l.UnitPrice * l.Quantity
	}
	total += req.DeliveryCharge

	payStatus := req.PaymentStatus
	if payStatus == "" {
		payStatus = domain.PaymentPending
	}
	if req.PaymentMethod == domain.PaymentCOD {
		payStatus = domain.PaymentVerified
	}

	order := &domain.Order{
		Lines:          lines,
		TotalAmount:    total,
		DeliveryCharge: req.DeliveryCharge,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerPhone:  req.CustomerPhone,
		PaymentMethod:  req.PaymentMethod,
		PaymentStatus:  payStatus,
		PlacedAt:       time.Now(),
	}

	confirmed := req.PaymentMethod == domain.PaymentCOD || payStatus == domain.PaymentVerified
	if confirmed {
		committed, err := s.commitLines(ctx, lines)
		if err != nil {
			return nil, err
		}
		order.Status = domain.StatusOrderPlaced
		order.InventoryCommitted = committed
		now := order.PlacedAt
		order.VerifiedAt = &now
	} else {
		order.Status = domain.StatusPendingVerification
	}

	if err := s.orders.Create(order); err != nil {
		return nil, err
	}

	s.notifier.OrderPlaced(ctx, domain.OrderPlacedEvent{
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount,
		Confirmed:   confirmed,
		PlacedAt:    order.PlacedAt,
	})
	if s.metrics != nil {
		s.metrics.OrdersPlaced.
			WithLabelValues(string(order.PaymentMethod), strconv.FormatBool(confirmed)).Inc()
	}
	return order, nil
}

// commitLines runs the ledger over every resolvable line. Under the partial
// policy each line commits independently; the operation only fails when no
// line could commit at all, so there is never stock to roll back on that
// path. Under the atomic policy the first failure releases everything
// committed so far and fails the operation.
func (s *OrderService) commitLines(ctx context.Context, lines []domain.OrderLine) (bool, error) {
	var (
		committed []domain.OrderLine
		attempted int
		firstErr  error
	)
	for _, line := range lines {
		if line.ProductID == nil {
			continue
		}
		attempted++
		err := s.ledger.TryCommit(ctx, *line.ProductID, line.Quantity)
		if err == nil {
			committed = append(committed, line)
			if s.metrics != nil {
				s.metrics.StockCommits.Inc()
			}
			continue
		}
		if s.metrics != nil {
			var insufficient *domain.InsufficientStockError
			if errors.As(err, &insufficient) {
				s.metrics.CommitRejections.Inc()
			}
		}
		if s.policy == PolicyAtomic {
			s.releaseLines(ctx, committed)
			return false, err
		}
		if firstErr == nil {
			firstErr = err
		}
		log.Printf("stock commit skipped for product %d: %v", *line.ProductID, err)
	}

	if attempted > 0 && len(committed) == 0 {
		return false, firstErr
	}
	return len(committed) > 0, nil
}

func (s *OrderService) releaseLines(ctx context.Context, lines []domain.OrderLine) {
	for _, line := range lines {
		if line.ProductID == nil {
			continue
		}
		if err := s.ledger.Release(ctx, *line.ProductID, line.Quantity); err != nil {
			log.Printf("stock release failed for product %d: %v", *line.ProductID, err)
			continue
		}
		if s.metrics != nil {
			s.metrics.StockReleases.Inc()
		}
	}
}

// VerifyPayment resolves a pending online payment. Approval is stricter than
// placement: the customer is being charged, so any line that cannot commit
// fails the whole verification and the order drops back to pending.
func (s *OrderService) VerifyPayment(ctx context.Context, orderID uint64, decision VerifyDecision, reason string) (*domain.Order, error) {
	order, err := s.load(orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus != domain.PaymentPending {
		return nil, fmt.Errorf("%w: order %d is %s", domain.ErrAlreadyVerified, order.ID, order.PaymentStatus)
	}
	// A cancelled order keeps its pending payment status; verification must
	// not resurrect it.
	if order.Status != domain.StatusPendingVerification {
		return nil, &domain.InvalidTransitionError{From: order.Status, To: domain.StatusOrderPlaced}
	}

	switch decision {
	case DecisionReject:
		order, err = s.saveWithRetry(order, func(o *domain.Order) error {
			if o.PaymentStatus != domain.PaymentPending || o.Status != domain.StatusPendingVerification {
				return domain.ErrAlreadyVerified
			}
			o.PaymentStatus = domain.PaymentRejected
			o.Status = domain.StatusPaymentRejected
			return nil
		})
		if err != nil {
			return nil, err
		}
		s.notifier.PaymentRejected(ctx, domain.PaymentRejectedEvent{OrderID: order.ID, Reason: reason})
		if s.metrics != nil {
			s.metrics.Verifications.WithLabelValues(string(DecisionReject)).Inc()
		}
		return order, nil

	case DecisionApprove:
		// Claim the verification first; the version CAS makes sure only one
		// of two racing approvals reaches the ledger.
		now := time.Now()
		order, err = s.saveWithRetry(order, func(o *domain.Order) error {
			if o.PaymentStatus != domain.PaymentPending || o.Status != domain.StatusPendingVerification {
				return domain.ErrAlreadyVerified
			}
			o.PaymentStatus = domain.PaymentVerified
			o.Status = domain.StatusOrderPlaced
			o.VerifiedAt = &now
			return nil
		})
		if err != nil {
			return nil, err
		}

		if cerr := s.commitLinesStrict(ctx, order.Lines); cerr != nil {
			// Undo the claim so the admin can retry once stock returns.
			if order, err = s.saveWithRetry(order, func(o *domain.Order) error {
				o.PaymentStatus = domain.PaymentPending
				o.Status = domain.StatusPendingVerification
				o.VerifiedAt = nil
				return nil
			}); err != nil {
				log.Printf("failed to revert verification claim for order %d: %v", orderID, err)
			}
			return nil, cerr
		}

		order, err = s.saveWithRetry(order, func(o *domain.Order) error {
			o.InventoryCommitted = true
			return nil
		})
		if err != nil {
			return nil, err
		}
		s.notifier.PaymentVerified(ctx, domain.PaymentVerifiedEvent{OrderID: order.ID, VerifiedAt: now})
		if s.metrics != nil {
			s.metrics.Verifications.WithLabelValues(string(DecisionApprove)).Inc()
		}
		return order, nil

	default:
		return nil, &domain.ValidationError{Field: "decision", Msg: "must be approve or reject"}
	}
}

// commitLinesStrict fails on the first line that cannot commit. Under the
// partial policy lines committed earlier in the same call are left committed,
// as the shop has always done; the atomic policy releases them.
func (s *OrderService) commitLinesStrict(ctx context.Context, lines []domain.OrderLine) error {
	var committed []domain.OrderLine
	for _, line := range lines {
		if line.ProductID == nil {
			continue
		}
		if err := s.ledger.TryCommit(ctx, *line.ProductID, line.Quantity); err != nil {
			if s.policy == PolicyAtomic {
				s.releaseLines(ctx, committed)
			}
			return err
		}
		committed = append(committed, line)
		if s.metrics != nil {
			s.metrics.StockCommits.Inc()
		}
	}
	return nil
}

// UpdateStatus moves an order along the delivery pipeline, or to Cancelled
// from any non-terminal status. Orders still awaiting payment verification
// can only be cancelled.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint64, next domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidStatus(next) {
		return nil, &domain.ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", next)}
	}
	order, err := s.load(orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == domain.PaymentPending && next != domain.StatusCancelled {
		return nil, fmt.Errorf("%w: order %d", domain.ErrPaymentPending, order.ID)
	}

	if next == domain.StatusCancelled {
		return s.cancel(ctx, order, domain.CancelledByAdmin, "cancelled by admin")
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, &domain.InvalidTransitionError{From: order.Status, To: next}
	}

	from := order.Status
	order, err = s.saveWithRetry(order, func(o *domain.Order) error {
		if !o.Status.CanTransitionTo(next) {
			return &domain.InvalidTransitionError{From: o.Status, To: next}
		}
		o.Status = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.StatusChanged(ctx, domain.StatusChangedEvent{OrderID: order.ID, From: from, To: next})
	if s.metrics != nil {
		s.metrics.StatusChanges.Inc()
	}
	return order, nil
}

// Cancel cancels an order on behalf of a user or admin. Stock committed for
// the order is released exactly once, gated on InventoryCommitted.
func (s *OrderService) Cancel(ctx context.Context, orderID uint64, actor domain.CancelActor, reason string) (*domain.Order, error) {
	if reason == "" {
		return nil, &domain.ValidationError{Field: "reason", Msg: "is required"}
	}
	order, err := s.load(orderID)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, order, actor, reason)
}

// cancel claims the Cancelled status via the version CAS before touching the
// ledger, so two racing cancellations cannot both release stock. The flag is
// cleared only after the release went through; a crash in between is
// repaired by reconcile on the next read.
func (s *OrderService) cancel(ctx context.Context, order *domain.Order, actor domain.CancelActor, reason string) (*domain.Order, error) {
	if !order.Cancellable() {
		return nil, &domain.NotCancellableError{Status: order.Status}
	}

	now := time.Now()
	order, err := s.saveWithRetry(order, func(o *domain.Order) error {
		if !o.Cancellable() {
			return &domain.NotCancellableError{Status: o.Status}
		}
		o.Status = domain.StatusCancelled
		o.CancelReason = reason
		o.CancelledBy = actor
		o.CancelledAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	if order.InventoryCommitted {
		s.releaseLines(ctx, order.Lines)
		order, err = s.saveWithRetry(order, func(o *domain.Order) error {
			o.InventoryCommitted = false
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	s.notifier.OrderCancelled(ctx, domain.OrderCancelledEvent{
		OrderID:     order.ID,
		Actor:       actor,
		Reason:      reason,
		CancelledAt: now,
	})
	if s.metrics != nil {
		s.metrics.Cancellations.WithLabelValues(string(actor)).Inc()
	}
	return order, nil
}

// GetOrder loads an order and repairs the crash window between a ledger call
// and its flag update, if one is visible.
func (s *OrderService) GetOrder(ctx context.Context, orderID uint64) (*domain.Order, error) {
	order, err := s.load(orderID)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, order), nil
}

func (s *OrderService) GetOrdersByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	if !domain.ValidStatus(status) {
		return nil, &domain.ValidationError{Field: "status", Msg: fmt.Sprintf("unknown status %q", status)}
	}
	return s.orders.FindByStatus(status)
}

// reconcile is the idempotent "ensure committed / ensure released" step: the
// store cannot update the product and the order in one write, so a crash can
// leave a Cancelled order with stock still held, or a verified order whose
// commit never ran. The flag flips first under the version CAS; losing that
// race means another reader already repaired the order.
func (s *OrderService) reconcile(ctx context.Context, order *domain.Order) *domain.Order {
	switch {
	case order.Status == domain.StatusCancelled && order.InventoryCommitted:
		repaired, err := s.saveWithRetry(order, func(o *domain.Order) error {
			if !o.InventoryCommitted {
				return domain.ErrConflict
			}
			o.InventoryCommitted = false
			return nil
		})
		if err != nil {
			return order
		}
		s.releaseLines(ctx, repaired.Lines)
		return repaired

	case order.Status == domain.StatusOrderPlaced &&
		order.PaymentStatus == domain.PaymentVerified &&
		!order.InventoryCommitted && hasResolvableLines(order.Lines):
		repaired, err := s.saveWithRetry(order, func(o *domain.Order) error {
			if o.InventoryCommitted {
				return domain.ErrConflict
			}
			o.InventoryCommitted = true
			return nil
		})
		if err != nil {
			return order
		}
		if cerr := s.commitLinesStrict(ctx, repaired.Lines); cerr != nil {
			log.Printf("reconcile commit failed for order %d: %v", order.ID, cerr)
		}
		return repaired
	}
	return order
}

func hasResolvableLines(lines []domain.OrderLine) bool {
	for _, l := range lines {
		if l.ProductID != nil {
			return true
		}
	}
	return false
}

func (s *OrderService) load(orderID uint64) (*domain.Order, error) {
	order, err := s.orders.FindByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

// saveWithRetry applies the mutation and persists it, retrying exactly once
// on a version conflict with a freshly loaded order. apply re-checks its
// precondition on the fresh copy and returns a typed error when the
// operation no longer applies.
func (s *OrderService) saveWithRetry(order *domain.Order, apply func(*domain.Order) error) (*domain.Order, error) {
	if err := apply(order); err != nil {
		return nil, err
	}
	err := s.orders.Update(order)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return nil, err
	}

	fresh, err := s.orders.FindByID(order.ID)
	if err != nil {
		return nil, err
	}
	if fresh == nil {
		return nil, domain.ErrOrderNotFound
	}
	if err := apply(fresh); err != nil {
		return nil, err
	}
	if err := s.orders.Update(fresh); err != nil {
		return nil, err
	}
	return fresh, nil
}

// WarmupProductCache primes the redis product cache the HTTP layer reads
// from. Failures only cost cache misses.
func (s *OrderService) WarmupProductCache(ctx context.Context, productIDs []uint64) error {
	if s.redisClient == nil {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, id := range productIDs {
		id := id
		g.Go(func() error {
			p, err := s.validator.products.FindByID(id)
			if err != nil || p == nil {
				log.Printf("cache warmup skipped for product %d: %v", id, err)
				return nil
			}
			data, err := json.Marshal(p)
			if err != nil {
				return nil
			}
			s.redisClient.Set(ctx, fmt.Sprintf("product:%d", id), data, 5*time.Minute)
			return nil
		})
	}
	return g.Wait()
}
