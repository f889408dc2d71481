// Package services – OrderService
//
// This file implements the OrderService, which owns order intake and the
// operator-driven lifecycle. It validates input, persists the order together
// with its first thread message atomically, and fans out cross-role
// notifications under the fire-and-forget contract: a delivery failure is
// logged and counted but never aborts the lifecycle operation.
//
// Observability: the mutating entry points are OpenTelemetry-instrumented;
// spans carry order/user identifiers.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/vkarasev/go-intake-bot/internal/domain"
	"github.com/vkarasev/go-intake-bot/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// OrderService coordinates order intake, listing, and status transitions.
type OrderService struct {
	DB       *gorm.DB
	Notifier Notifier

	// OperatorID is the chat id that receives intake notifications.
	OperatorID int64

	// EnforceTerminal rejects transitions out of completed/cancelled when
	// set. Turning it off restores the permissive legacy behavior.
	EnforceTerminal bool

	// MaxDescriptionRunes caps request descriptions by rune length.
	MaxDescriptionRunes int
}

// NewOrderService constructs an OrderService with sane defaults.
func NewOrderService(db *gorm.DB, n Notifier, operatorID int64) *OrderService {
	return &OrderService{
		DB:                  db,
		Notifier:            n,
		OperatorID:          operatorID,
		EnforceTerminal:     true,
		MaxDescriptionRunes: 4000,
	}
}

// Create validates the description, persists a new order with status "new"
// together with its first thread message in one transaction, and notifies
// the operator. The created order is returned for immediate use by the
// caller (confirmation message with the assigned id).
func (s *OrderService) Create(ctx context.Context, userID int64, description, budget string) (*domain.Order, error) {
	tr := otel.Tracer("services/OrderService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.Int64("user.id", userID)),
	)
	defer span.End()

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyText
	}
	if s.MaxDescriptionRunes > 0 && utf8.RuneCountInString(description) > s.MaxDescriptionRunes {
		return nil, ErrTooLong
	}

	var order *domain.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := repo.CreateOrder(ctx, tx, userID, description, budget)
		if err != nil {
			return err
		}
		if _, err := repo.CreateMessage(ctx, tx, o.ID, userID, domain.SenderUser, description); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int64("order.id", order.ID))

	notify(ctx, s.Notifier, s.OperatorID, s.intakeNotice(ctx, order))
	return order, nil
}

// ChangeStatus persists an operator-triggered lifecycle transition and sends
// the status-specific notification to the order's owner. No notification is
// sent for "new" (that status only occurs at creation). Re-applying the
// current status is allowed and still refreshes UpdatedAt, but produces one
// notification per call, never more.
//
// The caller is responsible for operator authorization; non-operator intents
// never reach this method.
func (s *OrderService) ChangeStatus(ctx context.Context, orderID int64, next domain.Status, comment *string) error {
	tr := otel.Tracer("services/OrderService")
	ctx, span := tr.Start(ctx, "ChangeStatus",
		trace.WithAttributes(
			attribute.Int64("order.id", orderID),
			attribute.String("order.status", string(next)),
		),
	)
	defer span.End()

	if !next.Valid() {
		return ErrInvalidStatus
	}

	order, err := repo.GetOrder(ctx, s.DB, orderID)
	if err != nil {
		if isNotFound(err) {
			return ErrOrderNotFound
		}
		return err
	}

	// Terminal statuses admit no further transitions; re-applying the same
	// status stays legal so the operation is idempotent in effect.
	if s.EnforceTerminal && order.Status.Terminal() && next != order.Status {
		return ErrStatusLocked
	}

	if err := repo.UpdateOrderStatus(ctx, s.DB, orderID, next, comment); err != nil {
		if isNotFound(err) {
			return ErrOrderNotFound
		}
		return err
	}

	if text := statusNotice(orderID, next); text != "" {
		notify(ctx, s.Notifier, order.UserID, text)
	}
	return nil
}

// Comment overwrites the operator comment on an order without changing its
// status and notifies the owner.
func (s *OrderService) Comment(ctx context.Context, orderID int64, comment string) error {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return ErrEmptyText
	}

	order, err := repo.GetOrder(ctx, s.DB, orderID)
	if err != nil {
		if isNotFound(err) {
			return ErrOrderNotFound
		}
		return err
	}
	if err := repo.UpdateOrderComment(ctx, s.DB, orderID, comment); err != nil {
		if isNotFound(err) {
			return ErrOrderNotFound
		}
		return err
	}

	notify(ctx, s.Notifier, order.UserID,
		fmt.Sprintf("💬 New comment on request #%d:\n\n%s", orderID, comment))
	return nil
}

// Get fetches a single order.
func (s *OrderService) Get(ctx context.Context, orderID int64) (*domain.Order, error) {
	o, err := repo.GetOrder(ctx, s.DB, orderID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// ListForUser returns all orders of one user, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	return repo.ListUserOrders(ctx, s.DB, userID)
}

// ListPage returns a page of orders with an optional status filter, newest
// first, plus the filtered total. It applies defaults for invalid
// page/pageSize values.
func (s *OrderService) ListPage(ctx context.Context, status domain.Status, page, pageSize int) ([]domain.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 5
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountOrders(ctx, s.DB, status)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Order{}, 0, nil
	}

	items, err := repo.ListOrdersPage(ctx, s.DB, status, offset, pageSize)
	return items, total, err
}

// Stats returns the operator-panel aggregate snapshot.
func (s *OrderService) Stats(ctx context.Context) (*repo.Stats, error) {
	return repo.GetStats(ctx, s.DB)
}

// intakeNotice renders the operator notification for a freshly created order.
func (s *OrderService) intakeNotice(ctx context.Context, o *domain.Order) string {
	from := fmt.Sprintf("id %d", o.UserID)
	if u, err := repo.GetUser(ctx, s.DB, o.UserID); err == nil && u.FirstName != "" {
		from = fmt.Sprintf("%s (id %d)", u.FirstName, o.UserID)
	}
	return fmt.Sprintf("🆕 New request #%d\n\nFrom: %s\n\n%s", o.ID, from, o.Description)
}

// statusNotice renders the owner notification for a lifecycle transition.
// An empty string means no notification is due for this status.
func statusNotice(orderID int64, status domain.Status) string {
	switch status {
	case domain.StatusInProgress:
		return fmt.Sprintf("🔄 Your request #%d is now in progress!", orderID)
	case domain.StatusCompleted:
		return fmt.Sprintf("✅ Your request #%d has been completed. Thank you!", orderID)
	case domain.StatusCancelled:
		return fmt.Sprintf("❌ Your request #%d has been cancelled.", orderID)
	}
	return ""
}

// isNotFound treats repo-level not-found sentinels as "not found" in a
// driver-agnostic way.
func isNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
