// Package services – ThreadService
//
// This file implements the ThreadService, which appends entries to an
// order's message thread and notifies the counterpart (order owner for
// operator messages, operator for user messages). Appends always succeed when
// the order exists; the reciprocal notification follows the fire-and-forget
// failure policy.
package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/vkarasev/go-intake-bot/internal/domain"
	"github.com/vkarasev/go-intake-bot/internal/repo"
)

// ThreadService implements the use-cases around per-order message threads.
type ThreadService struct {
	DB       *gorm.DB
	Notifier Notifier

	// OperatorID is the counterpart chat for user-authored messages.
	OperatorID int64
}

// Append adds a thread entry authored by sender and notifies the other
// party. authorID is the Telegram id of whoever wrote the text (for operator
// messages that is the operator's own id).
func (s *ThreadService) Append(ctx context.Context, orderID, authorID int64, sender domain.Sender, text string) (*domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	order, err := repo.GetOrder(ctx, s.DB, orderID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	msg, err := repo.CreateMessage(ctx, s.DB, orderID, authorID, sender, text)
	if err != nil {
		return nil, err
	}

	switch sender {
	case domain.SenderUser:
		notify(ctx, s.Notifier, s.OperatorID,
			fmt.Sprintf("💬 New message on request #%d\n\n%s", orderID, text))
	case domain.SenderOperator:
		notify(ctx, s.Notifier, order.UserID,
			fmt.Sprintf("💬 Message from the manager on request #%d:\n\n%s", orderID, text))
	}
	return msg, nil
}

// History returns the full thread in order. A limit of 0 means no limit.
func (s *ThreadService) History(ctx context.Context, orderID int64, limit int) ([]domain.Message, error) {
	return repo.ListOrderMessages(ctx, s.DB, orderID, limit)
}

// Tail returns the trailing n thread entries in thread order, for compact
// detail views.
func (s *ThreadService) Tail(ctx context.Context, orderID int64, n int) ([]domain.Message, error) {
	return repo.LastOrderMessages(ctx, s.DB, orderID, n)
}
