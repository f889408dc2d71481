// Package services – ReviewService
//
// This file implements the ReviewService, which governs post-completion
// reviews. Ratings are validated to [1,5] unconditionally (the legacy system
// stored ratings unchecked; that was a defect, not a contract). Ownership and
// completion checks are enforced by default but can be relaxed to mirror the
// permissive legacy behavior.
package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/vkarasev/go-intake-bot/internal/domain"
	"github.com/vkarasev/go-intake-bot/internal/repo"
)

// ReviewService implements the use-cases around order reviews.
type ReviewService struct {
	DB       *gorm.DB
	Notifier Notifier

	// OperatorID receives the new-review notification.
	OperatorID int64

	// EnforceOwnership requires the order to belong to the reviewer and to
	// be completed. Off restores the legacy permissive behavior.
	EnforceOwnership bool
}

// Leave records a review for orderID on behalf of userID and notifies the
// operator.
//
// Semantics and validation:
//   - rating must be within [1,5]; otherwise ErrInvalidRating.
//   - orderID must exist; otherwise ErrOrderNotFound.
//   - With EnforceOwnership, the order must belong to userID and be in
//     completed status; otherwise ErrReviewForbidden.
func (s *ReviewService) Leave(ctx context.Context, userID, orderID int64, rating int, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	comment = strings.TrimSpace(comment)

	order, err := repo.GetOrder(ctx, s.DB, orderID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if s.EnforceOwnership {
		if order.UserID != userID || order.Status != domain.StatusCompleted {
			return nil, ErrReviewForbidden
		}
	}

	review, err := repo.CreateReview(ctx, s.DB, orderID, userID, rating, comment)
	if err != nil {
		return nil, err
	}

	notify(ctx, s.Notifier, s.OperatorID,
		fmt.Sprintf("⭐ New review on request #%d\n\nRating: %d/5\n%s", orderID, rating, comment))
	return review, nil
}

// ReviewableOrders returns the user's completed orders, the only ones
// eligible for review selection.
func (s *ReviewService) ReviewableOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := repo.ListUserOrders(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	out := orders[:0]
	for _, o := range orders {
		if o.Status == domain.StatusCompleted {
			out = append(out, o)
		}
	}
	return out, nil
}
