// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Review model.
//
// The repository follows a "thin" approach: it performs persistence and simple
// query composition, leaving business rules (rating range, ownership, order
// completion) to the services package.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vkarasev/go-intake-bot/internal/domain"
)

// CreateReview inserts a review row for the given order and user. Reviews are
// append-only; validation of the rating and of order ownership is expected to
// be enforced at higher layers (services) and/or via DB constraints.
func CreateReview(ctx context.Context, db *gorm.DB, orderID, userID int64, rating int, comment string) (*domain.Review, error) {
	r := &domain.Review{
		OrderID:   orderID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// ListOrderReviews returns all reviews for one order, oldest first.
func ListOrderReviews(ctx context.Context, db *gorm.DB, orderID int64) ([]domain.Review, error) {
	var out []domain.Review
	err := db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// AverageRating returns the mean review rating across all orders, or 0 when
// there are no reviews yet.
func AverageRating(ctx context.Context, db *gorm.DB) (float64, error) {
	var avg *float64
	err := db.WithContext(ctx).
		Model(&domain.Review{}).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
