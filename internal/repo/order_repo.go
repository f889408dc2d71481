// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Order model.
//
// Functions:
//
//   - CreateOrder(ctx, db, userID, description, budget) -> *domain.Order, error
//     Inserts a new Order row with status "new" and UTC timestamps.
//
//   - GetOrder(ctx, db, id) -> *domain.Order, error
//     Fetches a single order by ID, or ErrNotFound if missing.
//
//   - ListUserOrders(ctx, db, userID) -> []domain.Order, error
//     Returns all orders of one user, newest first.
//
//   - ListOrders(ctx, db, status) / ListOrdersPage(...)
//     Operator-side listing with optional status filter and pagination.
//
//   - UpdateOrderStatus(ctx, db, id, status, comment) -> error
//     Persists a lifecycle transition; the terminal-state guard lives in the
//     service layer, not here.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vkarasev/go-intake-bot/internal/domain"
)

// CreateOrder inserts a new order owned by userID. Status is always "new" on
// creation; both timestamps are set to the same UTC instant.
func CreateOrder(ctx context.Context, db *gorm.DB, userID int64, description, budget string) (*domain.Order, error) {
	now := time.Now().UTC()
	o := &domain.Order{
		UserID:      userID,
		Description: description,
		Status:      domain.StatusNew,
		Budget:      budget,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.WithContext(ctx).Create(o).Error; err != nil {
		return nil, err
	}
	return o, nil
}

// GetOrder fetches a single order by ID, or ErrNotFound if missing.
func GetOrder(ctx context.Context, db *gorm.DB, id int64) (*domain.Order, error) {
	var o domain.Order
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ListUserOrders returns all orders belonging to userID, ordered by creation
// time descending (most recent first). It returns an empty slice if the user
// has no orders.
func ListUserOrders(ctx context.Context, db *gorm.DB, userID int64) ([]domain.Order, error) {
	var out []domain.Order
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListOrders returns orders across all users, newest first. An empty status
// means no filter.
func ListOrders(ctx context.Context, db *gorm.DB, status domain.Status) ([]domain.Order, error) {
	var out []domain.Order
	q := db.WithContext(ctx).Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountOrders returns the number of orders, optionally filtered by status.
func CountOrders(ctx context.Context, db *gorm.DB, status domain.Status) (int64, error) {
	var total int64
	q := db.WithContext(ctx).Model(&domain.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&total).Error
	return total, err
}

// ListOrdersPage returns a paginated slice of orders, newest first, with an
// optional status filter. Use CountOrders to obtain the total for pagination
// metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListOrdersPage(ctx context.Context, db *gorm.DB, status domain.Status, offset, limit int) ([]domain.Order, error) {
	var out []domain.Order
	q := db.WithContext(ctx).Order("created_at desc")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// UpdateOrderStatus persists a status change and refreshes UpdatedAt. When
// comment is non-nil the operator comment is overwritten as well. If no rows
// are affected (order missing), it returns ErrNotFound.
func UpdateOrderStatus(ctx context.Context, db *gorm.DB, id int64, status domain.Status, comment *string) error {
	updates := map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if comment != nil {
		updates["operator_comment"] = *comment
	}
	res := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateOrderComment overwrites the operator comment without touching the
// status, refreshing UpdatedAt. Returns ErrNotFound when no row matched.
func UpdateOrderComment(ctx context.Context, db *gorm.DB, id int64, comment string) error {
	res := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"operator_comment": comment,
			"updated_at":       time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
