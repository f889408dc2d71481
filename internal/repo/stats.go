// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the aggregate query behind the operator
// statistics panel. It is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/vkarasev/go-intake-bot/internal/domain"
)

// Stats is the aggregate snapshot shown in the operator panel.
type Stats struct {
	TotalUsers    int64
	TotalOrders   int64
	NewOrders     int64
	InProgress    int64
	Completed     int64
	AverageRating float64
}

// GetStats collects the operator-panel aggregates in a handful of lightweight
// queries. Counts are per lifecycle state; the rating average covers every
// review ever left.
func GetStats(ctx context.Context, db *gorm.DB) (*Stats, error) {
	var s Stats
	var err error

	if s.TotalUsers, err = CountUsers(ctx, db); err != nil {
		return nil, err
	}
	if s.TotalOrders, err = CountOrders(ctx, db, ""); err != nil {
		return nil, err
	}
	if s.NewOrders, err = CountOrders(ctx, db, domain.StatusNew); err != nil {
		return nil, err
	}
	if s.InProgress, err = CountOrders(ctx, db, domain.StatusInProgress); err != nil {
		return nil, err
	}
	if s.Completed, err = CountOrders(ctx, db, domain.StatusCompleted); err != nil {
		return nil, err
	}
	if s.AverageRating, err = AverageRating(ctx, db); err != nil {
		return nil, err
	}
	return &s, nil
}
