// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message model.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vkarasev/go-intake-bot/internal/domain"
)

// CreateMessage appends a thread entry to an order.
func CreateMessage(ctx context.Context, db *gorm.DB, orderID, userID int64, sender domain.Sender, text string) (*domain.Message, error) {
	m := &domain.Message{
		OrderID:   orderID,
		UserID:    userID,
		Sender:    sender,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	return m, db.WithContext(ctx).Create(m).Error
}

// ListOrderMessages returns the thread ordered deterministically
// (CreatedAt ASC, ID ASC). A limit of 0 means no limit.
func ListOrderMessages(ctx context.Context, db *gorm.DB, orderID int64, limit int) ([]domain.Message, error) {
	var out []domain.Message
	q := db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error.
func CountMessages(ctx context.Context, db *gorm.DB, orderID int64) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM messages WHERE order_id = ?", orderID).
		Scan(&total).Error
	return total, err
}

// LastOrderMessages returns up to n most recent thread entries in thread
// order (oldest of the window first). Used for the operator's order detail
// view, which shows a trailing slice of the conversation.
func LastOrderMessages(ctx context.Context, db *gorm.DB, orderID int64, n int) ([]domain.Message, error) {
	if n <= 0 {
		return []domain.Message{}, nil
	}
	var tail []domain.Message
	err := db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC, id DESC").
		Limit(n).
		Find(&tail).Error
	if err != nil {
		return nil, err
	}
	// Reverse into ascending thread order.
	for i, j := 0, len(tail)-1; i < j; i, j = i+1, j-1 {
		tail[i], tail[j] = tail[j], tail[i]
	}
	return tail, nil
}
