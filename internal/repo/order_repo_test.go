package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vkarasev/go-intake-bot/internal/domain"
)

func TestCreateOrder_ThenListUserOrders(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := UpsertUser(ctx, db, 10, "", "u", ""); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}

	o, err := CreateOrder(ctx, db, 10, "Need a shop bot", "")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if o.ID == 0 {
		t.Fatalf("order ID not assigned")
	}
	if o.Status != domain.StatusNew {
		t.Fatalf("status = %q; want %q", o.Status, domain.StatusNew)
	}

	got, err := ListUserOrders(ctx, db, 10)
	if err != nil {
		t.Fatalf("ListUserOrders: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(orders) = %d; want 1", len(got))
	}
	if got[0].ID != o.ID || got[0].Description != "Need a shop bot" || got[0].Status != domain.StatusNew {
		t.Fatalf("unexpected order: %+v", got[0])
	}
}

func TestCreateOrder_MonotonicIDs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := UpsertUser(ctx, db, 10, "", "u", ""); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	var last int64
	for i := 0; i < 3; i++ {
		o, err := CreateOrder(ctx, db, 10, "d", "")
		if err != nil {
			t.Fatalf("CreateOrder #%d: %v", i, err)
		}
		if o.ID <= last {
			t.Fatalf("IDs not monotonic: %d after %d", o.ID, last)
		}
		last = o.ID
	}
}

func TestListOrders_StatusFilter(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := UpsertUser(ctx, db, 10, "", "u", ""); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	a, _ := CreateOrder(ctx, db, 10, "a", "")
	b, _ := CreateOrder(ctx, db, 10, "b", "")
	if err := UpdateOrderStatus(ctx, db, b.ID, domain.StatusInProgress, nil); err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}

	fresh, err := ListOrders(ctx, db, domain.StatusNew)
	if err != nil {
		t.Fatalf("ListOrders(new): %v", err)
	}
	if len(fresh) != 1 || fresh[0].ID != a.ID {
		t.Fatalf("new filter returned %+v; want only order %d", fresh, a.ID)
	}

	all, err := ListOrders(ctx, db, "")
	if err != nil {
		t.Fatalf("ListOrders(all): %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len(all) = %d; want 2", len(all))
	}

	n, err := CountOrders(ctx, db, domain.StatusInProgress)
	if err != nil {
		t.Fatalf("CountOrders: %v", err)
	}
	if n != 1 {
		t.Fatalf("CountOrders(in_progress) = %d; want 1", n)
	}
}

func TestListOrdersPage(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := UpsertUser(ctx, db, 10, "", "u", ""); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	for i := 0; i < 7; i++ {
		if _, err := CreateOrder(ctx, db, 10, "d", ""); err != nil {
			t.Fatalf("CreateOrder #%d: %v", i, err)
		}
	}

	page, err := ListOrdersPage(ctx, db, "", 5, 5)
	if err != nil {
		t.Fatalf("ListOrdersPage: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("second page has %d rows; want 2", len(page))
	}
}

func TestUpdateOrderStatus_TouchesUpdatedAt_AndComment(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := UpsertUser(ctx, db, 10, "", "u", ""); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	o, _ := CreateOrder(ctx, db, 10, "d", "")

	time.Sleep(10 * time.Millisecond)
	comment := "taking this one"
	if err := UpdateOrderStatus(ctx, db, o.ID, domain.StatusInProgress, &comment); err != nil {
		t.Fatalf("UpdateOrderStatus: %v", err)
	}

	got, err := GetOrder(ctx, db, o.ID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if got.Status != domain.StatusInProgress {
		t.Fatalf("status = %q; want in_progress", got.Status)
	}
	if got.OperatorComment != comment {
		t.Fatalf("comment = %q; want %q", got.OperatorComment, comment)
	}
	if !got.UpdatedAt.After(o.UpdatedAt) {
		t.Fatalf("UpdatedAt not refreshed: %v -> %v", o.UpdatedAt, got.UpdatedAt)
	}

	// nil comment leaves the existing one alone.
	if err := UpdateOrderStatus(ctx, db, o.ID, domain.StatusCompleted, nil); err != nil {
		t.Fatalf("UpdateOrderStatus(completed): %v", err)
	}
	got, _ = GetOrder(ctx, db, o.ID)
	if got.OperatorComment != comment {
		t.Fatalf("nil comment overwrote existing: %q", got.OperatorComment)
	}
}

func TestUpdateOrderStatus_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := UpdateOrderStatus(context.Background(), db, 12345, domain.StatusCompleted, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestGetOrder_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := GetOrder(context.Background(), db, 12345)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}
