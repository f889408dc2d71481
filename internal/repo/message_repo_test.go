package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/vkarasev/go-intake-bot/internal/domain"
)

func TestThread_AppendAndOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := UpsertUser(ctx, db, 10, "", "u", ""); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	o, err := CreateOrder(ctx, db, 10, "d", "")
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	const n = 6
	for i := 0; i < n; i++ {
		sender := domain.SenderUser
		if i%2 == 1 {
			sender = domain.SenderOperator
		}
		if _, err := CreateMessage(ctx, db, o.ID, 10, sender, fmt.Sprintf("msg %d", i)); err != nil {
			t.Fatalf("CreateMessage #%d: %v", i, err)
		}
	}

	msgs, err := ListOrderMessages(ctx, db, o.ID, 0)
	if err != nil {
		t.Fatalf("ListOrderMessages: %v", err)
	}
	if len(msgs) != n {
		t.Fatalf("len(msgs) = %d; want %d", len(msgs), n)
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].CreatedAt.Before(msgs[i-1].CreatedAt) {
			t.Fatalf("thread out of order at %d: %v before %v", i, msgs[i].CreatedAt, msgs[i-1].CreatedAt)
		}
	}
	for i, m := range msgs {
		if m.Text != fmt.Sprintf("msg %d", i) {
			t.Fatalf("msgs[%d].Text = %q; want %q", i, m.Text, fmt.Sprintf("msg %d", i))
		}
	}

	total, err := CountMessages(ctx, db, o.ID)
	if err != nil {
		t.Fatalf("CountMessages: %v", err)
	}
	if total != n {
		t.Fatalf("CountMessages = %d; want %d", total, n)
	}
}

func TestListOrderMessages_Limit(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := UpsertUser(ctx, db, 10, "", "u", ""); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	o, _ := CreateOrder(ctx, db, 10, "d", "")
	for i := 0; i < 4; i++ {
		if _, err := CreateMessage(ctx, db, o.ID, 10, domain.SenderUser, fmt.Sprintf("m%d", i)); err != nil {
			t.Fatalf("CreateMessage: %v", err)
		}
	}

	msgs, err := ListOrderMessages(ctx, db, o.ID, 2)
	if err != nil {
		t.Fatalf("ListOrderMessages: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Text != "m0" {
		t.Fatalf("limited thread = %+v; want first two entries", msgs)
	}
}

func TestLastOrderMessages_TailWindowInThreadOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := UpsertUser(ctx, db, 10, "", "u", ""); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	o, _ := CreateOrder(ctx, db, 10, "d", "")
	for i := 0; i < 8; i++ {
		if _, err := CreateMessage(ctx, db, o.ID, 10, domain.SenderUser, fmt.Sprintf("m%d", i)); err != nil {
			t.Fatalf("CreateMessage: %v", err)
		}
	}

	tail, err := LastOrderMessages(ctx, db, o.ID, 5)
	if err != nil {
		t.Fatalf("LastOrderMessages: %v", err)
	}
	if len(tail) != 5 {
		t.Fatalf("len(tail) = %d; want 5", len(tail))
	}
	if tail[0].Text != "m3" || tail[4].Text != "m7" {
		t.Fatalf("tail window wrong: first=%q last=%q", tail[0].Text, tail[4].Text)
	}

	empty, err := LastOrderMessages(ctx, db, o.ID, 0)
	if err != nil {
		t.Fatalf("LastOrderMessages(0): %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("n=0 returned %d rows", len(empty))
	}
}
