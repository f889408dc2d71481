package domain

import (
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func TestTableNames(t *testing.T) {
	if (User{}).TableName() != "users" {
		t.Fatalf("User.TableName() = %q; want %q", (User{}).TableName(), "users")
	}
	if (Order{}).TableName() != "orders" {
		t.Fatalf("Order.TableName() = %q; want %q", (Order{}).TableName(), "orders")
	}
	if (Message{}).TableName() != "messages" {
		t.Fatalf("Message.TableName() = %q; want %q", (Message{}).TableName(), "messages")
	}
	if (Review{}).TableName() != "reviews" {
		t.Fatalf("Review.TableName() = %q; want %q", (Review{}).TableName(), "reviews")
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusNew, StatusInProgress, StatusCompleted, StatusCancelled} {
		if !s.Valid() {
			t.Fatalf("Status(%q).Valid() = false; want true", s)
		}
	}
	for _, s := range []Status{"", "done", "NEW", "in progress"} {
		if s.Valid() {
			t.Fatalf("Status(%q).Valid() = true; want false", s)
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	cases := map[Status]bool{
		StatusNew:        false,
		StatusInProgress: false,
		StatusCompleted:  true,
		StatusCancelled:  true,
	}
	for s, want := range cases {
		if got := s.Terminal(); got != want {
			t.Fatalf("Status(%q).Terminal() = %v; want %v", s, got, want)
		}
	}
}

func TestSender_Valid(t *testing.T) {
	if !SenderUser.Valid() || !SenderOperator.Valid() {
		t.Fatalf("expected user/operator senders to be valid")
	}
	for _, s := range []Sender{"", "admin", "User"} {
		if s.Valid() {
			t.Fatalf("Sender(%q).Valid() = true; want false", s)
		}
	}
}

func TestMigrations_Indexes(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(&User{}, &Order{}, &Message{}, &Review{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	for _, tbl := range []any{&User{}, &Order{}, &Message{}, &Review{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}

	if !m.HasIndex(&Order{}, "idx_user_orders") {
		t.Fatalf("expected index idx_user_orders on orders")
	}
	if !m.HasIndex(&Message{}, "idx_order_msgs") {
		t.Fatalf("expected index idx_order_msgs on messages")
	}
}
