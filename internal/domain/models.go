// Package domain defines the persistence models for users, orders, thread
// messages, and reviews. These types are mapped with GORM and form the core
// data layer of the intake bot.
package domain

import (
	"time"
)

// Status is the lifecycle state of an Order.
//
// The lifecycle is operator-driven: new → in_progress → completed, with
// cancellation possible from new or in_progress. Completed and cancelled are
// terminal.
type Status string

// Order lifecycle states.
const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Sender identifies which party authored a thread message. A two-variant tag
// is used instead of a boolean flag so the reading side can never invert the
// role by accident.
type Sender string

// Thread message authors.
const (
	SenderUser     Sender = "user"
	SenderOperator Sender = "operator"
)

// Valid reports whether s is a known sender tag.
func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderOperator
}

// User represents a registered bot user. Users are created on first contact
// (idempotent: re-registration never overwrites RegisteredAt) and are never
// deleted in normal operation.
//
// Fields:
//   - TelegramID: platform user id, immutable primary key.
//   - Username / FirstName / LastName: display fields as reported by the
//     platform at registration time.
//   - RegisteredAt: first-contact timestamp (UTC).
//   - Blocked: manual block flag; blocked users are ignored by the bot.
type User struct {
	TelegramID   int64     `json:"telegram_id"   gorm:"primaryKey;autoIncrement:false"`
	Username     string    `json:"username"      gorm:"type:varchar(64)"`
	FirstName    string    `json:"first_name"    gorm:"type:varchar(128)"`
	LastName     string    `json:"last_name"     gorm:"type:varchar(128)"`
	RegisteredAt time.Time `json:"registered_at"`
	Blocked      bool      `json:"blocked"       gorm:"not null;default:false"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Order represents one service request submitted by a user. Orders are never
// deleted; cancellation is a terminal status, not removal.
//
// Fields:
//   - ID: monotonic integer primary key.
//   - UserID: owning user (indexed; many orders per user).
//   - Description: free-text request body.
//   - Status: lifecycle state, constrained at the DB level.
//   - CreatedAt / UpdatedAt: creation and last-mutation timestamps.
//   - OperatorComment: optional triage note, overwritten on each edit.
//   - Budget: optional free-form budget hint.
type Order struct {
	ID              int64     `json:"id"               gorm:"primaryKey;autoIncrement"`
	UserID          int64     `json:"user_id"          gorm:"not null;index:idx_user_orders"`
	Description     string    `json:"description"      gorm:"type:text;not null"`
	Status          Status    `json:"status"           gorm:"type:varchar(16);not null;default:'new';check:status IN ('new','in_progress','completed','cancelled')"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	OperatorComment string    `json:"operator_comment" gorm:"type:text"`
	Budget          string    `json:"budget"           gorm:"type:varchar(128)"`

	// User is the owning account. Users are never deleted, so the restrict
	// constraint is a schema-level statement of intent.
	User User `json:"-" gorm:"foreignKey:UserID;references:TelegramID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Order.
func (Order) TableName() string { return "orders" }

// Message is a single thread entry attached to exactly one order. The thread
// is append-only and reconstructed by ordering (CreatedAt ASC, ID ASC).
type Message struct {
	ID        int64     `json:"id"         gorm:"primaryKey;autoIncrement"`
	OrderID   int64     `json:"order_id"   gorm:"not null;index:idx_order_msgs,priority:1"`
	UserID    int64     `json:"user_id"    gorm:"not null"`
	Sender    Sender    `json:"sender"     gorm:"type:varchar(16);not null;check:sender IN ('user','operator')"`
	Text      string    `json:"text"       gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_order_msgs,priority:2"`

	// Order is the parent request.
	Order Order `json:"-" gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// Review is a post-completion rating left by the order's owner. Reviews are
// append-only; there is no update or delete path.
//
// Rating is constrained to [1,5] both here and at the service layer.
type Review struct {
	ID        int64     `json:"id"         gorm:"primaryKey;autoIncrement"`
	OrderID   int64     `json:"order_id"   gorm:"not null;index"`
	UserID    int64     `json:"user_id"    gorm:"not null"`
	Rating    int       `json:"rating"     gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment   string    `json:"comment"    gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`

	// Order is the reviewed request.
	Order Order `json:"-" gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Review.
func (Review) TableName() string { return "reviews" }
