package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/vkarasev/go-intake-bot/internal/repo"
)

// newServiceDB opens a fresh temp-file SQLite database with the full schema.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.db")
	db, err := repo.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		t.Cleanup(func() { _ = sqlDB.Close() })
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id int64, firstName string) {
	t.Helper()
	if err := repo.UpsertUser(context.Background(), db, id, "", firstName, ""); err != nil {
		t.Fatalf("UpsertUser(%d): %v", id, err)
	}
}

// ----- Fake notifier -----

type sentMsg struct {
	chatID int64
	text   string
}

// fakeNotifier records every delivery attempt and can be told to fail for
// specific chat ids (simulating users who blocked the bot).
type fakeNotifier struct {
	mu      sync.Mutex
	sent    []sentMsg
	failFor map[int64]bool
}

func (f *fakeNotifier) Send(_ context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[chatID] {
		return errors.New("forbidden: bot was blocked by the user")
	}
	f.sent = append(f.sent, sentMsg{chatID: chatID, text: text})
	return nil
}

func (f *fakeNotifier) countFor(chatID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.sent {
		if m.chatID == chatID {
			n++
		}
	}
	return n
}

func (f *fakeNotifier) lastFor(chatID int64) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].chatID == chatID {
			return f.sent[i].text, true
		}
	}
	return "", false
}
