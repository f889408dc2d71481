// Package session holds the per-user conversation state that decides how the
// next free-text message from a user is interpreted. Chat messages carry no
// structured reply linkage, so every "awaiting_*" flow records its scratch
// payload (order id, rating, draft text) here before prompting the user.
//
// The store is process-local and intentionally not persisted: an abandoned
// flow sits in its state until overwritten, and a restart resets everyone to
// idle. State is strictly per-user; flows of different users never interact.
package session

import (
	"sync"

	"github.com/vkarasev/go-intake-bot/internal/domain"
)

// Kind discriminates the conversation states a user can be in. The zero
// value (KindIdle) means no pending flow.
type Kind int

// Conversation states.
const (
	// KindIdle is the default: the next text message is not part of any flow.
	KindIdle Kind = iota

	// KindAwaitingOrderDescription expects the free-text body of a new
	// service request.
	KindAwaitingOrderDescription

	// KindAwaitingFollowup expects a thread message for State.OrderID. The
	// same state shape serves both roles; State.Sender records which party
	// is writing.
	KindAwaitingFollowup

	// KindAwaitingReviewComment expects the comment for a review whose
	// rating (State.Rating) was already chosen via a button tap.
	KindAwaitingReviewComment

	// KindAwaitingBroadcastText expects the operator's broadcast draft.
	KindAwaitingBroadcastText

	// KindAwaitingBroadcastConfirm holds the broadcast draft (State.Draft)
	// while the operator answers a yes/no button prompt.
	KindAwaitingBroadcastConfirm

	// KindAwaitingSearchQuery expects the operator's free-text search query
	// over stored request descriptions.
	KindAwaitingSearchQuery

	// KindAwaitingOperatorComment expects the operator's triage comment for
	// State.OrderID.
	KindAwaitingOperatorComment
)

// State is one tagged variant of the conversation machine plus the minimal
// scratch payload the pending flow needs. Unused fields stay zero.
type State struct {
	Kind    Kind
	OrderID int64
	Rating  int
	Sender  domain.Sender
	Draft   string
}

// Pending reports whether the state represents an unfinished flow.
func (s State) Pending() bool { return s.Kind != KindIdle }

// Store maps Telegram user ids to their current conversation state. It is
// safe for concurrent use; within one user the platform delivers events
// serially, so no per-user ordering guarantees are needed beyond the lock.
type Store struct {
	mu     sync.Mutex
	states map[int64]State
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{states: make(map[int64]State)}
}

// Get returns the current state for userID. Absent users are idle.
func (s *Store) Get(userID int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[userID]
}

// Set replaces userID's state with st and reports whether a pending flow was
// overwritten. Session state is overwritten, not stacked: starting a new flow
// abandons any unfinished one.
func (s *Store) Set(userID int64, st State) (abandoned bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	abandoned = s.states[userID].Pending()
	if st.Kind == KindIdle {
		delete(s.states, userID)
		return abandoned
	}
	s.states[userID] = st
	return abandoned
}

// Clear resets userID to idle. Clearing an idle user is a no-op.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
}

// Len returns the number of users with a pending flow.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}
