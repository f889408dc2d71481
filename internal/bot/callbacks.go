package bot

import (
	"strconv"
	"strings"

	"github.com/vkarasev/go-intake-bot/internal/domain"
)

// actionKind enumerates the callback verbs the bot understands.
type actionKind int

const (
	actNone actionKind = iota
	actViewOrder
	actMessageOrder
	actOrderStatus
	actReviewOrder
	actRate
	actAdminOrder
	actAdminStatus
	actAdminComment
	actAdminMessage
	actAdminBackToOrders
	actBroadcastConfirm
	actBroadcastCancel
	actOrdersPage
)

// action is one parsed callback token.
type action struct {
	kind    actionKind
	orderID int64
	rating  int
	status  domain.Status
	page    int
}

// parseCallback decodes a callback data token. Tokens follow a
// verb_param_param grammar with numeric parameters; anything that does
// not match exactly is rejected so stale or forged buttons become no-ops.
func parseCallback(data string) (action, bool) {
	switch data {
	case "admin_back_to_orders":
		return action{kind: actAdminBackToOrders}, true
	case "broadcast_confirm":
		return action{kind: actBroadcastConfirm}, true
	case "broadcast_cancel":
		return action{kind: actBroadcastCancel}, true
	}

	if rest, ok := strings.CutPrefix(data, "admin_status_"); ok {
		idStr, statusStr, ok := strings.Cut(rest, "_")
		if !ok {
			return action{}, false
		}
		// statuses themselves contain underscores (in_progress), so the
		// split is on the first separator only
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			return action{}, false
		}
		st := domain.Status(statusStr)
		if !st.Valid() {
			return action{}, false
		}
		return action{kind: actAdminStatus, orderID: id, status: st}, true
	}
	if rest, ok := strings.CutPrefix(data, "admin_order_"); ok {
		return orderAction(actAdminOrder, rest)
	}
	if rest, ok := strings.CutPrefix(data, "admin_comment_"); ok {
		return orderAction(actAdminComment, rest)
	}
	if rest, ok := strings.CutPrefix(data, "admin_message_"); ok {
		return orderAction(actAdminMessage, rest)
	}

	if rest, ok := strings.CutPrefix(data, "rate_"); ok {
		idStr, scoreStr, ok := strings.Cut(rest, "_")
		if !ok {
			return action{}, false
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			return action{}, false
		}
		score, err := strconv.Atoi(scoreStr)
		if err != nil {
			return action{}, false
		}
		return action{kind: actRate, orderID: id, rating: score}, true
	}
	if rest, ok := strings.CutPrefix(data, "view_order_"); ok {
		return orderAction(actViewOrder, rest)
	}
	if rest, ok := strings.CutPrefix(data, "message_"); ok {
		return orderAction(actMessageOrder, rest)
	}
	if rest, ok := strings.CutPrefix(data, "status_"); ok {
		return orderAction(actOrderStatus, rest)
	}
	if rest, ok := strings.CutPrefix(data, "review_"); ok {
		return orderAction(actReviewOrder, rest)
	}
	if rest, ok := strings.CutPrefix(data, "orders_page_"); ok {
		page, err := strconv.Atoi(rest)
		if err != nil || page < 0 {
			return action{}, false
		}
		return action{kind: actOrdersPage, page: page}, true
	}

	return action{}, false
}

func orderAction(kind actionKind, idStr string) (action, bool) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return action{}, false
	}
	return action{kind: kind, orderID: id}, true
}
