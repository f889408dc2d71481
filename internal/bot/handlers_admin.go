package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vkarasev/go-intake-bot/internal/domain"
	"github.com/vkarasev/go-intake-bot/internal/repo"
	"github.com/vkarasev/go-intake-bot/internal/search"
	"github.com/vkarasev/go-intake-bot/internal/services"
	"github.com/vkarasev/go-intake-bot/internal/session"
)

// handleAdminMenuButton matches the operator-only reply keyboard. The
// caller has already verified the sender is the operator.
func (b *Bot) handleAdminMenuButton(ctx context.Context, userID, chatID int64, text string) bool {
	switch text {
	case btnStats:
		b.resetFlow(userID, chatID)
		b.showStats(ctx, chatID)
	case btnAllOrders:
		b.resetFlow(userID, chatID)
		b.listOrdersPage(ctx, chatID, "", 0)
	case btnNewOrders:
		b.resetFlow(userID, chatID)
		b.listNewOrders(ctx, chatID)
	case btnUsers:
		b.resetFlow(userID, chatID)
		b.showUsers(ctx, chatID)
	case btnBroadcast:
		b.resetFlow(userID, chatID)
		b.sessions.Set(userID, session.State{Kind: session.KindAwaitingBroadcastText})
		b.sendWithMarkup(chatID, broadcastPromptText, backToMainKeyboard())
	case btnSearch:
		b.resetFlow(userID, chatID)
		b.sessions.Set(userID, session.State{Kind: session.KindAwaitingSearchQuery})
		b.sendWithMarkup(chatID, searchPromptText, backToMainKeyboard())
	case btnUserMode:
		b.resetFlow(userID, chatID)
		b.sendWithMarkup(chatID, welcomeText, mainMenuKeyboard())
	default:
		return false
	}
	return true
}

func (b *Bot) showStats(ctx context.Context, chatID int64) {
	stats, err := b.orders.Stats(ctx)
	if err != nil {
		log.Error().Err(err).Msg("stats query failed")
		b.sendWithMarkup(chatID, "Something went wrong, please try again.", adminMenuKeyboard())
		return
	}
	b.sendWithMarkup(chatID, formatStats(stats), adminMenuKeyboard())
}

// listOrdersPage renders one page of the full request list; the page
// navigation callbacks always address this unfiltered view.
func (b *Bot) listOrdersPage(ctx context.Context, chatID int64, status domain.Status, page int) {
	// callback pages are zero-based, the service counts from one
	items, total, err := b.orders.ListPage(ctx, status, page+1, b.cfg.PageSize)
	if err != nil {
		log.Error().Err(err).Msg("order listing failed")
		b.sendWithMarkup(chatID, "Something went wrong, please try again.", adminMenuKeyboard())
		return
	}
	if total == 0 {
		b.sendWithMarkup(chatID, "No requests yet.", adminMenuKeyboard())
		return
	}
	header := fmt.Sprintf("📋 All requests (%d total)\n\nPick one to review:", total)
	b.sendWithMarkup(chatID, header, adminOrdersPageKeyboard(items, page, total, b.cfg.PageSize))
}

// listNewOrders shows the untriaged requests as a single page.
func (b *Bot) listNewOrders(ctx context.Context, chatID int64) {
	items, total, err := b.orders.ListPage(ctx, domain.StatusNew, 1, b.cfg.PageSize)
	if err != nil {
		log.Error().Err(err).Msg("new order listing failed")
		b.sendWithMarkup(chatID, "Something went wrong, please try again.", adminMenuKeyboard())
		return
	}
	if total == 0 {
		b.sendWithMarkup(chatID, "No new requests.", adminMenuKeyboard())
		return
	}
	header := fmt.Sprintf("🆕 New requests (%d total)\n\nPick one to review:", total)
	// no page navigation here, it would lose the status filter
	b.sendWithMarkup(chatID, header, adminOrdersPageKeyboard(items, 0, int64(len(items)), b.cfg.PageSize))
}

func (b *Bot) showUsers(ctx context.Context, chatID int64) {
	users, err := repo.ListUsers(ctx, b.db)
	if err != nil {
		log.Error().Err(err).Msg("user listing failed")
		b.sendWithMarkup(chatID, "Something went wrong, please try again.", adminMenuKeyboard())
		return
	}
	if len(users) == 0 {
		b.sendWithMarkup(chatID, "No users yet.", adminMenuKeyboard())
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "👥 Users (%d total)\n\n", len(users))
	shown := users
	if len(shown) > 20 {
		shown = shown[:20]
	}
	for _, u := range shown {
		fmt.Fprintf(&sb, "👤 %s (@%s)\n🆔 ID: %d\n📅 Registered: %s\n\n",
			u.FirstName, u.Username, u.TelegramID, u.RegisteredAt.Format(timeLayout))
	}
	b.sendWithMarkup(chatID, sb.String(), adminMenuKeyboard())
}

// processBroadcastDraft captures (or replaces) the broadcast text and asks
// for confirmation.
func (b *Bot) processBroadcastDraft(ctx context.Context, userID, chatID int64, text string) {
	if !b.isOperator(userID) {
		b.sessions.Clear(userID)
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		b.send(chatID, "Please send the broadcast as a text message.")
		return
	}
	b.sessions.Set(userID, session.State{Kind: session.KindAwaitingBroadcastConfirm, Draft: text})

	total, err := repo.CountUsers(ctx, b.db)
	if err != nil {
		log.Warn().Err(err).Msg("user count failed")
	}
	confirm := fmt.Sprintf(
		"📢 Confirm broadcast\n\nThis message goes out to %d users:\n\n---\n%s\n---\n\nSend it?",
		total, text)
	b.sendWithMarkup(chatID, confirm, broadcastConfirmKeyboard())
}

func (b *Bot) processSearchQuery(ctx context.Context, userID, chatID int64, query string) {
	if !b.isOperator(userID) {
		b.sessions.Clear(userID)
		return
	}
	b.sessions.Clear(userID)

	orders, err := repo.ListOrders(ctx, b.db, "")
	if err != nil {
		log.Error().Err(err).Msg("search listing failed")
		b.sendWithMarkup(chatID, "Something went wrong, please try again.", adminMenuKeyboard())
		return
	}
	docs := make([]search.Doc, 0, len(orders))
	for _, o := range orders {
		docs = append(docs, search.Doc{ID: o.ID, Text: o.Description})
	}
	results := search.NewIndex(docs).TopK(query, 5)
	if len(results) == 0 {
		b.sendWithMarkup(chatID, "🔎 Nothing found.", adminMenuKeyboard())
		return
	}
	byID := make(map[int64]domain.Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}
	matched := make([]domain.Order, 0, len(results))
	for _, r := range results {
		if o, ok := byID[r.OrderID]; ok {
			matched = append(matched, o)
		}
	}
	header := fmt.Sprintf("🔎 Matches for %q:", query)
	b.sendWithMarkup(chatID, header, adminOrdersPageKeyboard(matched, 0, int64(len(matched)), len(matched)))
}

func (b *Bot) processOperatorComment(ctx context.Context, userID, chatID int64, st session.State, text string) {
	if !b.isOperator(userID) {
		b.sessions.Clear(userID)
		return
	}
	err := b.orders.Comment(ctx, st.OrderID, text)
	b.sessions.Clear(userID)
	switch {
	case errors.Is(err, services.ErrEmptyText):
		b.send(chatID, "Please send the comment as a text message.")
		b.sessions.Set(userID, st)
	case errors.Is(err, services.ErrOrderNotFound):
		b.sendWithMarkup(chatID, "Request not found.", adminMenuKeyboard())
	case err != nil:
		log.Error().Err(err).Int64("order_id", st.OrderID).Msg("comment failed")
		b.sendWithMarkup(chatID, "Something went wrong, please try again.", adminMenuKeyboard())
	default:
		b.sendWithMarkup(chatID, "✅ Comment added!", adminMenuKeyboard())
	}
}

func (b *Bot) handleAdminCallback(ctx context.Context, callbackID string, userID, chatID int64, act action) {
	switch act.kind {
	case actAdminOrder:
		b.showAdminOrder(ctx, callbackID, chatID, act.orderID)
	case actAdminStatus:
		b.changeOrderStatus(ctx, callbackID, chatID, act)
	case actAdminComment:
		b.sessions.Set(userID, session.State{Kind: session.KindAwaitingOperatorComment, OrderID: act.orderID})
		b.send(chatID, "✍️ Write a comment for the request:")
		b.answer(callbackID, "")
	case actAdminMessage:
		b.sessions.Set(userID, session.State{
			Kind:    session.KindAwaitingFollowup,
			OrderID: act.orderID,
			Sender:  domain.SenderOperator,
		})
		b.send(chatID, "✍️ Write a message to the client:")
		b.answer(callbackID, "")
	case actAdminBackToOrders:
		b.listOrdersPage(ctx, chatID, "", 0)
		b.answer(callbackID, "")
	case actOrdersPage:
		b.listOrdersPage(ctx, chatID, "", act.page)
		b.answer(callbackID, "")
	case actBroadcastConfirm:
		b.runBroadcast(ctx, callbackID, userID, chatID)
	case actBroadcastCancel:
		b.sessions.Clear(userID)
		b.sendWithMarkup(chatID, "❌ Broadcast cancelled.", adminMenuKeyboard())
		b.answer(callbackID, "")
	}
}

func (b *Bot) showAdminOrder(ctx context.Context, callbackID string, chatID, orderID int64) {
	if b.renderAdminOrder(ctx, chatID, orderID) {
		b.answer(callbackID, "")
		return
	}
	b.answerAlert(callbackID, "Request not found")
}

// renderAdminOrder sends the triage view of one request and reports
// whether the request exists.
func (b *Bot) renderAdminOrder(ctx context.Context, chatID, orderID int64) bool {
	order, err := b.orders.Get(ctx, orderID)
	if err != nil {
		return false
	}
	owner, err := repo.GetUser(ctx, b.db, order.UserID)
	if err != nil {
		owner = nil
	}
	tail, err := b.threads.Tail(ctx, orderID, 5)
	if err != nil {
		log.Warn().Err(err).Int64("order_id", orderID).Msg("thread tail failed")
	}
	b.sendWithMarkup(chatID, formatAdminOrder(order, owner, tail), adminOrderKeyboard(orderID, order.Status))
	return true
}

func (b *Bot) changeOrderStatus(ctx context.Context, callbackID string, chatID int64, act action) {
	err := b.orders.ChangeStatus(ctx, act.orderID, act.status, nil)
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		b.answerAlert(callbackID, "Request not found")
		return
	case errors.Is(err, services.ErrStatusLocked):
		b.answerAlert(callbackID, "This request is already in a final state.")
		return
	case errors.Is(err, services.ErrInvalidStatus):
		b.answer(callbackID, "")
		return
	case err != nil:
		log.Error().Err(err).Int64("order_id", act.orderID).Msg("status change failed")
		b.answerAlert(callbackID, "Something went wrong, please try again.")
		return
	}
	label, ok := statusLabel[act.status]
	if !ok {
		label = string(act.status)
	}
	b.answer(callbackID, "Status changed: "+label)
	b.renderAdminOrder(ctx, chatID, act.orderID)
}

func (b *Bot) runBroadcast(ctx context.Context, callbackID string, userID, chatID int64) {
	st := b.sessions.Get(userID)
	if st.Kind != session.KindAwaitingBroadcastConfirm || st.Draft == "" {
		b.answer(callbackID, "")
		return
	}
	b.sessions.Clear(userID)
	b.answer(callbackID, "")
	b.send(chatID, "📤 Broadcast started...")

	sent, failed, err := b.broadcasts.Run(ctx, st.Draft)
	if err != nil {
		log.Error().Err(err).Msg("broadcast aborted")
	}
	result := fmt.Sprintf(
		"✅ Broadcast finished!\n\n📊 Results:\n• Delivered: %d\n• Failed: %d", sent, failed)
	b.sendWithMarkup(chatID, result, adminMenuKeyboard())
}
