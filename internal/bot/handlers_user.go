package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"
	"github.com/rs/zerolog/log"

	"github.com/vkarasev/go-intake-bot/internal/domain"
	"github.com/vkarasev/go-intake-bot/internal/repo"
	"github.com/vkarasev/go-intake-bot/internal/services"
	"github.com/vkarasev/go-intake-bot/internal/session"
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	from := msg.From
	if from == nil {
		return
	}
	// the bot runs in private chats only, so the chat is the sender
	chatID := from.ID

	if msg.IsCommand() {
		b.handleCommand(ctx, from, chatID, msg.Command())
		return
	}
	if b.handleMenuButton(ctx, from, chatID, msg.Text) {
		return
	}
	b.handleStateText(ctx, from, chatID, msg.Text)
}

func (b *Bot) handleCommand(ctx context.Context, from *tgbotapi.User, chatID int64, cmd string) {
	switch cmd {
	case "start", "help":
		if err := repo.UpsertUser(ctx, b.db, from.ID, from.UserName, from.FirstName, from.LastName); err != nil {
			log.Error().Err(err).Int64("user_id", from.ID).Msg("user registration failed")
		}
		b.resetFlow(from.ID, chatID)
		text := welcomeText
		if cmd == "help" {
			text = helpText
		}
		b.sendWithMarkup(chatID, text, mainMenuKeyboard())
	case "admin":
		if !b.isOperator(from.ID) {
			return
		}
		b.resetFlow(from.ID, chatID)
		b.sendWithMarkup(chatID, adminPanelText, adminMenuKeyboard())
	}
}

// handleMenuButton matches reply-keyboard labels. Menu navigation always
// wins over a pending input flow; the flow is discarded.
func (b *Bot) handleMenuButton(ctx context.Context, from *tgbotapi.User, chatID int64, text string) bool {
	switch text {
	case btnServices:
		b.resetFlow(from.ID, chatID)
		b.sendWithMarkup(chatID, servicesText, mainMenuKeyboard())
	case btnAbout:
		b.resetFlow(from.ID, chatID)
		b.sendWithMarkup(chatID, aboutText, mainMenuKeyboard())
	case btnContacts:
		b.resetFlow(from.ID, chatID)
		b.sendWithMarkup(chatID, contactsText, mainMenuKeyboard())
	case btnMainMenu:
		b.resetFlow(from.ID, chatID)
		b.sendWithMarkup(chatID, "Main menu", mainMenuKeyboard())
	case btnNewOrder:
		b.resetFlow(from.ID, chatID)
		b.sessions.Set(from.ID, session.State{Kind: session.KindAwaitingOrderDescription})
		b.sendWithMarkup(chatID, orderPromptText, backToMainKeyboard())
	case btnCabinet:
		b.resetFlow(from.ID, chatID)
		b.showCabinet(ctx, from, chatID)
	case btnMyOrders:
		b.resetFlow(from.ID, chatID)
		b.showMyOrders(ctx, from.ID, chatID)
	case btnReview:
		b.resetFlow(from.ID, chatID)
		b.startReview(ctx, from.ID, chatID)
	default:
		if b.isOperator(from.ID) {
			return b.handleAdminMenuButton(ctx, from.ID, chatID, text)
		}
		return false
	}
	return true
}

func (b *Bot) handleStateText(ctx context.Context, from *tgbotapi.User, chatID int64, text string) {
	st := b.sessions.Get(from.ID)
	switch st.Kind {
	case session.KindAwaitingOrderDescription:
		b.processOrderDescription(ctx, from, chatID, text)
	case session.KindAwaitingFollowup:
		b.processFollowup(ctx, from, chatID, st, text)
	case session.KindAwaitingReviewComment:
		b.processReviewComment(ctx, from.ID, chatID, st, text)
	case session.KindAwaitingBroadcastText, session.KindAwaitingBroadcastConfirm:
		b.processBroadcastDraft(ctx, from.ID, chatID, text)
	case session.KindAwaitingSearchQuery:
		b.processSearchQuery(ctx, from.ID, chatID, text)
	case session.KindAwaitingOperatorComment:
		b.processOperatorComment(ctx, from.ID, chatID, st, text)
	default:
		b.sendWithMarkup(chatID, "Please use the menu below.", mainMenuKeyboard())
	}
}

func (b *Bot) processOrderDescription(ctx context.Context, from *tgbotapi.User, chatID int64, text string) {
	order, err := b.orders.Create(ctx, from.ID, text, "")
	switch {
	case errors.Is(err, services.ErrEmptyText):
		b.send(chatID, "Please describe your request in a text message.")
		return
	case errors.Is(err, services.ErrTooLong):
		b.send(chatID, "That description is too long, please shorten it.")
		return
	case err != nil:
		log.Error().Err(err).Int64("user_id", from.ID).Msg("order intake failed")
		b.sendWithMarkup(chatID, "Something went wrong, please try again.", mainMenuKeyboard())
		b.sessions.Clear(from.ID)
		return
	}
	b.sessions.Clear(from.ID)
	b.sendWithMarkup(chatID, fmt.Sprintf(
		"✅ Your request #%d has been accepted!\n\nThe manager will review it shortly and get in touch.\n\nYou can track its status in your account.",
		order.ID), mainMenuKeyboard())
}

func (b *Bot) processFollowup(ctx context.Context, from *tgbotapi.User, chatID int64, st session.State, text string) {
	_, err := b.threads.Append(ctx, st.OrderID, from.ID, st.Sender, text)
	switch {
	case errors.Is(err, services.ErrEmptyText):
		b.send(chatID, "Please send a text message.")
		return
	case errors.Is(err, services.ErrOrderNotFound):
		b.sessions.Clear(from.ID)
		b.send(chatID, "Request not found.")
		return
	case err != nil:
		log.Error().Err(err).Int64("order_id", st.OrderID).Msg("followup failed")
		b.sessions.Clear(from.ID)
		b.send(chatID, "Something went wrong, please try again.")
		return
	}
	b.sessions.Clear(from.ID)
	if st.Sender == domain.SenderOperator {
		b.sendWithMarkup(chatID, "✅ Message sent!", adminMenuKeyboard())
		return
	}
	b.sendWithMarkup(chatID, "✅ Message sent to the manager!", cabinetKeyboard())
}

func (b *Bot) processReviewComment(ctx context.Context, userID, chatID int64, st session.State, text string) {
	_, err := b.reviews.Leave(ctx, userID, st.OrderID, st.Rating, text)
	b.sessions.Clear(userID)
	switch {
	case errors.Is(err, services.ErrReviewForbidden):
		b.sendWithMarkup(chatID, "This request cannot be reviewed.", cabinetKeyboard())
	case errors.Is(err, services.ErrOrderNotFound):
		b.sendWithMarkup(chatID, "Request not found.", cabinetKeyboard())
	case errors.Is(err, services.ErrInvalidRating):
		b.sendWithMarkup(chatID, "Please pick a rating between 1 and 5.", cabinetKeyboard())
	case err != nil:
		log.Error().Err(err).Int64("order_id", st.OrderID).Msg("review failed")
		b.sendWithMarkup(chatID, "Something went wrong, please try again.", cabinetKeyboard())
	default:
		b.sendWithMarkup(chatID, "✅ Thank you for your review!", cabinetKeyboard())
	}
}

func (b *Bot) showCabinet(ctx context.Context, from *tgbotapi.User, chatID int64) {
	orders, err := b.orders.ListForUser(ctx, from.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", from.ID).Msg("cabinet listing failed")
		b.sendWithMarkup(chatID, "Something went wrong, please try again.", mainMenuKeyboard())
		return
	}
	registered := ""
	if u, err := repo.GetUser(ctx, b.db, from.ID); err == nil {
		registered = u.RegisteredAt.Format(timeLayout)
	}
	var sb strings.Builder
	sb.WriteString("👤 My account\n\n📊 Your numbers:\n")
	fmt.Fprintf(&sb, "• Requests: %d\n", len(orders))
	if registered != "" {
		fmt.Fprintf(&sb, "• Registered: %s\n", registered)
	}
	sb.WriteString("\nPick an action:")
	b.sendWithMarkup(chatID, sb.String(), cabinetKeyboard())
}

func (b *Bot) showMyOrders(ctx context.Context, userID, chatID int64) {
	orders, err := b.orders.ListForUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("order listing failed")
		b.sendWithMarkup(chatID, "Something went wrong, please try again.", cabinetKeyboard())
		return
	}
	if len(orders) == 0 {
		b.sendWithMarkup(chatID, "You have no requests yet.", cabinetKeyboard())
		return
	}
	b.sendWithMarkup(chatID, "📝 Your requests:", userOrdersKeyboard(orders))
}

func (b *Bot) startReview(ctx context.Context, userID, chatID int64) {
	orders, err := b.reviews.ReviewableOrders(ctx, userID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", userID).Msg("reviewable listing failed")
		b.sendWithMarkup(chatID, "Something went wrong, please try again.", cabinetKeyboard())
		return
	}
	if len(orders) == 0 {
		b.sendWithMarkup(chatID, "You have no completed requests to review yet.", cabinetKeyboard())
		return
	}
	b.sendWithMarkup(chatID, "⭐ Pick a request to review:", reviewableOrdersKeyboard(orders))
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From == nil {
		return
	}
	act, ok := parseCallback(cq.Data)
	if !ok {
		callbacksRejected.Inc()
		b.answer(cq.ID, "")
		return
	}
	userID := cq.From.ID
	chatID := userID

	switch act.kind {
	case actViewOrder:
		b.viewOrderCallback(ctx, cq.ID, userID, chatID, act.orderID)
	case actMessageOrder:
		b.messageOrderCallback(ctx, cq.ID, userID, chatID, act.orderID)
	case actOrderStatus:
		b.statusOrderCallback(ctx, cq.ID, userID, act.orderID)
	case actReviewOrder:
		b.sendWithMarkup(chatID, "⭐ Rate the quality of the work:", ratingKeyboard(act.orderID))
		b.answer(cq.ID, "")
	case actRate:
		b.sessions.Set(userID, session.State{
			Kind:    session.KindAwaitingReviewComment,
			OrderID: act.orderID,
			Rating:  act.rating,
		})
		b.send(chatID, fmt.Sprintf("You rated it %d/5.\n\n💬 Now write a short comment for your review:", act.rating))
		b.answer(cq.ID, "")
	default:
		if !b.isOperator(userID) {
			// admin verbs from anyone else are acked and dropped
			b.answer(cq.ID, "")
			return
		}
		b.handleAdminCallback(ctx, cq.ID, userID, chatID, act)
	}
}

func (b *Bot) viewOrderCallback(ctx context.Context, callbackID string, userID, chatID, orderID int64) {
	order, err := b.orders.Get(ctx, orderID)
	if err != nil || (order.UserID != userID && !b.isOperator(userID)) {
		b.answerAlert(callbackID, "Request not found")
		return
	}
	b.sendWithMarkup(chatID, formatUserOrder(order), orderInlineKeyboard(orderID))
	b.answer(callbackID, "")
}

func (b *Bot) messageOrderCallback(ctx context.Context, callbackID string, userID, chatID, orderID int64) {
	order, err := b.orders.Get(ctx, orderID)
	if err != nil || order.UserID != userID {
		b.answerAlert(callbackID, "Request not found")
		return
	}
	b.sessions.Set(userID, session.State{
		Kind:    session.KindAwaitingFollowup,
		OrderID: orderID,
		Sender:  domain.SenderUser,
	})
	b.send(chatID, "✍️ Write your message:")
	b.answer(callbackID, "")
}

func (b *Bot) statusOrderCallback(ctx context.Context, callbackID string, userID, orderID int64) {
	order, err := b.orders.Get(ctx, orderID)
	if err != nil || (order.UserID != userID && !b.isOperator(userID)) {
		b.answerAlert(callbackID, "Request not found")
		return
	}
	popup, ok := statusPopup[order.Status]
	if !ok {
		popup = string(order.Status)
	}
	b.answerAlert(callbackID, popup)
}
