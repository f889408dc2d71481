package bot

import (
	"fmt"

	tgbotapi "github.com/OvyFlash/telegram-bot-api"

	"github.com/vkarasev/go-intake-bot/internal/domain"
	"github.com/vkarasev/go-intake-bot/internal/utils"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnServices),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnNewOrder),
			tgbotapi.NewKeyboardButton(btnCabinet),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnContacts),
			tgbotapi.NewKeyboardButton(btnAbout),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cabinetKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMyOrders),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnReview),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMainMenu),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func backToMainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMainMenu),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func adminMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnStats),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAllOrders),
			tgbotapi.NewKeyboardButton(btnNewOrders),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnUsers),
			tgbotapi.NewKeyboardButton(btnBroadcast),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnSearch),
			tgbotapi.NewKeyboardButton(btnUserMode),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// orderInlineKeyboard offers the per-request actions available to the owner.
func orderInlineKeyboard(orderID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💬 Write a message", fmt.Sprintf("message_%d", orderID)),
			tgbotapi.NewInlineKeyboardButtonData("📊 Status", fmt.Sprintf("status_%d", orderID)),
		),
	)
}

// userOrdersKeyboard lists the user's requests, one button per request.
func userOrdersKeyboard(orders []domain.Order) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(orders))
	for _, o := range orders {
		emoji, ok := statusEmoji[o.Status]
		if !ok {
			emoji = "📋"
		}
		label := fmt.Sprintf("%s Request #%d", emoji, o.ID)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("view_order_%d", o.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// reviewableOrdersKeyboard lists completed requests eligible for a review.
func reviewableOrdersKeyboard(orders []domain.Order) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("Request #%d", o.ID),
				fmt.Sprintf("review_%d", o.ID),
			),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// ratingKeyboard shows one to five stars on a single row.
func ratingKeyboard(orderID int64) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, 5)
	for i := 1; i <= 5; i++ {
		stars := ""
		for j := 0; j < i; j++ {
			stars += "⭐"
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			stars, fmt.Sprintf("rate_%d_%d", orderID, i)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// adminOrderKeyboard offers status transitions (current status omitted)
// plus the triage actions.
func adminOrderKeyboard(orderID int64, current domain.Status) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, 4)
	if current != domain.StatusInProgress {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Start work",
				fmt.Sprintf("admin_status_%d_%s", orderID, domain.StatusInProgress)),
		))
	}
	if current != domain.StatusCompleted {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Complete",
				fmt.Sprintf("admin_status_%d_%s", orderID, domain.StatusCompleted)),
		))
	}
	if current != domain.StatusCancelled {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel",
				fmt.Sprintf("admin_status_%d_%s", orderID, domain.StatusCancelled)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("💬 Message client", fmt.Sprintf("admin_message_%d", orderID)),
		tgbotapi.NewInlineKeyboardButtonData("📝 Comment", fmt.Sprintf("admin_comment_%d", orderID)),
	))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔙 Back", "admin_back_to_orders"),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// adminOrdersPageKeyboard renders one page of the request list plus
// prev/next navigation when more pages exist.
func adminOrdersPageKeyboard(orders []domain.Order, page int, total int64, pageSize int) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(orders)+1)
	for _, o := range orders {
		emoji, ok := statusEmoji[o.Status]
		if !ok {
			emoji = "📋"
		}
		label := fmt.Sprintf("%s #%d %s", emoji, o.ID, truncate(o.Description, 24))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("admin_order_%d", o.ID)),
		))
	}
	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀️ Prev",
			fmt.Sprintf("orders_page_%d", page-1)))
	}
	if utils.HasNextPage(page, pageSize, total) {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Next ▶️",
			fmt.Sprintf("orders_page_%d", page+1)))
	}
	if len(nav) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(nav...))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func broadcastConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, send it", "broadcast_confirm"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", "broadcast_cancel"),
		),
	)
}
