package bot

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vkarasev/go-intake-bot/internal/domain"
	"github.com/vkarasev/go-intake-bot/internal/repo"
	"github.com/vkarasev/go-intake-bot/internal/sysutil"
)

// Reply-keyboard button labels. Incoming text is matched against these
// verbatim, so they must stay in sync with the keyboards.
const (
	btnServices   = "📋 Our services"
	btnNewOrder   = "✍️ Submit a request"
	btnCabinet    = "👤 My account"
	btnContacts   = "📞 Contacts"
	btnAbout      = "ℹ️ About us"
	btnMyOrders   = "📝 My requests"
	btnReview     = "⭐ Leave a review"
	btnMainMenu   = "🔙 Main menu"
	btnStats      = "📊 Statistics"
	btnAllOrders  = "📋 All requests"
	btnNewOrders  = "🆕 New requests"
	btnUsers      = "👥 Users"
	btnBroadcast  = "📢 Broadcast"
	btnSearch     = "🔎 Search"
	btnUserMode   = "👤 User mode"
)

const welcomeText = `👋 Welcome!

We build Telegram bots and automation for businesses.

Use the menu below to browse our services, submit a request or check your account.`

const helpText = `ℹ️ How this bot works:

✍️ Submit a request with a free-text description of what you need.
👤 Track your requests and message the manager from your account.
⭐ Leave a review once a request is completed.

Commands: /start, /help`

const servicesText = `📋 Our services:

🤖 Telegram bots for e-commerce
⚙️ Business process automation
🎓 Bots for education
📊 CRM systems
🔗 Third-party API integrations

✍️ Submit a request and we will get back to you with an estimate.`

const aboutText = `ℹ️ About us

We are a team of developers building Telegram bots for over 5 years.

🏆 Track record:
• 200+ delivered projects
• Clients in 15+ countries
• Average rating 4.9/5.0

🎯 We focus on quality, deadlines and post-launch support.`

const contactsText = `📞 Contacts

💬 Telegram: @intake_studio
📧 Email: hello@intake.example
🌐 Website: intake.example

⏰ Working hours:
Mon-Fri: 9:00 - 18:00 (UTC)

💡 The fastest way to reach us is to submit a request right here.`

const orderPromptText = `✍️ Describe what you need.

Write a single message with the details of your request: what to build, deadlines, budget if known.`

const adminPanelText = `🔧 Admin panel

Use the menu below to manage requests, users and broadcasts.`

const broadcastPromptText = `📢 Broadcast

Send the text you want delivered to every registered user.

⚠️ The message goes out to everyone, so double-check it first.`

const searchPromptText = "🔎 Send a search query to look through request descriptions."

var statusEmoji = map[domain.Status]string{
	domain.StatusNew:        "🆕",
	domain.StatusInProgress: "🔄",
	domain.StatusCompleted:  "✅",
	domain.StatusCancelled:  "❌",
}

var statusLabel = map[domain.Status]string{
	domain.StatusNew:        "🆕 New",
	domain.StatusInProgress: "🔄 In progress",
	domain.StatusCompleted:  "✅ Completed",
	domain.StatusCancelled:  "❌ Cancelled",
}

// statusPopup is the long-form explanation shown in the status alert.
var statusPopup = map[domain.Status]string{
	domain.StatusNew:        "🆕 New: your request is registered and waiting to be picked up",
	domain.StatusInProgress: "🔄 In progress: the manager is working on your request",
	domain.StatusCompleted:  "✅ Completed: the work is done",
	domain.StatusCancelled:  "❌ Cancelled",
}

const timeLayout = "2006-01-02 15:04"

func formatUserOrder(o *domain.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Request #%d\n\n", o.ID)
	fmt.Fprintf(&b, "📅 Created: %s\n", o.CreatedAt.Format(timeLayout))
	fmt.Fprintf(&b, "🔄 Updated: %s\n", o.UpdatedAt.Format(timeLayout))
	fmt.Fprintf(&b, "📊 Status: %s\n\n", statusLabel[o.Status])
	fmt.Fprintf(&b, "📝 Description:\n%s", o.Description)
	if o.OperatorComment != "" {
		fmt.Fprintf(&b, "\n\n💬 Manager's comment:\n%s", o.OperatorComment)
	}
	return b.String()
}

func formatAdminOrder(o *domain.Order, owner *domain.User, tail []domain.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 Request #%d\n\n", o.ID)
	if owner != nil {
		name := sysutil.FirstNonEmpty(owner.FirstName, owner.Username, "unknown")
		fmt.Fprintf(&b, "👤 Client: %s (@%s)\n", name, owner.Username)
	}
	fmt.Fprintf(&b, "🆔 User ID: %d\n\n", o.UserID)
	fmt.Fprintf(&b, "📅 Created: %s\n", o.CreatedAt.Format(timeLayout))
	fmt.Fprintf(&b, "🔄 Updated: %s\n", o.UpdatedAt.Format(timeLayout))
	fmt.Fprintf(&b, "📊 Status: %s\n\n", statusLabel[o.Status])
	fmt.Fprintf(&b, "📝 Description:\n%s", o.Description)
	if o.Budget != "" {
		fmt.Fprintf(&b, "\n💰 Budget: %s", o.Budget)
	}
	if o.OperatorComment != "" {
		fmt.Fprintf(&b, "\n\n💬 Your comment:\n%s", o.OperatorComment)
	}
	if len(tail) > 0 {
		b.WriteString("\n\n📨 Recent messages:\n")
		for _, m := range tail {
			who := "👤 Client"
			if m.Sender == domain.SenderOperator {
				who = "👨‍💼 You"
			}
			fmt.Fprintf(&b, "\n%s (%s):\n%s\n", who, m.CreatedAt.Format(timeLayout), m.Text)
		}
	}
	return b.String()
}

func formatStats(s *repo.Stats) string {
	return fmt.Sprintf(`📊 Bot statistics

👥 Users: %d

📋 Requests:
• Total: %d
• 🆕 New: %d
• 🔄 In progress: %d
• ✅ Completed: %d

⭐ Average rating: %.1f/5.0`,
		s.TotalUsers, s.TotalOrders, s.NewOrders, s.InProgress, s.Completed, s.AverageRating)
}

// truncate caps s at n runes, appending an ellipsis when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n]) + "…"
}
