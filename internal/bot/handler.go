// Package bot turns Telegram updates into ledger operations and
// Spanish replies.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gastos/internal/config"
	"gastos/internal/core"
	"gastos/internal/export"
	"gastos/internal/log"
	"gastos/internal/services"
	"gastos/internal/session"
	"gastos/internal/storage"
	"gastos/internal/telegram"
)

// Sender is the outbound side of the Telegram client.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, filename, caption string, content []byte) error
}

// Handler dispatches one update at a time. It is not safe for
// concurrent use; the poller calls it sequentially.
type Handler struct {
	cfg      *config.Config
	svc      *services.LedgerService
	sessions *session.Store
	sender   Sender
	logger   *log.Logger
	now      func() time.Time
}

func NewHandler(cfg *config.Config, svc *services.LedgerService, sessions *session.Store, sender Sender, logger *log.Logger) *Handler {
	return &Handler{
		cfg:      cfg,
		svc:      svc,
		sessions: sessions,
		sender:   sender,
		logger:   logger.WithComponent(log.ComponentBot),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// HandleUpdate processes a single update. Errors are handled by
// replying to the user; the poller never sees them.
func (h *Handler) HandleUpdate(ctx context.Context, u telegram.Update) {
	msg := u.Message
	if msg == nil || msg.From == nil || strings.TrimSpace(msg.Text) == "" {
		return
	}

	if !h.cfg.UserAllowed(msg.From.ID) {
		h.logger.WarnContext(ctx, "Rejected message from unauthorized user",
			log.FieldUserID, msg.From.ID, log.FieldChatID, msg.Chat.ID)
		h.reply(ctx, msg.Chat.ID, notAllowedReply)
		return
	}

	if strings.HasPrefix(msg.Text, "/") {
		// A command always cancels whatever the bot was waiting for.
		h.sessions.Clear(msg.From.ID)
		h.handleCommand(ctx, msg)
		return
	}

	if h.sessions.Get(msg.From.ID) == session.StateAwaitingName {
		h.captureName(ctx, msg)
	}
}

func (h *Handler) handleCommand(ctx context.Context, msg *telegram.Message) {
	cmd, args := splitCommand(msg.Text)
	h.logger.InfoContext(ctx, "Handling command",
		log.FieldCommand, cmd,
		log.FieldChatID, msg.Chat.ID,
		log.FieldUserID, msg.From.ID)

	var err error
	switch cmd {
	case "/start":
		err = h.handleStart(ctx, msg)
	case "/help":
		err = h.reply(ctx, msg.Chat.ID, helpText())
	case "/g", "/gasto":
		err = h.handleExpense(ctx, msg, args)
	case "/pago":
		err = h.handlePayment(ctx, msg, args)
	case "/month":
		err = h.handleMonth(ctx, msg, args)
	case "/summary":
		err = h.handleSummary(ctx, msg, args)
	case "/balance":
		err = h.handleBalance(ctx, msg)
	case "/year":
		err = h.handleYear(ctx, msg, args)
	case "/find":
		err = h.handleFind(ctx, msg, args)
	case "/last":
		err = h.handleLast(ctx, msg, args)
	case "/edit":
		err = h.handleEdit(ctx, msg, args)
	case "/del":
		err = h.handleDelete(ctx, msg, args)
	case "/csv":
		err = h.handleCSV(ctx, msg, args)
	default:
		err = h.reply(ctx, msg.Chat.ID, unknownCommandReply)
	}

	if err != nil {
		h.logger.ErrorContext(ctx, "Command failed",
			log.FieldCommand, cmd,
			log.FieldChatID, msg.Chat.ID,
			log.FieldError, err)
		h.reply(ctx, msg.Chat.ID, userErrorText(err))
	}
}

func (h *Handler) handleStart(ctx context.Context, msg *telegram.Message) error {
	userID := formatID(msg.From.ID)
	member, err := h.svc.MemberByID(ctx, userID)
	if err != nil || member.FirstName == "" {
		if _, err := h.svc.RegisterMember(ctx, userID, msg.From.Username, ""); err != nil {
			return err
		}
		h.sessions.Set(msg.From.ID, session.StateAwaitingName)
		return h.reply(ctx, msg.Chat.ID, askNameReply)
	}
	return h.reply(ctx, msg.Chat.ID, welcomeText(member.DisplayName()))
}

func (h *Handler) captureName(ctx context.Context, msg *telegram.Message) {
	name := strings.TrimSpace(msg.Text)
	member, err := h.svc.RegisterMember(ctx, formatID(msg.From.ID), msg.From.Username, name)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to save member name",
			log.FieldUserID, msg.From.ID, log.FieldError, err)
		return
	}
	h.sessions.Clear(msg.From.ID)
	h.reply(ctx, msg.Chat.ID, nameSavedText(member.DisplayName()))
}

func (h *Handler) handleExpense(ctx context.Context, msg *telegram.Message, args string) error {
	parsed, err := parseExpenseArgs(args)
	if err != nil {
		return err
	}
	entry, err := h.svc.RecordExpense(ctx,
		formatID(msg.Chat.ID), chatTitle(msg),
		formatID(msg.From.ID), msg.From.Username, msg.From.FirstName,
		parsed.Amount, parsed.Description, parsed.Category)
	if err != nil {
		return err
	}
	h.logger.InfoContext(ctx, "Expense recorded",
		log.FieldEntryID, entry.ID,
		log.FieldAmountCents, entry.AmountCents,
		log.FieldCategory, entry.Category)
	return h.reply(ctx, msg.Chat.ID, expenseSavedText(entry, h.payerName(ctx, entry)))
}

func (h *Handler) handlePayment(ctx context.Context, msg *telegram.Message, args string) error {
	parsed, err := parsePaymentArgs(args)
	if err != nil {
		return err
	}
	entry, err := h.svc.RecordDebtPayment(ctx,
		formatID(msg.Chat.ID), chatTitle(msg),
		formatID(msg.From.ID), msg.From.Username, msg.From.FirstName,
		parsed.Amount, parsed.Description)
	if err != nil {
		return err
	}
	h.logger.InfoContext(ctx, "Debt payment recorded",
		log.FieldEntryID, entry.ID,
		log.FieldAmountCents, entry.AmountCents)
	return h.reply(ctx, msg.Chat.ID, paymentSavedText(entry, h.payerName(ctx, entry)))
}

func (h *Handler) handleMonth(ctx context.Context, msg *telegram.Message, args string) error {
	total, period, err := h.svc.MonthTotal(ctx, formatID(msg.Chat.ID), args, h.now())
	if err != nil {
		return err
	}
	return h.reply(ctx, msg.Chat.ID, monthTotalText(period.Label, total))
}

func (h *Handler) handleSummary(ctx context.Context, msg *telegram.Message, args string) error {
	summary, err := h.svc.MonthByCategory(ctx, formatID(msg.Chat.ID), args, h.now())
	if err != nil {
		return err
	}
	return h.reply(ctx, msg.Chat.ID, summaryText(summary))
}

func (h *Handler) handleBalance(ctx context.Context, msg *telegram.Message) error {
	result, period, err := h.svc.Balance(ctx, formatID(msg.Chat.ID), h.now())
	if err != nil {
		return err
	}
	return h.reply(ctx, msg.Chat.ID, balanceText(result, period.Label))
}

func (h *Handler) handleYear(ctx context.Context, msg *telegram.Message, args string) error {
	summaries, year, err := h.svc.YearTotals(ctx, formatID(msg.Chat.ID), args, h.now())
	if err != nil {
		return err
	}
	return h.reply(ctx, msg.Chat.ID, yearText(summaries, year))
}

func (h *Handler) handleFind(ctx context.Context, msg *telegram.Message, args string) error {
	parsed, err := parseFindArgs(args)
	if err != nil {
		return err
	}
	entries, period, err := h.svc.Find(ctx, formatID(msg.Chat.ID), parsed.Term, parsed.Month, h.now())
	if err != nil {
		return err
	}
	members, err := h.svc.Members(ctx, formatID(msg.Chat.ID))
	if err != nil {
		return err
	}
	title := fmt.Sprintf("Gastos con %q en %s", parsed.Term, period.Label)
	return h.reply(ctx, msg.Chat.ID, entriesText(title, entries, members))
}

func (h *Handler) handleLast(ctx context.Context, msg *telegram.Message, args string) error {
	n, err := parseLastArgs(args)
	if err != nil {
		return err
	}
	entries, err := h.svc.LastEntries(ctx, formatID(msg.Chat.ID), n)
	if err != nil {
		return err
	}
	members, err := h.svc.Members(ctx, formatID(msg.Chat.ID))
	if err != nil {
		return err
	}
	return h.reply(ctx, msg.Chat.ID, entriesText("Últimos gastos", entries, members))
}

func (h *Handler) handleEdit(ctx context.Context, msg *telegram.Message, args string) error {
	parsed, err := parseEditArgs(args)
	if err != nil {
		return err
	}
	entry, err := h.svc.UpdateEntryAmount(ctx, parsed.ID, formatID(msg.Chat.ID), parsed.Amount)
	if err != nil {
		return err
	}
	return h.reply(ctx, msg.Chat.ID, updatedText(entry))
}

func (h *Handler) handleDelete(ctx context.Context, msg *telegram.Message, args string) error {
	id, err := parseDelArgs(args)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteEntry(ctx, id, formatID(msg.Chat.ID)); err != nil {
		return err
	}
	return h.reply(ctx, msg.Chat.ID, deletedText(id))
}

func (h *Handler) handleCSV(ctx context.Context, msg *telegram.Message, args string) error {
	entries, period, err := h.svc.MonthEntries(ctx, formatID(msg.Chat.ID), args, h.now())
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return h.reply(ctx, msg.Chat.ID, fmt.Sprintf("No hay gastos en %s.", period.Label))
	}
	members, err := h.svc.Members(ctx, formatID(msg.Chat.ID))
	if err != nil {
		return err
	}
	doc, err := export.CSV(entries, members)
	if err != nil {
		return err
	}
	filename := fmt.Sprintf("gastos-%s.csv", period.Start.Format("2006-01"))
	return h.sender.SendDocument(ctx, msg.Chat.ID, filename,
		fmt.Sprintf("Gastos de %s", period.Label), doc)
}

// payerName resolves the member who paid an entry, falling back to a
// generic name when the lookup fails.
func (h *Handler) payerName(ctx context.Context, e core.LedgerEntry) string {
	member, err := h.svc.MemberByID(ctx, e.PaidBy)
	if err != nil {
		return core.Member{}.DisplayName()
	}
	return member.DisplayName()
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) error {
	if err := h.sender.SendMessage(ctx, chatID, text); err != nil {
		h.logger.ErrorContext(ctx, "Failed to send reply",
			log.FieldChatID, chatID, log.FieldError, err)
		return nil // already logged, nothing else to do
	}
	return nil
}

// userErrorText maps an error to the Spanish reply the user sees.
// Usage errors carry their own hint text.
func userErrorText(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Monto inválido. Probá algo como 12.500,50."
	case errors.Is(err, core.ErrInvalidCategory):
		return fmt.Sprintf("Categoría inválida. Las que conozco: %s.", strings.Join(core.Categories(), ", "))
	case errors.Is(err, core.ErrInvalidMonth):
		return "Mes inválido. Usá YYYY-MM o un número entre 1 y 12."
	case errors.Is(err, core.ErrInvalidYear):
		return "Año inválido. Usá un número entre 2000 y 2100."
	case errors.Is(err, storage.ErrNotFound):
		return notFoundReply
	case errors.Is(err, errExpenseUsage),
		errors.Is(err, errPaymentUsage),
		errors.Is(err, errFindUsage),
		errors.Is(err, errEditUsage),
		errors.Is(err, errDelUsage),
		errors.Is(err, errLastUsage):
		return err.Error()
	default:
		return "Algo salió mal, probá de nuevo en un rato."
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// chatTitle picks a workspace title: the group title, or the sender's
// name for private chats.
func chatTitle(msg *telegram.Message) string {
	if msg.Chat.Title != "" {
		return msg.Chat.Title
	}
	if msg.From.FirstName != "" {
		return "Chat de " + msg.From.FirstName
	}
	return "Chat privado"
}
