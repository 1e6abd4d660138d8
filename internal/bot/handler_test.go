package bot

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gastos/internal/config"
	"gastos/internal/log"
	"gastos/internal/services"
	"gastos/internal/session"
	"gastos/internal/storage"
	"gastos/internal/telegram"
)

type fakeSender struct {
	messages  []string
	documents []string // filenames
	lastDoc   []byte
}

func (f *fakeSender) SendMessage(_ context.Context, _ int64, text string) error {
	f.messages = append(f.messages, text)
	return nil
}

func (f *fakeSender) SendDocument(_ context.Context, _ int64, filename, _ string, content []byte) error {
	f.documents = append(f.documents, filename)
	f.lastDoc = content
	return nil
}

func (f *fakeSender) last(t *testing.T) string {
	t.Helper()
	if len(f.messages) == 0 {
		t.Fatal("no reply sent")
	}
	return f.messages[len(f.messages)-1]
}

func newTestHandler(t *testing.T, cfg *config.Config) (*Handler, *fakeSender) {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "gastos.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	sessions := session.NewStore(time.Minute)
	t.Cleanup(sessions.Close)

	if cfg == nil {
		cfg = &config.Config{}
	}
	sender := &fakeSender{}
	logger := log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
	svc := services.NewLedgerService(repo, nil)
	return NewHandler(cfg, svc, sessions, sender, logger), sender
}

func groupMessage(userID int64, text string) telegram.Update {
	return telegram.Update{
		UpdateID: 1,
		Message: &telegram.Message{
			Text: text,
			From: &telegram.User{ID: userID, Username: "anita", FirstName: "Ana"},
			Chat: telegram.Chat{ID: -100, Type: "group", Title: "Casa"},
		},
	}
}

func TestWhitelistRejection(t *testing.T) {
	h, sender := newTestHandler(t, &config.Config{AllowedUsers: []string{"42"}})
	ctx := context.Background()

	h.HandleUpdate(ctx, groupMessage(7, "/help"))
	if sender.last(t) != notAllowedReply {
		t.Fatalf("reply: %s", sender.last(t))
	}

	sender.messages = nil
	h.HandleUpdate(ctx, groupMessage(42, "/help"))
	if !strings.Contains(sender.last(t), "/g monto") {
		t.Fatalf("reply: %s", sender.last(t))
	}
}

func TestExpenseCommand(t *testing.T) {
	h, sender := newTestHandler(t, nil)
	ctx := context.Background()

	h.HandleUpdate(ctx, groupMessage(1, "/g 12.500,50 malbec para el asado"))
	reply := sender.last(t)
	if !strings.Contains(reply, "$12.500,50") {
		t.Fatalf("reply: %s", reply)
	}
	if !strings.Contains(reply, "vinos") {
		t.Fatalf("reply: %s", reply)
	}
	if !strings.Contains(reply, "Ana") {
		t.Fatalf("reply: %s", reply)
	}
}

func TestExpenseCommandInvalidAmount(t *testing.T) {
	h, sender := newTestHandler(t, nil)
	h.HandleUpdate(context.Background(), groupMessage(1, "/g mucho asado"))
	if !strings.Contains(sender.last(t), "Monto inválido") {
		t.Fatalf("reply: %s", sender.last(t))
	}
}

func TestExpenseCommandUsage(t *testing.T) {
	h, sender := newTestHandler(t, nil)
	h.HandleUpdate(context.Background(), groupMessage(1, "/g"))
	if !strings.Contains(sender.last(t), "usá: /g") {
		t.Fatalf("reply: %s", sender.last(t))
	}
}

func TestStartNameFlow(t *testing.T) {
	h, sender := newTestHandler(t, nil)
	ctx := context.Background()

	update := telegram.Update{Message: &telegram.Message{
		Text: "/start",
		From: &telegram.User{ID: 9, Username: "caro"},
		Chat: telegram.Chat{ID: 9, Type: "private"},
	}}
	h.HandleUpdate(ctx, update)
	if sender.last(t) != askNameReply {
		t.Fatalf("reply: %s", sender.last(t))
	}

	update.Message.Text = "Carolina"
	h.HandleUpdate(ctx, update)
	if !strings.Contains(sender.last(t), "Carolina") {
		t.Fatalf("reply: %s", sender.last(t))
	}

	update.Message.Text = "/start"
	h.HandleUpdate(ctx, update)
	if !strings.Contains(sender.last(t), "Hola Carolina") {
		t.Fatalf("reply: %s", sender.last(t))
	}
}

func TestPlainTextWithoutSessionIsIgnored(t *testing.T) {
	h, sender := newTestHandler(t, nil)
	h.HandleUpdate(context.Background(), groupMessage(1, "hola que tal"))
	if len(sender.messages) != 0 {
		t.Fatalf("unexpected replies: %v", sender.messages)
	}
}

func TestBalanceCommand(t *testing.T) {
	h, sender := newTestHandler(t, nil)
	ctx := context.Background()

	h.HandleUpdate(ctx, groupMessage(1, "/balance"))
	if !strings.Contains(sender.last(t), "Todavía no hay gastos") {
		t.Fatalf("reply: %s", sender.last(t))
	}

	h.HandleUpdate(ctx, groupMessage(1, "/g 2.000 super coto"))
	beto := groupMessage(2, "/pago 500")
	beto.Message.From.Username = "beto"
	beto.Message.From.FirstName = "Beto"
	h.HandleUpdate(ctx, beto)

	h.HandleUpdate(ctx, groupMessage(1, "/balance"))
	reply := sender.last(t)
	if !strings.Contains(reply, "Beto le debe $1.500,00 a Ana") {
		t.Fatalf("reply: %s", reply)
	}
}

func TestLastAndDeleteCommands(t *testing.T) {
	h, sender := newTestHandler(t, nil)
	ctx := context.Background()

	h.HandleUpdate(ctx, groupMessage(1, "/g 500 pizza con amigos"))
	h.HandleUpdate(ctx, groupMessage(1, "/last"))
	reply := sender.last(t)
	if !strings.Contains(reply, "pizza con amigos") {
		t.Fatalf("reply: %s", reply)
	}

	// Pull the entry id out of the listing.
	start := strings.Index(reply, "<code>") + len("<code>")
	end := strings.Index(reply, "</code>")
	id := reply[start:end]

	h.HandleUpdate(ctx, groupMessage(1, "/del "+id))
	if !strings.Contains(sender.last(t), "borrado") {
		t.Fatalf("reply: %s", sender.last(t))
	}

	h.HandleUpdate(ctx, groupMessage(1, "/del "+id))
	if sender.last(t) != notFoundReply {
		t.Fatalf("reply: %s", sender.last(t))
	}
}

func TestEditCommand(t *testing.T) {
	h, sender := newTestHandler(t, nil)
	ctx := context.Background()

	h.HandleUpdate(ctx, groupMessage(1, "/g 500 pizza"))
	saved := sender.last(t)
	start := strings.Index(saved, "<code>") + len("<code>")
	id := saved[start:strings.Index(saved, "</code>")]

	h.HandleUpdate(ctx, groupMessage(1, "/edit "+id+" 1.250,75"))
	if !strings.Contains(sender.last(t), "$1.250,75") {
		t.Fatalf("reply: %s", sender.last(t))
	}
}

func TestCSVCommand(t *testing.T) {
	h, sender := newTestHandler(t, nil)
	ctx := context.Background()

	h.HandleUpdate(ctx, groupMessage(1, "/csv"))
	if !strings.Contains(sender.last(t), "No hay gastos") {
		t.Fatalf("reply: %s", sender.last(t))
	}

	h.HandleUpdate(ctx, groupMessage(1, "/g 12.500,50 vinos malbec"))
	h.HandleUpdate(ctx, groupMessage(1, "/csv"))
	if len(sender.documents) != 1 {
		t.Fatalf("documents: %v", sender.documents)
	}
	if !strings.HasPrefix(sender.documents[0], "gastos-") {
		t.Fatalf("filename: %s", sender.documents[0])
	}
	doc := string(sender.lastDoc)
	if !strings.Contains(doc, "12500.50") || !strings.Contains(doc, "malbec") {
		t.Fatalf("csv: %s", doc)
	}
}

func TestUnknownCommand(t *testing.T) {
	h, sender := newTestHandler(t, nil)
	h.HandleUpdate(context.Background(), groupMessage(1, "/fly"))
	if sender.last(t) != unknownCommandReply {
		t.Fatalf("reply: %s", sender.last(t))
	}
}

func TestMonthCommandInvalidSelector(t *testing.T) {
	h, sender := newTestHandler(t, nil)
	h.HandleUpdate(context.Background(), groupMessage(1, "/month 13"))
	if !strings.Contains(sender.last(t), "Mes inválido") {
		t.Fatalf("reply: %s", sender.last(t))
	}
}
