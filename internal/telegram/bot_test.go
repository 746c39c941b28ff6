package telegram

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"homework-telegram-bot/lib/helpers"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func TestSendMessage_NumericChatID(t *testing.T) {
	sender := &fakeSender{}
	bot := &Bot{Bot: sender}

	if err := bot.SendMessage(Message{ChatID: "-100123", Text: "hello"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.ChatID != -100123 || msg.Text != "hello" {
		t.Errorf("unexpected message: chat=%d text=%q", msg.ChatID, msg.Text)
	}
	if msg.ParseMode != "" {
		t.Errorf("expected plain text, got parse mode %q", msg.ParseMode)
	}
}

func TestSendMessage_ChannelUsername(t *testing.T) {
	sender := &fakeSender{}
	bot := &Bot{Bot: sender}

	if err := bot.SendMessage(Message{ChatID: "@homework", Text: "hello"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sender.sent[0].ChannelUsername; got != "@homework" {
		t.Errorf("expected channel username, got %q", got)
	}
}

func TestSendMessage_TruncatesLongText(t *testing.T) {
	sender := &fakeSender{}
	bot := &Bot{Bot: sender}

	_ = bot.SendMessage(Message{ChatID: "1", Text: strings.Repeat("a", helpers.MaxMessageLength+100)})

	if n := utf8.RuneCountInString(sender.sent[0].Text); n != helpers.MaxMessageLength {
		t.Errorf("expected %d characters, got %d", helpers.MaxMessageLength, n)
	}
}

func TestNotifier_Success(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifier(&Bot{Bot: sender}, "42")

	d := n.Notify("status changed")
	if !d.OK() {
		t.Fatalf("expected delivery, got %v", d.Err)
	}
	if d.Text != "status changed" {
		t.Errorf("unexpected text %q", d.Text)
	}
}

func TestNotifier_FailureIsReturnedNotRaised(t *testing.T) {
	cause := errors.New("Forbidden: bot was blocked by the user")
	sender := &fakeSender{err: cause}
	n := NewNotifier(&Bot{Bot: sender}, "42")

	d := n.Notify("status changed")
	if d.OK() {
		t.Fatal("expected failed delivery")
	}
	if !errors.Is(d.Err, cause) {
		t.Errorf("expected cause to be kept, got %v", d.Err)
	}
	if d.Text != "status changed" {
		t.Errorf("expected failing text in result, got %q", d.Text)
	}
}

func TestNewBot_UnreachableTelegram(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL + "/bot%s/%s"
	server.Close()

	bot, err := NewBot(BotConfig{Token: "123:abc", Endpoint: endpoint, Timeout: time.Second})
	if err != nil {
		t.Fatalf("bot must be created while telegram is unreachable: %v", err)
	}

	d := NewNotifier(bot, "42").Notify("status changed")
	if d.OK() {
		t.Error("expected delivery to fail while telegram is unreachable")
	}
}

func TestNewBot_SendsThroughEndpoint(t *testing.T) {
	var mu sync.Mutex
	var methods []string
	var gotChatID, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		mu.Lock()
		methods = append(methods, path.Base(r.URL.Path))
		if path.Base(r.URL.Path) == "sendMessage" {
			gotChatID = r.FormValue("chat_id")
			gotText = r.FormValue("text")
		}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch path.Base(r.URL.Path) {
		case "getMe":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"hw","username":"hw_bot"}}`))
		default:
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"},"text":"ok"}}`))
		}
	}))
	defer server.Close()

	bot, err := NewBot(BotConfig{Token: "123:abc", Endpoint: server.URL + "/bot%s/%s", Timeout: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := NewNotifier(bot, "42").Notify("status changed")
	if !d.OK() {
		t.Fatalf("expected delivery, got %v", d.Err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(methods) != 2 || methods[0] != "getMe" || methods[1] != "sendMessage" {
		t.Errorf("unexpected api calls: %v", methods)
	}
	if gotChatID != "42" || gotText != "status changed" {
		t.Errorf("unexpected message: chat=%q text=%q", gotChatID, gotText)
	}
}

func TestNewBot_EmptyToken(t *testing.T) {
	if _, err := NewBot(BotConfig{}); err == nil {
		t.Fatal("expected error for empty token")
	}
}
