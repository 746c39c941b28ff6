package telegram

import (
	"net/http"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"homework-telegram-bot/lib/helpers"
)

// NewBot creates new telegram bot. It does not require Telegram to be
// reachable: a failed getMe is logged and the bot is returned anyway.
func NewBot(c BotConfig) (*Bot, error) {
	if c.Token == "" {
		return nil, errors.New("could not create telegram bot: empty token")
	}

	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	bot := &tgbotapi.BotAPI{
		Token:  c.Token,
		Debug:  c.Debug,
		Client: &http.Client{Timeout: c.Timeout},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(endpoint)

	if self, err := bot.GetMe(); err != nil {
		log.Errorf("could not authorize telegram bot, continuing: %v", err)
	} else {
		bot.Self = self
		log.Debugf("authorized on account %s", self.UserName)
	}

	return &Bot{
		Bot:    bot,
		Config: c,
	}, nil
}

// SendMessage sends a plain text telegram message
func (b *Bot) SendMessage(m Message) error {
	msg := newMessageConfig(m.ChatID, helpers.TruncateMessage(m.Text, helpers.MaxMessageLength))
	msg.DisableWebPagePreview = true
	_, err := b.Bot.Send(msg)
	return errors.Wrapf(err, "could not send message to chat %s", m.ChatID)
}

func newMessageConfig(chatID, text string) tgbotapi.MessageConfig {
	if id, err := strconv.ParseInt(chatID, 10, 64); err == nil {
		return tgbotapi.NewMessage(id, text)
	}
	return tgbotapi.NewMessageToChannel(chatID, text)
}

// Notifier delivers texts to a single chat and never fails outward.
type Notifier struct {
	bot    *Bot
	chatID string
}

// NewNotifier creates a notifier for chatID
func NewNotifier(bot *Bot, chatID string) *Notifier {
	return &Notifier{bot: bot, chatID: chatID}
}

// Notify sends text to the chat. Failures are logged and reported in the
// returned Delivery only.
func (n *Notifier) Notify(text string) Delivery {
	err := n.bot.SendMessage(Message{ChatID: n.chatID, Text: text})
	if err != nil {
		log.Errorf("failed to send message %q: %v", text, err)
		return Delivery{Text: text, Err: err}
	}

	log.Debugf("bot sent message %q", text)
	return Delivery{Text: text}
}
