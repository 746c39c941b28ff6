package telegram

import (
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotConfig configuration of the bot
type BotConfig struct {
	Token   string
	Debug   bool
	Timeout time.Duration
	// Endpoint is a bot API URL format, tgbotapi.APIEndpoint when empty
	Endpoint string
}

// Sender is the part of tgbotapi.BotAPI the bot uses
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot telegram interaction client
type Bot struct {
	Bot    Sender
	Config BotConfig
}

// Message a telegram message struct. ChatID is either a numeric chat id or
// a channel username such as "@homework".
type Message struct {
	ChatID string
	Text   string
}

// Delivery is the outcome of a notification. Err is nil on success.
type Delivery struct {
	Text string
	Err  error
}

// OK reports whether the message was delivered.
func (d Delivery) OK() bool {
	return d.Err == nil
}
