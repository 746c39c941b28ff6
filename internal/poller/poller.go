package poller

import (
	"context"
	"time"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"

	"homework-telegram-bot/internal/homework"
	"homework-telegram-bot/internal/metrics"
	"homework-telegram-bot/internal/telegram"
	"homework-telegram-bot/lib/helpers"
	"homework-telegram-bot/lib/translation"
)

const failureTemplate = "Сбой в работе программы: %v"

// Fetcher returns the raw homework statuses answer for changes since
// fromDate.
type Fetcher interface {
	FetchStatus(ctx context.Context, fromDate int64) (interface{}, error)
}

// Notifier delivers a text to the chat.
type Notifier interface {
	Notify(text string) telegram.Delivery
}

// Config of the poller. A zero StartFrom starts from the current time.
type Config struct {
	RetryPeriod time.Duration
	StartFrom   int64
}

// Poller polls the homework statuses API and forwards every status change
// to the chat. It is driven by a single goroutine.
type Poller struct {
	fetcher     Fetcher
	notifier    Notifier
	metrics     *metrics.BotMetrics
	retryPeriod time.Duration

	cursor    int64
	lastError string
}

func New(fetcher Fetcher, notifier Notifier, m *metrics.BotMetrics, c Config) *Poller {
	cursor := c.StartFrom
	if cursor == 0 {
		cursor = time.Now().Unix()
	}

	p := &Poller{
		fetcher:     fetcher,
		notifier:    notifier,
		metrics:     m,
		retryPeriod: c.RetryPeriod,
	}
	p.setCursor(cursor)
	return p
}

// Cursor is the from_date the next poll will use.
func (p *Poller) Cursor() int64 {
	return p.cursor
}

func (p *Poller) setCursor(ts int64) {
	p.cursor = ts
	p.metrics.Cursor.Set(float64(ts))
}

// Run polls until ctx is done, pausing RetryPeriod between polls. It always
// returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	log.Infof("poller started, retry period %s, cursor %s", p.retryPeriod, helpers.FormatCursor(p.cursor, time.Now()))

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("poller stopped")
			return ctx.Err()
		case <-timer.C:
		}

		p.Iterate(ctx)
		timer.Reset(p.retryPeriod)
	}
}

// Iterate runs one poll and handles its failure: the error is logged and
// reported to the chat unless the previous poll failed with the same text.
func (p *Poller) Iterate(ctx context.Context) error {
	p.metrics.Polls.Inc()

	err := p.Poll(ctx)
	if err == nil {
		p.lastError = ""
		p.metrics.LastSuccess.SetToCurrentTime()
		return nil
	}

	if ctx.Err() != nil {
		log.Debugf("poll interrupted: %v", err)
		return err
	}

	p.metrics.FailedPolls.Inc()
	p.reportFailure(err)
	return err
}

func (p *Poller) reportFailure(err error) {
	message := translation.Translate(failureTemplate, err)
	log.Error(message)

	if message == p.lastError {
		log.Debug("same failure as the previous poll, chat not notified")
		return
	}
	p.lastError = message

	d := p.notifier.Notify(message)
	p.metrics.ObserveDelivery(metrics.KindError, d.OK())
}

// Poll fetches the changes since the cursor, validates the answer, advances
// the cursor and notifies the chat about every homework in order. The first
// record that cannot be parsed aborts the rest of the batch.
func (p *Poller) Poll(ctx context.Context) error {
	raw, err := p.fetcher.FetchStatus(ctx, p.cursor)
	if err != nil {
		return err
	}

	if log.IsLevelEnabled(log.TraceLevel) {
		log.Tracef("api response: %s", spew.Sdump(raw))
	}

	resp, err := homework.CheckResponse(raw)
	if err != nil {
		return err
	}

	p.setCursor(resp.CurrentDate)
	log.Debugf("cursor moved to %s", helpers.FormatCursor(resp.CurrentDate, time.Now()))

	if len(resp.Homeworks) == 0 {
		log.Debug("no new statuses")
		return nil
	}

	for _, hw := range resp.Homeworks {
		message, err := homework.ParseStatus(hw)
		if err != nil {
			return err
		}
		p.metrics.HomeworksProcessed.WithLabelValues(hw["status"].(string)).Inc()

		d := p.notifier.Notify(message)
		p.metrics.ObserveDelivery(metrics.KindStatus, d.OK())
	}

	return nil
}
