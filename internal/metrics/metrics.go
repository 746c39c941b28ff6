package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"

	"homework-telegram-bot/internal/database"
)

const (
	namespace = "homework"
	subsystem = "telegram_bot"

	// KindStatus labels notifications about a homework status change.
	KindStatus = "status"
	// KindError labels notifications about a failed poll.
	KindError = "error"
)

// BotMetrics are the counters exported on /metrics. Counters survive
// restarts through Save and Load; the cursor does not.
type BotMetrics struct {
	Polls               prometheus.Counter
	FailedPolls         prometheus.Counter
	HomeworksProcessed  *prometheus.CounterVec
	NotificationsSent   *prometheus.CounterVec
	NotificationsFailed *prometheus.CounterVec
	Cursor              prometheus.Gauge
	LastSuccess         prometheus.Gauge
	Mutex               sync.Mutex
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		Polls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "polls_total",
			Help:      "The total number of homework status polls",
		}),
		FailedPolls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "failed_polls_total",
			Help:      "The total number of polls that ended with an error",
		}),
		HomeworksProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "homeworks_processed_total",
				Help:      "Homework status changes turned into messages, by status",
			},
			[]string{"status"},
		),
		NotificationsSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_sent_total",
				Help:      "Messages delivered to the chat, by kind",
			},
			[]string{"kind"},
		),
		NotificationsFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_failed_total",
				Help:      "Messages that could not be delivered, by kind",
			},
			[]string{"kind"},
		),
		Cursor: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cursor_timestamp_seconds",
			Help:      "The from_date sent with the next poll",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful poll",
		}),
	}

	reg.MustRegister(
		m.Polls,
		m.FailedPolls,
		m.HomeworksProcessed,
		m.NotificationsSent,
		m.NotificationsFailed,
		m.Cursor,
		m.LastSuccess,
	)

	return m
}

// ObserveDelivery counts a notification outcome of the given kind.
func (m *BotMetrics) ObserveDelivery(kind string, ok bool) {
	if ok {
		m.NotificationsSent.WithLabelValues(kind).Inc()
		return
	}
	m.NotificationsFailed.WithLabelValues(kind).Inc()
}

func (m *BotMetrics) labeled() map[string]*prometheus.CounterVec {
	return map[string]*prometheus.CounterVec{
		"homeworks_processed":  m.HomeworksProcessed,
		"notifications_sent":   m.NotificationsSent,
		"notifications_failed": m.NotificationsFailed,
	}
}

// Load adds the counter values saved by a previous run. A nil store is a
// no-op.
func (m *BotMetrics) Load(store *database.Store) {
	if store == nil {
		return
	}

	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	for name, counter := range map[string]prometheus.Counter{
		"polls":        m.Polls,
		"failed_polls": m.FailedPolls,
	} {
		value, err := store.GetMetric(name)
		if err != nil {
			log.Errorf("Failed to load metric %s: %v", name, err)
			continue
		}
		counter.Add(value)
	}

	for name, vec := range m.labeled() {
		values, err := store.GetMetricsWithLabels(name)
		if err != nil {
			log.Errorf("Failed to load metric %s: %v", name, err)
			continue
		}
		for _, byValue := range values {
			for labelValue, value := range byValue {
				vec.WithLabelValues(labelValue).Add(value)
			}
		}
	}

	log.Debug("Metrics loaded from database.")
}

// Save writes the current counter values. A nil store is a no-op.
func (m *BotMetrics) Save(store *database.Store) error {
	if store == nil {
		return nil
	}

	m.Mutex.Lock()
	defer m.Mutex.Unlock()

	if err := store.SaveMetric("polls", GetMetricValue(m.Polls)); err != nil {
		return err
	}
	if err := store.SaveMetric("failed_polls", GetMetricValue(m.FailedPolls)); err != nil {
		return err
	}

	for name, vec := range m.labeled() {
		metricChan := make(chan prometheus.Metric)
		go func() {
			vec.Collect(metricChan)
			close(metricChan)
		}()

		var saveErr error
		for metric := range metricChan {
			metricProto := &dto.Metric{}
			if err := metric.Write(metricProto); err != nil {
				log.Errorf("Failed to read %s metric: %v", name, err)
				continue
			}
			for _, label := range metricProto.GetLabel() {
				err := store.SaveMetricWithLabels(name, label.GetName(), label.GetValue(), metricProto.GetCounter().GetValue())
				if err != nil && saveErr == nil {
					saveErr = err
				}
			}
		}
		if saveErr != nil {
			return saveErr
		}
	}

	log.Debug("Metrics saved to database.")
	return nil
}

// GetMetricValue reads the current value of a single counter or gauge.
func GetMetricValue(metric prometheus.Collector) float64 {
	var metricValue float64
	metricChan := make(chan prometheus.Metric, 1)
	metric.Collect(metricChan)
	close(metricChan)

	metricProto := &dto.Metric{}
	if err := (<-metricChan).Write(metricProto); err != nil {
		log.Errorf("Failed to read metric value: %v", err)
		return 0
	}

	if metricProto.Counter != nil {
		metricValue = metricProto.Counter.GetValue()
	} else if metricProto.Gauge != nil {
		metricValue = metricProto.Gauge.GetValue()
	}
	return metricValue
}
