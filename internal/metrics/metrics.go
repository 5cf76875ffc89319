package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics содержит все метрики приложения
type Metrics struct {
	logger *zap.Logger

	// Счетчики
	gateDecisions   *prometheus.CounterVec
	referralCredits prometheus.Counter
	contentViews    *prometheus.CounterVec
	broadcasts      *prometheus.CounterVec

	// Gauge метрики
	knownUsers prometheus.Gauge

	// Мьютекс для thread-safety
	mu sync.RWMutex
}

// New создает новый экземпляр метрик
func New(logger *zap.Logger) *Metrics {
	m := &Metrics{
		logger: logger,

		// Решения контроля доступа
		gateDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gate_decisions_total",
				Help: "Количество решений контроля доступа по исходам",
			},
			[]string{"outcome"}, // eligible, blocked, subscribe_required, invites_required
		),

		// Засчитанные приглашения
		referralCredits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "referral_credits_total",
				Help: "Количество засчитанных приглашений",
			},
		),

		// Просмотры контента
		contentViews: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "content_views_total",
				Help: "Количество просмотров контента по типам",
			},
			[]string{"kind"}, // courses, video, achievements, articles
		),

		// Доставка рассылок
		broadcasts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "broadcast_messages_total",
				Help: "Количество сообщений рассылки по статусам доставки",
			},
			[]string{"status"}, // sent, failed
		),

		// Gauge известных пользователей
		knownUsers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "known_users",
				Help: "Количество пользователей в базе",
			},
		),
	}

	// Регистрируем все метрики
	prometheus.MustRegister(
		m.gateDecisions,
		m.referralCredits,
		m.contentViews,
		m.broadcasts,
		m.knownUsers,
	)

	return m
}

// RecordGateDecision записывает решение контроля доступа
func (m *Metrics) RecordGateDecision(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gateDecisions.WithLabelValues(outcome).Inc()
	m.logger.Debug("метрика решения записана", zap.String("outcome", outcome))
}

// RecordReferralCredit записывает засчитанное приглашение
func (m *Metrics) RecordReferralCredit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.referralCredits.Inc()
}

// RecordContentView записывает просмотр контента
func (m *Metrics) RecordContentView(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.contentViews.WithLabelValues(kind).Inc()
}

// RecordBroadcast записывает результат доставки одного сообщения рассылки
func (m *Metrics) RecordBroadcast(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	status := "sent"
	if !success {
		status = "failed"
	}
	m.broadcasts.WithLabelValues(status).Inc()
}

// SetKnownUsers устанавливает количество известных пользователей
func (m *Metrics) SetKnownUsers(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.knownUsers.Set(float64(count))
}

// Handler возвращает HTTP handler для метрик
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
