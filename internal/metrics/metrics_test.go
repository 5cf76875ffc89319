package metrics

import (
	"testing"

	"go.uber.org/zap"
)

func TestMetrics(t *testing.T) {
	logger := zap.NewNop()
	m := New(logger)

	// Решения контроля доступа
	m.RecordGateDecision("eligible")
	m.RecordGateDecision("subscribe_required")

	// Приглашения
	m.RecordReferralCredit()

	// Просмотры контента
	m.RecordContentView("courses")
	m.RecordContentView("video")

	// Рассылки
	m.RecordBroadcast(true)
	m.RecordBroadcast(false)

	// Gauge пользователей
	m.SetKnownUsers(100)

	if m.Handler() == nil {
		t.Error("ожидался непустой HTTP handler метрик")
	}
}
