// Package metrics — счётчики Prometheus; отдаются через /metrics
// служебного HTTP-сервера.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpdatesTotal — обработанные апдейты по виду (message/callback).
	UpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shoppy_updates_total",
		Help: "Processed Telegram updates by kind.",
	}, []string{"kind"})

	// AppendsTotal — записи в журнал операций по типу.
	AppendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shoppy_ledger_appends_total",
		Help: "Ledger rows appended by operation type.",
	}, []string{"op"})

	// SkippedRowsTotal — строки журнала с нераспознанным типом,
	// исключённые из агрегации.
	SkippedRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shoppy_ledger_skipped_rows_total",
		Help: "Ledger rows excluded from aggregation due to unknown operation label.",
	})

	// SendErrorsTotal — неудачные вызовы Telegram API.
	SendErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shoppy_send_errors_total",
		Help: "Failed Telegram send/edit calls.",
	})

	// CASConflictsTotal — проигранные гонки за состояние сессии.
	CASConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shoppy_session_cas_conflicts_total",
		Help: "Session writes dropped because of a concurrent update.",
	})
)
