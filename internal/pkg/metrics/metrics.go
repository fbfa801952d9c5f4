package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "homeworkdesk"

var (
	RequestsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "requests_created_total", Help: "Homework requests created",
	}, []string{"payment_method"})
	TransactionTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "transaction_transitions_total", Help: "Transaction status changes",
	}, []string{"from", "to"})
	BannerClicks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "banner_clicks_total", Help: "Season banner clicks",
	})
	ChatMessages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "chat_messages_total", Help: "Chat messages sent",
	}, []string{"file_type"})

	AdminBalance = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "admin_balance", Help: "Verified online revenue",
	})
	PendingTransactions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "pending_transactions", Help: "Transactions awaiting verification",
	})
	StreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "sse_clients", Help: "Open event streams",
	})

	JobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "job_runs_total", Help: "Total background job runs",
	}, []string{"job"})
	JobErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "job_errors_total", Help: "Total background job errors",
	}, []string{"job"})
	JobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "job_duration_seconds", Help: "Background job duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		RequestsCreated, TransactionTransitions, BannerClicks, ChatMessages,
		AdminBalance, PendingTransactions, StreamClients,
		JobRuns, JobErrors, JobDuration, DBPing,
	)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

// ObserveJob records one background job run.
func ObserveJob(name string, start time.Time, err error) {
	if err != nil {
		JobErrors.WithLabelValues(name).Inc()
	}
	JobRuns.WithLabelValues(name).Inc()
	JobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}
