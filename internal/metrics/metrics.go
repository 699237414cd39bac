package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BotUpdates = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "activitybot", Name: "updates_total", Help: "Processed telegram updates",
	})
	HandlerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "activitybot", Name: "handler_errors_total", Help: "Handler errors",
	})
	TrackedMessages = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "activitybot", Name: "tracked_messages_total", Help: "Counted group messages by category",
	}, []string{"category"})
	IncrementErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "activitybot", Name: "activity_increment_errors_total",
		Help: "Activity counter writes that failed or were rejected",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "activitybot", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(BotUpdates, HandlerErrors, TrackedMessages, IncrementErrors, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }
