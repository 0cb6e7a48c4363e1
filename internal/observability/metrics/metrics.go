package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatter_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chatter_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	usersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatter_users_registered_total",
		Help: "Count of successful signups",
	})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatter_login_attempts_total",
		Help: "Count of login attempts by result",
	}, []string{"result"})

	postsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatter_posts_created_total",
		Help: "Count of posts created",
	})

	postsActivated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatter_posts_activated_total",
		Help: "Count of pending posts promoted to active by the lifecycle worker",
	})

	commentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatter_comments_created_total",
		Help: "Count of comments created",
	})

	groupsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "chatter_groups_created_total",
		Help: "Count of groups created",
	})

	chatClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chatter_chat_clients",
		Help: "Number of connected chat websocket clients",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveSignup increments the registered-users counter.
func ObserveSignup() {
	usersRegistered.Inc()
}

// ObserveLogin records a login attempt with a result label.
func ObserveLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}

// ObservePostCreated increments the created-posts counter.
func ObservePostCreated() {
	postsCreated.Inc()
}

// ObservePostsActivated adds the number of posts the lifecycle worker
// just promoted.
func ObservePostsActivated(count int64) {
	if count > 0 {
		postsActivated.Add(float64(count))
	}
}

// ObserveCommentCreated increments the created-comments counter.
func ObserveCommentCreated() {
	commentsCreated.Inc()
}

// ObserveGroupCreated increments the created-groups counter.
func ObserveGroupCreated() {
	groupsCreated.Inc()
}

// IncrementChatClients increments the connected chat clients gauge.
func IncrementChatClients() {
	chatClients.Inc()
}

// DecrementChatClients decrements the connected chat clients gauge.
func DecrementChatClients() {
	chatClients.Dec()
}
