// Package metrics declares the Prometheus collectors of the API. They are
// registered with the default registry on package init and exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskmanager"

// HTTPRequestsTotal counts handled requests.
// Labels:
//   - method: HTTP method
//   - route: the gin route template, e.g. "/tasks/:id"
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures handler latency.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by method and route.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

var TasksCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created.",
	},
)

var TasksDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_deleted_total",
		Help:      "Total number of tasks deleted.",
	},
)

var CommentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_created_total",
		Help:      "Total number of task comments created.",
	},
)

// AuthorizationDeniedTotal counts requests refused by the policy.
// Label:
//   - action: the refused operation, e.g. "delete_task"
var AuthorizationDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authorization_denied_total",
		Help:      "Total number of operations refused by the authorization policy.",
	},
	[]string{"action"},
)

// UsersRegisteredTotal counts created accounts by role.
var UsersRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of registered users by role.",
	},
	[]string{"role"},
)
