// Package metrics defines and registers all custom Prometheus metrics for the
// task manager API. It is the single source of truth for metric names, labels,
// and help strings. Metrics register themselves with the default registry at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "taskapi"

// TasksCreatedTotal counts newly created tasks.
// Label:
//   - category: "Personal", "Work", "Urgent", or "Other"
var TasksCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_created_total",
		Help:      "Total number of tasks created, by category.",
	},
	[]string{"category"},
)

// TaskLifecycleTotal counts lifecycle transitions on existing tasks.
// Label:
//   - action: "trashed", "restored", or "purged_by_owner"
var TaskLifecycleTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "task_lifecycle_total",
		Help:      "Total number of task lifecycle transitions, by action.",
	},
	[]string{"action"},
)

// TasksPurgedTotal counts tasks removed by the background retention sweep.
var TasksPurgedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_purged_total",
		Help:      "Total number of trashed tasks removed by the retention purger.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "not_found", or "bad_password"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// StatsCacheTotal counts stats cache lookups.
// Label:
//   - result: "hit" or "miss"
var StatsCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_cache_total",
		Help:      "Total number of stats cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
