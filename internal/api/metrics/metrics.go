// Package metrics defines the custom Prometheus metrics of the accounts
// portal. It is the single source of truth for metric names, labels, and
// help strings.
//
// All collectors register with the default registry through promauto, so the
// echoprometheus handler mounted on /metrics exposes them alongside the HTTP
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "domapp"

// Result label values.
const (
	ResultCreated  = "created"
	ResultInvalid  = "invalid"
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// RegistrationsTotal counts registration form submissions.
// Label:
//   - result: "created", "invalid" (form rejected), or "error" (unexpected failure)
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login form submissions.
// Label:
//   - result: "success", "rejected" (missing or wrong credentials), or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LogoutsTotal counts logout requests.
var LogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logouts_total",
		Help:      "Total number of logout requests.",
	},
)
