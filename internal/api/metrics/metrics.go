// Package metrics defines the custom Prometheus metrics for the clinic API.
// It is the single source of truth for metric names, labels and help strings.
// Metrics register with the default registry on package init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinic"

// Result label values shared by the counters below.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// ── Doctor workflow ──────────────────────────────────────────────────────────

// DoctorRegistrationsTotal counts doctor registrations.
// Labels:
//   - mode: "pending" or "verified"
//   - result: "success" or "failure"
var DoctorRegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "doctor_registrations_total",
		Help:      "Total number of doctor registrations, by mode and result.",
	},
	[]string{"mode", "result"},
)

// DoctorVerificationsTotal counts admin verification attempts.
var DoctorVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "doctor_verifications_total",
		Help:      "Total number of doctor verification attempts, by result.",
	},
	[]string{"result"},
)

// NotificationsTotal counts outbound messages.
// Label:
//   - result: "success" or "failure"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notification deliveries, by result.",
	},
	[]string{"result"},
)

// NotificationDuration measures one delivery attempt.
var NotificationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of a single notification delivery attempt.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Authentication ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Patients ─────────────────────────────────────────────────────────────────

// PatientsRegisteredTotal counts successfully registered patients.
var PatientsRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "patients_registered_total",
		Help:      "Total number of patients registered.",
	},
)

// PatientUpdatesTotal counts successful patient updates.
// Label:
//   - mode: "full" or "categories"
var PatientUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "patient_updates_total",
		Help:      "Total number of patient updates, by mode.",
	},
	[]string{"mode"},
)

// Result maps an error to a result label value.
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
