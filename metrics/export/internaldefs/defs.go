// Package internaldefs holds the metric name table shared by the exporter
// packages. It exists so the Prometheus and OTel exporters emit identical
// names without either importing the other.
package internaldefs

import (
	"github.com/cmridge/authcore"
)

// CounterDef binds an engine counter to its exported name.
type CounterDef struct {
	ID   authcore.MetricID
	Name string
	Help string
}

var CounterDefs = []CounterDef{
	{ID: authcore.MetricSignUpSuccess, Name: "authcore_sign_up_success_total", Help: "Created accounts."},
	{ID: authcore.MetricSignUpDuplicate, Name: "authcore_sign_up_duplicate_total", Help: "Sign-ups rejected on an email collision."},
	{ID: authcore.MetricSignUpFailure, Name: "authcore_sign_up_failure_total", Help: "All other sign-up failures."},
	{ID: authcore.MetricSignInSuccess, Name: "authcore_sign_in_success_total", Help: "Token pairs issued from sign-in."},
	{ID: authcore.MetricSignInFailure, Name: "authcore_sign_in_failure_total", Help: "Rejected sign-ins."},
	{ID: authcore.MetricRefreshSuccess, Name: "authcore_refresh_success_total", Help: "Rotated token pairs."},
	{ID: authcore.MetricRefreshFailure, Name: "authcore_refresh_failure_total", Help: "Rejected refresh attempts."},
	{ID: authcore.MetricRefreshSuperseded, Name: "authcore_refresh_superseded_total", Help: "Refresh attempts with a superseded session identifier."},
	{ID: authcore.MetricSessionInserted, Name: "authcore_session_inserted_total", Help: "Refresh session records written."},
	{ID: authcore.MetricSessionInvalidated, Name: "authcore_session_invalidated_total", Help: "Explicit logouts."},
}

// AuditDroppedName is the counter exposing dispatcher backpressure drops.
const AuditDroppedName = "authcore_audit_dropped_total"

// AuditDroppedHelp documents the drop counter.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."
