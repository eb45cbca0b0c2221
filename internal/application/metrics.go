package application

import "expvar"

// Counters published on /api/debug/vars.
var (
	registrationsTotal = expvar.NewInt("identity_registrations_total")
	loginFailuresTotal = expvar.NewInt("identity_login_failures_total")
	orphansRepaired    = expvar.NewInt("reconciler_orphans_repaired_total")
)
