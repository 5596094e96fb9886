package application

import "expvar"

// Counters published on /debug/vars.
var (
	registrationsTotal = expvar.NewInt("registrations_total")
	loginsTotal        = expvar.NewInt("logins_total")
	loginFailuresTotal = expvar.NewInt("login_failures_total")
	postsTotal         = expvar.NewInt("posts_total")
	likesTotal         = expvar.NewInt("likes_total")
	commentsTotal      = expvar.NewInt("comments_total")
)
