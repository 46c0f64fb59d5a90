package server

const (
	RouteSessions       = "/api/sessions"
	RouteSessionsShared = "/api/sessions/shared"
	RouteSession        = "/api/sessions/{id}"
	RouteSessionShare   = "/api/sessions/{id}/share"
	RouteShareToken     = "/api/s/{token}"
	RouteContent        = "/api/content"
	RouteAuthMe         = "/api/auth/me"
	RouteDevLogin       = "/api/dev/login"
	RouteMetrics        = "/metrics"
	RouteHealthz        = "/healthz"
)
