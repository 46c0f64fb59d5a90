package server

import "net/http"

func (s *Server) initRoutes() {
	api := s.APIMiddleware()

	register := func(method, route string, h http.HandlerFunc) {
		s.RegisterRouteFunc(method+" "+route, s.metrics.Middleware(route, ChainMiddleware(h, api...)))
	}

	register(http.MethodPost, RouteSessions, s.createSessionHandler)
	register(http.MethodGet, RouteSessions, s.listSessionsHandler)
	register(http.MethodGet, RouteSessionsShared, s.listSharedSessionsHandler)
	register(http.MethodGet, RouteSession, s.getSessionHandler)
	register(http.MethodDelete, RouteSession, s.deleteSessionHandler)

	register(http.MethodPost, RouteSessionShare, s.createShareHandler)
	register(http.MethodGet, RouteSessionShare, s.listSharesHandler)
	register(http.MethodDelete, RouteSessionShare, s.revokeShareHandler)
	register(http.MethodGet, RouteShareToken, s.resolveShareHandler)
	register(http.MethodPost, RouteShareToken, s.joinShareHandler)

	register(http.MethodGet, RouteContent, s.contentHandler)

	register(http.MethodGet, RouteAuthMe, s.authMeHandler)
	register(http.MethodGet, RouteDevLogin, s.devLoginHandler)

	s.RegisterRouteHandler("GET "+RouteMetrics, s.metrics.Handler())
	s.RegisterRouteFunc("GET "+RouteHealthz, s.healthzHandler)
}
