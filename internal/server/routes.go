package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Query (RAG question answering)
	mux.HandleFunc("/api/query", s.app.QueryHandler.QueryHandler)

	// API routes - Course catalog
	mux.HandleFunc("/api/courses", s.app.CourseHandler.CourseStatsHandler)

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// Everything else is a 404
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}
