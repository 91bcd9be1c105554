// Package kernel assembles the HTTP handler: the global middleware stack,
// the metrics endpoint and the application routes.
package kernel

import (
	"net/http"

	"github.com/shashiranjanraj/kirana/pkg/metrics"
	"github.com/shashiranjanraj/kirana/pkg/middleware"
	"github.com/shashiranjanraj/kirana/pkg/reqid"
	"github.com/shashiranjanraj/kirana/pkg/router"
)

// NewHandler builds the root http.Handler. registerRoutes is called with the
// configured router so the composition root can mount controllers without
// the kernel importing them.
func NewHandler(registerRoutes func(*router.Router)) http.Handler {
	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics — outermost for accurate total latency
	//  2. Recovery          — catches panics before they kill the goroutine
	//  3. Request ID        — inject unique ID before anything logs
	//  4. Logger            — logs request_id from context
	//  5. CORS              — set CORS headers
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))

	// Prometheus scrape endpoint — no auth, no rate limit.
	r.Get("/metrics", "metrics", metrics.Handler())

	registerRoutes(r)

	return r.Handler()
}
