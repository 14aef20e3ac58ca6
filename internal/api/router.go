// Package api exposes the services as a JSON REST API under /api.
package api

import (
	"net/http"

	"github.com/harsh-0015/freelance-tracker/internal/middleware"
	"github.com/harsh-0015/freelance-tracker/internal/service"
)

// Options configure NewRouter. Zero values are valid.
type Options struct {
	// Metrics, when set, instruments every route and serves /metrics.
	Metrics *middleware.Metrics

	// StorageConnected reports the storage state for /healthz. Nil means
	// always connected.
	StorageConnected func() bool

	// APIMiddleware wraps the /api routes only, e.g. authentication.
	APIMiddleware []func(http.Handler) http.Handler
}

type route struct {
	pattern string
	handler http.HandlerFunc
}

// NewRouter registers every route on a new ServeMux.
func NewRouter(svc Services, opts Options) http.Handler {
	h := &handlers{svc: svc, connected: opts.StorageConnected}
	mux := http.NewServeMux()

	apiRoutes := []route{
		{"POST /api/time-entries", h.createTimeEntry},
		{"GET /api/time-entries", h.listTimeEntries},
		{"GET /api/time-entries/{id}", h.getTimeEntry},
		{"PUT /api/time-entries/{id}", h.updateTimeEntry},
		{"DELETE /api/time-entries/{id}", h.deleteTimeEntry},

		{"POST /api/invoices", h.createInvoice},
		{"GET /api/invoices", h.listInvoices},
		{"GET /api/invoices/top-clients", h.topClients},
		{"GET /api/invoices/{id}", h.getInvoice},
		{"DELETE /api/invoices/{id}", h.deleteInvoice},

		{"POST /api/clients", h.createClient},
		{"GET /api/clients", h.listClients},
		{"GET /api/clients/{id}", h.getClient},
		{"DELETE /api/clients/{id}", h.deleteClient},

		{"GET /api/dashboard", h.dashboard},
	}
	for _, rt := range apiRoutes {
		handler := scopeToFreelancer(rt.handler)
		for i := len(opts.APIMiddleware) - 1; i >= 0; i-- {
			handler = opts.APIMiddleware[i](handler)
		}
		mux.Handle(rt.pattern, instrument(opts.Metrics, rt.pattern, handler))
	}

	mux.Handle("GET /{$}", instrument(opts.Metrics, "GET /", http.HandlerFunc(h.root)))
	mux.Handle("GET /healthz", instrument(opts.Metrics, "GET /healthz", http.HandlerFunc(h.health)))
	if opts.Metrics != nil {
		mux.Handle("GET /metrics", opts.Metrics.Handler())
	}

	// No catch-all pattern: the mux answers 405 with an Allow header for a
	// known path with the wrong method, and 404 otherwise.
	return mux
}

// scopeToFreelancer limits the services to the authenticated freelancer's
// records, when a token has been verified.
func scopeToFreelancer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := middleware.GetFreelancerID(r.Context()); id != "" {
			r = r.WithContext(service.WithFreelancer(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func instrument(m *middleware.Metrics, route string, next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return m.Instrument(route, next)
}
