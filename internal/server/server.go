package server

import (
	"log"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/thedev09/fintrack/internal/store"
)

type Server struct {
	store    *store.Store
	router   chi.Router
	addr     string
	rate     decimal.Decimal
	pageSize int
	events   *eventHub
}

// Options carries the injected configuration the handlers need.
type Options struct {
	Addr     string
	USDToINR decimal.Decimal
	PageSize int
}

func New(st *store.Store, opts Options) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}

	s := &Server{
		store:    st,
		router:   r,
		addr:     opts.Addr,
		rate:     opts.USDToINR,
		pageSize: opts.PageSize,
		events:   newEventHub(),
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Accounts
		r.Post("/accounts", s.createAccount)
		r.Get("/accounts", s.listAccounts)
		r.Get("/accounts/{id}", s.getAccount)
		r.Patch("/accounts/{id}", s.updateAccount)
		r.Delete("/accounts/{id}", s.deleteAccount)

		// Transactions (apply / edit / reverse)
		r.Post("/transactions", s.applyTransaction)
		r.Get("/transactions", s.listTransactions)
		r.Get("/transactions/{id}", s.getTransaction)
		r.Patch("/transactions/{id}", s.editTransaction)
		r.Delete("/transactions/{id}", s.reverseTransaction)

		// Subscriptions
		r.Post("/subscriptions", s.createSubscription)
		r.Get("/subscriptions", s.listSubscriptions)
		r.Get("/subscriptions/{id}", s.getSubscription)
		r.Patch("/subscriptions/{id}", s.updateSubscription)
		r.Delete("/subscriptions/{id}", s.deleteSubscription)
		r.Post("/subscriptions/process", s.processSubscriptions)

		// Reports
		r.Get("/reports/summary", s.reportSummary)
		r.Get("/reports/categories", s.reportCategories)
		r.Get("/reports/networth", s.reportNetWorth)

		// Fixed pick-lists for entry forms
		r.Get("/catalog", s.catalog)

		// Net-worth snapshot feed
		r.Put("/snapshots/{day}", s.upsertSnapshot)
		r.Get("/snapshots", s.listSnapshots)

		// Change feed for connected sessions
		r.Get("/events", s.handleEvents)
	})

	return s
}

func (s *Server) ListenAndServe() error {
	log.Printf("fintrack server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) Serve(ln net.Listener) error {
	log.Printf("fintrack server listening on %s", ln.Addr())
	return http.Serve(ln, s.router)
}

func (s *Server) Handler() http.Handler {
	return s.router
}
