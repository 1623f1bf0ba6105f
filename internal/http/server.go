package http

import (
	"context"
	"net/http"
	"time"

	"wallet/internal/core"
	"wallet/internal/middleware/trace"
	"wallet/internal/services"
)

// UserDirectory is the user-facing surface the handlers need.
type UserDirectory interface {
	Register(ctx context.Context, email, name, password string) (core.User, error)
	List(ctx context.Context) ([]core.User, error)
	ByEmail(ctx context.Context, email string) (core.User, error)
}

// Ledger is the transaction-facing surface the handlers need.
type Ledger interface {
	Record(ctx context.Context, in services.RecordInput) (core.Transaction, error)
	Select(ctx context.Context, f core.Filter) ([]core.Transaction, error)
	Aggregate(ctx context.Context, f core.Filter) (int64, error)
}

// Pinger reports whether storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	http.Server
	users  UserDirectory
	ledger Ledger
	pinger Pinger
	tracer *trace.Middleware
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, users UserDirectory, ledger Ledger, pinger Pinger) *Server {
	s := &Server{
		users:  users,
		ledger: ledger,
		pinger: pinger,
		tracer: trace.NewMiddleware(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/db", s.handleHealthDB)
	mux.HandleFunc("/api/users", s.handleUsers)
	mux.HandleFunc("/api/users/", s.handleUserByEmail)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/transactions/amount", s.handleTransactionsAmount)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}
