package mux

import (
	"context"
	"net/http"

	gmux "github.com/gorilla/mux"

	"toes-server/pkg/history"
	"toes-server/pkg/room"
)

type ctxKey int

const (
	ctxDealerKey ctxKey = iota
)

// HistoryStore reads the recorded audit trail of a table
type HistoryStore interface {
	ShufflesByTable(ctx context.Context, tableID string) ([]*history.ShuffleRecord, error)
	ResultByTable(ctx context.Context, tableID string) (*history.MatchResult, error)
}

// Options configures the mux
type Options struct {
	Version string
	PitBoss *room.PitBoss

	// History may be nil, which disables the history endpoint
	History HistoryStore

	// DefaultAnte is used when a new table does not name an ante
	DefaultAnte int
}

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	config  config
	version string
	pitBoss *room.PitBoss
	history HistoryStore
}

type config struct {
	defaultAnte int
}

// NewMux returns a new HTTP mux
func NewMux(opts Options) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: opts.Version,
		pitBoss: opts.PitBoss,
		history: opts.History,
		config: config{
			defaultAnte: opts.DefaultAnte,
		},
	}

	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodPost).Path("/verify").Handler(this.postVerify())
		r.Methods(http.MethodGet).Path("/table").Handler(this.getTable())
		r.Methods(http.MethodPost).Path("/table").Handler(this.postTable())
	}

	{
		tr := this.Router.PathPrefix("/table/{id}").Subrouter()
		tr.Use(this.tableMiddleware)

		tr.Methods(http.MethodGet).Path("").Handler(this.getTableID())
		tr.Methods(http.MethodDelete).Path("").Handler(this.deleteTableID())
		tr.Methods(http.MethodPost).Path("/move").Handler(this.postTableIDMove())
		tr.Methods(http.MethodGet).Path("/legal").Handler(this.getTableIDLegal())
		tr.Methods(http.MethodGet).Path("/log").Handler(this.getTableIDLog())
		tr.Methods(http.MethodGet).Path("/history").Handler(this.getTableIDHistory())
		tr.Methods(http.MethodGet).Path("/ws").Handler(this.getTableIDWS())
	}

	return this
}

func (m *Mux) tableMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := gmux.Vars(r)["id"]
		dealer, found := m.pitBoss.Dealer(id)
		if !found {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxDealerKey, dealer)

		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func dealerFromContext(r *http.Request) *room.Dealer {
	return r.Context().Value(ctxDealerKey).(*room.Dealer)
}
