// Package runs serves the run history over HTTP.
package runs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/kilianp07/railplan/core/runlog"
	"github.com/kilianp07/railplan/infra/logger"
)

// Path is where NewMux mounts the handler.
const Path = "/api/runs"

// NewHandler returns an HTTP handler exposing run records via GET.
// Requests must include an Authorization header with "Bearer <token>" when
// token is non-empty. Supported query parameters are start and end
// (RFC3339), network, legal and limit.
func NewHandler(store runlog.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		q, limit, err := parseQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if limit > 0 && len(records) > limit {
			records = records[len(records)-limit:]
		}
		if records == nil {
			records = []runlog.Record{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func parseQuery(r *http.Request) (runlog.Query, int, error) {
	v := r.URL.Query()
	q := runlog.Query{Network: v.Get("network")}
	var err error
	if s := v.Get("start"); s != "" {
		if q.Start, err = time.Parse(time.RFC3339, s); err != nil {
			return q, 0, errors.New("invalid start")
		}
	}
	if s := v.Get("end"); s != "" {
		if q.End, err = time.Parse(time.RFC3339, s); err != nil {
			return q, 0, errors.New("invalid end")
		}
	}
	if s := v.Get("legal"); s != "" {
		if q.LegalOnly, err = strconv.ParseBool(s); err != nil {
			return q, 0, errors.New("invalid legal")
		}
	}
	limit := 0
	if s := v.Get("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil || limit < 0 {
			return q, 0, errors.New("invalid limit")
		}
	}
	return q, limit, nil
}

// NewMux mounts the handler at Path.
func NewMux(store runlog.Store, token string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(Path, NewHandler(store, token))
	return mux
}

// Serve runs the history API on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, store runlog.Store, token string) error {
	srv := &http.Server{Addr: addr, Handler: NewMux(store, token), ReadHeaderTimeout: 5 * time.Second}
	log := logger.New("runs-api")
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorf("runs api shutdown: %v", err)
		}
		cancel()
	}()
	log.Infof("serving run history on %s%s", addr, Path)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
