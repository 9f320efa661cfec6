// Package web is the request-triggered entry point: bearer-authenticated
// booking calls, the WOD crawl trigger and the public WOD read path.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/example/wod-booker/internal/booking"
	"github.com/example/wod-booker/internal/config"
	"github.com/example/wod-booker/internal/gym"
	"github.com/example/wod-booker/internal/history"
	"github.com/example/wod-booker/internal/store"
)

// Booker is the booking state machine entry point.
type Booker interface {
	Execute(ctx context.Context, acct booking.Account, req booking.Request) booking.Result
}

// WodFetcher returns a day's workout text, crawling on cache miss.
type WodFetcher interface {
	Fetch(ctx context.Context, day booking.Date) (string, error)
}

type Server struct {
	Accounts []config.Account
	Machine  Booker
	Wod      WodFetcher
	Store    store.Store
	History  history.Recorder
	Log      *zap.Logger

	// Now is a clock hook for tests.
	Now func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	mux.HandleFunc("/book", s.handleBook)
	mux.HandleFunc("/wod", s.handleWodRead)
	mux.HandleFunc("/wod/crawl", s.handleWodCrawl)

	return mux
}

// authenticate resolves the caller's account from the bearer token. Tokens
// configured as bcrypt hashes ("$2...") are compared with bcrypt, anything
// else in constant time.
func (s *Server) authenticate(r *http.Request) (config.Account, bool) {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || token == "" {
		return config.Account{}, false
	}
	for _, a := range s.Accounts {
		if strings.HasPrefix(a.Token, "$2") {
			if bcrypt.CompareHashAndPassword([]byte(a.Token), []byte(token)) == nil {
				return a, true
			}
			continue
		}
		if subtle.ConstantTimeCompare([]byte(a.Token), []byte(token)) == 1 {
			return a, true
		}
	}
	return config.Account{}, false
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	acct, ok := s.authenticate(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	date, err := parseDate(q.Get("year"), q.Get("month"), q.Get("day"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	slot := q.Get("time")
	if slot == "" {
		http.Error(w, "Missing time (e.g. 18:00-19:00)", http.StatusBadRequest)
		return
	}
	dryRun := q.Get("dry_run") == "true"

	req, err := booking.NewRequest(date, slot, dryRun)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := s.Machine.Execute(r.Context(), booking.Account{
		Name:        acct.Name,
		Credentials: gymCreds(acct),
	}, req)

	if err := s.History.Record(r.Context(), acct.Name, req, res); err != nil {
		s.Log.Warn("record attempt failed", zap.Error(err))
	}

	s.renderResult(w, res)
}

func (s *Server) renderResult(w http.ResponseWriter, res booking.Result) {
	switch res.Outcome {
	case booking.OutcomeAlreadyBooked:
		writeJSON(w, http.StatusOK, map[string]any{"alreadyBooked": true})
	case booking.OutcomeBooked:
		writeJSON(w, http.StatusOK, map[string]any{"ok": "class booked!"})
	case booking.OutcomeSlotNotFound:
		writeJSON(w, http.StatusOK, map[string]any{"ok": "class not found"})
	case booking.OutcomeControlNotFound:
		writeJSON(w, http.StatusOK, map[string]any{"ok": "Sign up button not found"})
	default:
		if res.Err != nil {
			s.Log.Error("booking failed", zap.String("reason", string(res.Reason)), zap.Error(res.Err))
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": string(res.Reason)})
	}
}

// handleWodRead serves today's cached workout as formatted text. Read-only:
// it never triggers a crawl and is deliberately unauthenticated.
func (s *Server) handleWodRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	day := booking.Today(s.now())
	content, err := s.Store.Get(r.Context(), booking.WodKey(day))
	if errors.Is(err, store.ErrNotFound) {
		content = "No WOD found"
	} else if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(strings.ReplaceAll(content, "\n", "<br><br>")))
}

// handleWodCrawl fetches (and caches) today's workout on demand.
func (s *Server) handleWodCrawl(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(r); !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if s.Wod == nil {
		http.Error(w, "no crawl account configured", http.StatusServiceUnavailable)
		return
	}
	content, err := s.Wod.Fetch(r.Context(), booking.Today(s.now()))
	if err != nil {
		s.Log.Error("wod crawl failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "crawl failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "wod": content})
}

func gymCreds(a config.Account) gym.Credentials {
	return gym.Credentials{Email: a.Email, Password: a.Password}
}

func parseDate(year, month, day string) (booking.Date, error) {
	if year == "" || month == "" || day == "" {
		return booking.Date{}, fmt.Errorf("Missing year, month or day")
	}
	y, err1 := strconv.Atoi(year)
	m, err2 := strconv.Atoi(month)
	d, err3 := strconv.Atoi(day)
	if err1 != nil || err2 != nil || err3 != nil {
		return booking.Date{}, fmt.Errorf("Malformed year, month or day")
	}
	return booking.Date{Year: y, Month: m, Day: d}, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Start runs the HTTP server until ctx is cancelled.
func Start(ctx context.Context, addr string, h http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	log.Info("listening", zap.String("addr", addr))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
