// internal/httpserver/server.go
//
// HTTP server wiring for single-player rounds.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/moves", "/help".
//   - Round endpoints: POST /round/new, POST /round/play.
//   - Verification endpoint: POST /verify.
//
// Notes:
//   - Every round gets its own commitment engine; rounds are never shared
//     between requests other than through their ID.
//   - A round is deleted from the store as soon as it is revealed.
//   - CORS is origin‑aware for a single configured client origin.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/rps/internal/commit"
	"github.com/robalobadob/rps/internal/game"
	"github.com/robalobadob/rps/internal/rules"
	"github.com/robalobadob/rps/internal/store"
)

// Options tune a Server.
type Options struct {
	// ClientOrigin is the single origin allowed by CORS.
	ClientOrigin string
	// Source feeds key generation and move selection; crypto/rand when nil.
	// It must be safe for concurrent use if the server is.
	Source io.Reader
}

// Server bundles router, round store, and the active move set.
type Server struct {
	r     *chi.Mux
	store store.Store
	moves rules.MoveSet
	src   io.Reader
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, ms rules.MoveSet, opts Options) *Server {
	s := &Server{r: chi.NewRouter(), store: st, moves: ms, src: opts.Source}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(cors(opts.ClientOrigin))         // single-origin CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"rps-go","endpoints":["/health","/moves","/help","POST /round/new","POST /round/play","POST /verify"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	s.r.Get("/moves", s.handleMoves)
	s.r.Get("/help", s.handleHelp)
	s.r.Post("/round/new", s.handleNewRound)
	s.r.Post("/round/play", s.handlePlay)
	s.r.Post("/verify", s.handleVerify)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, errorRes{Error: "not_found", Path: r.URL.Path})
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables CORS for a single origin; defaults to http://localhost:5173.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type errorRes struct {
	Error string `json:"error"`
	Path  string `json:"path,omitempty"`
}

// writeError sends an encoded JSON error body with the given status.
func writeError(w http.ResponseWriter, status int, body errorRes) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ------------------------------ MOVES --------------------------------------

type movesRes struct {
	Moves []string `json:"moves"`
}

type helpRes struct {
	Moves []string   `json:"moves"`
	Table [][]string `json:"table"` // row = your move, column = computer move
}

func (s *Server) handleMoves(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(movesRes{Moves: s.moves.Labels()})
}

// handleHelp returns the Win/Lose/Draw table from the player's point of view.
func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	table := rules.BuildTable(s.moves)
	out := make([][]string, len(table))
	for i, row := range table {
		out[i] = make([]string, len(row))
		for j, o := range row {
			out[i][j] = o.TableLabel()
		}
	}
	_ = json.NewEncoder(w).Encode(helpRes{Moves: s.moves.Labels(), Table: out})
}

// ------------------------------ ROUND --------------------------------------

type newRoundRes struct {
	RoundID string `json:"roundId"`
	HMAC    string `json:"hmac"`
}

// handleNewRound commits to a computer move and returns only its digest.
func (s *Server) handleNewRound(w http.ResponseWriter, r *http.Request) {
	rd, err := game.New(s.moves, s.src)
	if err != nil {
		log.Error().Err(err).Msg("start round")
		writeError(w, http.StatusInternalServerError, errorRes{Error: "round_failed"})
		return
	}
	if err := s.store.Save(r.Context(), rd); err != nil {
		log.Error().Err(err).Msg("save round")
		writeError(w, http.StatusInternalServerError, errorRes{Error: "save_failed"})
		return
	}
	log.Debug().Str("roundId", rd.ID).Msg("round committed")
	_ = json.NewEncoder(w).Encode(newRoundRes{RoundID: rd.ID, HMAC: rd.HMAC})
}

type playReq struct {
	RoundID string `json:"roundId"`
	Move    string `json:"move"`
}
type playRes struct {
	game.Result
	Text string `json:"result"` // "You win!" | "Computer wins!" | "It's a draw!"
}

// handlePlay decides the player's move, reveals the key, and discards the round.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req playReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorRes{Error: "bad_json"})
		return
	}
	rd, err := s.store.Get(r.Context(), req.RoundID)
	if err != nil {
		writeError(w, http.StatusNotFound, errorRes{Error: "not_found"})
		return
	}
	res, err := rd.Play(req.Move)
	var merr *rules.InvalidMoveError
	switch {
	case errors.As(err, &merr):
		writeError(w, http.StatusBadRequest, errorRes{Error: "invalid_move"})
		return
	case errors.Is(err, game.ErrRoundFinished):
		writeError(w, http.StatusConflict, errorRes{Error: "round_finished"})
		return
	case err != nil:
		log.Error().Err(err).Str("roundId", rd.ID).Msg("play round")
		writeError(w, http.StatusInternalServerError, errorRes{Error: "round_failed"})
		return
	}
	if err := s.store.Delete(r.Context(), rd.ID); err != nil {
		log.Warn().Err(err).Str("roundId", rd.ID).Msg("discard round")
	}
	log.Debug().Str("roundId", rd.ID).Str("outcome", string(res.Outcome)).Msg("round revealed")
	_ = json.NewEncoder(w).Encode(playRes{Result: res, Text: res.Message()})
}

// ------------------------------ VERIFY -------------------------------------

type verifyReq struct {
	Move string `json:"move"`
	Key  string `json:"key"`
	HMAC string `json:"hmac"`
}
type verifyRes struct {
	Valid bool `json:"valid"`
}

// handleVerify recomputes HMAC(key, move) and compares it with the digest.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errorRes{Error: "bad_json"})
		return
	}
	ok, err := commit.VerifyHex(req.Move, req.Key, strings.TrimSpace(req.HMAC))
	if err != nil {
		writeError(w, http.StatusBadRequest, errorRes{Error: "bad_key"})
		return
	}
	_ = json.NewEncoder(w).Encode(verifyRes{Valid: ok})
}
