package handlers

import (
	"fmt"
	"log/slog"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/preston-bernstein/football-scoreboard/internal/app/scoreboard"
	"github.com/preston-bernstein/football-scoreboard/internal/domain/games"
	"github.com/preston-bernstein/football-scoreboard/internal/logging"
)

const gamesPrefix = "/games/"

// Handler wires HTTP routes to the scoreboard.
type Handler struct {
	board   *scoreboard.Scoreboard
	logger  *slog.Logger
	newGame func(homeTeam, awayTeam string) (*games.Game, error)
}

// NewHandler constructs a Handler with defaults.
func NewHandler(board *scoreboard.Scoreboard, logger *slog.Logger) *Handler {
	return &Handler{
		board:  board,
		logger: logger,
		newGame: func(homeTeam, awayTeam string) (*games.Game, error) {
			return games.New(homeTeam, awayTeam)
		},
	}
}

type startRequest struct {
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
}

// Pointers distinguish a missing score from zero.
type scoreRequest struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// SummaryResponse is the payload returned by GET /games.
type SummaryResponse struct {
	Count int          `json:"count"`
	Games []games.View `json:"games"`
}

// Register mounts every route on mux.
func (h *Handler) Register(mux *nethttp.ServeMux) {
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/ready", h.Ready)
	mux.HandleFunc("/games", h.Games)
	mux.HandleFunc(gamesPrefix, h.Game)
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		methodNotAllowed(w, r, h.logger, nethttp.MethodGet)
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodGet {
		methodNotAllowed(w, r, h.logger, nethttp.MethodGet)
		return
	}
	if h.board == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "scoreboard not configured", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"status": "ready", "activeGames": h.board.Len()}, h.logger)
}

// Games serves the ranked summary (GET) and starts new games (POST).
func (h *Handler) Games(w nethttp.ResponseWriter, r *nethttp.Request) {
	switch r.Method {
	case nethttp.MethodGet:
		h.summary(w, r)
	case nethttp.MethodPost:
		h.startGame(w, r)
	default:
		methodNotAllowed(w, r, h.logger, nethttp.MethodGet, nethttp.MethodPost)
	}
}

// Game serves /games/{id} (GET, DELETE) and /games/{id}/score (PUT).
// {id} is the path-escaped game identity.
func (h *Handler) Game(w nethttp.ResponseWriter, r *nethttp.Request) {
	id, sub, err := parseGamePath(r.URL)
	if err != nil {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), h.logger)
		return
	}

	switch sub {
	case "":
		switch r.Method {
		case nethttp.MethodGet:
			h.gameByID(w, r, id)
		case nethttp.MethodDelete:
			h.finishGame(w, r, id)
		default:
			methodNotAllowed(w, r, h.logger, nethttp.MethodGet, nethttp.MethodDelete)
		}
	case "score":
		if r.Method != nethttp.MethodPut {
			methodNotAllowed(w, r, h.logger, nethttp.MethodPut)
			return
		}
		h.updateScore(w, r, id)
	default:
		writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
	}
}

func (h *Handler) summary(w nethttp.ResponseWriter, r *nethttp.Request) {
	list, err := h.board.Summary()
	if err != nil {
		logging.Error(loggerFromContext(r, h.logger), "summary failed", err)
		writeError(w, r, nethttp.StatusInternalServerError, "ranking failed", h.logger)
		return
	}
	views := games.Views(list)
	logging.Debug(loggerFromContext(r, h.logger), "served summary", logging.FieldCount, len(views))
	writeJSON(w, nethttp.StatusOK, SummaryResponse{Count: len(views), Games: views}, h.logger)
}

func (h *Handler) startGame(w nethttp.ResponseWriter, r *nethttp.Request) {
	var req startRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), h.logger)
		return
	}
	game, err := h.newGame(req.HomeTeam, req.AwayTeam)
	if err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	if err := h.board.StartGame(game); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	w.Header().Set("Location", gamesPrefix+url.PathEscape(game.ID()))
	writeJSON(w, nethttp.StatusCreated, game.View(), h.logger)
}

func (h *Handler) gameByID(w nethttp.ResponseWriter, r *nethttp.Request, id string) {
	game, ok := h.board.GameByID(id)
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, "game not found", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, game.View(), h.logger)
}

func (h *Handler) finishGame(w nethttp.ResponseWriter, r *nethttp.Request, id string) {
	game, ok := h.board.GameByID(id)
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, "game not found", h.logger)
		return
	}
	if err := h.board.FinishGame(game); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(nethttp.StatusNoContent)
}

func (h *Handler) updateScore(w nethttp.ResponseWriter, r *nethttp.Request, id string) {
	var req scoreRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), h.logger)
		return
	}
	if req.Home == nil || req.Away == nil {
		writeError(w, r, nethttp.StatusBadRequest, "home and away scores are required", h.logger)
		return
	}

	game, ok := h.board.GameByID(id)
	if !ok {
		writeError(w, r, nethttp.StatusNotFound, "game not found", h.logger)
		return
	}
	if err := h.board.UpdateScore(game, *req.Home, *req.Away); err != nil {
		writeDomainError(w, r, err, h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, game.View(), h.logger)
}

// parseGamePath splits /games/{id}[/{sub}] using the escaped path so team
// names containing "/" survive when sent as %2F.
func parseGamePath(u *url.URL) (id, sub string, err error) {
	rest := strings.TrimPrefix(u.EscapedPath(), gamesPrefix)
	parts := strings.Split(rest, "/")
	if len(parts) > 2 {
		return "", "", fmt.Errorf("invalid game path")
	}
	id, err = url.PathUnescape(parts[0])
	if err != nil || strings.TrimSpace(id) == "" {
		return "", "", fmt.Errorf("invalid game id")
	}
	if len(parts) == 2 {
		sub = parts[1]
	}
	return id, sub, nil
}

func methodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request, logger *slog.Logger, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", logger)
}
