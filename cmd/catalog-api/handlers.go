// Copyright The COVIDA Authors.
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/covida/game-catalog-service/internal/domain/model"
	"github.com/covida/game-catalog-service/internal/service"
	"github.com/covida/game-catalog-service/pkg/errors"
)

// handler is the thin JSON glue between HTTP and the service layer.
type handler struct {
	reader service.CatalogReader
	writer service.CatalogWriter
}

func newHandler(reader service.CatalogReader, writer service.CatalogWriter) *handler {
	return &handler{reader: reader, writer: writer}
}

func (h *handler) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /livez", h.livez)
	mux.HandleFunc("GET /readyz", h.readyz)

	mux.HandleFunc("GET /games/top", h.topGames)
	mux.HandleFunc("GET /games/search", h.searchGames)
	mux.HandleFunc("GET /games/{id}", h.gameByID)

	mux.HandleFunc("GET /groups", h.listGroups)
	mux.HandleFunc("POST /groups", h.createGroup)
	mux.HandleFunc("GET /groups/{ref}", h.getGroup)
	mux.HandleFunc("PUT /groups/{ref}", h.updateGroup)
	mux.HandleFunc("DELETE /groups/{ref}", h.deleteGroup)
	mux.HandleFunc("GET /groups/{ref}/games", h.listGroupGames)
	mux.HandleFunc("PUT /groups/{ref}/games", h.addGameToGroup)
	mux.HandleFunc("DELETE /groups/{ref}/games/{id}", h.removeGameFromGroup)

	return mux
}

func (h *handler) livez(w http.ResponseWriter, r *http.Request) {
	writeJSON(r, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) readyz(w http.ResponseWriter, r *http.Request) {
	if err := h.reader.IsReady(r.Context()); err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r, w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *handler) topGames(w http.ResponseWriter, r *http.Request) {
	limit, err := queryLimit(r)
	if err != nil {
		writeError(r, w, err)
		return
	}

	games, err := h.reader.GetTopGames(r.Context(), limit)
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r, w, http.StatusOK, games)
}

func (h *handler) searchGames(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(r, w, errors.NewValidation("query parameter name is required"))
		return
	}

	limit, err := queryLimit(r)
	if err != nil {
		writeError(r, w, err)
		return
	}

	games, err := h.reader.SearchGames(r.Context(), name, limit)
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r, w, http.StatusOK, games)
}

func (h *handler) gameByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(r, w, errors.NewValidation("game id must be an integer"))
		return
	}

	game, err := h.reader.GetGameByID(r.Context(), id)
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r, w, http.StatusOK, game)
}

func (h *handler) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.reader.GetGroups(r.Context())
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r, w, http.StatusOK, groups)
}

type groupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r, w, errors.NewValidation("invalid request body", err))
		return
	}

	name := ""
	if req.Name != nil {
		name = *req.Name
	}
	description := ""
	if req.Description != nil {
		description = *req.Description
	}

	group, err := h.writer.CreateGroup(r.Context(), name, description)
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r, w, http.StatusCreated, group)
}

func (h *handler) getGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.reader.GetGroup(r.Context(), r.PathValue("ref"))
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r, w, http.StatusOK, group)
}

func (h *handler) updateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r, w, errors.NewValidation("invalid request body", err))
		return
	}

	group, err := h.writer.UpdateGroup(r.Context(), r.PathValue("ref"), model.GroupUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r, w, http.StatusOK, group)
}

func (h *handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.writer.DeleteGroup(r.Context(), r.PathValue("ref"))
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(r, w, http.StatusOK, group)
}

func (h *handler) listGroupGames(w http.ResponseWriter, r *http.Request) {
	min, err := queryFloat(r, "min")
	if err != nil {
		writeError(r, w, err)
		return
	}
	max, err := queryFloat(r, "max")
	if err != nil {
		writeError(r, w, err)
		return
	}

	group, games, err := h.reader.ListGroupGames(r.Context(), r.PathValue("ref"), min, max)
	if err != nil {
		writeError(r, w, err)
		return
	}

	writeJSON(r, w, http.StatusOK, map[string]any{
		"group": group.Summary(),
		"games": games,
	})
}

func (h *handler) addGameToGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r, w, errors.NewValidation("invalid request body", err))
		return
	}
	if req.Name == "" {
		writeError(r, w, errors.NewValidation("game name is required"))
		return
	}

	group, detail, err := h.writer.AddGameToGroup(r.Context(), r.PathValue("ref"), req.Name)
	if err != nil {
		writeError(r, w, err)
		return
	}

	writeJSON(r, w, http.StatusOK, map[string]any{
		"group": group,
		"game":  detail,
	})
}

func (h *handler) removeGameFromGroup(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(r, w, errors.NewValidation("game id must be an integer"))
		return
	}

	group, removed, err := h.writer.RemoveGameFromGroup(r.Context(), r.PathValue("ref"), id)
	if err != nil {
		writeError(r, w, err)
		return
	}
	if removed == nil {
		// Group found, game absent
		writeError(r, w, errors.NewNotFound("game is not in the group"))
		return
	}
	writeJSON(r, w, http.StatusOK, group)
}

func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.NewValidation("limit must be an integer")
	}
	return limit, nil
}

func queryFloat(r *http.Request, key string) (*float64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.NewValidation(key + " must be a number")
	}
	return &value, nil
}

func writeJSON(r *http.Request, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy onto HTTP status codes.
func writeError(r *http.Request, w http.ResponseWriter, err error) {
	var (
		notFound    errors.NotFound
		conflict    errors.Conflict
		validation  errors.Validation
		unavailable errors.ServiceUnavailable
	)

	status := http.StatusInternalServerError
	switch {
	case stderrors.As(err, &notFound):
		status = http.StatusNotFound
	case stderrors.As(err, &conflict):
		status = http.StatusConflict
	case stderrors.As(err, &validation):
		status = http.StatusBadRequest
	case stderrors.As(err, &unavailable):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "error", err, "status", status)
	}

	writeJSON(r, w, status, map[string]string{"error": err.Error()})
}
