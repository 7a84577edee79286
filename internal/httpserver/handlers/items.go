package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nikbrunner/rl/internal/httpserver/deps"
	"github.com/nikbrunner/rl/internal/model"
	"github.com/nikbrunner/rl/internal/search"
	"github.com/nikbrunner/rl/internal/share"
)

// Capture runs a capture from the request payload and returns the new item.
func Capture(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := share.NewRequest(r)
		if err != nil {
			writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}

		item, err := d.Library.Capture(r.Context(), req)
		if err != nil {
			d.Logger.WithError(err).Info("capture rejected")
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, item)
	}
}

type listResponse struct {
	Items []model.Item `json:"items"`
}

// ListItems lists items in ?state= (default inbox, "all" for every state),
// filtered by ?q=.
func ListItems(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		query := strings.TrimSpace(q.Get("q"))
		rawState := strings.TrimSpace(q.Get("state"))

		var (
			items []model.Item
			err   error
		)
		switch rawState {
		case "all":
			items, err = d.Library.AllItems(r.Context())
			items = search.Filter(items, query)
		case "":
			items, err = d.Library.SearchItems(r.Context(), model.StateInbox, query)
		default:
			var st model.State
			st, err = model.ParseState(rawState)
			if err == nil {
				items, err = d.Library.SearchItems(r.Context(), st, query)
			}
		}
		if err != nil {
			writeError(w, err)
			return
		}
		if items == nil {
			items = []model.Item{}
		}
		writeJSON(w, http.StatusOK, listResponse{Items: items})
	}
}

// GetItem returns one item.
func GetItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := d.Library.GetItem(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

type moveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MoveItem moves an item. "from" is optional and defaults to the item's
// current state.
func MoveItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var body moveRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4<<10))
		if err := dec.Decode(&body); err != nil {
			writeError(w, fmt.Errorf("%w: invalid move body: %v", errBadRequest, err))
			return
		}

		to, err := model.ParseState(body.To)
		if err != nil {
			writeError(w, err)
			return
		}

		var item model.Item
		if body.From == "" {
			item, err = d.Library.MoveTo(r.Context(), id, to)
		} else {
			var from model.State
			from, err = model.ParseState(body.From)
			if err == nil {
				item, err = d.Library.MoveItem(r.Context(), id, from, to)
			}
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// DeleteItem deletes an item. Missing items are not an error.
func DeleteItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Library.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// InboxStatus reports Inbox capacity.
func InboxStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := d.Library.InboxStatus(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}
