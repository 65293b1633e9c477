package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/levelforge/levelforge/pkg/cache"
	"github.com/levelforge/levelforge/pkg/errors"
	"github.com/levelforge/levelforge/pkg/gen"
	"github.com/levelforge/levelforge/pkg/observability"
	"github.com/levelforge/levelforge/pkg/render/ascii"
	"github.com/levelforge/levelforge/pkg/render/iso"
	"github.com/levelforge/levelforge/pkg/render/roomgraph"
	"github.com/levelforge/levelforge/pkg/store"
)

// generateRequest is the POST /api/levels body: generation parameters plus
// an optional name for the stored record.
type generateRequest struct {
	Name string `json:"name"`
	gen.Params
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req := generateRequest{Params: gen.DefaultParams()}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	// Accept mode aliases the CLI accepts; reject unknown names instead of
	// silently falling back to classic.
	if req.Mode != "" && !gen.ValidModes[req.Mode] {
		mode, ok := gen.ParseMode(string(req.Mode))
		if !ok {
			writeError(w, errors.New(errors.ErrCodeInvalidMode, "invalid mode: %s", req.Mode))
			return
		}
		req.Mode = mode
	}

	if req.Mode == "" {
		req.Mode = gen.ModeClassic
	}

	req.Logger = s.cfg.Logger
	level := gen.Generate(req.Params)

	rec := store.NewRecord(req.Name, string(req.Mode), level)
	if err := s.cfg.Store.Put(r.Context(), rec); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStore, err, "failed to save level"))
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidParams, "invalid limit: %s", q))
			return
		}
		limit = n
	}

	recs, err := s.cfg.Store.List(r.Context(), limit)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStore, err, "failed to list levels"))
		return
	}
	if recs == nil {
		recs = []*store.LevelRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(w, r)
	if err != nil {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateLevelID(id); err != nil {
		writeError(w, err)
		return
	}
	if err := s.cfg.Store.Delete(r.Context(), id); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStore, err, "failed to delete level"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleASCII(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(w, r)
	if err != nil {
		return
	}

	out := ascii.Render(rec.Level)
	if rec.Level.MarbleTiles != nil && r.URL.Query().Get("view") == "marble" {
		out = ascii.RenderMarble(rec.Level)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(out + "\n"))
}

func (s *Server) handleRoomGraph(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(w, r)
	if err != nil {
		return
	}

	detailed := r.URL.Query().Get("detailed") == "true"
	svg, err := s.renderCached(r, rec, cache.RenderKeyOpts{Format: "graph-svg", Detailed: detailed},
		func() ([]byte, error) {
			dot := roomgraph.ToDOT(rec.Level, roomgraph.Options{Detailed: detailed})
			return roomgraph.RenderSVG(dot)
		})
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeRender, err, "failed to render room graph"))
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleIso(w http.ResponseWriter, r *http.Request) {
	rec, err := s.lookup(w, r)
	if err != nil {
		return
	}

	html, err := s.renderCached(r, rec, cache.RenderKeyOpts{Format: "iso-html"},
		func() ([]byte, error) {
			return iso.RenderHTML(rec.Level), nil
		})
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeRender, err, "failed to render isometric view"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(html)
}

// lookup fetches the record for the {id} URL parameter, writing the error
// response itself on failure.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*store.LevelRecord, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateLevelID(id); err != nil {
		writeError(w, err)
		return nil, err
	}

	rec, err := s.cfg.Store.Get(r.Context(), id)
	if err == store.ErrNotFound {
		err = errors.New(errors.ErrCodeLevelNotFound, "level %s not found", id)
		writeError(w, err)
		return nil, err
	}
	if err != nil {
		err = errors.Wrap(errors.ErrCodeStore, err, "failed to load level")
		writeError(w, err)
		return nil, err
	}
	return rec, nil
}

// renderCached wraps artifact rendering with the cache and the render hooks.
func (s *Server) renderCached(r *http.Request, rec *store.LevelRecord, opts cache.RenderKeyOpts, render func() ([]byte, error)) ([]byte, error) {
	ctx := r.Context()
	key := s.keyer.RenderKey(rec.ID, opts)

	if data, hit, err := s.cfg.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, key)
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, key)

	observability.Generator().OnRenderStart(opts.Format)
	start := time.Now()
	data, err := render()
	if err != nil {
		return nil, err
	}
	observability.Generator().OnRenderComplete(opts.Format, len(data), time.Since(start))

	if err := s.cfg.Cache.Set(ctx, key, data, s.cfg.CacheTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}
	return data, nil
}
