package server

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/licensetower/pkg/buildinfo"
	apperrors "github.com/matzehuels/licensetower/pkg/errors"
	graphio "github.com/matzehuels/licensetower/pkg/io"
	"github.com/matzehuels/licensetower/pkg/pipeline"
	"github.com/matzehuels/licensetower/pkg/session"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Current(),
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if infos == nil {
		infos = []session.Info{}
	}
	writeJSON(w, http.StatusOK, infos)
}

// handleCreate builds and annotates an uploaded pipdeptree document.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		name = DefaultSessionName
	}
	if err := apperrors.ValidateSessionName(name); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.execute(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	sess := session.New(name, res.Graph)
	if err := s.store.Put(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("session created",
		"id", sess.ID,
		"name", name,
		"nodes", res.Stats.NodeCount,
		"unknown", res.Stats.UnknownCount)

	w.Header().Set("Location", "/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sess.Info())
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Info())
}

// handleReplace rebuilds a session's graph from a new upload.
func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	res, err := s.execute(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.Replace(res.Graph)
	if err := s.store.Put(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Info())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := graphio.WriteJSON(sess.Graph(), &buf); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleLicenses(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"counts": sess.LicenseCounts()})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	blacklist, err := blacklistParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.runner.Analyze(r.Context(), sess.Graph(), blacklist))
}

var contentTypes = map[string]string{
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG: "image/svg+xml",
}

func (s *Server) handleRender(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		blacklist, err := blacklistParam(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		opts := pipeline.RenderOptions{
			Format:          format,
			HideBlacklisted: boolParam(r, "hide_blacklisted"),
			HideDependents:  boolParam(r, "hide_dependents"),
			RootLabel:       s.cfg.RootLabel,
		}
		sess, ok := s.session(w, r)
		if !ok {
			return
		}

		g := sess.Graph()
		res := s.runner.Analyze(r.Context(), g, blacklist)
		out, err := s.runner.Render(r.Context(), g, res, opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", contentTypes[format])
		_, _ = w.Write(out)
	}
}

// execute runs the pipeline over the request body.
func (s *Server) execute(w http.ResponseWriter, r *http.Request) (*pipeline.Result, error) {
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	defer body.Close()
	return s.runner.ExecuteReader(r.Context(), body, s.cfg.Pipeline)
}

// session loads the session named in the URL, writing the error response
// itself when it cannot.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return sess, true
}
