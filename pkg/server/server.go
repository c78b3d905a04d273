// Package server exposes layout sessions over HTTP.
//
// Every session wraps one engine. Clients push whole figures and drag or
// selection events; each call answers with the layout it produced, so a
// front end only ever renders what the engine published.
//
//	POST   /sessions                              create (optional figure body)
//	DELETE /sessions/{id}                         close
//	PUT    /sessions/{id}/figure                  update
//	GET    /sessions/{id}/layout                  last layout
//	GET    /sessions/{id}/svg                     last layout as SVG
//	POST   /sessions/{id}/nodes/{node}/drag/{phase}
//	POST   /sessions/{id}/select
//	GET    /healthz
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/orthonet/pkg/buildinfo"
	"github.com/matzehuels/orthonet/pkg/config"
	"github.com/matzehuels/orthonet/pkg/engine"
	"github.com/matzehuels/orthonet/pkg/errors"
	"github.com/matzehuels/orthonet/pkg/geom"
	"github.com/matzehuels/orthonet/pkg/graph"
	"github.com/matzehuels/orthonet/pkg/render/sink"
	"github.com/matzehuels/orthonet/pkg/session"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 4 << 20

// Server routes HTTP requests to layout sessions.
type Server struct {
	cfg    config.Config
	store  session.Store
	logger *log.Logger
	router chi.Router
}

// New builds the handler tree.
func New(cfg config.Config, store session.Store, logger *log.Logger) *Server {
	s := &Server{cfg: cfg, store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(s.observe)
	r.Get("/healthz", s.health)
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Delete("/", s.deleteSession)
			r.Put("/figure", s.updateFigure)
			r.Get("/layout", s.getLayout)
			r.Get("/svg", s.getSVG)
			r.Post("/nodes/{node}/drag/{phase}", s.drag)
			r.Post("/select", s.selectNode)
		})
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sweep closes idle sessions every interval until ctx is done.
func (s *Server) Sweep(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n, err := s.store.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
			} else if n > 0 {
				s.logger.Info("expired sessions", "count", n)
			}
		}
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	sess := session.New(engine.New(s.cfg, engine.WithLogger(s.logger)))
	resp := struct {
		ID     string        `json:"id"`
		Layout *graph.Layout `json:"layout,omitempty"`
	}{ID: sess.ID}

	if hasBody(r) {
		fig, err := readFigure(r)
		if err != nil {
			_ = sess.Engine.Close()
			s.fail(w, err)
			return
		}
		if resp.Layout, err = sess.Engine.Update(r.Context(), *fig); err != nil {
			_ = sess.Engine.Close()
			s.fail(w, err)
			return
		}
	}
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.fail(w, err)
		return
	}
	s.logger.Info("session created", "id", sess.ID)
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) updateFigure(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	fig, err := readFigure(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	l, err := sess.Engine.Update(r.Context(), *fig)
	s.respond(w, l, err)
}

func (s *Server) getLayout(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.respond(w, sess.Engine.Layout(), nil)
}

func (s *Server) getSVG(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	l := sess.Engine.Layout()
	if l == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(sink.RenderSVG(l, sink.WithFontSize(s.cfg.Labels.FontSize)))
}

func (s *Server) drag(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var p geom.Point
	if err := decodeJSON(r, &p); err != nil {
		s.fail(w, err)
		return
	}
	id := chi.URLParam(r, "node")
	var (
		l   *graph.Layout
		err error
	)
	switch phase := chi.URLParam(r, "phase"); phase {
	case engine.PhaseStart:
		l, err = sess.Engine.DragStart(r.Context(), id, p)
	case engine.PhaseMove:
		l, err = sess.Engine.DragMove(r.Context(), id, p)
	case engine.PhaseEnd:
		l, err = sess.Engine.DragEnd(r.Context(), id, p)
	default:
		err = errors.New(errors.ErrCodeUnsupported, "unknown drag phase %q", phase)
	}
	s.respond(w, l, err)
}

func (s *Server) selectNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body struct {
		Node string `json:"node"`
	}
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, err)
		return
	}
	l, err := sess.Engine.Select(r.Context(), body.Node)
	s.respond(w, l, err)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) respond(w http.ResponseWriter, l *graph.Layout, err error) {
	if err != nil {
		s.fail(w, err)
		return
	}
	if l == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, map[string]any{
		"error": map[string]string{"code": string(code), "message": errors.UserMessage(err)},
	})
}

func statusFor(err error) int {
	switch {
	case errors.IsInputError(err), errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrCodeNotDragging), errors.Is(err, errors.ErrCodeDragInProgress):
		return http.StatusConflict
	case errors.Is(err, errors.ErrCodeEngineClosed):
		return http.StatusGone
	}
	return http.StatusInternalServerError
}

// hasBody peeks at the request body, so chunked requests without content
// count as empty.
func hasBody(r *http.Request) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return false
	}
	br := bufio.NewReader(r.Body)
	if _, err := br.Peek(1); err != nil {
		return false
	}
	r.Body = struct {
		io.Reader
		io.Closer
	}{br, r.Body}
	return true
}

func readFigure(r *http.Request) (*graph.Figure, error) {
	format := graph.FormatJSON
	if ct := r.Header.Get("Content-Type"); strings.Contains(ct, "yaml") {
		format = graph.FormatYAML
	}
	return graph.ReadFigure(io.LimitReader(r.Body, MaxBodyBytes), format)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
