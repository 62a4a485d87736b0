package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/dashviews/dashviews-cli/pkg/models"
	"github.com/dashviews/dashviews-cli/pkg/store"
)

// Repository stores personalizations with compare-and-swap replacement
type Repository interface {
	Load(ctx context.Context, user string) (models.Personalization, error)
	Replace(ctx context.Context, user string, views []models.View, ifMatch string) (string, error)
}

// GroupSource supplies the pipeline groups views are built from
type GroupSource interface {
	PipelineGroups(ctx context.Context) ([]models.PipelineGroup, error)
}

// Server is the filter store HTTP API
type Server struct {
	repo   Repository
	groups GroupSource
	log    logrus.FieldLogger
	hub    *hub
}

// New creates a server. The returned server must be closed to stop its event hub.
func New(repo Repository, groups GroupSource, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		repo:   repo,
		groups: groups,
		log:    log,
		hub:    newHub(log),
	}
}

// Handler returns the routed API
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.log))

	r.Route(models.SelectionPath, func(r chi.Router) {
		r.Get("/", s.handleGetSelection)
		r.Put("/", s.handlePutSelection)
		r.Get("/events", s.handleEvents)
	})
	r.Get(models.GroupsPath, s.handleGroups)

	return r
}

// Subscribers returns the number of connected event listeners
func (s *Server) Subscribers() int {
	return s.hub.count()
}

// Close disconnects every event listener
func (s *Server) Close() {
	s.hub.close()
}

func userFrom(r *http.Request) string {
	if u := strings.TrimSpace(r.Header.Get(models.UserHeader)); u != "" {
		return u
	}
	return models.DefaultUser
}

func etag(hash string) string {
	return `"` + hash + `"`
}

func parseIfMatch(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "W/")
	return strings.Trim(v, `"`)
}

func (s *Server) handleGetSelection(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	p, err := s.repo.Load(r.Context(), user)
	if err != nil {
		renderError(w, "Failed to load pipeline selection", http.StatusInternalServerError)
		FromRequest(r).WithError(err).Errorln("api: cannot load pipeline selection")
		return
	}
	w.Header().Set("ETag", etag(p.ContentHash))
	renderJSON(w, p, http.StatusOK)
}

func (s *Server) handlePutSelection(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	ifMatch := r.Header.Get("If-Match")
	if ifMatch == "" {
		renderError(w, "If-Match header is required", http.StatusPreconditionRequired)
		return
	}

	var in models.SelectionUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		renderError(w, "Request body is not valid JSON", http.StatusBadRequest)
		FromRequest(r).WithError(err).Debugln("api: cannot unmarshal json input")
		return
	}

	views := make([]models.View, 0, len(in.Filters))
	for _, v := range in.Filters {
		v = v.Clone()
		v.Name = models.NormalizeViewName(v.Name)
		views = append(views, v)
	}
	if err := models.ValidateViews(views); err != nil {
		renderError(w, capitalize(err.Error()), http.StatusUnprocessableEntity)
		FromRequest(r).WithError(err).Debugln("api: invalid pipeline selection")
		return
	}

	hash, err := s.repo.Replace(r.Context(), user, views, parseIfMatch(ifMatch))
	if errors.Is(err, store.ErrStale) {
		renderError(w, "The pipeline selection was modified by someone else. Reload and try again.", http.StatusPreconditionFailed)
		FromRequest(r).Debugln("api: stale pipeline selection")
		return
	}
	if err != nil {
		renderError(w, "Failed to save pipeline selection", http.StatusInternalServerError)
		FromRequest(r).WithError(err).Errorln("api: cannot save pipeline selection")
		return
	}

	FromRequest(r).WithField("views", len(views)).Infoln("api: pipeline selection replaced")
	s.hub.publish(models.ChangeEvent{Type: models.ChangeEventType, User: user, ContentHash: hash})

	w.Header().Set("ETag", etag(hash))
	renderJSON(w, models.SelectionSaved{ContentHash: hash}, http.StatusOK)
}

func (s *Server) handleGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.groups.PipelineGroups(r.Context())
	if err != nil {
		renderError(w, "Failed to load pipeline groups", http.StatusInternalServerError)
		FromRequest(r).WithError(err).Errorln("api: cannot load pipeline groups")
		return
	}
	if groups == nil {
		groups = []models.PipelineGroup{}
	}
	renderJSON(w, groups, http.StatusOK)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ListenAndServe runs the API on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errc := make(chan error, 1)
	go func() {
		s.log.WithField("address", addr).Infoln("server: listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.Close()
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.Close()
		return srv.Shutdown(context.Background())
	}
}
