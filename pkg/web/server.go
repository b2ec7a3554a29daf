package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	theme "github.com/goliatone/go-theme"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goliatone/go-stepform/pkg/catalog"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/renderers/vanilla"
	"github.com/goliatone/go-stepform/pkg/rules"
	"github.com/goliatone/go-stepform/pkg/session"
)

const (
	// CookieName carries the session id.
	CookieName = "stepform_session"
	// AssetsPath serves the bundled stylesheet.
	AssetsPath = "/assets"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request logs and session events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderer replaces the default vanilla HTML renderer.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithRegistry registers metrics on reg and serves it on /metrics. Defaults
// to a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithTheme passes theme tokens and an asset resolver to the renderer.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithSessionTTL sets how long idle sessions are kept.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.ttl = ttl
	}
}

// WithPostcodeRange overrides the catalog's postcode range for every session.
func WithPostcodeRange(r rules.PostcodeRange) Option {
	return func(s *Server) {
		s.postcode = &r
	}
}

// Server serves one catalog to many visitors.
type Server struct {
	catalog  catalog.Catalog
	postcode *rules.PostcodeRange
	renderer render.Renderer
	theme    *theme.RendererConfig
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *Metrics
	ttl      time.Duration
	store    *Store
}

// New validates cat and builds a server for it.
func New(cat catalog.Catalog, opts ...Option) (*Server, error) {
	if err := catalog.Validate(cat); err != nil {
		return nil, fmt.Errorf("web: %w", err)
	}

	s := &Server{
		catalog: cat.Clone(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.renderer == nil {
		renderer, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("web: %w", err)
		}
		s.renderer = renderer
	}
	if s.theme == nil {
		s.theme = &theme.RendererConfig{AssetURL: func(key string) string {
			return AssetsPath + "/" + key
		}}
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = NewMetrics(s.registry)
	s.store = NewStore(s.ttl)

	return s, nil
}

// Store exposes the session store.
func (s *Server) Store() *Store {
	return s.store
}

// Handler builds the gin engine with every route mounted.
func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(ginzap.Ginzap(s.logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(s.logger, true))

	router.GET("/", s.handleIndex)
	router.POST("/next", s.handleNavigate(session.EventNext))
	router.POST("/back", s.handleNavigate(session.EventBack))
	router.POST("/reset", s.handleReset)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	router.StaticFS(AssetsPath, http.FS(vanilla.AssetsFS()))

	return router
}

func (s *Server) newSession() (*session.Session, error) {
	opts := []session.Option{session.WithLogger(s.logger)}
	if s.postcode != nil {
		opts = append(opts, session.WithPostcodeRange(*s.postcode))
	}
	return session.New(s.catalog, opts...)
}

// lookup returns the visitor's entry, creating a session when there is none.
// The cookie is written on every call so its lifetime slides with the store
// TTL.
func (s *Server) lookup(c *gin.Context) (*entry, error) {
	if id, err := c.Cookie(CookieName); err == nil {
		if e, ok := s.store.get(id); ok {
			s.setCookie(c, id)
			return e, nil
		}
	}

	sess, err := s.newSession()
	if err != nil {
		return nil, err
	}
	id := s.store.Add(sess)
	s.metrics.sessions.Inc()
	s.logger.Debug("session started", zap.String("session", id))
	s.setCookie(c, id)

	e, _ := s.store.get(id)
	return e, nil
}

func (s *Server) setCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, id, int(s.store.ttl.Seconds()), "/", "", false, true)
}

func (s *Server) handleIndex(c *gin.Context) {
	e, err := s.lookup(c)
	if err != nil {
		s.fail(c, err)
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	s.respond(c, http.StatusOK, e.session)
}

func (s *Server) handleNavigate(event string) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, err := s.lookup(c)
		if err != nil {
			s.fail(c, err)
			return
		}
		e.mu.Lock()
		defer e.mu.Unlock()

		sess := e.session
		if sess.IsSubmitted() {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}

		// values of the active step only; anything else is ignored
		for _, field := range sess.ActiveStep().Fields {
			sess.FieldChanged(field.Name, c.PostForm(field.Name))
		}

		res, err := s.navigate(c.Request.Context(), sess, event)
		if err != nil {
			if errors.Is(err, session.ErrSubmitted) {
				c.Redirect(http.StatusSeeOther, "/")
				return
			}
			s.fail(c, err)
			return
		}

		s.metrics.navigations.WithLabelValues(event, res.String()).Inc()
		switch res {
		case session.Blocked:
			for _, field := range sess.Ledger().Fields() {
				if len(sess.Errors(field)) > 0 {
					s.metrics.fieldErrors.WithLabelValues(field).Inc()
				}
			}
			s.respond(c, http.StatusUnprocessableEntity, sess)
		case session.Submitted:
			s.metrics.submissions.Inc()
			c.Redirect(http.StatusSeeOther, "/")
		default:
			c.Redirect(http.StatusSeeOther, "/")
		}
	}
}

func (s *Server) navigate(ctx context.Context, sess *session.Session, event string) (session.Result, error) {
	if event == session.EventBack {
		return sess.Retreat(ctx)
	}
	return sess.Advance(ctx)
}

func (s *Server) handleReset(c *gin.Context) {
	if id, err := c.Cookie(CookieName); err == nil {
		s.store.Delete(id)
	}
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) respond(c *gin.Context, status int, sess *session.Session) {
	out, err := s.renderer.Render(c.Request.Context(), render.NewView(sess), render.RenderOptions{
		Theme: s.theme,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Data(status, s.renderer.ContentType(), out)
}

func (s *Server) fail(c *gin.Context, err error) {
	s.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.String(http.StatusInternalServerError, "internal error")
}
