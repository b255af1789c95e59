package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/signroom/signroom"
	"github.com/signroom/signroom/audit"
	"github.com/signroom/signroom/engine"
	"github.com/signroom/signroom/log"
	"github.com/signroom/signroom/placement"
	"github.com/signroom/signroom/roster"
	"github.com/signroom/signroom/session"
	"github.com/signroom/signroom/signing"
	"github.com/signroom/signroom/tracker"
)

// Server is the HTTP surface of the signing room. It satisfies the
// RegisterHandler interface the roster transport registers itself on.
type Server struct {
	router *gin.Engine
}

type Config struct {
	Engine      engine.Engine
	Roster      *roster.Service
	Session     *session.Session
	Placement   *placement.Orchestrator
	Tracker     *tracker.Tracker
	Signing     *signing.Controller
	Audit       *audit.Service
	JWTKey      []byte
	Logger      log.Logger
	ReleaseMode bool
}

func NewServer(cfg Config) *Server {
	if cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, PUT, POST, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Accept-Language, Authorization, Content-Type")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
		}
		c.Next()
	})

	// Unknown route
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
	})

	// Ping
	router.GET("/signroom/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, map[string]string{"data": "ok"})
	})

	srv := &Server{router: router}

	sessionHandler := SessionHandler{
		Roster:  cfg.Roster,
		Session: cfg.Session,
		Tracker: cfg.Tracker,
		Audit:   cfg.Audit,
		Logger:  cfg.Logger,
	}
	sessionHandler.RegisterRoutes(router)

	annotationHandler := AnnotationHandler{
		Placement: cfg.Placement,
		Session:   cfg.Session,
		Engine:    cfg.Engine,
		Tracker:   cfg.Tracker,
		Audit:     cfg.Audit,
		Logger:    cfg.Logger,
	}
	annotationHandler.RegisterRoutes(router)

	signingHandler := SigningHandler{
		Signing: cfg.Signing,
		Session: cfg.Session,
		Audit:   cfg.Audit,
		Logger:  cfg.Logger,
	}
	signingHandler.RegisterRoutes(router)

	auditHandler := AuditHandler{Service: cfg.Audit}
	auditHandler.RegisterRoutes(router)

	appendRecord := func(r audit.Record) {
		if _, err := cfg.Audit.Append(r); err != nil {
			cfg.Logger.Errorf("error appending audit record: %v", err)
		}
	}

	roster.RegisterHTTP(srv, cfg.Roster, cfg.JWTKey, func(added signroom.User) {
		appendRecord(audit.NewRecord(audit.KindSigneeAdded, added, added.Email))
	}, func(deleted, next signroom.User) {
		// Only a deletion of the active signee moves the selection.
		if deleted.ID == cfg.Session.SelectedSignee().ID {
			cfg.Session.Retarget(next)
		}
		appendRecord(audit.NewRecord(audit.KindUserDeleted, deleted, deleted.Email))
	})

	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// RegisterHandler mounts a net/http handler on the gin router, exposing
// the path parameters through the request context since the handler
// cannot see gin's.
func (s *Server) RegisterHandler(path, method string, f http.Handler) {
	s.router.Handle(method, path, func(c *gin.Context) {
		params := make(map[string]string, len(c.Params))
		for _, p := range c.Params {
			params[p.Key] = p.Value
		}

		ctx := context.WithValue(c.Request.Context(), "params", params)
		f.ServeHTTP(c.Writer, c.Request.WithContext(ctx))
	})
}
