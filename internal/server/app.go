// Package server hosts the optional status/metrics HTTP surface:
// GET /health and GET /status over an in-flight scheduler's progress.
// Nothing in soam/scheduler depends on this package; a caller wires a
// *Tracker into both the scheduler loop and this app.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kegliz/soamqc/internal/logger"
	"github.com/kegliz/soamqc/internal/server/router"
)

type (
	AppOptions struct {
		Debug   bool
		Version string
		Tracker *Tracker
	}

	app struct {
		logger  *logger.Logger
		router  *router.Router
		tracker *Tracker
		version string
	}
)

// NewApp builds the status server. Tracker may be nil: /status then
// always reports a zero-value, not-yet-started snapshot.
func NewApp(options AppOptions) Server {
	l, r := NewLoggerAndRouter(EngineOptions{Debug: options.Debug})
	tracker := options.Tracker
	if tracker == nil {
		tracker = NewTracker()
	}
	a := &app{logger: l, router: r, tracker: tracker, version: options.Version}
	a.router.SetRoutes(a.routes())
	return a
}

func (a *app) routes() []*router.Route {
	return []*router.Route{
		{Name: "health", Method: http.MethodGet, Pattern: "/health", HandlerFunc: a.healthHandler},
		{Name: "status", Method: http.MethodGet, Pattern: "/status", HandlerFunc: a.statusHandler},
	}
}

func (a *app) Listen(port int, localOnly bool) error {
	a.logger.Info().Int("port", port).Bool("localOnly", localOnly).Str("version", a.version).
		Msg("starting status server")
	return a.router.Start(port, localOnly)
}

func (a *app) Shutdown(ctx context.Context) error {
	return a.router.Shutdown(ctx)
}

func (a *app) healthHandler(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (a *app) statusHandler(c *gin.Context) {
	l, err := a.getLoggerFromContext(c)
	if err != nil {
		return
	}
	l.Debug().Msg("serving status endpoint")
	c.JSON(http.StatusOK, a.tracker.Snapshot())
}

var internalServerErrorMsg = "Internal Server Error - please contact the administrator"

func (a *app) getLoggerFromContext(c *gin.Context) (*logger.Logger, error) {
	if v, ok := c.Get("logger"); ok {
		if l, ok := v.(*logger.Logger); ok {
			return l, nil
		}
	}
	err := errors.New("logger not found in context")
	a.logger.Error().Err(err).Send()
	c.String(http.StatusInternalServerError, internalServerErrorMsg)
	return nil, err
}
