package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Domenick1991/eventspark/api"
	"github.com/Domenick1991/eventspark/config"
	"github.com/gin-gonic/gin"
)

// Handlers are the route groups the dashboard server exposes. A nil handler
// leaves its group unmounted.
type Handlers struct {
	User          *api.UserHandler
	Organizer     *api.OrganizerHandler
	Admin         *api.AdminHandler
	Notifications *api.NotificationHandler
}

// Run serves the dashboards over HTTP and blocks until ctx is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, handlers Handlers) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: NewRouter(handlers),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("dashboard listening on %s", cfg.HTTP.Address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if handlers.User != nil {
		handlers.User.Register(router.Group("/user"))
	}
	if handlers.Organizer != nil {
		handlers.Organizer.Register(router.Group("/organizer"))
	}
	if handlers.Admin != nil {
		handlers.Admin.Register(router.Group("/admin"))
	}
	if handlers.Notifications != nil {
		handlers.Notifications.Register(router.Group(""))
	}
	return router
}
