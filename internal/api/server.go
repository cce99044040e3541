package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"focus-tracker/internal/service"
)

const requestIDHeader = "X-Request-ID"

// Services are the operations exposed over HTTP.
type Services struct {
	Tasks   *service.TaskService
	Tracker *service.TrackerService
	Focus   *service.FocusService
}

// Server is the JSON API of the tracker.
type Server struct {
	svc            Services
	sessionMinutes int
	router         *gin.Engine
	now            func() time.Time
}

// NewServer wires routes. sessionMinutes is used when a session request has no duration.
func NewServer(svc Services, sessionMinutes int) *Server {
	router := gin.New()
	router.Use(requestID(), gin.Logger(), gin.Recovery())

	s := &Server{
		svc:            svc,
		sessionMinutes: sessionMinutes,
		router:         router,
		now:            time.Now,
	}

	api := router.Group("/api")
	{
		api.POST("/tasks", s.handleCreateTask)
		api.GET("/tasks", s.handleListTasks)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PATCH("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/:id/toggle", s.handleToggleTask)

		api.POST("/days/init", s.handleInitDays)
		api.GET("/days", s.handleListDays)
		api.POST("/days/:day/assignments", s.handleAssignTask)
		api.POST("/days/:day/refresh", s.handleRefreshDay)
		api.GET("/days/:day/tasks", s.handleDayTasks)

		api.POST("/sessions", s.handleStartSession)
		api.POST("/sessions/:id/complete", s.handleCompleteSession)
		api.GET("/sessions", s.handleHistory)
		api.GET("/stats", s.handleStats)
	}

	return s
}

// Handler exposes the router, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[info] http api listening on %s", addr)
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
		return srv.Shutdown(shutdownCtx)
	}
}

// requestID keeps an incoming X-Request-ID or assigns a fresh one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}
