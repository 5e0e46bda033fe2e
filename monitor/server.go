package monitor

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Server exposes the store over http while experiments run
type Server struct {
	Addr   string
	ctx    context.Context
	store  *Store
	server *http.Server
	logger log.Logger
}

func NewServer(ctx context.Context, addr string, store *Store, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	s := &Server{
		Addr:   addr,
		ctx:    ctx,
		store:  store,
		logger: logger,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/status", s.handleStatus)
	r.GET("/trials", s.handleTrials)
	r.GET("/ratings", s.handleRatings)
	r.GET("/table", s.handleTable)
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// Handler serving the monitor routes
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"runs": s.store.Status()})
}

// run identification from the query, defaulting to run 0
func runQuery(c *gin.Context) (string, int, bool) {
	experiment := c.Query("experiment")
	if experiment == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing experiment"})
		return "", 0, false
	}
	run, err := strconv.Atoi(c.DefaultQuery("run", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run"})
		return "", 0, false
	}
	return experiment, run, true
}

func (s *Server) handleTrials(c *gin.Context) {
	experiment, run, ok := runQuery(c)
	if !ok {
		return
	}
	var testing *bool
	if t, ok := c.GetQuery("testing"); ok {
		b, err := strconv.ParseBool(t)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid testing flag"})
			return
		}
		testing = &b
	}
	trials, ok := s.store.Trials(experiment, run, testing)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown run"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"trials": trials})
}

func (s *Server) handleRatings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ratings": s.store.Ratings()})
}

func (s *Server) handleTable(c *gin.Context) {
	experiment, run, ok := runQuery(c)
	if !ok {
		return
	}
	table, ok := s.store.Table(experiment, run)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no table published"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"table": table})
}

// Start serving until the context is cancelled
func (s *Server) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			level.Error(s.logger).Log("msg", "monitor stopped", "addr", s.Addr, "err", err)
		}
	}()

	go func() {
		<-s.ctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.server.Shutdown(ctx)
	}()
	level.Info(s.logger).Log("msg", "monitor listening", "addr", s.Addr)
}
