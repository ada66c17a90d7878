package web

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"StockPulse/internal/config"
	"StockPulse/internal/monitor"
)

const sessionCookie = "stockpulse_session"

// Server is the display surface: it serves the board's latest view behind a
// shared-password gate and forwards ticker changes to the refresh loop.
type Server struct {
	cfg   *config.Config
	loop  *monitor.Loop
	board *Board
	log   *logrus.Logger
	reg   *prometheus.Registry

	token string // session cookie value, random per process
}

// NewServer creates the web server.
func NewServer(cfg *config.Config, loop *monitor.Loop, board *Board, log *logrus.Logger, reg *prometheus.Registry) (*Server, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	return &Server{
		cfg:   cfg,
		loop:  loop,
		board: board,
		log:   log,
		reg:   reg,
		token: hex.EncodeToString(raw),
	}, nil
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})))

	r.GET("/login", s.handleLoginPage)
	r.POST("/login", s.handleLogin)

	authed := r.Group("/", s.requireSession())
	authed.GET("", s.handleMonitorPage)
	authed.GET("/api/view", s.handleView)
	authed.POST("/api/ticker", s.handleTicker)

	return r
}

// requireSession gates everything behind the shared password: no valid
// session cookie means a redirect for pages and a 401 for the API.
func (s *Server) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(sessionCookie)
		if err == nil && subtle.ConstantTimeCompare([]byte(cookie), []byte(s.token)) == 1 {
			c.Next()
			return
		}
		if c.GetHeader("Accept") == "application/json" || c.Request.Method != http.MethodGet {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access denied"})
			return
		}
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

func (s *Server) handleLogin(c *gin.Context) {
	password := c.PostForm("password")
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Server.Password)) != 1 {
		s.log.WithField("remote", c.ClientIP()).Warn("access denied")
		c.Data(http.StatusUnauthorized, "text/html; charset=utf-8", loginPage(true))
		return
	}
	c.SetCookie(sessionCookie, s.token, 0, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (s *Server) handleLoginPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", loginPage(false))
}

func (s *Server) handleMonitorPage(c *gin.Context) {
	snap := s.loop.State().Snapshot()
	c.Data(http.StatusOK, "text/html; charset=utf-8", monitorPage(snap.Symbol, s.cfg))
}

func (s *Server) handleView(c *gin.Context) {
	c.JSON(http.StatusOK, s.board.Latest())
}

type tickerRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

func (s *Server) handleTicker(c *gin.Context) {
	var req tickerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}
	symbol, changed := s.loop.SetTicker(req.Symbol)
	c.JSON(http.StatusOK, gin.H{"symbol": symbol, "changed": changed})
}
