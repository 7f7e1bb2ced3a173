package webserver

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stake-plus/agentic-honeypot/src/agent"
	"github.com/stake-plus/agentic-honeypot/src/detector"
	"github.com/stake-plus/agentic-honeypot/src/honeypot/config"
	"github.com/stake-plus/agentic-honeypot/src/reporter"
	"github.com/stake-plus/agentic-honeypot/src/session"
)

// New assembles the gin engine with all routes attached.
func New(cfg config.Config, store session.Store, det *detector.Detector, ag *agent.Agent, rep *reporter.Client) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery(), cors.Default())

	h := NewHandler(store, det, ag, rep)
	limiter := NewRateLimiter(60, time.Minute)

	g.GET("/", h.Root)
	g.GET("/health", h.Health)

	api := g.Group("/api", APIKey(cfg.APIKey), RateLimitMiddleware(limiter))
	{
		api.POST("/message", h.ProcessMessage)
		api.GET("/sessions/:id", h.GetSession)
	}

	return g
}
