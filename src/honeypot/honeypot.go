// Agentic Honeypot API: engages scam senders in staged dialogue and ships
// the harvested intelligence to a collection endpoint.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/stake-plus/agentic-honeypot/src/agent"
	"github.com/stake-plus/agentic-honeypot/src/ai"
	"github.com/stake-plus/agentic-honeypot/src/detector"
	"github.com/stake-plus/agentic-honeypot/src/honeypot/config"
	"github.com/stake-plus/agentic-honeypot/src/honeypot/webserver"
	"github.com/stake-plus/agentic-honeypot/src/reporter"
	"github.com/stake-plus/agentic-honeypot/src/session"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	cfg := config.Load()

	store := buildStore(cfg)
	defer store.Close()

	det := detector.New()
	det.Threshold = cfg.ScamThreshold
	det.EscalationMargin = cfg.EscalationMargin

	ag := agent.New()
	ag.MaxEngagement = cfg.MaxEngagement
	ag.HardStop = cfg.HardStop
	ag.MinIntelCategories = cfg.MinIntelCategories
	if client := ai.NewClient(ai.FactoryConfig{
		Provider:  cfg.AIProvider,
		ClaudeKey: cfg.AnthropicKey,
		OpenAIKey: cfg.OpenAIKey,
		Model:     cfg.AIModel,
	}); client != nil {
		log.Printf("ai reply phrasing enabled via %s", cfg.AIProvider)
		ag.AI = client
	}

	rep := reporter.New(cfg.CallbackURL, cfg.CallbackAPIKey)
	if cfg.DiscordToken != "" && cfg.DiscordChannel != "" {
		alerter, err := reporter.NewAlerter(cfg.DiscordToken, cfg.DiscordChannel)
		if err != nil {
			log.Printf("discord alerter disabled: %v", err)
		} else {
			defer alerter.Close()
			rep = rep.WithAlerter(alerter)
		}
	}

	router := webserver.New(cfg, store, det, ag, rep)

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Agentic Honeypot API listening on port %s (store: %s)", cfg.Port, cfg.StoreBackend)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutCtx)
}

func buildStore(cfg config.Config) session.Store {
	switch cfg.StoreBackend {
	case "redis":
		if cfg.RedisURL == "" {
			log.Fatalf("STORE_BACKEND=redis requires REDIS_URL")
		}
		return session.MustRedisStore(cfg.RedisURL, cfg.SessionTTL)
	case "mysql":
		if cfg.MySQLDSN == "" {
			log.Fatalf("STORE_BACKEND=mysql requires MYSQL_DSN")
		}
		return session.MustMySQLStore(cfg.MySQLDSN)
	case "memory":
		return session.NewMemoryStore(cfg.SessionTTL)
	default:
		log.Fatalf("unknown STORE_BACKEND %q", cfg.StoreBackend)
		return nil
	}
}
