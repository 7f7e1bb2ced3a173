package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config is the honeypot service configuration, loaded from the
// environment. Every knob has a default so a bare `go run` works.
type Config struct {
	Port   string
	APIKey string

	// Store selection: "memory" (default), "redis", or "mysql".
	StoreBackend string
	RedisURL     string
	MySQLDSN     string
	SessionTTL   time.Duration

	// Detection policy.
	ScamThreshold    float64
	EscalationMargin float64

	// Engagement policy.
	MaxEngagement      int
	HardStop           int
	MinIntelCategories int

	// Final report delivery.
	CallbackURL    string
	CallbackAPIKey string

	// Optional ops alert channel.
	DiscordToken   string
	DiscordChannel string

	// Optional AI reply phrasing.
	AIProvider   string
	AnthropicKey string
	OpenAIKey    string
	AIModel      string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		if def == "" {
			log.Fatalf("missing env %s", key)
		}
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("env %s: %v", key, err)
	}
	return n
}

func getenvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("env %s: %v", key, err)
	}
	return f
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Port:   getenv("PORT", "8000"),
		APIKey: getenv("API_KEY", "your-secret-api-key-here"),

		StoreBackend: getenv("STORE_BACKEND", "memory"),
		RedisURL:     os.Getenv("REDIS_URL"),
		MySQLDSN:     os.Getenv("MYSQL_DSN"),
		SessionTTL:   time.Duration(getenvInt("SESSION_TTL_MINUTES", 240)) * time.Minute,

		ScamThreshold:    getenvFloat("SCAM_THRESHOLD", 0.4),
		EscalationMargin: getenvFloat("ESCALATION_MARGIN", 0.15),

		MaxEngagement:      getenvInt("MAX_ENGAGEMENT", 15),
		HardStop:           getenvInt("HARD_STOP", 20),
		MinIntelCategories: getenvInt("MIN_INTEL_CATEGORIES", 2),

		CallbackURL:    getenv("CALLBACK_URL", "https://hackathon.guvi.in/api/updateHoneyPotFinalResult"),
		CallbackAPIKey: os.Getenv("CALLBACK_API_KEY"),

		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordChannel: os.Getenv("DISCORD_ALERT_CHANNEL"),

		AIProvider:   os.Getenv("AI_PROVIDER"),
		AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:    os.Getenv("OPENAI_API_KEY"),
		AIModel:      os.Getenv("AI_MODEL"),
	}
}
