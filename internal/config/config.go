package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/GregMSThompson/goalaura-backend/internal/dto"
)

type Config struct {
	ProjectID string
	Region    string
	LogLevel  string
	Port      string

	// Vertex AI
	VertexModel string
	AITimeout   time.Duration

	// Peer tokens
	KMSKeyName string

	// Plaid
	PlaidClientID     string
	PlaidSecret       string
	PlaidEnvironment  dto.PlaidEnvironment
	PlaidCountryCodes []string

	// Roadmap feasibility bands, as percent of monthly income
	AchievableBelow  float64
	ChallengingUpTo  float64
	RealismThreshold float64

	// Peer matching
	PeerLimit         int
	PeerMinSimilarity float64
}

func New() *Config {
	// .env is optional; Cloud Run injects the environment directly
	_ = godotenv.Load()

	return &Config{
		ProjectID: os.Getenv("PROJECTID"),
		Region:    getEnv("REGION", "asia-south1"),
		LogLevel:  getEnv("LOGLEVEL", "info"),
		Port:      getEnv("PORT", "8080"),

		VertexModel: getEnv("VERTEXMODEL", "gemini-2.0-flash"),
		AITimeout:   getEnvDuration("AITIMEOUT", 60*time.Second),

		KMSKeyName: os.Getenv("KMSKEYNAME"),

		PlaidClientID:     os.Getenv("PLAIDCLIENTID"),
		PlaidSecret:       os.Getenv("PLAIDSECRET"),
		PlaidEnvironment:  getPlaidEnvironment(os.Getenv("PLAIDENVIRONMENT")),
		PlaidCountryCodes: getEnvList("PLAIDCOUNTRYCODES", []string{"US"}),

		AchievableBelow:  getEnvFloat("ACHIEVABLEBELOW", 30),
		ChallengingUpTo:  getEnvFloat("CHALLENGINGUPTO", 50),
		RealismThreshold: getEnvFloat("REALISMTHRESHOLD", 50),

		PeerLimit:         getEnvInt("PEERLIMIT", 3),
		PeerMinSimilarity: getEnvFloat("PEERMINSIMILARITY", 20),
	}
}

// Validate reports every problem at once so a misconfigured deploy fails
// with the full list.
func (c *Config) Validate() error {
	var problems []string

	required := map[string]string{
		"PROJECTID":     c.ProjectID,
		"KMSKEYNAME":    c.KMSKeyName,
		"PLAIDCLIENTID": c.PlaidClientID,
		"PLAIDSECRET":   c.PlaidSecret,
	}
	for _, key := range []string{"PROJECTID", "KMSKEYNAME", "PLAIDCLIENTID", "PLAIDSECRET"} {
		if strings.TrimSpace(required[key]) == "" {
			problems = append(problems, fmt.Sprintf("%s is required", key))
		}
	}

	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid PORT %q", c.Port))
	}
	if c.AITimeout <= 0 {
		problems = append(problems, "AITIMEOUT must be positive")
	}
	if c.AchievableBelow <= 0 || c.ChallengingUpTo < c.AchievableBelow {
		problems = append(problems, fmt.Sprintf("feasibility bands must satisfy 0 < ACHIEVABLEBELOW (%v) <= CHALLENGINGUPTO (%v)", c.AchievableBelow, c.ChallengingUpTo))
	}
	if c.RealismThreshold <= 0 || c.RealismThreshold > 100 {
		problems = append(problems, fmt.Sprintf("REALISMTHRESHOLD %v must be in (0, 100]", c.RealismThreshold))
	}
	if c.PeerLimit < 1 {
		problems = append(problems, "PEERLIMIT must be at least 1")
	}
	if c.PeerMinSimilarity < 0 || c.PeerMinSimilarity >= 100 {
		problems = append(problems, "PEERMINSIMILARITY must be in [0, 100)")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func getPlaidEnvironment(env string) dto.PlaidEnvironment {
	switch env {
	case "sandbox":
		return dto.PlaidSandbox
	case "development":
		return dto.PlaidDevelopment
	default: // "production"
		return dto.PlaidProduction
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
