package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

var (
	MAIN_ROUTES   string
	APP_PORT      string
	JWTSecret     string
	JWTExpiration int

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailTo       string

	// Cron specs for the daily batch chain. Profiles run before the
	// queue, the queue before the DBM review.
	CronProfileRecalc string
	CronDailyQueue    string
	CronDbmReview     string

	CookieSecure   bool
	CookieHTTPOnly bool
	CookieSameSite string

	allowedOrigins map[string]bool
)

// PlanningConfig holds the tunable constants of the buffer engine. The
// adjustment step and approval ceiling are configuration, not invariants.
type PlanningConfig struct {
	TrendThresholdPct      float64 // relative ADC7 vs ADC30 difference for a trend call
	MinDataPoints          int     // below this a profile counts as partial
	SafetyFactorMinPct     float64
	SafetyFactorMaxPct     float64
	AdjustmentStepPct      float64 // DBM proposed change on sustained RED/GREEN
	AutoApprovalCeilingPct float64 // larger changes always require approval
	DefaultThresholdDays   int     // consecutive zone days before an early review
	RecalcCutoffHours      int     // profiles older than this are recomputed
	StaleConsumptionDays   int     // no log within this window flags the queue item
	DefaultRedPct          float64
	DefaultYellowPct       float64
	DefaultGreenPct        float64
	QueueWorkers           int // parallel buffers per generation run
}

var Planning PlanningConfig

// LoadConfig reads .env and initializes the configuration variables
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	MAIN_ROUTES = getEnv("MAIN_ROUTES", "/api/v1")
	APP_PORT = getEnv("APP_PORT", "9000")

	JWTSecret = getEnv("JWT_SECRET", "replenish_dbm_key_secret")
	JWTExpiration = getEnvAsInt("JWT_EXPIRATION", 86400)

	DBDriver = getEnv("DB_DRIVER", "mssql")
	DBHost = getEnv("DB_HOST", "localhost")
	DBPort = getEnv("DB_PORT", "1433")
	DBUser = getEnv("DB_USER", "golang")
	DBPassword = getEnv("DB_PASSWORD", "P@ssw012d!")
	DBName = getEnv("DB_NAME", "replenish_dbm")

	SMTPHost = getEnv("SMTP_HOST", "smtp.office365.com")
	SMTPPort = getEnvAsInt("SMTP_PORT", 587)
	SMTPUser = getEnv("SMTP_USER", "")
	SMTPPassword = getEnv("SMTP_PASSWORD", "")
	MailFrom = getEnv("MAIL_FROM", "noreply@replenish.local")
	MailTo = getEnv("MAIL_TO", "")

	CronProfileRecalc = getEnv("CRON_PROFILE_RECALC", "0 1 * * *")
	CronDailyQueue = getEnv("CRON_DAILY_QUEUE", "0 3 * * *")
	CronDbmReview = getEnv("CRON_DBM_REVIEW", "0 4 * * *")

	CookieSecure = getEnvAsBool("COOKIE_SECURE", true)
	CookieHTTPOnly = getEnvAsBool("COOKIE_HTTPONLY", false)
	CookieSameSite = getEnv("COOKIE_SAMESITE", "None")

	Planning = PlanningConfig{
		TrendThresholdPct:      getEnvAsFloat("PLAN_TREND_THRESHOLD_PCT", 10),
		MinDataPoints:          getEnvAsInt("PLAN_MIN_DATA_POINTS", 7),
		SafetyFactorMinPct:     getEnvAsFloat("PLAN_SAFETY_FACTOR_MIN", 0),
		SafetyFactorMaxPct:     getEnvAsFloat("PLAN_SAFETY_FACTOR_MAX", 100),
		AdjustmentStepPct:      getEnvAsFloat("PLAN_ADJUSTMENT_STEP_PCT", 33),
		AutoApprovalCeilingPct: getEnvAsFloat("PLAN_AUTO_APPROVAL_CEILING_PCT", 20),
		DefaultThresholdDays:   getEnvAsInt("PLAN_ADJUSTMENT_THRESHOLD_DAYS", 5),
		RecalcCutoffHours:      getEnvAsInt("PLAN_RECALC_CUTOFF_HOURS", 24),
		StaleConsumptionDays:   getEnvAsInt("PLAN_STALE_CONSUMPTION_DAYS", 7),
		DefaultRedPct:          getEnvAsFloat("PLAN_DEFAULT_RED_PCT", 33),
		DefaultYellowPct:       getEnvAsFloat("PLAN_DEFAULT_YELLOW_PCT", 33),
		DefaultGreenPct:        getEnvAsFloat("PLAN_DEFAULT_GREEN_PCT", 34),
		QueueWorkers:           getEnvAsInt("PLAN_QUEUE_WORKERS", 8),
	}

	loadAllowedOrigins()
}

// getEnv reads an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat reads an environment variable as float64
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool reads an environment variable as boolean
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// loadAllowedOrigins loads the allowed CORS origins from the environment
func loadAllowedOrigins() {
	allowedOrigins = make(map[string]bool)
	originsStr := getEnv("ALLOWED_ORIGINS", "")

	if originsStr == "" {
		allowedOrigins = map[string]bool{
			"http://127.0.0.1:3000": true,
		}
		return
	}

	origins := strings.Split(originsStr, ",")
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			allowedOrigins[origin] = true
		}
	}
}

func SetupCORS(app *fiber.App) {
	app.Use(func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if allowedOrigins[origin] {
			c.Set("Access-Control-Allow-Origin", origin)
			c.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			c.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
			c.Set("Access-Control-Allow-Credentials", "true")
		}

		// Handle preflight request
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	})
}

func GetTokenCookie(token string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     "refresh_token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: CookieHTTPOnly,
		SameSite: CookieSameSite,
		Path:     "/",
		Secure:   CookieSecure,
	}
}
