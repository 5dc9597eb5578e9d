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
	AuthRequired  bool

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	LogLevel  string
	LogFormat string

	NodeID int64

	OCREngine    string
	OCRLanguages []string
	OCRTimeout   time.Duration
	OCRRemoteURL string
	OCRCacheTTL  time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	NotifyEmails []string

	MQTTBroker   string
	MQTTClientID string
	MQTTUsername string
	MQTTPassword string

	TelegramToken  string
	TelegramChatID int64

	InboxDir  string
	QRBaseURL string

	AdminUsername string
	AdminPassword string

	allowedOrigins map[string]bool
)

// LoadConfig reads .env (when present) and fills the package-level settings.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	MAIN_ROUTES = getEnv("MAIN_ROUTES", "/api/v1")
	APP_PORT = getEnv("APP_PORT", "9000")

	JWTSecret = getEnv("JWT_SECRET", "fleetops_dev_secret")
	JWTExpiration = getEnvAsInt("JWT_EXPIRATION", 86400)
	AuthRequired = getEnvAsBool("AUTH_REQUIRED", false)

	DBDriver = getEnv("DB_DRIVER", "postgres")
	DBHost = getEnv("DB_HOST", "localhost")
	DBPort = getEnv("DB_PORT", "5432")
	DBUser = getEnv("DB_USER", "postgres")
	DBPassword = getEnv("DB_PASSWORD", "postgres")
	DBName = getEnv("DB_NAME", "fleetops")

	LogLevel = getEnv("LOG_LEVEL", "info")
	LogFormat = getEnv("LOG_FORMAT", "json")

	NodeID = int64(getEnvAsInt("NODE_ID", 1))

	OCREngine = getEnv("OCR_ENGINE", "tesseract")
	OCRLanguages = getEnvAsList("OCR_LANGUAGES", []string{"eng"})
	OCRTimeout = getEnvAsDuration("OCR_TIMEOUT", 30*time.Second)
	OCRRemoteURL = getEnv("OCR_REMOTE_URL", "")
	OCRCacheTTL = getEnvAsDuration("OCR_CACHE_TTL", 24*time.Hour)

	RedisAddr = getEnv("REDIS_ADDR", "")
	RedisPassword = getEnv("REDIS_PASSWORD", "")
	RedisDB = getEnvAsInt("REDIS_DB", 0)

	SMTPHost = getEnv("SMTP_HOST", "")
	SMTPPort = getEnvAsInt("SMTP_PORT", 465)
	SMTPUser = getEnv("SMTP_USER", "")
	SMTPPassword = getEnv("SMTP_PASSWORD", "")
	SMTPFrom = getEnv("SMTP_FROM", SMTPUser)
	NotifyEmails = getEnvAsList("NOTIFY_EMAILS", nil)

	MQTTBroker = getEnv("MQTT_BROKER", "")
	MQTTClientID = getEnv("MQTT_CLIENT_ID", "fleetops")
	MQTTUsername = getEnv("MQTT_USERNAME", "")
	MQTTPassword = getEnv("MQTT_PASSWORD", "")

	TelegramToken = getEnv("TELEGRAM_TOKEN", "")
	TelegramChatID = int64(getEnvAsInt("TELEGRAM_CHAT_ID", 0))

	InboxDir = getEnv("INBOX_DIR", "inbox")
	QRBaseURL = getEnv("QR_BASE_URL", "fleetops://trips/")

	AdminUsername = getEnv("ADMIN_USERNAME", "")
	AdminPassword = getEnv("ADMIN_PASSWORD", "")

	loadAllowedOrigins()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("45s") or a bare number of seconds.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func loadAllowedOrigins() {
	allowedOrigins = make(map[string]bool)
	for _, origin := range getEnvAsList("ALLOWED_ORIGINS", []string{"http://127.0.0.1:3000"}) {
		allowedOrigins[origin] = true
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

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	})
}
