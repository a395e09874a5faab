package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"PORT" default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	JWTSecretKey            string `envconfig:"JWT_SECRET_KEY" required:"true"`
	EmailVerificationSecret string `envconfig:"EMAIL_VERIFICATION_SECRET" required:"true"`

	AppName         string `envconfig:"APP_NAME" default:"Marketplace"`
	AppSupportEmail string `envconfig:"APP_SUPPORT_EMAIL" default:"support@localhost"`
	ClientURL       string `envconfig:"CLIENT_URL" default:"http://localhost:3000"`

	SMTPHost     string `envconfig:"SMTP_HOST" default:"localhost"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPEmail    string `envconfig:"SMTP_EMAIL"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`

	MediaServiceURL string `envconfig:"MEDIA_SERVICE_URL" default:"http://localhost:9090"`
	MediaAPIKey     string `envconfig:"MEDIA_API_KEY"`

	PaymentAPIURL         string `envconfig:"PAYMENT_API_URL" default:"https://api.stripe.com"`
	PaymentSecretKey      string `envconfig:"PAYMENT_SECRET_KEY"`
	PaymentPublishableKey string `envconfig:"PAYMENT_PUBLISHABLE_KEY"`

	RedisAddr    string   `envconfig:"REDIS_ADDR"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if os.IsNotExist(err) {
			log.Println("Warning: .env file not found, using environment variables or defaults.")
		} else {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
