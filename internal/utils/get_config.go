package utils

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT key
	JWTSecret string `yaml:"JWT_SECRET"`

	// Mailing configuration
	AppURL           string `yaml:"APP_URL"`
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Default bucket for payment-screen scans
	ScanBucket string `yaml:"SCAN_BUCKET"`

	// Vision OCR configuration
	VisionAPIKey   string `yaml:"VISION_API_KEY"`
	VisionEndpoint string `yaml:"VISION_ENDPOINT"`

	// Claude reasoning configuration
	ClaudeAPIKey   string `yaml:"CLAUDE_API_KEY"`
	ClaudeModel    string `yaml:"CLAUDE_MODEL"`
	ClaudeEndpoint string `yaml:"CLAUDE_ENDPOINT"`

	// Expo push gateway
	ExpoPushURL string `yaml:"EXPO_PUSH_URL"`
}

var config Config

func LoadConfig() {
	file, err := os.ReadFile("config.yaml")
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
		return
	}

	err = yaml.Unmarshal(file, &config)
	if err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
		return
	}

	// Set environment variables for keys that should be accessible via os.Getenv
	os.Setenv("JWT_SECRET", config.JWTSecret)
	os.Setenv("AWS_S3_BUCKET", config.AWSS3Bucket)
	os.Setenv("AWS_S3_REGION", config.AWSS3Region)
	os.Setenv("AWS_ACCESS_KEY", config.AWSAccessKey)
	os.Setenv("AWS_SECRET_KEY", config.AWSSecretKey)
	os.Setenv("VISION_API_KEY", config.VisionAPIKey)
	os.Setenv("CLAUDE_API_KEY", config.ClaudeAPIKey)
}

func GetConfig(key string) string {
	switch key {
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "JWT_SECRET":
		return config.JWTSecret
	case "APP_URL":
		return config.AppURL
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "SCAN_BUCKET":
		if config.ScanBucket == "" {
			return "scans"
		}
		return config.ScanBucket
	case "VISION_API_KEY":
		return config.VisionAPIKey
	case "VISION_ENDPOINT":
		if config.VisionEndpoint == "" {
			return "https://vision.googleapis.com/v1/images:annotate"
		}
		return config.VisionEndpoint
	case "CLAUDE_API_KEY":
		return config.ClaudeAPIKey
	case "CLAUDE_MODEL":
		if config.ClaudeModel == "" {
			return "claude-3-5-sonnet-20241022"
		}
		return config.ClaudeModel
	case "CLAUDE_ENDPOINT":
		if config.ClaudeEndpoint == "" {
			return "https://api.anthropic.com/v1/messages"
		}
		return config.ClaudeEndpoint
	case "EXPO_PUSH_URL":
		if config.ExpoPushURL == "" {
			return "https://exp.host/--/api/v2/push/send"
		}
		return config.ExpoPushURL
	default:
		return ""
	}
}
