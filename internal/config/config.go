package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Reset     ResetConfig
	SMTP      SMTPConfig
	App       AppConfig
	Google    GoogleConfig
	Seed      SeedConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port        string
	Host        string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type ResetConfig struct {
	// How long a password-reset link stays usable.
	TokenTTL time.Duration
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// AppConfig carries branding and link construction so no component hardcodes
// either.
type AppConfig struct {
	Name              string
	FrontendURL       string
	ResetPasswordPath string
	LoginRedirectPath string
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// SeedConfig optionally creates one account at startup so a fresh deployment
// is immediately usable. Both fields empty disables seeding.
type SeedConfig struct {
	Email    string
	Password string
}

type RateLimitConfig struct {
	GeneralRPS   float64
	GeneralBurst int
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AddConfigPath(".")
	if homeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(homeDir)
	}
	viper.AutomaticEnv()

	viper.SetDefault("JWT_TTL", "720h")
	viper.SetDefault("RESET_TOKEN_TTL", "10m")
	viper.SetDefault("APP_NAME", "Dance Studio")
	viper.SetDefault("APP_RESET_PASSWORD_PATH", "/resetpassword.html")
	viper.SetDefault("APP_LOGIN_REDIRECT_PATH", "/home.html")
	viper.SetDefault("RATE_LIMIT_GENERAL_RPS", 20.0)
	viper.SetDefault("RATE_LIMIT_GENERAL_BURST", 40)

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Printf("Warning: config file not found: %v. Falling back to environment variables only.", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        viper.GetString("SERVER_PORT"),
			Host:        viper.GetString("SERVER_HOST"),
			Environment: viper.GetString("ENVIRONMENT"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			DBName:   viper.GetString("DB_NAME"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
			TTL:    viper.GetDuration("JWT_TTL"),
		},
		Reset: ResetConfig{
			TokenTTL: viper.GetDuration("RESET_TOKEN_TTL"),
		},
		SMTP: SMTPConfig{
			Host:     viper.GetString("SMTP_HOST"),
			Port:     viper.GetInt("SMTP_PORT"),
			User:     viper.GetString("SMTP_USER"),
			Password: viper.GetString("SMTP_PASSWORD"),
			From:     viper.GetString("SMTP_FROM"),
		},
		App: AppConfig{
			Name:              viper.GetString("APP_NAME"),
			FrontendURL:       viper.GetString("APP_FRONTEND_URL"),
			ResetPasswordPath: viper.GetString("APP_RESET_PASSWORD_PATH"),
			LoginRedirectPath: viper.GetString("APP_LOGIN_REDIRECT_PATH"),
		},
		Google: GoogleConfig{
			ClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
			RedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
		},
		Seed: SeedConfig{
			Email:    viper.GetString("SEED_EMAIL"),
			Password: viper.GetString("SEED_PASSWORD"),
		},
		RateLimit: RateLimitConfig{
			GeneralRPS:   viper.GetFloat64("RATE_LIMIT_GENERAL_RPS"),
			GeneralBurst: viper.GetInt("RATE_LIMIT_GENERAL_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods:   viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders:   viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
			ExposedHeaders:   viper.GetStringSlice("CORS_EXPOSED_HEADERS"),
			AllowCredentials: viper.GetBool("CORS_ALLOW_CREDENTIALS"),
			MaxAge:           viper.GetInt("CORS_MAX_AGE"),
		},
	}

	return config, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// ResetPasswordURL builds the link embedded in reset emails. The raw secret
// travels only here and in the matching path parameter, never in storage.
func (a *AppConfig) ResetPasswordURL(rawToken string) string {
	return fmt.Sprintf("%s%s?token=%s", a.FrontendURL, a.ResetPasswordPath, url.QueryEscape(rawToken))
}

// LoginRedirectURL is where the social-login callback sends the browser,
// with the freshly issued token attached.
func (a *AppConfig) LoginRedirectURL(token string) string {
	return fmt.Sprintf("%s%s?token=%s", a.FrontendURL, a.LoginRedirectPath, url.QueryEscape(token))
}
