// Package config loads configuration for cmd/chimedemo from the environment.
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds cmd/chimedemo configuration values.
type Config struct {
	Env  string `validate:"required,oneof=dev prod"`
	HTTP struct {
		Addr string `validate:"required"`
	}
	Telegram struct {
		// Token, if set, lets the demo announce job completions to a chat.
		Token  string
		ChatID string
	}
	ChimeLog struct {
		// Driver selects the chimelog backend: "", "postgres" or "sqlite".
		Driver string `validate:"omitempty,oneof=postgres sqlite"`
		DSN    string
	}
	Log struct {
		ConsoleLevel string `validate:"required,oneof=debug info warn error"`
		FileLevel    string `validate:"required,oneof=debug info warn error"`
		File         string
	}
}

var validate = validator.New()

// Load reads configuration from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	c.Env = getenv("ENV", "dev")
	c.HTTP.Addr = getenv("HTTP_ADDR", ":8080")
	c.Telegram.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	c.Telegram.ChatID = os.Getenv("TELEGRAM_CHAT_ID")
	c.ChimeLog.Driver = strings.ToLower(os.Getenv("CHIMELOG_DRIVER"))
	c.ChimeLog.DSN = os.Getenv("CHIMELOG_DSN")
	c.Log.ConsoleLevel = strings.ToLower(getenv("LOG_CONSOLE_LEVEL", "info"))
	c.Log.FileLevel = strings.ToLower(getenv("LOG_FILE_LEVEL", "debug"))
	c.Log.File = getenv("LOG_FILE", "")

	if err := validate.Struct(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
