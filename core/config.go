package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Debug    bool
	TestMode bool
	Env      string
	AppName  string
	Build    string
	WorkDir  string

	// Backend is the attendance API this client talks to.
	Backend struct {
		BaseURL string
		Timeout time.Duration
	}

	// Identity is the third-party provider that verifies credentials
	// and issues ID tokens.
	Identity struct {
		BaseURL string
		APIKey  string
		Timeout time.Duration
	}

	// Server configures the local development stub backend.
	Server struct {
		Address   string
		SecretKey string
	}

	// TokenPath is the well-known location of the persisted session token.
	TokenPath string

	DefaultFromEmail mail.Address
	SendgridApiKey   string
	RollbarToken     string
}

// NewConfig loads configuration from the environment with local defaults.
// An optional config/.env.<env> file is loaded first if it exists.
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Mahudhurio")
	conf.SetDefault("build", "dev")
	conf.SetDefault("backendBaseUrl", "http://localhost:3000")
	conf.SetDefault("backendTimeout", 15*time.Second)
	conf.SetDefault("identityBaseUrl", "http://localhost:3000/identity")
	conf.SetDefault("identityApiKey", "dev-key")
	conf.SetDefault("identityTimeout", 15*time.Second)
	conf.SetDefault("serverAddress", ":3000")
	conf.SetDefault("secretKey", "poq5wer0n9sd0...!hjC")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("tokenPath", filepath.Join(userHomeDir(), ".mahudhurio", "token"))

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	c := &Config{
		Debug:            conf.GetBool("debug"),
		TestMode:         conf.GetBool("testMode"),
		Env:              env,
		AppName:          conf.GetString("appName"),
		Build:            conf.GetString("build"),
		WorkDir:          Getwd(),
		TokenPath:        conf.GetString("tokenPath"),
		DefaultFromEmail: mail.Address{Name: conf.GetString("appName"), Address: conf.GetString("defaultFromEmail")},
		SendgridApiKey:   conf.GetString("sendgridApiKey"),
		RollbarToken:     conf.GetString("rollbarToken"),
	}
	c.Server.Address = conf.GetString("serverAddress")
	c.Server.SecretKey = conf.GetString("secretKey")
	c.Backend.BaseURL = strings.TrimRight(conf.GetString("backendBaseUrl"), "/")
	c.Backend.Timeout = conf.GetDuration("backendTimeout")
	c.Identity.BaseURL = strings.TrimRight(conf.GetString("identityBaseUrl"), "/")
	c.Identity.APIKey = conf.GetString("identityApiKey")
	c.Identity.Timeout = conf.GetDuration("identityTimeout")
	return c
}

func userHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return Getwd()
	}
	return home
}
