package core

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	// Config holds all runtime settings. Values come from the environment
	// (optionally via a .env file); defaults below are DEV fallbacks only.
	Config struct {
		Env      string // DEV (default), TEST, QA, PROD
		Debug    bool
		TestMode bool
		AppName  string
		WorkDir  string
		Build    string

		SecretKey        []byte
		SigningAlgorithm string

		// AccessTokenExpirationDelta applies to tokens issued at login;
		// DefaultTokenExpirationDelta applies everywhere else.
		AccessTokenExpirationDelta  time.Duration
		DefaultTokenExpirationDelta time.Duration

		DefaultFromEmail mail.Address
		SendgridApiKey   string
		RollbarToken     string

		Server   ServerConfig
		Database DatabaseConfig
		Admin    AdminConfig
	}

	ServerConfig struct {
		Host string
		Port int
	}

	DatabaseConfig struct {
		Engine     string // sqlite3 | postgres
		Name       string // file path for sqlite3, database name for postgres
		Host       string
		Port       int
		User       string
		Password   string
		DisableTLS bool
	}

	// AdminConfig parameterizes the seed admin account. Left empty, no
	// admin is seeded; use `admin adduser -admin` instead.
	AdminConfig struct {
		FirstName string
		LastName  string
		Email     string
		Password  string
	}
)

func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Sadhana")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "sai-kalpataru-secret-key-2024") // DEV only; see NewConfig
	v.SetDefault("algorithm", "HS256")
	v.SetDefault("accessTokenExpireMinutes", 30)
	v.SetDefault("defaultTokenExpireMinutes", 15)
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8000)
	v.SetDefault("database.engine", "sqlite3")
	v.SetDefault("database.name", "sadhana.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("admin.firstName", "")
	v.SetDefault("admin.lastName", "")
	v.SetDefault("admin.email", "")
	v.SetDefault("admin.password", "")

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// camelCase keys do not survive AutomaticEnv's name mapping; bind
	// their canonical env names explicitly.
	_ = v.BindEnv("appName", "APP_NAME")
	_ = v.BindEnv("secretKey", "SECRET_KEY")
	_ = v.BindEnv("accessTokenExpireMinutes", "ACCESS_TOKEN_EXPIRE_MINUTES")
	_ = v.BindEnv("defaultTokenExpireMinutes", "DEFAULT_TOKEN_EXPIRE_MINUTES")
	_ = v.BindEnv("defaultFromEmail", "DEFAULT_FROM_EMAIL")
	_ = v.BindEnv("sendgridApiKey", "SENDGRID_API_KEY")
	_ = v.BindEnv("rollbarToken", "ROLLBAR_TOKEN")
	_ = v.BindEnv("database.disableTLS", "DATABASE_DISABLE_TLS")
	_ = v.BindEnv("admin.firstName", "ADMIN_FIRST_NAME")
	_ = v.BindEnv("admin.lastName", "ADMIN_LAST_NAME")

	conf := &Config{
		Env:                         env,
		Debug:                       v.GetBool("debug"),
		TestMode:                    env == "TEST",
		AppName:                     v.GetString("appName"),
		WorkDir:                     Getwd(),
		Build:                       v.GetString("build"),
		SecretKey:                   []byte(v.GetString("secretKey")),
		SigningAlgorithm:            v.GetString("algorithm"),
		AccessTokenExpirationDelta:  time.Duration(v.GetInt("accessTokenExpireMinutes")) * time.Minute,
		DefaultTokenExpirationDelta: time.Duration(v.GetInt("defaultTokenExpireMinutes")) * time.Minute,
		DefaultFromEmail:            mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		SendgridApiKey:              v.GetString("sendgridApiKey"),
		RollbarToken:                v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetInt("server.port"),
		},
		Database: DatabaseConfig{
			Engine:     v.GetString("database.engine"),
			Name:       v.GetString("database.name"),
			Host:       v.GetString("database.host"),
			Port:       v.GetInt("database.port"),
			User:       v.GetString("database.user"),
			Password:   v.GetString("database.password"),
			DisableTLS: v.GetBool("database.disableTLS"),
		},
		Admin: AdminConfig{
			FirstName: v.GetString("admin.firstName"),
			LastName:  v.GetString("admin.lastName"),
			Email:     v.GetString("admin.email"),
			Password:  v.GetString("admin.password"),
		},
	}

	// the baked-in secret is a convenience for local runs only
	if !conf.Debug && os.Getenv("SECRET_KEY") == "" {
		return nil, errors.New("SECRET_KEY must be set when debug is off")
	}

	return conf, nil
}
