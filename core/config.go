package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var Conf *Config

type Config struct {
	Debug    bool
	TestMode bool
	AppName  string
	Env      string

	APIBaseURL string
	APITimeout time.Duration

	// CredentialFile is where the portal CLI keeps the raw bearer credential.
	CredentialFile string

	// token settings used by the local mock API to issue credentials
	SecretKey            string
	TokenExpirationDelta time.Duration

	RollbarToken string

	Server struct {
		Addr string
	}

	Database struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}
}

func (c *Config) DatabaseAddress() string {
	return c.Database.Host + ":" + c.Database.Port
}

func init() {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "CollegePortal")
	v.SetDefault("apiBaseUrl", "http://localhost:8000")
	v.SetDefault("apiTimeout", 15*time.Second)
	v.SetDefault("credentialFile", defaultCredentialFile())
	v.SetDefault("secretKey", "n0t-4-s3cret-only-for-local-dev")
	v.SetDefault("tokenExpirationDelta", 12*time.Hour)
	v.SetDefault("serverAddr", ":8000")
	v.SetDefault("dbEngine", "postgres")
	v.SetDefault("dbName", "portal")
	v.SetDefault("dbHost", "localhost")
	v.SetDefault("dbPort", "5432")
	v.SetDefault("dbDisableTLS", true)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	v.SetDefault("testMode", env == "TEST")
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	Conf = &Config{
		Debug:                v.GetBool("debug"),
		TestMode:             v.GetBool("testMode"),
		AppName:              v.GetString("appName"),
		Env:                  env,
		APIBaseURL:           strings.TrimRight(v.GetString("apiBaseUrl"), "/"),
		APITimeout:           v.GetDuration("apiTimeout"),
		CredentialFile:       v.GetString("credentialFile"),
		SecretKey:            v.GetString("secretKey"),
		TokenExpirationDelta: v.GetDuration("tokenExpirationDelta"),
		RollbarToken:         v.GetString("rollbarToken"),
	}
	Conf.Server.Addr = v.GetString("serverAddr")
	Conf.Database.Engine = v.GetString("dbEngine")
	Conf.Database.Name = v.GetString("dbName")
	Conf.Database.User = v.GetString("dbUser")
	Conf.Database.Password = v.GetString("dbPassword")
	Conf.Database.AdminUser = v.GetString("dbAdminUser")
	Conf.Database.AdminPassword = v.GetString("dbAdminPassword")
	Conf.Database.Host = v.GetString("dbHost")
	Conf.Database.Port = v.GetString("dbPort")
	Conf.Database.DisableTLS = v.GetBool("dbDisableTLS")
}

func defaultCredentialFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "college-portal", "credential")
}
