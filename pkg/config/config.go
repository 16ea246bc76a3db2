package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Drivers de almacenamiento soportados.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	Session SessionConfig
	HTTP    HTTPConfig
	Redis   RedisConfig
	Storage StorageConfig
	Limits  LimitsConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// IsProduction indica si la app corre en producción (cookies Secure, logs JSON).
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// SessionConfig configuración de la credencial de sesión.
// TTL es la ventana de la verificación de sesión; CookieMaxAge es la vida del cookie auth-token
// y también el exp firmado en el token.
type SessionConfig struct {
	Secret               string
	Issuer               string
	TTL                  time.Duration
	CookieMaxAge         time.Duration
	SelectedClientMaxAge time.Duration
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig conexión opcional a Redis. Addr vacío = deshabilitado
// (lock local en proceso y sin caché de series).
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
	LockWait time.Duration
	CacheTTL time.Duration
}

// Enabled indica si hay Redis configurado.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// StorageConfig selecciona el backend del document store.
type StorageConfig struct {
	Driver string // postgres | memory
}

// LimitsConfig límites de tasa.
type LimitsConfig struct {
	LoginPerMinute int
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DB_HOST, SESSION_SECRET, REDIS_ADDR, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "retail-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "retail"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		Session: SessionConfig{
			Secret:               getString(v, "SESSION_SECRET", ""),
			Issuer:               getString(v, "SESSION_ISSUER", "retail-api"),
			TTL:                  time.Duration(getInt(v, "SESSION_TTL_HOURS", 24)) * time.Hour,
			CookieMaxAge:         time.Duration(getInt(v, "SESSION_COOKIE_MAX_AGE_HOURS", 24*7)) * time.Hour,
			SelectedClientMaxAge: time.Duration(getInt(v, "SELECTED_CLIENT_MAX_AGE_HOURS", 24*30)) * time.Hour,
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", ""),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
			LockTTL:  time.Duration(getInt(v, "LOCK_TTL_SECONDS", 10)) * time.Second,
			LockWait: time.Duration(getInt(v, "LOCK_WAIT_MS", 3000)) * time.Millisecond,
			CacheTTL: time.Duration(getInt(v, "CACHE_TTL_SECONDS", 300)) * time.Second,
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getString(v, "STORAGE_DRIVER", StoragePostgres)),
		},
		Limits: LimitsConfig{
			LoginPerMinute: getInt(v, "LOGIN_RATE_LIMIT_PER_MINUTE", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate verifica las combinaciones mínimas para arrancar.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return errors.New("config: SESSION_SECRET es obligatorio")
	}
	if c.Session.TTL <= 0 || c.Session.CookieMaxAge <= 0 {
		return errors.New("config: los TTL de sesión deben ser positivos")
	}
	if c.Session.TTL > c.Session.CookieMaxAge {
		return errors.New("config: SESSION_TTL_HOURS no puede superar SESSION_COOKIE_MAX_AGE_HOURS")
	}
	switch c.Storage.Driver {
	case StoragePostgres, StorageMemory:
	default:
		return fmt.Errorf("config: STORAGE_DRIVER desconocido %q", c.Storage.Driver)
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
