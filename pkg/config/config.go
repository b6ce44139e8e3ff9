package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env
// y opcionalmente archivo).
type Config struct {
	App    AppConfig
	Remote RemoteConfig
	Cache  CacheConfig
	JWT    JWTConfig
	HTTP   HTTPConfig
}

// AppConfig configuración general.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// RemoteConfig apunta al backend autoritativo (endpoint RPC respaldado por
// planilla). El núcleo solo lo consume vía getAll y las acciones de mutación.
type RemoteConfig struct {
	APIURL       string        // URL del Web App publicado; vacío = modo offline
	FetchTimeout time.Duration // timeout duro por fetch de snapshot
}

// CacheConfig parámetros del Sync Cache y de su almacenamiento local.
type CacheConfig struct {
	TTL       time.Duration // ventana de frescura del snapshot
	StorePath string        // archivo SQLite del cache local; ":memory:" en tests
}

// JWTConfig configuración de los tokens de sesión de la fachada HTTP.
type JWTConfig struct {
	Secret     string
	Expiration int // minutos
	Issuer     string
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

// Load lee la configuración desde variables de entorno (y opcionalmente desde
// archivo .env / config.env). Las env vars tienen prioridad.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "almoxen-core"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Remote: RemoteConfig{
			APIURL:       getString(v, "REMOTE_API_URL", ""),
			FetchTimeout: getDuration(v, "REMOTE_FETCH_TIMEOUT", 6*time.Second),
		},
		Cache: CacheConfig{
			TTL:       getDuration(v, "CACHE_TTL", 5*time.Minute),
			StorePath: getString(v, "CACHE_STORE_PATH", "./data/almoxen.db"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 480),
			Issuer:     getString(v, "JWT_ISSUER", "almoxen-core"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
	}

	return cfg, nil
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
			// Valor ilegible conserva el default: un "abc" en
			// JWT_EXPIRATION_MINUTES no debe emitir tokens ya vencidos.
			if n, err := strconv.Atoi(v.GetString(key)); err == nil {
				return n
			}
			return def
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if v.IsSet(key) {
		if d, err := time.ParseDuration(v.GetString(key)); err == nil {
			return d
		}
	}
	return def
}
