package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/daedongje/service-wayfinding/internal/platform/database"
)

// KafkaConfig holds broker settings.
type KafkaConfig struct {
	Enabled     bool
	Brokers     []string
	GroupPrefix string
}

// MapConfig holds the map SDK and directions settings. An empty SDKKey
// leaves geo widgets inert; an empty RESTKey makes every geo route a
// straight-line fallback.
type MapConfig struct {
	SDKKey              string
	SDKURL              string
	RESTKey             string
	DirectionsURL       string
	DirectionsTimeout   time.Duration
	DirectionsRetries   uint64
	DisplayLoadTimeout  time.Duration
	LocationLoadTimeout time.Duration
}

// ChatConfig holds the support chat plugin settings. An empty PluginKey
// disables the chat widget.
type ChatConfig struct {
	PluginKey string
}

// QRConfig holds the QR image service settings.
type QRConfig struct {
	BaseURL string
	Size    int
}

// WidgetConfig bounds mounted widget sessions.
type WidgetConfig struct {
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

// ServiceConfig holds all configuration for the wayfinding service.
type ServiceConfig struct {
	Port         string
	AppEnv       string
	SeedCatalog  bool
	DBConfig     database.Config
	KafkaConfig  KafkaConfig
	MapConfig    MapConfig
	ChatConfig   ChatConfig
	QRConfig     QRConfig
	WidgetConfig WidgetConfig
}

// Load reads configuration from WAYFINDING_* environment variables and an
// optional .env file in the working directory.
func Load() (*ServiceConfig, error) {
	v, err := newViper("WAYFINDING")
	if err != nil {
		return nil, err
	}
	return fromViper(v), nil
}

func newViper(prefix string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	setDefaults(v)
	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SEED_CATALOG", true)

	v.SetDefault("DB_DRIVER", database.DriverSQLite)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "wayfinding")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_SQLITE_PATH", "wayfinding.db")

	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "daedongje-")

	v.SetDefault("MAP_SDK_URL", "https://dapi.kakao.com/v2/maps/sdk.js")
	v.SetDefault("MAP_DIRECTIONS_URL", "https://dapi.kakao.com/v2/local/search/direction.json")
	v.SetDefault("MAP_DIRECTIONS_TIMEOUT", "5s")
	v.SetDefault("MAP_DIRECTIONS_RETRIES", 2)
	v.SetDefault("MAP_DISPLAY_LOAD_TIMEOUT", "5s")
	v.SetDefault("MAP_LOCATION_LOAD_TIMEOUT", "10s")

	v.SetDefault("QR_BASE_URL", "https://api.qrserver.com/v1/create-qr-code/")
	v.SetDefault("QR_SIZE", 300)

	v.SetDefault("WIDGET_IDLE_TIMEOUT", "30m")
	v.SetDefault("WIDGET_SWEEP_INTERVAL", "1m")
}

func fromViper(v *viper.Viper) *ServiceConfig {
	return &ServiceConfig{
		Port:        servicePort(v.GetString("SERVICE_PORT")),
		AppEnv:      v.GetString("APP_ENV"),
		SeedCatalog: v.GetBool("SEED_CATALOG"),
		DBConfig: database.Config{
			Driver:     v.GetString("DB_DRIVER"),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			DBName:     v.GetString("DB_NAME"),
			SSLMode:    v.GetString("DB_SSLMODE"),
			SQLitePath: v.GetString("DB_SQLITE_PATH"),
		},
		KafkaConfig: KafkaConfig{
			Enabled:     v.GetBool("KAFKA_ENABLED"),
			Brokers:     splitList(v.GetString("KAFKA_BROKERS")),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		MapConfig: MapConfig{
			SDKKey:              v.GetString("MAP_SDK_KEY"),
			SDKURL:              v.GetString("MAP_SDK_URL"),
			RESTKey:             v.GetString("MAP_REST_KEY"),
			DirectionsURL:       v.GetString("MAP_DIRECTIONS_URL"),
			DirectionsTimeout:   v.GetDuration("MAP_DIRECTIONS_TIMEOUT"),
			DirectionsRetries:   v.GetUint64("MAP_DIRECTIONS_RETRIES"),
			DisplayLoadTimeout:  v.GetDuration("MAP_DISPLAY_LOAD_TIMEOUT"),
			LocationLoadTimeout: v.GetDuration("MAP_LOCATION_LOAD_TIMEOUT"),
		},
		ChatConfig: ChatConfig{
			PluginKey: v.GetString("CHAT_PLUGIN_KEY"),
		},
		QRConfig: QRConfig{
			BaseURL: v.GetString("QR_BASE_URL"),
			Size:    v.GetInt("QR_SIZE"),
		},
		WidgetConfig: WidgetConfig{
			IdleTimeout:   v.GetDuration("WIDGET_IDLE_TIMEOUT"),
			SweepInterval: v.GetDuration("WIDGET_SWEEP_INTERVAL"),
		},
	}
}

// servicePort turns a bare port number into a listen address.
func servicePort(p string) string {
	if strings.HasPrefix(p, ":") {
		return p
	}
	return ":" + p
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
