package resources

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Settings struct {
	Env           string
	HttpHost      string
	HttpPort      string
	DebugPort     string
	Backend       string
	StoragePath   string
	StorageKey    string
	SQLitePath    string
	WeekStart     string
	UpcomingLimit int
	IcsExportCron string
	IcsExportPath string
	OtelEnabled   bool
	OtelEndpoint  string
}

func setDefaults() {
	viper.SetDefault("APP_ENV", "local")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("HTTP_HOST", "localhost")
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("DEBUG_PORT", "6060")
	viper.SetDefault("STORAGE_BACKEND", "file")
	viper.SetDefault("STORAGE_PATH", "./data/calendar-events.json")
	viper.SetDefault("STORAGE_KEY", "calendar-events")
	viper.SetDefault("SQLITE_PATH", "./data/calendar.db")
	viper.SetDefault("WEEK_START", "sunday")
	viper.SetDefault("UPCOMING_LIMIT", 5)
	viper.SetDefault("ICS_EXPORT_CRON", "")
	viper.SetDefault("ICS_EXPORT_PATH", "./data/calendar.ics")
	viper.SetDefault("OTEL_ENABLED", false)
	viper.SetDefault("OTEL_ENDPOINT", "localhost:4317")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
}

// Configure loads defaults, the environment and the optional CONFIG_FILE into
// viper, sets up the global zerolog logger and returns a context carrying it.
func Configure(ctx context.Context, name string, version string) context.Context {
	setDefaults()
	viper.AutomaticEnv()

	configFile := viper.GetString("CONFIG_FILE")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	}

	var configErr error
	if configFile != "" {
		configErr = viper.ReadInConfig()
	}

	env := viper.GetString("APP_ENV")

	level, err := zerolog.ParseLevel(strings.ToLower(viper.GetString("LOG_LEVEL")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var base zerolog.Logger
	if env == "local" {
		base = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		base = zerolog.New(os.Stdout)
	}

	log.Logger = base.With().Timestamp().
		Str("service", name).Str("version", version).Str("env", env).
		Logger()

	if configErr != nil {
		log.Error().Err(configErr).Str("stage", "startup").Str("config_file", configFile).Msg("unable to read config file, using environment and defaults")
	}

	return log.Logger.WithContext(ctx)
}

func LoadSettings() Settings {
	return Settings{
		Env:           viper.GetString("APP_ENV"),
		HttpHost:      viper.GetString("HTTP_HOST"),
		HttpPort:      viper.GetString("HTTP_PORT"),
		DebugPort:     viper.GetString("DEBUG_PORT"),
		Backend:       strings.ToLower(viper.GetString("STORAGE_BACKEND")),
		StoragePath:   viper.GetString("STORAGE_PATH"),
		StorageKey:    viper.GetString("STORAGE_KEY"),
		SQLitePath:    viper.GetString("SQLITE_PATH"),
		WeekStart:     viper.GetString("WEEK_START"),
		UpcomingLimit: viper.GetInt("UPCOMING_LIMIT"),
		IcsExportCron: viper.GetString("ICS_EXPORT_CRON"),
		IcsExportPath: viper.GetString("ICS_EXPORT_PATH"),
		OtelEnabled:   viper.GetBool("OTEL_ENABLED"),
		OtelEndpoint:  viper.GetString("OTEL_ENDPOINT"),
	}
}
