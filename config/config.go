package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"flowcraft/diagram"
	"flowcraft/editor"
)

// EnvPrefix is prepended to every key when read from the environment.
const EnvPrefix = "FLOWCRAFT"

// Config holds editor configuration loaded from environment variables or a config file.
type Config struct {
	GridSize    float64 `mapstructure:"GRID_SIZE" validate:"gt=0,lte=1000"`
	SnapToGrid  bool    `mapstructure:"SNAP_TO_GRID"`
	ShowGrid    bool    `mapstructure:"SHOW_GRID"`
	CanvasColor string  `mapstructure:"CANVAS_COLOR" validate:"required,color"`

	SnapThreshold float64 `mapstructure:"SNAP_THRESHOLD" validate:"gt=0,lte=100"`
	Clearance     float64 `mapstructure:"CLEARANCE" validate:"gt=0,lte=500"`
	HistoryLimit  int     `mapstructure:"HISTORY_LIMIT" validate:"gte=0,lte=100000"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("color", func(fl validator.FieldLevel) bool {
		return diagram.NormalizeColor(fl.Field().String(), "") != ""
	})
	return v
}

// Load reads configuration using Viper. It loads .env files if present,
// applies defaults, binds FLOWCRAFT_ env vars, and validates the result.
// An empty path looks for an optional flowcraft.yaml; an explicit path must exist.
func Load(path string) (*Config, error) {
	// Load .env if present (non-fatal)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("flowcraft")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/flowcraft")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("GRID_SIZE", diagram.DefaultGridSize)
	v.SetDefault("SNAP_TO_GRID", true)
	v.SetDefault("SHOW_GRID", true)
	v.SetDefault("CANVAS_COLOR", diagram.DefaultCanvasColor)
	v.SetDefault("SNAP_THRESHOLD", 10)
	v.SetDefault("CLEARANCE", 20)
	v.SetDefault("HISTORY_LIMIT", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &c, nil
}

// Settings returns the canvas settings new diagrams start with.
func (c *Config) Settings() diagram.SettingsPatch {
	return diagram.SettingsPatch{
		GridSize:    &c.GridSize,
		SnapToGrid:  &c.SnapToGrid,
		ShowGrid:    &c.ShowGrid,
		CanvasColor: &c.CanvasColor,
	}
}

// SessionOptions converts the configuration into editor session options.
func (c *Config) SessionOptions(l *zap.Logger) []editor.Option {
	return []editor.Option{
		editor.WithLogger(l),
		editor.WithSettings(c.Settings()),
		editor.WithSnapThreshold(c.SnapThreshold),
		editor.WithClearance(c.Clearance),
		editor.WithHistoryLimit(c.HistoryLimit),
	}
}
