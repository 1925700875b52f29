package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"unicode"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/samirrijal/coverage-area/internal/core/domain"
)

// Config holds all application configuration.
type Config struct {
	Simplify   SimplifyConfig   `mapstructure:"simplify"`
	Boundaries BoundariesConfig `mapstructure:"boundaries"`
	Data       DataConfig       `mapstructure:"data"`
	Batch      BatchConfig      `mapstructure:"batch"`
	Log        LogConfig        `mapstructure:"log"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Valkey     ValkeyConfig     `mapstructure:"valkey"`
	Temporal   TemporalConfig   `mapstructure:"temporal"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

type SimplifyConfig struct {
	Threshold   float64   `mapstructure:"threshold"`
	Decimals    int       `mapstructure:"decimals"`
	BoundingBox []float64 `mapstructure:"bounding_box"`
	Force       bool      `mapstructure:"force"`
	Merge       bool      `mapstructure:"merge"`
}

// BoundariesConfig locates the boundary datasets. DownloadTimeout is in
// seconds; 0 leaves the transport defaults alone.
type BoundariesConfig struct {
	CacheDir        string `mapstructure:"cache_dir"`
	BaseURL         string `mapstructure:"base_url"`
	Version         string `mapstructure:"version"`
	DownloadTimeout int    `mapstructure:"download_timeout"`
}

type DataConfig struct {
	Dir    string `mapstructure:"dir"`
	Output string `mapstructure:"output"`
}

// BatchConfig drives the whole-repository refresh. BoundingAreas maps a
// lower-case country code to min-lat, min-lon, max-lat, max-lon.
type BatchConfig struct {
	Threshold     float64              `mapstructure:"threshold"`
	Decimals      int                  `mapstructure:"decimals"`
	BoundingAreas map[string][]float64 `mapstructure:"bounding_areas"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	TaskQueue string `mapstructure:"task_queue"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	Exporter    string `mapstructure:"exporter"`
	Endpoint    string `mapstructure:"endpoint"`
}

var europe = []float64{36.5, -9, 71, 40}

// Flags registers the command-line flags shared by the coverage tools.
func Flags(flags *pflag.FlagSet) {
	flags.Float64("threshold", 5000, "simplification threshold in meters")
	flags.Int("decimals", 2, "decimal places kept in coordinates")
	flags.Var(new(boxValue), "bounding-box", `min-lat min-lon max-lat max-lon filter for rings, comma or space separated ("36.5,-9,71,40" or "36.5 -9 71 40")`)
	flags.Bool("force", false, "recompute areas that already exist")
	flags.Bool("merge", false, "unite the polygons of all regions of a classification")
	flags.String("data", "", "transport-apis data directory")
	flags.String("output", "coverage.geojson", "aggregated GeoJSON output file")
	flags.String("cache-dir", ".", "boundary dataset cache directory")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.String("log-format", "text", "log format: text or json")
}

var flagKeys = map[string]string{
	"threshold":    "simplify.threshold",
	"decimals":     "simplify.decimals",
	"bounding-box": "simplify.bounding_box",
	"force":        "simplify.force",
	"merge":        "simplify.merge",
	"data":         "data.dir",
	"output":       "data.output",
	"cache-dir":    "boundaries.cache_dir",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

// Load reads configuration from flags, environment variables, an optional
// config file and defaults, in that order of precedence. flags may be nil.
func Load(service string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	// Defaults
	v.SetDefault("simplify.threshold", 5000)
	v.SetDefault("simplify.decimals", 2)
	v.SetDefault("simplify.bounding_box", []float64{})
	v.SetDefault("simplify.force", false)
	v.SetDefault("simplify.merge", false)
	v.SetDefault("boundaries.cache_dir", ".")
	v.SetDefault("boundaries.base_url", "https://volkerkrause.eu/~vkrause/iso3166-boundaries")
	v.SetDefault("boundaries.version", "2021-08-16")
	v.SetDefault("boundaries.download_timeout", 0)
	v.SetDefault("data.dir", "")
	v.SetDefault("data.output", "coverage.geojson")
	v.SetDefault("batch.threshold", 5000)
	v.SetDefault("batch.decimals", 2)
	areas := map[string][]float64{}
	for _, cc := range []string{"at", "be", "ch", "de", "dk", "ee", "fi", "ie", "it", "lu", "nl", "no", "pl", "se"} {
		areas[cc] = europe
	}
	v.SetDefault("batch.bounding_areas", areas)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("database.url", "")
	v.SetDefault("nats.url", "")
	v.SetDefault("valkey.addr", "")
	v.SetDefault("temporal.host_port", "")
	v.SetDefault("temporal.task_queue", "coverage-refresh")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.exporter", "stdout")
	v.SetDefault("telemetry.endpoint", "localhost:4317")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	// Environment variables: COVERAGE_SIMPLIFY_THRESHOLD → simplify.threshold
	v.SetEnvPrefix("COVERAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Simplify.Threshold <= 0 {
		errs = append(errs, fmt.Sprintf("simplify.threshold must be positive, got %g", c.Simplify.Threshold))
	}
	if c.Simplify.Decimals < 0 || c.Simplify.Decimals > 15 {
		errs = append(errs, fmt.Sprintf("simplify.decimals must be 0-15, got %d", c.Simplify.Decimals))
	}
	if msg := checkBox("simplify.bounding_box", c.Simplify.BoundingBox); msg != "" {
		errs = append(errs, msg)
	}
	if c.Batch.Threshold <= 0 {
		errs = append(errs, fmt.Sprintf("batch.threshold must be positive, got %g", c.Batch.Threshold))
	}
	if c.Batch.Decimals < 0 || c.Batch.Decimals > 15 {
		errs = append(errs, fmt.Sprintf("batch.decimals must be 0-15, got %d", c.Batch.Decimals))
	}
	for cc, box := range c.Batch.BoundingAreas {
		if msg := checkBox("batch.bounding_areas."+cc, box); msg != "" {
			errs = append(errs, msg)
		}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Boundaries.DownloadTimeout < 0 {
		errs = append(errs, "boundaries.download_timeout must not be negative")
	}
	if c.Telemetry.Exporter != "stdout" && c.Telemetry.Exporter != "otlp" {
		errs = append(errs, fmt.Sprintf("telemetry.exporter must be stdout or otlp, got %q", c.Telemetry.Exporter))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// boxValue is a list of coordinates given as one argument. viper reads it
// back through String, which always joins with commas.
type boxValue []float64

func (b *boxValue) Set(s string) error {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
	box := make([]float64, 0, len(fields))
	for _, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q", f)
		}
		box = append(box, x)
	}
	*b = box
	return nil
}

func (b *boxValue) String() string {
	parts := make([]string, len(*b))
	for i, x := range *b {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (b *boxValue) Type() string { return "coordinates" }

func checkBox(key string, box []float64) string {
	switch {
	case len(box) == 0:
		return ""
	case len(box) != 4:
		return fmt.Sprintf("%s must have 4 values, got %d", key, len(box))
	case box[0] > box[2] || box[1] > box[3]:
		return fmt.Sprintf("%s min must not exceed max", key)
	}
	return ""
}

// Options returns the pipeline options of a single fill run.
func (s SimplifyConfig) Options() (domain.SimplifyOptions, error) {
	bbox, err := domain.NewBoundingBoxFilter(s.BoundingBox)
	if err != nil {
		return domain.SimplifyOptions{}, err
	}
	return domain.SimplifyOptions{
		Threshold:   s.Threshold,
		Decimals:    s.Decimals,
		BoundingBox: bbox,
		Merge:       s.Merge,
	}, nil
}
