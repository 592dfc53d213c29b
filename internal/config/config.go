package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/David1r20/painel-educacional/internal/gradebook"
)

// EnvPrefix namespaces every environment variable, e.g. PAINEL_SERVER_PORT.
const EnvPrefix = "PAINEL"

// ConfigFileEnv names an explicit YAML config file.
const ConfigFileEnv = "PAINEL_CONFIG"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Upload    UploadConfig    `yaml:"upload" envconfig:"UPLOAD"`
	Cache     CacheConfig     `yaml:"cache" envconfig:"CACHE"`
	Layout    LayoutConfig    `yaml:"layout" envconfig:"LAYOUT"`
	Charts    ChartsConfig    `yaml:"charts" envconfig:"CHARTS"`
	WebSocket WebSocketConfig `yaml:"websocket" envconfig:"WEBSOCKET"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST"`
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"` // console, file or both
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// UploadConfig bounds gradebook uploads.
type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes" envconfig:"MAX_BYTES"`
}

// CacheConfig sizes the in-memory dataset cache.
type CacheConfig struct {
	TTL           time.Duration `yaml:"ttl" envconfig:"TTL"`
	MaxEntries    int           `yaml:"max_entries" envconfig:"MAX_ENTRIES"`
	SweepInterval time.Duration `yaml:"sweep_interval" envconfig:"SWEEP_INTERVAL"`
}

// LayoutConfig mirrors gradebook.Layout. Columns are zero-based.
type LayoutConfig struct {
	MarkerLabel       string `yaml:"marker_label" envconfig:"MARKER_LABEL"`
	FeedbackColumn    int    `yaml:"feedback_column" envconfig:"FEEDBACK_COLUMN"`
	RoomColumn        int    `yaml:"room_column" envconfig:"ROOM_COLUMN"`
	NumberColumn      int    `yaml:"number_column" envconfig:"NUMBER_COLUMN"`
	NameColumn        int    `yaml:"name_column" envconfig:"NAME_COLUMN"`
	FirstBlockColumn  int    `yaml:"first_block_column" envconfig:"FIRST_BLOCK_COLUMN"`
	BlockWidth        int    `yaml:"block_width" envconfig:"BLOCK_WIDTH"`
	ExamAverageColumn int    `yaml:"exam_average_column" envconfig:"EXAM_AVERAGE_COLUMN"`
	FinalGradeColumn  int    `yaml:"final_grade_column" envconfig:"FINAL_GRADE_COLUMN"`
	StatusColumn      int    `yaml:"status_column" envconfig:"STATUS_COLUMN"`
	HeaderScanRows    int    `yaml:"header_scan_rows" envconfig:"HEADER_SCAN_ROWS"`
}

// Gradebook converts the configured layout.
func (l LayoutConfig) Gradebook() gradebook.Layout {
	return gradebook.Layout{
		MarkerLabel:       l.MarkerLabel,
		FeedbackColumn:    l.FeedbackColumn,
		RoomColumn:        l.RoomColumn,
		NumberColumn:      l.NumberColumn,
		NameColumn:        l.NameColumn,
		FirstBlockColumn:  l.FirstBlockColumn,
		BlockWidth:        l.BlockWidth,
		ExamAverageColumn: l.ExamAverageColumn,
		FinalGradeColumn:  l.FinalGradeColumn,
		StatusColumn:      l.StatusColumn,
		HeaderScanRows:    l.HeaderScanRows,
	}
}

func layoutConfigFrom(l gradebook.Layout) LayoutConfig {
	return LayoutConfig{
		MarkerLabel:       l.MarkerLabel,
		FeedbackColumn:    l.FeedbackColumn,
		RoomColumn:        l.RoomColumn,
		NumberColumn:      l.NumberColumn,
		NameColumn:        l.NameColumn,
		FirstBlockColumn:  l.FirstBlockColumn,
		BlockWidth:        l.BlockWidth,
		ExamAverageColumn: l.ExamAverageColumn,
		FinalGradeColumn:  l.FinalGradeColumn,
		StatusColumn:      l.StatusColumn,
		HeaderScanRows:    l.HeaderScanRows,
	}
}

// ChartsConfig sizes the SVG charts.
type ChartsConfig struct {
	Width  int `yaml:"width" envconfig:"WIDTH"`
	Height int `yaml:"height" envconfig:"HEIGHT"`
}

// WebSocketConfig contains WebSocket configuration
type WebSocketConfig struct {
	ReadBufferSize  int           `yaml:"read_buffer_size" envconfig:"READ_BUFFER_SIZE"`
	WriteBufferSize int           `yaml:"write_buffer_size" envconfig:"WRITE_BUFFER_SIZE"`
	PingPeriod      time.Duration `yaml:"ping_period" envconfig:"PING_PERIOD"`
	PongWait        time.Duration `yaml:"pong_wait" envconfig:"PONG_WAIT"`
	WriteWait       time.Duration `yaml:"write_wait" envconfig:"WRITE_WAIT"`
	MaxMessageSize  int64         `yaml:"max_message_size" envconfig:"MAX_MESSAGE_SIZE"`
}

// TelemetryConfig selects the OpenTelemetry exporters.
type TelemetryConfig struct {
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	EnableMetrics  bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	EnableTracing  bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER"` // stdout or none
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO"`
}

// Load builds the configuration from the defaults, an optional YAML file
// and the environment, each overriding the previous one. The file is the
// one named by PAINEL_CONFIG, or the first config.yaml found in the usual
// locations.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file. An empty path skips the
// file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Variables that are not set leave the field untouched since no field
	// carries an envconfig default.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file on cfg. Keys missing from the file
// keep their current value.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid log output: %q", c.Logging.Output)
	}

	// JSON is the only supported log format
	c.Logging.Format = "json"

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}

	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload max bytes must be positive")
	}

	if c.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache max entries must be positive")
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative")
	}

	if err := c.Layout.Gradebook().Validate(); err != nil {
		return err
	}

	if c.WebSocket.PingPeriod >= c.WebSocket.PongWait {
		return fmt.Errorf("websocket ping period must be shorter than pong wait")
	}

	switch c.Telemetry.TraceExporter {
	case "stdout", "none":
	default:
		return fmt.Errorf("unsupported trace exporter: %q", c.Telemetry.TraceExporter)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     20,
				Burst:   40,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Upload: UploadConfig{
			MaxBytes: 10 << 20, // 10MB
		},
		Cache: CacheConfig{
			TTL:           2 * time.Hour,
			MaxEntries:    20,
			SweepInterval: 5 * time.Minute,
		},
		Layout: layoutConfigFrom(gradebook.DefaultLayout()),
		Charts: ChartsConfig{
			Width:  800,
			Height: 450,
		},
		WebSocket: WebSocketConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingPeriod:      30 * time.Second,
			PongWait:        60 * time.Second,
			WriteWait:       10 * time.Second,
			MaxMessageSize:  512,
		},
		Telemetry: TelemetryConfig{
			Environment:    "development",
			EnableMetrics:  true,
			EnableTracing:  false,
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
	}
}
