package config

import (
	"context"
	"time"
)

// Config is the complete configuration of the liora client.
type Config struct {
	API     APIConfig     `koanf:"api"     validate:"required"`
	Lists   ListsConfig   `koanf:"lists"   validate:"required"`
	Notify  NotifyConfig  `koanf:"notify"`
	Runtime RuntimeConfig `koanf:"runtime" validate:"required"`
	CLI     CLIConfig     `koanf:"cli"`
}

// APIConfig configures the back-office REST client.
type APIConfig struct {
	BaseURL         string          `koanf:"base_url"          validate:"required,url" env:"LIORA_API_BASE_URL"`
	Token           SensitiveString `koanf:"token"                                     env:"LIORA_API_TOKEN"           sensitive:"true"`
	Timeout         time.Duration   `koanf:"timeout"           validate:"gt=0"         env:"LIORA_API_TIMEOUT"`
	RetryCount      int             `koanf:"retry_count"       validate:"min=0,max=10" env:"LIORA_API_RETRY_COUNT"`
	RetryWait       time.Duration   `koanf:"retry_wait"                                env:"LIORA_API_RETRY_WAIT"`
	DetailCacheSize int             `koanf:"detail_cache_size" validate:"min=1"        env:"LIORA_API_DETAIL_CACHE_SIZE"`
	DetailCacheTTL  time.Duration   `koanf:"detail_cache_ttl"  validate:"gt=0"         env:"LIORA_API_DETAIL_CACHE_TTL"`
	// ZeroBasedPages sends page numbers the way Spring Data expects them
	ZeroBasedPages bool            `koanf:"zero_based_pages"                          env:"LIORA_API_ZERO_BASED_PAGES"`
	Endpoints      EndpointsConfig `koanf:"endpoints"`
}

// EndpointsConfig holds the collection path of every list type.
type EndpointsConfig struct {
	Orders   string `koanf:"orders"   validate:"required,endpoint_path" env:"LIORA_ENDPOINT_ORDERS"`
	Products string `koanf:"products" validate:"required,endpoint_path" env:"LIORA_ENDPOINT_PRODUCTS"`
	Users    string `koanf:"users"    validate:"required,endpoint_path" env:"LIORA_ENDPOINT_USERS"`
	Login    string `koanf:"login"    validate:"required,endpoint_path" env:"LIORA_ENDPOINT_LOGIN"`
}

// ListsConfig tunes the list controllers.
type ListsConfig struct {
	PageSize       int           `koanf:"page_size"       validate:"min=1,max=200" env:"LIORA_LIST_PAGE_SIZE"`
	SearchDebounce time.Duration `koanf:"search_debounce" validate:"gte=0"         env:"LIORA_LIST_SEARCH_DEBOUNCE"`
	RemotePaging   bool          `koanf:"remote_paging"                            env:"LIORA_LIST_REMOTE_PAGING"`
	Timezone       string        `koanf:"timezone"        validate:"time_zone"     env:"LIORA_LIST_TIMEZONE"`
}

// NotifyConfig sets the toast auto-dismiss timeouts.
type NotifyConfig struct {
	ErrorTimeout time.Duration `koanf:"error_timeout" validate:"gt=0" env:"LIORA_NOTIFY_ERROR_TIMEOUT"`
	InfoTimeout  time.Duration `koanf:"info_timeout"  validate:"gt=0" env:"LIORA_NOTIFY_INFO_TIMEOUT"`
}

// RuntimeConfig contains logging behavior.
type RuntimeConfig struct {
	LogLevel  string `koanf:"log_level"  validate:"oneof=debug info warn error disabled" env:"LIORA_LOG_LEVEL"`
	LogJSON   bool   `koanf:"log_json"                                                   env:"LIORA_LOG_JSON"`
	LogSource bool   `koanf:"log_source"                                                 env:"LIORA_LOG_SOURCE"`
	LogFile   string `koanf:"log_file"                                                   env:"LIORA_LOG_FILE"`
}

// CLIConfig contains CLI-specific configuration.
type CLIConfig struct {
	Mode        string `koanf:"mode"         validate:"oneof=auto tui json" env:"LIORA_MODE"`
	SessionFile string `koanf:"session_file"                                env:"LIORA_SESSION_FILE"`
	NoColor     bool   `koanf:"no_color"                                    env:"LIORA_NO_COLOR"`
}

// Service loads and validates configuration.
type Service interface {
	Load(ctx context.Context, sources ...Source) (*Config, error)
	Validate(config *Config) error
	// GetSource reports which source provided key
	GetSource(key string) SourceType
}

// Source is one layer of configuration values.
type Source interface {
	Load() (map[string]any, error)
	Type() SourceType
	Close() error
}

type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}

const (
	DefaultBaseURL        = "http://localhost:8080"
	DefaultOrdersPath     = "/admin/api/orders"
	DefaultProductsPath   = "/api/products"
	DefaultUsersPath      = "/admin/api/users"
	DefaultLoginPath      = "/api/auth/login"
	DefaultSessionFile    = "~/.liora/session.json"
	DefaultConfigFileName = "liora.yaml"
)

// Load loads configuration from defaults and the environment.
func Load() (*Config, error) {
	return NewService().Load(context.Background())
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:         DefaultBaseURL,
			Timeout:         8 * time.Second,
			RetryCount:      2,
			RetryWait:       500 * time.Millisecond,
			DetailCacheSize: 256,
			DetailCacheTTL:  30 * time.Second,
			ZeroBasedPages:  true,
			Endpoints: EndpointsConfig{
				Orders:   DefaultOrdersPath,
				Products: DefaultProductsPath,
				Users:    DefaultUsersPath,
				Login:    DefaultLoginPath,
			},
		},
		Lists: ListsConfig{
			PageSize:       10,
			SearchDebounce: 300 * time.Millisecond,
			Timezone:       "Asia/Ho_Chi_Minh",
		},
		Notify: NotifyConfig{
			ErrorTimeout: 5 * time.Second,
			InfoTimeout:  3 * time.Second,
		},
		Runtime: RuntimeConfig{
			LogLevel: "info",
		},
		CLI: CLIConfig{
			Mode:        "auto",
			SessionFile: DefaultSessionFile,
		},
	}
}

// Location resolves the configured list timezone, falling back to local time.
func (c *ListsConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
