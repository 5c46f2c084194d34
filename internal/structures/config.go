package structures

import (
	"net/http"
	"time"
)

const AppName = "goodsync"

// AppVersion is overridden at build time with -ldflags "-X goodsync/internal/structures.AppVersion=...".
var AppVersion = "0.4.0"

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
	Once       bool
	UID        string
}

type Route struct {
	Url     string
	Handler http.Handler
}

type Account struct {
	UID string `yaml:"uid" validate:"required|isNumber"`
}

type EnkaConfig struct {
	BaseUrl   string        `yaml:"baseUrl" validate:"required|fullUrl"`
	Timeout   time.Duration `yaml:"timeout" validate:"required|min:1"`
	UserAgent string        `yaml:"userAgent"`
}

type TablesConfig struct {
	Path string `yaml:"path" validate:"required"`
}

type OutputConfig struct {
	Dir      string `yaml:"dir" validate:"required"`
	Compress bool   `yaml:"compress"`
}

type PollConfig struct {
	DefaultInterval time.Duration `yaml:"defaultInterval" validate:"required|min:1"`
	Margin          time.Duration `yaml:"margin"`
}

type Server struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port" validate:"uint"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	// TTL in seconds, 0 keeps entries until they are overwritten.
	TTL int `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Once      bool
	Path      string
	Account   Account       `yaml:"account"`
	Enka      EnkaConfig    `yaml:"enka"`
	Tables    TablesConfig  `yaml:"tables"`
	Output    OutputConfig  `yaml:"output"`
	Poll      PollConfig    `yaml:"poll"`
	WebServer Server        `yaml:"webServer"`
	Logger    LoggerConfig  `yaml:"logger"`
	Cache     CacheConfig   `yaml:"cache"`
	Metrics   MetricsConfig `yaml:"metrics"`
}

// Source is the signature written into every collection produced by this build.
func Source() string {
	return AppName + "-" + AppVersion
}
