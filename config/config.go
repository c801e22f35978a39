package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultPath      = "./config/config.yaml"
	envPath          = "CONFIG_PATH"
	envSessionSecret = "SESSION_SECRET"
)

type HTTP struct {
	Addr           string        `yaml:"addr"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	IdleTimeout    time.Duration `yaml:"idleTimeout"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// GRPC enables the room directory when Addr is set.
type GRPC struct {
	Addr        string        `yaml:"addr"`
	CallTimeout time.Duration `yaml:"callTimeout"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|stage|prod
	Service   string `yaml:"service"`   // chat-service
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	Level     string `yaml:"level"`     // debug|info|warn|error
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Session struct {
	CookieName string        `yaml:"cookieName"`
	Secret     string        `yaml:"secret"`
	TTL        time.Duration `yaml:"ttl"`
	Issuer     string        `yaml:"issuer"`
	Secure     bool          `yaml:"secure"`
}

type WS struct {
	PingEvery      time.Duration `yaml:"pingEvery"`
	SendBuffer     int           `yaml:"sendBuffer"`
	MaxMessageSize int64         `yaml:"maxMessageSize"`
	AllowedOrigins []string      `yaml:"allowedOrigins"`
}

type Shutdown struct {
	Timeout time.Duration `yaml:"timeout"`
}

type Config struct {
	HTTP     HTTP     `yaml:"http"`
	GRPC     GRPC     `yaml:"grpc"`
	Logging  Logging  `yaml:"logging"`
	Session  Session  `yaml:"session"`
	WS       WS       `yaml:"ws"`
	Shutdown Shutdown `yaml:"shutdown"`
}

// LoadConfig reads the file named by CONFIG_PATH, or ./config/config.yaml.
func LoadConfig() (*Config, error) {
	path := os.Getenv(envPath)
	if path == "" {
		path = defaultPath
	}
	return Load(path)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies SESSION_SECRET when set, validates and fills
// defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if s := os.Getenv(envSessionSecret); s != "" {
		cfg.Session.Secret = s
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.Session.Secret == "" {
		return errors.New("session.secret is required")
	}
	if c.WS.SendBuffer < 0 {
		return errors.New("ws.sendBuffer must be >= 0")
	}
	if c.WS.MaxMessageSize < 0 {
		return errors.New("ws.maxMessageSize must be >= 0")
	}

	if c.HTTP.ReadTimeout <= 0 {
		c.HTTP.ReadTimeout = 10 * time.Second
	}
	if c.HTTP.WriteTimeout <= 0 {
		c.HTTP.WriteTimeout = 15 * time.Second
	}
	if c.HTTP.IdleTimeout <= 0 {
		c.HTTP.IdleTimeout = 60 * time.Second
	}
	if c.HTTP.RequestTimeout <= 0 {
		c.HTTP.RequestTimeout = 30 * time.Second
	}
	if c.GRPC.CallTimeout <= 0 {
		c.GRPC.CallTimeout = 10 * time.Second
	}

	if c.Logging.Service == "" {
		c.Logging.Service = "chat-service"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}

	if c.Session.CookieName == "" {
		c.Session.CookieName = "chat_session"
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = 24 * time.Hour
	}
	if c.Session.Issuer == "" {
		c.Session.Issuer = "chat-service"
	}

	if c.WS.PingEvery <= 0 {
		c.WS.PingEvery = 15 * time.Second
	}
	if c.WS.SendBuffer == 0 {
		c.WS.SendBuffer = 64
	}
	if c.WS.MaxMessageSize == 0 {
		c.WS.MaxMessageSize = 1 << 16
	}
	if len(c.WS.AllowedOrigins) == 0 {
		c.WS.AllowedOrigins = []string{"*"}
	}

	if c.Shutdown.Timeout <= 0 {
		c.Shutdown.Timeout = 10 * time.Second
	}
	return nil
}
