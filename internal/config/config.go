package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/go-yaml/yaml"
	"github.com/pkg/errors"
)

type Config struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Cache    Cache    `yaml:"cache"`
	Auth     Auth     `yaml:"auth"`
}

type Server struct {
	Addr          string `yaml:"addr"`
	LogLevel      string `yaml:"logLevel"` // debug, info, warn, error
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
}

// Database is populated from the POSTGRES_* environment, never from the file.
type Database struct {
	Pooled   bool   `yaml:"pooled"`
	SSLMode  string `yaml:"sslMode"`
	Host     string `yaml:"-"`
	Port     string `yaml:"-"`
	User     string `yaml:"-"`
	Password string `yaml:"-"`
	Name     string `yaml:"-"`
}

type Cache struct {
	Backend string `yaml:"backend"` // memory, memcached, redis
	TTL     string `yaml:"ttl"`
}

type Auth struct {
	Secret        string `yaml:"-"`
	SessionMaxAge string `yaml:"sessionMaxAge"`
	SecureCookie  bool   `yaml:"secureCookie"`
}

var requiredEnv = []string{
	"POSTGRES_HOST",
	"POSTGRES_PORT",
	"POSTGRES_USER",
	"POSTGRES_PASSWORD",
	"POSTGRES_DATABASE",
	"AUTH_SECRET",
}

func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	err = yaml.NewDecoder(file).Decode(&config)
	if err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}

	err = config.ApplyEnv(os.LookupEnv)
	if err != nil {
		return Config{}, err
	}

	return config, nil
}

// ApplyEnv fills the externally supplied settings. Every required variable
// must be present and non-empty.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var missing []string
	values := map[string]string{}
	for _, key := range requiredEnv {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, key)
			continue
		}
		values[key] = v
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment: %s", strings.Join(missing, ", "))
	}

	c.Database.Host = values["POSTGRES_HOST"]
	c.Database.Port = values["POSTGRES_PORT"]
	c.Database.User = values["POSTGRES_USER"]
	c.Database.Password = values["POSTGRES_PASSWORD"]
	c.Database.Name = values["POSTGRES_DATABASE"]
	c.Auth.Secret = values["AUTH_SECRET"]
	return nil
}

// DSN renders the connection string in URL form so credentials are escaped.
func (d Database) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}
