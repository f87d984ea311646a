package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "DISPATCH"

type Server struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DB struct {
	Path string `mapstructure:"path"`
}

type Auth struct {
	Token string `mapstructure:"token"`
}

type Commission struct {
	Timezone string `mapstructure:"timezone"`
}

type Archive struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
	Region string `mapstructure:"region"`
}

type Settings struct {
	Server     Server     `mapstructure:"server"`
	DB         DB         `mapstructure:"db"`
	Auth       Auth       `mapstructure:"auth"`
	Commission Commission `mapstructure:"commission"`
	Archive    Archive    `mapstructure:"archive"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("db.path", "dispatch.db")
	v.SetDefault("auth.token", "")
	v.SetDefault("commission.timezone", "Local")
	v.SetDefault("archive.bucket", "")
	v.SetDefault("archive.prefix", "commission")
	v.SetDefault("archive.region", "")
}

// Load reads settings from path (optional, any format viper understands) and
// DISPATCH_* environment variables, e.g. DISPATCH_SERVER_PORT.
func Load(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse dispatch config: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Settings) Validate() error {
	var errs []error
	if s.Server.Port <= 0 || s.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", s.Server.Port))
	}
	if s.DB.Path == "" {
		errs = append(errs, errors.New("db.path is required"))
	}
	if _, err := s.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Settings) Addr() string {
	return net.JoinHostPort(s.Server.Host, strconv.Itoa(s.Server.Port))
}

// Location resolves commission.timezone. Empty and "Local" mean the host zone.
func (s *Settings) Location() (*time.Location, error) {
	if s.Commission.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Commission.Timezone)
	if err != nil {
		return nil, fmt.Errorf("commission.timezone: %w", err)
	}
	return loc, nil
}
