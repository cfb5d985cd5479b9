package bankgo

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Database struct {
		ConnectionString string `yaml:"conn_str"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret       string `yaml:"jwt_secret"`
		TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
	} `yaml:"auth"`
	Snowflake struct {
		Node int64 `yaml:"node"`
	} `yaml:"snowflake"`
	Limits struct {
		Deposit  int64 `yaml:"deposit"`
		Withdraw int64 `yaml:"withdraw"`
		Transfer int64 `yaml:"transfer"`
	} `yaml:"limits"`
}

// LoadConfig reads the yaml file at path. Secrets may be overridden
// through BANKGO_DB_CONN_STR and BANKGO_JWT_SECRET so they can stay
// out of the file.
func LoadConfig(path string) (*Config, error) {
	fl, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fl.Close()

	var cfg Config
	if err = yaml.NewDecoder(fl).Decode(&cfg); err != nil {
		return nil, err
	}

	if cs := os.Getenv("BANKGO_DB_CONN_STR"); cs != "" {
		cfg.Database.ConnectionString = cs
	}
	if sec := os.Getenv("BANKGO_JWT_SECRET"); sec != "" {
		cfg.Auth.JWTSecret = sec
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":3000"
	}
	if cfg.Auth.TokenTTLMinutes <= 0 {
		cfg.Auth.TokenTTLMinutes = 24 * 60
	}
	if cfg.Limits.Deposit <= 0 {
		cfg.Limits.Deposit = 256
	}
	if cfg.Limits.Withdraw <= 0 {
		cfg.Limits.Withdraw = 256
	}
	if cfg.Limits.Transfer <= 0 {
		cfg.Limits.Transfer = 256
	}

	if cfg.Database.ConnectionString == "" {
		return nil, fmt.Errorf("database.conn_str is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}

	return &cfg, nil
}
