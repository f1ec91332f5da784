package main

import (
	"fmt"
	"time"

	"github.com/hotelgrid/procure"
)

// AppConfig is the root configuration document. Values come from config files
// and environment overrides loaded through the config container.
type AppConfig struct {
	Server      Server         `json:"server" koanf:"server"`
	Auth        procure.Config `json:"auth" koanf:"auth"`
	Persistence Persistence    `json:"persistence" koanf:"persistence"`
}

type Server struct {
	Address string `json:"address" koanf:"address"`
}

type Persistence struct {
	DSN                   string `json:"dsn" koanf:"dsn"`
	PingTimeoutExpression string `json:"ping_timeout" koanf:"ping_timeout"`
}

func (a *AppConfig) Validate() error {
	if a.Auth.GetSigningKey() == "" {
		return fmt.Errorf("auth.signing_key is required")
	}
	return nil
}

func (a *AppConfig) GetServer() Server           { return a.Server }
func (a *AppConfig) GetAuth() procure.Config     { return a.Auth }
func (a *AppConfig) GetPersistence() Persistence { return a.Persistence }

func (s Server) GetAddress() string {
	if s.Address == "" {
		return ":8572"
	}
	return s.Address
}

func (p Persistence) GetDSN() string {
	if p.DSN == "" {
		return "file:procure.db?cache=shared&mode=rwc"
	}
	return p.DSN
}

func (p Persistence) GetPingTimeout() time.Duration {
	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil {
		return 5 * time.Second
	}
	return dur
}
