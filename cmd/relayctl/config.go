package main

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr  string `envconfig:"RELAY_ADDR" default:"localhost:8080"`
	Token string `envconfig:"RELAY_TOKEN"`
	// RELAY_COLOURS enables colorized chat output
	Colours bool `envconfig:"RELAY_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
