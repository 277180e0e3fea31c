package main

import "github.com/kelseyhightower/envconfig"

type Config struct {
	// INBOX_DB_PATH points at an SQLite copy of the platform message database
	InboxDBPath         string `envconfig:"INBOX_DB_PATH"`
	PrimaryLineNumber   string `envconfig:"PRIMARY_LINE_NUMBER"`
	SubscriptionNumbers string `envconfig:"SUBSCRIPTION_NUMBERS"`
	DefaultIdentity     string `envconfig:"DEFAULT_IDENTITY" default:"+201000000000"`
	LogLevel            string `envconfig:"LOG_LEVEL" default:"WARN"`
	// HISTORY_JSON dumps the listing as JSON instead of coloured lines
	JSON    bool `envconfig:"HISTORY_JSON" default:"false"`
	Colours bool `envconfig:"HISTORY_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
