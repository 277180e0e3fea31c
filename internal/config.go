package internal

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
)

type Config struct {
	BadgerFilepath      string        `env:"BADGER_FILEPATH,required=true" validate:"required"`
	LogLevel            string        `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR debug info warn error"`
	BufferSize          int           `env:"BUFFER_SIZE,default=256" validate:"min=1"`
	Host                string        `env:"HOST,default=localhost" validate:"required"`
	Port                int           `env:"PORT,default=8080" validate:"min=1,max=65535"`
	RestartInterval     time.Duration `env:"RESTART_INTERVAL,default=1s" validate:"gt=0"`
	MetricInterval      time.Duration `env:"METRIC_INTERVAL,default=1m" validate:"gt=0"`
	IntakeMaxRetries    int           `env:"INTAKE_MAX_RETRIES,default=3" validate:"min=0"`
	IntakeRetryInterval time.Duration `env:"INTAKE_RETRY_INTERVAL,default=500ms" validate:"gt=0"`
	ForwardPollInterval time.Duration `env:"FORWARD_POLL_INTERVAL,default=1s" validate:"gt=0"`
	ForwardBatchSize    int           `env:"FORWARD_BATCH_SIZE,default=50" validate:"min=1"`
	DeadLetterFilepath  string        `env:"DEAD_LETTER_FILEPATH,default=dead_letters.jsonl" validate:"required"`
	PrimaryLineNumber   string        `env:"PRIMARY_LINE_NUMBER"`
	SubscriptionNumbers string        `env:"SUBSCRIPTION_NUMBERS"`
	DefaultIdentity     string        `env:"DEFAULT_IDENTITY,default=+201000000000" validate:"required"`
}

// LoadConfig reads the environment and checks the values before anything is opened.
func LoadConfig() (Config, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, err
	}
	if err := validator.New().Struct(config); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}
