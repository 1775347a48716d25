package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	IsTestMode     bool     `env:"TEST_MODE" envDefault:"false"`
	Port           int      `env:"PORT" envDefault:"9090"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*"`

	DirectoryBaseURL      url.URL       `env:"DIRECTORY_BASE_URL,required"`
	DirectoryTimeout      time.Duration `env:"DIRECTORY_TIMEOUT" envDefault:"10s"`
	DirectoryExtensionURN string        `env:"DIRECTORY_EXTENSION_URN" envDefault:"urn:selfadmin:schemas:extension:1.0"`
	OneTimeTokenField     string        `env:"ONE_TIME_TOKEN_FIELD" envDefault:"oneTimePassword"`
	OneTimeTokenTimeout   time.Duration `env:"ONE_TIME_TOKEN_TIMEOUT" envDefault:"24h"`

	PasswordLostLinkPrefix url.URL `env:"PASSWORD_LOST_LINK_PREFIX,required"`
	ChangePasswordURL      url.URL `env:"CHANGE_PASSWORD_URL,required"`

	AwsRegion             string `env:"AWS_REGION" envDefault:"us-east-1"`
	AwsAccessKey          string `env:"AWS_ACCESS_KEY,required"`
	AwsSecretKey          string `env:"AWS_SECRET_KEY,required"`
	AwsEmailSender        string `env:"AWS_EMAIL_SENDER,required"`
	AwsEmailResetTemplate string `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE" envDefault:"lostpassword"`
}

func Load() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}
	return config, nil
}
