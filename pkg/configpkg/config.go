// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
type Config struct {
	DBDriver                  string        `mapstructure:"DB_DRIVER"`
	DBSource                  string        `mapstructure:"DB_SOURCE"`
	ServerAddress             string        `mapstructure:"SERVER_ADDRESS"`
	RedisAddress              string        `mapstructure:"REDIS_ADDRESS"`
	TokenSymmetricKey         string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	VerificationTokenKey      string        `mapstructure:"VERIFICATION_TOKEN_KEY"`
	AccessTokenDuration       time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	RefreshTokenDuration      time.Duration `mapstructure:"REFRESH_TOKEN_DURATION"`
	VerificationTokenDuration time.Duration `mapstructure:"VERIFICATION_TOKEN_DURATION"`
	TransferMax               string        `mapstructure:"TRANSFER_MAX"`
	DepositMax                string        `mapstructure:"DEPOSIT_MAX"`
	DepositReviewThreshold    string        `mapstructure:"DEPOSIT_REVIEW_THRESHOLD"`
	WelcomeBonus              string        `mapstructure:"WELCOME_BONUS"`
	SettlementDelayMin        time.Duration `mapstructure:"SETTLEMENT_DELAY_MIN"`
	SettlementDelayMax        time.Duration `mapstructure:"SETTLEMENT_DELAY_MAX"`
	RateLimitQuota            int           `mapstructure:"RATE_LIMIT_QUOTA"`
	RateLimitWindow           time.Duration `mapstructure:"RATE_LIMIT_WINDOW"`
	EmailFrom                 string        `mapstructure:"EMAIL_FROM"`
	EmailPrimaryURL           string        `mapstructure:"EMAIL_PRIMARY_URL"`
	EmailPrimaryKey           string        `mapstructure:"EMAIL_PRIMARY_KEY"`
	EmailFallbackURL          string        `mapstructure:"EMAIL_FALLBACK_URL"`
	EmailFallbackKey          string        `mapstructure:"EMAIL_FALLBACK_KEY"`
	Environment               string        `mapstructure:"GO_ENV"`
}

// Load reads configuration from file or environment variables.
func Load(path string) (Config, error) {
	var c Config

	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		return c, err
	}

	err = viper.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
