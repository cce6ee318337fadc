// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper fron a config file or environement variables.
type Config struct {
	DBDriver                  string        `mapstructure:"DB_DRIVER"`
	DBSource                  string        `mapstructure:"DB_SOURCE"`
	ServerAddress             string        `mapstructure:"SERVER_ADDRESS"`
	Environement              string        `mapstructure:"GO_ENV"`
	FXLockTTL                 time.Duration `mapstructure:"FX_LOCK_TTL"`
	FXRateKESUSD              float64       `mapstructure:"FX_RATE_KES_USD"`
	FXRateUSDKES              float64       `mapstructure:"FX_RATE_USD_KES"`
	SecretTTL                 time.Duration `mapstructure:"SECRET_TTL"`
	SecretCipherKey           string        `mapstructure:"SECRET_CIPHER_KEY"`
	DepositDailyLimitCents    int64         `mapstructure:"DEPOSIT_DAILY_LIMIT_KES_CENTS"`
	WithdrawalDailyLimitCents int64         `mapstructure:"WITHDRAWAL_DAILY_LIMIT_USD_CENTS"`
}

// Load read configuration from file or environment variables.
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
