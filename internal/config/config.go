package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
)

type Config struct {
	AppPort string

	MySQLHost string
	MySQLPort string
	MySQLDB   string
	MySQLUser string
	MySQLPass string

	RedisAddr string
	RedisDB   int

	IdempTTLSecs int

	// Fallbacks when the rate store has no live value.
	PenaltyRateDefault         decimal.Decimal
	FinancingPercentageDefault decimal.Decimal
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getdecimal(k, d string) decimal.Decimal {
	raw := getenv(k, d)
	v, err := decimal.NewFromString(raw)
	if err != nil {
		v, _ = decimal.NewFromString(d)
	}
	return v
}

func Load() *Config {
	c := &Config{
		AppPort:   getenv("APP_PORT", "8080"),
		MySQLHost: getenv("MYSQL_HOST", "mysql"),
		MySQLPort: getenv("MYSQL_PORT", "3306"),
		MySQLDB:   getenv("MYSQL_DB", "backoffice"),
		MySQLUser: getenv("MYSQL_USER", "backoffice"),
		MySQLPass: getenv("MYSQL_PASS", "backoffice"),

		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		IdempTTLSecs: 300,

		PenaltyRateDefault:         getdecimal("PENALTY_RATE_DEFAULT", "3"),
		FinancingPercentageDefault: getdecimal("FINANCING_PERCENTAGE_DEFAULT", "15"),
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RedisDB = n
		}
	}
	if v := os.Getenv("IDEMPOTENCY_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.IdempTTLSecs = n
		}
	}
	return c
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	// ensure port is valid
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if !c.PenaltyRateDefault.IsPositive() {
		return errors.New("PENALTY_RATE_DEFAULT must be positive")
	}
	if !c.FinancingPercentageDefault.IsPositive() || c.FinancingPercentageDefault.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("FINANCING_PERCENTAGE_DEFAULT must be in (0, 100]")
	}
	return nil
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// multiStatements=true is handy for migrations; parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?multiStatements=true&parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
