// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Gateway       GatewayConfig       `mapstructure:"gateway"`
	Reengagement  ReengagementConfig  `mapstructure:"reengagement"`
	BusinessHours BusinessHoursConfig `mapstructure:"business_hours"`
	Middleware    MiddlewareConfig    `mapstructure:"middleware"`
}

type ServerConfig struct {
	Port         string `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// GatewayConfig describes the outbound messaging gateway endpoint.
type GatewayConfig struct {
	URL            string               `mapstructure:"url"`
	AuthKey        string               `mapstructure:"auth_key"`
	TimeoutSeconds int                  `mapstructure:"timeout_seconds"`
	MaxRetries     int                  `mapstructure:"max_retries"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type CircuitBreakerConfig struct {
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"`
	Timeout          int     `mapstructure:"timeout"`
	FailureRatio     float64 `mapstructure:"failure_ratio"`
	ConsecutiveFails uint32  `mapstructure:"consecutive_fails"`
}

// ReengagementConfig collects the scheduling-engine knobs. The thresholds are
// business assumptions inherited from the original rollout and are
// configuration, not constants.
type ReengagementConfig struct {
	FirstFollowUpDelayMinutes       int `mapstructure:"first_followup_delay_minutes"`
	SecondFollowUpDelayHours        int `mapstructure:"second_followup_delay_hours"`
	MaxAttempts                     int `mapstructure:"max_attempts"`
	ExecutorTickSeconds             int `mapstructure:"executor_tick_seconds"`
	MonitorTickSeconds              int `mapstructure:"monitor_tick_seconds"`
	ClaimBatchSize                  int `mapstructure:"claim_batch_size"`
	StaleProcessingThresholdMinutes int `mapstructure:"stale_processing_threshold_minutes"`
	SendConcurrency                 int `mapstructure:"send_concurrency"`
	InactivityFirstMinutes          int `mapstructure:"inactivity_first_minutes"`
	InactivitySecondHours           int `mapstructure:"inactivity_second_hours"`
	InactivityDropDays              int `mapstructure:"inactivity_drop_days"`
	ContextWindowMessages           int `mapstructure:"context_window_messages"`
}

type BusinessHoursConfig struct {
	WeekdayStart  int `mapstructure:"weekday_start"`
	WeekdayEnd    int `mapstructure:"weekday_end"`
	SaturdayStart int `mapstructure:"saturday_start"`
	SaturdayEnd   int `mapstructure:"saturday_end"`
}

type MiddlewareConfig struct {
	RateLimit      int      `mapstructure:"rate_limit"`
	RateLimitBurst int      `mapstructure:"rate_limit_burst"`
	EnableCORS     bool     `mapstructure:"enable_cors"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", 10)
	viper.SetDefault("server.write_timeout", 10)
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("gateway.timeout_seconds", 30)
	viper.SetDefault("gateway.max_retries", 3)
	viper.SetDefault("gateway.circuit_breaker.max_requests", 3)
	viper.SetDefault("gateway.circuit_breaker.interval", 60)
	viper.SetDefault("gateway.circuit_breaker.timeout", 60)
	viper.SetDefault("gateway.circuit_breaker.failure_ratio", 0.6)
	viper.SetDefault("gateway.circuit_breaker.consecutive_fails", 5)
	viper.SetDefault("reengagement.first_followup_delay_minutes", 30)
	viper.SetDefault("reengagement.second_followup_delay_hours", 24)
	viper.SetDefault("reengagement.max_attempts", 2)
	viper.SetDefault("reengagement.executor_tick_seconds", 60)
	viper.SetDefault("reengagement.monitor_tick_seconds", 60)
	viper.SetDefault("reengagement.claim_batch_size", 50)
	viper.SetDefault("reengagement.stale_processing_threshold_minutes", 10)
	viper.SetDefault("reengagement.send_concurrency", 5)
	viper.SetDefault("reengagement.inactivity_first_minutes", 30)
	viper.SetDefault("reengagement.inactivity_second_hours", 24)
	viper.SetDefault("reengagement.inactivity_drop_days", 7)
	viper.SetDefault("reengagement.context_window_messages", 20)
	viper.SetDefault("business_hours.weekday_start", 8)
	viper.SetDefault("business_hours.weekday_end", 18)
	viper.SetDefault("business_hours.saturday_start", 9)
	viper.SetDefault("business_hours.saturday_end", 13)
	viper.SetDefault("middleware.rate_limit", 100)
	viper.SetDefault("middleware.rate_limit_burst", 1000)
	viper.SetDefault("middleware.enable_cors", true)
	viper.SetDefault("middleware.allowed_origins", []string{"*"})

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// GetDSN returns PostgreSQL connection string.
func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// FirstDelay returns the delay before the first follow-up attempt.
func (r *ReengagementConfig) FirstDelay() time.Duration {
	return time.Duration(r.FirstFollowUpDelayMinutes) * time.Minute
}

// SecondDelay returns the delay before every later attempt.
func (r *ReengagementConfig) SecondDelay() time.Duration {
	return time.Duration(r.SecondFollowUpDelayHours) * time.Hour
}

// StaleThreshold returns the age after which a PROCESSING claim is considered
// orphaned and eligible for re-queueing.
func (r *ReengagementConfig) StaleThreshold() time.Duration {
	return time.Duration(r.StaleProcessingThresholdMinutes) * time.Minute
}
