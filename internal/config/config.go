// Package config loads the broker's runtime configuration from environment
// variables, optionally seeded from a local .env file.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment selects the log handler: text in local, JSON otherwise.
type Environment string

const (
	EnvLocal   Environment = "local"
	EnvDev     Environment = "dev"
	EnvStaging Environment = "staging"
	EnvProd    Environment = "prod"
)

// Config is the full set of knobs spec.md §6 names, plus the per-binary
// addresses the worker processes need.
type Config struct {
	AppName string
	Env     Environment
	LogLevel string

	MQTTHost     string
	MQTTPort     int
	MQTTUser     string
	MQTTPassword string
	MQTTClientID string
	// MQTTVerboseLogging mirrors infra/src/env/configs.rs's
	// enable_rumqttc_logging. It is loaded but not read by any package;
	// the MQTT client's own debug logger is never attached.
	MQTTVerboseLogging bool

	AMQPHost     string
	AMQPPort     int
	AMQPUser     string
	AMQPPassword string

	OTLPHost        string
	OTLPKey         string
	OTLPServiceType string
	OTLPExportTime  time.Duration

	GRPCAddr    string
	MetricsAddr string
	ConsulAddr  string
	RedisAddr   string
	MongoURI    string
}

// Load reads .env (if present) then populates Config from the environment,
// applying the same defaults infra/src/env/configs.rs's mock() ships.
func Load(appName string) *Config {
	_ = godotenv.Load()

	return &Config{
		AppName:  appName,
		Env:      Environment(GetEnv("ENV", string(EnvLocal))),
		LogLevel: GetEnv("LOG_LEVEL", "info"),

		MQTTHost:           GetEnv("MQTT_HOST", "localhost"),
		MQTTPort:           getEnvInt("MQTT_PORT", 1883),
		MQTTUser:           GetEnv("MQTT_USER", ""),
		MQTTPassword:       GetEnv("MQTT_PASSWORD", ""),
		MQTTClientID:       GetEnv("MQTT_CLIENT_ID", appName),
		MQTTVerboseLogging: getEnvBool("MQTT_VERBOSE_LOGGING", false),

		AMQPHost:     GetEnv("AMQP_HOST", "localhost"),
		AMQPPort:     getEnvInt("AMQP_PORT", 5672),
		AMQPUser:     GetEnv("AMQP_USER", "guest"),
		AMQPPassword: GetEnv("AMQP_PASSWORD", "guest"),

		OTLPHost:        GetEnv("OTLP_HOST", "localhost:4317"),
		OTLPKey:         GetEnv("OTLP_KEY", ""),
		OTLPServiceType: GetEnv("OTLP_SERVICE_TYPE", "worker"),
		OTLPExportTime:  getEnvDuration("OTLP_EXPORT_TIMEOUT", 10*time.Second),

		GRPCAddr:    GetEnv("GRPC_ADDR", ":9090"),
		MetricsAddr: GetEnv("METRICS_ADDR", ":2112"),
		ConsulAddr:  GetEnv("CONSUL_ADDR", "localhost:8500"),
		RedisAddr:   GetEnv("REDIS_ADDR", "localhost:6379"),
		MongoURI:    GetEnv("MONGO_URI", "mongodb://localhost:27017"),
	}
}

// AMQPUri builds the amqp091-go connection string.
func (c *Config) AMQPUri() string {
	return "amqp://" + c.AMQPUser + ":" + c.AMQPPassword + "@" + c.AMQPHost + ":" + strconv.Itoa(c.AMQPPort)
}

// MQTTBrokerUri builds the tcp broker URI paho expects.
func (c *Config) MQTTBrokerUri() string {
	return "tcp://" + c.MQTTHost + ":" + strconv.Itoa(c.MQTTPort)
}

// GetEnv retrieves an environment variable or returns a default value.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// MustGetEnv retrieves an environment variable or panics if not set.
func MustGetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		panic("required environment variable not set: " + key)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}
