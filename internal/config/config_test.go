package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coldtrail/iot-broker/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load("test-app")

	require.Equal(t, "test-app", cfg.AppName)
	require.Equal(t, config.EnvLocal, cfg.Env)
	require.Equal(t, "localhost", cfg.MQTTHost)
	require.Equal(t, 1883, cfg.MQTTPort)
	require.Equal(t, "guest", cfg.AMQPUser)
}

func TestAMQPUri(t *testing.T) {
	cfg := &config.Config{AMQPUser: "u", AMQPPassword: "p", AMQPHost: "h", AMQPPort: 5672}
	require.Equal(t, "amqp://u:p@h:5672", cfg.AMQPUri())
}

func TestMQTTBrokerUri(t *testing.T) {
	cfg := &config.Config{MQTTHost: "broker", MQTTPort: 1883}
	require.Equal(t, "tcp://broker:1883", cfg.MQTTBrokerUri())
}

func TestGetEnv_Fallback(t *testing.T) {
	require.Equal(t, "fallback", config.GetEnv("IOT_BROKER_UNSET_VAR", "fallback"))
}
