// Command ingestor subscribes to MQTT telemetry topics, decodes each
// payload, and republishes it onto the AMQP ingest exchange.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	amqpinfra "github.com/coldtrail/iot-broker/internal/amqp"
	"github.com/coldtrail/iot-broker/internal/app"
	"github.com/coldtrail/iot-broker/internal/business"
	"github.com/coldtrail/iot-broker/internal/metrics"
	"github.com/coldtrail/iot-broker/internal/mqtt"
)

const serviceName = "ingestor"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := app.Start(ctx, serviceName)
	if err != nil {
		panic(err)
	}
	defer b.Shutdown(context.Background())

	amqpClient, err := amqpinfra.Connect(b.Config)
	if err != nil {
		b.Log.Error("failed to connect to amqp", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	if err := amqpinfra.Install(amqpClient, business.IngestTopology()); err != nil {
		b.Log.Error("failed to install topology", "error", err)
		os.Exit(1)
	}

	mqttMetrics := metrics.NewMQTTMetrics(serviceName)
	mqttClient, err := mqtt.Connect(b.Config, mqttMetrics, b.Log)
	if err != nil {
		b.Log.Error("failed to connect to mqtt broker", "error", err)
		os.Exit(1)
	}
	defer mqttClient.Disconnect()

	ingest := business.NewIngestService(amqpClient, b.Log)
	if err := mqttClient.Subscribe("iot/data/temp/#", mqtt.IoT(mqtt.IoTTemp), 1, ingest); err != nil {
		b.Log.Error("failed to subscribe", "error", err)
		os.Exit(1)
	}

	metricsServer := b.ServeMetrics(b.Config.MetricsAddr)
	defer metricsServer.Shutdown(context.Background())

	b.Log.Info("ingestor started")
	<-ctx.Done()
	b.Log.Info("ingestor shutting down")
}
