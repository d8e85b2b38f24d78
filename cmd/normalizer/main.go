// Command normalizer consumes the raw ingest queue, validates each
// reading, and republishes it to the normalized-telemetry exchange.
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
)

const serviceName = "normalizer"

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

	normalize := business.NewNormalizeService(amqpClient, b.Log)
	topo := business.NormalizeTopology(normalize)

	if err := amqpinfra.Install(amqpClient, topo); err != nil {
		b.Log.Error("failed to install topology", "error", err)
		os.Exit(1)
	}

	amqpMetrics := metrics.NewAMQPMetrics(serviceName)
	for _, c := range topo.Consumers {
		if err := amqpinfra.RunConsumer(ctx, amqpClient, c, amqpMetrics, b.Log); err != nil {
			b.Log.Error("failed to start consumer", "consumer", c.Name, "error", err)
			os.Exit(1)
		}
	}

	metricsServer := b.ServeMetrics(b.Config.MetricsAddr)
	defer metricsServer.Shutdown(context.Background())

	b.Log.Info("normalizer started")
	<-ctx.Done()
	b.Log.Info("normalizer shutting down")
}
