// Command dispatcher consumes the normalized-telemetry queue, runs the
// repository round trip, writes the read-cache and history archive, and
// fans each reading out to the alerts exchange.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	amqpinfra "github.com/coldtrail/iot-broker/internal/amqp"
	"github.com/coldtrail/iot-broker/internal/app"
	"github.com/coldtrail/iot-broker/internal/business"
	"github.com/coldtrail/iot-broker/internal/cache"
	"github.com/coldtrail/iot-broker/internal/history"
	"github.com/coldtrail/iot-broker/internal/metrics"
	"github.com/coldtrail/iot-broker/internal/repository"
)

const serviceName = "dispatcher"

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

	readingCache, err := cache.New(b.Config.RedisAddr, 10*time.Minute)
	if err != nil {
		b.Log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer readingCache.Close()

	mongoClient, err := connectMongo(b.Config.MongoURI)
	if err != nil {
		b.Log.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	store := history.NewStore(mongoClient)
	repo := repository.New()

	dispatch := business.NewDispatchService(amqpClient, repo, readingCache, store, b.Log)
	topo := business.DispatchTopology(dispatch)

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

	b.Log.Info("dispatcher started")
	<-ctx.Done()
	b.Log.Info("dispatcher shutting down")
}

func connectMongo(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return client, nil
}
