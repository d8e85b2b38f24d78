// Command apiserver exposes the latest-reading read path over gRPC,
// backed by the same cache-aside read service the dispatcher writes.
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coldtrail/iot-broker/internal/app"
	"github.com/coldtrail/iot-broker/internal/business"
	"github.com/coldtrail/iot-broker/internal/cache"
	"github.com/coldtrail/iot-broker/internal/history"
	"github.com/coldtrail/iot-broker/internal/repository"
	"github.com/coldtrail/iot-broker/internal/rpc"
)

const serviceName = "apiserver"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := app.Start(ctx, serviceName)
	if err != nil {
		panic(err)
	}
	defer b.Shutdown(context.Background())

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
	read := business.NewReadService(repo, readingCache, store)

	srv := rpc.NewServer(read, b.Log)

	lis, err := net.Listen("tcp", b.Config.GRPCAddr)
	if err != nil {
		b.Log.Error("failed to listen", "addr", b.Config.GRPCAddr, "error", err)
		os.Exit(1)
	}

	registration, err := b.Register(ctx, serviceName, b.Config.GRPCAddr)
	if err != nil {
		b.Log.Warn("failed to register with consul", "error", err)
	} else {
		defer registration.Deregister(context.Background())
	}

	metricsServer := b.ServeMetrics(b.Config.MetricsAddr)
	defer metricsServer.Shutdown(context.Background())

	go func() {
		<-ctx.Done()
		srv.GracefulStop()
	}()

	b.Log.Info("apiserver started", "addr", b.Config.GRPCAddr)
	if err := srv.Serve(lis); err != nil {
		b.Log.Error("grpc server stopped", "error", err)
	}
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
