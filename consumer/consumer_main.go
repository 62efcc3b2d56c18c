package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/nimbuslabs/nimbus-vps-service/config"
	"github.com/nimbuslabs/nimbus-vps-service/consumer/worker"
	infraPkg "github.com/nimbuslabs/nimbus-vps-service/infra"
	"github.com/nimbuslabs/nimbus-vps-service/repository"
)

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	infra := infraPkg.InitInfra(cfg)
	repo := repository.InitRepository(infra)

	if infra.RabbitMQ == nil {
		log.Fatal("RabbitMQ is required for the lifecycle consumer, set RABBITMQ_HOST")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lifecycleConsumer := worker.NewLifecycleConsumer(infra.RabbitMQ.Channel, infra, repo)
	if err := lifecycleConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start lifecycle consumer: %v", err)
		log.Fatalf("Failed to start lifecycle consumer: %v", err)
	}

	log.Println("Lifecycle consumer started, waiting for events")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("Shutting down lifecycle consumer")
	cancel()
	infra.RabbitMQ.Close()
	_ = infra.Logger.Shutdown(context.Background())
	infra.Telemetry.Shutdown(context.Background())
}
