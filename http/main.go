package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/nimbuslabs/nimbus-vps-service/config"
	"github.com/nimbuslabs/nimbus-vps-service/http/controller"
	routes "github.com/nimbuslabs/nimbus-vps-service/http/route"
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
	defer infra.Telemetry.Shutdown(context.Background())
	defer func() { _ = infra.Logger.Shutdown(context.Background()) }()

	repo := repository.InitRepository(infra)

	ctrl := controller.NewController(cfg, infra, repo)

	router := routes.SetupRouter(ctrl)

	addr := ":" + cfg.EnvConfig.Server.Port
	log.Println("HTTP Server started on", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
