package infra

import (
	"log"

	"github.com/nimbuslabs/nimbus-vps-service/config"
	"github.com/nimbuslabs/nimbus-vps-service/infra/produce"
)

type Infra struct {
	Postgres        *PostgresClient
	Redis           *RedisClient
	RabbitMQ        *RabbitMQClient
	Logger          *LoggerClient
	Telemetry       *TelemetryClient
	IdentityService *IdentityService
	Produce         *produce.Produce
}

var infraInstance *Infra

func InitInfra(cfg *config.Config) *Infra {
	if infraInstance != nil {
		return infraInstance
	}

	logger := InitLoggerClient(cfg.EnvConfig)
	if logger == nil {
		panic("Failed to initialize Logger service")
	}

	telemetry := InitTelemetryClient(cfg.EnvConfig)

	postgres := InitPostgresClient(cfg.EnvConfig)
	if postgres == nil {
		panic("Failed to initialize Postgres service")
	}

	identityService := InitIdentityService(cfg.EnvConfig)
	if identityService == nil {
		panic("Failed to initialize Identity service")
	}

	// Redis only caches identity lookups; run without it when unset.
	var redis *RedisClient
	if cfg.EnvConfig.Redis.Host != "" {
		redis = InitRedisClient(cfg.EnvConfig)
	} else {
		log.Println("Warning: REDIS_HOST not set, identity cache disabled")
	}

	// RabbitMQ carries the lifecycle audit stream; run without it when unset.
	var rabbitMQ *RabbitMQClient
	var produceService *produce.Produce
	if cfg.EnvConfig.RabbitMQ.Host != "" {
		rabbitMQ = InitRabbitMQClient(cfg.EnvConfig)
		produceService = produce.InitProduce(rabbitMQ.Channel)
		if produceService == nil {
			panic("Failed to initialize Produce service")
		}
	} else {
		log.Println("Warning: RABBITMQ_HOST not set, lifecycle events disabled")
	}

	infraInstance = &Infra{
		Postgres:        postgres,
		Redis:           redis,
		RabbitMQ:        rabbitMQ,
		Logger:          logger,
		Telemetry:       telemetry,
		IdentityService: identityService,
		Produce:         produceService,
	}

	return infraInstance
}

func GetClient() *Infra {
	if infraInstance == nil {
		panic("Infra not initialized. Call InitInfra() first.")
	}
	return infraInstance
}
