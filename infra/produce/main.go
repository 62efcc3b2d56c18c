package produce

import amqp "github.com/rabbitmq/amqp091-go"

type Produce struct {
	VpsService *VpsService
}

var produceInstance *Produce

func InitProduce(channel *amqp.Channel) *Produce {
	if produceInstance != nil {
		return produceInstance
	}

	vpsService := InitVpsService(channel)
	if vpsService == nil {
		panic("Failed to initialize VPS produce service")
	}

	produceInstance = &Produce{
		VpsService: vpsService,
	}

	return produceInstance
}

func GetProduce() *Produce {
	if produceInstance == nil {
		panic("Produce not initialized. Call InitProduce() first.")
	}
	return produceInstance
}
