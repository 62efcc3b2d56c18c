package controller

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/nimbuslabs/nimbus-vps-service/config"
	"github.com/nimbuslabs/nimbus-vps-service/infra"
	"github.com/nimbuslabs/nimbus-vps-service/repository"
	"github.com/nimbuslabs/nimbus-vps-service/utils"
)

type Controller struct {
	Config     *config.Config
	Infra      *infra.Infra
	Repository *repository.Repository
	tracer     trace.Tracer
}

func NewController(config *config.Config, infra *infra.Infra, repo *repository.Repository) *Controller {
	if repo == nil {
		panic("Failed to initialize Repository")
	}
	return &Controller{
		Config:     config,
		Infra:      infra,
		Repository: repo,
		tracer:     otel.Tracer("nimbus-vps-service/http"),
	}
}

func (ctrl *Controller) HealthCheck(c *gin.Context) {
	utils.JSON200(c, gin.H{"status": "ok"})
}

// accountFromContext returns the identity the auth middleware resolved
// for this request, or nil when the middleware did not run.
func accountFromContext(c *gin.Context) *infra.AccountIdentity {
	value, exists := c.Get("account")
	if !exists {
		return nil
	}
	account, ok := value.(*infra.AccountIdentity)
	if !ok {
		return nil
	}
	return account
}
