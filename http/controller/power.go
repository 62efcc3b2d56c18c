package controller

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nimbuslabs/nimbus-vps-service/entity"
	"github.com/nimbuslabs/nimbus-vps-service/http/controller/dto"
	"github.com/nimbuslabs/nimbus-vps-service/repository"
	"github.com/nimbuslabs/nimbus-vps-service/utils"
)

// ExecutePowerCommand applies poweron, poweroff or reboot to an instance
// the caller owns. Invalid transitions are ordinary 400 responses, not
// failures; the instance state is untouched on rejection.
func (ctrl *Controller) ExecutePowerCommand(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vps] user_id not found in context")
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	var req dto.PowerCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON422(c, "Validation failed", dto.IssuesFromBindingError(&req, err))
		return
	}

	instanceID, err := uuid.Parse(req.ID)
	if err != nil {
		utils.JSON422(c, "Validation failed", []dto.ValidationIssue{
			{Field: "id", Message: "must be a valid UUID"},
		})
		return
	}

	instance, err := ctrl.Repository.VpsInstanceRepo.FindByIDAndUserID(instanceID, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			utils.JSON404(c, "VPS not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vps] Failed to fetch instance %s: %v", instanceID, err)
		utils.JSON500(c, "Error fetching server")
		return
	}

	transition, err := entity.ApplyPowerCommand(instance.Status, req.Command, time.Now().UTC())
	if err != nil {
		ctrl.Infra.Logger.InfoWithContextf(ctx, "[Vps] Rejected %s on instance %s (%s): %v",
			req.Command, instance.ID, instance.Status, err)
		utils.JSON400(c, err.Error())
		return
	}

	if err := ctrl.Repository.VpsInstanceRepo.UpdatePowerState(instance.ID, transition.Status, transition.LastStartup); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vps] Failed to update instance %s status: %v", instance.ID, err)
		utils.JSON500(c, "Failed to update VPS status")
		return
	}

	instance.Status = transition.Status
	instance.Power = entity.PowerFromStatus(transition.Status)
	instance.LastStartup = transition.LastStartup
	ctrl.publishLifecycleEvent(ctx, instance, req.Command)

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Vps] Executed %s on instance %s, status now %s",
		req.Command, instance.ID, transition.Status)
	utils.JSON200(c, gin.H{
		"message": fmt.Sprintf("VPS %s command executed", req.Command),
		"status":  transition.Status,
	})
}
