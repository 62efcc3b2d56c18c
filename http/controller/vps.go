package controller

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nimbuslabs/nimbus-vps-service/entity"
	"github.com/nimbuslabs/nimbus-vps-service/infra"
	"github.com/nimbuslabs/nimbus-vps-service/http/controller/dto"
	"github.com/nimbuslabs/nimbus-vps-service/infra/produce"
	"github.com/nimbuslabs/nimbus-vps-service/repository"
	"github.com/nimbuslabs/nimbus-vps-service/utils"
)

// pendingBootDelay is how long an instance may sit in pending before a
// list read promotes it to on.
const pendingBootDelay = 3 * time.Minute

const storeErrorMessage = "Error creating vps. Please try again later or contact support."

func (ctrl *Controller) CreateVps(c *gin.Context) {
	ctx, span := ctrl.tracer.Start(c.Request.Context(), "vps.create")
	defer span.End()

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vps] user_id not found in context")
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	account := accountFromContext(c)
	if account == nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, nil, "[Vps] account not found in context")
		utils.JSON401(c, "Unauthorized: account not found")
		return
	}

	var req dto.CreateVpsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Vps] Create request failed validation: %v", err)
		utils.JSON422(c, "Validation failed", dto.IssuesFromBindingError(&req, err))
		return
	}
	if issues := req.Validate(); len(issues) > 0 {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Vps] Create request failed cross-field validation: %v", issues)
		utils.JSON422(c, "Validation failed", issues)
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Vps] Creating instance '%s' in '%s' for user_id: %s",
		req.ServerName, req.Location, userID)

	exists, err := ctrl.Repository.VpsInstanceRepo.ExistsByName(req.ServerName)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vps] Error checking server name existence: %v", err)
		utils.JSON400(c, storeErrorMessage)
		return
	}
	if exists {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Vps] Server name '%s' already in use", req.ServerName)
		utils.JSON409(c, "Server name already in use.")
		return
	}

	price := utils.CalculatePrice(utils.PriceInput{
		CPU:     req.CPU,
		RAM:     req.RAM,
		Storage: req.Storage,
		IPv4:    req.IPv4,
	})

	if price.TotalMonthly > account.Credit {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Vps] Insufficient balance for user_id %s: need %.2f, have %.2f",
			userID, price.TotalMonthly, account.Credit)
		utils.JSON402(c, "Insufficient balance.")
		return
	}

	newCredit, err := ctrl.Infra.IdentityService.DebitCredit(ctx, userID, price.TotalMonthly)
	if err != nil {
		if errors.Is(err, infra.ErrInsufficientCredit) {
			utils.JSON402(c, "Insufficient balance.")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vps] Failed to debit credit for user_id %s: %v", userID, err)
		utils.JSON400(c, storeErrorMessage)
		return
	}

	instance := &entity.VpsInstance{
		ID:         uuid.New(),
		UserID:     userID,
		ServerName: req.ServerName,
		CPU:        req.CPU,
		RAM:        req.RAM,
		Storage:    req.Storage,
		IPv4:       utils.GenerateIPv4List(req.IPv4),
		IPv6:       utils.GenerateIPv6List(req.IPv6),
		Status:     entity.StatusPending,
		Power:      entity.PowerOff,
		Location:   req.Location,
		OS:         req.OS,
		AuthMethod: req.AuthMethod,
		CreatedAt:  time.Now().UTC(),
	}

	if err := ctrl.Repository.VpsInstanceRepo.Create(instance); err != nil {
		// Compensate the debit; the balance lives in the identity provider
		// and cannot share a transaction with the insert.
		if _, refundErr := ctrl.Infra.IdentityService.RefundCredit(ctx, userID, price.TotalMonthly); refundErr != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, refundErr,
				"[Vps] Refund of %.2f for user_id %s failed after insert error, manual reconciliation required: %v",
				price.TotalMonthly, userID, refundErr)
		}
		if repository.IsDuplicateKey(err) {
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Vps] Server name '%s' taken by concurrent create", req.ServerName)
			utils.JSON409(c, "Server name already in use.")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vps] Failed to insert instance: %v", err)
		utils.JSON400(c, storeErrorMessage)
		return
	}

	ctrl.invalidateIdentityCache(c)
	ctrl.publishLifecycleEvent(ctx, instance, entity.LifecycleActionCreated)

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Vps] Created instance %s for user_id %s, credit remaining %.2f",
		instance.ID, userID, newCredit)
	utils.JSON201(c, gin.H{
		"message":    "VPS instance created successfully",
		"vps_config": instance,
		"price":      price,
	})
}

func (ctrl *Controller) ListVps(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vps] user_id not found in context")
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	var query dto.ListVpsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.JSON422(c, "Validation failed", dto.IssuesFromBindingError(&query, err))
		return
	}

	instances, total, err := ctrl.Repository.VpsInstanceRepo.FindPageByUserID(
		userID, query.Page, query.PageSize, query.SortBy, query.SortOrder)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vps] Failed to list instances for user_id %s: %v", userID, err)
		utils.JSON500(c, "Error fetching server list")
		return
	}

	// Lazy boot: a pending instance past the boot delay comes back on.
	now := time.Now().UTC()
	for i := range instances {
		if instances[i].Status != entity.StatusPending {
			continue
		}
		if now.Sub(instances[i].CreatedAt) < pendingBootDelay {
			continue
		}
		startedAt := now
		if err := ctrl.Repository.VpsInstanceRepo.UpdatePowerState(instances[i].ID, entity.StatusOn, &startedAt); err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vps] Failed to auto-start instance %s: %v", instances[i].ID, err)
			continue
		}
		instances[i].Status = entity.StatusOn
		instances[i].Power = entity.PowerOn
		instances[i].LastStartup = &startedAt
	}

	utils.JSON200(c, gin.H{
		"server_list": instances,
		"pagination":  dto.NewPagination(query.Page, query.PageSize, total),
	})
}

func (ctrl *Controller) GetVpsByID(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vps] user_id not found in context")
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	instanceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON422(c, "Validation failed", []dto.ValidationIssue{
			{Field: "id", Message: "must be a valid UUID"},
		})
		return
	}

	instance, err := ctrl.Repository.VpsInstanceRepo.FindByIDAndUserID(instanceID, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			// Foreign and absent look identical on purpose.
			utils.JSON404(c, "VPS not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vps] Failed to fetch instance %s: %v", instanceID, err)
		utils.JSON500(c, "Error fetching server")
		return
	}

	utils.JSON200(c, instance)
}

func (ctrl *Controller) DeleteVps(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vps] user_id not found in context")
		utils.JSON401(c, "Unauthorized: user_id not found")
		return
	}

	instanceID, err := uuid.Parse(c.Param("id"))
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

	if err := ctrl.Repository.VpsInstanceRepo.Delete(instance.ID); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vps] Failed to delete instance %s: %v", instance.ID, err)
		utils.JSON500(c, "Failed to delete VPS")
		return
	}

	ctrl.publishLifecycleEvent(ctx, instance, entity.LifecycleActionDeleted)

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Vps] Deleted instance %s for user_id %s", instance.ID, userID)
	utils.JSON200(c, gin.H{"message": "Server deleted successfully."})
}

// publishLifecycleEvent emits an audit event. Publishing is best effort:
// the instance mutation already happened, so failures are only logged.
func (ctrl *Controller) publishLifecycleEvent(ctx context.Context, instance *entity.VpsInstance, action string) {
	if ctrl.Infra.Produce == nil {
		return
	}
	err := ctrl.Infra.Produce.VpsService.PublishLifecycleEvent(ctx, produce.LifecycleEventMessage{
		InstanceID: instance.ID.String(),
		UserID:     instance.UserID.String(),
		ServerName: instance.ServerName,
		Action:     action,
		Status:     instance.Status,
	})
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Vps] Failed to publish %s event for instance %s: %v",
			action, instance.ID, err)
	}
}

// invalidateIdentityCache drops the cached identity after a balance
// change so the next request sees the new credit.
func (ctrl *Controller) invalidateIdentityCache(c *gin.Context) {
	if ctrl.Infra.Redis == nil {
		return
	}
	token := utils.ExtractToken(c)
	if token == "" {
		return
	}
	key := "identity:" + utils.TokenFingerprint(ctrl.Config.EnvConfig.JWT.SecretKey, token)
	_ = ctrl.Infra.Redis.Delete(c.Request.Context(), key)
}
