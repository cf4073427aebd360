package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	appdto "github.com/orris-inc/rbnotify/internal/application/roomblocking/dto"
	"github.com/orris-inc/rbnotify/internal/interfaces/dto"
	"github.com/orris-inc/rbnotify/internal/shared/constants"
	"github.com/orris-inc/rbnotify/internal/shared/logger"
	"github.com/orris-inc/rbnotify/internal/shared/utils"
)

type BlockingCreator interface {
	Execute(ctx context.Context, req appdto.CreateBlockingRequest) (*appdto.BlockingResponse, error)
}

type OwnersNotifier interface {
	ExecuteAs(ctx context.Context, blockingID, userID uint) (*appdto.NotifyOwnersResponse, error)
}

type BlockedRoomDecider interface {
	Execute(ctx context.Context, req appdto.DecideBlockedRoomRequest) (*appdto.DecisionResponse, error)
}

type BlockingHandler struct {
	create BlockingCreator
	notify OwnersNotifier
	decide BlockedRoomDecider
	logger logger.Interface
}

func NewBlockingHandler(create BlockingCreator, notify OwnersNotifier, decide BlockedRoomDecider, logger logger.Interface) *BlockingHandler {
	return &BlockingHandler{
		create: create,
		notify: notify,
		decide: decide,
		logger: logger,
	}
}

// CreateBlocking handles POST /blockings
func (h *BlockingHandler) CreateBlocking(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req appdto.CreateBlockingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create blocking", "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}
	req.CreatorID = userID

	result, err := h.create.Execute(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Blocking created, room owners notified")
}

// NotifyOwners handles POST /blockings/:id/notify-owners
func (h *BlockingHandler) NotifyOwners(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	blockingID, err := utils.ParseUintParam(c, "id", "blocking")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.notify.ExecuteAs(c.Request.Context(), blockingID, userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusAccepted, "Room owners notified", result)
}

// ApproveBlockedRoom handles POST /blocked-rooms/:id/approve
func (h *BlockingHandler) ApproveBlockedRoom(c *gin.Context) {
	h.handleDecision(c, true)
}

// RejectBlockedRoom handles POST /blocked-rooms/:id/reject
func (h *BlockingHandler) RejectBlockedRoom(c *gin.Context) {
	h.handleDecision(c, false)
}

func (h *BlockingHandler) handleDecision(c *gin.Context, approve bool) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	blockedRoomID, err := utils.ParseUintParam(c, "id", "blocked room")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for blocked room decision",
			"blocked_room_id", blockedRoomID,
			"error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.decide.Execute(c.Request.Context(), req.ToApplicationDTO(blockedRoomID, userID, approve))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	message := "Blocked room rejected"
	if approve {
		message = "Blocked room approved"
	}
	utils.SuccessResponse(c, http.StatusOK, message, result)
}

func currentUserID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
