package dto

import (
	appdto "github.com/orris-inc/rbnotify/internal/application/roomblocking/dto"
)

// DecisionRequest is the body of the approve and reject endpoints.
// The acting user comes from the access token, never from the body.
type DecisionRequest struct {
	Reason string `json:"reason" binding:"max=2000"`
}

func (r *DecisionRequest) ToApplicationDTO(blockedRoomID, actorID uint, approve bool) appdto.DecideBlockedRoomRequest {
	return appdto.DecideBlockedRoomRequest{
		BlockedRoomID: blockedRoomID,
		ActorID:       actorID,
		Approve:       approve,
		Reason:        r.Reason,
	}
}
