package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/telecare/medgate/internal/domain"
	"github.com/telecare/medgate/internal/domain/access"
	"github.com/telecare/medgate/internal/service"
)

type AccessHandler struct {
	accessSvc *service.AccessService
}

func NewAccessHandler(accessSvc *service.AccessService) *AccessHandler {
	return &AccessHandler{accessSvc: accessSvc}
}

type authorizeRequest struct {
	// ActorID and ActorRole may be set by trusted backend callers
	// authorizing on behalf of another principal; everyone else
	// authorizes as themselves.
	ActorID   *uuid.UUID           `json:"actor_id"`
	ActorRole *domain.Role         `json:"actor_role"`
	PatientID uuid.UUID            `json:"patient_id"`
	Requested access.CapabilitySet `json:"requested_capabilities"`
	Action    domain.AuditAction   `json:"action"`
}

// Authorize runs the decision pipeline and returns the decision as data.
// A deny is a valid outcome, not an error: it comes back 200 with
// granted=false. Only an unconfirmed audit write produces a 5xx.
func (h *AccessHandler) Authorize(c *gin.Context) {
	claims := callerClaims(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req authorizeRequest
	if !bindJSON(c, &req) {
		return
	}

	actorID := claims.UserID
	actorRole := claims.Role
	if req.ActorID != nil && *req.ActorID != claims.UserID {
		if claims.Role != domain.RoleAdmin {
			respondError(c, http.StatusForbidden, "access not permitted")
			return
		}
		actorID = *req.ActorID
		if req.ActorRole != nil {
			actorRole = *req.ActorRole
		}
	}

	decision, err := h.accessSvc.Authorize(c.Request.Context(), service.AccessRequest{
		ActorID:   actorID,
		ActorRole: actorRole,
		PatientID: req.PatientID,
		Requested: req.Requested,
		Action:    req.Action,
		IPAddress: c.ClientIP(),
		RequestID: requestID(c),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, decision)
}
