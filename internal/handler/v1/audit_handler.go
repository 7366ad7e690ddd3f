package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/telecare/medgate/internal/domain"
	"github.com/telecare/medgate/internal/service"
)

type AuditHandler struct {
	auditSvc *service.AuditService
}

func NewAuditHandler(auditSvc *service.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// Search exposes the audit trail to administrators. Entries are written
// only by the services; this surface is read-only.
func (h *AuditHandler) Search(c *gin.Context) {
	q := domain.AuditQuery{
		ResourceID: c.Query("resource_id"),
	}

	if raw := c.Query("actor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid actor_id: must be a valid UUID")
			return
		}
		q.ActorID = &id
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid from: must be RFC3339")
			return
		}
		q.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid to: must be RFC3339")
			return
		}
		q.To = &t
	}
	q.Limit = parseQueryInt(c, "limit", 100)

	entries, err := h.auditSvc.Search(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, entries)
}
