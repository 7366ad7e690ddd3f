package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/telecare/medgate/internal/domain/access"
	"github.com/telecare/medgate/internal/domain/consent"
	"github.com/telecare/medgate/internal/service"
)

type ConsentHandler struct {
	consentSvc *service.ConsentService
}

func NewConsentHandler(consentSvc *service.ConsentService) *ConsentHandler {
	return &ConsentHandler{consentSvc: consentSvc}
}

type grantConsentRequest struct {
	PatientID   uuid.UUID          `json:"patient_id"`
	ClinicianID uuid.UUID          `json:"clinician_id"`
	Tier        access.ConsentTier `json:"tier"`
	ExpiresAt   *time.Time         `json:"expires_at"`
}

func (h *ConsentHandler) Grant(c *gin.Context) {
	claims := callerClaims(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	var req grantConsentRequest
	if !bindJSON(c, &req) {
		return
	}

	rec, err := h.consentSvc.Grant(c.Request.Context(), &consent.GrantConsentCommand{
		PatientID:   req.PatientID,
		ClinicianID: req.ClinicianID,
		Tier:        req.Tier,
		ExpiresAt:   req.ExpiresAt,
	}, claims.UserID, claims.Role, claims.PatientID, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, rec)
}

func (h *ConsentHandler) Revoke(c *gin.Context) {
	claims := callerClaims(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	if err := h.consentSvc.Revoke(c.Request.Context(), id, claims.UserID, claims.Role, claims.PatientID, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"revoked": true})
}

func (h *ConsentHandler) ListForPatient(c *gin.Context) {
	claims := callerClaims(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	patientID, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	recs, err := h.consentSvc.ListForPatient(c.Request.Context(), patientID, claims.Role, claims.PatientID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, recs)
}
