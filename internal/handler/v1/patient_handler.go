package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/telecare/medgate/internal/service"
)

type PatientHandler struct {
	patientSvc *service.PatientService
}

func NewPatientHandler(patientSvc *service.PatientService) *PatientHandler {
	return &PatientHandler{patientSvc: patientSvc}
}

// Get serves a patient record projected to the caller's capabilities.
func (h *PatientHandler) Get(c *gin.Context) {
	claims := callerClaims(c)
	if claims == nil {
		respondError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}

	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	rec, err := h.patientSvc.GetPatient(
		c.Request.Context(),
		id,
		claims.UserID,
		claims.Role,
		claims.PatientID,
		c.ClientIP(),
		requestID(c),
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, rec)
}
