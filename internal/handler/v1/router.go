package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/telecare/medgate/internal/domain"
	"github.com/telecare/medgate/pkg/auth"
	"github.com/telecare/medgate/pkg/metrics"
)

type RouterDeps struct {
	JWTManager *auth.JWTManager
	Collector  *metrics.Collector

	Auth     *AuthHandler
	Access   *AccessHandler
	Patients *PatientHandler
	Consents *ConsentHandler
	Audit    *AuditHandler
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Observe(deps.Collector))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	api := r.Group("/v1")

	api.POST("/auth/login", deps.Auth.Login)
	api.POST("/auth/refresh", deps.Auth.Refresh)

	authed := api.Group("")
	authed.Use(Authenticate(deps.JWTManager))

	authed.POST("/auth/password", deps.Auth.ChangePassword)

	authed.POST("/authorize", deps.Access.Authorize)
	authed.GET("/patients/:id", deps.Patients.Get)
	authed.GET("/patients/:id/consents", deps.Consents.ListForPatient)
	authed.POST("/consents", deps.Consents.Grant)
	authed.DELETE("/consents/:id", deps.Consents.Revoke)

	authed.GET("/audit", RequireRole(domain.RoleAdmin), deps.Audit.Search)

	return r
}
