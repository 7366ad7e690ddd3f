package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/telecare/medgate/internal/config"
	"github.com/telecare/medgate/internal/domain"
	"github.com/telecare/medgate/internal/domain/access"
	"github.com/telecare/medgate/internal/domain/consent"
	"github.com/telecare/medgate/internal/service"
	"github.com/telecare/medgate/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeRelationship struct{ related bool }

func (f fakeRelationship) Resolve(ctx context.Context, clinicianID, patientID uuid.UUID) (bool, error) {
	return f.related, nil
}

type fakeConsent struct{ rec *consent.Record }

func (f fakeConsent) Resolve(ctx context.Context, patientID, clinicianID uuid.UUID) (*consent.Record, error) {
	return f.rec, nil
}

type fakeEmergency struct{ active bool }

func (f fakeEmergency) Resolve(ctx context.Context, patientID uuid.UUID) (bool, error) {
	return f.active, nil
}

type fakeAuditStore struct {
	mu      sync.Mutex
	entries []*domain.AuditEntry
	failing bool
}

func (s *fakeAuditStore) Create(ctx context.Context, e *domain.AuditEntry) error {
	if s.failing {
		return errors.New("sink down")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func (s *fakeAuditStore) Search(ctx context.Context, q domain.AuditQuery) ([]*domain.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.AuditEntry(nil), s.entries...), nil
}

// ---------------------------------------------------------------------------
// Harness
// ---------------------------------------------------------------------------

type handlerFixture struct {
	router     *gin.Engine
	jwtManager *auth.JWTManager
	store      *fakeAuditStore
}

func newFixture(t *testing.T, rel fakeRelationship, con fakeConsent, emg fakeEmergency, store *fakeAuditStore) *handlerFixture {
	t.Helper()

	log := zap.NewNop()
	auditSvc := service.NewAuditService(store, log, nil, time.Second)
	accessSvc := service.NewAccessService(rel, con, emg, auditSvc, log, nil, time.Second)

	jwtManager := auth.NewJWTManager(config.JWTConfig{
		Secret:          "integration-test-secret-0123456789ab",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "medgate-test",
	})

	router := gin.New()
	router.Use(RequestID())
	authed := router.Group("/v1", Authenticate(jwtManager))
	authed.POST("/authorize", NewAccessHandler(accessSvc).Authorize)

	return &handlerFixture{router: router, jwtManager: jwtManager, store: store}
}

func (f *handlerFixture) token(t *testing.T, role domain.Role) string {
	t.Helper()
	pair, err := f.jwtManager.GenerateTokenPair(&domain.Claims{
		UserID: uuid.New(),
		Email:  "clinician@example.com",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}
	return pair.AccessToken
}

func (f *handlerFixture) post(t *testing.T, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/v1/authorize", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

type decisionEnvelope struct {
	Data struct {
		Granted              bool                 `json:"granted"`
		Capabilities         access.CapabilitySet `json:"capabilities"`
		ViaEmergencyOverride bool                 `json:"via_emergency_override"`
		Reason               string               `json:"reason"`
	} `json:"data"`
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestAuthorizeEndpointGrant(t *testing.T) {
	store := &fakeAuditStore{}
	f := newFixture(t,
		fakeRelationship{related: true},
		fakeConsent{rec: &consent.Record{Tier: access.TierFullAccess, IsActive: true, GrantedAt: time.Now()}},
		fakeEmergency{},
		store,
	)

	w := f.post(t, f.token(t, domain.RoleDoctor), gin.H{"patient_id": uuid.New()})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	var env decisionEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !env.Data.Granted {
		t.Error("expected granted=true")
	}
	if env.Data.Reason != "" {
		t.Error("the decision reason must not appear on the wire")
	}
	if len(store.entries) != 1 {
		t.Errorf("audit entries = %d, want 1", len(store.entries))
	}
	if got := store.entries[0].RequestID; got == "" {
		t.Error("the audit entry must carry the request id")
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("responses must echo a request id")
	}
}

func TestAuthorizeEndpointDenyIsOK(t *testing.T) {
	f := newFixture(t,
		fakeRelationship{related: false},
		fakeConsent{},
		fakeEmergency{},
		&fakeAuditStore{},
	)

	w := f.post(t, f.token(t, domain.RoleDoctor), gin.H{"patient_id": uuid.New()})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (a deny is a decision, not an error)", w.Code)
	}

	var env decisionEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Data.Granted {
		t.Error("expected granted=false")
	}
	if env.Data.Reason != "" {
		t.Error("denial reasons stay in the audit trail, not the response")
	}
}

func TestAuthorizeEndpointEmergencyOverride(t *testing.T) {
	f := newFixture(t,
		fakeRelationship{},
		fakeConsent{},
		fakeEmergency{active: true},
		&fakeAuditStore{},
	)

	w := f.post(t, f.token(t, domain.RoleNurse), gin.H{"patient_id": uuid.New()})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var env decisionEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !env.Data.Granted || !env.Data.ViaEmergencyOverride {
		t.Errorf("decision = %+v, want an override grant", env.Data)
	}
	if !env.Data.Capabilities.ViewEmergencyInfo || env.Data.Capabilities.ViewMedicalHistory {
		t.Errorf("capabilities = %+v, want only the emergency set", env.Data.Capabilities)
	}
}

func TestAuthorizeEndpointAuditOutageIs502(t *testing.T) {
	f := newFixture(t,
		fakeRelationship{related: true},
		fakeConsent{rec: &consent.Record{Tier: access.TierFullAccess, IsActive: true, GrantedAt: time.Now()}},
		fakeEmergency{},
		&fakeAuditStore{failing: true},
	)

	w := f.post(t, f.token(t, domain.RoleDoctor), gin.H{"patient_id": uuid.New()})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Code != "AUDIT_UNAVAILABLE" {
		t.Errorf("code = %q, want AUDIT_UNAVAILABLE", resp.Code)
	}
}

func TestAuthorizeEndpointRequiresAuth(t *testing.T) {
	f := newFixture(t, fakeRelationship{}, fakeConsent{}, fakeEmergency{}, &fakeAuditStore{})

	w := f.post(t, "", gin.H{"patient_id": uuid.New()})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	w = f.post(t, "not-a-jwt", gin.H{"patient_id": uuid.New()})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status with garbage token = %d, want 401", w.Code)
	}
}

func TestAuthorizeEndpointRejectsActorSpoofing(t *testing.T) {
	f := newFixture(t,
		fakeRelationship{related: true},
		fakeConsent{rec: &consent.Record{Tier: access.TierFullAccess, IsActive: true, GrantedAt: time.Now()}},
		fakeEmergency{},
		&fakeAuditStore{},
	)

	// A non-admin naming a different actor_id is refused outright.
	w := f.post(t, f.token(t, domain.RoleDoctor), gin.H{
		"patient_id": uuid.New(),
		"actor_id":   uuid.New(),
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}

	// Admins may authorize on behalf of another principal.
	w = f.post(t, f.token(t, domain.RoleAdmin), gin.H{
		"patient_id": uuid.New(),
		"actor_id":   uuid.New(),
		"actor_role": domain.RoleDoctor,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("admin on-behalf status = %d, want 200; body %s", w.Code, w.Body.String())
	}
}

func TestAuthorizeEndpointMalformedBody(t *testing.T) {
	f := newFixture(t, fakeRelationship{}, fakeConsent{}, fakeEmergency{}, &fakeAuditStore{})

	req := httptest.NewRequest(http.MethodPost, "/v1/authorize", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Authorization", "Bearer "+f.token(t, domain.RoleDoctor))
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestAuthorizeEndpointMissingPatientIsValidationError(t *testing.T) {
	store := &fakeAuditStore{}
	f := newFixture(t, fakeRelationship{}, fakeConsent{}, fakeEmergency{}, store)

	w := f.post(t, f.token(t, domain.RoleDoctor), gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp ValidationErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Fields) == 0 {
		t.Error("expected named invalid fields")
	}
	if len(store.entries) != 0 {
		t.Errorf("audit entries = %d, want 0 for rejected input", len(store.entries))
	}
}
