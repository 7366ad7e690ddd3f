package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/telecare/medgate/internal/domain"
	"github.com/telecare/medgate/internal/domain/access"
	"github.com/telecare/medgate/internal/domain/consent"
	"github.com/telecare/medgate/internal/resolver"
	"github.com/telecare/medgate/pkg/metrics"
)

// AccessRequest describes one access attempt against a patient's record.
// A zero Requested set means "everything the consent tier allows"; a
// non-zero set narrows the grant to at most what was asked for.
type AccessRequest struct {
	ActorID   uuid.UUID
	ActorRole domain.Role
	PatientID uuid.UUID
	Requested access.CapabilitySet
	Action    domain.AuditAction

	IPAddress string
	RequestID string
}

// AccessService is the authorization engine. It is stateless across calls;
// every dependency comes in through the constructor and every failure path
// resolves to a concrete, audited decision.
type AccessService struct {
	relationship resolver.Relationship
	consents     resolver.Consent
	emergencies  resolver.Emergency
	auditSvc     *AuditService
	log          *zap.Logger
	collector    *metrics.Collector

	resolverTimeout time.Duration
	now             func() time.Time
}

func NewAccessService(
	relationship resolver.Relationship,
	consents resolver.Consent,
	emergencies resolver.Emergency,
	auditSvc *AuditService,
	log *zap.Logger,
	collector *metrics.Collector,
	resolverTimeout time.Duration,
) *AccessService {
	if resolverTimeout <= 0 {
		resolverTimeout = 2 * time.Second
	}
	return &AccessService{
		relationship:    relationship,
		consents:        consents,
		emergencies:     emergencies,
		auditSvc:        auditSvc,
		log:             log,
		collector:       collector,
		resolverTimeout: resolverTimeout,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Authorize decides whether the actor may access the patient's record and
// with which capabilities. Exactly one audit entry is written per call,
// before the decision is returned. Resolver failures become denials; only
// a malformed request or an unconfirmed audit write surface as errors.
func (s *AccessService) Authorize(ctx context.Context, req AccessRequest) (access.Decision, error) {
	if err := validateAccessRequest(&req); err != nil {
		return access.Decision{}, err
	}

	ctx, span := otel.Tracer("medgate/access").Start(ctx, "access.authorize",
		trace.WithAttributes(
			attribute.String("actor.role", string(req.ActorRole)),
			attribute.String("audit.action", string(req.Action)),
		))
	defer span.End()

	start := s.now()
	decision := s.decide(ctx, req)
	decision.DecidedAt = s.now()

	span.SetAttributes(
		attribute.Bool("decision.granted", decision.Granted),
		attribute.Bool("decision.emergency_override", decision.ViaEmergencyOverride),
		attribute.String("decision.reason", decision.Reason),
	)
	s.observe(decision, s.now().Sub(start))

	if err := s.audit(ctx, req, decision); err != nil {
		// Fail closed: without a confirmed audit entry no access is
		// served, grant or not.
		return access.Deny(decision.Reason), err
	}

	return decision, nil
}

func (s *AccessService) decide(ctx context.Context, req AccessRequest) access.Decision {
	// Life-safety exception: an active emergency episode grants a
	// clinician the narrow emergency capability set without relationship
	// or consent checks. A failing emergency feed never widens access,
	// so its errors degrade to "no override" rather than a denial.
	if req.ActorRole.IsClinician() {
		emergencyCtx, cancel := context.WithTimeout(ctx, s.resolverTimeout)
		active, err := s.emergencies.Resolve(emergencyCtx, req.PatientID)
		cancel()
		switch {
		case err != nil:
			s.resolverFailed("emergency", err)
		case active:
			return access.Decision{
				Granted:              true,
				Capabilities:         access.EmergencySet(),
				ViaEmergencyOverride: true,
				Reason:               access.ReasonEmergencyOverride,
			}
		}
	}

	var (
		related bool
		grant   *consent.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rctx, cancel := context.WithTimeout(gctx, s.resolverTimeout)
		defer cancel()
		var err error
		related, err = s.relationship.Resolve(rctx, req.ActorID, req.PatientID)
		if err != nil {
			s.resolverFailed("relationship", err)
		}
		return err
	})
	g.Go(func() error {
		cctx, cancel := context.WithTimeout(gctx, s.resolverTimeout)
		defer cancel()
		var err error
		grant, err = s.consents.Resolve(cctx, req.PatientID, req.ActorID)
		if err != nil {
			s.resolverFailed("consent", err)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return access.Deny(access.ReasonResolverUnavailable)
	}

	if !related {
		return access.Deny(access.ReasonNoRelationship)
	}

	now := s.now()
	switch {
	case grant == nil:
		return access.Deny(access.ReasonNoConsent)
	case !grant.IsActive:
		return access.Deny(access.ReasonConsentRevoked)
	case grant.Expired(now):
		return access.Deny(access.ReasonConsentExpired)
	}

	caps := grant.Tier.Capabilities()
	if !req.Requested.IsZero() {
		// Principle of least privilege: never grant more than was asked
		// for, even when the tier allows it.
		caps = caps.Intersect(req.Requested)
	}
	if caps.IsZero() {
		return access.Deny(access.ReasonTierInsufficient)
	}

	return access.Decision{
		Granted:      true,
		Capabilities: caps,
		Reason:       access.ReasonGranted,
	}
}

func (s *AccessService) audit(ctx context.Context, req AccessRequest, d access.Decision) error {
	entry := &domain.AuditEntry{
		ActorID:           req.ActorID,
		ActorRole:         req.ActorRole,
		IPAddress:         req.IPAddress,
		Action:            req.Action,
		ResourceType:      domain.ResourcePatientRecord,
		ResourceID:        req.PatientID.String(),
		Granted:           d.Granted,
		EmergencyOverride: d.ViaEmergencyOverride,
		Reason:            d.Reason,
		RequestID:         req.RequestID,
	}
	if d.ViaEmergencyOverride {
		entry.Justification = "active emergency transport episode"
	}
	return s.auditSvc.Record(ctx, entry)
}

func (s *AccessService) observe(d access.Decision, elapsed time.Duration) {
	outcome := "denied"
	switch {
	case d.ViaEmergencyOverride:
		outcome = "override"
	case d.Granted:
		outcome = "granted"
	}

	if s.collector != nil {
		s.collector.DecisionsTotal.WithLabelValues(outcome).Inc()
		s.collector.DecisionDuration.Observe(elapsed.Seconds())
	}

	if !d.Granted {
		s.log.Info("access denied", zap.String("reason", d.Reason))
	} else if d.ViaEmergencyOverride {
		s.log.Warn("emergency override granted")
	}
}

func (s *AccessService) resolverFailed(name string, err error) {
	s.log.Error("resolver failed", zap.String("resolver", name), zap.Error(err))
	if s.collector != nil {
		s.collector.ResolverFailuresTotal.WithLabelValues(name).Inc()
	}
}

func validateAccessRequest(req *AccessRequest) error {
	var errs []string

	if req.ActorID == uuid.Nil {
		errs = append(errs, "actor_id is required")
	}
	if req.PatientID == uuid.Nil {
		errs = append(errs, "patient_id is required")
	}
	if !req.ActorRole.IsValid() {
		errs = append(errs, "actor_role is invalid")
	}
	if req.Action == "" {
		req.Action = domain.ActionView
	} else if !req.Action.IsValid() {
		errs = append(errs, "action is invalid")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
