package access

import "time"

// CapabilitySet enumerates the fine-grained permissions an actor can hold
// over a patient's record. The zero value grants nothing.
type CapabilitySet struct {
	ViewMedicalHistory   bool `json:"view_medical_history"`
	ViewContactInfo      bool `json:"view_contact_info"`
	ViewEmergencyInfo    bool `json:"view_emergency_info"`
	ModifyRecords        bool `json:"modify_records"`
	Prescribe            bool `json:"prescribe"`
	ScheduleAppointments bool `json:"schedule_appointments"`
}

func (c CapabilitySet) IsZero() bool {
	return c == CapabilitySet{}
}

// Intersect returns the capabilities present in both sets.
func (c CapabilitySet) Intersect(o CapabilitySet) CapabilitySet {
	return CapabilitySet{
		ViewMedicalHistory:   c.ViewMedicalHistory && o.ViewMedicalHistory,
		ViewContactInfo:      c.ViewContactInfo && o.ViewContactInfo,
		ViewEmergencyInfo:    c.ViewEmergencyInfo && o.ViewEmergencyInfo,
		ModifyRecords:        c.ModifyRecords && o.ModifyRecords,
		Prescribe:            c.Prescribe && o.Prescribe,
		ScheduleAppointments: c.ScheduleAppointments && o.ScheduleAppointments,
	}
}

// IsSubsetOf reports whether every capability in c is also in o.
func (c CapabilitySet) IsSubsetOf(o CapabilitySet) bool {
	return c.Intersect(o) == c
}

// FullSet returns all six capabilities.
func FullSet() CapabilitySet {
	return CapabilitySet{
		ViewMedicalHistory:   true,
		ViewContactInfo:      true,
		ViewEmergencyInfo:    true,
		ModifyRecords:        true,
		Prescribe:            true,
		ScheduleAppointments: true,
	}
}

// EmergencySet is the fixed, narrow grant made on the emergency override
// path. It is deliberately not widened by the requested capabilities.
func EmergencySet() CapabilitySet {
	return CapabilitySet{ViewEmergencyInfo: true}
}

// ConsentTier is a patient-granted access level. Each tier maps to exactly
// one CapabilitySet; the mapping is closed over the enum so a new tier
// cannot ship without a row in the table.
type ConsentTier string

const (
	TierFullAccess       ConsentTier = "full_access"
	TierConsultationOnly ConsentTier = "consultation_only"
	TierEmergencyOnly    ConsentTier = "emergency_only"
)

func (t ConsentTier) IsValid() bool {
	switch t {
	case TierFullAccess, TierConsultationOnly, TierEmergencyOnly:
		return true
	}
	return false
}

// Capabilities resolves the tier through the static tier table. An unknown
// tier resolves to the zero set, never to a grant.
func (t ConsentTier) Capabilities() CapabilitySet {
	switch t {
	case TierFullAccess:
		return FullSet()
	case TierConsultationOnly:
		return CapabilitySet{
			ViewMedicalHistory:   true,
			ModifyRecords:        true,
			Prescribe:            true,
			ScheduleAppointments: true,
		}
	case TierEmergencyOnly:
		return EmergencySet()
	}
	return CapabilitySet{}
}

// Decision reason codes. These are written to the audit trail and logs;
// they are never returned verbatim to a denied actor.
const (
	ReasonGranted             = "granted"
	ReasonEmergencyOverride   = "emergency_override"
	ReasonNoRelationship      = "no_relationship"
	ReasonNoConsent           = "no_consent"
	ReasonConsentExpired      = "consent_expired"
	ReasonConsentRevoked      = "consent_revoked"
	ReasonTierInsufficient    = "tier_insufficient"
	ReasonResolverUnavailable = "resolver_unavailable"
)

// Decision is the outcome of a single authorization call. It is derived
// per call and never persisted; the audit trail holds its durable trace.
type Decision struct {
	Granted              bool          `json:"granted"`
	Capabilities         CapabilitySet `json:"capabilities"`
	ViaEmergencyOverride bool          `json:"via_emergency_override"`
	Reason               string        `json:"-"`
	DecidedAt            time.Time     `json:"decided_at"`
}

// Deny returns a denied decision with the zero capability set.
func Deny(reason string) Decision {
	return Decision{Reason: reason, DecidedAt: time.Now().UTC()}
}
