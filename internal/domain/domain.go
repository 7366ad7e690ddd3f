package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RoleNurse   Role = "nurse"
	RolePatient Role = "patient"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse, RolePatient:
		return true
	}
	return false
}

// IsClinician reports whether the role is eligible for the emergency
// override path. Admins administer the system; they do not treat patients.
func (r Role) IsClinician() bool {
	return r == RoleDoctor || r == RoleNurse
}

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
	DeletedAt *time.Time `gorm:"index"`

	Email        string `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null"`
	FirstName    string `gorm:"column:first_name;type:varchar(100);not null"`
	LastName     string `gorm:"column:last_name;type:varchar(100);not null"`
	Role         Role   `gorm:"column:role;type:varchar(30);not null;index"`

	// For patient role, links to their patient record
	PatientID *uuid.UUID `gorm:"column:patient_id;type:uuid;index"`

	IsActive          bool       `gorm:"column:is_active;default:true;index"`
	FailedLoginCount  int        `gorm:"column:failed_login_count;default:0"`
	LockedUntil       *time.Time `gorm:"column:locked_until"`
	LastLoginAt       *time.Time `gorm:"column:last_login_at"`
	PasswordChangedAt time.Time  `gorm:"column:password_changed_at"`
}

func (User) TableName() string {
	return "auth.users"
}

// IsLocked returns true if the account is temporarily locked due to failed logins.
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}

type AuditAction string

const (
	ActionView   AuditAction = "view"
	ActionModify AuditAction = "modify"
	ActionCreate AuditAction = "create"
	ActionDelete AuditAction = "delete"
	ActionLogin  AuditAction = "login"
)

func (a AuditAction) IsValid() bool {
	switch a {
	case ActionView, ActionModify, ActionCreate, ActionDelete, ActionLogin:
		return true
	}
	return false
}

type ResourceType string

const (
	ResourcePatientRecord      ResourceType = "patient_record"
	ResourceAppointment        ResourceType = "appointment"
	ResourceEmergencyTransport ResourceType = "emergency_transport"
	ResourceConsentGrant       ResourceType = "consent_grant"
	ResourceSession            ResourceType = "session"
)

// AuditEntry is an append-only record of a single access decision or
// lifecycle event. Entries are never updated or deleted once written;
// consent history is reconstructed from them.
type AuditEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OccurredAt time.Time `gorm:"autoCreateTime;index"`

	// Who
	ActorID   uuid.UUID `gorm:"column:actor_id;type:uuid;not null;index"`
	ActorRole Role      `gorm:"column:actor_role;type:varchar(30);not null"`
	IPAddress string    `gorm:"column:ip_address;type:varchar(45)"` // Supports IPv6

	// What
	Action       AuditAction  `gorm:"column:action;type:varchar(20);not null;index"`
	ResourceType ResourceType `gorm:"column:resource_type;type:varchar(50);not null;index"`
	ResourceID   string       `gorm:"column:resource_id;type:varchar(50);index"`

	// Outcome of the governed decision
	Granted           bool   `gorm:"column:granted;not null;index"`
	EmergencyOverride bool   `gorm:"column:emergency_override;not null"`
	Reason            string `gorm:"column:reason;type:varchar(50);index"`
	Justification     string `gorm:"column:justification;type:text"`

	RequestID string `gorm:"column:request_id;type:varchar(50);index"`
}

func (AuditEntry) TableName() string {
	return "audit.entries"
}

// AuditQuery filters the audit trail for the admin search endpoint.
type AuditQuery struct {
	ActorID    *uuid.UUID
	ResourceID string
	From       *time.Time
	To         *time.Time
	Limit      int
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"` // Always "Bearer"
}

type Claims struct {
	UserID    uuid.UUID  `json:"sub"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	PatientID *uuid.UUID `json:"patient_id,omitempty"`
}
