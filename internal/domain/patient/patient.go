package patient

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderOther   Gender = "other"
	GenderUnknown Gender = "unknown"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther, GenderUnknown:
		return true
	}
	return false
}

// Status represents the lifecycle state of a patient record.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusDeceased Status = "deceased"
)

type ContactInfo struct {
	Phone   string `gorm:"column:phone;type:varchar(20)" json:"phone,omitempty"`
	Email   string `gorm:"column:email;type:varchar(255)" json:"email,omitempty"`
	Address string `gorm:"column:address;type:text" json:"address,omitempty"`
	City    string `gorm:"column:city;type:varchar(100)" json:"city,omitempty"`
	State   string `gorm:"column:state;type:varchar(50)" json:"state,omitempty"`
	ZipCode string `gorm:"column:zip_code;type:varchar(20)" json:"zip_code,omitempty"`
	Country string `gorm:"column:country;type:varchar(100)" json:"country,omitempty"`
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

type Insurance struct {
	Provider      string `json:"provider"`
	PolicyNumber  string `json:"policy_number"`
	GroupNumber   string `json:"group_number"`
	PrimaryHolder string `json:"primary_holder"`
}

// PaymentInfo holds billing details captured by the telehealth checkout.
// Like Insurance it never leaves this service through a projection.
type PaymentInfo struct {
	CardholderName string `json:"cardholder_name"`
	CardLast4      string `json:"card_last4"`
	BillingAddress string `json:"billing_address"`
}

type Record struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"` // Soft Delete

	FirstName   string    `gorm:"column:first_name;type:varchar(100);not null" json:"first_name"`
	LastName    string    `gorm:"column:last_name;type:varchar(100);not null" json:"last_name"`
	DateOfBirth time.Time `gorm:"column:date_of_birth;not null" json:"date_of_birth"`
	Gender      Gender    `gorm:"column:gender;type:varchar(20);not null" json:"gender"`

	ContactInfo `json:"contact_info"`

	MedicalHistory []string `gorm:"column:medical_history;serializer:json" json:"medical_history,omitempty"`
	Allergies      []string `gorm:"column:allergies;serializer:json" json:"allergies,omitempty"`
	Medications    []string `gorm:"column:medications;serializer:json" json:"medications,omitempty"`

	EmergencyContact *EmergencyContact `gorm:"column:emergency_contact;serializer:json" json:"emergency_contact,omitempty"`
	Insurance        *Insurance        `gorm:"column:insurance;serializer:json" json:"insurance,omitempty"`
	PaymentInfo      *PaymentInfo      `gorm:"column:payment_info;serializer:json" json:"payment_info,omitempty"`

	Status           Status     `gorm:"column:status;type:varchar(20);default:'active';index" json:"status"`
	AssignedDoctorID *uuid.UUID `gorm:"column:assigned_doctor_id;type:uuid;index" json:"assigned_doctor_id,omitempty"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null" json:"-"`
}

func (Record) TableName() string {
	return "clinical.patients"
}

func (r *Record) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

func (r *Record) IsActive() bool {
	return r.Status == StatusActive && r.DeletedAt == nil
}
