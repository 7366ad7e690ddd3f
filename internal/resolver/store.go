package resolver

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/telecare/medgate/internal/domain/appointment"
	"github.com/telecare/medgate/internal/domain/consent"
	"github.com/telecare/medgate/internal/domain/emergency"
	"github.com/telecare/medgate/internal/domain/patient"
)

// AppointmentRelationship resolves treatment relationships from the
// appointment store: either the clinician is the patient's assigned
// doctor, or a relationship-bearing appointment exists inside the window.
type AppointmentRelationship struct {
	appointments appointment.Repository
	patients     patient.Repository
	window       appointment.RelationshipWindow
}

func NewAppointmentRelationship(
	appointments appointment.Repository,
	patients patient.Repository,
	window appointment.RelationshipWindow,
) *AppointmentRelationship {
	return &AppointmentRelationship{appointments: appointments, patients: patients, window: window}
}

func (r *AppointmentRelationship) Resolve(ctx context.Context, clinicianID, patientID uuid.UUID) (bool, error) {
	p, err := r.patients.GetByID(ctx, patientID)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return false, nil
		}
		return false, err
	}
	if p.AssignedDoctorID != nil && *p.AssignedDoctorID == clinicianID {
		return true, nil
	}

	return r.appointments.HasActiveRelationship(ctx, clinicianID, patientID, r.window)
}

// StoreConsent resolves consent grants straight from the consent store.
type StoreConsent struct {
	grants consent.Repository
}

func NewStoreConsent(grants consent.Repository) *StoreConsent {
	return &StoreConsent{grants: grants}
}

func (r *StoreConsent) Resolve(ctx context.Context, patientID, clinicianID uuid.UUID) (*consent.Record, error) {
	return r.grants.GetLatest(ctx, patientID, clinicianID)
}

// DispatchEmergency resolves active episodes from the transport store,
// which mirrors the dispatch service's status feed.
type DispatchEmergency struct {
	transports emergency.Repository
}

func NewDispatchEmergency(transports emergency.Repository) *DispatchEmergency {
	return &DispatchEmergency{transports: transports}
}

func (r *DispatchEmergency) Resolve(ctx context.Context, patientID uuid.UUID) (bool, error) {
	return r.transports.HasActiveEpisode(ctx, patientID)
}
