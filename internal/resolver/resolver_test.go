package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/telecare/medgate/internal/domain/appointment"
	"github.com/telecare/medgate/internal/domain/patient"
)

type fakePatientStore struct {
	rec *patient.Record
	err error
}

func (f fakePatientStore) GetByID(ctx context.Context, id uuid.UUID) (*patient.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rec, nil
}

func (f fakePatientStore) Create(ctx context.Context, r *patient.Record) error { return nil }
func (f fakePatientStore) Update(ctx context.Context, r *patient.Record) error { return nil }

type fakeAppointmentStore struct {
	hasRelationship bool
	err             error
	gotWindow       *appointment.RelationshipWindow
}

func (f *fakeAppointmentStore) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return nil, appointment.ErrAppointmentNotFound
}

func (f *fakeAppointmentStore) Create(ctx context.Context, a *appointment.Appointment) error {
	return nil
}

func (f *fakeAppointmentStore) HasActiveRelationship(ctx context.Context, clinicianID, patientID uuid.UUID, w appointment.RelationshipWindow) (bool, error) {
	f.gotWindow = &w
	return f.hasRelationship, f.err
}

func TestAppointmentRelationshipResolve(t *testing.T) {
	clinicianID := uuid.New()
	window := appointment.RelationshipWindow{
		Lookback:  90 * 24 * time.Hour,
		Lookahead: 30 * 24 * time.Hour,
	}

	tests := []struct {
		name     string
		patients fakePatientStore
		appts    fakeAppointmentStore
		want     bool
		wantErr  bool
	}{
		{
			name:     "assigned doctor short-circuits",
			patients: fakePatientStore{rec: &patient.Record{AssignedDoctorID: &clinicianID}},
			appts:    fakeAppointmentStore{hasRelationship: false},
			want:     true,
		},
		{
			name:     "windowed appointment",
			patients: fakePatientStore{rec: &patient.Record{}},
			appts:    fakeAppointmentStore{hasRelationship: true},
			want:     true,
		},
		{
			name:     "no relationship at all",
			patients: fakePatientStore{rec: &patient.Record{}},
			appts:    fakeAppointmentStore{hasRelationship: false},
			want:     false,
		},
		{
			name:     "unknown patient is not an error",
			patients: fakePatientStore{err: patient.ErrPatientNotFound},
			appts:    fakeAppointmentStore{},
			want:     false,
		},
		{
			name:     "patient store failure propagates",
			patients: fakePatientStore{err: errors.New("connection reset")},
			appts:    fakeAppointmentStore{},
			wantErr:  true,
		},
		{
			name:     "appointment store failure propagates",
			patients: fakePatientStore{rec: &patient.Record{}},
			appts:    fakeAppointmentStore{err: errors.New("connection reset")},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewAppointmentRelationship(&tt.appts, tt.patients, window)

			got, err := r.Resolve(context.Background(), clinicianID, uuid.New())
			if tt.wantErr {
				if err == nil {
					t.Fatal("Resolve() expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppointmentRelationshipPassesWindow(t *testing.T) {
	window := appointment.RelationshipWindow{
		Lookback:  30 * 24 * time.Hour,
		Lookahead: 7 * 24 * time.Hour,
	}
	appts := &fakeAppointmentStore{}
	r := NewAppointmentRelationship(appts, fakePatientStore{rec: &patient.Record{}}, window)

	if _, err := r.Resolve(context.Background(), uuid.New(), uuid.New()); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if appts.gotWindow == nil || *appts.gotWindow != window {
		t.Errorf("window = %+v, want %+v", appts.gotWindow, window)
	}
}
