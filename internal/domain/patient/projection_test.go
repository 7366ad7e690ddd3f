package patient

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/telecare/medgate/internal/domain/access"
)

func fullRecord() *Record {
	return &Record{
		ID:          uuid.New(),
		FirstName:   "Ada",
		LastName:    "Osei",
		DateOfBirth: time.Date(1984, 3, 2, 0, 0, 0, 0, time.UTC),
		Gender:      GenderFemale,
		ContactInfo: ContactInfo{
			Phone:   "+1-555-0101",
			Email:   "ada@example.com",
			Address: "12 Elm St",
			City:    "Springfield",
		},
		MedicalHistory: []string{"asthma"},
		Allergies:      []string{"penicillin"},
		Medications:    []string{"albuterol"},
		EmergencyContact: &EmergencyContact{
			Name: "Kofi Osei", Relationship: "spouse", Phone: "+1-555-0102",
		},
		Insurance:   &Insurance{Provider: "Acme Health", PolicyNumber: "P-1"},
		PaymentInfo: &PaymentInfo{CardholderName: "Ada Osei", CardLast4: "4242"},
		Status:      StatusActive,
	}
}

func TestProjectStripsByCapability(t *testing.T) {
	tests := []struct {
		name  string
		caps  access.CapabilitySet
		check func(t *testing.T, got *Record)
	}{
		{
			name: "zero capabilities strip everything sensitive",
			caps: access.CapabilitySet{},
			check: func(t *testing.T, got *Record) {
				if got.ContactInfo != (ContactInfo{}) {
					t.Error("contact info must be stripped")
				}
				if got.MedicalHistory != nil || got.Allergies != nil || got.Medications != nil {
					t.Error("medical fields must be stripped")
				}
				if got.EmergencyContact != nil {
					t.Error("emergency contact must be stripped")
				}
			},
		},
		{
			name: "emergency info only",
			caps: access.EmergencySet(),
			check: func(t *testing.T, got *Record) {
				if got.EmergencyContact == nil {
					t.Error("emergency contact must survive")
				}
				if got.ContactInfo != (ContactInfo{}) || got.MedicalHistory != nil {
					t.Error("other sensitive fields must still be stripped")
				}
			},
		},
		{
			name: "medical history without contact info",
			caps: access.TierConsultationOnly.Capabilities(),
			check: func(t *testing.T, got *Record) {
				if got.MedicalHistory == nil || got.Allergies == nil || got.Medications == nil {
					t.Error("medical fields must survive")
				}
				if got.ContactInfo != (ContactInfo{}) {
					t.Error("contact info must be stripped")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(fullRecord(), tt.caps)
			tt.check(t, got)

			// Demographics always survive.
			if got.FirstName != "Ada" || got.ID == uuid.Nil {
				t.Error("demographic fields must not be stripped")
			}
		})
	}
}

func TestProjectAlwaysStripsFinancialData(t *testing.T) {
	// Check every corner of the capability lattice that matters, including
	// the full set: financial fields never survive a projection.
	for _, caps := range []access.CapabilitySet{
		{},
		access.EmergencySet(),
		access.TierConsultationOnly.Capabilities(),
		access.FullSet(),
	} {
		got := Project(fullRecord(), caps)
		if got.Insurance != nil {
			t.Errorf("insurance leaked under %+v", caps)
		}
		if got.PaymentInfo != nil {
			t.Errorf("payment info leaked under %+v", caps)
		}
	}
}

func TestProjectIdempotent(t *testing.T) {
	caps := access.TierConsultationOnly.Capabilities()

	once := Project(fullRecord(), caps)
	twice := Project(once, caps)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Project is not idempotent:\nonce  = %+v\ntwice = %+v", once, twice)
	}
}

func TestProjectMonotone(t *testing.T) {
	narrow := access.EmergencySet()
	wide := access.FullSet()
	if !narrow.IsSubsetOf(wide) {
		t.Fatal("test setup: narrow must be a subset of wide")
	}

	rec := fullRecord()
	narrowed := Project(rec, narrow)
	widened := Project(rec, wide)

	// Every field surviving the narrow projection survives the wide one.
	if narrowed.EmergencyContact != nil && widened.EmergencyContact == nil {
		t.Error("wide projection lost a field the narrow one kept")
	}
	// And projecting the wide output with the narrow set equals the narrow output.
	if !reflect.DeepEqual(Project(widened, narrow), narrowed) {
		t.Error("narrowing a wide projection must equal the narrow projection")
	}
}

func TestProjectNil(t *testing.T) {
	if Project(nil, access.FullSet()) != nil {
		t.Error("projecting nil must return nil")
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	rec := fullRecord()
	_ = Project(rec, access.CapabilitySet{})

	if rec.Insurance == nil || rec.PaymentInfo == nil || rec.EmergencyContact == nil {
		t.Error("Project must not mutate its input")
	}
	if rec.ContactInfo.Email == "" {
		t.Error("Project must not mutate embedded contact info")
	}
}
