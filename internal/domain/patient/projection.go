package patient

import "github.com/telecare/medgate/internal/domain/access"

// Project returns a copy of the record reduced to the fields the given
// capability set allows. It is pure and idempotent: projecting an already
// projected record with the same or narrower capabilities changes nothing.
//
// Insurance and payment details are stripped unconditionally. Financial
// data is outside this engine's authorization scope and is served, if at
// all, by a separate stricter path.
func Project(r *Record, caps access.CapabilitySet) *Record {
	if r == nil {
		return nil
	}

	out := *r
	out.Insurance = nil
	out.PaymentInfo = nil

	if !caps.ViewContactInfo {
		out.ContactInfo = ContactInfo{}
	}
	if !caps.ViewMedicalHistory {
		out.MedicalHistory = nil
		out.Allergies = nil
		out.Medications = nil
	}
	if !caps.ViewEmergencyInfo {
		out.EmergencyContact = nil
	}

	return &out
}
