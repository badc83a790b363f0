// Package identity carries the authenticated caller through request contexts.
package identity

import "context"

type ctxKey string

const (
	patientKey      ctxKey = "clinic.patient_id"
	practitionerKey ctxKey = "clinic.practitioner_id"
)

// WithPatientID stores the patient id in context.
func WithPatientID(ctx context.Context, patientID string) context.Context {
	return context.WithValue(ctx, patientKey, patientID)
}

// PatientIDFromContext extracts the patient id if present.
func PatientIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, patientKey)
}

// WithPractitionerID stores the practitioner id (JWT subject) in context.
func WithPractitionerID(ctx context.Context, practitionerID string) context.Context {
	return context.WithValue(ctx, practitionerKey, practitionerID)
}

// PractitionerIDFromContext extracts the practitioner id if present.
func PractitionerIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, practitionerKey)
}

func stringValue(ctx context.Context, key ctxKey) (string, bool) {
	val := ctx.Value(key)
	if val == nil {
		return "", false
	}
	id, ok := val.(string)
	return id, ok && id != ""
}
