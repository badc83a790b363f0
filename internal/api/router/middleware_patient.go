package router

import (
	"net/http"
	"strings"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/identity"
)

const patientHeader = "X-Patient-Id"

// requirePatientID rejects requests without the patient header.
func requirePatientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		patientID := strings.TrimSpace(r.Header.Get(patientHeader))
		if patientID == "" {
			http.Error(w, `{"error": "missing X-Patient-Id"}`, http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r.WithContext(identity.WithPatientID(r.Context(), patientID)))
	})
}

// optionalPatientID forwards the patient header when present.
func optionalPatientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if patientID := strings.TrimSpace(r.Header.Get(patientHeader)); patientID != "" {
			r = r.WithContext(identity.WithPatientID(r.Context(), patientID))
		}
		next.ServeHTTP(w, r)
	})
}
