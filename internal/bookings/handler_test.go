package bookings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/identity"
	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

func newTestRouter(t *testing.T) (http.Handler, *Service) {
	t.Helper()
	svc, _ := newTestService(t)
	h := NewHandler(svc, logging.Discard())

	r := chi.NewRouter()
	r.Post("/api/appointments", h.Create)
	r.Delete("/api/appointments/{appointmentID}", h.Cancel)
	r.Get("/api/patients/{patientID}/appointments", h.ListForPatient)
	return r, svc
}

func TestHandlerCreate(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"patientId":"p-1","therapyId":"virechana","date":"2025-12-01","time":"10:30","notes":"n"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp CreateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Appointment)
	assert.Equal(t, resp.BookingID, resp.Appointment.ID)
	assert.Equal(t, "confirmed", string(resp.Appointment.Status))
}

func TestHandlerCreateUsesPatientFromContext(t *testing.T) {
	router, svc := newTestRouter(t)

	body := `{"therapyId":"nasya","date":"2025-12-01","time":"09:00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body))
	req = req.WithContext(identity.WithPatientID(req.Context(), "p-ctx"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	items, err := svc.ListForPatient(context.Background(), "p-ctx")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestHandlerCreateErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []struct {
		name string
		body string
		code int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"invalid request", `{"patientId":"p-1","therapyId":"nasya","date":"soon","time":"09:00"}`, http.StatusBadRequest},
		{"unknown therapy", `{"patientId":"p-1","therapyId":"shirodhara","date":"2025-12-01","time":"09:00"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(tc.body)))
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestHandlerCreateConflict(t *testing.T) {
	router, _ := newTestRouter(t)
	body := `{"patientId":"p-1","therapyId":"nasya","date":"2025-12-01","time":"09:00"}`

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandlerListAndCancel(t *testing.T) {
	router, svc := newTestRouter(t)
	apt, err := svc.Submit(context.Background(), Request{PatientID: "p-1", TherapyID: "basti", Date: "2025-12-03", Time: "14:00"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/patients/p-1/appointments", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var items []Appointment
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&items))
	require.Len(t, items, 1)
	assert.Equal(t, apt.ID, items[0].ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/appointments/"+apt.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/appointments/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/patients/nobody/appointments", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
