package practitioners

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

func TestStaticDirectoryGet(t *testing.T) {
	p, err := NewStaticDirectory("").Get(context.Background(), "dr-sharma")
	require.NoError(t, err)
	assert.Equal(t, Practitioner{
		ID:             "dr-sharma",
		Name:           "Dr. Sharma",
		Specialization: "Panchakarma",
		Experience:     15,
		Rating:         4.8,
		Reviews:        42,
	}, p)

	_, err = NewStaticDirectory("").Get(context.Background(), " ")
	assert.ErrorIs(t, err, ErrPractitionerNotFound)
}

func TestHandlerGet(t *testing.T) {
	h := NewHandler(NewStaticDirectory("Dr. Menon"), logging.Discard())
	r := chi.NewRouter()
	r.Get("/api/practitioners/{practitionerID}", h.Get)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/practitioners/p-7", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var p Practitioner
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&p))
	assert.Equal(t, "p-7", p.ID)
	assert.Equal(t, "Dr. Menon", p.Name)
}
