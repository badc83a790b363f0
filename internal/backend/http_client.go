package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wolfman30/ayurveda-clinic-platform/internal/bookings"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/practitioners"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/recommend"
	"github.com/wolfman30/ayurveda-clinic-platform/internal/therapies"
	"github.com/wolfman30/ayurveda-clinic-platform/pkg/logging"
)

const defaultTimeout = 15 * time.Second

// StatusError is a non-2xx answer from the clinic API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("clinic API returned %d: %s", e.StatusCode, e.Body)
}

// HTTPClient calls the clinic API over JSON.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *logging.Logger
}

// NewHTTPClient constructs a clinic API client.
func NewHTTPClient(baseURL string, logger *logging.Logger) *HTTPClient {
	if logger == nil {
		logger = logging.Default()
	}
	return &HTTPClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

func (c *HTTPClient) ListTherapies(ctx context.Context) ([]therapies.Therapy, error) {
	var out []therapies.Therapy
	if err := c.doJSON(ctx, http.MethodGet, "/api/therapies", nil, &out); err != nil {
		return nil, fetchErr(OpListTherapies, err)
	}
	return out, nil
}

func (c *HTTPClient) CheckAvailability(ctx context.Context, therapyID, date string) ([]string, error) {
	body := map[string]string{"therapyId": therapyID, "date": date}
	var out struct {
		Available bool     `json:"available"`
		Slots     []string `json:"slots"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/practitioners/availability", body, &out); err != nil {
		return nil, fetchErr(OpCheckAvailability, err)
	}
	if out.Slots == nil {
		out.Slots = []string{}
	}
	return out.Slots, nil
}

func (c *HTTPClient) SubmitBooking(ctx context.Context, req bookings.Request) (bookings.Appointment, error) {
	var out bookings.CreateResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/appointments", req, &out); err != nil {
		return bookings.Appointment{}, &BookingError{Err: err}
	}
	if !out.Success || out.Appointment == nil {
		return bookings.Appointment{}, &BookingError{Err: errors.New("booking was not confirmed")}
	}
	return *out.Appointment, nil
}

func (c *HTTPClient) FetchPatientAppointments(ctx context.Context, patientID string) ([]bookings.Appointment, error) {
	path := fmt.Sprintf("/api/patients/%s/appointments", url.PathEscape(patientID))
	var out []bookings.Appointment
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fetchErr(OpFetchAppointments, err)
	}
	return out, nil
}

func (c *HTTPClient) CancelAppointment(ctx context.Context, appointmentID string) error {
	path := fmt.Sprintf("/api/appointments/%s", url.PathEscape(appointmentID))
	err := c.doJSON(ctx, http.MethodDelete, path, nil, nil)
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		err = fmt.Errorf("%w: %w", bookings.ErrAppointmentNotFound, err)
	}
	return fetchErr(OpCancelAppointment, err)
}

func (c *HTTPClient) RecommendTherapy(ctx context.Context, symptoms string) (recommend.Recommendation, error) {
	var out recommend.Recommendation
	if err := c.doJSON(ctx, http.MethodPost, "/api/ai/recommend-therapy", map[string]string{"symptoms": symptoms}, &out); err != nil {
		return recommend.Recommendation{}, fetchErr(OpRecommendTherapy, err)
	}
	return out, nil
}

func (c *HTTPClient) PractitionerDetails(ctx context.Context, practitionerID string) (practitioners.Practitioner, error) {
	path := fmt.Sprintf("/api/practitioners/%s", url.PathEscape(practitionerID))
	var out practitioners.Practitioner
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return practitioners.Practitioner{}, fetchErr(OpPractitionerDetails, err)
	}
	return out, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	endpoint := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(respBody))
		if len(msg) > 300 {
			msg = msg[:300]
		}
		c.logger.Warn("clinic API non-2xx response", "status", resp.StatusCode, "path", path, "body", msg)
		return &StatusError{StatusCode: resp.StatusCode, Body: msg}
	}

	if len(respBody) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
