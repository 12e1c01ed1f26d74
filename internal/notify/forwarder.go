package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lanangwisana/sentracare-be-booking/internal/booking"
	"github.com/lanangwisana/sentracare-be-booking/internal/observability/metrics"
	"github.com/lanangwisana/sentracare-be-booking/pkg/logging"
)

const defaultTimeout = 5 * time.Second

// RegistrationPayload is the patient-registration document sent to the
// downstream patient-records service on booking confirmation.
type RegistrationPayload struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Gender      string `json:"gender"`
	Age         int    `json:"age"`
	Address     string `json:"address"`
	ServiceType string `json:"service_type"`
	BookingDate string `json:"booking_date"`
	BookingTime string `json:"booking_time"`
	DoctorName  string `json:"doctor_name"`
	DoctorEmail string `json:"doctor_email"`
	BookingID   int64  `json:"booking_id"`
}

// Client delivers registration payloads over HTTP. Delivery is best-effort:
// one attempt, no retry, no queue.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.BookingMetrics
	logger     *logging.Logger
	now        func() time.Time
}

// NewClient creates a forwarder for the patient service at baseURL. A zero
// timeout falls back to the 5s default.
func NewClient(baseURL string, timeout time.Duration, m *metrics.BookingMetrics, logger *logging.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

// Forward assembles the registration payload and posts it downstream. Any
// transport or non-2xx failure is returned for logging; callers must not
// treat it as fatal.
func (c *Client) Forward(ctx context.Context, b *booking.Booking, doctorName, doctorEmail string) error {
	payload := c.buildPayload(b, doctorName, doctorEmail)

	body, err := json.Marshal(payload)
	if err != nil {
		c.metrics.ObserveForward("failure")
		return fmt.Errorf("notify: marshal payload: %w", err)
	}

	url := c.baseURL + "/patients"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		c.metrics.ObserveForward("failure")
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveForward("failure")
		return fmt.Errorf("notify: post registration: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.ObserveForward("failure")
		return fmt.Errorf("notify: patient service returned %d", resp.StatusCode)
	}

	c.metrics.ObserveForward("success")
	c.logger.Info("patient registration forwarded", "booking_id", b.ID)
	return nil
}

func (c *Client) buildPayload(b *booking.Booking, doctorName, doctorEmail string) RegistrationPayload {
	return RegistrationPayload{
		FullName:    b.FullName,
		Email:       b.Email,
		Phone:       b.Phone,
		Gender:      b.Gender.Label(),
		Age:         AgeAt(b.DateOfBirth, c.now().UTC()),
		Address:     b.Address,
		ServiceType: b.ServiceSubtype.Label(),
		BookingDate: b.RequestedDate,
		BookingTime: b.RequestedTime,
		DoctorName:  doctorName,
		DoctorEmail: doctorEmail,
		BookingID:   b.ID,
	}
}

// AgeAt computes a whole-year age from a YYYY-MM-DD date of birth. The year
// difference is decremented when the birthday has not been reached yet. An
// absent or unparseable date of birth yields 0.
func AgeAt(dateOfBirth string, today time.Time) int {
	if dateOfBirth == "" {
		return 0
	}
	dob, err := time.Parse(booking.DateFormat, dateOfBirth)
	if err != nil {
		return 0
	}

	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
