package booking

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() *CreateBookingRequest {
	return &CreateBookingRequest{
		Email:           "siti@example.com",
		FullName:        "Siti Rahma",
		DateOfBirth:     "1994-03-12",
		Gender:          "FEMALE",
		Phone:           "+628123456789",
		Address:         "Jl. Melati 12, Jakarta",
		ServiceCategory: "VACCINATION",
		ServiceSubtype:  "HPV",
		RequestedDate:   "2026-09-15",
		RequestedTime:   "09:30",
	}
}

func TestValidateNormalizesFields(t *testing.T) {
	req := validCreateRequest()
	req.Gender = " female "
	req.ServiceCategory = "vaccination"

	b, err := req.Validate()
	require.NoError(t, err)

	assert.Equal(t, GenderFemale, b.Gender)
	assert.Equal(t, ServiceVaccination, b.ServiceCategory)
	assert.Equal(t, SubtypeHPV, b.ServiceSubtype)
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, "siti@example.com", b.Email)
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateBookingRequest)
		wantErr error
	}{
		{"missing name", func(r *CreateBookingRequest) { r.FullName = "  " }, ErrMissingFullName},
		{"missing phone", func(r *CreateBookingRequest) { r.Phone = "" }, ErrMissingPhone},
		{"bad gender", func(r *CreateBookingRequest) { r.Gender = "OTHER" }, ErrInvalidGender},
		{"bad category", func(r *CreateBookingRequest) { r.ServiceCategory = "SURGERY" }, ErrInvalidServiceCategory},
		{"bad subtype", func(r *CreateBookingRequest) { r.ServiceSubtype = "XRAY" }, ErrInvalidServiceSubtype},
		{"subtype from another category", func(r *CreateBookingRequest) { r.ServiceSubtype = "BLOOD_TEST" }, ErrSubtypeMismatch},
		{"bad dob", func(r *CreateBookingRequest) { r.DateOfBirth = "12-03-1994" }, ErrInvalidDate},
		{"bad requested date", func(r *CreateBookingRequest) { r.RequestedDate = "tomorrow" }, ErrInvalidDate},
		{"bad requested time", func(r *CreateBookingRequest) { r.RequestedTime = "9.30am" }, ErrInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(req)
			_, err := req.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
			assert.True(t, IsValidationError(err))
		})
	}
}

func TestValidateOptionalFields(t *testing.T) {
	req := validCreateRequest()
	req.DateOfBirth = ""
	req.ServiceSubtype = ""
	req.Note = ""

	b, err := req.Validate()
	require.NoError(t, err)
	assert.Empty(t, b.DateOfBirth)
	assert.Empty(t, b.ServiceSubtype)
}

func TestParseStatus(t *testing.T) {
	for input, want := range map[string]Status{
		"confirmed": StatusConfirmed,
		"CANCELLED": StatusCancelled,
		" pending ": StatusPending,
	} {
		got, ok := ParseStatus(input)
		require.True(t, ok, "ParseStatus(%q)", input)
		assert.Equal(t, want, got)
	}

	if _, ok := ParseStatus("DONE"); ok {
		t.Error("ParseStatus should reject values outside the domain")
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusConfirmed.Terminal())
	assert.True(t, StatusCancelled.Terminal())
}

func TestPresentationLabels(t *testing.T) {
	assert.Equal(t, "Medical Check-Up", ServiceMedicalCheckup.Label())
	assert.Equal(t, "HPV Vaccination", SubtypeHPV.Label())
	assert.Equal(t, "Pending", StatusPending.Label())
	assert.Equal(t, "Female", GenderFemale.Label())
	assert.Equal(t, "Unknown", Gender("").Label())
	assert.Equal(t, "Unknown", Gender("NONBINARY").Label())
}

func TestSubtypeCategoryOwnership(t *testing.T) {
	assert.Equal(t, ServiceMedicalCheckup, SubtypeFullBody.Category())
	assert.Equal(t, ServiceVaccination, SubtypeChildImmunization.Category())
	assert.Equal(t, ServiceLabTest, SubtypeUrineTest.Category())
}
