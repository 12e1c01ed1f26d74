package booking

import (
	"strings"
	"time"
)

// Canonical date/time formats for booking fields. The symbolic enum codes
// below are the stored representation; human-readable labels are produced
// only at the presentation boundary.
const (
	DateFormat = "2006-01-02"
	TimeFormat = "15:04"
)

// Gender identifies the patient's registered gender.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// ParseGender maps free-form input onto the closed gender domain.
func ParseGender(s string) (Gender, bool) {
	switch Gender(strings.ToUpper(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale, true
	case GenderFemale:
		return GenderFemale, true
	}
	return "", false
}

// Label returns the human-readable gender label. Unset or unrecognized
// values map to "Unknown" rather than defaulting to either gender.
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	}
	return "Unknown"
}

// ServiceCategory is the top-level kind of service being booked.
type ServiceCategory string

const (
	ServiceMedicalCheckup ServiceCategory = "MEDICAL_CHECKUP"
	ServiceVaccination    ServiceCategory = "VACCINATION"
	ServiceLabTest        ServiceCategory = "LAB_TEST"
)

var serviceCategoryLabels = map[ServiceCategory]string{
	ServiceMedicalCheckup: "Medical Check-Up",
	ServiceVaccination:    "Vaccination",
	ServiceLabTest:        "Lab Test",
}

// ParseServiceCategory maps input onto the closed category domain.
func ParseServiceCategory(s string) (ServiceCategory, bool) {
	c := ServiceCategory(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := serviceCategoryLabels[c]
	return c, ok
}

// Label returns the presentation label for the category.
func (c ServiceCategory) Label() string {
	if l, ok := serviceCategoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// ServiceSubtype narrows a category to a concrete offering. A subtype
// belongs to exactly one category.
type ServiceSubtype string

const (
	SubtypeFullBody          ServiceSubtype = "FULL_BODY"
	SubtypeHPV               ServiceSubtype = "HPV"
	SubtypeChildImmunization ServiceSubtype = "CHILD_IMMUNIZATION"
	SubtypeBloodTest         ServiceSubtype = "BLOOD_TEST"
	SubtypeHormoneTest       ServiceSubtype = "HORMONE_TEST"
	SubtypeUrineTest         ServiceSubtype = "URINE_TEST"
)

type subtypeInfo struct {
	category ServiceCategory
	label    string
}

var serviceSubtypes = map[ServiceSubtype]subtypeInfo{
	SubtypeFullBody:          {ServiceMedicalCheckup, "Medical Check-Up Full Body"},
	SubtypeHPV:               {ServiceVaccination, "HPV Vaccination"},
	SubtypeChildImmunization: {ServiceVaccination, "Child & Infant Immunization"},
	SubtypeBloodTest:         {ServiceLabTest, "Blood Test"},
	SubtypeHormoneTest:       {ServiceLabTest, "Hormone Test"},
	SubtypeUrineTest:         {ServiceLabTest, "Urine Test"},
}

// ParseServiceSubtype maps input onto the closed subtype domain.
func ParseServiceSubtype(s string) (ServiceSubtype, bool) {
	st := ServiceSubtype(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := serviceSubtypes[st]
	return st, ok
}

// Category returns the category the subtype belongs to.
func (s ServiceSubtype) Category() ServiceCategory {
	return serviceSubtypes[s].category
}

// Label returns the presentation label for the subtype.
func (s ServiceSubtype) Label() string {
	if info, ok := serviceSubtypes[s]; ok {
		return info.label
	}
	return string(s)
}

// Status is the workflow state of a booking.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus maps input onto the closed status domain.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, true
	case StatusConfirmed:
		return StatusConfirmed, true
	case StatusCancelled:
		return StatusCancelled, true
	}
	return "", false
}

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// Label returns the presentation form of the status, e.g. "Pending".
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return string(s[:1]) + strings.ToLower(string(s[1:]))
}

// Booking is a single patient appointment request with lifecycle state.
type Booking struct {
	ID              int64           `json:"id"`
	FullName        string          `json:"full_name"`
	DateOfBirth     string          `json:"date_of_birth,omitempty"`
	Gender          Gender          `json:"gender"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	Address         string          `json:"address"`
	ServiceCategory ServiceCategory `json:"service_category"`
	ServiceSubtype  ServiceSubtype  `json:"service_subtype,omitempty"`
	RequestedDate   string          `json:"requested_date"`
	RequestedTime   string          `json:"requested_time"`
	Note            string          `json:"note,omitempty"`
	Status          Status          `json:"status"`
	DoctorName      string          `json:"doctor_name,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// CreateBookingRequest is the request body for creating a booking. Email is
// never read from the body: it is stamped from the verified caller identity.
type CreateBookingRequest struct {
	Email           string `json:"-"`
	FullName        string `json:"full_name"`
	DateOfBirth     string `json:"date_of_birth"`
	Gender          string `json:"gender"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	ServiceCategory string `json:"service_category"`
	ServiceSubtype  string `json:"service_subtype"`
	RequestedDate   string `json:"requested_date"`
	RequestedTime   string `json:"requested_time"`
	Note            string `json:"note"`
}

// Validate checks required fields and closed enum domains. It returns the
// normalized booking fields without persisting anything.
func (r *CreateBookingRequest) Validate() (*Booking, error) {
	if strings.TrimSpace(r.FullName) == "" {
		return nil, ErrMissingFullName
	}
	if strings.TrimSpace(r.Phone) == "" {
		return nil, ErrMissingPhone
	}

	gender, ok := ParseGender(r.Gender)
	if !ok {
		return nil, ErrInvalidGender
	}

	category, ok := ParseServiceCategory(r.ServiceCategory)
	if !ok {
		return nil, ErrInvalidServiceCategory
	}

	var subtype ServiceSubtype
	if strings.TrimSpace(r.ServiceSubtype) != "" {
		subtype, ok = ParseServiceSubtype(r.ServiceSubtype)
		if !ok {
			return nil, ErrInvalidServiceSubtype
		}
		if subtype.Category() != category {
			return nil, ErrSubtypeMismatch
		}
	}

	dob := strings.TrimSpace(r.DateOfBirth)
	if dob != "" {
		if _, err := time.Parse(DateFormat, dob); err != nil {
			return nil, ErrInvalidDate
		}
	}
	if _, err := time.Parse(DateFormat, strings.TrimSpace(r.RequestedDate)); err != nil {
		return nil, ErrInvalidDate
	}
	if _, err := time.Parse(TimeFormat, strings.TrimSpace(r.RequestedTime)); err != nil {
		return nil, ErrInvalidTime
	}

	return &Booking{
		FullName:        strings.TrimSpace(r.FullName),
		DateOfBirth:     dob,
		Gender:          gender,
		Phone:           strings.TrimSpace(r.Phone),
		Email:           r.Email,
		Address:         strings.TrimSpace(r.Address),
		ServiceCategory: category,
		ServiceSubtype:  subtype,
		RequestedDate:   strings.TrimSpace(r.RequestedDate),
		RequestedTime:   strings.TrimSpace(r.RequestedTime),
		Note:            strings.TrimSpace(r.Note),
		Status:          StatusPending,
	}, nil
}

// TransitionRequest is the request body for a status transition.
type TransitionRequest struct {
	Status      string `json:"status"`
	DoctorName  string `json:"doctor_name"`
	DoctorEmail string `json:"doctor_email"`
}
