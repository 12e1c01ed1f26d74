package booking

import "errors"

var (
	// ErrUnauthorized is returned when no verified caller identity is attached.
	ErrUnauthorized = errors.New("caller identity required")

	// ErrForbidden is returned when the caller lacks the required capability.
	ErrForbidden = errors.New("caller not permitted")

	// ErrBookingNotFound is returned when the booking id is unknown.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrInvalidStatus is returned when the target status is outside
	// {CONFIRMED, CANCELLED}.
	ErrInvalidStatus = errors.New("status must be CONFIRMED or CANCELLED")

	// ErrAlreadyFinalized is returned when transitioning a booking whose
	// status is no longer PENDING.
	ErrAlreadyFinalized = errors.New("booking already confirmed or cancelled")

	// ErrMissingDoctorName is returned when confirming without a doctor.
	ErrMissingDoctorName = errors.New("doctor_name is required to confirm")
)

// Validation errors for creation requests.
var (
	ErrMissingFullName        = errors.New("full_name is required")
	ErrMissingPhone           = errors.New("phone is required")
	ErrInvalidGender          = errors.New("gender must be MALE or FEMALE")
	ErrInvalidServiceCategory = errors.New("service_category is not recognized")
	ErrInvalidServiceSubtype  = errors.New("service_subtype is not recognized")
	ErrSubtypeMismatch        = errors.New("service_subtype does not belong to service_category")
	ErrInvalidDate            = errors.New("dates must use the YYYY-MM-DD format")
	ErrInvalidTime            = errors.New("times must use the HH:MM format")
)

// IsValidationError reports whether err comes from request validation.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrMissingFullName,
		ErrMissingPhone,
		ErrInvalidGender,
		ErrInvalidServiceCategory,
		ErrInvalidServiceSubtype,
		ErrSubtypeMismatch,
		ErrInvalidDate,
		ErrInvalidTime,
		ErrMissingDoctorName,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
