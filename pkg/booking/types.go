package booking

import (
	"context"
	"fmt"
	"strings"
)

// TimestampLayout is the second-precision representation used for every
// server-stamped timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

// ReservationStatus enumerates the approval lifecycle of a reservation.
type ReservationStatus string

const (
	StatusPending          ReservationStatus = "pending"
	StatusApproved         ReservationStatus = "approved"
	StatusRejected         ReservationStatus = "rejected"
	StatusCancelled        ReservationStatus = "cancelled"
	StatusCancelledByAdmin ReservationStatus = "cancelled_by_admin"
	StatusCompleted        ReservationStatus = "completed"
)

// ValidStatuses returns the accepted status values in declaration order.
func ValidStatuses() []ReservationStatus {
	return []ReservationStatus{
		StatusPending,
		StatusApproved,
		StatusRejected,
		StatusCancelled,
		StatusCancelledByAdmin,
		StatusCompleted,
	}
}

// ParseReservationStatus validates a raw status value.
func ParseReservationStatus(raw string) (ReservationStatus, error) {
	for _, status := range ValidStatuses() {
		if string(status) == raw {
			return status, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// String returns the stored representation.
func (status ReservationStatus) String() string { return string(status) }

// Park is a named bookable venue, unique by name.
type Park struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Reservation is a booking request against a park for a time window.
// Date-time fields are free-form strings ordered lexicographically, not
// parsed calendar values.
type Reservation struct {
	ID               int64             `json:"id"`
	ParkName         string            `json:"park_name"`
	StartDatetime    string            `json:"start_datetime"`
	EndDatetime      string            `json:"end_datetime"`
	IsExclusive      bool              `json:"is_exclusive"`
	Purpose          string            `json:"purpose"`
	OrganizationName string            `json:"organization_name"`
	Grade            string            `json:"grade"`
	NumberOfPeople   int               `json:"number_of_people"`
	ContactInfo      string            `json:"contact_info"`
	Status           ReservationStatus `json:"status"`
	CreatedAt        string            `json:"created_at"`
	UpdatedAt        string            `json:"updated_at"`
}

// Admin is a privileged principal able to mutate reservations and parks.
type Admin struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    string
}

// Announcement mirrors the announcements table. The core exposes no
// operations over it; the row shape is declared for schema completeness.
type Announcement struct {
	ID        int64
	Title     string
	Content   string
	StartDate string
	EndDate   string
	CreatedAt string
	UpdatedAt string
}

// CreateReservationInput carries the public create payload. Pointer fields
// distinguish absent from zero-valued input so that false and 0 still count
// as present.
type CreateReservationInput struct {
	ParkName         *string
	StartDatetime    *string
	EndDatetime      *string
	IsExclusive      *bool
	Purpose          *string
	OrganizationName *string
	Grade            *string
	NumberOfPeople   *int
	ContactInfo      *string
}

// Validate rejects the first required field that is missing or blank after
// trimming.
func (input CreateReservationInput) Validate() error {
	required := []struct {
		name    string
		present bool
		blank   bool
	}{
		{"park_name", input.ParkName != nil, input.ParkName != nil && strings.TrimSpace(*input.ParkName) == ""},
		{"start_datetime", input.StartDatetime != nil, input.StartDatetime != nil && strings.TrimSpace(*input.StartDatetime) == ""},
		{"end_datetime", input.EndDatetime != nil, input.EndDatetime != nil && strings.TrimSpace(*input.EndDatetime) == ""},
		{"is_exclusive", input.IsExclusive != nil, false},
		{"purpose", input.Purpose != nil, input.Purpose != nil && strings.TrimSpace(*input.Purpose) == ""},
		{"organization_name", input.OrganizationName != nil, input.OrganizationName != nil && strings.TrimSpace(*input.OrganizationName) == ""},
		{"number_of_people", input.NumberOfPeople != nil, false},
		{"contact_info", input.ContactInfo != nil, input.ContactInfo != nil && strings.TrimSpace(*input.ContactInfo) == ""},
	}
	for _, field := range required {
		if !field.present || field.blank {
			return fmt.Errorf("%w: %s", ErrMissingField, field.name)
		}
	}
	return nil
}

// ReservationUpdate carries a partial admin update. Only non-nil fields join
// the update set.
type ReservationUpdate struct {
	ParkName         *string
	StartDatetime    *string
	EndDatetime      *string
	IsExclusive      *bool
	Purpose          *string
	OrganizationName *string
	Grade            *string
	NumberOfPeople   *int
	ContactInfo      *string
	Status           *string
}

// Validate checks the enum and park-name constraints of the present fields.
func (update ReservationUpdate) Validate() error {
	if update.ParkName != nil && strings.TrimSpace(*update.ParkName) == "" {
		return fmt.Errorf("%w: park_name", ErrMissingField)
	}
	if update.Status != nil {
		if _, err := ParseReservationStatus(*update.Status); err != nil {
			return err
		}
	}
	return nil
}

// Fields emits column assignments for the present fields, iterating a fixed
// allow-list so no caller-shaped key can reach the SQL layer.
func (update ReservationUpdate) Fields() map[string]any {
	fields := map[string]any{}
	if update.StartDatetime != nil {
		fields["start_datetime"] = *update.StartDatetime
	}
	if update.EndDatetime != nil {
		fields["end_datetime"] = *update.EndDatetime
	}
	if update.IsExclusive != nil {
		fields["is_exclusive"] = *update.IsExclusive
	}
	if update.Purpose != nil {
		fields["purpose"] = *update.Purpose
	}
	if update.OrganizationName != nil {
		fields["organization_name"] = *update.OrganizationName
	}
	if update.Grade != nil {
		fields["grade"] = *update.Grade
	}
	if update.NumberOfPeople != nil {
		fields["number_of_people"] = *update.NumberOfPeople
	}
	if update.ContactInfo != nil {
		fields["contact_info"] = *update.ContactInfo
	}
	if update.Status != nil {
		fields["status"] = *update.Status
	}
	if update.ParkName != nil {
		fields["park_name"] = *update.ParkName
	}
	return fields
}

// Store is the persistence contract used by Service.
type Store interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error

	ListParks(ctx context.Context) ([]Park, error)
	GetPark(ctx context.Context, parkID int64) (Park, error)
	ParkExists(ctx context.Context, name string) (bool, error)
	InsertPark(ctx context.Context, name string) (Park, error)
	UpdateParkName(ctx context.Context, parkID int64, name string) (Park, error)
	DeletePark(ctx context.Context, parkID int64) error

	InsertReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	ListReservations(ctx context.Context) ([]Reservation, error)
	GetReservation(ctx context.Context, reservationID int64) (Reservation, error)
	UpdateReservationFields(ctx context.Context, reservationID int64, fields map[string]any) error
	DeleteReservation(ctx context.Context, reservationID int64) error

	GetAdminByUsername(ctx context.Context, username string) (Admin, error)
	CountAdmins(ctx context.Context) (int64, error)
	InsertAdmin(ctx context.Context, username string, passwordHash string) error
}
