package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service contains the domain logic over a Store.
type Service struct {
	store    Store
	nowFn    func() time.Time
	verifier CredentialVerifier
	logger   OperationLogger
}

// NewService wires a Service.
func NewService(store Store, now func() time.Time, options ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store dependency is nil", ErrInvalidServiceConfig)
	}
	if now == nil {
		return nil, fmt.Errorf("%w: clock dependency is nil", ErrInvalidServiceConfig)
	}
	service := &Service{store: store, nowFn: now, verifier: BcryptVerifier{}}
	for _, option := range options {
		if option != nil {
			option(service)
		}
	}
	return service, nil
}

func (service *Service) now() string {
	return service.nowFn().Format(TimestampLayout)
}

// CreateReservation validates and persists a public reservation request.
// The park-existence check and the insert run as separate statements; under
// concurrent park deletion a narrow race exists, accepted for this workload.
func (service *Service) CreateReservation(ctx context.Context, input CreateReservationInput) (Reservation, error) {
	createdReservation, operationError := service.createReservation(ctx, input)
	service.logOperation(ctx, OperationLog{
		Operation: operationCreateReservation,
		Subject:   createdReservation.ParkName,
		EntityID:  createdReservation.ID,
		Error:     operationError,
	})
	return createdReservation, operationError
}

func (service *Service) createReservation(ctx context.Context, input CreateReservationInput) (Reservation, error) {
	if err := input.Validate(); err != nil {
		return Reservation{}, err
	}
	exists, err := service.store.ParkExists(ctx, *input.ParkName)
	if err != nil {
		return Reservation{}, err
	}
	if !exists {
		return Reservation{}, ErrParkNotFound
	}
	now := service.now()
	grade := ""
	if input.Grade != nil {
		grade = *input.Grade
	}
	return service.store.InsertReservation(ctx, Reservation{
		ParkName:         *input.ParkName,
		StartDatetime:    *input.StartDatetime,
		EndDatetime:      *input.EndDatetime,
		IsExclusive:      *input.IsExclusive,
		Purpose:          *input.Purpose,
		OrganizationName: *input.OrganizationName,
		Grade:            grade,
		NumberOfPeople:   *input.NumberOfPeople,
		ContactInfo:      *input.ContactInfo,
		Status:           StatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	})
}

// ListReservations returns all reservations ordered by start_datetime
// descending. The ordering is lexicographic over the stored strings.
func (service *Service) ListReservations(ctx context.Context) ([]Reservation, error) {
	return service.store.ListReservations(ctx)
}

// GetReservation returns one reservation or ErrReservationNotFound.
func (service *Service) GetReservation(ctx context.Context, reservationID int64) (Reservation, error) {
	return service.store.GetReservation(ctx, reservationID)
}

// UpdateReservation applies a partial admin update and returns the
// post-update record.
func (service *Service) UpdateReservation(ctx context.Context, reservationID int64, update ReservationUpdate) (Reservation, error) {
	updatedReservation, operationError := service.updateReservation(ctx, reservationID, update)
	service.logOperation(ctx, OperationLog{
		Operation: operationUpdateReservation,
		EntityID:  reservationID,
		Error:     operationError,
	})
	return updatedReservation, operationError
}

func (service *Service) updateReservation(ctx context.Context, reservationID int64, update ReservationUpdate) (Reservation, error) {
	if _, err := service.store.GetReservation(ctx, reservationID); err != nil {
		return Reservation{}, err
	}
	if err := update.Validate(); err != nil {
		return Reservation{}, err
	}
	if update.ParkName != nil {
		exists, err := service.store.ParkExists(ctx, *update.ParkName)
		if err != nil {
			return Reservation{}, err
		}
		if !exists {
			return Reservation{}, ErrParkNotFound
		}
	}
	fields := update.Fields()
	if len(fields) == 0 {
		return Reservation{}, ErrEmptyUpdate
	}
	fields["updated_at"] = service.now()
	if err := service.store.UpdateReservationFields(ctx, reservationID, fields); err != nil {
		return Reservation{}, err
	}
	return service.store.GetReservation(ctx, reservationID)
}

// DeleteReservation removes a reservation by id.
func (service *Service) DeleteReservation(ctx context.Context, reservationID int64) error {
	operationError := service.store.DeleteReservation(ctx, reservationID)
	service.logOperation(ctx, OperationLog{
		Operation: operationDeleteReservation,
		EntityID:  reservationID,
		Error:     operationError,
	})
	return operationError
}

// UpdateReservationStatus changes the status field alone, stamping
// updated_at.
func (service *Service) UpdateReservationStatus(ctx context.Context, reservationID int64, status string) (Reservation, error) {
	updatedReservation, operationError := service.updateReservationStatus(ctx, reservationID, status)
	service.logOperation(ctx, OperationLog{
		Operation: operationUpdateStatus,
		Subject:   status,
		EntityID:  reservationID,
		Error:     operationError,
	})
	return updatedReservation, operationError
}

func (service *Service) updateReservationStatus(ctx context.Context, reservationID int64, status string) (Reservation, error) {
	parsedStatus, err := ParseReservationStatus(status)
	if err != nil {
		return Reservation{}, err
	}
	if _, err := service.store.GetReservation(ctx, reservationID); err != nil {
		return Reservation{}, err
	}
	fields := map[string]any{
		"status":     parsedStatus.String(),
		"updated_at": service.now(),
	}
	if err := service.store.UpdateReservationFields(ctx, reservationID, fields); err != nil {
		return Reservation{}, err
	}
	return service.store.GetReservation(ctx, reservationID)
}

// ListParks returns all parks ordered by name ascending.
func (service *Service) ListParks(ctx context.Context) ([]Park, error) {
	return service.store.ListParks(ctx)
}

// CreatePark inserts a new park; a duplicate name yields ErrDuplicatePark.
func (service *Service) CreatePark(ctx context.Context, name string) (Park, error) {
	createdPark, operationError := service.createPark(ctx, name)
	service.logOperation(ctx, OperationLog{
		Operation: operationCreatePark,
		Subject:   name,
		EntityID:  createdPark.ID,
		Error:     operationError,
	})
	return createdPark, operationError
}

func (service *Service) createPark(ctx context.Context, name string) (Park, error) {
	if strings.TrimSpace(name) == "" {
		return Park{}, fmt.Errorf("%w: name", ErrMissingField)
	}
	return service.store.InsertPark(ctx, name)
}

// UpdatePark renames an existing park.
func (service *Service) UpdatePark(ctx context.Context, parkID int64, name string) (Park, error) {
	updatedPark, operationError := service.updatePark(ctx, parkID, name)
	service.logOperation(ctx, OperationLog{
		Operation: operationUpdatePark,
		Subject:   name,
		EntityID:  parkID,
		Error:     operationError,
	})
	return updatedPark, operationError
}

func (service *Service) updatePark(ctx context.Context, parkID int64, name string) (Park, error) {
	if strings.TrimSpace(name) == "" {
		return Park{}, fmt.Errorf("%w: name", ErrMissingField)
	}
	if _, err := service.store.GetPark(ctx, parkID); err != nil {
		return Park{}, err
	}
	return service.store.UpdateParkName(ctx, parkID, name)
}

// DeletePark removes an unreferenced park. A park still named by any
// reservation is left untouched and ErrParkInUse is returned.
func (service *Service) DeletePark(ctx context.Context, parkID int64) error {
	operationError := service.deletePark(ctx, parkID)
	service.logOperation(ctx, OperationLog{
		Operation: operationDeletePark,
		EntityID:  parkID,
		Error:     operationError,
	})
	return operationError
}

func (service *Service) deletePark(ctx context.Context, parkID int64) error {
	if _, err := service.store.GetPark(ctx, parkID); err != nil {
		return err
	}
	return service.store.DeletePark(ctx, parkID)
}

// Authenticate verifies admin credentials and returns the admin username.
// An unknown username and a wrong password produce the same error value.
func (service *Service) Authenticate(ctx context.Context, username string, password string) (string, error) {
	authenticatedUsername, operationError := service.authenticate(ctx, username, password)
	service.logOperation(ctx, OperationLog{
		Operation: operationLogin,
		Subject:   username,
		Error:     operationError,
	})
	return authenticatedUsername, operationError
}

func (service *Service) authenticate(ctx context.Context, username string, password string) (string, error) {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return "", ErrMissingCredentials
	}
	admin, err := service.store.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUnknownAdmin) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := service.verifier.Compare(admin.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}
	return admin.Username, nil
}

// EnsureAdmin seeds the default admin credential once, when the admins
// table is empty.
func (service *Service) EnsureAdmin(ctx context.Context, username string, password string) error {
	count, err := service.store.CountAdmins(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	passwordHash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return service.store.InsertAdmin(ctx, username, passwordHash)
}

// EnsureParks seeds starter parks when the parks table is empty.
func (service *Service) EnsureParks(ctx context.Context, names []string) error {
	existing, err := service.store.ListParks(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, name := range names {
		if _, err := service.store.InsertPark(ctx, name); err != nil {
			if errors.Is(err, ErrDuplicatePark) {
				continue
			}
			return err
		}
	}
	return nil
}

func (service *Service) logOperation(ctx context.Context, entry OperationLog) {
	if service.logger == nil {
		return
	}
	if entry.Status == "" {
		if entry.Error != nil {
			entry.Status = operationStatusError
		} else {
			entry.Status = operationStatusOK
		}
	}
	service.logger.LogOperation(ctx, entry)
}
