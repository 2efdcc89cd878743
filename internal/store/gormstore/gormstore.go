package gormstore

import (
	"context"
	"errors"

	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/harunoki/parkres/pkg/booking"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolationCode   = "23505"
	sqliteConstraintCode    = 19
	errorOperationStore     = "store"
	errorSubjectPark        = "park"
	errorSubjectReservation = "reservation"
	errorSubjectAdmin       = "admin"
	errorCodeCount          = "count"
	errorCodeCreate         = "create"
	errorCodeDelete         = "delete"
	errorCodeDuplicate      = "duplicate"
	errorCodeGet            = "get"
	errorCodeInUse          = "in_use"
	errorCodeList           = "list"
	errorCodeLookup         = "lookup"
	errorCodeNotFound       = "not_found"
	errorCodeUpdate         = "update"
)

// Store implements booking.Store using GORM.
type Store struct {
	db *gorm.DB
}

// New returns a Store backed by gorm.DB.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the four tables owned by the data store.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Park{}, &Reservation{}, &Admin{}, &Announcement{})
}

// WithTx executes fn within a transaction.
func (store *Store) WithTx(ctx context.Context, fn func(ctx context.Context, txStore booking.Store) error) error {
	return store.db.WithContext(ctx).Transaction(func(transaction *gorm.DB) error {
		return fn(ctx, &Store{db: transaction})
	})
}

func (store *Store) ListParks(ctx context.Context) ([]booking.Park, error) {
	var rows []Park
	err := store.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectPark, errorCodeList, err)
	}
	parks := make([]booking.Park, 0, len(rows))
	for _, row := range rows {
		parks = append(parks, booking.Park{ID: row.ID, Name: row.Name})
	}
	return parks, nil
}

func (store *Store) GetPark(ctx context.Context, parkID int64) (booking.Park, error) {
	var row Park
	err := store.db.WithContext(ctx).Where("id = ?", parkID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.Park{}, wrapStoreError(errorSubjectPark, errorCodeNotFound, booking.ErrParkNotFound)
		}
		return booking.Park{}, wrapStoreError(errorSubjectPark, errorCodeGet, err)
	}
	return booking.Park{ID: row.ID, Name: row.Name}, nil
}

func (store *Store) ParkExists(ctx context.Context, name string) (bool, error) {
	var count int64
	err := store.db.WithContext(ctx).Model(&Park{}).Where("name = ?", name).Count(&count).Error
	if err != nil {
		return false, wrapStoreError(errorSubjectPark, errorCodeLookup, err)
	}
	return count > 0, nil
}

func (store *Store) InsertPark(ctx context.Context, name string) (booking.Park, error) {
	row := Park{Name: name}
	err := store.db.WithContext(ctx).Create(&row).Error
	if isUniqueViolation(err) {
		return booking.Park{}, wrapStoreError(errorSubjectPark, errorCodeDuplicate, booking.ErrDuplicatePark)
	}
	if err != nil {
		return booking.Park{}, wrapStoreError(errorSubjectPark, errorCodeCreate, err)
	}
	return booking.Park{ID: row.ID, Name: row.Name}, nil
}

func (store *Store) UpdateParkName(ctx context.Context, parkID int64, name string) (booking.Park, error) {
	result := store.db.WithContext(ctx).Model(&Park{}).Where("id = ?", parkID).Update("name", name)
	if isUniqueViolation(result.Error) {
		return booking.Park{}, wrapStoreError(errorSubjectPark, errorCodeDuplicate, booking.ErrDuplicatePark)
	}
	if result.Error != nil {
		return booking.Park{}, wrapStoreError(errorSubjectPark, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return booking.Park{}, wrapStoreError(errorSubjectPark, errorCodeNotFound, booking.ErrParkNotFound)
	}
	return store.GetPark(ctx, parkID)
}

func (store *Store) DeletePark(ctx context.Context, parkID int64) error {
	park, err := store.GetPark(ctx, parkID)
	if err != nil {
		return err
	}
	var referencing int64
	countErr := store.db.WithContext(ctx).Model(&Reservation{}).Where("park_name = ?", park.Name).Count(&referencing).Error
	if countErr != nil {
		return wrapStoreError(errorSubjectReservation, errorCodeCount, countErr)
	}
	if referencing > 0 {
		return wrapStoreError(errorSubjectPark, errorCodeInUse, booking.ErrParkInUse)
	}
	result := store.db.WithContext(ctx).Where("id = ?", parkID).Delete(&Park{})
	if isConstraintViolation(result.Error) {
		return wrapStoreError(errorSubjectPark, errorCodeInUse, booking.ErrParkInUse)
	}
	if result.Error != nil {
		return wrapStoreError(errorSubjectPark, errorCodeDelete, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectPark, errorCodeNotFound, booking.ErrParkNotFound)
	}
	return nil
}

func (store *Store) InsertReservation(ctx context.Context, reservation booking.Reservation) (booking.Reservation, error) {
	row := toReservationRow(reservation)
	err := store.db.WithContext(ctx).Create(&row).Error
	if err != nil {
		return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeCreate, err)
	}
	return toReservationRecord(row), nil
}

func (store *Store) ListReservations(ctx context.Context) ([]booking.Reservation, error) {
	var rows []Reservation
	err := store.db.WithContext(ctx).Order("start_datetime DESC").Find(&rows).Error
	if err != nil {
		return nil, wrapStoreError(errorSubjectReservation, errorCodeList, err)
	}
	reservations := make([]booking.Reservation, 0, len(rows))
	for _, row := range rows {
		reservations = append(reservations, toReservationRecord(row))
	}
	return reservations, nil
}

func (store *Store) GetReservation(ctx context.Context, reservationID int64) (booking.Reservation, error) {
	var row Reservation
	err := store.db.WithContext(ctx).Where("id = ?", reservationID).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeNotFound, booking.ErrReservationNotFound)
		}
		return booking.Reservation{}, wrapStoreError(errorSubjectReservation, errorCodeGet, err)
	}
	return toReservationRecord(row), nil
}

func (store *Store) UpdateReservationFields(ctx context.Context, reservationID int64, fields map[string]any) error {
	result := store.db.WithContext(ctx).Model(&Reservation{}).Where("id = ?", reservationID).Updates(fields)
	if result.Error != nil {
		return wrapStoreError(errorSubjectReservation, errorCodeUpdate, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectReservation, errorCodeNotFound, booking.ErrReservationNotFound)
	}
	return nil
}

func (store *Store) DeleteReservation(ctx context.Context, reservationID int64) error {
	result := store.db.WithContext(ctx).Where("id = ?", reservationID).Delete(&Reservation{})
	if result.Error != nil {
		return wrapStoreError(errorSubjectReservation, errorCodeDelete, result.Error)
	}
	if result.RowsAffected == 0 {
		return wrapStoreError(errorSubjectReservation, errorCodeNotFound, booking.ErrReservationNotFound)
	}
	return nil
}

func (store *Store) GetAdminByUsername(ctx context.Context, username string) (booking.Admin, error) {
	var row Admin
	err := store.db.WithContext(ctx).Where("username = ?", username).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return booking.Admin{}, wrapStoreError(errorSubjectAdmin, errorCodeNotFound, booking.ErrUnknownAdmin)
		}
		return booking.Admin{}, wrapStoreError(errorSubjectAdmin, errorCodeGet, err)
	}
	return booking.Admin{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt.Format(booking.TimestampLayout),
	}, nil
}

func (store *Store) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := store.db.WithContext(ctx).Model(&Admin{}).Count(&count).Error
	if err != nil {
		return 0, wrapStoreError(errorSubjectAdmin, errorCodeCount, err)
	}
	return count, nil
}

func (store *Store) InsertAdmin(ctx context.Context, username string, passwordHash string) error {
	row := Admin{Username: username, PasswordHash: passwordHash}
	err := store.db.WithContext(ctx).Create(&row).Error
	if isUniqueViolation(err) {
		return wrapStoreError(errorSubjectAdmin, errorCodeDuplicate, err)
	}
	if err != nil {
		return wrapStoreError(errorSubjectAdmin, errorCodeCreate, err)
	}
	return nil
}

func toReservationRow(reservation booking.Reservation) Reservation {
	return Reservation{
		ID:               reservation.ID,
		ParkName:         reservation.ParkName,
		StartDatetime:    reservation.StartDatetime,
		EndDatetime:      reservation.EndDatetime,
		IsExclusive:      reservation.IsExclusive,
		Purpose:          reservation.Purpose,
		OrganizationName: reservation.OrganizationName,
		Grade:            reservation.Grade,
		NumberOfPeople:   reservation.NumberOfPeople,
		ContactInfo:      reservation.ContactInfo,
		Status:           reservation.Status.String(),
		CreatedAt:        reservation.CreatedAt,
		UpdatedAt:        reservation.UpdatedAt,
	}
}

func toReservationRecord(row Reservation) booking.Reservation {
	return booking.Reservation{
		ID:               row.ID,
		ParkName:         row.ParkName,
		StartDatetime:    row.StartDatetime,
		EndDatetime:      row.EndDatetime,
		IsExclusive:      row.IsExclusive,
		Purpose:          row.Purpose,
		OrganizationName: row.OrganizationName,
		Grade:            row.Grade,
		NumberOfPeople:   row.NumberOfPeople,
		ContactInfo:      row.ContactInfo,
		Status:           booking.ReservationStatus(row.Status),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}

func wrapStoreError(subject string, code string, err error) error {
	return booking.WrapError(errorOperationStore, subject, code, err)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolationCode
	}
	return isConstraintViolation(err)
}

func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *gosqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()&0xFF == sqliteConstraintCode
	}
	return false
}
