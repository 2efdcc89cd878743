package booking

import (
	"context"
	"sort"
	"testing"
	"time"
)

// stubStore is an in-memory Store used by the service tests.
type stubStore struct {
	parks             map[int64]Park
	nextParkID        int64
	reservations      map[int64]Reservation
	nextReservationID int64
	admins            map[string]Admin
	nextAdminID       int64

	parkExistsError        error
	insertReservationError error
	getReservationError    error
	listReservationsError  error
	updateFieldsError      error
	deleteReservationError error
	listParksError         error
	getAdminError          error
}

func newStubStore(test *testing.T) *stubStore {
	test.Helper()
	return &stubStore{
		parks:             map[int64]Park{},
		nextParkID:        1,
		reservations:      map[int64]Reservation{},
		nextReservationID: 1,
		admins:            map[string]Admin{},
		nextAdminID:       1,
	}
}

func (store *stubStore) WithTx(ctx context.Context, fn func(ctx context.Context, txStore Store) error) error {
	return fn(ctx, store)
}

func (store *stubStore) ListParks(ctx context.Context) ([]Park, error) {
	if store.listParksError != nil {
		return nil, store.listParksError
	}
	parks := make([]Park, 0, len(store.parks))
	for _, park := range store.parks {
		parks = append(parks, park)
	}
	sort.Slice(parks, func(left, right int) bool { return parks[left].Name < parks[right].Name })
	return parks, nil
}

func (store *stubStore) GetPark(ctx context.Context, parkID int64) (Park, error) {
	park, ok := store.parks[parkID]
	if !ok {
		return Park{}, ErrParkNotFound
	}
	return park, nil
}

func (store *stubStore) ParkExists(ctx context.Context, name string) (bool, error) {
	if store.parkExistsError != nil {
		return false, store.parkExistsError
	}
	for _, park := range store.parks {
		if park.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (store *stubStore) InsertPark(ctx context.Context, name string) (Park, error) {
	for _, park := range store.parks {
		if park.Name == name {
			return Park{}, ErrDuplicatePark
		}
	}
	park := Park{ID: store.nextParkID, Name: name}
	store.nextParkID++
	store.parks[park.ID] = park
	return park, nil
}

func (store *stubStore) UpdateParkName(ctx context.Context, parkID int64, name string) (Park, error) {
	park, ok := store.parks[parkID]
	if !ok {
		return Park{}, ErrParkNotFound
	}
	for _, other := range store.parks {
		if other.ID != parkID && other.Name == name {
			return Park{}, ErrDuplicatePark
		}
	}
	park.Name = name
	store.parks[parkID] = park
	return park, nil
}

func (store *stubStore) DeletePark(ctx context.Context, parkID int64) error {
	park, ok := store.parks[parkID]
	if !ok {
		return ErrParkNotFound
	}
	for _, reservation := range store.reservations {
		if reservation.ParkName == park.Name {
			return ErrParkInUse
		}
	}
	delete(store.parks, parkID)
	return nil
}

func (store *stubStore) InsertReservation(ctx context.Context, reservation Reservation) (Reservation, error) {
	if store.insertReservationError != nil {
		return Reservation{}, store.insertReservationError
	}
	reservation.ID = store.nextReservationID
	store.nextReservationID++
	store.reservations[reservation.ID] = reservation
	return reservation, nil
}

func (store *stubStore) ListReservations(ctx context.Context) ([]Reservation, error) {
	if store.listReservationsError != nil {
		return nil, store.listReservationsError
	}
	reservations := make([]Reservation, 0, len(store.reservations))
	for _, reservation := range store.reservations {
		reservations = append(reservations, reservation)
	}
	sort.Slice(reservations, func(left, right int) bool {
		return reservations[left].StartDatetime > reservations[right].StartDatetime
	})
	return reservations, nil
}

func (store *stubStore) GetReservation(ctx context.Context, reservationID int64) (Reservation, error) {
	if store.getReservationError != nil {
		return Reservation{}, store.getReservationError
	}
	reservation, ok := store.reservations[reservationID]
	if !ok {
		return Reservation{}, ErrReservationNotFound
	}
	return reservation, nil
}

func (store *stubStore) UpdateReservationFields(ctx context.Context, reservationID int64, fields map[string]any) error {
	if store.updateFieldsError != nil {
		return store.updateFieldsError
	}
	reservation, ok := store.reservations[reservationID]
	if !ok {
		return ErrReservationNotFound
	}
	for column, value := range fields {
		switch column {
		case "park_name":
			reservation.ParkName = value.(string)
		case "start_datetime":
			reservation.StartDatetime = value.(string)
		case "end_datetime":
			reservation.EndDatetime = value.(string)
		case "is_exclusive":
			reservation.IsExclusive = value.(bool)
		case "purpose":
			reservation.Purpose = value.(string)
		case "organization_name":
			reservation.OrganizationName = value.(string)
		case "grade":
			reservation.Grade = value.(string)
		case "number_of_people":
			reservation.NumberOfPeople = value.(int)
		case "contact_info":
			reservation.ContactInfo = value.(string)
		case "status":
			reservation.Status = ReservationStatus(value.(string))
		case "updated_at":
			reservation.UpdatedAt = value.(string)
		}
	}
	store.reservations[reservationID] = reservation
	return nil
}

func (store *stubStore) DeleteReservation(ctx context.Context, reservationID int64) error {
	if store.deleteReservationError != nil {
		return store.deleteReservationError
	}
	if _, ok := store.reservations[reservationID]; !ok {
		return ErrReservationNotFound
	}
	delete(store.reservations, reservationID)
	return nil
}

func (store *stubStore) GetAdminByUsername(ctx context.Context, username string) (Admin, error) {
	if store.getAdminError != nil {
		return Admin{}, store.getAdminError
	}
	admin, ok := store.admins[username]
	if !ok {
		return Admin{}, ErrUnknownAdmin
	}
	return admin, nil
}

func (store *stubStore) CountAdmins(ctx context.Context) (int64, error) {
	return int64(len(store.admins)), nil
}

func (store *stubStore) InsertAdmin(ctx context.Context, username string, passwordHash string) error {
	store.admins[username] = Admin{ID: store.nextAdminID, Username: username, PasswordHash: passwordHash}
	store.nextAdminID++
	return nil
}

// stubClock is an adjustable clock for observing updated_at stamps.
type stubClock struct {
	current time.Time
}

func newStubClock() *stubClock {
	return &stubClock{current: time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)}
}

func (clock *stubClock) Now() time.Time { return clock.current }

func (clock *stubClock) Advance(step time.Duration) { clock.current = clock.current.Add(step) }

// plainVerifier matches passwords stored as "plain:<password>".
type plainVerifier struct{}

func (plainVerifier) Compare(passwordHash string, password string) error {
	if passwordHash == "plain:"+password {
		return nil
	}
	return ErrInvalidCredentials
}

func mustNewService(test *testing.T, store *stubStore, clock *stubClock) *Service {
	test.Helper()
	service, err := NewService(store, clock.Now, WithCredentialVerifier(plainVerifier{}))
	if err != nil {
		test.Fatalf("new service: %v", err)
	}
	return service
}

func mustSeedPark(test *testing.T, store *stubStore, name string) Park {
	test.Helper()
	park, err := store.InsertPark(context.Background(), name)
	if err != nil {
		test.Fatalf("seed park %q: %v", name, err)
	}
	return park
}

func stringPtr(value string) *string { return &value }

func boolPtr(value bool) *bool { return &value }

func intPtr(value int) *int { return &value }

func validCreateInput(parkName string) CreateReservationInput {
	return CreateReservationInput{
		ParkName:         stringPtr(parkName),
		StartDatetime:    stringPtr("2024-04-01 10:00"),
		EndDatetime:      stringPtr("2024-04-01 12:00"),
		IsExclusive:      boolPtr(false),
		Purpose:          stringPtr("community picnic"),
		OrganizationName: stringPtr("Neighborhood Council"),
		NumberOfPeople:   intPtr(25),
		ContactInfo:      stringPtr("council@example.org"),
	}
}
