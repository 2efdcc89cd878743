package booking

import (
	"context"
	"errors"
	"testing"
	"time"
)

const parkNameCentral = "Central"

func TestCreateReservationDefaultsToPending(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	mustSeedPark(test, store, parkNameCentral)
	clock := newStubClock()
	service := mustNewService(test, store, clock)

	created, err := service.CreateReservation(context.Background(), validCreateInput(parkNameCentral))
	if err != nil {
		test.Fatalf("create reservation: %v", err)
	}
	if created.ID == 0 {
		test.Fatalf("expected assigned id, got 0")
	}
	if created.Status != StatusPending {
		test.Fatalf("expected status pending, got %s", created.Status)
	}
	if created.CreatedAt != created.UpdatedAt {
		test.Fatalf("expected created_at == updated_at, got %q / %q", created.CreatedAt, created.UpdatedAt)
	}
	if created.CreatedAt != clock.Now().Format(TimestampLayout) {
		test.Fatalf("expected clock-stamped created_at, got %q", created.CreatedAt)
	}
}

func TestCreateReservationRequiredFields(test *testing.T) {
	test.Parallel()
	mutations := []struct {
		field  string
		mutate func(input *CreateReservationInput)
	}{
		{"park_name", func(input *CreateReservationInput) { input.ParkName = nil }},
		{"park_name blank", func(input *CreateReservationInput) { input.ParkName = stringPtr("   ") }},
		{"start_datetime", func(input *CreateReservationInput) { input.StartDatetime = nil }},
		{"start_datetime blank", func(input *CreateReservationInput) { input.StartDatetime = stringPtr("") }},
		{"end_datetime", func(input *CreateReservationInput) { input.EndDatetime = nil }},
		{"is_exclusive", func(input *CreateReservationInput) { input.IsExclusive = nil }},
		{"purpose", func(input *CreateReservationInput) { input.Purpose = nil }},
		{"purpose blank", func(input *CreateReservationInput) { input.Purpose = stringPtr(" ") }},
		{"organization_name", func(input *CreateReservationInput) { input.OrganizationName = nil }},
		{"number_of_people", func(input *CreateReservationInput) { input.NumberOfPeople = nil }},
		{"contact_info", func(input *CreateReservationInput) { input.ContactInfo = nil }},
	}
	for _, mutation := range mutations {
		mutation := mutation
		test.Run(mutation.field, func(test *testing.T) {
			test.Parallel()
			store := newStubStore(test)
			mustSeedPark(test, store, parkNameCentral)
			service := mustNewService(test, store, newStubClock())

			input := validCreateInput(parkNameCentral)
			mutation.mutate(&input)
			_, err := service.CreateReservation(context.Background(), input)
			if !errors.Is(err, ErrMissingField) {
				test.Fatalf("expected ErrMissingField, got %v", err)
			}
			if len(store.reservations) != 0 {
				test.Fatalf("expected no write, got %d reservations", len(store.reservations))
			}
		})
	}
}

func TestCreateReservationGradeOptional(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	mustSeedPark(test, store, parkNameCentral)
	service := mustNewService(test, store, newStubClock())

	input := validCreateInput(parkNameCentral)
	input.Grade = nil
	if _, err := service.CreateReservation(context.Background(), input); err != nil {
		test.Fatalf("expected optional grade, got %v", err)
	}
}

func TestCreateReservationUnknownPark(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store, newStubClock())

	_, err := service.CreateReservation(context.Background(), validCreateInput("Nowhere"))
	if !errors.Is(err, ErrParkNotFound) {
		test.Fatalf("expected ErrParkNotFound, got %v", err)
	}
}

func TestListReservationsOrdersByStartDatetimeDescending(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	mustSeedPark(test, store, parkNameCentral)
	service := mustNewService(test, store, newStubClock())

	for _, start := range []string{"2024-01-01", "2024-02-01"} {
		input := validCreateInput(parkNameCentral)
		input.StartDatetime = stringPtr(start)
		if _, err := service.CreateReservation(context.Background(), input); err != nil {
			test.Fatalf("create reservation %q: %v", start, err)
		}
	}

	reservations, err := service.ListReservations(context.Background())
	if err != nil {
		test.Fatalf("list reservations: %v", err)
	}
	if len(reservations) != 2 {
		test.Fatalf("expected 2 reservations, got %d", len(reservations))
	}
	if reservations[0].StartDatetime != "2024-02-01" {
		test.Fatalf("expected later start first, got %q", reservations[0].StartDatetime)
	}
}

func TestGetReservationNotFound(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store, newStubClock())

	_, err := service.GetReservation(context.Background(), 42)
	if !errors.Is(err, ErrReservationNotFound) {
		test.Fatalf("expected ErrReservationNotFound, got %v", err)
	}
}

func TestUpdateReservationEmptySetFails(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	mustSeedPark(test, store, parkNameCentral)
	clock := newStubClock()
	service := mustNewService(test, store, clock)

	created, err := service.CreateReservation(context.Background(), validCreateInput(parkNameCentral))
	if err != nil {
		test.Fatalf("create reservation: %v", err)
	}
	clock.Advance(time.Minute)

	_, err = service.UpdateReservation(context.Background(), created.ID, ReservationUpdate{})
	if !errors.Is(err, ErrEmptyUpdate) {
		test.Fatalf("expected ErrEmptyUpdate, got %v", err)
	}
	unchanged, err := service.GetReservation(context.Background(), created.ID)
	if err != nil {
		test.Fatalf("get reservation: %v", err)
	}
	if unchanged.UpdatedAt != created.UpdatedAt {
		test.Fatalf("expected no write, updated_at moved to %q", unchanged.UpdatedAt)
	}
}

func TestUpdateReservationMergesFields(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	mustSeedPark(test, store, parkNameCentral)
	clock := newStubClock()
	service := mustNewService(test, store, clock)

	created, err := service.CreateReservation(context.Background(), validCreateInput(parkNameCentral))
	if err != nil {
		test.Fatalf("create reservation: %v", err)
	}
	clock.Advance(time.Minute)

	updated, err := service.UpdateReservation(context.Background(), created.ID, ReservationUpdate{
		Purpose:        stringPtr("evening concert"),
		NumberOfPeople: intPtr(80),
	})
	if err != nil {
		test.Fatalf("update reservation: %v", err)
	}
	if updated.Purpose != "evening concert" || updated.NumberOfPeople != 80 {
		test.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.ContactInfo != created.ContactInfo {
		test.Fatalf("untouched field changed: %q", updated.ContactInfo)
	}
	if updated.UpdatedAt == created.UpdatedAt {
		test.Fatalf("expected updated_at stamp to advance")
	}
}

func TestUpdateReservationParkNameValidation(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	mustSeedPark(test, store, parkNameCentral)
	mustSeedPark(test, store, "Riverside")
	service := mustNewService(test, store, newStubClock())

	created, err := service.CreateReservation(context.Background(), validCreateInput(parkNameCentral))
	if err != nil {
		test.Fatalf("create reservation: %v", err)
	}

	_, err = service.UpdateReservation(context.Background(), created.ID, ReservationUpdate{ParkName: stringPtr("  ")})
	if !errors.Is(err, ErrMissingField) {
		test.Fatalf("expected ErrMissingField for blank park_name, got %v", err)
	}
	_, err = service.UpdateReservation(context.Background(), created.ID, ReservationUpdate{ParkName: stringPtr("Nowhere")})
	if !errors.Is(err, ErrParkNotFound) {
		test.Fatalf("expected ErrParkNotFound, got %v", err)
	}
	updated, err := service.UpdateReservation(context.Background(), created.ID, ReservationUpdate{ParkName: stringPtr("Riverside")})
	if err != nil {
		test.Fatalf("update reservation: %v", err)
	}
	if updated.ParkName != "Riverside" {
		test.Fatalf("expected park_name merged into update, got %q", updated.ParkName)
	}
}

func TestUpdateReservationNotFound(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store, newStubClock())

	_, err := service.UpdateReservation(context.Background(), 7, ReservationUpdate{Purpose: stringPtr("anything")})
	if !errors.Is(err, ErrReservationNotFound) {
		test.Fatalf("expected ErrReservationNotFound, got %v", err)
	}
}

func TestUpdateReservationStatus(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	mustSeedPark(test, store, parkNameCentral)
	clock := newStubClock()
	service := mustNewService(test, store, clock)

	created, err := service.CreateReservation(context.Background(), validCreateInput(parkNameCentral))
	if err != nil {
		test.Fatalf("create reservation: %v", err)
	}
	clock.Advance(time.Minute)

	if _, err := service.UpdateReservationStatus(context.Background(), created.ID, "archived"); !errors.Is(err, ErrInvalidStatus) {
		test.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	updated, err := service.UpdateReservationStatus(context.Background(), created.ID, "approved")
	if err != nil {
		test.Fatalf("update status: %v", err)
	}
	if updated.Status != StatusApproved {
		test.Fatalf("expected approved, got %s", updated.Status)
	}
	if updated.UpdatedAt == created.UpdatedAt {
		test.Fatalf("expected updated_at to change")
	}
	if updated.Purpose != created.Purpose || updated.ParkName != created.ParkName {
		test.Fatalf("status update touched other fields: %+v", updated)
	}
}

func TestUpdateReservationStatusNotFound(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	service := mustNewService(test, store, newStubClock())

	_, err := service.UpdateReservationStatus(context.Background(), 99, "approved")
	if !errors.Is(err, ErrReservationNotFound) {
		test.Fatalf("expected ErrReservationNotFound, got %v", err)
	}
}

func TestDeleteReservation(test *testing.T) {
	test.Parallel()
	store := newStubStore(test)
	mustSeedPark(test, store, parkNameCentral)
	service := mustNewService(test, store, newStubClock())

	created, err := service.CreateReservation(context.Background(), validCreateInput(parkNameCentral))
	if err != nil {
		test.Fatalf("create reservation: %v", err)
	}
	if err := service.DeleteReservation(context.Background(), created.ID); err != nil {
		test.Fatalf("delete reservation: %v", err)
	}
	if _, err := service.GetReservation(context.Background(), created.ID); !errors.Is(err, ErrReservationNotFound) {
		test.Fatalf("expected ErrReservationNotFound after delete, got %v", err)
	}
	if err := service.DeleteReservation(context.Background(), created.ID); !errors.Is(err, ErrReservationNotFound) {
		test.Fatalf("expected ErrReservationNotFound on second delete, got %v", err)
	}
}

func TestCreateReservationReturnsStoreErrors(test *testing.T) {
	test.Parallel()
	storeFailure := errors.New("store failure")
	testCases := []struct {
		name      string
		configure func(store *stubStore)
	}{
		{"park lookup error", func(store *stubStore) { store.parkExistsError = storeFailure }},
		{"insert error", func(store *stubStore) { store.insertReservationError = storeFailure }},
	}
	for _, testCase := range testCases {
		testCase := testCase
		test.Run(testCase.name, func(test *testing.T) {
			test.Parallel()
			store := newStubStore(test)
			mustSeedPark(test, store, parkNameCentral)
			testCase.configure(store)
			service := mustNewService(test, store, newStubClock())

			_, err := service.CreateReservation(context.Background(), validCreateInput(parkNameCentral))
			if !errors.Is(err, storeFailure) {
				test.Fatalf("expected store failure, got %v", err)
			}
		})
	}
}
