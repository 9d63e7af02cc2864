package integrationtests

import (
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkuup/pkg/client"
	"linkuup/pkg/model"
	"linkuup/test/common"
)

const ServiceName = "bookings-integration-tests"

var (
	suite          *common.IntegrationTestSuite
	bookingsClient *client.BookingClient
	placesClient   *client.PlaceClient
)

func TestMain(t *testing.T) {
	common.SkipWithoutServers(t)
	setup()
	testCreateAndGet(t)
	testListByPlace(t)
	testOverlapConflict(t)
	testBackToBackSlots(t)
	testCancelReleasesSlot(t)
	testUpdateIntoOccupiedSlot(t)
	testDelete(t)
	teardown(t)
}

func setup() {
	suite = common.NewIntegrationTestSuite(ServiceName)
	bookingsClient = client.NewBookingClient(common.BookingsServerURL())
	placesClient = client.NewPlaceClient(common.ClosuresServerURL())
}

func teardown(t *testing.T) {
	common.ClearTestData(t, suite.HTTPClient, "bookings", "")
	suite.Teardown()
}

// createTestPlace registers a fresh place so the booking pipeline can
// resolve it to an owning business. Every scenario gets its own place,
// which keeps slot conflicts scoped to the scenario that made them.
func createTestPlace(t *testing.T) *model.Place {
	t.Helper()

	resp, err := placesClient.Create(map[string]any{
		"business_id": primitive.NewObjectID().Hex(),
		"name":        fmt.Sprintf("booking-it-%s", primitive.NewObjectID().Hex()[18:]),
		"city":        "Tel Aviv",
		"address":     "Derech Menachem Begin 121",
		"time_zone":   "UTC",
	})
	if err != nil {
		t.Fatalf("failed to create place: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201 creating place, got %s", resp.ToString())
	}

	place, err := placesClient.DecodePlace(resp)
	if err != nil {
		t.Fatalf("failed to decode place: %v", err)
	}
	return place
}

func bookingBody(placeID string, start time.Time, minutes int) map[string]any {
	return map[string]any{
		"place_id":    placeID,
		"service_ids": []string{primitive.NewObjectID().Hex()},
		"customer_id": primitive.NewObjectID().Hex(),
		"start_time":  start.Format(time.RFC3339),
		"end_time":    start.Add(time.Duration(minutes) * time.Minute).Format(time.RFC3339),
	}
}

func createBooking(t *testing.T, placeID string, start time.Time, minutes int) *model.Booking {
	t.Helper()

	resp, err := bookingsClient.Create(bookingBody(placeID, start, minutes))
	if err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201 creating booking, got %s", resp.ToString())
	}

	booking, err := bookingsClient.DecodeBooking(resp)
	if err != nil {
		t.Fatalf("failed to decode booking: %v", err)
	}
	return booking
}

func testCreateAndGet(t *testing.T) {
	place := createTestPlace(t)
	start := time.Date(2027, time.March, 1, 10, 0, 0, 0, time.UTC)

	created := createBooking(t, place.ID, start, 60)
	if created.ID == "" {
		t.Fatal("expected created booking to carry an ID")
	}
	if created.Status != model.BookingStatusPending {
		t.Errorf("expected default status pending, got %q", created.Status)
	}

	resp, err := bookingsClient.GetByID(created.ID)
	if err != nil {
		t.Fatalf("failed to get booking: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %s", resp.ToString())
	}

	fetched, err := bookingsClient.DecodeBooking(resp)
	if err != nil {
		t.Fatalf("failed to decode booking: %v", err)
	}
	if !fetched.StartTime.Equal(start) {
		t.Errorf("expected start %v, got %v", start, fetched.StartTime)
	}
	if fetched.PlaceID != place.ID {
		t.Errorf("expected place %s, got %s", place.ID, fetched.PlaceID)
	}
}

func testListByPlace(t *testing.T) {
	place := createTestPlace(t)
	base := time.Date(2027, time.March, 2, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		createBooking(t, place.ID, base.Add(time.Duration(i)*2*time.Hour), 60)
	}

	resp, err := bookingsClient.GetByPlace(place.ID, "", "", 10, 0)
	if err != nil {
		t.Fatalf("failed to list bookings: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %s", resp.ToString())
	}

	bookings, metadata, err := bookingsClient.DecodeBookings(resp)
	if err != nil {
		t.Fatalf("failed to decode bookings: %v", err)
	}
	if len(bookings) != 3 {
		t.Fatalf("expected 3 bookings, got %d", len(bookings))
	}
	if metadata.TotalCount != 3 {
		t.Errorf("expected total_count 3, got %d", metadata.TotalCount)
	}

	// A range covering only the first slot narrows the result.
	resp, err = bookingsClient.GetByPlace(place.ID,
		base.Format(time.RFC3339),
		base.Add(time.Hour).Format(time.RFC3339),
		10, 0,
	)
	if err != nil {
		t.Fatalf("failed to list bookings in range: %v", err)
	}
	bookings, _, err = bookingsClient.DecodeBookings(resp)
	if err != nil {
		t.Fatalf("failed to decode bookings: %v", err)
	}
	if len(bookings) != 1 {
		t.Errorf("expected 1 booking in range, got %d", len(bookings))
	}
}

func testOverlapConflict(t *testing.T) {
	place := createTestPlace(t)
	start := time.Date(2027, time.March, 3, 10, 0, 0, 0, time.UTC)

	createBooking(t, place.ID, start, 60)

	// A second booking halfway into the first one must be rejected.
	resp, err := bookingsClient.Create(bookingBody(place.ID, start.Add(30*time.Minute), 60))
	if err != nil {
		t.Fatalf("failed to post booking: %v", err)
	}
	if resp.StatusCode != 409 {
		t.Fatalf("expected 409 for overlapping slot, got %s", resp.ToString())
	}
}

func testBackToBackSlots(t *testing.T) {
	place := createTestPlace(t)
	start := time.Date(2027, time.March, 4, 10, 0, 0, 0, time.UTC)

	createBooking(t, place.ID, start, 60)

	// Intervals are half-open, so a booking starting exactly where the
	// previous one ends does not conflict.
	resp, err := bookingsClient.Create(bookingBody(place.ID, start.Add(time.Hour), 60))
	if err != nil {
		t.Fatalf("failed to post booking: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201 for back-to-back slot, got %s", resp.ToString())
	}
}

func testCancelReleasesSlot(t *testing.T) {
	place := createTestPlace(t)
	start := time.Date(2027, time.March, 5, 10, 0, 0, 0, time.UTC)

	booking := createBooking(t, place.ID, start, 60)

	resp, err := bookingsClient.Cancel(booking.ID)
	if err != nil {
		t.Fatalf("failed to cancel booking: %v", err)
	}
	if resp.StatusCode != 204 {
		t.Fatalf("expected 204 cancelling booking, got %s", resp.ToString())
	}

	// The cancelled booking no longer occupies the slot.
	createBooking(t, place.ID, start, 60)
}

func testUpdateIntoOccupiedSlot(t *testing.T) {
	place := createTestPlace(t)
	first := time.Date(2027, time.March, 6, 10, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Hour)

	createBooking(t, place.ID, first, 60)
	movable := createBooking(t, place.ID, second, 60)

	resp, err := bookingsClient.Update(movable.ID, map[string]any{
		"start_time": first.Format(time.RFC3339),
		"end_time":   first.Add(time.Hour).Format(time.RFC3339),
	})
	if err != nil {
		t.Fatalf("failed to patch booking: %v", err)
	}
	if resp.StatusCode != 409 {
		t.Fatalf("expected 409 moving into occupied slot, got %s", resp.ToString())
	}
}

func testDelete(t *testing.T) {
	place := createTestPlace(t)
	start := time.Date(2027, time.March, 7, 10, 0, 0, 0, time.UTC)

	booking := createBooking(t, place.ID, start, 60)

	resp, err := bookingsClient.Delete(booking.ID)
	if err != nil {
		t.Fatalf("failed to delete booking: %v", err)
	}
	if resp.StatusCode != 204 {
		t.Fatalf("expected 204 deleting booking, got %s", resp.ToString())
	}

	resp, err = bookingsClient.GetByID(booking.ID)
	if err != nil {
		t.Fatalf("failed to get booking: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404 after delete, got %s", resp.ToString())
	}
}
