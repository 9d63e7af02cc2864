package integrationtests

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkuup/pkg/client"
	"linkuup/pkg/model"
	"linkuup/test/common"
)

const ServiceName = "availability-integration-tests"

var (
	suite              *common.IntegrationTestSuite
	availabilityClient *client.AvailabilityClient
	bookingsClient     *client.BookingClient
	placesClient       *client.PlaceClient
	closuresClient     *client.ClosureClient
	timeOffClient      *client.TimeOffClient
)

func TestMain(t *testing.T) {
	common.SkipWithoutServers(t)
	setup()
	testCheckOpenSlot(t)
	testPlaceClosureBlocks(t)
	testBusinessClosureTakesPrecedence(t)
	testAfternoonClosureBlocksOnlyAfternoon(t)
	testTimeOffBlocksAfterApproval(t)
	testRecurringPlanIsDeterministic(t)
	testRecurringCommitCreatesSeries(t)
	testInvalidPatternRejected(t)
	teardown(t)
}

func setup() {
	suite = common.NewIntegrationTestSuite(ServiceName)
	availabilityClient = client.NewAvailabilityClient(common.BookingsServerURL())
	bookingsClient = client.NewBookingClient(common.BookingsServerURL())
	placesClient = client.NewPlaceClient(common.ClosuresServerURL())
	closuresClient = client.NewClosureClient(common.ClosuresServerURL())
	timeOffClient = client.NewTimeOffClient(common.ClosuresServerURL())
}

func teardown(t *testing.T) {
	common.ClearTestData(t, suite.HTTPClient, "bookings", "")
	suite.Teardown()
}

func createTestPlace(t *testing.T) *model.Place {
	t.Helper()

	resp, err := placesClient.Create(map[string]any{
		"business_id": primitive.NewObjectID().Hex(),
		"name":        fmt.Sprintf("availability-it-%s", primitive.NewObjectID().Hex()[18:]),
		"city":        "Tel Aviv",
		"address":     "Dizengoff 50",
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

func createClosure(t *testing.T, ownerScope, ownerID string, date time.Time, body map[string]any) *model.ClosurePeriod {
	t.Helper()

	closure := map[string]any{
		"owner_scope": ownerScope,
		"owner_id":    ownerID,
		"name":        "integration closure",
		"start_date":  date.Format(time.RFC3339),
		"end_date":    date.Format(time.RFC3339),
		"is_full_day": true,
		"status":      model.ClosureStatusActive,
	}
	for k, v := range body {
		closure[k] = v
	}

	resp, err := closuresClient.Create(closure)
	if err != nil {
		t.Fatalf("failed to create closure: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201 creating closure, got %s", resp.ToString())
	}

	created, err := closuresClient.DecodeClosure(resp)
	if err != nil {
		t.Fatalf("failed to decode closure: %v", err)
	}
	return created
}

func checkSlot(t *testing.T, placeID, employeeID string, start time.Time) *client.AvailabilityResult {
	t.Helper()

	body := map[string]any{
		"place_id":         placeID,
		"start_time":       start.Format(time.RFC3339),
		"duration_minutes": 60,
	}
	if employeeID != "" {
		body["employee_id"] = employeeID
	}

	resp, err := availabilityClient.Check(body)
	if err != nil {
		t.Fatalf("failed to check availability: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 from availability check, got %s", resp.ToString())
	}

	result, err := availabilityClient.DecodeCheck(resp)
	if err != nil {
		t.Fatalf("failed to decode check result: %v", err)
	}
	return result
}

func recurringBody(placeID string, firstStart time.Time, weeks int) map[string]any {
	return map[string]any{
		"place_id":         placeID,
		"service_ids":      []string{primitive.NewObjectID().Hex()},
		"customer_id":      primitive.NewObjectID().Hex(),
		"first_start":      firstStart.Format(time.RFC3339),
		"duration_minutes": 60,
		"pattern": map[string]any{
			"frequency":    "weekly",
			"interval":     1,
			"days_of_week": []int{int(firstStart.Weekday())},
		},
		"recurrence_end_date": firstStart.AddDate(0, 0, 7*(weeks-1)).Format(time.RFC3339),
	}
}

func testCheckOpenSlot(t *testing.T) {
	place := createTestPlace(t)
	start := time.Date(2027, time.May, 3, 10, 0, 0, 0, time.UTC)

	result := checkSlot(t, place.ID, "", start)
	if !result.Available {
		t.Fatalf("expected open slot to be available, got reason %q", result.Reason)
	}
}

func testPlaceClosureBlocks(t *testing.T) {
	place := createTestPlace(t)
	start := time.Date(2027, time.May, 4, 10, 0, 0, 0, time.UTC)

	createClosure(t, model.OwnerScopePlace, place.ID, start.Truncate(24*time.Hour), nil)

	result := checkSlot(t, place.ID, "", start)
	if result.Available {
		t.Fatal("expected closed place to be unavailable")
	}
	if result.Reason != model.ReasonPlaceClosed {
		t.Errorf("expected reason %q, got %q", model.ReasonPlaceClosed, result.Reason)
	}
}

func testBusinessClosureTakesPrecedence(t *testing.T) {
	place := createTestPlace(t)
	start := time.Date(2027, time.May, 5, 10, 0, 0, 0, time.UTC)
	date := start.Truncate(24 * time.Hour)

	createClosure(t, model.OwnerScopePlace, place.ID, date, nil)
	createClosure(t, model.OwnerScopeBusiness, place.BusinessID, date, nil)

	result := checkSlot(t, place.ID, "", start)
	if result.Reason != model.ReasonBusinessClosed {
		t.Errorf("expected reason %q, got %q", model.ReasonBusinessClosed, result.Reason)
	}
}

func testAfternoonClosureBlocksOnlyAfternoon(t *testing.T) {
	place := createTestPlace(t)
	date := time.Date(2027, time.May, 6, 0, 0, 0, 0, time.UTC)

	createClosure(t, model.OwnerScopePlace, place.ID, date, map[string]any{
		"is_full_day":     false,
		"half_day_period": string(model.PeriodPM),
	})

	morning := checkSlot(t, place.ID, "", date.Add(9*time.Hour))
	if !morning.Available {
		t.Errorf("expected morning slot to stay available, got reason %q", morning.Reason)
	}

	afternoon := checkSlot(t, place.ID, "", date.Add(14*time.Hour))
	if afternoon.Available {
		t.Fatal("expected afternoon slot to be blocked")
	}
	if afternoon.Reason != model.ReasonPlaceClosed {
		t.Errorf("expected reason %q, got %q", model.ReasonPlaceClosed, afternoon.Reason)
	}
}

func testTimeOffBlocksAfterApproval(t *testing.T) {
	place := createTestPlace(t)
	employeeID := primitive.NewObjectID().Hex()
	start := time.Date(2027, time.May, 7, 10, 0, 0, 0, time.UTC)
	date := start.Truncate(24 * time.Hour)

	resp, err := timeOffClient.Create(map[string]any{
		"employee_id":   employeeID,
		"time_off_type": "vacation",
		"start_date":    date.Format(time.RFC3339),
		"end_date":      date.Format(time.RFC3339),
		"is_full_day":   true,
		"requested_by":  employeeID,
	})
	if err != nil {
		t.Fatalf("failed to create time-off: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201 creating time-off, got %s", resp.ToString())
	}
	timeOff, err := timeOffClient.DecodeTimeOff(resp)
	if err != nil {
		t.Fatalf("failed to decode time-off: %v", err)
	}

	// Pending requests do not block.
	result := checkSlot(t, place.ID, employeeID, start)
	if !result.Available {
		t.Fatalf("expected slot available while time-off is pending, got %q", result.Reason)
	}

	resp, err = timeOffClient.Approve(timeOff.ID, primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("failed to approve time-off: %v", err)
	}
	if resp.StatusCode != 204 {
		t.Fatalf("expected 204 approving time-off, got %s", resp.ToString())
	}

	result = checkSlot(t, place.ID, employeeID, start)
	if result.Available {
		t.Fatal("expected approved time-off to block the slot")
	}
	if result.Reason != model.ReasonEmployeeTimeOff {
		t.Errorf("expected reason %q, got %q", model.ReasonEmployeeTimeOff, result.Reason)
	}
}

func testRecurringPlanIsDeterministic(t *testing.T) {
	place := createTestPlace(t)
	firstStart := time.Date(2027, time.April, 5, 10, 0, 0, 0, time.UTC)

	// Block the second Monday so the plan carries a skip.
	createClosure(t, model.OwnerScopePlace, place.ID,
		time.Date(2027, time.April, 12, 0, 0, 0, 0, time.UTC), nil)

	body := recurringBody(place.ID, firstStart, 4)

	resp, err := availabilityClient.Plan(body)
	if err != nil {
		t.Fatalf("failed to plan series: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 planning series, got %s", resp.ToString())
	}
	first, err := availabilityClient.DecodePlan(resp)
	if err != nil {
		t.Fatalf("failed to decode plan: %v", err)
	}

	if len(first.Occurrences) != 4 {
		t.Fatalf("expected 4 occurrences, got %d", len(first.Occurrences))
	}
	if first.CreateCount != 3 || first.SkipCount != 1 {
		t.Fatalf("expected 3 creates and 1 skip, got %d/%d", first.CreateCount, first.SkipCount)
	}
	if first.Occurrences[1].Reason != model.ReasonPlaceClosed {
		t.Errorf("expected second occurrence skipped as %q, got %q",
			model.ReasonPlaceClosed, first.Occurrences[1].Reason)
	}

	// Planning writes nothing, so the same request yields the same plan.
	resp, err = availabilityClient.Plan(body)
	if err != nil {
		t.Fatalf("failed to re-plan series: %v", err)
	}
	second, err := availabilityClient.DecodePlan(resp)
	if err != nil {
		t.Fatalf("failed to decode plan: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("expected identical plans for identical requests")
	}
}

func testRecurringCommitCreatesSeries(t *testing.T) {
	place := createTestPlace(t)
	firstStart := time.Date(2027, time.June, 7, 10, 0, 0, 0, time.UTC)

	// Block the third Monday so the committed series carries a skip.
	createClosure(t, model.OwnerScopePlace, place.ID,
		time.Date(2027, time.June, 21, 0, 0, 0, 0, time.UTC), nil)

	resp, err := availabilityClient.CommitRecurring(recurringBody(place.ID, firstStart, 4))
	if err != nil {
		t.Fatalf("failed to commit series: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201 committing series, got %s", resp.ToString())
	}

	result, err := availabilityClient.DecodeCommit(resp)
	if err != nil {
		t.Fatalf("failed to decode commit result: %v", err)
	}
	if len(result.Created) != 3 {
		t.Fatalf("expected 3 created bookings, got %d", len(result.Created))
	}
	if len(result.Skipped) != 1 || result.Skipped[0].Reason != model.ReasonPlaceClosed {
		t.Fatalf("unexpected skipped list: %+v", result.Skipped)
	}

	root := result.Created[0]
	if root.ParentBookingID != "" {
		t.Errorf("expected series root without parent, got %q", root.ParentBookingID)
	}
	for _, child := range result.Created[1:] {
		if child.ParentBookingID != root.ID {
			t.Errorf("expected child parent %s, got %q", root.ID, child.ParentBookingID)
		}
	}

	// The series endpoint returns the root plus its children.
	seriesResp, err := bookingsClient.GetSeries(root.ID)
	if err != nil {
		t.Fatalf("failed to get series: %v", err)
	}
	if seriesResp.StatusCode != 200 {
		t.Fatalf("expected 200 from series endpoint, got %s", seriesResp.ToString())
	}
	series, _, err := bookingsClient.DecodeBookings(seriesResp)
	if err != nil {
		t.Fatalf("failed to decode series: %v", err)
	}
	if len(series) != 3 {
		t.Errorf("expected 3 bookings in series, got %d", len(series))
	}
}

func testInvalidPatternRejected(t *testing.T) {
	place := createTestPlace(t)
	firstStart := time.Date(2027, time.July, 5, 10, 0, 0, 0, time.UTC)

	body := recurringBody(place.ID, firstStart, 4)
	body["pattern"] = map[string]any{"frequency": "hourly", "interval": 1}

	resp, err := availabilityClient.Plan(body)
	if err != nil {
		t.Fatalf("failed to post plan request: %v", err)
	}
	if resp.StatusCode != 422 {
		t.Fatalf("expected 422 for invalid pattern, got %s", resp.ToString())
	}
}
