package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"linkuup/internal/availability/service"
	apperrors "linkuup/pkg/errors"
	"linkuup/pkg/logger"
	"linkuup/pkg/model"
)

type mockAvailabilityService struct {
	CheckFunc           func(ctx context.Context, req service.CheckRequest) (*service.CheckResult, error)
	PlanFunc            func(ctx context.Context, req service.RecurringBookingRequest) (*service.SeriesPlan, error)
	CommitRecurringFunc func(ctx context.Context, req service.RecurringBookingRequest) (*service.CommitResult, error)
	CreateBookingFunc   func(ctx context.Context, b *model.Booking) error
}

func (m *mockAvailabilityService) Check(ctx context.Context, req service.CheckRequest) (*service.CheckResult, error) {
	return m.CheckFunc(ctx, req)
}

func (m *mockAvailabilityService) Plan(ctx context.Context, req service.RecurringBookingRequest) (*service.SeriesPlan, error) {
	return m.PlanFunc(ctx, req)
}

func (m *mockAvailabilityService) CommitRecurring(ctx context.Context, req service.RecurringBookingRequest) (*service.CommitResult, error) {
	return m.CommitRecurringFunc(ctx, req)
}

func (m *mockAvailabilityService) CreateBooking(ctx context.Context, b *model.Booking) error {
	return m.CreateBookingFunc(ctx, b)
}

func newTestRouter(svc service.AvailabilityService) *httprouter.Router {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	router := httprouter.New()
	NewAvailabilityHandler(svc, log).RegisterRoutes(router)
	return router
}

func TestCheckHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		result     *service.CheckResult
		err        error
		wantCode   int
		wantReason string
	}{
		{
			"available slot",
			`{"place_id":"64f000000000000000000001","start_time":"2025-03-03T10:00:00Z","duration_minutes":60}`,
			&service.CheckResult{Available: true},
			nil,
			http.StatusOK,
			"",
		},
		{
			"blocked slot is still a 200",
			`{"place_id":"64f000000000000000000001","start_time":"2025-03-03T10:00:00Z","duration_minutes":60}`,
			&service.CheckResult{Available: false, Reason: model.ReasonPlaceClosed},
			nil,
			http.StatusOK,
			string(model.ReasonPlaceClosed),
		},
		{
			"malformed body",
			`{"place_id":`,
			nil,
			nil,
			http.StatusBadRequest,
			"",
		},
		{
			"unknown place",
			`{"place_id":"64f000000000000000000001","start_time":"2025-03-03T10:00:00Z","duration_minutes":60}`,
			nil,
			apperrors.NotFoundWithID("Place", "64f000000000000000000001"),
			http.StatusNotFound,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockAvailabilityService{
				CheckFunc: func(ctx context.Context, req service.CheckRequest) (*service.CheckResult, error) {
					if tt.err != nil {
						return nil, tt.err
					}
					return tt.result, nil
				},
			}
			router := newTestRouter(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/availability", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}

			var resp struct {
				Data service.CheckResult `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if string(resp.Data.Reason) != tt.wantReason {
				t.Errorf("expected reason %q, got %q", tt.wantReason, resp.Data.Reason)
			}
		})
	}
}

func TestPlanHandler(t *testing.T) {
	var gotReq service.RecurringBookingRequest
	svc := &mockAvailabilityService{
		PlanFunc: func(ctx context.Context, req service.RecurringBookingRequest) (*service.SeriesPlan, error) {
			gotReq = req
			return &service.SeriesPlan{
				Occurrences: []service.PlannedOccurrence{
					{
						Date:     time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC),
						Decision: service.DecisionCreate,
					},
					{
						Date:     time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC),
						Decision: service.DecisionSkip,
						Reason:   model.ReasonEmployeeTimeOff,
					},
				},
				CreateCount: 1,
				SkipCount:   1,
			}, nil
		},
	}
	router := newTestRouter(svc)

	body := `{
		"place_id": "64f000000000000000000001",
		"employee_id": "64f000000000000000000003",
		"service_ids": ["64f000000000000000000005"],
		"customer_id": "64f000000000000000000004",
		"first_start": "2025-01-06T10:00:00Z",
		"duration_minutes": 60,
		"pattern": {"frequency": "weekly", "interval": 1, "days_of_week": [1]},
		"recurrence_end_date": "2025-01-27T00:00:00Z"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/recurring/plan", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotReq.Pattern.Frequency != model.FrequencyWeekly {
		t.Errorf("expected weekly pattern, got %q", gotReq.Pattern.Frequency)
	}

	var resp struct {
		Data service.SeriesPlan `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.CreateCount != 1 || resp.Data.SkipCount != 1 {
		t.Errorf("unexpected plan counts: %d/%d", resp.Data.CreateCount, resp.Data.SkipCount)
	}
}

func TestPlanHandler_ValidationError(t *testing.T) {
	svc := &mockAvailabilityService{
		PlanFunc: func(ctx context.Context, req service.RecurringBookingRequest) (*service.SeriesPlan, error) {
			return nil, apperrors.Validation("Invalid recurrence pattern", nil)
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/recurring/plan", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestCommitRecurringHandler(t *testing.T) {
	svc := &mockAvailabilityService{
		CommitRecurringFunc: func(ctx context.Context, req service.RecurringBookingRequest) (*service.CommitResult, error) {
			return &service.CommitResult{
				Created: []*model.Booking{{ID: "64f000000000000000000010"}},
				Skipped: []service.SkippedOccurrence{
					{
						Date:   time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC),
						Reason: model.ReasonRaceConflict,
					},
				},
			}, nil
		},
	}
	router := newTestRouter(svc)

	body := `{
		"place_id": "64f000000000000000000001",
		"service_ids": ["64f000000000000000000005"],
		"customer_id": "64f000000000000000000004",
		"first_start": "2025-01-06T10:00:00Z",
		"duration_minutes": 60,
		"pattern": {"frequency": "weekly", "interval": 1, "days_of_week": [1]},
		"recurrence_end_date": "2025-01-27T00:00:00Z"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/recurring", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data service.CommitResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Data.Created) != 1 {
		t.Errorf("expected 1 created booking, got %d", len(resp.Data.Created))
	}
	if len(resp.Data.Skipped) != 1 || resp.Data.Skipped[0].Reason != model.ReasonRaceConflict {
		t.Errorf("unexpected skipped list: %+v", resp.Data.Skipped)
	}
}
