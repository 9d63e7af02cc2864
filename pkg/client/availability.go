package client

import (
	"encoding/json"
	"fmt"
	"time"

	"linkuup/pkg/model"
)

type AvailabilityClient struct {
	httpClient *HttpClient
}

func NewAvailabilityClient(baseUrl string) *AvailabilityClient {
	return &AvailabilityClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

// AvailabilityResult mirrors the availability check response body.
type AvailabilityResult struct {
	Available bool                       `json:"available"`
	Reason    model.UnavailabilityReason `json:"reason,omitempty"`
}

// PlanResult mirrors the recurring plan response body.
type PlanResult struct {
	Occurrences []PlanOccurrence `json:"occurrences"`
	CreateCount int              `json:"create_count"`
	SkipCount   int              `json:"skip_count"`
}

type PlanOccurrence struct {
	Date      time.Time                  `json:"date"`
	StartTime time.Time                  `json:"start_time"`
	EndTime   time.Time                  `json:"end_time"`
	Decision  string                     `json:"decision"`
	Reason    model.UnavailabilityReason `json:"reason,omitempty"`
}

// CommitSeriesResult mirrors the recurring commit response body.
type CommitSeriesResult struct {
	Created []*model.Booking  `json:"created"`
	Skipped []SkippedInstance `json:"skipped"`
}

type SkippedInstance struct {
	Date   time.Time                  `json:"date"`
	Reason model.UnavailabilityReason `json:"reason"`
}

func (c *AvailabilityClient) Check(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/availability", body)
}

func (c *AvailabilityClient) Plan(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/bookings/recurring/plan", body)
}

func (c *AvailabilityClient) CommitRecurring(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/bookings/recurring", body)
}

func (c *AvailabilityClient) DecodeCheck(resp *Response) (*AvailabilityResult, error) {
	var wrapper struct {
		Data AvailabilityResult `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode availability result:\n%+v\n%s", resp.ToString(), err)
	}

	return &wrapper.Data, nil
}

func (c *AvailabilityClient) DecodePlan(resp *Response) (*PlanResult, error) {
	var wrapper struct {
		Data PlanResult `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode series plan:\n%+v\n%s", resp.ToString(), err)
	}

	return &wrapper.Data, nil
}

func (c *AvailabilityClient) DecodeCommit(resp *Response) (*CommitSeriesResult, error) {
	var wrapper struct {
		Data CommitSeriesResult `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode commit result:\n%+v\n%s", resp.ToString(), err)
	}

	return &wrapper.Data, nil
}
