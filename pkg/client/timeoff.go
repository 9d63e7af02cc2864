package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"linkuup/pkg/model"
)

type TimeOffClient struct {
	httpClient *HttpClient
}

func NewTimeOffClient(baseUrl string) *TimeOffClient {
	return &TimeOffClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

type statusChangeBody struct {
	ApproverID string `json:"approver_id"`
}

func (c *TimeOffClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/time-off", body)
}

func (c *TimeOffClient) GetByEmployee(employeeID string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	q.Set("employee_id", employeeID)
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	path := "/api/v1/time-off?" + q.Encode()
	return c.httpClient.GET(path)
}

func (c *TimeOffClient) GetByID(id string) (*Response, error) {
	path := "/api/v1/time-off/id/" + url.PathEscape(id)
	return c.httpClient.GET(path)
}

func (c *TimeOffClient) Update(id string, body any) (*Response, error) {
	path := "/api/v1/time-off/id/" + url.PathEscape(id)
	return c.httpClient.PATCH(path, body)
}

func (c *TimeOffClient) Approve(id, approverID string) (*Response, error) {
	path := "/api/v1/time-off/id/" + url.PathEscape(id) + "/approve"
	return c.httpClient.POST(path, statusChangeBody{ApproverID: approverID})
}

func (c *TimeOffClient) Reject(id, approverID string) (*Response, error) {
	path := "/api/v1/time-off/id/" + url.PathEscape(id) + "/reject"
	return c.httpClient.POST(path, statusChangeBody{ApproverID: approverID})
}

func (c *TimeOffClient) Cancel(id string) (*Response, error) {
	path := "/api/v1/time-off/id/" + url.PathEscape(id) + "/cancel"
	return c.httpClient.POST(path, statusChangeBody{})
}

func (c *TimeOffClient) Delete(id string) (*Response, error) {
	path := "/api/v1/time-off/id/" + url.PathEscape(id)
	return c.httpClient.DELETE(path)
}

func (c *TimeOffClient) DecodeTimeOff(resp *Response) (*model.EmployeeTimeOff, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode time-off wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var timeOff model.EmployeeTimeOff
	if err := json.Unmarshal(wrapper.Data, &timeOff); err != nil {
		return nil, fmt.Errorf("could not decode time-off json:\n%+v\n%s", resp.ToString(), err)
	}

	return &timeOff, nil
}

func (c *TimeOffClient) DecodeTimeOffs(resp *Response) ([]*model.EmployeeTimeOff, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var timeOffs []*model.EmployeeTimeOff
	if err := json.Unmarshal(wrapper.Data, &timeOffs); err != nil {
		return nil, nil, fmt.Errorf("could not decode time-off list:\n%+v\n%s", resp.ToString(), err)
	}

	metadata := &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}

	return timeOffs, metadata, nil
}
