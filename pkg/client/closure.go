package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"linkuup/pkg/model"
)

type ClosureClient struct {
	httpClient *HttpClient
}

func NewClosureClient(baseUrl string) *ClosureClient {
	return &ClosureClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *ClosureClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/closures", body)
}

// GetByOwner lists closures for one owner; scope is "business" or "place".
func (c *ClosureClient) GetByOwner(ownerScope, ownerID string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	q.Set("owner_scope", ownerScope)
	q.Set("owner_id", ownerID)
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	path := "/api/v1/closures?" + q.Encode()
	return c.httpClient.GET(path)
}

func (c *ClosureClient) GetByID(id string) (*Response, error) {
	path := "/api/v1/closures/id/" + url.PathEscape(id)
	return c.httpClient.GET(path)
}

func (c *ClosureClient) Update(id string, body any) (*Response, error) {
	path := "/api/v1/closures/id/" + url.PathEscape(id)
	return c.httpClient.PATCH(path, body)
}

func (c *ClosureClient) Delete(id string) (*Response, error) {
	path := "/api/v1/closures/id/" + url.PathEscape(id)
	return c.httpClient.DELETE(path)
}

func (c *ClosureClient) CreateRaw(rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw("/api/v1/closures", rawBody)
}

func (c *ClosureClient) DecodeClosure(resp *Response) (*model.ClosurePeriod, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode closure wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var closure model.ClosurePeriod
	if err := json.Unmarshal(wrapper.Data, &closure); err != nil {
		return nil, fmt.Errorf("could not decode closure json:\n%+v\n%s", resp.ToString(), err)
	}

	return &closure, nil
}

func (c *ClosureClient) DecodeClosures(resp *Response) ([]*model.ClosurePeriod, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var closures []*model.ClosurePeriod
	if err := json.Unmarshal(wrapper.Data, &closures); err != nil {
		return nil, nil, fmt.Errorf("could not decode closure list:\n%+v\n%s", resp.ToString(), err)
	}

	metadata := &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}

	return closures, metadata, nil
}
