package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"linkuup/pkg/model"
)

type PlaceClient struct {
	httpClient *HttpClient
}

func NewPlaceClient(baseUrl string) *PlaceClient {
	return &PlaceClient{
		httpClient: NewHttpClient(baseUrl),
	}
}

func (c *PlaceClient) Create(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/places", body)
}

func (c *PlaceClient) GetAll(limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/places?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(path)
}

func (c *PlaceClient) GetByBusiness(businessID string, limit int, offset int64) (*Response, error) {
	q := url.Values{}
	q.Set("business_id", businessID)
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("offset", fmt.Sprintf("%d", offset))

	path := "/api/v1/places?" + q.Encode()
	return c.httpClient.GET(path)
}

func (c *PlaceClient) GetByID(id string) (*Response, error) {
	path := "/api/v1/places/id/" + url.PathEscape(id)
	return c.httpClient.GET(path)
}

func (c *PlaceClient) Update(id string, body any) (*Response, error) {
	path := "/api/v1/places/id/" + url.PathEscape(id)
	return c.httpClient.PATCH(path, body)
}

func (c *PlaceClient) Delete(id string) (*Response, error) {
	path := "/api/v1/places/id/" + url.PathEscape(id)
	return c.httpClient.DELETE(path)
}

func (c *PlaceClient) DecodePlace(resp *Response) (*model.Place, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode place wrapper:\n%+v\n%s", resp.ToString(), err)
	}

	var place model.Place
	if err := json.Unmarshal(wrapper.Data, &place); err != nil {
		return nil, fmt.Errorf("could not decode place json:\n%+v\n%s", resp.ToString(), err)
	}

	return &place, nil
}

func (c *PlaceClient) DecodePlaces(resp *Response) ([]*model.Place, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}

	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%+v\n%s", resp.ToString(), err)
	}

	var places []*model.Place
	if err := json.Unmarshal(wrapper.Data, &places); err != nil {
		return nil, nil, fmt.Errorf("could not decode place list:\n%+v\n%s", resp.ToString(), err)
	}

	metadata := &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}

	return places, metadata, nil
}
