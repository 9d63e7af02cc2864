package common

import (
	"fmt"
	"testing"

	"linkuup/pkg/client"
)

// ClearTestData deletes every row of a resource by paging through its list
// endpoint. The extraQuery string carries filters the list endpoint requires
// (for example "owner_scope=place&owner_id=..." for closures); it may be
// empty for resources that list unfiltered.
func ClearTestData(t *testing.T, httpClient *client.HttpClient, resource, extraQuery string) {
	t.Helper()

	query := ""
	if extraQuery != "" {
		query = "&" + extraQuery
	}

	totalCount := int64(1000)
	for totalCount > 0 {
		resp, err := httpClient.GET(fmt.Sprintf("/api/v1/%s?limit=1000&offset=0%s", resource, query))
		if err != nil {
			t.Fatalf("failed to list %s: %v", resource, err)
		}
		if resp.StatusCode != 200 {
			t.Fatalf("failed to clear %s data: %s", resource, resp.ToString())
		}

		var result struct {
			Data []map[string]any `json:"data"`
		}
		if err := resp.DecodeJSON(&result); err != nil {
			t.Fatalf("failed to decode %s list: %v", resource, err)
		}

		for _, item := range result.Data {
			id, ok := item["id"].(string)
			if !ok || id == "" {
				continue
			}
			if _, err := httpClient.DELETE(fmt.Sprintf("/api/v1/%s/id/%s", resource, id)); err != nil {
				t.Fatalf("failed to delete %s %s: %v", resource, id, err)
			}
		}

		resp, err = httpClient.GET(fmt.Sprintf("/api/v1/%s?limit=10&offset=0%s", resource, query))
		if err != nil {
			t.Fatalf("failed to list %s: %v", resource, err)
		}
		if resp.StatusCode != 200 {
			t.Fatalf("failed to clear %s data: %s", resource, resp.ToString())
		}

		var res struct {
			Data       []map[string]any `json:"data"`
			TotalCount int64            `json:"total_count"`
			Limit      int              `json:"limit"`
			Offset     int64            `json:"offset"`
		}
		if err := resp.DecodeJSON(&res); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		totalCount = res.TotalCount
	}
}
