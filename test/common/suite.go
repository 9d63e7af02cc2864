package common

import (
	"os"
	"testing"

	"linkuup/pkg/client"
	"linkuup/pkg/config"
)

type IntegrationTestSuite struct {
	Config      *config.Config
	HTTPClient  *client.HttpClient
	ServiceName string
}

func NewIntegrationTestSuite(serviceName string) *IntegrationTestSuite {
	cfg := config.Load(serviceName)

	return &IntegrationTestSuite{
		Config:      cfg,
		HTTPClient:  client.NewHttpClient(BookingsServerURL()),
		ServiceName: serviceName,
	}
}

func (s *IntegrationTestSuite) Teardown() {
	s.Config.GracefulShutdown()
}

// BookingsServerURL is the base URL of the bookings/availability service.
func BookingsServerURL() string {
	if url := os.Getenv("TEST_SERVER_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

// ClosuresServerURL is the base URL of the closures/time-off/places service.
func ClosuresServerURL() string {
	if url := os.Getenv("TEST_CLOSURES_SERVER_URL"); url != "" {
		return url
	}
	return "http://localhost:8081"
}

// SkipWithoutServers makes the integration suites opt-in: without
// TEST_SERVER_URL pointing at a running deployment the tests skip, so a
// plain `go test ./...` stays green.
func SkipWithoutServers(t *testing.T) {
	t.Helper()
	if os.Getenv("TEST_SERVER_URL") == "" {
		t.Skip("TEST_SERVER_URL not set; integration tests need running services")
	}
}
