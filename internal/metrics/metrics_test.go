package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInit(t *testing.T) {
	// Call Init multiple times to test idempotency.
	Init()
	Init()

	if httpRequestsTotal == nil || httpRequestDurationSeconds == nil {
		t.Fatal("Init() did not initialize metrics collectors")
	}

	ObserveHTTPRequest("POST", "/v1/mesh", 200, 150*time.Millisecond)
	if val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "200")); val != 1 {
		t.Errorf("Expected httpRequestsTotal to be 1, got %f", val)
	}
}
