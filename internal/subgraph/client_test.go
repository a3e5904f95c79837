package subgraph

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestClient_Query(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"bundles":[{"id":"1","avaxPrice":"25.5"}]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var resp struct {
		Bundles []struct {
			AvaxPrice decimal.Decimal `json:"avaxPrice"`
		} `json:"bundles"`
	}
	if err := client.Query(context.Background(), bundleQuery, nil, &resp); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(resp.Bundles) != 1 || !resp.Bundles[0].AvaxPrice.Equal(decimal.NewFromFloat(25.5)) {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"data":{"pools":[]}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithMaxRetries(3), WithRetryDelay(time.Millisecond))

	var resp struct {
		Pools []poolDTO `json:"pools"`
	}
	if err := client.Query(context.Background(), poolsQuery, map[string]any{"first": 10}, &resp); err != nil {
		t.Fatalf("Query failed after retries: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestClient_GraphQLErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`{"errors":[{"message":"no such field"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithRetryDelay(time.Millisecond))

	var resp struct{}
	err := client.Query(context.Background(), bundleQuery, nil, &resp)
	if err == nil || !strings.Contains(err.Error(), "no such field") {
		t.Fatalf("expected graphql error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("graphql errors must not be retried, got %d attempts", calls.Load())
	}
}

func TestAverageBlockTime(t *testing.T) {
	d := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

	// 100 blocks spanning 200 seconds, descending order.
	blocks := []blockDTO{
		{Number: d(1100), Timestamp: d(10200)},
		{Number: d(1050), Timestamp: d(10100)},
		{Number: d(1000), Timestamp: d(10000)},
	}
	got := averageBlockTime(blocks)
	if !got.Equal(d(2)) {
		t.Errorf("expected 2s, got %s", got)
	}
}

func TestAverageBlockTime_InsufficientData(t *testing.T) {
	if !averageBlockTime(nil).IsZero() {
		t.Error("no blocks should yield zero")
	}
	one := []blockDTO{{Number: decimal.NewFromInt(1), Timestamp: decimal.NewFromInt(10)}}
	if !averageBlockTime(one).IsZero() {
		t.Error("single block should yield zero")
	}
}
