package citygml

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
)

func newTestAPI(t *testing.T) (*APIServer, *httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := testConfig(dir)
	api := NewAPIServer(NewIngestService(nil, nil, cfg), nil, cfg)
	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return api, srv, writeSample(t, dir)
}

func postIngest(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/ingest", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestHandleIngest_Validation(t *testing.T) {
	_, srv, _ := newTestAPI(t)

	testCases := []struct {
		name     string
		body     string
		expected int
	}{
		{name: "invalid json", body: "{", expected: http.StatusBadRequest},
		{name: "missing source", body: `{"options":{}}`, expected: http.StatusBadRequest},
		{name: "invalid mask", body: `{"source":"a.gml","options":{"objectsMask":"Castle"}}`, expected: http.StatusBadRequest},
		{name: "queued", body: `{"source":"a.gml"}`, expected: http.StatusAccepted},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postIngest(t, srv, tc.body)
			defer resp.Body.Close()
			if resp.StatusCode != tc.expected {
				t.Errorf("status mismatch: got %d, expected %d", resp.StatusCode, tc.expected)
			}
		})
	}

	resp, err := http.Get(srv.URL + "/api/ingest")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET status mismatch: got %d, expected %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestHandleJobStatus_Queued(t *testing.T) {
	_, srv, source := newTestAPI(t)

	resp := postIngest(t, srv, `{"source":"`+source+`","options":{"exportGeoJson":true}}`)
	var ingest IngestResponse
	if err := json.NewDecoder(resp.Body).Decode(&ingest); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if ingest.JobID == "" {
		t.Fatalf("expected a job id")
	}

	// no workers are running, so the job stays pending
	resp, err := http.Get(srv.URL + "/api/jobs/" + ingest.JobID)
	if err != nil {
		t.Fatal(err)
	}
	var status JobStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if status.Status != StatusPending || status.Source != source || !status.Options.ExportGeoJSON {
		t.Errorf("job status mismatch: got %+v", status)
	}

	resp, err = http.Get(srv.URL + "/api/jobs")
	if err != nil {
		t.Fatal(err)
	}
	var jobs []JobStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&jobs); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if len(jobs) != 1 || jobs[0].JobID != ingest.JobID {
		t.Errorf("job list mismatch: got %+v", jobs)
	}
}

func TestHandleNotFoundAndUnavailable(t *testing.T) {
	_, srv, _ := newTestAPI(t)

	testCases := []struct {
		name     string
		path     string
		expected int
	}{
		{name: "unknown job", path: "/api/jobs/nope", expected: http.StatusNotFound},
		{name: "empty job id", path: "/api/jobs/", expected: http.StatusBadRequest},
		{name: "unknown stream", path: "/api/stream/nope", expected: http.StatusNotFound},
		{name: "objects without index", path: "/api/objects?bbox=13,52,14,53", expected: http.StatusServiceUnavailable},
		{name: "health", path: "/health", expected: http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tc.path)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tc.expected {
				t.Errorf("status mismatch: got %d, expected %d", resp.StatusCode, tc.expected)
			}
		})
	}
}

func TestJobLifecycle(t *testing.T) {
	api, srv, source := newTestAPI(t)
	api.startWorkers(1)
	defer api.Stop()

	resp := postIngest(t, srv, `{"source":"`+source+`","options":{"exportGeoJson":true}}`)
	var ingest IngestResponse
	if err := json.NewDecoder(resp.Body).Decode(&ingest); err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	// the stream ends with the final state of the job
	stream, err := http.Get(srv.URL + "/api/stream/" + ingest.JobID)
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Body.Close()

	var last JobStatusUpdate
	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(stream.Body)
		for scanner.Scan() {
			data, ok := strings.CutPrefix(scanner.Text(), "data: ")
			if !ok {
				continue
			}
			json.Unmarshal([]byte(data), &last)
		}
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		t.Fatalf("job stream did not finish")
	}
	if last.Status != StatusCompleted {
		t.Errorf("final stream status mismatch: got %s (%s), expected %s", last.Status, last.Error, StatusCompleted)
	}

	resp, err = http.Get(srv.URL + "/api/jobs/" + ingest.JobID)
	if err != nil {
		t.Fatal(err)
	}
	var status JobStatusResponse
	json.NewDecoder(resp.Body).Decode(&status)
	resp.Body.Close()
	if status.Status != StatusCompleted {
		t.Errorf("job status mismatch: got %s, expected %s", status.Status, StatusCompleted)
	}
	if status.RecordsIndexed == nil || *status.RecordsIndexed != 2 {
		t.Errorf("records indexed mismatch: got %v, expected 2", status.RecordsIndexed)
	}
}

func TestParseBBox(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  orb.Bound
		expectErr bool
	}{
		{name: "valid", input: "13.3, 52.4,13.5,52.6", expected: orb.Bound{Min: orb.Point{13.3, 52.4}, Max: orb.Point{13.5, 52.6}}},
		{name: "too few values", input: "13,52,14", expectErr: true},
		{name: "not a number", input: "a,52,14,53", expectErr: true},
		{name: "inverted", input: "14,52,13,53", expectErr: true},
		{name: "empty", input: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseBBox(tc.input)
			if tc.expectErr {
				if err == nil {
					t.Errorf("expected error for %q", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseBBox failed: %v", err)
			}
			if got != tc.expected {
				t.Errorf("bound mismatch: got %v, expected %v", got, tc.expected)
			}
		})
	}
}
