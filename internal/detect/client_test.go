package detect

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/subinlebow/quotegen-backend/pkg/config"
	pkgerrors "github.com/subinlebow/quotegen-backend/pkg/errors"
)

func TestDetectFiltersLowConfidence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"detections":[
			{"label":"standard-seat","confidence":0.92,"box":{"x_min":1,"y_min":2,"x_max":3,"y_max":4}},
			{"label":"standard-side","confidence":0.10,"box":{"x_min":0,"y_min":0,"x_max":1,"y_max":1}}
		]}`))
	}))
	defer srv.Close()

	client, err := NewClient(config.DetectorConfig{BaseURL: srv.URL, MinConfidence: 0.25})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	detections, err := client.Detect(context.Background(), []byte("jpeg-bytes"))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(detections) != 1 {
		t.Fatalf("expected 1 detection above threshold, got %d", len(detections))
	}
	if detections[0].Label != "standard-seat" {
		t.Fatalf("unexpected label %q", detections[0].Label)
	}
	if detections[0].Box.XMax != 3 {
		t.Fatalf("bounding box not preserved: %+v", detections[0].Box)
	}
}

func TestDetectEmptyResultIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"detections":[]}`))
	}))
	defer srv.Close()

	client, _ := NewClient(config.DetectorConfig{BaseURL: srv.URL})
	detections, err := client.Detect(context.Background(), []byte("img"))
	if err != nil {
		t.Fatalf("empty detections should not error: %v", err)
	}
	if len(detections) != 0 {
		t.Fatalf("expected no detections, got %d", len(detections))
	}
}

func TestDetectUpstreamFailureIsRetryableDependencyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, _ := NewClient(config.DetectorConfig{BaseURL: srv.URL})
	_, err := client.Detect(context.Background(), []byte("img"))
	if err == nil {
		t.Fatal("expected error on upstream failure")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !pkgerrors.MetadataFor(typed.Code()).Retryable {
		t.Fatal("upstream detection failure must be retryable")
	}
}

func TestDetectRejectsEmptyImage(t *testing.T) {
	client, _ := NewClient(config.DetectorConfig{BaseURL: "http://localhost:1"})
	_, err := client.Detect(context.Background(), nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty image, got %v", err)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient(config.DetectorConfig{}); err == nil {
		t.Fatal("expected error without base url")
	}
}

func TestPingToleratesMissingHealthRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := NewClient(config.DetectorConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("a reachable service should pass the probe: %v", err)
	}
}

func TestPingFailsOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(config.DetectorConfig{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := client.Ping(context.Background()); err == nil {
		t.Fatal("expected probe failure on 500")
	}
}
