package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/subinlebow/quotegen-backend/internal/detect"
	"github.com/subinlebow/quotegen-backend/internal/quote"
	"github.com/subinlebow/quotegen-backend/pkg/enums"
	pkgerrors "github.com/subinlebow/quotegen-backend/pkg/errors"
)

type stubQuoteService struct {
	quote       *quote.Quote
	err         error
	buildParams quote.BuildParams
}

func (s *stubQuoteService) Build(ctx context.Context, params quote.BuildParams) (*quote.Quote, error) {
	s.buildParams = params
	return s.quote, s.err
}

func (s *stubQuoteService) Get(ctx context.Context, id string) (*quote.Quote, error) {
	return s.quote, s.err
}

func (s *stubQuoteService) ApplyQuantityUpdates(ctx context.Context, id string, updates map[string]int) (*quote.Quote, error) {
	return s.quote, s.err
}

func (s *stubQuoteService) AddItem(ctx context.Context, id string, kind enums.ItemKind, label string, quantity int) (*quote.Quote, error) {
	return s.quote, s.err
}

func (s *stubQuoteService) DeleteItem(ctx context.Context, id string, itemName string) (*quote.Quote, error) {
	return s.quote, s.err
}

func (s *stubQuoteService) Delete(ctx context.Context, id string) error {
	return s.err
}

type stubDetector struct {
	detections []detect.Detection
	err        error
}

func (s stubDetector) Detect(ctx context.Context, image []byte) ([]detect.Detection, error) {
	return s.detections, s.err
}

func fixtureQuote() *quote.Quote {
	now := time.Date(2026, time.February, 10, 9, 30, 0, 0, time.UTC)
	return &quote.Quote{
		ID: "q-123",
		Items: []quote.LineItem{
			{Name: "Standard Seat Insert", Quantity: 2, Total: decimal.RequireFromString("900.00")},
			{Name: "Standard Seat Cover", Quantity: 2, Total: decimal.RequireFromString("630.00")},
		},
		PriceOption:   enums.PriceOptionStandard,
		FabricOption:  enums.FabricOptionVelvet,
		Subtotal:      decimal.RequireFromString("1530.00"),
		DiscountValue: decimal.Zero,
		TaxAmount:     decimal.RequireFromString("107.10"),
		Total:         decimal.RequireFromString("1637.10"),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func multipartRequest(t *testing.T, fields map[string]string, withImage bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if withImage {
		part, err := writer.CreateFormFile(imageFormField, "sofa.jpg")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte("not-a-real-jpeg")); err != nil {
			t.Fatalf("write image part: %v", err)
		}
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func withQuoteID(req *http.Request, id string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("quoteId", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func decodeQuoteEnvelope(t *testing.T, body io.Reader) quoteResponse {
	t.Helper()
	var envelope struct {
		Data quoteResponse `json:"data"`
	}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestQuoteGenerateSuccess(t *testing.T) {
	svc := &stubQuoteService{quote: fixtureQuote()}
	detector := stubDetector{detections: []detect.Detection{
		{Label: "standard-seat", Confidence: 0.91},
		{Label: "standard-seat", Confidence: 0.88},
	}}
	handler := QuoteGenerate(svc, detector, nil, nil)

	req := multipartRequest(t, map[string]string{
		"price_option":  "standard",
		"fabric_option": "velvet",
		"discount":      "10",
		"client_name":   "Dana Whitfield",
		"client_phone":  "(555) 123-4567",
	}, true)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	data := decodeQuoteEnvelope(t, resp.Body)
	if data.ID != "q-123" {
		t.Fatalf("unexpected quote id %s", data.ID)
	}
	if data.Items[0].Total != "900.00" {
		t.Fatalf("totals must serialize with two decimals, got %s", data.Items[0].Total)
	}

	if len(svc.buildParams.Detections) != 2 {
		t.Fatalf("expected detections forwarded, got %d", len(svc.buildParams.Detections))
	}
	if svc.buildParams.DiscountRaw != "10" {
		t.Fatalf("unexpected discount %q", svc.buildParams.DiscountRaw)
	}
	if svc.buildParams.Client.Phone != "555-123-4567" {
		t.Fatalf("phone should be normalized, got %q", svc.buildParams.Client.Phone)
	}
}

func TestQuoteGenerateMissingImage(t *testing.T) {
	handler := QuoteGenerate(&stubQuoteService{}, stubDetector{}, nil, nil)

	req := multipartRequest(t, map[string]string{
		"price_option":  "standard",
		"fabric_option": "velvet",
	}, false)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestQuoteGenerateInvalidOptions(t *testing.T) {
	handler := QuoteGenerate(&stubQuoteService{}, stubDetector{}, nil, nil)

	req := multipartRequest(t, map[string]string{
		"price_option":  "plush",
		"fabric_option": "velvet",
	}, true)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestQuoteGenerateInvalidPhone(t *testing.T) {
	handler := QuoteGenerate(&stubQuoteService{quote: fixtureQuote()}, stubDetector{}, nil, nil)

	req := multipartRequest(t, map[string]string{
		"price_option":  "standard",
		"fabric_option": "velvet",
		"client_phone":  "12345",
	}, true)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestQuoteGenerateDetectorUnavailable(t *testing.T) {
	detector := stubDetector{err: pkgerrors.New(pkgerrors.CodeDependency, "detector unavailable")}
	handler := QuoteGenerate(&stubQuoteService{}, detector, nil, nil)

	req := multipartRequest(t, map[string]string{
		"price_option":  "standard",
		"fabric_option": "velvet",
	}, true)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestQuoteGetSuccess(t *testing.T) {
	handler := QuoteGet(&stubQuoteService{quote: fixtureQuote()}, nil)

	req := withQuoteID(httptest.NewRequest(http.MethodGet, "/api/v1/quotes/q-123", nil), "q-123")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	data := decodeQuoteEnvelope(t, resp.Body)
	if data.Total != "1637.10" {
		t.Fatalf("unexpected total %s", data.Total)
	}
}

func TestQuoteGetNotFound(t *testing.T) {
	svc := &stubQuoteService{err: pkgerrors.New(pkgerrors.CodeNotFound, "quote not found")}
	handler := QuoteGet(svc, nil)

	req := withQuoteID(httptest.NewRequest(http.MethodGet, "/api/v1/quotes/missing", nil), "missing")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestQuoteQuantityUpdateSuccess(t *testing.T) {
	handler := QuoteQuantityUpdate(&stubQuoteService{quote: fixtureQuote()}, nil, nil)

	body := strings.NewReader(`{"updates":{"Standard Seat Insert":3}}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/quotes/q-123/items", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, withQuoteID(req, "q-123"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestQuoteQuantityUpdateRejectsEmptyBatch(t *testing.T) {
	handler := QuoteQuantityUpdate(&stubQuoteService{quote: fixtureQuote()}, nil, nil)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/quotes/q-123/items", strings.NewReader(`{"updates":{}}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, withQuoteID(req, "q-123"))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestQuoteAddItemSuccess(t *testing.T) {
	handler := QuoteAddItem(&stubQuoteService{quote: fixtureQuote()}, nil, nil)

	body := strings.NewReader(`{"kind":"item","label":"wedge-seat","quantity":1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/q-123/items", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, withQuoteID(req, "q-123"))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestQuoteAddItemRejectsBadKind(t *testing.T) {
	handler := QuoteAddItem(&stubQuoteService{quote: fixtureQuote()}, nil, nil)

	body := strings.NewReader(`{"kind":"bundle","label":"wedge-seat","quantity":1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotes/q-123/items", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, withQuoteID(req, "q-123"))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestQuoteDeleteItemSuccess(t *testing.T) {
	handler := QuoteDeleteItem(&stubQuoteService{quote: fixtureQuote()}, nil, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/quotes/q-123/items/standard_seat_insert", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("quoteId", "q-123")
	routeCtx.URLParams.Add("itemName", "standard_seat_insert")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestQuoteDeleteSuccess(t *testing.T) {
	handler := QuoteDelete(&stubQuoteService{}, nil, nil)

	req := withQuoteID(httptest.NewRequest(http.MethodDelete, "/api/v1/quotes/q-123", nil), "q-123")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
