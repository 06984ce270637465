package controllers

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/subinlebow/quotegen-backend/api/responses"
	"github.com/subinlebow/quotegen-backend/api/validators"
	"github.com/subinlebow/quotegen-backend/internal/detect"
	"github.com/subinlebow/quotegen-backend/internal/quote"
	"github.com/subinlebow/quotegen-backend/pkg/enums"
	pkgerrors "github.com/subinlebow/quotegen-backend/pkg/errors"
	"github.com/subinlebow/quotegen-backend/pkg/logger"
	"github.com/subinlebow/quotegen-backend/pkg/metrics"
	"github.com/subinlebow/quotegen-backend/pkg/money"
	"github.com/subinlebow/quotegen-backend/pkg/types"
)

const (
	maxUploadBytes = 10 << 20
	imageFormField = "image"
)

// QuoteGenerate handles the photo upload that starts a quote: run the
// detector on the image, price the detections, store the result.
func QuoteGenerate(svc quote.Service, detector detect.Detector, met *metrics.QuoteMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil || detector == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, _, err := r.FormFile(imageFormField)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image file is required"))
			return
		}
		defer file.Close()

		image, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "read image"))
			return
		}

		priceOption, err := enums.ParsePriceOption(validators.SanitizeString(r.FormValue("price_option"), 32))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price_option"))
			return
		}
		fabricOption, err := enums.ParseFabricOption(validators.SanitizeString(r.FormValue("fabric_option"), 32))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fabric_option"))
			return
		}

		client, err := clientFromForm(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		start := time.Now()
		detections, err := detector.Detect(ctx, image)
		met.ObserveDetectorDuration(time.Since(start))
		if err != nil {
			met.IncDetectorFailure()
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if logg != nil {
			ctx = logg.WithDetectionCount(ctx, len(detections))
		}

		built, err := svc.Build(ctx, quote.BuildParams{
			Detections:   detections,
			PriceOption:  priceOption,
			FabricOption: fabricOption,
			DiscountRaw:  validators.SanitizeString(r.FormValue("discount"), 32),
			Client:       client,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		met.IncCreated()

		if logg != nil {
			logg.Info(logg.WithQuoteID(ctx, built.ID), "quote.created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newQuoteResponse(built))
	}
}

func clientFromForm(r *http.Request) (types.Client, error) {
	client := types.Client{
		Name:  validators.SanitizeString(r.FormValue("client_name"), 120),
		Email: validators.SanitizeString(r.FormValue("client_email"), 254),
		Address: types.Address{
			Line1:      validators.SanitizeString(r.FormValue("client_address_line1"), 200),
			City:       validators.SanitizeString(r.FormValue("client_city"), 100),
			State:      validators.SanitizeString(r.FormValue("client_state"), 100),
			PostalCode: validators.SanitizeString(r.FormValue("client_postal_code"), 20),
			Country:    validators.SanitizeString(r.FormValue("client_country"), 100),
		},
	}
	if raw := validators.SanitizeString(r.FormValue("client_phone"), 32); raw != "" {
		formatted, err := types.FormatPhone(raw)
		if err != nil {
			return types.Client{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid client_phone")
		}
		client.Phone = formatted
	}
	return client, nil
}

// QuoteGet returns the stored quote for the path id.
func QuoteGet(svc quote.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		stored, err := svc.Get(ctx, chi.URLParam(r, "quoteId"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newQuoteResponse(stored))
	}
}

// QuoteDelete removes the quote entirely.
func QuoteDelete(svc quote.Service, met *metrics.QuoteMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		id := chi.URLParam(r, "quoteId")
		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		met.IncEdit("delete_quote")
		responses.WriteSuccess(w, map[string]string{"status": "deleted", "id": id})
	}
}

type quantityUpdateRequest struct {
	Updates map[string]int `json:"updates" validate:"required,min=1"`
}

// QuoteQuantityUpdate applies a batch of quantity changes to the quote.
func QuoteQuantityUpdate(svc quote.Service, met *metrics.QuoteMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload quantityUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		updated, err := svc.ApplyQuantityUpdates(ctx, chi.URLParam(r, "quoteId"), payload.Updates)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		met.IncEdit("quantity_update")
		responses.WriteSuccess(w, newQuoteResponse(updated))
	}
}

type addItemRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=item cover"`
	Label    string `json:"label" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// QuoteAddItem adds a priced line to an existing quote.
func QuoteAddItem(svc quote.Service, met *metrics.QuoteMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		kind, err := enums.ParseItemKind(strings.TrimSpace(payload.Kind))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid kind"))
			return
		}

		updated, err := svc.AddItem(ctx, chi.URLParam(r, "quoteId"), kind, strings.TrimSpace(payload.Label), payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		met.IncEdit("add_item")
		responses.WriteSuccess(w, newQuoteResponse(updated))
	}
}

// QuoteDeleteItem removes the named line item. Unknown names are a no-op
// and still return the current quote.
func QuoteDeleteItem(svc quote.Service, met *metrics.QuoteMetrics, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		updated, err := svc.DeleteItem(ctx, chi.URLParam(r, "quoteId"), chi.URLParam(r, "itemName"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		met.IncEdit("delete_item")
		responses.WriteSuccess(w, newQuoteResponse(updated))
	}
}

type lineItemResponse struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Total    string `json:"total"`
}

type quoteResponse struct {
	ID              string             `json:"id"`
	Items           []lineItemResponse `json:"items"`
	PriceOption     string             `json:"price_option"`
	FabricOption    string             `json:"fabric_option"`
	DiscountPercent string             `json:"discount_percent"`
	Subtotal        string             `json:"subtotal"`
	Discount        string             `json:"discount"`
	Tax             string             `json:"tax"`
	Total           string             `json:"total"`
	Client          *types.Client      `json:"client,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

func newQuoteResponse(q *quote.Quote) quoteResponse {
	items := make([]lineItemResponse, len(q.Items))
	for i, item := range q.Items {
		items[i] = lineItemResponse{
			Name:     item.Name,
			Quantity: item.Quantity,
			Total:    money.String2(item.Total),
		}
	}

	resp := quoteResponse{
		ID:              q.ID,
		Items:           items,
		PriceOption:     string(q.PriceOption),
		FabricOption:    string(q.FabricOption),
		DiscountPercent: q.DiscountPercent.String(),
		Subtotal:        money.String2(q.Subtotal),
		Discount:        money.String2(q.DiscountValue),
		Tax:             money.String2(q.TaxAmount),
		Total:           money.String2(q.Total),
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
	if q.Client != (types.Client{}) {
		client := q.Client
		resp.Client = &client
	}
	return resp
}
