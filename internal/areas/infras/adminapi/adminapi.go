package adminapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/app/config"
	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/domain"
	internal_error "github.com/aria3ppp/delivery-areas-seeder/internal/areas/error"
	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/usecase"

	goccy_json "github.com/goccy/go-json"
	"github.com/samber/lo"
)

type adminAPI struct {
	config     *config.APIConfig
	httpClient *http.Client
	logger     *slog.Logger
}

var _ usecase.AdminAPI = (*adminAPI)(nil)

func NewAdminAPI(config *config.APIConfig, httpClient *http.Client, logger *slog.Logger) *adminAPI {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.HTTPTimeout}
	}
	return &adminAPI{
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}
}

type createRequest struct {
	Name          string  `json:"name"`
	DeliveryFee   float64 `json:"deliveryFee"`
	EstimatedTime int     `json:"estimatedTime"`
}

// deliveryArea reads a record leniently: fields of an unexpected type come out
// as zero values instead of failing the whole response.
type deliveryArea map[string]any

func (a deliveryArea) id() string {
	return lo.Ternary(text(a["_id"]) != "", text(a["_id"]), text(a["id"]))
}

func (a deliveryArea) toDomain() domain.RemoteArea {
	return domain.RemoteArea{
		ID:            a.id(),
		Name:          text(a["name"]),
		DeliveryFee:   number(a["deliveryFee"]),
		EstimatedTime: number(a["estimatedTime"]),
		IsActive:      flag(a["isActive"]),
	}
}

func (a *adminAPI) CreateDeliveryArea(ctx context.Context, input *domain.CreateDeliveryAreaInput) (*domain.CreateDeliveryAreaResult, error) {
	logger := a.logger.With(slog.String("infra", "adminapi"), slog.String("method", "create_delivery_area"))

	body, err := goccy_json.Marshal(createRequest{
		Name:          input.Name,
		DeliveryFee:   input.DeliveryFee,
		EstimatedTime: input.EstimatedTime,
	})
	if err != nil {
		logger.Error("failed to marshal body", slog.Any("error", err))
		return nil, err
	}

	payload, err := a.do(ctx, logger, http.MethodPost, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	result := &domain.CreateDeliveryAreaResult{}
	if record, ok := lookup(payload, "data", "deliveryArea").(map[string]any); ok {
		result.ID = deliveryArea(record).id()
	}
	if result.ID == "" {
		logger.Warn("created delivery area has no id in response")
	}

	return result, nil
}

func (a *adminAPI) ListDeliveryAreas(ctx context.Context) ([]domain.RemoteArea, error) {
	logger := a.logger.With(slog.String("infra", "adminapi"), slog.String("method", "list_delivery_areas"))

	payload, err := a.do(ctx, logger, http.MethodGet, nil)
	if err != nil {
		return nil, err
	}

	records, ok := lookup(payload, "data", "deliveryAreas").([]any)
	if !ok {
		logger.Error("response has no delivery areas")
		return nil, fmt.Errorf("list delivery areas: %w", internal_error.ErrUnexpectedEnvelope)
	}

	return lo.FilterMap(records, func(record any, index int) (domain.RemoteArea, bool) {
		object, ok := record.(map[string]any)
		if !ok {
			logger.Warn("skipping delivery area that is not an object", slog.Int("index", index))
			return domain.RemoteArea{}, false
		}
		return deliveryArea(object).toDomain(), true
	}), nil
}

// Inspect sends a GET to the collection carrying only the credentials mode
// selects and returns the answer untouched, whatever its status.
func (a *adminAPI) Inspect(ctx context.Context, mode domain.AuthMode) (*domain.RawResponse, error) {
	logger := a.logger.With(slog.String("infra", "adminapi"), slog.String("method", "inspect"), slog.String("auth", mode.String()))
	endpoint := a.config.Endpoint()

	req, err := a.newRequest(ctx, http.MethodGet, nil, mode)
	if err != nil {
		logger.Error("failed to build request", slog.Any("error", err))
		return nil, err
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		logger.Error("failed to http GET", slog.Any("error", err))
		return nil, fmt.Errorf("GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("failed to read body", slog.Int("status_code", resp.StatusCode), slog.Any("error", err))
		return nil, fmt.Errorf("GET %s: read body: %w", endpoint, err)
	}

	logger.Debug("inspected endpoint", slog.Int("status_code", resp.StatusCode), slog.Int("bytes", len(raw)))

	return &domain.RawResponse{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       raw,
	}, nil
}

func (a *adminAPI) newRequest(ctx context.Context, method string, body io.Reader, mode domain.AuthMode) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.config.Endpoint(), body)
	if err != nil {
		return nil, err
	}

	if mode.SendsToken() {
		req.Header.Set("Authorization", "Bearer "+a.config.AccessToken)
	}
	if mode.SendsKey() {
		req.Header.Set("X-API-Key", a.config.APIKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range a.config.ExtraHeaders {
		req.Header.Set(key, value)
	}

	return req, nil
}

// do sends a request to the delivery areas collection and returns the decoded
// JSON body. The body is decoded regardless of status so that error messages
// reach the caller through *internal_error.APIError.
func (a *adminAPI) do(ctx context.Context, logger *slog.Logger, method string, body io.Reader) (any, error) {
	endpoint := a.config.Endpoint()

	req, err := a.newRequest(ctx, method, body, domain.AuthFull)
	if err != nil {
		logger.Error("failed to build request", slog.Any("error", err))
		return nil, err
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		logger.Error("failed to http "+method, slog.Any("error", err))
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Error("failed to read body", slog.Int("status_code", resp.StatusCode), slog.Any("error", err))
		return nil, fmt.Errorf("%s %s: read body: %w", method, endpoint, err)
	}

	var payload any
	if err := goccy_json.Unmarshal(raw, &payload); err != nil {
		logger.Error("failed to decode body as json", slog.Int("status_code", resp.StatusCode), slog.Any("error", err))
		return nil, fmt.Errorf("%s %s: decode body (status %d): %w", method, endpoint, resp.StatusCode, err)
	}

	if resp.StatusCode/100 != 2 {
		message := messageOf(payload)
		logger.Debug("admin api rejected request", slog.Int("status_code", resp.StatusCode), slog.String("message", message))
		return nil, &internal_error.APIError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Payload:    raw,
		}
	}

	return payload, nil
}

func messageOf(payload any) string {
	object, ok := payload.(map[string]any)
	if !ok {
		return ""
	}
	message, _ := object["message"].(string)
	return message
}

// lookup walks nested objects by key and returns nil as soon as a step is
// missing or not an object.
func lookup(value any, keys ...string) any {
	for _, key := range keys {
		object, ok := value.(map[string]any)
		if !ok {
			return nil
		}
		value = object[key]
	}
	return value
}

func text(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func number(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case string:
		n, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return n
	default:
		return 0
	}
}

func flag(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}
