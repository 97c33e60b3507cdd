// Package advisory is the HTTP client for the remote crop advisory and
// disease detection service.
package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/agrisense/advisor-cli/internal/model"
)

const defaultBaseURL = "http://localhost:8001"

// Client talks to the advisory service. Each method issues exactly one
// request; the caller owns retries.
type Client interface {
	Preview(ctx context.Context, inputs model.AdvisoryInputs) (*model.PreviewSnapshot, error)
	Advise(ctx context.Context, inputs model.AdvisoryInputs) (*model.AdvisoryResponse, error)
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
	DetectDisease(ctx context.Context, filename string, file io.Reader) (json.RawMessage, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default service base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps the request rate against the service.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an advisory service client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(10, 10),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Preview(ctx context.Context, inputs model.AdvisoryInputs) (*model.PreviewSnapshot, error) {
	var snapshot model.PreviewSnapshot
	if err := c.postJSON(ctx, "/farmer-crop-advisory-preview", inputs, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *httpClient) Advise(ctx context.Context, inputs model.AdvisoryInputs) (*model.AdvisoryResponse, error) {
	var resp model.AdvisoryResponse
	if err := c.postJSON(ctx, "/farmer-crop-advisory", inputs, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReverseGeocode resolves coordinates to a place name. A 2xx response with
// a missing or empty location field is reported as an error so the caller
// applies its deterministic fallback.
func (c *httpClient) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "advisory: rate limiter wait")
	}

	endpoint := fmt.Sprintf("%s/reverse-geocode?lat=%s&lon=%s",
		c.baseURL,
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lng, 'f', -1, 64),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", eris.Wrap(err, "advisory: create request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "advisory: reverse geocode")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "advisory: read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newServiceError(resp.StatusCode, body)
	}

	var payload struct {
		Location string `json:"location"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", eris.Wrap(err, "advisory: unmarshal reverse geocode")
	}
	if payload.Location == "" {
		return "", eris.New("advisory: reverse geocode returned no location")
	}
	return payload.Location, nil
}

// DetectDisease uploads the image as multipart field "file" and returns the
// raw response body; shape tolerance is handled at the ingress boundary by
// the disease pipeline.
func (c *httpClient) DetectDisease(ctx context.Context, filename string, file io.Reader) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "advisory: rate limiter wait")
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, eris.Wrap(err, "advisory: create form file")
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, eris.Wrap(err, "advisory: copy file")
	}
	if err := writer.Close(); err != nil {
		return nil, eris.Wrap(err, "advisory: close multipart writer")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/detect-disease", &buf)
	if err != nil {
		return nil, eris.Wrap(err, "advisory: create request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "advisory: detect disease")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "advisory: read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newServiceError(resp.StatusCode, body)
	}
	return json.RawMessage(body), nil
}

func (c *httpClient) postJSON(ctx context.Context, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "advisory: rate limiter wait")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return eris.Wrap(err, "advisory: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "advisory: create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrapf(err, "advisory: POST %s", path)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "advisory: read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newServiceError(resp.StatusCode, respBody)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrapf(err, "advisory: unmarshal %s response", path)
	}
	return nil
}
