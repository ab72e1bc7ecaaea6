package trmnl

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/michalkurzeja/go-clock"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	screensURI = "/api/screens"
	displayURI = "/api/display"

	accessTokenHeader = "Access-Token"
	deviceIDHeader    = "ID"
	contentTypeHeader = "Content-Type"
	userAgentHeader   = "User-Agent"

	jsonContentType = "application/json"
	htmlContentType = "text/html"
	userAgent       = "EVCC-TRMNL-Client/1.0"

	screenFileName = "evcc-status.png"
)

// ErrAllEndpointsExhausted indicates that no candidate endpoint accepted the payload.
var ErrAllEndpointsExhausted = errors.New("all TRMNL endpoints exhausted")

// PayloadFormat selects how the rendered document is packaged for an endpoint.
type PayloadFormat string

const (
	// FormatJSON wraps the document in the screens API image envelope.
	FormatJSON PayloadFormat = "json"
	// FormatHTML sends the document verbatim.
	FormatHTML PayloadFormat = "html"
)

// Endpoint describes one candidate delivery target on the BYOS server.
type Endpoint struct {
	Path   string
	Method string
	Format PayloadFormat
}

// DefaultEndpoints returns the candidate endpoints in priority order. The
// screens endpoint is the primary target, the display endpoint variants are
// fallbacks for older BYOS servers.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{Path: screensURI, Method: http.MethodPost, Format: FormatJSON},
		{Path: displayURI, Method: http.MethodGet, Format: FormatHTML},
		{Path: displayURI, Method: http.MethodPost, Format: FormatHTML},
	}
}

// Client represents a TRMNL BYOS delivery client.
type Client interface {
	// Send pushes a rendered document to the first endpoint that accepts it
	// and records the transmission in the session.
	Send(rendered string) error
}

type client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	deviceID    string
	endpoints   []Endpoint
	session     *Session
}

// NewClient returns a new TRMNL Client. The access token is attached to
// every request when configured; the device identifier only to display
// endpoint requests.
func NewClient(http *http.Client, baseURL, accessToken, deviceID string, endpoints []Endpoint, session *Session) Client {
	return &client{
		httpClient:  http,
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		deviceID:    deviceID,
		endpoints:   endpoints,
		session:     session,
	}
}

func (c *client) Send(rendered string) error {
	for _, endpoint := range c.endpoints {
		if !c.trySend(endpoint, rendered) {
			continue
		}

		c.session.Record(rendered, clock.Now())

		return nil
	}

	return ErrAllEndpointsExhausted
}

func (c *client) trySend(endpoint Endpoint, rendered string) bool {
	req, err := c.buildRequest(endpoint, rendered)
	if err != nil {
		log.WithError(err).WithField("endpoint", endpoint.Path).Error("failed to create TRMNL request")

		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).
			WithField("endpoint", endpoint.Path).
			WithField("method", endpoint.Method).
			Debug("TRMNL endpoint not reachable")

		return false
	}

	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		log.WithField("endpoint", endpoint.Path).
			WithField("method", endpoint.Method).
			Info("sent screen update to TRMNL")

		return true
	}

	// 404 and 405 merely mean this BYOS server does not support the
	// endpoint variant, so the next candidate is tried without noise.
	if resp.StatusCode != http.StatusNotFound && resp.StatusCode != http.StatusMethodNotAllowed {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))

		log.WithField("endpoint", endpoint.Path).
			WithField("method", endpoint.Method).
			WithField("status", resp.StatusCode).
			WithField("body", string(body)).
			Debug("TRMNL endpoint rejected payload")
	}

	return false
}

func (c *client) buildRequest(endpoint Endpoint, rendered string) (*http.Request, error) {
	var body io.Reader

	contentType := htmlContentType

	if endpoint.Format == FormatJSON {
		payload, err := json.Marshal(screensBody{
			Image: imageBody{Content: rendered, FileName: screenFileName},
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode screens payload")
		}

		body = bytes.NewReader(payload)
		contentType = jsonContentType
	} else if endpoint.Method != http.MethodGet {
		body = strings.NewReader(rendered)
	}

	req, err := http.NewRequest(endpoint.Method, c.baseURL+endpoint.Path, body) //nolint:noctx
	if err != nil {
		return nil, err
	}

	req.Header.Add(userAgentHeader, userAgent)

	if body != nil {
		req.Header.Add(contentTypeHeader, contentType)
	}

	if c.accessToken != "" {
		req.Header.Add(accessTokenHeader, c.accessToken)
	}

	if c.deviceID != "" && endpoint.Path == displayURI {
		req.Header.Add(deviceIDHeader, c.deviceID)
	}

	return req, nil
}

type screensBody struct {
	Image imageBody `json:"image"`
}

type imageBody struct {
	Content  string `json:"content"`
	FileName string `json:"file_name"`
}
