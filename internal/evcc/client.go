package evcc

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

const (
	stateURI = "/api/state"

	acceptHeader    = "Accept"
	userAgentHeader = "User-Agent"

	jsonContentType = "application/json"
	userAgent       = "EVCC-TRMNL-API-Client/1.0"
)

// Client represents an evcc HTTP API client.
type Client interface {
	// FetchState retrieves the current site state document from the evcc API.
	FetchState() (json.RawMessage, error)
}

type httpClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewHTTPClient returns a new instance of the evcc Client.
func NewHTTPClient(http *http.Client, baseURL string) Client {
	return &httpClient{
		httpClient: http,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (c *httpClient) FetchState() (json.RawMessage, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+stateURI, nil) //nolint:noctx
	if err != nil {
		return nil, errors.Wrap(err, "failed to create state request")
	}

	req.Header.Add(acceptHeader, jsonContentType)
	req.Header.Add(userAgentHeader, userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "state request failed")
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("expected response code to be %d, but got %d instead", http.StatusOK, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "could not read state response body")
	}

	if !json.Valid(body) {
		return nil, errors.New("state response body is not valid JSON")
	}

	return body, nil
}
