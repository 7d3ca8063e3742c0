// Package sanity implements the ContentClient port against the Sanity HTTP query API.
package sanity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.trai.ch/grocer/internal/core/domain"
	"go.trai.ch/grocer/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/time/rate"
)

const (
	// DefaultAPIVersion is used when the client config does not pin an API version.
	DefaultAPIVersion = "2023-05-03"

	httpClientTimeout = 30 * time.Second
	maxErrorBody      = 4096
)

var _ ports.ContentClient = (*Client)(nil)

// Client queries a dataset through the HTTP query endpoint.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type queryResponse struct {
	Result json.RawMessage `json:"result"`
}

type errorResponse struct {
	Error struct {
		Description string `json:"description"`
	} `json:"error"`
	Message string `json:"message"`
}

// NewClient creates a Client from cfg. A nil httpClient selects a client with cfg.Timeout.
func NewClient(cfg domain.ClientConfig, httpClient *http.Client) (*Client, error) {
	if cfg.Dataset == "" || (cfg.ProjectID == "" && cfg.Host == "") {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidClientConfig, "incomplete client config"), "project_id", cfg.ProjectID)
	}

	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = httpClientTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		endpoint:   Endpoint(cfg),
		token:      cfg.Token,
		httpClient: httpClient,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := max(int(cfg.RequestsPerSecond), 1)
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return c, nil
}

// Endpoint returns the query URL for cfg without the query parameter.
func Endpoint(cfg domain.ClientConfig) string {
	apiVersion := strings.TrimPrefix(cfg.APIVersion, "v")
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	base := strings.TrimRight(cfg.Host, "/")
	if base == "" {
		subdomain := "api"
		if cfg.UseCDN {
			subdomain = "apicdn"
		}
		base = fmt.Sprintf("https://%s.%s.sanity.io", cfg.ProjectID, subdomain)
	}

	return fmt.Sprintf("%s/v%s/data/query/%s", base, apiVersion, url.PathEscape(cfg.Dataset))
}

// Fetch runs query and returns the "result" member of the response.
func (c *Client) Fetch(ctx context.Context, query string) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, zerr.Wrap(err, "request gate")
		}
	}

	reqURL := c.endpoint + "?query=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to build query request")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "query request failed"), "url", c.endpoint)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := zerr.Wrap(domain.ErrUnexpectedStatus, describeError(resp.Body, resp.Status))
		statusErr = zerr.With(statusErr, "status_code", resp.StatusCode)
		return nil, zerr.With(statusErr, "url", c.endpoint)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrResponseParseFailed.Error())
	}

	var qr queryResponse
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, zerr.Wrap(err, domain.ErrResponseParseFailed.Error())
	}

	if len(qr.Result) == 0 {
		return json.RawMessage("null"), nil
	}

	return qr.Result, nil
}

func describeError(body io.Reader, status string) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return status
	}

	var er errorResponse
	if json.Unmarshal(data, &er) == nil {
		switch {
		case er.Error.Description != "":
			return status + ": " + er.Error.Description
		case er.Message != "":
			return status + ": " + er.Message
		}
	}

	return status
}
