// Package rfcbot reads open final comment periods from rfcbot.
package rfcbot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	domainErrors "github.com/thomas-vilte/agenda-generator/internal/errors"
	"github.com/thomas-vilte/agenda-generator/internal/httpclient"
	"github.com/thomas-vilte/agenda-generator/internal/logger"
	"github.com/thomas-vilte/agenda-generator/internal/models"
)

const allEndpoint = "/api/all"

type Client struct {
	baseURL    string
	userAgent  string
	httpClient httpclient.HTTPClient
}

// NewClient builds a client for the rfcbot instance at baseURL. It uses its
// own HTTP client: the GitHub token must never be sent to this host.
func NewClient(baseURL, userAgent string, httpClient httpclient.HTTPClient) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: httpClient,
	}
}

// FetchProposals returns every open FCP in the order rfcbot lists them.
func (c *Client) FetchProposals(ctx context.Context) ([]models.Proposal, error) {
	endpoint := c.baseURL + allEndpoint
	log := logger.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domainErrors.ErrProposalsRequest.WithError(err).WithContext("endpoint", endpoint)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	log.Debug("fetching proposals", "endpoint", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domainErrors.ErrProposalsRequest.WithError(err).WithContext("endpoint", endpoint)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domainErrors.ErrProposalsRequest.WithError(err).WithContext("endpoint", endpoint)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domainErrors.ErrProposalsStatus.
			WithError(fmt.Errorf("unexpected status %s", resp.Status)).
			WithContext("endpoint", endpoint).
			WithContext("status", resp.StatusCode).
			WithContext("body", string(body))
	}

	var proposals []models.Proposal
	if err := json.Unmarshal(body, &proposals); err != nil {
		return nil, domainErrors.ErrProposalsDecode.
			WithError(err).
			WithContext("endpoint", endpoint).
			WithContext("body", string(body))
	}

	log.Debug("fetched proposals", "proposals", len(proposals))
	return proposals, nil
}
