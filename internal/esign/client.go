package esign

// client.go is the thin REST client for the signing API. Two sequential
// operations are supported: create envelope, then create recipient view.
// There are no retries and no idempotency key - a duplicate request creates a
// duplicate envelope (accepted limitation of the demo scope).

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxErrorBodySize caps how much of an error response is read and rendered.
const maxErrorBodySize = 64 * 1024

// Client issues requests to the signing API on behalf of one account holder.
//
// Configured once at startup and safe for concurrent use - per-request values
// (account id, envelope content) are passed as call parameters.
type Client struct {
	basePath    string
	accessToken string
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a signing API client.
//
// basePath is the API root (e.g. https://demo.docusign.net/restapi) and
// accessToken a bearer token obtained externally - the client never acquires
// or refreshes tokens.
func NewClient(basePath, accessToken string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		basePath:    basePath,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

// WithAccessToken returns a copy of the client using a different bearer
// token. Used when the token is supplied per request (query parameter)
// instead of at startup.
func (c *Client) WithAccessToken(accessToken string) *Client {
	clone := *c
	clone.accessToken = accessToken
	return &clone
}

// envelopeSummary is the create-envelope response.
type envelopeSummary struct {
	EnvelopeID     string `json:"envelopeId"`
	Status         string `json:"status"`
	StatusDateTime string `json:"statusDateTime"`
	URI            string `json:"uri"`
}

// recipientView is the create-recipient-view response.
type recipientView struct {
	URL string `json:"url"`
}

// CreateEnvelope submits the envelope to the signing API and returns the
// envelope id.
func (c *Client) CreateEnvelope(ctx context.Context, accountID string, envelope *Envelope) (string, error) {
	path := fmt.Sprintf("/v2.1/accounts/%s/envelopes", accountID)

	var summary envelopeSummary
	if err := c.post(ctx, path, envelope, &summary); err != nil {
		return "", err
	}

	if summary.EnvelopeID == "" {
		return "", NewInternalError("signing API returned an empty envelope id")
	}

	c.logger.Info("envelope created",
		slog.String("envelope_id", summary.EnvelopeID),
		slog.String("status", summary.Status),
	)

	return summary.EnvelopeID, nil
}

// CreateRecipientView requests the embedded signing ceremony URL for a
// recipient of an existing envelope.
//
// The returned URL is time-limited and single use.
func (c *Client) CreateRecipientView(ctx context.Context, accountID, envelopeID string, view *RecipientViewRequest) (string, error) {
	path := fmt.Sprintf("/v2.1/accounts/%s/envelopes/%s/views/recipient", accountID, envelopeID)

	var result recipientView
	if err := c.post(ctx, path, view, &result); err != nil {
		return "", err
	}

	if result.URL == "" {
		return "", NewInternalError("signing API returned an empty recipient view URL")
	}

	c.logger.Info("recipient view created",
		slog.String("envelope_id", envelopeID),
	)

	return result.URL, nil
}

// post sends a JSON payload and decodes the JSON response into out.
//
// Non-2xx responses with a parseable JSON body become *APIError; everything
// else is a transport error.
func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return WrapTransportError(err, "failed to marshal request payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.basePath+path, bytes.NewReader(body))
	if err != nil {
		return WrapTransportError(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return WrapTransportError(err, fmt.Sprintf("request to signing API failed (POST %s)", path))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return WrapTransportError(err, "failed to decode signing API response")
	}

	return nil
}

// apiError builds an *APIError from a non-success response. If the body is
// not parseable JSON the failure is treated as a transport error instead.
func (c *Client) apiError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil {
		return WrapTransportError(err, fmt.Sprintf("signing API returned status %d and the error body could not be read", resp.StatusCode))
	}

	var structured struct {
		ErrorCode string `json:"errorCode"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(body, &structured); err != nil {
		return WrapTransportError(
			fmt.Errorf("unparseable error body: %q", body),
			fmt.Sprintf("signing API returned status %d without a structured error body", resp.StatusCode),
		)
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		ErrorCode:  structured.ErrorCode,
		Message:    structured.Message,
		Body:       json.RawMessage(body),
	}
}
