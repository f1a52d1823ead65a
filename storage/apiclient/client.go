// Package apiclient is the HTTP implementation of the portal's backend
// collaborators. Every request carries the raw credential as a bearer
// authorization header; responses are interpreted as success or failure
// only, with the server-supplied error message preferred over a generic
// fallback.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/Hanish3/college-portal/core/session"
)

// genericFailure is shown when the backend reports no usable message.
const genericFailure = "the request could not be completed; please try again"

// APIError is a backend rejection surfaced to the operator.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

type Client struct {
	base  string
	http  *http.Client
	creds session.Store
}

func New(baseURL string, timeout time.Duration, creds session.Store) *Client {
	return &Client{
		base:  baseURL,
		http:  &http.Client{Timeout: timeout},
		creds: creds,
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encoding request")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if raw, ok := c.creds.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+raw)
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "calling backend")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return apiError(resp)
	}
	if out != nil {
		return errors.Wrap(json.NewDecoder(resp.Body).Decode(out), "decoding response")
	}
	return nil
}

// apiError extracts the server-reported reason: an `error` field first,
// then `message`, else the generic fallback.
func apiError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: genericFailure}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error != "" {
			apiErr.Message = body.Error
		} else if body.Message != "" {
			apiErr.Message = body.Message
		}
	}
	return apiErr
}
