// Package client is a Go client for the job-log REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"time"
)

var defaultTimeout = 6500 * time.Millisecond
var defaultHTTPClient = &http.Client{Timeout: defaultTimeout}

// UserAgent is sent with every request.
const UserAgent = "chaiiwala-go/v1"

// Client talks to the job-log API with a bearer token.
type Client struct {
	Token  string
	Client *http.Client
	Base   string
}

// NewClient returns a Client for base, the scheme+host of the API. By
// default the request timeout is 6.5 seconds.
func NewClient(base, token string) *Client {
	return &Client{
		Token:  token,
		Client: defaultHTTPClient,
		Base:   base,
	}
}

// Error is a non-2xx API response.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// NewRequest creates a request against path, encoding body as JSON when
// non-nil, and sets the bearer token.
func (c *Client) NewRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, rdr)
	if err != nil {
		return nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	return req, nil
}

// Do performs the request. A 2xx body is decoded into v when v is non-nil;
// anything else becomes an *Error.
func (c *Client) Do(r *http.Request, v interface{}) error {
	debug := os.Getenv("DEBUG_HTTP_TRAFFIC") == "true"
	if debug {
		if bits, err := httputil.DumpRequestOut(r, true); err == nil {
			os.Stderr.Write(bits)
		}
	}
	res, err := c.Client.Do(r)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if debug {
		if bits, err := httputil.DumpResponse(res, true); err == nil {
			os.Stderr.Write(bits)
		}
	}
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode >= 400 {
		var body struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(resBody, &body); err != nil || body.Error == "" {
			return &Error{StatusCode: res.StatusCode, Message: fmt.Sprintf("invalid response body: %s", string(resBody))}
		}
		return &Error{StatusCode: res.StatusCode, Message: body.Error}
	}
	if v == nil {
		return nil
	}
	return json.Unmarshal(resBody, v)
}

func (c *Client) call(ctx context.Context, method, path string, body, v interface{}) error {
	req, err := c.NewRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	return c.Do(req, v)
}
