package source

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"resty.dev/v3"
)

// RoundTripFunc adapts a function to http.RoundTripper for URL test mocking.
type RoundTripFunc func(*http.Request) *http.Response

// RoundTrip implements http.RoundTripper.
func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

// NewMockRestyClient creates a resty client with a custom round-trip handler.
func NewMockRestyClient(handler RoundTripFunc) *resty.Client {
	client := resty.New()
	client.SetTransport(handler)

	return client
}

// NewHTTPResponse creates a mock HTTP response for tests.
func NewHTTPResponse(
	req *http.Request,
	status int,
	body string,
	header http.Header,
) *http.Response {
	if header == nil {
		header = make(http.Header)
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode:    status,
		Header:        header,
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
