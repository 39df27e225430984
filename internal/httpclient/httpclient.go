package httpclient

import "net/http"

// HTTPClient is the subset of *http.Client the service clients use.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var _ HTTPClient = (*http.Client)(nil)
