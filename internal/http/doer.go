package http

import "net/http"

// Doer executes HTTP requests. *http.Client satisfies this interface;
// tests substitute a client backed by httpmock.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}
