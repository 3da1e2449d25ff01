package client

import (
	"encoding/base64"
	"net/http"

	"github.com/google/uuid"
)

// basicAuthTransport adds the account credential and a request id to every
// request.
type basicAuthTransport struct {
	base          http.RoundTripper
	authorization string
}

func newBasicAuthTransport(base http.RoundTripper, credential string) *basicAuthTransport {
	return &basicAuthTransport{
		base:          base,
		authorization: "Basic " + base64.StdEncoding.EncodeToString([]byte(credential)),
	}
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", t.authorization)
	if cloned.Header.Get("X-Request-Id") == "" {
		cloned.Header.Set("X-Request-Id", uuid.NewString())
	}
	return t.base.RoundTrip(cloned)
}
