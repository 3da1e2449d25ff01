package client

import (
	"net/http"
	"net/http/httputil"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// debugTransport logs each request and response with zerolog at debug level.
//
// It sits beneath the auth wrapper, so the Authorization header never shows
// up in dumps; document bodies and query strings do.
//
// Enable it with WithDebugLogging(true), or without code changes:
//
//	export INDEXTANK_DEBUG=true
//	go run main.go  # Client will now log all HTTP traffic
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	start := time.Now()
	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Dur("elapsed", time.Since(start)).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		log.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Dur("elapsed", time.Since(start)).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}

// debugLoggingRequested reports whether INDEXTANK_DEBUG=true or DEBUG=true.
func debugLoggingRequested() bool {
	return os.Getenv("INDEXTANK_DEBUG") == "true" || os.Getenv("DEBUG") == "true"
}
