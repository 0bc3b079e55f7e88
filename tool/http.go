package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/troupe-dev/troupe"
	"github.com/troupe-dev/troupe/schema"
)

const (
	// HTTPToolName is the registered name of the HTTP builtin.
	HTTPToolName = "http_request"

	defaultMaxResponseSize = 1 << 20 // 1MB
)

type httpConfig struct {
	client          *http.Client
	allowedHosts    []string
	blockedHosts    []string
	maxResponseSize int64
}

// HTTPOption configures the HTTP builtin.
type HTTPOption func(*httpConfig)

// WithHTTPClient sets the client used for requests. Timeouts are governed
// by the tool's per-attempt bound, so the client needs none of its own.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *httpConfig) { c.client = client }
}

// WithAllowedHosts restricts requests to the given hostnames. Listed hosts
// are trusted explicitly and bypass the private-address guard, which is how
// a deployment points the tool at an internal service on purpose.
func WithAllowedHosts(hosts ...string) HTTPOption {
	return func(c *httpConfig) { c.allowedHosts = append(c.allowedHosts, hosts...) }
}

// WithBlockedHosts rejects requests to the given hostnames in addition to
// the private-address guard.
func WithBlockedHosts(hosts ...string) HTTPOption {
	return func(c *httpConfig) { c.blockedHosts = append(c.blockedHosts, hosts...) }
}

// WithMaxResponseSize caps how many response bytes are read. Responses over
// the cap produce a failed Result rather than a truncated body.
func WithMaxResponseSize(n int64) HTTPOption {
	return func(c *httpConfig) { c.maxResponseSize = n }
}

// HTTP builds the http_request builtin: a tool that performs HTTP requests
// against external APIs and returns the response as structured data.
//
// Requests are screened before they leave: only http and https URLs are
// accepted, and localhost plus private, loopback, link-local, multicast and
// unspecified addresses are blocked unless explicitly allowed. Responses
// with a JSON content type are parsed; everything else is returned as text.
//
// An HTTP error status is a readable outcome, not a handler failure: the
// tool returns a Result with Success=false and the decoded body, and does
// not retry. Only transport failures (connection reset, DNS, timeout) go
// through the retry policy.
func HTTP(opts ...HTTPOption) *Tool {
	cfg := httpConfig{
		client:          &http.Client{},
		maxResponseSize: defaultMaxResponseSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	params := schema.Object().
		Field("url", schema.String().Desc("The URL to request.").Required()).
		Field("method", schema.String().
			Desc("The HTTP method to use.").
			Enum("GET", "POST", "PUT", "DELETE", "PATCH").
			Default("GET")).
		Field("headers", schema.Object().Desc("Optional request headers.")).
		Field("params", schema.Object().Desc("Optional query string parameters.")).
		Field("body", schema.String().Desc("Optional request body. JSON bodies are sent as application/json unless a Content-Type header says otherwise.")).
		MustBuild()

	handler := func(ctx context.Context, args map[string]any) (any, error) {
		return httpRequest(ctx, &cfg, args)
	}

	return New(
		HTTPToolName,
		"Make HTTP requests to external APIs and services. Supports GET, POST, PUT, DELETE, and PATCH methods.",
		params,
		handler,
		WithTimeout(60*time.Second),
		WithMaxRetries(2),
		WithRetryDelay(time.Second),
		WithRetryBackoff(true),
		WithOnError(ModeReturn),
	)
}

func httpRequest(ctx context.Context, cfg *httpConfig, args map[string]any) (any, error) {
	rawURL, _ := args["url"].(string)
	method, _ := args["method"].(string)

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &troupe.ValidationError{Tool: HTTPToolName, Field: "url", Reason: "not a valid URL: " + err.Error()}
	}
	if reason := checkURL(u, cfg); reason != "" {
		return nil, &troupe.ValidationError{Tool: HTTPToolName, Field: "url", Reason: reason}
	}

	if params := stringMap(args["params"]); len(params) > 0 {
		q := u.Query()
		for k, v := range params {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	rawBody, _ := args["body"].(string)
	if rawBody != "" {
		body = strings.NewReader(rawBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	for k, v := range stringMap(args["headers"]) {
		req.Header.Set(k, v)
	}
	if rawBody != "" && req.Header.Get("Content-Type") == "" {
		if json.Valid([]byte(rawBody)) {
			req.Header.Set("Content-Type", "application/json")
		} else {
			req.Header.Set("Content-Type", "text/plain")
		}
	}

	resp, err := cfg.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, cfg.maxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > cfg.maxResponseSize {
		return &Result{
			Success:    false,
			Error:      "Response size exceeded limit",
			StatusCode: resp.StatusCode,
			URL:        resp.Request.URL.String(),
		}, nil
	}

	var data any = string(raw)
	if ct := resp.Header.Get("Content-Type"); strings.Contains(ct, "application/json") {
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err == nil {
			data = parsed
		}
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	result := &Result{
		Success:    resp.StatusCode < 400,
		Data:       data,
		StatusCode: resp.StatusCode,
		URL:        resp.Request.URL.String(),
		Headers:    headers,
	}
	if !result.Success {
		result.Error = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return result, nil
}

// checkURL screens a request target before any connection is made. It
// returns an empty string for acceptable URLs and a human-readable reason
// otherwise. Hosts on the allow list are trusted unconditionally.
func checkURL(u *url.URL, cfg *httpConfig) string {
	if u.Scheme != "http" && u.Scheme != "https" {
		return "only http and https URLs are supported"
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "URL must include a hostname"
	}

	for _, blocked := range cfg.blockedHosts {
		if host == strings.ToLower(blocked) {
			return fmt.Sprintf("host %s is blocked", host)
		}
	}
	for _, allowed := range cfg.allowedHosts {
		if host == strings.ToLower(allowed) {
			return ""
		}
	}
	if len(cfg.allowedHosts) > 0 {
		return fmt.Sprintf("host %s is not on the allowed list", host)
	}

	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return "requests to localhost are blocked"
	}
	if ip := net.ParseIP(host); ip != nil {
		switch {
		case ip.IsLoopback(), ip.IsUnspecified():
			return "requests to localhost are blocked"
		case ip.IsPrivate(), ip.IsLinkLocalUnicast(), ip.IsLinkLocalMulticast(), ip.IsMulticast():
			return "requests to private addresses are blocked"
		}
	}
	return ""
}

// stringMap coerces a validated object argument into a flat string map.
func stringMap(v any) map[string]string {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, val := range m {
		switch s := val.(type) {
		case string:
			out[k] = s
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}
