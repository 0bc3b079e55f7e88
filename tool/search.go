package tool

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/troupe-dev/troupe/schema"
)

const (
	// WebSearchToolName is the registered name of the web search builtin.
	WebSearchToolName = "web_search"

	searchEngine     = "DuckDuckGo"
	defaultSearchURL = "https://html.duckduckgo.com/html/"
	maxSearchResults = 25
)

type searchConfig struct {
	client  *http.Client
	baseURL string
}

// SearchOption configures the web search builtin.
type SearchOption func(*searchConfig)

// WithSearchClient sets the client used for search requests.
func WithSearchClient(client *http.Client) SearchOption {
	return func(c *searchConfig) { c.client = client }
}

// WithSearchBaseURL points the tool at a different results endpoint.
func WithSearchBaseURL(baseURL string) SearchOption {
	return func(c *searchConfig) { c.baseURL = baseURL }
}

// SearchResult is one entry of a web search tool response.
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// WebSearch builds the web_search builtin: a DuckDuckGo search returning a
// list of {title, snippet, url} results.
//
// Invalid safesearch values fall back to moderate and invalid time ranges
// are dropped rather than failing the call; the values actually used are
// reported back in the result metadata.
func WebSearch(opts ...SearchOption) *Tool {
	cfg := searchConfig{
		client:  &http.Client{},
		baseURL: defaultSearchURL,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	params := schema.Object().
		Field("query", schema.String().Desc("The search query.").Required()).
		Field("max_results", schema.Int().
			Desc("Maximum number of results to return.").
			Min(1).Max(maxSearchResults).Default(10)).
		Field("safesearch", schema.String().
			Desc("Content filtering level: on, moderate, or off.").
			Default("moderate")).
		Field("time_range", schema.String().
			Desc("Restrict results by age: d (day), w (week), m (month), or y (year).")).
		Field("region", schema.String().
			Desc("Region code such as us-en or de-de.")).
		MustBuild()

	handler := func(ctx context.Context, args map[string]any) (any, error) {
		return webSearch(ctx, &cfg, args)
	}

	return New(
		WebSearchToolName,
		"Search the web with DuckDuckGo and return a list of result titles, snippets, and URLs.",
		params,
		handler,
		WithTimeout(30*time.Second),
		WithMaxRetries(2),
		WithRetryDelay(time.Second),
		WithRetryBackoff(true),
		WithOnError(ModeReturn),
	)
}

func webSearch(ctx context.Context, cfg *searchConfig, args map[string]any) (any, error) {
	query, _ := args["query"].(string)
	if strings.TrimSpace(query) == "" {
		return Failure("Query cannot be empty"), nil
	}

	max := intArg(args, "max_results", 10)
	if max > maxSearchResults {
		max = maxSearchResults
	}
	metadata := map[string]any{
		"query":         query,
		"search_engine": searchEngine,
	}

	form := url.Values{}
	form.Set("q", query)

	safesearch, _ := args["safesearch"].(string)
	switch safesearch {
	case "on":
		form.Set("kp", "1")
	case "off":
		form.Set("kp", "-2")
	default:
		safesearch = "moderate"
	}
	metadata["safesearch"] = safesearch

	if timeRange, _ := args["time_range"].(string); timeRange != "" {
		switch timeRange {
		case "d", "w", "m", "y":
			form.Set("df", timeRange)
			metadata["time_range"] = timeRange
		}
	}
	if region, _ := args["region"].(string); region != "" {
		form.Set("kl", region)
		metadata["region"] = region
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; troupe)")

	resp, err := cfg.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned HTTP %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, defaultMaxResponseSize))
	if err != nil {
		return nil, err
	}

	results := parseSearchResults(string(raw), max)
	if len(results) == 0 {
		metadata["message"] = "No results found"
	}
	return &Result{Success: true, Data: results, Metadata: metadata}, nil
}

var (
	searchLinkRe    = regexp.MustCompile(`(?s)<a[^>]+class="result__a"[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
	searchSnippetRe = regexp.MustCompile(`(?s)class="result__snippet"[^>]*>(.*?)</a>`)
	tagRe           = regexp.MustCompile(`<[^>]*>`)
)

// parseSearchResults extracts results from the DuckDuckGo HTML endpoint.
// Each result link is paired with the snippet that follows it, before the
// next result link. Ad links redirect through DuckDuckGo itself and are
// dropped.
func parseSearchResults(page string, max int) []SearchResult {
	links := searchLinkRe.FindAllStringSubmatchIndex(page, -1)
	results := make([]SearchResult, 0, max)
	for i, loc := range links {
		result := SearchResult{
			URL:   resolveSearchURL(page[loc[2]:loc[3]]),
			Title: cleanFragment(page[loc[4]:loc[5]]),
		}
		if result.URL == "" || result.Title == "" || isAdURL(result.URL) {
			continue
		}
		end := len(page)
		if i+1 < len(links) {
			end = links[i+1][0]
		}
		if m := searchSnippetRe.FindStringSubmatch(page[loc[1]:end]); m != nil {
			result.Snippet = cleanFragment(m[1])
		}
		results = append(results, result)
		if len(results) >= max {
			break
		}
	}
	return results
}

// resolveSearchURL unwraps DuckDuckGo's redirect links, which carry the
// destination in a uddg query parameter.
func resolveSearchURL(href string) string {
	href = html.UnescapeString(href)
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" {
		u.Scheme = "https"
	}
	return u.String()
}

// isAdURL reports whether a resolved result target still points at
// DuckDuckGo, which is how sponsored results are served.
func isAdURL(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return true
	}
	host := strings.ToLower(u.Hostname())
	return host == "duckduckgo.com" || strings.HasSuffix(host, ".duckduckgo.com")
}

// cleanFragment strips markup from an extracted HTML fragment.
func cleanFragment(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// intArg reads a numeric argument that schema validation has already
// checked; numbers decoded from JSON arrive as float64.
func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}
