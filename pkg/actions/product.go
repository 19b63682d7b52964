package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/savaki/slack-relay/pkg/format"
	"github.com/savaki/slack-relay/pkg/models"
)

// DefaultProductTimeout bounds a single product lookup
const DefaultProductTimeout = 10 * time.Second

// maxProductBody caps how much of the API response is read
const maxProductBody = 1 << 20

// ProductClient looks products up on the downstream user API
type ProductClient struct {
	baseURL string
	client  *http.Client
}

// NewProductClient creates a product client for baseURL
func NewProductClient(baseURL string, timeout time.Duration) *ProductClient {
	if timeout <= 0 {
		timeout = DefaultProductTimeout
	}
	return &ProductClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(timeout),
	}
}

// newHTTPClient returns a pooled client whose every request is bounded by timeout
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// Handle implements Handler
func (p *ProductClient) Handle(ctx context.Context, intent models.Intent) models.Response {
	return p.Lookup(ctx, intent.Param(models.ParamProductID))
}

// Lookup fetches a product and formats the outcome. It never fails: every
// error is turned into a reply.
func (p *ProductClient) Lookup(ctx context.Context, productID string) models.Response {
	apiURL := p.baseURL + "/users/" + url.PathEscape(productID)
	log.Printf("Calling product API: %s", apiURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return format.ProductFailure(err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProductBody))
	if err != nil {
		return classifyTransportError(err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		text := string(body)
		if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
			text, err = prettyJSON(body)
			if err != nil {
				log.Printf("Product API returned invalid JSON: %v", err)
				return format.ProductFailure(err)
			}
		}
		return format.ProductFound(productID, text)
	case http.StatusNotFound:
		return format.ProductNotFound(productID)
	default:
		return format.ProductAPIError(resp.StatusCode, string(body))
	}
}

func classifyTransportError(err error) models.Response {
	log.Printf("Product API call failed: %v", err)

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return format.ProductTimeout()
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return format.ProductUnreachable()
	}

	return format.ProductFailure(err)
}

// prettyJSON re-indents body with two spaces, leaving non-ASCII text as is
func prettyJSON(body []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("decode json: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}

	return strings.TrimRight(buf.String(), "\n"), nil
}
