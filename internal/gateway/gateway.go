package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"boxoffice/internal/session"
	"boxoffice/pkg/logger"
)

const (
	// AuthScheme is the prefix the backend expects in the Authorization header
	AuthScheme = "JWT"

	RefreshPath = "/auth/jwt/refresh/"
)

// Request describes one call to the booking API.
// Set JSON for structured payloads; set Body with an explicit Content-Type for forms.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
	JSON   interface{}
}

func Get(path string) *Request {
	return &Request{Method: http.MethodGet, Path: path}
}

func Delete(path string) *Request {
	return &Request{Method: http.MethodDelete, Path: path}
}

func PostJSON(path string, payload interface{}) *Request {
	return &Request{Method: http.MethodPost, Path: path, JSON: payload}
}

// PostRaw sends body as-is with the given content type (multipart forms)
func PostRaw(path string, body []byte, contentType string) *Request {
	h := http.Header{}
	h.Set("Content-Type", contentType)
	return &Request{Method: http.MethodPost, Path: path, Header: h, Body: body}
}

// call is a fully encoded request that can be sent more than once
type call struct {
	method string
	url    string
	header http.Header
	body   []byte
}

// Gateway issues requests with the session's bearer credential and performs
// at most one silent refresh when the backend reports an expired token.
type Gateway struct {
	baseURL string
	client  *http.Client
	store   session.Store
	log     *logger.Logger
}

func New(baseURL string, client *http.Client, store session.Store, log *logger.Logger) *Gateway {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		store:   store,
		log:     log,
	}
}

// WithStore returns a gateway bound to another session store
func (g *Gateway) WithStore(store session.Store) *Gateway {
	clone := *g
	clone.store = store
	return &clone
}

// Store returns the session store the gateway reads credentials from
func (g *Gateway) Store() session.Store {
	return g.store
}

// Do sends req with the current access token. Responses other than an
// expired-token 401 are returned unmodified.
func (g *Gateway) Do(ctx context.Context, req *Request) (*http.Response, error) {
	sess, err := g.store.Get(ctx)
	if err != nil {
		return nil, err
	}

	c, err := g.encode(req)
	if err != nil {
		return nil, err
	}

	resp, err := g.send(ctx, c, sess.AccessToken)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	payload, err := peekBody(resp)
	if err != nil {
		return nil, &NetworkError{Method: c.method, URL: c.url, Err: err}
	}
	if !IsTokenExpired(resp.StatusCode, payload) {
		return resp, nil
	}
	resp.Body.Close()

	return g.refreshAndRetry(ctx, sess, c)
}

// DoAnonymous sends req without any credential and never refreshes
func (g *Gateway) DoAnonymous(ctx context.Context, req *Request) (*http.Response, error) {
	c, err := g.encode(req)
	if err != nil {
		return nil, err
	}
	return g.send(ctx, c, "")
}

func (g *Gateway) encode(req *Request) (call, error) {
	c := call{
		method: req.Method,
		url:    g.resolve(req.Path),
		header: req.Header.Clone(),
		body:   req.Body,
	}
	if c.method == "" {
		c.method = http.MethodGet
	}
	if c.header == nil {
		c.header = http.Header{}
	}

	if req.JSON != nil {
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return call{}, fmt.Errorf("failed to encode request body: %w", err)
		}
		c.body = data
		if c.header.Get("Content-Type") == "" {
			c.header.Set("Content-Type", "application/json")
		}
	}
	if c.header.Get("Accept") == "" {
		c.header.Set("Accept", "application/json")
	}
	return c, nil
}

func (g *Gateway) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return g.baseURL + path
}

func (g *Gateway) send(ctx context.Context, c call, accessToken string) (*http.Response, error) {
	var body io.Reader = http.NoBody
	if len(c.body) > 0 {
		body = bytes.NewReader(c.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, c.method, c.url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header = c.header.Clone()
	if accessToken != "" {
		httpReq.Header.Set("Authorization", AuthScheme+" "+accessToken)
	}

	start := time.Now()
	resp, err := g.client.Do(httpReq)
	if err != nil {
		g.log.LogUpstreamCall(ctx, c.method, c.url, 0, time.Since(start), err)
		return nil, &NetworkError{Method: c.method, URL: c.url, Err: err}
	}
	g.log.LogUpstreamCall(ctx, c.method, c.url, resp.StatusCode, time.Since(start), nil)
	return resp, nil
}

// peekBody reads the whole body and puts an identical reader back
func peekBody(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return data, nil
}
