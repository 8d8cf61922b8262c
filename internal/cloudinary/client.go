package cloudinary

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/juju/errors"
	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("moodboard.cloudinary")

// DefaultBaseURL is the delivery host the list endpoints live on.
const DefaultBaseURL = "http://res.cloudinary.com"

const jsonMIME = "application/json"

// Lister fetches the resources tagged with a board name.
type Lister interface {
	// URL returns the list endpoint for the given media type and tag.
	URL(kind MediaType, tag string) string
	// List performs GET on the list endpoint and decodes the body.
	List(ctx context.Context, kind MediaType, tag string) (ListResponse, error)
}

// Transport performs the actual request. *http.Client satisfies it.
type Transport interface {
	Do(*http.Request) (*http.Response, error)
}

// Client lists resources for one cloud.
type Client struct {
	baseURL   string
	cloudName string
	transport Transport
	timeout   time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTransport replaces the default http.Client.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient returns a Client for cloudName.
func NewClient(cloudName string, opts ...Option) (*Client, error) {
	cloudName = strings.TrimSpace(cloudName)
	if cloudName == "" {
		return nil, errors.NotValidf("empty cloud name")
	}
	c := &Client{
		baseURL:   DefaultBaseURL,
		cloudName: cloudName,
		transport: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CloudName returns the tenant the client talks to.
func (c *Client) CloudName() string { return c.cloudName }

func (c *Client) URL(kind MediaType, tag string) string {
	return ListURL(c.baseURL, c.cloudName, kind, tag)
}

// ListURL formats {base}/{cloud}/{kind}/list/{tag}.json.
func ListURL(base, cloudName string, kind MediaType, tag string) string {
	return strings.TrimRight(base, "/") + "/" + url.PathEscape(cloudName) + "/" +
		string(kind) + "/list/" + url.PathEscape(tag) + ".json"
}

func (c *Client) List(ctx context.Context, kind MediaType, tag string) (ListResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.URL(kind, tag)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return ListResponse{}, errors.Annotate(err, "can not make new request")
	}
	req.Header.Set("Accept", jsonMIME)

	started := time.Now()
	resp, err := c.transport.Do(req)
	if err != nil {
		return ListResponse{}, errors.Trace(err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	logger.Tracef("GET %s -> %d in %v", target, resp.StatusCode, time.Since(started))

	if err := checkResponse(req, resp); err != nil {
		return ListResponse{}, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ListResponse{}, errors.Annotatef(err, "reading %s", target)
	}
	var out ListResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return ListResponse{}, errors.Annotatef(err, "decoding %s", target)
	}
	out.body = body
	return out, nil
}

func checkResponse(req *http.Request, resp *http.Response) error {
	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode <= http.StatusNoContent:
	case resp.StatusCode == http.StatusNotFound:
		return errors.NotFoundf("resource list %q", req.URL.String())
	case resp.StatusCode >= http.StatusInternalServerError:
		return errors.Errorf("server error %q: %s", req.URL.String(), resp.Status)
	default:
		return errors.Errorf("unexpected status from %q: %s", req.URL.String(), resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != jsonMIME {
		return errors.Errorf("unexpected content-type from server %q", contentType)
	}
	return nil
}
