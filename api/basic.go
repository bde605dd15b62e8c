package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/duke-git/lancet/v2/netutil"
	"github.com/rs/zerolog"
)

const (
	MAINNET = "https://api2.bybit.com"

	PaymentListPath = "/fiat/otc/configuration/queryAllPaymentList"
	OnlinePath      = "/fiat/otc/item/online"
)

// Client talks to the OTC platform's internal API.
type Client struct {
	baseURL  string
	timeout  time.Duration
	maxTries uint
	log      zerolog.Logger
}

type Option func(*Client)

// WithTimeout bounds the connection handshake and the wait for response headers. Zero means no bound.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithMaxTries sets how many attempts a call may take on network failures. 1 disables retrying.
func WithMaxTries(n uint) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTries = n
		}
	}
}

func NewClient(baseURL string, log zerolog.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = MAINNET
	}
	client := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		maxTries: 1,
		log:      log.With().Str("component", "api").Logger(),
	}
	for _, option := range opts {
		option(client)
	}
	return client
}

// httpClient is built from an explicit config: lancet's default one caps every call.
// A zero config leaves the call unbounded.
func (c *Client) httpClient() *netutil.HttpClient {
	if c.timeout <= 0 {
		return netutil.NewHttpClientWithConfig(&netutil.HttpClientConfig{})
	}
	return netutil.NewHttpClientWithConfig(&netutil.HttpClientConfig{
		HandshakeTimeout: c.timeout,
		ResponseTimeout:  c.timeout,
	})
}

// post sends one request and returns the raw body. Only transport failures are retried.
func (c *Client) post(ctx context.Context, path string, header http.Header, body []byte) ([]byte, error) {
	operation := func() ([]byte, error) {
		req := &netutil.HttpRequest{
			RawURL:  c.baseURL + path,
			Method:  "POST",
			Headers: header,
			Body:    body,
		}

		resp, err := c.httpClient().SendRequest(req)
		if err != nil {
			return nil, NewNetworkError(path, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, NewNetworkError(path, err)
		}
		return data, nil
	}

	notify := func(err error, delay time.Duration) {
		c.log.Warn().Err(err).Str("endpoint", path).Dur("retry_in", delay).Msg("remote call failed, retrying")
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second

	data, err := backoff.Retry(ctx, operation,
		backoff.WithMaxTries(c.maxTries),
		backoff.WithBackOff(b),
		backoff.WithNotify(notify),
	)
	if err != nil {
		var netErr *NetworkError
		if errors.As(err, &netErr) {
			return nil, netErr
		}
		return nil, NewNetworkError(path, fmt.Errorf("request aborted: %w", err))
	}
	return data, nil
}
