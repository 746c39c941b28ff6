package practicum

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const maxResponseBodySize = 1 << 20

var (
	// ErrEndpointUnavailable is matched by fetch errors caused by the network
	// or by a non-200 answer.
	ErrEndpointUnavailable = errors.New("endpoint unavailable")
	// ErrUndecodableBody is matched by fetch errors caused by a body that is
	// not JSON.
	ErrUndecodableBody = errors.New("undecodable json in response")
)

// FetchError is returned by FetchStatus. Kind is ErrEndpointUnavailable or
// ErrUndecodableBody; StatusCode is zero when no answer was received.
type FetchError struct {
	Kind       error
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("endpoint %q is unavailable, api status code: %d", e.URL, e.StatusCode)
	case e.Kind == ErrUndecodableBody:
		return fmt.Sprintf("endpoint %q returned undecodable json: %v", e.URL, e.Err)
	default:
		return fmt.Sprintf("endpoint %q is unavailable: %v", e.URL, e.Err)
	}
}

func (e *FetchError) Is(target error) bool {
	return target == e.Kind
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Config of the homework statuses client.
type Config struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
}

// Client queries the homework statuses API.
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a client. A zero Timeout leaves requests bounded only by
// the caller's context.
func NewClient(c Config) *Client {
	return &Client{
		httpClient: &http.Client{},
		config:     c,
	}
}

// FetchStatus asks for the homework status changes since fromDate (unix
// seconds) and returns the decoded, not yet validated, JSON answer. Numbers
// are decoded as json.Number.
func (c *Client) FetchStatus(ctx context.Context, fromDate int64) (interface{}, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	endpoint := c.config.Endpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Kind: ErrEndpointUnavailable, URL: endpoint, Err: errors.Wrap(err, "could not create request")}
	}

	query := req.URL.Query()
	query.Set("from_date", strconv.FormatInt(fromDate, 10))
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Authorization", "OAuth "+c.config.Token)

	log.Debugf("requesting %s with from_date=%d", endpoint, fromDate)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{Kind: ErrEndpointUnavailable, URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Kind: ErrEndpointUnavailable, URL: endpoint, StatusCode: resp.StatusCode}
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBodySize))
	dec.UseNumber()

	var body interface{}
	if err := dec.Decode(&body); err != nil {
		return nil, &FetchError{Kind: ErrUndecodableBody, URL: endpoint, Err: err}
	}

	return body, nil
}
