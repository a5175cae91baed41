package gazelle

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const apiPath = "/ajax.php"

// request describes one ajax.php call.
type request struct {
	op          string
	method      string
	query       url.Values
	body        []byte
	contentType string
}

// response is a fully read HTTP response.
type response struct {
	status int
	header http.Header
	body   []byte
}

func actionQuery(action string, id int) url.Values {
	q := url.Values{}
	q.Set("action", action)
	if id != 0 {
		q.Set("id", strconv.Itoa(id))
	}
	return q
}

// execute sends r and decodes the envelope payload into T.
func execute[T any](ctx context.Context, c *Client, r request) (result *T, err error) {
	log := c.requestLogger(r.op)
	start := time.Now()
	defer func() { c.finish(log, r.op, start, err) }()

	resp, err := c.send(ctx, log, r)
	if err != nil {
		return nil, err
	}
	return decodeAndClassify[T](r.op, resp)
}

func decodeAndClassify[T any](op string, resp *response) (*T, error) {
	env, err := decodeEnvelope[T](resp.body)
	if err != nil {
		return nil, newCauseError(op, KindDeserialize, resp.status, err)
	}
	return classify(op, resp.status, env)
}

func (c *Client) requestLogger(op string) *zap.Logger {
	return c.logger.With(
		zap.String("op", op),
		zap.String("request_id", uuid.NewString()),
	)
}

// send waits for the limiter, performs the request and reads the body.
// Limiter failures (cancellation, full queue) are returned wrapped but
// unclassified since no request was attempted.
func (c *Client) send(ctx context.Context, log *zap.Logger, r request) (*response, error) {
	wait, err := c.limiter.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.op, err)
	}
	c.metrics.recordWait(wait)

	path := apiPath
	if len(r.query) > 0 {
		path += "?" + r.query.Encode()
	}
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+path, body)
	if err != nil {
		return nil, newCauseError(r.op, KindTransport, 0, err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	log.Debug("sending request",
		zap.String("method", r.method),
		zap.String("path", path),
		zap.Duration("limiter_wait", wait))
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newCauseError(r.op, KindTransport, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// One byte past the cap tells a full body from a cut-off one.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, newCauseError(r.op, KindBodyRead, resp.StatusCode, err)
	}
	if len(data) > maxResponseSize {
		return nil, newCauseError(r.op, KindBodyRead, resp.StatusCode,
			fmt.Errorf("%w: more than %d bytes", ErrResponseTooLarge, maxResponseSize))
	}

	log.Debug("received response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("bytes", len(data)))

	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

func (c *Client) finish(log *zap.Logger, op string, start time.Time, err error) {
	c.metrics.recordRequest(op, err, time.Since(start))
	if err == nil {
		return
	}
	if gerr, ok := err.(*Error); ok {
		log.Debug("classified error",
			zap.Stringer("kind", gerr.Kind),
			zap.Int("status", gerr.StatusCode),
			zap.String("message", gerr.Message))
		return
	}
	log.Debug("request aborted", zap.Error(err))
}
