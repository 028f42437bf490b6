// Package storefront talks to the commerce platform's GraphQL Storefront API.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/prairiegroup/storefront/internal/config"
	"github.com/prairiegroup/storefront/pkg/ctxval"
	"github.com/prairiegroup/storefront/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tidwall/gjson"
)

const tokenHeader = "X-Shopify-Storefront-Access-Token"

// Operation is a named GraphQL document.
type Operation struct {
	Name     string
	Document string
}

type Client interface {
	Query(ctx context.Context, op Operation, vars map[string]any, out any) error
	Mutate(ctx context.Context, op Operation, vars map[string]any, out any) error
}

// GraphQLError carries the first top-level error returned by the API.
type GraphQLError struct {
	Operation string
	Message   string
}

func (e *GraphQLError) Error() string {
	return e.Message
}

// TransportError is a failed exchange with the API: the request did not go
// through, the status was not 2xx or the payload could not be read.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// PlatformError is a well-formed answer the API could not act on, such as a
// mutation returning neither a result nor user errors. Message is shown to
// customers as is.
type PlatformError struct {
	Operation string
	Message   string
}

func (e *PlatformError) Error() string {
	return e.Message
}

var errNoData = errors.New("response has no data")

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type client struct {
	http     *resty.Client
	endpoint string
	token    string
	country  string
	language string
	latency  *prometheus.HistogramVec
}

func NewClient(conf *config.Config) (Client, error) {
	cfg := conf.Storefront
	latency, err := util.GetHistogramVec("storefront_operation_duration_seconds", "operation", "status")
	if err != nil {
		return nil, fmt.Errorf("storefront histogram: %w", err)
	}

	return &client{
		http:     util.NewRestyClient(cfg.Timeout),
		endpoint: cfg.GraphQLEndpoint(),
		token:    cfg.PublicToken,
		country:  cfg.Country,
		language: cfg.Language,
		latency:  latency,
	}, nil
}

func (c *client) Query(ctx context.Context, op Operation, vars map[string]any, out any) error {
	return c.do(ctx, op, vars, out)
}

func (c *client) Mutate(ctx context.Context, op Operation, vars map[string]any, out any) error {
	return c.do(ctx, op, vars, out)
}

func (c *client) do(ctx context.Context, op Operation, vars map[string]any, out any) (err error) {
	start := time.Now()
	status := "ok"
	defer func() {
		if err != nil {
			status = "error"
		}
		c.latency.WithLabelValues(op.Name, status).Observe(time.Since(start).Seconds())
		ctxval.Append(ctx, operationsKey, op.Name)
	}()

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(tokenHeader, c.token).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetBody(request{
			Query:         op.Document,
			OperationName: op.Name,
			Variables:     c.inContext(vars),
		}).
		Post(c.endpoint)
	if err != nil {
		return &TransportError{Operation: op.Name, Err: err}
	}
	if !resp.IsSuccess() {
		return &TransportError{Operation: op.Name, Err: fmt.Errorf("unexpected status %d", resp.StatusCode())}
	}

	body := resp.Body()
	if msg := gjson.GetBytes(body, "errors.0.message"); msg.Exists() {
		return &GraphQLError{Operation: op.Name, Message: msg.String()}
	}

	data := gjson.GetBytes(body, "data")
	if !data.Exists() || data.Type == gjson.Null {
		return &TransportError{Operation: op.Name, Err: errNoData}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(data.Raw), out); err != nil {
		return &TransportError{Operation: op.Name, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}

// inContext adds the configured buyer context unless the caller set it.
func (c *client) inContext(vars map[string]any) map[string]any {
	out := make(map[string]any, len(vars)+2)
	for k, v := range vars {
		out[k] = v
	}
	if _, ok := out["country"]; !ok && c.country != "" {
		out["country"] = c.country
	}
	if _, ok := out["language"]; !ok && c.language != "" {
		out["language"] = c.language
	}
	return out
}

type opsKey struct{}

var operationsKey = opsKey{}

// Operations lists the storefront operations issued under ctx, in order.
// ctx must have been prepared with ctxval.Wrap.
func Operations(ctx context.Context) []string {
	ops, _ := ctxval.Get[opsKey, []string](ctx, operationsKey)
	return ops
}
