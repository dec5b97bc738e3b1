// Package graphql implements the persistence ports against a GraphQL
// gateway (a Hasura-style engine fronting the database). It is the
// storage backend used when no direct database connection is configured.
package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"discover/internal/app"
	"discover/internal/domain"
)

var (
	_ domain.UserRepository = (*Gateway)(nil)
	_ domain.StatRepository = (*Gateway)(nil)
)

// Gateway executes GraphQL operations against a single endpoint,
// authenticating with a service-level secret rather than per-user
// credentials.
type Gateway struct {
	url    string
	client *resty.Client
}

// NewGateway returns a Gateway for the given endpoint URL. The secret is
// sent as a bearer token on every request.
func NewGateway(url, secret string) *Gateway {
	client := resty.New().
		SetAuthToken(secret).
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)
	return &Gateway{url: url, client: client}
}

type request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// execute runs one operation and decodes the data payload into out.
func (g *Gateway) execute(ctx context.Context, operation, query string, variables map[string]any, out any) error {
	var body response
	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(request{Query: query, Variables: variables, OperationName: operation}).
		SetResult(&body).
		Post(g.url)
	if err != nil {
		return &app.Error{Kind: app.KindTransport, Msg: "graphql request failed", Err: err}
	}
	if resp.IsError() {
		return &app.Error{
			Kind: app.KindUpstream,
			Msg:  fmt.Sprintf("graphql gateway returned %s", resp.Status()),
		}
	}
	if len(body.Errors) > 0 {
		return &app.Error{
			Kind: app.KindUpstream,
			Msg:  fmt.Sprintf("graphql operation %s: %s", operation, body.Errors[0].Message),
		}
	}
	if out != nil {
		if err := json.Unmarshal(body.Data, out); err != nil {
			return &app.Error{Kind: app.KindUpstream, Msg: "malformed graphql payload", Err: err}
		}
	}
	return nil
}
