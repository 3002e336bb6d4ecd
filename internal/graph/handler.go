package graph

import (
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

// DefaultMaxRequestBytes bounds a single GraphQL request body when no limit
// is configured.
const DefaultMaxRequestBytes = 1 << 20

// NewHandler serves POST /graphql. The caller is expected in the request
// context already, set by the auth middleware.
func NewHandler(schema *graphql.Schema, maxBytes int64) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestBytes
	}
	return http.MaxBytesHandler(&relay.Handler{Schema: schema}, maxBytes)
}
