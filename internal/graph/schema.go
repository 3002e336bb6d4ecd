package graph

import (
	"context"
	_ "embed"
	"log/slog"

	graphql "github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var schemaSDL string

const DefaultMaxDepth = 12

type SchemaOptions struct {
	// DisableIntrospection hides __schema and __type, used in production.
	DisableIntrospection bool
	MaxDepth             int
}

// NewSchema binds the SDL to the resolver and fails if any field has no
// matching resolver method.
func NewSchema(resolver *Resolver, opts SchemaOptions) (*graphql.Schema, error) {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	schemaOpts := []graphql.SchemaOpt{
		graphql.MaxDepth(maxDepth),
		graphql.Logger(panicLogger{logger: resolver.logger}),
	}
	if opts.DisableIntrospection {
		schemaOpts = append(schemaOpts, graphql.DisableIntrospection())
	}

	return graphql.ParseSchema(schemaSDL, resolver, schemaOpts...)
}

type panicLogger struct {
	logger *slog.Logger
}

func (l panicLogger) LogPanic(ctx context.Context, value interface{}) {
	l.logger.ErrorContext(ctx, "graphql resolver panic", "panic", value)
}
