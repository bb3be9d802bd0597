package graph

import (
	"context"
	_ "embed"
	"log/slog"
	"runtime/debug"

	"github.com/graph-gophers/graphql-go"
)

//go:embed schema.graphql
var schemaSDL string

// SchemaOptions tunes query execution limits.
type SchemaOptions struct {
	MaxDepth       int
	MaxParallelism int
}

// NewSchema parses the book schema and binds it to r.
func NewSchema(r *Resolver, opts SchemaOptions) (*graphql.Schema, error) {
	schemaOpts := []graphql.SchemaOpt{
		graphql.Logger(panicLogger{logger: r.logger}),
	}
	if opts.MaxDepth > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxDepth(opts.MaxDepth))
	}
	if opts.MaxParallelism > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxParallelism(opts.MaxParallelism))
	}
	return graphql.ParseSchema(schemaSDL, r, schemaOpts...)
}

type panicLogger struct {
	logger *slog.Logger
}

func (l panicLogger) LogPanic(ctx context.Context, value interface{}) {
	l.logger.ErrorContext(ctx, "graphql resolver panic", "error", value, "stack", string(debug.Stack()))
}
