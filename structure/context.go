package structure

import "context"

// Context accumulates block spans for a single request. It ties one document
// snapshot to one cancellation signal and an append-only span sequence.
// A Context is driven by providers invoked sequentially and is never shared
// across requests, so it carries no locking.
type Context struct {
	ctx   context.Context
	doc   Document
	spans []BlockSpan
}

// NewContext binds a snapshot and a cancellation signal for one request.
func NewContext(ctx context.Context, doc Document) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Context{ctx: ctx, doc: doc}
}

// Append records one span. Spans appended earlier keep their position;
// providers cannot remove or reorder them.
func (c *Context) Append(span BlockSpan) {
	c.spans = append(c.spans, span)
}

// Snapshot returns the document the request reads against.
func (c *Context) Snapshot() Document {
	return c.doc
}

// Cancelled reports whether the request has been cancelled. Providers are
// expected to poll this and abandon work promptly.
func (c *Context) Cancelled() bool {
	return c.ctx.Err() != nil
}

// Err returns the cancellation cause, or nil while the request is live.
func (c *Context) Err() error {
	return c.ctx.Err()
}
