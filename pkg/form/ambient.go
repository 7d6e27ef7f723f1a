package form

import "context"

type contextKey struct{}

// Provide publishes fc for everything built from the returned ctx. The
// nearest Provide wins; sibling ctx values are unaffected.
func Provide(ctx context.Context, fc *Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, fc)
}

// Use returns the nearest provided form context.
func Use(ctx context.Context) (*Context, error) {
	if ctx != nil {
		if fc, ok := ctx.Value(contextKey{}).(*Context); ok && fc != nil {
			return fc, nil
		}
	}
	return nil, configErr("use form context", ErrNoContext)
}

// MustUse is Use that panics when no context was provided.
func MustUse(ctx context.Context) *Context {
	fc, err := Use(ctx)
	if err != nil {
		panic(err)
	}
	return fc
}

// Update derives a child of the nearest context and provides it for the
// subtree built from the returned ctx.
func Update(ctx context.Context, opts UpdateOptions) (context.Context, *Context, error) {
	parent, err := Use(ctx)
	if err != nil {
		return ctx, nil, err
	}
	child := parent.Derive(opts)
	return Provide(ctx, child), child, nil
}

// Create builds a root context from the installed default plugin and
// provides it.
func Create(ctx context.Context, opts Options) (context.Context, *Context, error) {
	return Default().Create(ctx, opts)
}

// Create builds a root context and provides it for the subtree built from
// the returned ctx.
func (p *Plugin) Create(ctx context.Context, opts Options) (context.Context, *Context, error) {
	fc, err := p.NewContext(opts)
	if err != nil {
		return ctx, nil, err
	}
	return Provide(ctx, fc), fc, nil
}
