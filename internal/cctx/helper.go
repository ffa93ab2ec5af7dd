package cctx

import "context"

func WithValues(parent context.Context, values ...interface{}) (ctx context.Context) {
	if len(values)%2 != 0 {
		panic("uneven")
	}

	ctx = parent
	for i := 0; i < len(values); i++ {
		key := values[i]
		value := values[i+1]
		i++

		ctx = context.WithValue(ctx, key, value)
	}
	return
}

// StringValue pulls a string out of the context, returning "" when the key
// is absent or holds a different type.
func StringValue(ctx context.Context, key ContextKey) string {
	s, _ := ctx.Value(key).(string)
	return s
}
