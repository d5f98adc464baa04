package a

import "context"

type contextKey string

const userKey contextKey = "currentUser"

const plainKey = "currentUser"

func attach(ctx context.Context) {
	_ = context.WithValue(ctx, userKey, 1)
	_ = context.WithValue(ctx, contextKey("other"), 1)
	_ = context.WithValue(ctx, struct{}{}, 1)

	_ = context.WithValue(ctx, "currentUser", 1) // want `context key should be of a dedicated type`
	_ = context.WithValue(ctx, plainKey, 1)      // want `context key should be of a dedicated type`
	_ = context.WithValue(ctx, 42, 1)            // want `context key should be of a dedicated type`

	key := "currentUser"
	_ = context.WithValue(ctx, key, 1) // want `context key should be of a dedicated type`
}
