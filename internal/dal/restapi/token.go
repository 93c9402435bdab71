package restapi

import "context"

type tokenKey struct{}

// ContextWithToken attaches the caller's bearer token to ctx. Calls made with
// that context authenticate as the caller instead of the service.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)

	return token, ok && token != ""
}
