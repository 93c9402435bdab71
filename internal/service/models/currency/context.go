package currency

import "context"

type displayKey struct{}

// ContextWithDisplay sets the currency amounts are rendered in for calls made with ctx.
func ContextWithDisplay(ctx context.Context, c Currency) context.Context {
	return context.WithValue(ctx, displayKey{}, c)
}

// DisplayFromContext falls back to ARS when no display currency was set.
func DisplayFromContext(ctx context.Context) Currency {
	if c, ok := ctx.Value(displayKey{}).(Currency); ok && c != "" {
		return c
	}

	return CurrencyARS
}
