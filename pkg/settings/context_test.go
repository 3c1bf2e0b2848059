package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() context.Context
		want *Run
		ok   bool
	}{
		{
			name: "stored settings",
			ctx: func() context.Context {
				return IntoContext(context.Background(), &Run{NoColor: true, Width: 80})
			},
			want: &Run{NoColor: true, Width: 80},
			ok:   true,
		},
		{
			name: "missing settings",
			ctx:  context.Background,
		},
		{
			name: "wrong type under key",
			ctx: func() context.Context {
				return context.WithValue(context.Background(), settingsContextKey, "nope")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromContext(tt.ctx())
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
