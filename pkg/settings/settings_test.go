package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCliParams(t *testing.T) {
	got := NewCliParams()
	assert.Equal(t, &Run{ExitOnError: true}, got)
	assert.False(t, got.Debug())
	assert.True(t, got.Input.FromStdin())
}

func TestRunDebug(t *testing.T) {
	var nilRun *Run
	assert.False(t, nilRun.Debug())
	assert.True(t, (&Run{MinLogLevel: -1}).Debug())
}

func TestInputFromStdin(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "", want: true},
		{path: "-", want: true},
		{path: "columns.yaml", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Input{Path: tt.path}.FromStdin())
		})
	}
}
