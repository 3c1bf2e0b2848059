package limiter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		errMsg string
	}{
		{name: "zero values", cfg: Config{}},
		{name: "limit with offset", cfg: Config{Limit: 10, Offset: 5}},
		{name: "tail with offset", cfg: Config{Tail: 10, Offset: 5}},
		{name: "limit and tail", cfg: Config{Limit: 10, Tail: 5}, errMsg: "mutually exclusive"},
		{name: "negative limit", cfg: Config{Limit: -1}, errMsg: "--limit must be non-negative"},
		{name: "negative offset", cfg: Config{Offset: -1}, errMsg: "--offset must be non-negative"},
		{name: "negative tail", cfg: Config{Tail: -2}, errMsg: "--tail must be non-negative, got -2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfigIsActive(t *testing.T) {
	assert.False(t, Config{}.IsActive())
	assert.True(t, Config{Limit: 1}.IsActive())
	assert.True(t, Config{Offset: 1}.IsActive())
	assert.True(t, Config{Tail: 1}.IsActive())
}

func TestApplyRows(t *testing.T) {
	rows := [][]string{{"1"}, {"2"}, {"3"}, {"4"}, {"5"}, {"6"}, {"7"}, {"8"}, {"9"}, {"10"}}
	first := func(rs [][]string) []string {
		out := make([]string, 0, len(rs))
		for _, r := range rs {
			out = append(out, r[0])
		}
		return out
	}

	tests := []struct {
		name string
		cfg  Config
		want []string
	}{
		{name: "limit only", cfg: Config{Limit: 3}, want: []string{"1", "2", "3"}},
		{name: "offset only", cfg: Config{Offset: 5}, want: []string{"6", "7", "8", "9", "10"}},
		{name: "limit and offset", cfg: Config{Limit: 3, Offset: 2}, want: []string{"3", "4", "5"}},
		{name: "tail only", cfg: Config{Tail: 3}, want: []string{"8", "9", "10"}},
		{name: "offset larger than rows", cfg: Config{Offset: 20}, want: []string{}},
		{name: "limit larger than remaining", cfg: Config{Limit: 100, Offset: 5}, want: []string{"6", "7", "8", "9", "10"}},
		{name: "tail larger than rows", cfg: Config{Tail: 100}, want: first(rows)},
		{name: "limit zero (unlimited)", cfg: Config{Limit: 0}, want: first(rows)},
		{name: "tail ignores offset", cfg: Config{Tail: 3, Offset: 5}, want: []string{"8", "9", "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, first(Apply(tt.cfg, rows)))
		})
	}
}

func TestApplyEdgeCases(t *testing.T) {
	t.Run("empty rows", func(t *testing.T) {
		assert.Empty(t, Apply(Config{Limit: 10}, []int{}))
	})

	t.Run("nil rows", func(t *testing.T) {
		assert.Empty(t, Apply(Config{Tail: 2}, []int(nil)))
	})

	t.Run("single row with limit 1", func(t *testing.T) {
		assert.Equal(t, []int{42}, Apply(Config{Limit: 1}, []int{42}))
	})

	t.Run("offset equals length", func(t *testing.T) {
		assert.Equal(t, []int{}, Apply(Config{Offset: 3}, []int{1, 2, 3}))
	})

	t.Run("inactive returns input", func(t *testing.T) {
		in := []int{1, 2, 3, 4, 5}
		assert.Equal(t, in, Apply(Config{}, in))
	})
}

func TestWindow(t *testing.T) {
	start, end := Config{Offset: 4, Limit: 2}.Window(5)
	assert.Equal(t, 4, start)
	assert.Equal(t, 5, end)

	start, end = Config{Tail: 2}.Window(-1)
	assert.Zero(t, start)
	assert.Zero(t, end)
}

func TestDescribe(t *testing.T) {
	assert.Empty(t, Config{}.Describe(10))
	assert.Empty(t, Config{Limit: 20}.Describe(10))
	assert.Equal(t, "rows 3-5 of 10", Config{Offset: 2, Limit: 3}.Describe(10))
	assert.Equal(t, "rows 9-10 of 10", Config{Tail: 2}.Describe(10))
	assert.Equal(t, "no rows of 10", Config{Offset: 10}.Describe(10))
}
