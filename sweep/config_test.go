package sweep

import (
	"math"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestSizes(t *testing.T) {
	tests := []struct {
		name      string
		step, max int
		want      []int
	}{
		{"defaults bubble", 100, 1000, []int{0, 100, 200, 300, 400, 500, 600, 700, 800, 900, 1000}},
		{"max not a multiple", 3, 10, []int{0, 3, 6, 9}},
		{"max equals step", 10, 10, []int{0, 10}},
		{"step larger than max", 50, 10, []int{0}},
		{"zero max", 5, 0, []int{0}},
		{"negative max", 5, -1, nil},
		{"zero step", 0, 10, nil},
		{"step and max at MaxInt", math.MaxInt, math.MaxInt, []int{0, math.MaxInt}},
		{"next step would overflow", math.MaxInt/2 + 1, math.MaxInt, []int{0, math.MaxInt/2 + 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sizes(tt.step, tt.max)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSizeHintClamped(t *testing.T) {
	assert.Equal(t, maxPrealloc, sizeHint(1, math.MaxInt))
	assert.Equal(t, maxPrealloc, sizeHint(1, maxPrealloc))
	assert.Equal(t, 11, sizeHint(100, 1000))
	assert.Equal(t, 1, sizeHint(50, 10))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, Config{BubbleStep: 100, BubbleMax: 1000, MergeStep: 1000, MergeMax: 10000}, cfg)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"zero bubble step", func(c *Config) { c.BubbleStep = 0 }, ErrInvalidStep},
		{"negative merge step", func(c *Config) { c.MergeStep = -5 }, ErrInvalidStep},
		{"negative bubble max", func(c *Config) { c.BubbleMax = -1 }, ErrInvalidMax},
		{"negative merge max", func(c *Config) { c.MergeMax = -1 }, ErrInvalidMax},
		{"zero max is fine", func(c *Config) { c.MergeMax = 0 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
