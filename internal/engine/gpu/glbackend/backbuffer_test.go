package glbackend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleCount(t *testing.T) {
	tests := []struct {
		name             string
		requested, limit int32
		want             int32
	}{
		{"off", 1, 8, 1},
		{"zero", 0, 8, 1},
		{"within limit", 4, 8, 4},
		{"clamped", 16, 8, 8},
		{"no driver support", 4, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sampleCount(tt.requested, tt.limit))
		})
	}
}
