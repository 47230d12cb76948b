package busobj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPath(t *testing.T) {
	tests := []struct {
		path  string
		valid bool
	}{
		{"/", true},
		{"/a", true},
		{"/sensors/0", true},
		{"/com/buslab/sensors/0", true},
		{"/with_underscore", true},
		{"", false},
		{"sensors/0", false},
		{"/a/", false},
		{"//", false},
		{"/a//b", false},
		{"/a-b", false},
		{"/a b", false},
		{"/a.b", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidPath(tt.path), "path %q", tt.path)
		})
	}
}
