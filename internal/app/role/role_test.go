package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	for _, r := range []Role{Viewer, Operator, Admin} {
		got, ok := Parse(r.String())
		assert.True(t, ok)
		assert.Equal(t, r, got)
	}

	got, ok := Parse("root")
	assert.False(t, ok)
	assert.Equal(t, Role(0), got)
	assert.Equal(t, "unknown", got.String())
}
