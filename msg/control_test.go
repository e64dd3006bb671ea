package msg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReservedKindsAreFlagged(t *testing.T) {
	assert.True(t, Deploy.IsReserved())
	assert.True(t, Prune.IsReserved())
	assert.True(t, SuperviseWith.IsReserved())
	assert.False(t, Start.IsReserved())
	assert.False(t, Tell.IsReserved())
	assert.False(t, Stopped.IsReserved())
	assert.False(t, Faulted.IsReserved())
}
