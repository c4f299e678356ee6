package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectionFromValue(t *testing.T) {
	assert.Equal(t, VoteDown, DirectionFromValue(-1))
	assert.Equal(t, VoteUp, DirectionFromValue(1))
	assert.Equal(t, VoteUp, DirectionFromValue(0))
	assert.Equal(t, VoteUp, DirectionFromValue(7))
	assert.Equal(t, -1, VoteDown.Value())
}
