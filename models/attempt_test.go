package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorePercentage(t *testing.T) {
	a := Attempt{Score: 3, TotalQuestions: 4}
	assert.InDelta(t, 75.0, a.ScorePercentage(), 1e-9)

	empty := Attempt{Score: 0, TotalQuestions: 0}
	assert.Zero(t, empty.ScorePercentage(), "no questions means no division")
}

func TestPassedThresholdIsInclusive(t *testing.T) {
	a := Attempt{Score: 8, TotalQuestions: 10}
	assert.True(t, a.Passed(80))
	assert.False(t, a.Passed(81))
	assert.True(t, a.Passed(0))
}

func TestCanRetake(t *testing.T) {
	failed := Attempt{Score: 5, TotalQuestions: 10}
	assert.True(t, failed.CanRetake(80))

	passed := Attempt{Score: 9, TotalQuestions: 10}
	assert.False(t, passed.CanRetake(80))

	random := Attempt{Score: 1, TotalQuestions: 10, IsRandom: true}
	assert.False(t, random.CanRetake(60), "random attempts are one-shot")
}
