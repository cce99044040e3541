package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStreaksEmpty(t *testing.T) {
	current, longest := ComputeStreaks(nil, IsConsecutiveDay)
	assert.Equal(t, 0, current)
	assert.Equal(t, 0, longest)
}

func TestComputeStreaksSingleDate(t *testing.T) {
	current, longest := ComputeStreaks([]string{"2024-01-03"}, IsConsecutiveDay)
	assert.Equal(t, 1, current)
	assert.Equal(t, 1, longest)
}

func TestComputeStreaksTwoDistinctDates(t *testing.T) {
	current, longest := ComputeStreaks([]string{"2024-01-03", "2024-01-02"}, nil)
	assert.Equal(t, 2, current)
	assert.Equal(t, 2, longest)
}

func TestComputeStreaksDistinctRuleCountsGaps(t *testing.T) {
	// Any two distinct dates are adjacent under the default rule.
	dates := []string{"2024-03-01", "2024-02-10", "2024-01-01", "2023-12-25"}
	current, longest := ComputeStreaks(dates, IsConsecutiveDay)
	assert.Equal(t, 2, current)
	assert.Equal(t, 4, longest)
}

func TestComputeStreaksCurrentOnlyLooksAtSecondDate(t *testing.T) {
	dates := []string{"2024-01-10", "2024-01-09", "2024-01-08", "2024-01-07"}
	current, longest := ComputeStreaks(dates, IsCalendarConsecutive)
	assert.Equal(t, 2, current)
	assert.Equal(t, 4, longest)
}

func TestComputeStreaksCalendarBreaks(t *testing.T) {
	dates := []string{"2024-01-10", "2024-01-05", "2024-01-04", "2024-01-03", "2023-12-01"}
	current, longest := ComputeStreaks(dates, IsCalendarConsecutive)
	assert.Equal(t, 0, current)
	assert.Equal(t, 3, longest)
}

func TestComputeStreaksLongestNeverBelowCurrent(t *testing.T) {
	inputs := [][]string{
		{"2024-01-02", "2024-01-01"},
		{"2024-01-05", "2024-01-01"},
		{"2024-01-05", "2024-01-04", "2024-01-01"},
	}
	for _, dates := range inputs {
		current, longest := ComputeStreaks(dates, IsCalendarConsecutive)
		assert.GreaterOrEqual(t, longest, current, "%v", dates)
		assert.GreaterOrEqual(t, current, 0)
	}
}

func TestIsCalendarConsecutive(t *testing.T) {
	assert.True(t, IsCalendarConsecutive("2024-03-01", "2024-02-29"))
	assert.True(t, IsCalendarConsecutive("2024-01-01", "2023-12-31"))
	assert.False(t, IsCalendarConsecutive("2024-01-03", "2024-01-01"))
	assert.False(t, IsCalendarConsecutive("2024-01-01", "2024-01-02"))
	assert.False(t, IsCalendarConsecutive("yesterday", "2024-01-02"))
}

func TestIsConsecutiveDay(t *testing.T) {
	assert.True(t, IsConsecutiveDay("2024-01-03", "2023-01-01"))
	assert.False(t, IsConsecutiveDay("2024-01-03", "2024-01-03"))
}
