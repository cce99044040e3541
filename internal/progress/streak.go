package progress

// ComputeStreaks walks activity dates ordered from most recent to oldest
// (distinct) and returns the current and longest streak.
//
// The current streak only looks at the two most recent dates: it is 1 for a
// single date, 2 when the second date is adjacent to the first and 0 when it
// is not. The longest streak is the longest adjacent run anywhere in the
// sequence and is never below the current one.
func ComputeStreaks(dates []string, adjacent AdjacencyFunc) (current, longest int) {
	if len(dates) == 0 {
		return 0, 0
	}
	if adjacent == nil {
		adjacent = IsConsecutiveDay
	}

	run := 1
	for i := range dates {
		if i == 0 {
			current = 1
			continue
		}
		if adjacent(dates[i-1], dates[i]) {
			run++
			if i == 1 {
				current++
			}
			continue
		}
		if i == 1 {
			current = 0
		}
		longest = max(longest, run)
		run = 1
	}

	longest = max(longest, run, current)
	return current, longest
}
