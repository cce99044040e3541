package progress

import "focus-tracker/internal/model"

// Classify maps a day's completion counts to its color.
// A day without tasks is red; exactly half done is already light green.
func Classify(completed, total int) model.Color {
	if total == 0 {
		return model.ColorRed
	}

	ratio := float64(completed) / float64(total)
	switch {
	case ratio == 0:
		return model.ColorRed
	case ratio < 0.5:
		return model.ColorYellow
	case ratio < 1:
		return model.ColorLightGreen
	default:
		return model.ColorDeepGreen
	}
}
