// Package progress holds the derived-state rules of the tracker: day colors,
// focus streaks and the task tree walk used by the completion cascade.
// Nothing here touches the store.
package progress
