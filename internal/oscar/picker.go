package oscar

import "math/rand"

// Picker chooses one entry from a fixed, non-empty list of canned replies.
// Implementations must return an element of options and never synthesize text.
type Picker interface {
	Pick(options []string) string
}

// PickerFunc adapts a plain function to Picker.
type PickerFunc func(options []string) string

func (f PickerFunc) Pick(options []string) string { return f(options) }

// RandomPicker draws uniformly over list indices.
type RandomPicker struct{}

func (RandomPicker) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[rand.Intn(len(options))]
}

// FirstPicker always returns the first option. Useful when replies must be predictable.
type FirstPicker struct{}

func (FirstPicker) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[0]
}
