// Package bind holds values shared by widgets and keyboard shortcuts,
// so every control showing a value sees the same state.
package bind

// Bool is a boolean with an optional change callback.
type Bool struct {
	value    bool
	onChange func(bool)
}

// NewBool creates a Bool. onChange may be nil.
func NewBool(value bool, onChange func(bool)) *Bool {
	return &Bool{value: value, onChange: onChange}
}

func (b *Bool) Value() bool { return b.value }

// Set stores v and calls onChange when the value changed.
func (b *Bool) Set(v bool) {
	if b.value == v {
		return
	}
	b.value = v
	if b.onChange != nil {
		b.onChange(v)
	}
}

// Toggle flips the value.
func (b *Bool) Toggle() { b.Set(!b.value) }
