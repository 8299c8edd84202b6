package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-growth/internal/config"
)

// NumericalEntry is an Entry that accepts at most MaxDigits digits, typed or
// pasted.
type NumericalEntry struct {
	widget.Entry

	// MaxDigits caps the input length. Zero means no cap.
	MaxDigits int
}

// NewNumericalEntry creates a NumericalEntry capped at config.MaxNumericDigits.
func NewNumericalEntry() *NumericalEntry {
	entry := &NumericalEntry{MaxDigits: config.MaxNumericDigits}
	entry.ExtendBaseWidget(entry)
	return entry
}

// TypedRune drops anything but digits, and digits past the cap.
func (e *NumericalEntry) TypedRune(r rune) {
	if r < '0' || r > '9' {
		return
	}
	if e.MaxDigits > 0 && len([]rune(e.Text)) >= e.MaxDigits {
		return
	}
	e.Entry.TypedRune(r)
}

// TypedShortcut filters pasted text through TypedRune.
func (e *NumericalEntry) TypedShortcut(s fyne.Shortcut) {
	paste, ok := s.(*fyne.ShortcutPaste)
	if !ok || paste.Clipboard == nil {
		e.Entry.TypedShortcut(s)
		return
	}
	for _, r := range paste.Clipboard.Content() {
		e.TypedRune(r)
	}
}

// Keyboard shows the numeric keypad on mobile.
func (e *NumericalEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}
