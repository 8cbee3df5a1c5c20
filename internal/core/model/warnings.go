package model

import "fmt"

// Warnings collects human-readable warnings accumulated during an import.
// It is threaded explicitly through the pipeline stages instead of being a
// shared global.
type Warnings struct {
	items []string
}

func (w *Warnings) Addf(format string, args ...interface{}) {
	w.items = append(w.items, fmt.Sprintf(format, args...))
}

func (w *Warnings) Add(msg string) {
	w.items = append(w.items, msg)
}

// List returns the accumulated warnings in insertion order, never nil.
func (w *Warnings) List() []string {
	if w.items == nil {
		return []string{}
	}
	return w.items
}

func (w *Warnings) Len() int {
	return len(w.items)
}
