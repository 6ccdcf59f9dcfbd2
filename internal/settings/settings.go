// Package settings holds runtime-togglable site settings. Config supplies
// the boot value; admins can flip the flag without a restart.
package settings

import "sync/atomic"

// Docs controls whether documentation category maintenance is active.
type Docs struct {
	enabled atomic.Bool
}

func NewDocs(enabled bool) *Docs {
	d := &Docs{}
	d.enabled.Store(enabled)
	return d
}

// Enabled reports whether doc category maintenance is active.
func (d *Docs) Enabled() bool {
	return d.enabled.Load()
}

// SetEnabled flips the flag and reports whether the value changed.
func (d *Docs) SetEnabled(v bool) bool {
	return d.enabled.Swap(v) != v
}
