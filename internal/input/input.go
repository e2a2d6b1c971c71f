// Package input reconciles the physical keyboard and the soft-keyboard proxy
// field into logical drill keys.
package input

import (
	"sync/atomic"

	"github.com/verte-zerg/catvocab/internal/drill"
)

// KeyPress is one physical key event.
type KeyPress struct {
	Runes     []rune
	Backspace bool
	Ctrl      bool
	Alt       bool
}

// FromKeyPress maps a physical key event to at most one logical key.
// Modifier combinations and multi-rune events yield nothing.
func FromKeyPress(kp KeyPress) []drill.Key {
	if kp.Ctrl || kp.Alt {
		return nil
	}
	if kp.Backspace {
		return []drill.Key{drill.Backspace}
	}
	if len(kp.Runes) != 1 {
		return nil
	}
	return []drill.Key{drill.RuneKey(kp.Runes[0])}
}

// Proxy tracks the value of a soft-keyboard proxy field and converts each
// change into logical keys. The host mirrors the typed prefix back into the
// field with Sync, so a deletion always shrinks the value.
type Proxy struct {
	prev []rune
}

// Update consumes the new field value. Growth forwards only the last inserted
// rune; shrinking maps to a single Backspace.
func (p *Proxy) Update(value string) []drill.Key {
	cur := []rune(value)
	prev := p.prev
	p.prev = cur
	switch {
	case len(cur) > len(prev):
		return []drill.Key{drill.RuneKey(cur[len(cur)-1])}
	case len(cur) < len(prev):
		return []drill.Key{drill.Backspace}
	default:
		return nil
	}
}

// Sync sets the baseline the next Update is compared against.
func (p *Proxy) Sync(value string) {
	p.prev = []rune(value)
}

// Gate enables or disables both channels. A closed gate drops every event.
type Gate struct {
	open  atomic.Bool
	proxy Proxy
}

// Open enables input and clears the proxy baseline.
func (g *Gate) Open() {
	g.proxy.Sync("")
	g.open.Store(true)
}

// Close disables input.
func (g *Gate) Close() {
	g.open.Store(false)
	g.proxy.Sync("")
}

// IsOpen reports whether input is enabled.
func (g *Gate) IsOpen() bool {
	return g.open.Load()
}

// Press routes a physical key event through the gate.
func (g *Gate) Press(kp KeyPress) []drill.Key {
	if !g.IsOpen() {
		return nil
	}
	return FromKeyPress(kp)
}

// ProxyChanged routes a proxy field value through the gate.
func (g *Gate) ProxyChanged(value string) []drill.Key {
	if !g.IsOpen() {
		return nil
	}
	return g.proxy.Update(value)
}

// SyncProxy mirrors the engine's typed prefix into the proxy baseline.
func (g *Gate) SyncProxy(value string) {
	g.proxy.Sync(value)
}
