// Package gate suppresses re-processing of an image payload that was just handled.
package gate

// Gate remembers the single most recent payload identifier. It does not keep
// history: an identifier seen two submissions ago passes again.
type Gate struct {
	lastSeen string
	seen     bool
}

// New returns an empty Gate.
func New() *Gate {
	return &Gate{}
}

// ShouldProcess reports whether payloadID differs from the last one marked.
func (g *Gate) ShouldProcess(payloadID string) bool {
	return !g.seen || g.lastSeen != payloadID
}

// MarkSeen records payloadID as handled, whether or not a tag was found.
func (g *Gate) MarkSeen(payloadID string) {
	g.lastSeen = payloadID
	g.seen = true
}

// LastSeen returns the last marked identifier.
func (g *Gate) LastSeen() (string, bool) {
	return g.lastSeen, g.seen
}

// Reset forgets the last marked identifier.
func (g *Gate) Reset() {
	g.lastSeen = ""
	g.seen = false
}
