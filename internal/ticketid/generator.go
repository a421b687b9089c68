// Package ticketid assigns sequential, human-readable ticket identifiers.
package ticketid

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// DefaultPrefix is used when no prefix is configured.
const DefaultPrefix = "TKT"

// Generator hands out display ids such as "TKT-0001". The counter starts at
// 1, never repeats, and widens past four digits instead of truncating.
// It is safe for concurrent use.
type Generator struct {
	prefix string
	last   atomic.Int64
}

// NewGenerator returns a generator whose first id is numbered 1.
func NewGenerator(prefix string) *Generator {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Generator{prefix: prefix}
}

// Next returns the next display id.
func (g *Generator) Next() string {
	return g.Format(g.last.Add(1))
}

// Format renders n with the generator's prefix, zero-padded to four digits.
func (g *Generator) Format(n int64) string {
	return fmt.Sprintf("%s-%04d", g.prefix, n)
}

// Observe makes sure later ids are numbered after displayID. Ids with a
// foreign prefix or no numeric suffix are ignored.
func (g *Generator) Observe(displayID string) {
	n, ok := g.parse(displayID)
	if !ok {
		return
	}
	for {
		current := g.last.Load()
		if current >= n || g.last.CompareAndSwap(current, n) {
			return
		}
	}
}

// Last returns the most recently assigned number (0 before the first id).
func (g *Generator) Last() int64 {
	return g.last.Load()
}

func (g *Generator) parse(displayID string) (int64, bool) {
	digits, ok := strings.CutPrefix(displayID, g.prefix+"-")
	if !ok || digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
