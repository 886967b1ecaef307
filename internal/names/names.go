// Package names supplies human-readable display names for anonymous
// authors.
package names

import (
	"time"

	"github.com/goombaio/namegenerator"
)

// Fallback used when the underlying generator yields nothing.
const Fallback = "anonymous"

// Supplier produces display names. It is invoked at most once per
// distinct author id ever seen; implementations don't need to be safe
// for concurrent use since the single store writer is the only caller.
type Supplier interface {
	NextName() string
}

// Generator supplies random adjective-noun names.
type Generator struct {
	gen namegenerator.Generator
}

// NewGenerator seeds a generator from the current time.
func NewGenerator() *Generator {
	return &Generator{
		gen: namegenerator.NewNameGenerator(time.Now().UTC().UnixNano()),
	}
}

// NextName returns a fresh adjective-noun name.
func (g *Generator) NextName() string {
	name := g.gen.Generate()
	if name == "" {
		return Fallback
	}
	return name
}

// Static yields names from a fixed list, then the fallback. Useful for
// deterministic tests.
type Static struct {
	Names []string
	next  int
}

// NextName returns the next fixed name, or the fallback once the list
// is exhausted.
func (s *Static) NextName() string {
	if s.next >= len(s.Names) {
		return Fallback
	}
	name := s.Names[s.next]
	s.next++
	return name
}
