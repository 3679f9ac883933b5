package testutil

// FixedRunIDGenerator returns the same run ID every time.
//
// Thread-safety: stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator returns a generator for id.
// An empty id becomes "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate implements sweep.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
