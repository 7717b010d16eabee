package testutil

// FixedBuildIDGenerator returns the same build id every time.
//
// Inventories carry a fresh UUIDv7 per build, which makes exported records
// differ between runs. Tests and golden traces inject this generator so the
// same scenario produces byte-identical output.
//
// Thread-safety: FixedBuildIDGenerator is stateless and safe for concurrent use.
type FixedBuildIDGenerator struct {
	id string
}

// NewFixedBuildIDGenerator creates a fixed build id generator.
//
// If id is empty, Generate() returns "test-build-default".
func NewFixedBuildIDGenerator(id string) *FixedBuildIDGenerator {
	if id == "" {
		id = "test-build-default"
	}
	return &FixedBuildIDGenerator{id: id}
}

// Generate returns the fixed build id.
func (g *FixedBuildIDGenerator) Generate() string {
	return g.id
}
