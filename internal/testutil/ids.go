// Package testutil holds helpers shared by package tests.
package testutil

// FixedQueryIDs returns the same query id every time, so a submitted query
// body is byte-for-byte predictable.
//
// Safe for concurrent use; it has no state.
type FixedQueryIDs struct {
	id string
}

// NewFixedQueryIDs returns a generator for id. An empty id becomes
// "test-query-default".
func NewFixedQueryIDs(id string) *FixedQueryIDs {
	if id == "" {
		id = "test-query-default"
	}
	return &FixedQueryIDs{id: id}
}

// Generate returns the fixed id. It never fails.
func (g *FixedQueryIDs) Generate() (string, error) {
	return g.id, nil
}
