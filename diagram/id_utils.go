package diagram

import (
	"strings"

	"github.com/google/uuid"
)

// Id prefixes per entity kind.
const (
	PrefixDiagram   = "diag"
	PrefixShape     = "shp"
	PrefixConnector = "conn"
	PrefixLayer     = "layer"
	PrefixGroup     = "grp"
)

// NewID returns a fresh identifier such as "shp_1f0c2d9a8b7e".
func NewID(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + raw[:12]
}

// ensureUniqueShapeIDs gives a fresh id to every shape whose id is empty or already taken.
// The first occurrence of an id keeps it so that connectors keep pointing at it.
func ensureUniqueShapeIDs(shapes []*Shape) {
	used := make(map[string]bool, len(shapes))
	for _, s := range shapes {
		if s.ID == "" || used[s.ID] {
			s.ID = NewID(PrefixShape)
		}
		used[s.ID] = true
	}
}

// ensureUniqueConnectorIDs does the same for connectors.
func ensureUniqueConnectorIDs(connectors []*Connector) {
	used := make(map[string]bool, len(connectors))
	for _, c := range connectors {
		if c.ID == "" || used[c.ID] {
			c.ID = NewID(PrefixConnector)
		}
		used[c.ID] = true
	}
}
