package types

import "errors"

// EntityKind identifies the kind of entity at either end of a
// relationship edge.
type EntityKind string

const (
	EntityFile   EntityKind = "file"
	EntitySymbol EntityKind = "symbol"
	EntityModule EntityKind = "module"
)

// RelationType is the typed label on a relationship edge. Edges are used
// only for graph traversal and context expansion, never for ranking.
type RelationType string

const (
	RelImports    RelationType = "imports"
	RelExports    RelationType = "exports"
	RelCalls      RelationType = "calls"
	RelExtends    RelationType = "extends"
	RelImplements RelationType = "implements"
	RelUses       RelationType = "uses"
	RelDefines    RelationType = "defines"
	RelContains   RelationType = "contains"
	RelReferences RelationType = "references"
	RelDependsOn  RelationType = "depends_on"
)

// EntityRef identifies one end of a relationship edge
type EntityRef struct {
	Kind EntityKind
	ID   string
}

// Relationship is a typed directed edge between two entities
type Relationship struct {
	From EntityRef
	To   EntityRef
	Type RelationType
}

// Validate checks the relationship edge for structural validity
func (r *Relationship) Validate() error {
	if r.From.ID == "" || r.To.ID == "" {
		return errors.New("relationship endpoints require IDs")
	}

	switch r.From.Kind {
	case EntityFile, EntitySymbol, EntityModule:
	default:
		return errors.New("invalid from-entity kind")
	}

	switch r.To.Kind {
	case EntityFile, EntitySymbol, EntityModule:
	default:
		return errors.New("invalid to-entity kind")
	}

	switch r.Type {
	case RelImports, RelExports, RelCalls, RelExtends, RelImplements,
		RelUses, RelDefines, RelContains, RelReferences, RelDependsOn:
		return nil
	default:
		return errors.New("invalid relationship type")
	}
}
