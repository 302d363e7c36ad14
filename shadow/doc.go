// Package shadow models immutable, persistent shadow trees: the per-commit
// snapshots of a surface's rendered component instances, which are diffed to
// drive a mounting layer (see the mounting package).
//
// # Identity
//
// Each [Node] belongs to a [Family], a small comparable value that is stable
// across every clone of the "same" logical node, across commits. Families are
// what make incremental diffing possible: two nodes of the same family are the
// same view, even if their props, state, layout or children differ.
//
// # Persistence
//
// Nodes are built, sealed, then only ever cloned. A clone reuses every field
// and child it does not override by reference, and [Node.CloneTree] performs
// path-copying from a descendant up to the root, meaning unchanged subtrees are
// shared between generations (and are pointer-identical, which the
// differentiator uses as a fast path).
//
// # Components
//
// Component kinds are registered with a [Registry], an explicitly constructed
// context object, which hands out [ComponentDescriptor] values used to create
// families and nodes.
package shadow
