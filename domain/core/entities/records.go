package entities

import "fmt"

// NodeType is the equipment category shown in the node table
type NodeType string

const (
	NodeType1 NodeType = "type1"
	NodeType2 NodeType = "type2"
	NodeType3 NodeType = "type3"
)

// NodeTypes lists the valid node types in display order
var NodeTypes = []NodeType{NodeType1, NodeType2, NodeType3}

// IsValid reports whether t is one of the known node types
func (t NodeType) IsValid() bool {
	for _, known := range NodeTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseNodeType converts a string into a NodeType
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown node type %q", s)
	}
	return t, nil
}

const (
	DefaultNodeLabel = "New Node"
	DefaultNodeType  = NodeType1
)

// NodeStyle carries the optional display colours of a node
type NodeStyle struct {
	Background string `json:"background"`
	Color      string `json:"color"`
	Border     string `json:"border"`
}

// NodeRecord is the canonical row for a piece of equipment
type NodeRecord struct {
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Type  NodeType   `json:"type"`
	Style *NodeStyle `json:"style,omitempty"`
}

// Clone returns a deep copy of the record
func (n NodeRecord) Clone() NodeRecord {
	if n.Style != nil {
		style := *n.Style
		n.Style = &style
	}
	return n
}

// WithDefaults fills an empty label or type
func (n NodeRecord) WithDefaults() NodeRecord {
	if n.Label == "" {
		n.Label = DefaultNodeLabel
	}
	if n.Type == "" {
		n.Type = DefaultNodeType
	}
	return n
}

// NodePatch is a partial update of a NodeRecord; nil fields are left alone
type NodePatch struct {
	Label *string
	Type  *NodeType
	Style *NodeStyle
	// ClearStyle removes the style entirely
	ClearStyle bool
}

// Apply returns n with the patch applied
func (p NodePatch) Apply(n NodeRecord) NodeRecord {
	n = n.Clone()
	if p.Label != nil {
		n.Label = *p.Label
	}
	if p.Type != nil {
		n.Type = *p.Type
	}
	if p.ClearStyle {
		n.Style = nil
	} else if p.Style != nil {
		style := *p.Style
		n.Style = &style
	}
	return n
}

// PatchFromNode builds a patch that turns any record with the same id into n.
// An empty type keeps the type already on the row.
func PatchFromNode(n NodeRecord) NodePatch {
	label := n.Label
	patch := NodePatch{Label: &label}
	if n.Type != "" {
		typ := n.Type
		patch.Type = &typ
	}
	if n.Style == nil {
		patch.ClearStyle = true
	} else {
		style := *n.Style
		patch.Style = &style
	}
	return patch
}

// EdgeRecord is the canonical row for a flow relationship
type EdgeRecord struct {
	ID         string `json:"id"`
	Upstream   string `json:"upstream"`
	Downstream string `json:"downstream"`
}

// References reports whether the edge touches the given node
func (e EdgeRecord) References(nodeID string) bool {
	return e.Upstream == nodeID || e.Downstream == nodeID
}

// HasEndpoints reports whether both endpoints are set
func (e EdgeRecord) HasEndpoints() bool {
	return e.Upstream != "" && e.Downstream != ""
}

// EdgePatch is a partial update of an EdgeRecord
type EdgePatch struct {
	Upstream   *string
	Downstream *string
}

// Apply returns e with the patch applied
func (p EdgePatch) Apply(e EdgeRecord) EdgeRecord {
	if p.Upstream != nil {
		e.Upstream = *p.Upstream
	}
	if p.Downstream != nil {
		e.Downstream = *p.Downstream
	}
	return e
}

// PatchFromEdge builds a patch that turns any record with the same id into e
func PatchFromEdge(e EdgeRecord) EdgePatch {
	up, down := e.Upstream, e.Downstream
	return EdgePatch{Upstream: &up, Downstream: &down}
}

// RecordKind distinguishes node rows from edge rows
type RecordKind string

const (
	KindNode RecordKind = "node"
	KindEdge RecordKind = "edge"
)

// RecordState is where a row is in its edit lifecycle
type RecordState string

const (
	StateListed  RecordState = "listed"
	StateEditing RecordState = "editing"
	StateDeleted RecordState = "deleted"
)
