package commands

import (
	"processflow/domain/core/entities"
	"processflow/pkg/utils"
)

// StyleInput is the optional node colour set
type StyleInput struct {
	Background string `json:"background" validate:"omitempty,max=64"`
	Color      string `json:"color" validate:"omitempty,max=64"`
	Border     string `json:"border" validate:"omitempty,max=64"`
}

func (s *StyleInput) toStyle() *entities.NodeStyle {
	if s == nil {
		return nil
	}
	return &entities.NodeStyle{Background: s.Background, Color: s.Color, Border: s.Border}
}

// nodeType is nil for an empty or unknown type, which leaves the row's type alone
func nodeType(s string) *entities.NodeType {
	t, err := entities.ParseNodeType(s)
	if err != nil {
		return nil
	}
	return &t
}

// AddNodeCommand adds a node row. Empty fields take the defaults.
type AddNodeCommand struct {
	Label string      `json:"label" validate:"max=200"`
	Type  string      `json:"type" validate:"omitempty,oneof=type1 type2 type3"`
	Style *StyleInput `json:"style,omitempty"`
}

func (c AddNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// Patch converts the command into a node patch
func (c AddNodeCommand) Patch() entities.NodePatch {
	patch := entities.NodePatch{Type: nodeType(c.Type), Style: c.Style.toStyle()}
	if c.Label != "" {
		label := c.Label
		patch.Label = &label
	}
	return patch
}

// UpdateNodeCommand edits a node row. Nil fields are left as they are.
type UpdateNodeCommand struct {
	NodeID     string      `json:"-" validate:"required"`
	Label      *string     `json:"label,omitempty" validate:"omitempty,min=1,max=200"`
	Type       *string     `json:"type,omitempty" validate:"omitempty,oneof=type1 type2 type3"`
	Style      *StyleInput `json:"style,omitempty"`
	ClearStyle bool        `json:"clear_style,omitempty"`
}

func (c UpdateNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// Patch converts the command into a node patch
func (c UpdateNodeCommand) Patch() entities.NodePatch {
	patch := entities.NodePatch{Label: c.Label, Style: c.Style.toStyle(), ClearStyle: c.ClearStyle}
	if c.Type != nil {
		patch.Type = nodeType(*c.Type)
	}
	return patch
}

// DeleteNodeCommand removes a node row and its edges
type DeleteNodeCommand struct {
	NodeID string `json:"-" validate:"required"`
}

func (c DeleteNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// AddEdgeCommand adds an edge row from the edge dialog. Missing endpoints are
// rejected by the dialog, not here.
type AddEdgeCommand struct {
	Upstream   string `json:"upstream"`
	Downstream string `json:"downstream"`
}

func (c AddEdgeCommand) Validate() error { return nil }

// UpdateEdgeCommand edits an edge row
type UpdateEdgeCommand struct {
	EdgeID     string  `json:"-" validate:"required"`
	Upstream   *string `json:"upstream,omitempty"`
	Downstream *string `json:"downstream,omitempty"`
}

func (c UpdateEdgeCommand) Validate() error { return utils.ValidateStruct(c) }

// Patch converts the command into an edge patch
func (c UpdateEdgeCommand) Patch() entities.EdgePatch {
	return entities.EdgePatch{Upstream: c.Upstream, Downstream: c.Downstream}
}

// DeleteEdgeCommand removes an edge row
type DeleteEdgeCommand struct {
	EdgeID string `json:"-" validate:"required"`
}

func (c DeleteEdgeCommand) Validate() error { return utils.ValidateStruct(c) }

// NodeRow is a full node row as sent by the table
type NodeRow struct {
	ID    string      `json:"id" validate:"required"`
	Label string      `json:"label"`
	Type  string      `json:"type" validate:"omitempty,oneof=type1 type2 type3"`
	Style *StyleInput `json:"style,omitempty"`
}

// EdgeRow is a full edge row as sent by the table
type EdgeRow struct {
	ID         string `json:"id" validate:"required"`
	Upstream   string `json:"upstream"`
	Downstream string `json:"downstream"`
}

// DispatchRowActionCommand is an update or delete issued from a table row
type DispatchRowActionCommand struct {
	Action string   `json:"action" validate:"required"`
	Kind   string   `json:"kind" validate:"required,oneof=node edge"`
	Node   *NodeRow `json:"node,omitempty" validate:"required_if=Kind node"`
	Edge   *EdgeRow `json:"edge,omitempty" validate:"required_if=Kind edge"`
}

func (c DispatchRowActionCommand) Validate() error { return utils.ValidateStruct(c) }

// Record returns the node or edge row the action carries
func (c DispatchRowActionCommand) Record() (*entities.NodeRecord, *entities.EdgeRecord) {
	var node *entities.NodeRecord
	var edge *entities.EdgeRecord
	if c.Node != nil {
		node = &entities.NodeRecord{ID: c.Node.ID, Label: c.Node.Label, Style: c.Node.Style.toStyle()}
		if t := nodeType(c.Node.Type); t != nil {
			node.Type = *t
		}
	}
	if c.Edge != nil {
		edge = &entities.EdgeRecord{ID: c.Edge.ID, Upstream: c.Edge.Upstream, Downstream: c.Edge.Downstream}
	}
	return node, edge
}

// ConnectNodesCommand records a link drawn on the canvas
type ConnectNodesCommand struct {
	Source string `json:"source" validate:"required"`
	Target string `json:"target" validate:"required"`
}

func (c ConnectNodesCommand) Validate() error { return utils.ValidateStruct(c) }

// MoveNodeCommand records a drag on the canvas
type MoveNodeCommand struct {
	NodeID string  `json:"-" validate:"required"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

func (c MoveNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// RemoveCanvasNodeCommand deletes a node from the canvas
type RemoveCanvasNodeCommand struct {
	NodeID string `json:"-" validate:"required"`
}

func (c RemoveCanvasNodeCommand) Validate() error { return utils.ValidateStruct(c) }

// RemoveCanvasEdgeCommand deletes an edge from the canvas
type RemoveCanvasEdgeCommand struct {
	EdgeID string `json:"-" validate:"required"`
}

func (c RemoveCanvasEdgeCommand) Validate() error { return utils.ValidateStruct(c) }

// ResetCanvasCommand forgets every drawn position
type ResetCanvasCommand struct{}

func (ResetCanvasCommand) Validate() error { return nil }
