// Package forms holds the add/edit dialog drafts for node and edge rows.
// A dialog never touches the store; it hands its draft to a save callback.
package forms

import (
	"processflow/domain/core/entities"
	"processflow/domain/core/valueobjects"
	pkgerrors "processflow/pkg/errors"
)

// Mode says whether a dialog creates a row or edits an existing one
type Mode string

const (
	ModeAdd  Mode = "add"
	ModeEdit Mode = "edit"
)

// ErrIncompleteEdge is returned when an edge is created without both endpoints
var ErrIncompleteEdge = pkgerrors.NewUnprocessableError("edge needs both an upstream and a downstream node").
	WithCode("INCOMPLETE_EDGE")

// NodeDialog is the draft behind the node add/edit dialog
type NodeDialog struct {
	mode  Mode
	draft entities.NodeRecord
}

// NewNodeDialog opens an empty dialog for a new node with a fresh id
func NewNodeDialog(ids valueobjects.IDGenerator) *NodeDialog {
	return &NodeDialog{mode: ModeAdd, draft: entities.NodeRecord{ID: ids.NewID()}}
}

// EditNodeDialog opens a dialog seeded from an existing row
func EditNodeDialog(rec entities.NodeRecord) *NodeDialog {
	return &NodeDialog{mode: ModeEdit, draft: rec.Clone()}
}

func (d *NodeDialog) Mode() Mode { return d.mode }

// Draft returns a copy of the current draft
func (d *NodeDialog) Draft() entities.NodeRecord { return d.draft.Clone() }

func (d *NodeDialog) SetLabel(label string) { d.draft.Label = label }

func (d *NodeDialog) SetType(t entities.NodeType) { d.draft.Type = t }

// SetStyle replaces the draft style; nil removes it
func (d *NodeDialog) SetStyle(style *entities.NodeStyle) {
	if style == nil {
		d.draft.Style = nil
		return
	}
	s := *style
	d.draft.Style = &s
}

// Apply copies the set fields of a patch into the draft
func (d *NodeDialog) Apply(patch entities.NodePatch) {
	if patch.Label != nil {
		d.SetLabel(*patch.Label)
	}
	if patch.Type != nil {
		d.SetType(*patch.Type)
	}
	if patch.ClearStyle {
		d.SetStyle(nil)
	} else if patch.Style != nil {
		d.SetStyle(patch.Style)
	}
}

// Submit hands the draft to save
func (d *NodeDialog) Submit(save func(entities.NodeRecord)) {
	save(d.draft.Clone())
}

// Option is one entry of the node picker in the edge dialog
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// EdgeDialog is the draft behind the edge add/edit dialog
type EdgeDialog struct {
	mode  Mode
	draft entities.EdgeRecord
}

// NewEdgeDialog opens an empty dialog for a new edge with a fresh id
func NewEdgeDialog(ids valueobjects.IDGenerator) *EdgeDialog {
	return &EdgeDialog{mode: ModeAdd, draft: entities.EdgeRecord{ID: ids.NewID()}}
}

// EditEdgeDialog opens a dialog seeded from an existing row
func EditEdgeDialog(rec entities.EdgeRecord) *EdgeDialog {
	return &EdgeDialog{mode: ModeEdit, draft: rec}
}

func (d *EdgeDialog) Mode() Mode { return d.mode }

func (d *EdgeDialog) Draft() entities.EdgeRecord { return d.draft }

func (d *EdgeDialog) SetUpstream(id string) { d.draft.Upstream = id }

func (d *EdgeDialog) SetDownstream(id string) { d.draft.Downstream = id }

// Apply copies the set fields of a patch into the draft
func (d *EdgeDialog) Apply(patch entities.EdgePatch) {
	d.draft = patch.Apply(d.draft)
}

// Options lists the nodes an endpoint can be picked from, in table order
func (d *EdgeDialog) Options(nodes []entities.NodeRecord) []Option {
	return NodeOptions(nodes)
}

// NodeOptions maps node rows to picker entries
func NodeOptions(nodes []entities.NodeRecord) []Option {
	out := make([]Option, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Option{Value: n.ID, Label: n.Label})
	}
	return out
}

// CanSave reports whether the save control is enabled. Only new edges
// require both endpoints.
func (d *EdgeDialog) CanSave() bool {
	return d.mode == ModeEdit || d.draft.HasEndpoints()
}

// Submit hands the draft to save, or returns ErrIncompleteEdge without
// calling it when CanSave is false.
func (d *EdgeDialog) Submit(save func(entities.EdgeRecord)) error {
	if !d.CanSave() {
		return ErrIncompleteEdge
	}
	save(d.draft)
	return nil
}
