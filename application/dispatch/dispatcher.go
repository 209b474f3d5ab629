// Package dispatch applies row actions coming from the node and edge tables.
//
// Transitions are expressed as a pure reducer over record snapshots; the
// Dispatcher commits the reducer output to the record store and keeps the
// canvas session in step.
package dispatch

import (
	"fmt"

	"processflow/application/canvas"
	"processflow/application/store"
	"processflow/domain/core/entities"
	pkgerrors "processflow/pkg/errors"
)

// ActionType is a row action from the table
type ActionType string

const (
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
)

// ErrUnknownAction is returned for any action type other than update or delete
var ErrUnknownAction = pkgerrors.NewValidationError("unknown row action").WithCode("UNKNOWN_ACTION")

// Action is one row intent. Exactly one of Node or Edge is set, matching Kind.
type Action struct {
	Type ActionType
	Kind entities.RecordKind
	Node *entities.NodeRecord
	Edge *entities.EdgeRecord
}

// UpdateNode builds an update action for a node row
func UpdateNode(n entities.NodeRecord) Action {
	return Action{Type: ActionUpdate, Kind: entities.KindNode, Node: &n}
}

// DeleteNode builds a delete action for a node row
func DeleteNode(id string) Action {
	return Action{Type: ActionDelete, Kind: entities.KindNode, Node: &entities.NodeRecord{ID: id}}
}

// UpdateEdge builds an update action for an edge row
func UpdateEdge(e entities.EdgeRecord) Action {
	return Action{Type: ActionUpdate, Kind: entities.KindEdge, Edge: &e}
}

// DeleteEdge builds a delete action for an edge row
func DeleteEdge(id string) Action {
	return Action{Type: ActionDelete, Kind: entities.KindEdge, Edge: &entities.EdgeRecord{ID: id}}
}

// ID returns the id of the row the action targets
func (a Action) ID() string {
	switch {
	case a.Kind == entities.KindNode && a.Node != nil:
		return a.Node.ID
	case a.Kind == entities.KindEdge && a.Edge != nil:
		return a.Edge.ID
	}
	return ""
}

func (a Action) validate() error {
	if a.Type != ActionUpdate && a.Type != ActionDelete {
		return ErrUnknownAction
	}
	switch a.Kind {
	case entities.KindNode:
		if a.Node == nil {
			return pkgerrors.NewValidationError("node action without a node record")
		}
	case entities.KindEdge:
		if a.Edge == nil {
			return pkgerrors.NewValidationError("edge action without an edge record")
		}
	default:
		return pkgerrors.NewValidationError(fmt.Sprintf("unknown record kind %q", a.Kind))
	}
	if a.ID() == "" {
		return pkgerrors.NewValidationError("record id is required")
	}
	return nil
}

// State is a snapshot of the table rows
type State struct {
	Nodes []entities.NodeRecord
	Edges []entities.EdgeRecord
}

// Outcome describes what an action did
// Applied is false when the target row does not exist. CascadedEdges lists
// the edges removed along with a deleted node.
type Outcome struct {
	Action        ActionType           `json:"action"`
	Kind          entities.RecordKind  `json:"kind"`
	ID            string               `json:"id"`
	Applied       bool                 `json:"applied"`
	CascadedEdges []string             `json:"cascaded_edges,omitempty"`
	Node          *entities.NodeRecord `json:"node,omitempty"`
	Edge          *entities.EdgeRecord `json:"edge,omitempty"`
}

// Reduce applies an action to a snapshot and returns the next snapshot.
// The input is not modified.
func Reduce(state State, action Action) (State, Outcome, error) {
	if err := action.validate(); err != nil {
		return state, Outcome{}, err
	}

	scratch := store.New(nil)
	scratch.Seed(state.Nodes, state.Edges)
	outcome := apply(scratch, action)

	nodes, edges := scratch.Snapshot()
	return State{Nodes: nodes, Edges: edges}, outcome, nil
}

func apply(records *store.RecordStore, action Action) Outcome {
	out := Outcome{Action: action.Type, Kind: action.Kind, ID: action.ID()}

	switch action.Kind {
	case entities.KindNode:
		if action.Type == ActionDelete {
			out.CascadedEdges, out.Applied = records.DeleteNode(out.ID)
			return out
		}
		if n, ok := records.UpdateNode(out.ID, entities.PatchFromNode(*action.Node)); ok {
			out.Applied, out.Node = true, &n
		}
	case entities.KindEdge:
		if action.Type == ActionDelete {
			out.Applied = records.DeleteEdge(out.ID)
			return out
		}
		if e, ok := records.UpdateEdge(out.ID, entities.PatchFromEdge(*action.Edge)); ok {
			out.Applied, out.Edge = true, &e
		}
	}
	return out
}

type rowKey struct {
	kind entities.RecordKind
	id   string
}

// Dispatcher is the single entry point for table row actions
type Dispatcher struct {
	records *store.RecordStore
	canvas  *canvas.Session
	states  map[rowKey]entities.RecordState
}

// New creates a dispatcher over the store and its canvas session
func New(records *store.RecordStore, session *canvas.Session) *Dispatcher {
	return &Dispatcher{
		records: records,
		canvas:  session,
		states:  make(map[rowKey]entities.RecordState),
	}
}

// Dispatch applies a row action to the store and the canvas. Actions on
// unknown rows are no-ops reported with Applied=false.
func (d *Dispatcher) Dispatch(action Action) (Outcome, error) {
	nodes, edges := d.records.Snapshot()
	next, outcome, err := Reduce(State{Nodes: nodes, Edges: edges}, action)
	if err != nil {
		return Outcome{}, err
	}
	if !outcome.Applied {
		return outcome, nil
	}

	d.records.Seed(next.Nodes, next.Edges)

	key := rowKey{kind: action.Kind, id: outcome.ID}
	switch action.Type {
	case ActionDelete:
		d.states[key] = entities.StateDeleted
		if action.Kind == entities.KindNode {
			d.canvas.Forget(outcome.ID)
			for _, id := range outcome.CascadedEdges {
				d.states[rowKey{kind: entities.KindEdge, id: id}] = entities.StateDeleted
			}
		}
	case ActionUpdate:
		delete(d.states, key)
	}
	return outcome, nil
}

// BeginEdit marks a row as being edited in a dialog
func (d *Dispatcher) BeginEdit(kind entities.RecordKind, id string) bool {
	if !d.exists(kind, id) {
		return false
	}
	d.states[rowKey{kind: kind, id: id}] = entities.StateEditing
	return true
}

// CancelEdit returns an edited row to the listed state without changes
func (d *Dispatcher) CancelEdit(kind entities.RecordKind, id string) {
	key := rowKey{kind: kind, id: id}
	if d.states[key] == entities.StateEditing {
		delete(d.states, key)
	}
}

// StateOf reports where a row is in its lifecycle. Unknown rows report "".
func (d *Dispatcher) StateOf(kind entities.RecordKind, id string) entities.RecordState {
	if s, ok := d.states[rowKey{kind: kind, id: id}]; ok {
		return s
	}
	if d.exists(kind, id) {
		return entities.StateListed
	}
	return ""
}

func (d *Dispatcher) exists(kind entities.RecordKind, id string) bool {
	if s, ok := d.states[rowKey{kind: kind, id: id}]; ok && s == entities.StateDeleted {
		return false
	}
	switch kind {
	case entities.KindNode:
		_, ok := d.records.Node(id)
		return ok
	case entities.KindEdge:
		_, ok := d.records.Edge(id)
		return ok
	}
	return false
}
