// Package canvas reconciles gestures made on the graph canvas with the
// record store. Positions belong to the canvas session only.
package canvas

import (
	"processflow/application/projection"
	"processflow/application/store"
	"processflow/domain/core/entities"
	"processflow/domain/core/valueobjects"
)

// Session is one canvas attached to a record store
type Session struct {
	records    *store.RecordStore
	positions  projection.Positions
	positioner valueobjects.Positioner
}

// NewSession creates a canvas session over records
func NewSession(records *store.RecordStore, positioner valueobjects.Positioner) *Session {
	if positioner == nil {
		positioner = &valueobjects.RandomBox{Width: projection.DefaultBox, Height: projection.DefaultBox}
	}
	return &Session{
		records:    records,
		positions:  projection.Positions{},
		positioner: positioner,
	}
}

// View projects the current records, placing nodes the session has not seen yet
func (s *Session) View() projection.View {
	nodes, edges := s.records.Snapshot()
	return projection.Project(nodes, edges, s.positions, s.positioner)
}

// Connect records a link drawn from source to target and returns the new
// row and its canvas edge. visible is false when an endpoint does not resolve.
func (s *Session) Connect(source, target string) (edge entities.EdgeRecord, canvasEdge projection.CanvasEdge, visible bool) {
	edge = s.records.AddEdge(entities.EdgeRecord{Upstream: source, Downstream: target})
	_, srcOK := s.records.Node(source)
	_, dstOK := s.records.Node(target)
	return edge, projection.ProjectEdge(edge), srcOK && dstOK
}

// RemoveNode deletes a node from the canvas, cascading to its edges
func (s *Session) RemoveNode(id string) ([]string, bool) {
	removed, ok := s.records.DeleteNode(id)
	if ok {
		delete(s.positions, id)
	}
	return removed, ok
}

// RemoveEdge deletes an edge from the canvas
func (s *Session) RemoveEdge(id string) bool {
	return s.records.DeleteEdge(id)
}

// Move records a drag. It touches the session only and reports whether the
// node exists.
func (s *Session) Move(id string, pos valueobjects.Position) bool {
	if _, ok := s.records.Node(id); !ok {
		return false
	}
	s.positions[id] = pos
	return true
}

// Position returns where a node is drawn, if it has been placed
func (s *Session) Position(id string) (valueobjects.Position, bool) {
	pos, ok := s.positions[id]
	return pos, ok
}

// Forget drops the stored position of a node
func (s *Session) Forget(id string) {
	delete(s.positions, id)
}

// Reset starts a fresh session: every node is placed again on the next view
func (s *Session) Reset() {
	s.positions = projection.Positions{}
}
