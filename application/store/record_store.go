// Package store holds the canonical node and edge rows of the flow graph.
//
// The store is the single source of truth: canvas views are projections of
// it and never write back, except through the structural operations below.
// Operations on unknown ids are no-ops, not errors.
package store

import (
	"processflow/domain/core/entities"
	"processflow/domain/core/valueobjects"
)

// RecordStore owns the lifetime of NodeRecords and EdgeRecords.
// It is not safe for concurrent use; callers serialise access.
type RecordStore struct {
	ids   valueobjects.IDGenerator
	nodes []entities.NodeRecord
	edges []entities.EdgeRecord
}

// New creates an empty store
func New(ids valueobjects.IDGenerator) *RecordStore {
	if ids == nil {
		ids = valueobjects.UUIDGenerator{}
	}
	return &RecordStore{ids: ids}
}

// Seed replaces the store contents, keeping the supplied ids
func (s *RecordStore) Seed(nodes []entities.NodeRecord, edges []entities.EdgeRecord) {
	s.nodes = make([]entities.NodeRecord, 0, len(nodes))
	for _, n := range nodes {
		s.nodes = append(s.nodes, n.Clone())
	}
	s.edges = append([]entities.EdgeRecord(nil), edges...)
}

// Nodes returns a copy of all node rows, newest first
func (s *RecordStore) Nodes() []entities.NodeRecord {
	out := make([]entities.NodeRecord, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Edges returns a copy of all edge rows, newest first
func (s *RecordStore) Edges() []entities.EdgeRecord {
	return append([]entities.EdgeRecord{}, s.edges...)
}

// Node looks up a node row by id
func (s *RecordStore) Node(id string) (entities.NodeRecord, bool) {
	if i := s.nodeIndex(id); i >= 0 {
		return s.nodes[i].Clone(), true
	}
	return entities.NodeRecord{}, false
}

// Edge looks up an edge row by id
func (s *RecordStore) Edge(id string) (entities.EdgeRecord, bool) {
	if i := s.edgeIndex(id); i >= 0 {
		return s.edges[i], true
	}
	return entities.EdgeRecord{}, false
}

// AddNode stores a new node row and returns it with its assigned id.
// A draft id is kept only if it is non-empty and unused.
func (s *RecordStore) AddNode(draft entities.NodeRecord) entities.NodeRecord {
	n := draft.Clone().WithDefaults()
	if n.ID == "" || s.nodeIndex(n.ID) >= 0 {
		n.ID = s.freshNodeID()
	}
	s.nodes = append([]entities.NodeRecord{n}, s.nodes...)
	return n.Clone()
}

// UpdateNode applies patch to the node with the given id.
// It reports whether a row was changed.
func (s *RecordStore) UpdateNode(id string, patch entities.NodePatch) (entities.NodeRecord, bool) {
	i := s.nodeIndex(id)
	if i < 0 {
		return entities.NodeRecord{}, false
	}
	s.nodes[i] = patch.Apply(s.nodes[i])
	return s.nodes[i].Clone(), true
}

// DeleteNode removes the node and every edge that references it.
// It returns the ids of the removed edges and whether the node existed.
func (s *RecordStore) DeleteNode(id string) ([]string, bool) {
	i := s.nodeIndex(id)
	if i < 0 {
		return nil, false
	}
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)

	var removed []string
	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.References(id) {
			removed = append(removed, e.ID)
			continue
		}
		kept = append(kept, e)
	}
	s.edges = kept
	return removed, true
}

// AddEdge stores a new edge row. Endpoints are not checked here: an edge
// whose endpoints do not resolve is kept and hidden by the projection.
func (s *RecordStore) AddEdge(draft entities.EdgeRecord) entities.EdgeRecord {
	e := draft
	if e.ID == "" || s.edgeIndex(e.ID) >= 0 {
		e.ID = s.freshEdgeID()
	}
	s.edges = append([]entities.EdgeRecord{e}, s.edges...)
	return e
}

// UpdateEdge applies patch to the edge with the given id
func (s *RecordStore) UpdateEdge(id string, patch entities.EdgePatch) (entities.EdgeRecord, bool) {
	i := s.edgeIndex(id)
	if i < 0 {
		return entities.EdgeRecord{}, false
	}
	s.edges[i] = patch.Apply(s.edges[i])
	return s.edges[i], true
}

// DeleteEdge removes the edge with the given id
func (s *RecordStore) DeleteEdge(id string) bool {
	i := s.edgeIndex(id)
	if i < 0 {
		return false
	}
	s.edges = append(s.edges[:i], s.edges[i+1:]...)
	return true
}

// Snapshot returns copies of both row lists
func (s *RecordStore) Snapshot() ([]entities.NodeRecord, []entities.EdgeRecord) {
	return s.Nodes(), s.Edges()
}

func (s *RecordStore) nodeIndex(id string) int {
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *RecordStore) edgeIndex(id string) int {
	for i := range s.edges {
		if s.edges[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *RecordStore) freshNodeID() string {
	for {
		if id := s.ids.NewID(); s.nodeIndex(id) < 0 {
			return id
		}
	}
}

func (s *RecordStore) freshEdgeID() string {
	for {
		if id := s.ids.NewID(); s.edgeIndex(id) < 0 {
			return id
		}
	}
}
