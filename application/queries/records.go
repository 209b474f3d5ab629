package queries

import (
	"processflow/domain/core/entities"
	pkgerrors "processflow/pkg/errors"
)

// ListNodesQuery lists every node row, newest first
type ListNodesQuery struct{}

// Validate validates the ListNodesQuery
func (q ListNodesQuery) Validate() error { return nil }

// ListEdgesQuery lists every edge row, newest first
type ListEdgesQuery struct{}

// Validate validates the ListEdgesQuery
func (q ListEdgesQuery) Validate() error { return nil }

// GetNodeQuery fetches one node row
type GetNodeQuery struct {
	NodeID string
}

// Validate validates the GetNodeQuery
func (q GetNodeQuery) Validate() error {
	if q.NodeID == "" {
		return pkgerrors.NewValidationError("node ID is required")
	}
	return nil
}

// GetEdgeQuery fetches one edge row
type GetEdgeQuery struct {
	EdgeID string
}

// Validate validates the GetEdgeQuery
func (q GetEdgeQuery) Validate() error {
	if q.EdgeID == "" {
		return pkgerrors.NewValidationError("edge ID is required")
	}
	return nil
}

// GetNodeOptionsQuery lists the nodes an edge dialog can pick from
type GetNodeOptionsQuery struct{}

// Validate validates the GetNodeOptionsQuery
func (q GetNodeOptionsQuery) Validate() error { return nil }

// GetCanvasQuery returns the current canvas projection
type GetCanvasQuery struct{}

// Validate validates the GetCanvasQuery
func (q GetCanvasQuery) Validate() error { return nil }

// GetDashboardQuery returns the chart payloads
type GetDashboardQuery struct{}

// Validate validates the GetDashboardQuery
func (q GetDashboardQuery) Validate() error { return nil }

// NodeRow is a node record with its table state
type NodeRow struct {
	entities.NodeRecord
	State entities.RecordState `json:"state"`
}

// EdgeRow is an edge record with its table state
type EdgeRow struct {
	entities.EdgeRecord
	State entities.RecordState `json:"state"`
}

// ListNodesResult is the node table
type ListNodesResult struct {
	Nodes []NodeRow `json:"nodes"`
	Count int       `json:"count"`
}

// ListEdgesResult is the edge table
type ListEdgesResult struct {
	Edges []EdgeRow `json:"edges"`
	Count int       `json:"count"`
}
