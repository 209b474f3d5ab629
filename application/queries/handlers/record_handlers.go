package handlers

import (
	"context"

	"processflow/application/analytics"
	"processflow/application/queries"
	"processflow/application/queries/bus"
	"processflow/application/services"
	"processflow/domain/core/entities"
)

// ReadHandlers answers the table, canvas and dashboard queries
type ReadHandlers struct {
	workspace *services.Workspace
	dashboard *analytics.Dashboard
}

// NewReadHandlers creates the query handlers. dashboard may be nil when the
// analytics API is not configured.
func NewReadHandlers(workspace *services.Workspace, dashboard *analytics.Dashboard) *ReadHandlers {
	return &ReadHandlers{workspace: workspace, dashboard: dashboard}
}

// Register binds every query to the bus
func (h *ReadHandlers) Register(b *bus.QueryBus) error {
	registrations := []struct {
		query   bus.Query
		handler bus.QueryHandlerFunc
	}{
		{queries.ListNodesQuery{}, h.listNodes},
		{queries.ListEdgesQuery{}, h.listEdges},
		{queries.GetNodeQuery{}, h.getNode},
		{queries.GetEdgeQuery{}, h.getEdge},
		{queries.GetNodeOptionsQuery{}, h.nodeOptions},
		{queries.GetCanvasQuery{}, h.canvas},
		{queries.GetDashboardQuery{}, h.dashboardView},
	}
	for _, r := range registrations {
		if err := b.Register(r.query, r.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *ReadHandlers) listNodes(_ context.Context, _ bus.Query) (interface{}, error) {
	nodes := h.workspace.Nodes()
	rows := make([]queries.NodeRow, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, queries.NodeRow{NodeRecord: n, State: h.workspace.RecordState(entities.KindNode, n.ID)})
	}
	return queries.ListNodesResult{Nodes: rows, Count: len(rows)}, nil
}

func (h *ReadHandlers) listEdges(_ context.Context, _ bus.Query) (interface{}, error) {
	edges := h.workspace.Edges()
	rows := make([]queries.EdgeRow, 0, len(edges))
	for _, e := range edges {
		rows = append(rows, queries.EdgeRow{EdgeRecord: e, State: h.workspace.RecordState(entities.KindEdge, e.ID)})
	}
	return queries.ListEdgesResult{Edges: rows, Count: len(rows)}, nil
}

func (h *ReadHandlers) getNode(_ context.Context, q bus.Query) (interface{}, error) {
	query := q.(queries.GetNodeQuery)
	n, err := h.workspace.Node(query.NodeID)
	if err != nil {
		return nil, err
	}
	return queries.NodeRow{NodeRecord: n, State: h.workspace.RecordState(entities.KindNode, n.ID)}, nil
}

func (h *ReadHandlers) getEdge(_ context.Context, q bus.Query) (interface{}, error) {
	query := q.(queries.GetEdgeQuery)
	e, err := h.workspace.Edge(query.EdgeID)
	if err != nil {
		return nil, err
	}
	return queries.EdgeRow{EdgeRecord: e, State: h.workspace.RecordState(entities.KindEdge, e.ID)}, nil
}

func (h *ReadHandlers) nodeOptions(_ context.Context, _ bus.Query) (interface{}, error) {
	return h.workspace.NodeOptions(), nil
}

func (h *ReadHandlers) canvas(_ context.Context, _ bus.Query) (interface{}, error) {
	return h.workspace.Canvas(), nil
}

func (h *ReadHandlers) dashboardView(_ context.Context, _ bus.Query) (interface{}, error) {
	if h.dashboard == nil {
		return analytics.View{}, nil
	}
	return h.dashboard.View(), nil
}
