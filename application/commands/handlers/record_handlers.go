package handlers

import (
	"context"

	"go.uber.org/zap"

	"processflow/application/commands"
	"processflow/application/commands/bus"
	"processflow/application/dispatch"
	"processflow/application/services"
	"processflow/domain/core/entities"
	"processflow/domain/core/valueobjects"
)

// RecordHandlers executes the node, edge and canvas commands against a workspace
type RecordHandlers struct {
	workspace *services.Workspace
	logger    *zap.Logger
}

// NewRecordHandlers creates the record command handlers
func NewRecordHandlers(workspace *services.Workspace, logger *zap.Logger) *RecordHandlers {
	return &RecordHandlers{workspace: workspace, logger: logger}
}

// Register binds every record command to the bus
func (h *RecordHandlers) Register(b *bus.CommandBus) error {
	registrations := []struct {
		cmd     bus.Command
		handler bus.CommandHandlerFunc
	}{
		{commands.AddNodeCommand{}, h.addNode},
		{commands.UpdateNodeCommand{}, h.updateNode},
		{commands.DeleteNodeCommand{}, h.deleteNode},
		{commands.AddEdgeCommand{}, h.addEdge},
		{commands.UpdateEdgeCommand{}, h.updateEdge},
		{commands.DeleteEdgeCommand{}, h.deleteEdge},
		{commands.DispatchRowActionCommand{}, h.dispatchRowAction},
		{commands.ConnectNodesCommand{}, h.connectNodes},
		{commands.MoveNodeCommand{}, h.moveNode},
		{commands.RemoveCanvasNodeCommand{}, h.removeCanvasNode},
		{commands.RemoveCanvasEdgeCommand{}, h.removeCanvasEdge},
		{commands.ResetCanvasCommand{}, h.resetCanvas},
	}
	for _, r := range registrations {
		if err := b.Register(r.cmd, r.handler); err != nil {
			return err
		}
	}
	return nil
}

func (h *RecordHandlers) addNode(ctx context.Context, c bus.Command) (interface{}, error) {
	cmd := c.(commands.AddNodeCommand)
	return h.workspace.AddNode(ctx, cmd.Patch()), nil
}

func (h *RecordHandlers) updateNode(ctx context.Context, c bus.Command) (interface{}, error) {
	cmd := c.(commands.UpdateNodeCommand)
	return h.workspace.UpdateNode(ctx, cmd.NodeID, cmd.Patch())
}

func (h *RecordHandlers) deleteNode(ctx context.Context, c bus.Command) (interface{}, error) {
	cmd := c.(commands.DeleteNodeCommand)
	return h.workspace.DeleteNode(ctx, cmd.NodeID)
}

func (h *RecordHandlers) addEdge(ctx context.Context, c bus.Command) (interface{}, error) {
	cmd := c.(commands.AddEdgeCommand)
	return h.workspace.AddEdge(ctx, cmd.Upstream, cmd.Downstream)
}

func (h *RecordHandlers) updateEdge(ctx context.Context, c bus.Command) (interface{}, error) {
	cmd := c.(commands.UpdateEdgeCommand)
	return h.workspace.UpdateEdge(ctx, cmd.EdgeID, cmd.Patch())
}

func (h *RecordHandlers) deleteEdge(ctx context.Context, c bus.Command) (interface{}, error) {
	cmd := c.(commands.DeleteEdgeCommand)
	return h.workspace.DeleteEdge(ctx, cmd.EdgeID)
}

func (h *RecordHandlers) dispatchRowAction(ctx context.Context, c bus.Command) (interface{}, error) {
	cmd := c.(commands.DispatchRowActionCommand)
	node, edge := cmd.Record()
	return h.workspace.Dispatch(ctx, dispatch.Action{
		Type: dispatch.ActionType(cmd.Action),
		Kind: entities.RecordKind(cmd.Kind),
		Node: node,
		Edge: edge,
	})
}

func (h *RecordHandlers) connectNodes(ctx context.Context, c bus.Command) (interface{}, error) {
	cmd := c.(commands.ConnectNodesCommand)
	res := h.workspace.Connect(ctx, cmd.Source, cmd.Target)
	if !res.Visible {
		h.logger.Warn("Connected edge has an unresolved endpoint and will be hidden",
			zap.String("edge_id", res.Edge.ID),
			zap.String("source", cmd.Source),
			zap.String("target", cmd.Target))
	}
	return res, nil
}

func (h *RecordHandlers) moveNode(ctx context.Context, c bus.Command) (interface{}, error) {
	cmd := c.(commands.MoveNodeCommand)
	pos := valueobjects.Position{X: cmd.X, Y: cmd.Y}
	if err := h.workspace.Move(cmd.NodeID, pos); err != nil {
		return nil, err
	}
	return pos, nil
}

// RemovedNode reports a canvas node deletion
type RemovedNode struct {
	ID            string   `json:"id"`
	Removed       bool     `json:"removed"`
	CascadedEdges []string `json:"cascaded_edges,omitempty"`
}

func (h *RecordHandlers) removeCanvasNode(ctx context.Context, c bus.Command) (interface{}, error) {
	cmd := c.(commands.RemoveCanvasNodeCommand)
	cascaded, ok := h.workspace.RemoveCanvasNode(ctx, cmd.NodeID)
	return RemovedNode{ID: cmd.NodeID, Removed: ok, CascadedEdges: cascaded}, nil
}

// RemovedEdge reports a canvas edge deletion
type RemovedEdge struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

func (h *RecordHandlers) removeCanvasEdge(ctx context.Context, c bus.Command) (interface{}, error) {
	cmd := c.(commands.RemoveCanvasEdgeCommand)
	return RemovedEdge{ID: cmd.EdgeID, Removed: h.workspace.RemoveCanvasEdge(ctx, cmd.EdgeID)}, nil
}

func (h *RecordHandlers) resetCanvas(ctx context.Context, _ bus.Command) (interface{}, error) {
	h.workspace.ResetCanvas()
	return h.workspace.Canvas(), nil
}
