package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"processflow/application/commands"
	"processflow/application/commands/bus"
	"processflow/application/queries"
	querybus "processflow/application/queries/bus"
	pkgerrors "processflow/pkg/errors"
)

// CanvasHandler handles the canvas view and the table row actions
type CanvasHandler struct {
	base
}

// NewCanvasHandler creates a new canvas handler
func NewCanvasHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *CanvasHandler {
	return &CanvasHandler{base{commandBus: commandBus, queryBus: queryBus, errors: errorHandler, logger: logger}}
}

// GetCanvas handles GET /canvas
func (h *CanvasHandler) GetCanvas(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetCanvasQuery{})
}

// Connect handles POST /canvas/connect
func (h *CanvasHandler) Connect(w http.ResponseWriter, r *http.Request) {
	var cmd commands.ConnectNodesCommand
	if err := decode(r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.send(w, r, cmd, http.StatusCreated)
}

// MoveNode handles PUT /canvas/nodes/{nodeID}/position
func (h *CanvasHandler) MoveNode(w http.ResponseWriter, r *http.Request) {
	var cmd commands.MoveNodeCommand
	if err := decode(r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	cmd.NodeID = chi.URLParam(r, "nodeID")
	h.send(w, r, cmd, http.StatusOK)
}

// RemoveNode handles DELETE /canvas/nodes/{nodeID}
func (h *CanvasHandler) RemoveNode(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RemoveCanvasNodeCommand{NodeID: chi.URLParam(r, "nodeID")}, http.StatusOK)
}

// RemoveEdge handles DELETE /canvas/edges/{edgeID}
func (h *CanvasHandler) RemoveEdge(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RemoveCanvasEdgeCommand{EdgeID: chi.URLParam(r, "edgeID")}, http.StatusOK)
}

// Reset handles POST /canvas/reset
func (h *CanvasHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.ResetCanvasCommand{}, http.StatusOK)
}

// DispatchAction handles POST /table/actions
func (h *CanvasHandler) DispatchAction(w http.ResponseWriter, r *http.Request) {
	var cmd commands.DispatchRowActionCommand
	if err := decode(r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.send(w, r, cmd, http.StatusOK)
}
