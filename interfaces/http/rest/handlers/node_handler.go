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

// NodeHandler handles node table requests
type NodeHandler struct {
	base
}

// NewNodeHandler creates a new node handler
func NewNodeHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *NodeHandler {
	return &NodeHandler{base{commandBus: commandBus, queryBus: queryBus, errors: errorHandler, logger: logger}}
}

// ListNodes handles GET /nodes
func (h *NodeHandler) ListNodes(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.ListNodesQuery{})
}

// NodeOptions handles GET /nodes/options
func (h *NodeHandler) NodeOptions(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetNodeOptionsQuery{})
}

// CreateNode handles POST /nodes. An empty body adds a default node.
func (h *NodeHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddNodeCommand
	if err := decode(r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	h.send(w, r, cmd, http.StatusCreated)
}

// GetNode handles GET /nodes/{nodeID}
func (h *NodeHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetNodeQuery{NodeID: chi.URLParam(r, "nodeID")})
}

// UpdateNode handles PUT /nodes/{nodeID}
func (h *NodeHandler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	var cmd commands.UpdateNodeCommand
	if err := decode(r, &cmd); err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	cmd.NodeID = chi.URLParam(r, "nodeID")
	h.send(w, r, cmd, http.StatusOK)
}

// DeleteNode handles DELETE /nodes/{nodeID}. Unknown ids are reported with
// applied=false rather than an error.
func (h *NodeHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.DeleteNodeCommand{NodeID: chi.URLParam(r, "nodeID")}, http.StatusOK)
}
