package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"processflow/application/canvas"
	"processflow/application/dispatch"
	"processflow/application/forms"
	"processflow/application/ports"
	"processflow/application/projection"
	"processflow/application/store"
	"processflow/domain/core/entities"
	"processflow/domain/core/valueobjects"
	"processflow/domain/events"
	pkgerrors "processflow/pkg/errors"
)

// WorkspaceOptions configures a Workspace
type WorkspaceOptions struct {
	IDs        valueobjects.IDGenerator
	Positioner valueobjects.Positioner
	// SeedMock loads the demo plant on start
	SeedMock bool
	Clock    func() time.Time
}

// Workspace is the flow graph being edited: the record store, its canvas
// session, the row action dispatcher and the dialogs, behind one lock.
type Workspace struct {
	mu         sync.Mutex
	ids        valueobjects.IDGenerator
	records    *store.RecordStore
	canvas     *canvas.Session
	dispatcher *dispatch.Dispatcher
	eventBus   ports.EventBus
	logger     *zap.Logger
	now        func() time.Time
}

// NewWorkspace creates a workspace, seeding the demo plant when asked
func NewWorkspace(opts WorkspaceOptions, eventBus ports.EventBus, logger *zap.Logger) *Workspace {
	if opts.IDs == nil {
		opts.IDs = valueobjects.UUIDGenerator{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	records := store.New(opts.IDs)
	session := canvas.NewSession(records, opts.Positioner)
	w := &Workspace{
		ids:        opts.IDs,
		records:    records,
		canvas:     session,
		dispatcher: dispatch.New(records, session),
		eventBus:   eventBus,
		logger:     logger,
		now:        opts.Clock,
	}
	if opts.SeedMock {
		w.seedMock()
	}
	return w
}

// MockNodes is the demo plant shown on first load
func MockNodes(ids valueobjects.IDGenerator) []entities.NodeRecord {
	return []entities.NodeRecord{
		{ID: ids.NewID(), Label: "chemicalNode1", Type: entities.NodeType1},
		{ID: ids.NewID(), Label: "chemicalNode3", Type: entities.NodeType3},
		{ID: ids.NewID(), Label: "chemicalNode2", Type: entities.NodeType2},
		{ID: ids.NewID(), Label: "testing", Type: entities.NodeType1},
	}
}

func (w *Workspace) seedMock() {
	nodes := MockNodes(w.ids)
	edges := []entities.EdgeRecord{{ID: w.ids.NewID(), Upstream: nodes[0].ID, Downstream: nodes[1].ID}}
	w.records.Seed(nodes, edges)
	w.logger.Info("Seeded demo plant", zap.Int("nodes", len(nodes)), zap.Int("edges", len(edges)))
}

// Nodes returns the node table, newest first
func (w *Workspace) Nodes() []entities.NodeRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.records.Nodes()
}

// Edges returns the edge table, newest first
func (w *Workspace) Edges() []entities.EdgeRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.records.Edges()
}

// Node returns one node row
func (w *Workspace) Node(id string) (entities.NodeRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n, ok := w.records.Node(id)
	if !ok {
		return entities.NodeRecord{}, pkgerrors.NewNotFoundError("node")
	}
	return n, nil
}

// Edge returns one edge row
func (w *Workspace) Edge(id string) (entities.EdgeRecord, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	e, ok := w.records.Edge(id)
	if !ok {
		return entities.EdgeRecord{}, pkgerrors.NewNotFoundError("edge")
	}
	return e, nil
}

// NodeOptions lists the endpoints an edge dialog can pick from
func (w *Workspace) NodeOptions() []forms.Option {
	w.mu.Lock()
	defer w.mu.Unlock()
	return forms.NodeOptions(w.records.Nodes())
}

// Canvas projects the records onto the canvas
func (w *Workspace) Canvas() projection.View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canvas.View()
}

// RecordState reports where a row is in its edit lifecycle
func (w *Workspace) RecordState(kind entities.RecordKind, id string) entities.RecordState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dispatcher.StateOf(kind, id)
}

// AddNode runs the add-node dialog with the given fields and saves it
func (w *Workspace) AddNode(ctx context.Context, patch entities.NodePatch) entities.NodeRecord {
	w.mu.Lock()
	dialog := forms.NewNodeDialog(w.ids)
	dialog.Apply(patch)
	var added entities.NodeRecord
	dialog.Submit(func(n entities.NodeRecord) { added = w.records.AddNode(n) })
	w.mu.Unlock()

	w.publish(ctx, events.NewNodeAdded(added, w.now()))
	return added
}

// UpdateNode opens the edit dialog on a row, applies patch and dispatches
// the result as an update action. An unknown id is a no-op reported with
// Applied=false.
func (w *Workspace) UpdateNode(ctx context.Context, id string, patch entities.NodePatch) (dispatch.Outcome, error) {
	w.mu.Lock()
	current, ok := w.records.Node(id)
	if !ok || !w.dispatcher.BeginEdit(entities.KindNode, id) {
		w.mu.Unlock()
		return w.ignored(dispatch.UpdateNode(entities.NodeRecord{ID: id})), nil
	}
	dialog := forms.EditNodeDialog(current)
	dialog.Apply(patch)

	var outcome dispatch.Outcome
	var err error
	dialog.Submit(func(n entities.NodeRecord) { outcome, err = w.dispatcher.Dispatch(dispatch.UpdateNode(n)) })
	if err != nil {
		w.dispatcher.CancelEdit(entities.KindNode, id)
	}
	w.mu.Unlock()

	if err != nil {
		return dispatch.Outcome{}, err
	}
	w.publish(ctx, events.NewNodeUpdated(*outcome.Node, w.now()))
	return outcome, nil
}

// DeleteNode removes a node row and the edges that reference it
func (w *Workspace) DeleteNode(ctx context.Context, id string) (dispatch.Outcome, error) {
	return w.Dispatch(ctx, dispatch.DeleteNode(id))
}

// AddEdge runs the add-edge dialog. Both endpoints are required; they are
// not required to resolve to existing nodes.
func (w *Workspace) AddEdge(ctx context.Context, upstream, downstream string) (entities.EdgeRecord, error) {
	w.mu.Lock()
	dialog := forms.NewEdgeDialog(w.ids)
	dialog.SetUpstream(upstream)
	dialog.SetDownstream(downstream)
	var added entities.EdgeRecord
	err := dialog.Submit(func(e entities.EdgeRecord) { added = w.records.AddEdge(e) })
	w.mu.Unlock()

	if err != nil {
		return entities.EdgeRecord{}, err
	}
	w.publish(ctx, events.NewEdgeAdded(added, w.now()))
	return added, nil
}

// UpdateEdge opens the edit dialog on an edge row and dispatches the result.
// An unknown id is a no-op reported with Applied=false.
func (w *Workspace) UpdateEdge(ctx context.Context, id string, patch entities.EdgePatch) (dispatch.Outcome, error) {
	w.mu.Lock()
	current, ok := w.records.Edge(id)
	if !ok || !w.dispatcher.BeginEdit(entities.KindEdge, id) {
		w.mu.Unlock()
		return w.ignored(dispatch.UpdateEdge(entities.EdgeRecord{ID: id})), nil
	}
	dialog := forms.EditEdgeDialog(current)
	dialog.Apply(patch)

	var outcome dispatch.Outcome
	var dispatchErr error
	err := dialog.Submit(func(e entities.EdgeRecord) { outcome, dispatchErr = w.dispatcher.Dispatch(dispatch.UpdateEdge(e)) })
	if err == nil {
		err = dispatchErr
	}
	if err != nil {
		w.dispatcher.CancelEdit(entities.KindEdge, id)
	}
	w.mu.Unlock()

	if err != nil {
		return dispatch.Outcome{}, err
	}
	w.publish(ctx, events.NewEdgeUpdated(*outcome.Edge, w.now()))
	return outcome, nil
}

// DeleteEdge removes an edge row
func (w *Workspace) DeleteEdge(ctx context.Context, id string) (dispatch.Outcome, error) {
	return w.Dispatch(ctx, dispatch.DeleteEdge(id))
}

// Dispatch applies a table row action
func (w *Workspace) Dispatch(ctx context.Context, action dispatch.Action) (dispatch.Outcome, error) {
	w.mu.Lock()
	outcome, err := w.dispatcher.Dispatch(action)
	w.mu.Unlock()
	if err != nil {
		return dispatch.Outcome{}, err
	}
	if !outcome.Applied {
		return w.ignored(action), nil
	}

	now := w.now()
	switch {
	case action.Kind == entities.KindNode && action.Type == dispatch.ActionDelete:
		w.publish(ctx, events.NewNodeDeleted(outcome.ID, outcome.CascadedEdges, now))
	case action.Kind == entities.KindNode:
		w.publish(ctx, events.NewNodeUpdated(*outcome.Node, now))
	case action.Type == dispatch.ActionDelete:
		w.publish(ctx, events.NewEdgeDeleted(outcome.ID, now))
	default:
		w.publish(ctx, events.NewEdgeUpdated(*outcome.Edge, now))
	}
	return outcome, nil
}

func (w *Workspace) ignored(action dispatch.Action) dispatch.Outcome {
	outcome := dispatch.Outcome{Action: action.Type, Kind: action.Kind, ID: action.ID()}
	w.logger.Debug("Row action on unknown record ignored",
		zap.String("action", string(outcome.Action)),
		zap.String("kind", string(outcome.Kind)),
		zap.String("id", outcome.ID))
	return outcome
}

// ConnectResult is what a link drawn on the canvas produced
type ConnectResult struct {
	Edge       entities.EdgeRecord   `json:"edge"`
	CanvasEdge projection.CanvasEdge `json:"canvas_edge"`
	Visible    bool                  `json:"visible"`
}

// Connect records a link drawn on the canvas
func (w *Workspace) Connect(ctx context.Context, source, target string) ConnectResult {
	w.mu.Lock()
	edge, canvasEdge, visible := w.canvas.Connect(source, target)
	w.mu.Unlock()

	w.publish(ctx, events.NewEdgeAdded(edge, w.now()))
	return ConnectResult{Edge: edge, CanvasEdge: canvasEdge, Visible: visible}
}

// RemoveCanvasNode deletes a node from the canvas. Unknown ids are no-ops.
func (w *Workspace) RemoveCanvasNode(ctx context.Context, id string) ([]string, bool) {
	w.mu.Lock()
	removed, ok := w.canvas.RemoveNode(id)
	w.mu.Unlock()

	if ok {
		w.publish(ctx, events.NewNodeDeleted(id, removed, w.now()))
	}
	return removed, ok
}

// RemoveCanvasEdge deletes an edge from the canvas. Unknown ids are no-ops.
func (w *Workspace) RemoveCanvasEdge(ctx context.Context, id string) bool {
	w.mu.Lock()
	ok := w.canvas.RemoveEdge(id)
	w.mu.Unlock()

	if ok {
		w.publish(ctx, events.NewEdgeDeleted(id, w.now()))
	}
	return ok
}

// Move records a drag on the canvas. Records are not touched.
func (w *Workspace) Move(id string, pos valueobjects.Position) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.canvas.Move(id, pos) {
		return pkgerrors.NewNotFoundError("node")
	}
	return nil
}

// ResetCanvas drops every drawn position; nodes are placed again on the next view
func (w *Workspace) ResetCanvas() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.canvas.Reset()
}

func (w *Workspace) publish(ctx context.Context, event events.DomainEvent) {
	if w.eventBus == nil {
		return
	}
	if err := w.eventBus.Publish(ctx, event); err != nil {
		w.logger.Warn("Failed to publish record event",
			zap.String("event_type", event.GetEventType()),
			zap.String("id", event.GetAggregateID()),
			zap.Error(err))
	}
}
