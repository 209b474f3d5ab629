// Package projection derives the canvas view from the record store.
package projection

import (
	"processflow/domain/core/entities"
	"processflow/domain/core/valueobjects"
)

// DefaultBox is the side of the square new nodes are dropped into
const DefaultBox = 300

const canvasElementType = "default"

// NodeData is the display payload of a canvas node
type NodeData struct {
	Label string            `json:"label"`
	Type  entities.NodeType `json:"type"`
}

// CanvasNode is a position-bearing view of a NodeRecord
type CanvasNode struct {
	ID       string                `json:"id"`
	Type     string                `json:"type"`
	Data     NodeData              `json:"data"`
	Style    *entities.NodeStyle   `json:"style,omitempty"`
	Position valueobjects.Position `json:"position"`
}

// CanvasEdge is a view of an EdgeRecord whose endpoints both resolve
type CanvasEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// View is everything the canvas needs to draw
type View struct {
	Nodes []CanvasNode `json:"nodes"`
	Edges []CanvasEdge `json:"edges"`
	// HiddenEdges are edge ids left out because an endpoint does not resolve
	HiddenEdges []string `json:"hidden_edges,omitempty"`
}

// Positions maps canvas node ids to where they are drawn
type Positions map[string]valueobjects.Position

// ProjectNode maps a single record, placing it at pos
func ProjectNode(n entities.NodeRecord, pos valueobjects.Position) CanvasNode {
	n = n.Clone()
	return CanvasNode{
		ID:       n.ID,
		Type:     canvasElementType,
		Data:     NodeData{Label: n.Label, Type: n.Type},
		Style:    n.Style,
		Position: pos,
	}
}

// ProjectNodes maps records to canvas nodes. Known ids keep their position
// from positions; new ids are placed by the positioner and recorded in
// positions when it is non-nil.
func ProjectNodes(records []entities.NodeRecord, positions Positions, positioner valueobjects.Positioner) []CanvasNode {
	out := make([]CanvasNode, 0, len(records))
	for _, n := range records {
		pos, ok := positions[n.ID]
		if !ok {
			pos = positioner.Place()
			if positions != nil {
				positions[n.ID] = pos
			}
		}
		out = append(out, ProjectNode(n, pos))
	}
	return out
}

// ProjectEdge maps a single record without checking its endpoints
func ProjectEdge(e entities.EdgeRecord) CanvasEdge {
	return CanvasEdge{ID: e.ID, Source: e.Upstream, Target: e.Downstream, Type: canvasElementType}
}

// ProjectEdges maps records to canvas edges, dropping any edge whose
// upstream or downstream is not among nodes. The dropped ids are returned.
func ProjectEdges(records []entities.EdgeRecord, nodes []CanvasNode) ([]CanvasEdge, []string) {
	known := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		known[n.ID] = struct{}{}
	}

	out := make([]CanvasEdge, 0, len(records))
	var dropped []string
	for _, e := range records {
		_, up := known[e.Upstream]
		_, down := known[e.Downstream]
		if !up || !down {
			dropped = append(dropped, e.ID)
			continue
		}
		out = append(out, ProjectEdge(e))
	}
	return out, dropped
}

// Project builds the full canvas view
func Project(nodes []entities.NodeRecord, edges []entities.EdgeRecord, positions Positions, positioner valueobjects.Positioner) View {
	canvasNodes := ProjectNodes(nodes, positions, positioner)
	canvasEdges, hidden := ProjectEdges(edges, canvasNodes)
	return View{Nodes: canvasNodes, Edges: canvasEdges, HiddenEdges: hidden}
}
