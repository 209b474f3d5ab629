package projection

import (
	"testing"

	"processflow/domain/core/entities"
	"processflow/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedPositioner struct {
	next  valueobjects.Position
	calls int
}

func (p *fixedPositioner) Place() valueobjects.Position {
	p.calls++
	pos := p.next
	p.next.X++
	return pos
}

func TestProjectNodes(t *testing.T) {
	records := []entities.NodeRecord{
		{ID: "n1", Label: "Air", Type: entities.NodeType1, Style: &entities.NodeStyle{Background: "#fff"}},
		{ID: "n2", Label: "Fuel", Type: entities.NodeType2},
	}

	t.Run("new nodes are placed inside the box", func(t *testing.T) {
		box := valueobjects.NewRandomBox(DefaultBox, 42)
		positions := Positions{}

		nodes := ProjectNodes(records, positions, box)

		require.Len(t, nodes, 2)
		for _, n := range nodes {
			assert.GreaterOrEqual(t, n.Position.X, 0.0)
			assert.Less(t, n.Position.X, box.Width)
			assert.GreaterOrEqual(t, n.Position.Y, 0.0)
			assert.Less(t, n.Position.Y, box.Height)
			assert.Equal(t, "default", n.Type)
		}
		assert.Len(t, positions, 2)
	})

	t.Run("display payload is copied", func(t *testing.T) {
		nodes := ProjectNodes(records, nil, &fixedPositioner{})
		assert.Equal(t, NodeData{Label: "Air", Type: entities.NodeType1}, nodes[0].Data)
		require.NotNil(t, nodes[0].Style)
		assert.Equal(t, "#fff", nodes[0].Style.Background)
		assert.Nil(t, nodes[1].Style)
	})

	t.Run("known positions are preserved", func(t *testing.T) {
		positioner := &fixedPositioner{next: valueobjects.Position{X: 10}}
		positions := Positions{"n1": {X: 1, Y: 2}}

		nodes := ProjectNodes(records, positions, positioner)

		assert.Equal(t, valueobjects.Position{X: 1, Y: 2}, nodes[0].Position)
		assert.Equal(t, valueobjects.Position{X: 10}, nodes[1].Position)
		assert.Equal(t, 1, positioner.calls)
	})
}

func TestProjectEdges(t *testing.T) {
	nodes := ProjectNodes([]entities.NodeRecord{{ID: "a"}, {ID: "b"}}, nil, &fixedPositioner{})

	t.Run("edge between known nodes projects once", func(t *testing.T) {
		edges, dropped := ProjectEdges([]entities.EdgeRecord{{ID: "e1", Upstream: "a", Downstream: "b"}}, nodes)
		require.Len(t, edges, 1)
		assert.Equal(t, CanvasEdge{ID: "e1", Source: "a", Target: "b", Type: "default"}, edges[0])
		assert.Empty(t, dropped)
	})

	tests := []struct {
		name string
		edge entities.EdgeRecord
	}{
		{"missing upstream", entities.EdgeRecord{ID: "e2", Upstream: "ghost", Downstream: "b"}},
		{"missing downstream", entities.EdgeRecord{ID: "e3", Upstream: "a", Downstream: "ghost"}},
		{"empty endpoints", entities.EdgeRecord{ID: "e4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var edges []CanvasEdge
			var dropped []string
			assert.NotPanics(t, func() {
				edges, dropped = ProjectEdges([]entities.EdgeRecord{tt.edge}, nodes)
			})
			assert.Empty(t, edges)
			assert.Equal(t, []string{tt.edge.ID}, dropped)
		})
	}
}

func TestProject(t *testing.T) {
	view := Project(
		[]entities.NodeRecord{{ID: "a"}, {ID: "b"}},
		[]entities.EdgeRecord{
			{ID: "ok", Upstream: "a", Downstream: "b"},
			{ID: "dangling", Upstream: "a", Downstream: "gone"},
		},
		Positions{},
		&fixedPositioner{},
	)

	assert.Len(t, view.Nodes, 2)
	require.Len(t, view.Edges, 1)
	assert.Equal(t, "ok", view.Edges[0].ID)
	assert.Equal(t, []string{"dangling"}, view.HiddenEdges)
}
