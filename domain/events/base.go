package events

import (
	"time"

	"processflow/domain/core/entities"
)

// Source is the event source name used on external buses
const Source = "processflow.records"

// DomainEvent is something that happened to a record
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

const (
	TypeNodeAdded   = "node.added"
	TypeNodeUpdated = "node.updated"
	TypeNodeDeleted = "node.deleted"
	TypeEdgeAdded   = "edge.added"
	TypeEdgeUpdated = "edge.updated"
	TypeEdgeDeleted = "edge.deleted"
)

// NodeChanged is raised when a node row is added or updated
type NodeChanged struct {
	BaseEvent
	Node entities.NodeRecord `json:"node"`
}

// NodeDeleted is raised when a node row is removed, with the edges that went with it
type NodeDeleted struct {
	BaseEvent
	NodeID          string   `json:"node_id"`
	CascadedEdgeIDs []string `json:"cascaded_edge_ids,omitempty"`
}

// EdgeChanged is raised when an edge row is added or updated
type EdgeChanged struct {
	BaseEvent
	Edge entities.EdgeRecord `json:"edge"`
}

// EdgeDeleted is raised when an edge row is removed
type EdgeDeleted struct {
	BaseEvent
	EdgeID string `json:"edge_id"`
}

func NewNodeAdded(n entities.NodeRecord, at time.Time) NodeChanged {
	return NodeChanged{BaseEvent: BaseEvent{AggregateID: n.ID, EventType: TypeNodeAdded, Timestamp: at}, Node: n}
}

func NewNodeUpdated(n entities.NodeRecord, at time.Time) NodeChanged {
	return NodeChanged{BaseEvent: BaseEvent{AggregateID: n.ID, EventType: TypeNodeUpdated, Timestamp: at}, Node: n}
}

func NewNodeDeleted(id string, cascaded []string, at time.Time) NodeDeleted {
	return NodeDeleted{
		BaseEvent:       BaseEvent{AggregateID: id, EventType: TypeNodeDeleted, Timestamp: at},
		NodeID:          id,
		CascadedEdgeIDs: cascaded,
	}
}

func NewEdgeAdded(e entities.EdgeRecord, at time.Time) EdgeChanged {
	return EdgeChanged{BaseEvent: BaseEvent{AggregateID: e.ID, EventType: TypeEdgeAdded, Timestamp: at}, Edge: e}
}

func NewEdgeUpdated(e entities.EdgeRecord, at time.Time) EdgeChanged {
	return EdgeChanged{BaseEvent: BaseEvent{AggregateID: e.ID, EventType: TypeEdgeUpdated, Timestamp: at}, Edge: e}
}

func NewEdgeDeleted(id string, at time.Time) EdgeDeleted {
	return EdgeDeleted{BaseEvent: BaseEvent{AggregateID: id, EventType: TypeEdgeDeleted, Timestamp: at}, EdgeID: id}
}
