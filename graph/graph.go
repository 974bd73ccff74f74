package graph

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/ttpr0/go-transport/geo"
	. "github.com/ttpr0/go-transport/util"
)

//*******************************************
// graph structs
//*******************************************

type GraphNode struct {
	ID           string               `json:"id"`
	Position     geo.Point            `json:"position"`
	Type         NodeType             `json:"type"`
	Capacity     float64              `json:"capacity"`
	CurrentLoad  float64              `json:"current_load"`
	Restrictions []VehicleRestriction `json:"restrictions,omitempty"`
}

type GraphEdge struct {
	ID             string               `json:"id"`
	NodeA          string               `json:"node_a"`
	NodeB          string               `json:"node_b"`
	Type           EdgeType             `json:"type"`
	Length         float64              `json:"length"`
	Capacity       float64              `json:"capacity"`
	SpeedLimit     float64              `json:"speed_limit"`
	CurrentTraffic float64              `json:"current_traffic"`
	Condition      float64              `json:"condition"`
	TollCost       float64              `json:"toll_cost"`
	Restrictions   []VehicleRestriction `json:"restrictions,omitempty"`
}

//*******************************************
// network graph
//*******************************************

// NetworkGraph holds the transportation graph. Edges are undirected for
// traversal; every edge's endpoints are guaranteed to exist in nodes and
// the adjacency is kept symmetric by construction.
type NetworkGraph struct {
	nodes     Dict[string, *GraphNode]
	edges     Dict[string, *GraphEdge]
	adjacency Dict[string, []string]
	index     *SpatialIndex
}

func NewNetworkGraph(min, max geo.Point) *NetworkGraph {
	return &NetworkGraph{
		nodes:     NewDict[string, *GraphNode](100),
		edges:     NewDict[string, *GraphEdge](100),
		adjacency: NewDict[string, []string](100),
		index:     NewSpatialIndex(min, max),
	}
}

func (self *NetworkGraph) NodeCount() int {
	return self.nodes.Length()
}

func (self *NetworkGraph) EdgeCount() int {
	return self.edges.Length()
}

func (self *NetworkGraph) AddNode(node GraphNode) error {
	if self.nodes.ContainsKey(node.ID) {
		return fmt.Errorf("node %s already exists", node.ID)
	}
	if err := self.index.Add(node.ID, node.Position); err != nil {
		return err
	}
	self.adjacency.Set(node.ID, []string{})
	self.nodes.Set(node.ID, &node)
	return nil
}

func (self *NetworkGraph) AddEdge(edge GraphEdge) error {
	if !self.nodes.ContainsKey(edge.NodeA) || !self.nodes.ContainsKey(edge.NodeB) {
		return fmt.Errorf("edge %s references non-existent nodes", edge.ID)
	}
	if self.edges.ContainsKey(edge.ID) {
		return fmt.Errorf("edge %s already exists", edge.ID)
	}
	if edge.Length <= 0 {
		node_a := self.nodes.Get(edge.NodeA)
		node_b := self.nodes.Get(edge.NodeB)
		edge.Length = node_a.Position.Distance(node_b.Position)
	}
	self.adjacency.Set(edge.NodeA, append(self.adjacency.Get(edge.NodeA), edge.NodeB))
	self.adjacency.Set(edge.NodeB, append(self.adjacency.Get(edge.NodeB), edge.NodeA))
	self.edges.Set(edge.ID, &edge)
	return nil
}

func (self *NetworkGraph) RemoveNode(id string) {
	node, ok := self.nodes[id]
	if !ok {
		return
	}
	for _, edge := range self.EdgesAt(id) {
		self.RemoveEdge(edge.ID)
	}
	self.index.Remove(id, node.Position)
	self.adjacency.Delete(id)
	self.nodes.Delete(id)
}

func (self *NetworkGraph) RemoveEdge(id string) {
	edge, ok := self.edges[id]
	if !ok {
		return
	}
	self.adjacency.Set(edge.NodeA, remove_first(self.adjacency.Get(edge.NodeA), edge.NodeB))
	self.adjacency.Set(edge.NodeB, remove_first(self.adjacency.Get(edge.NodeB), edge.NodeA))
	self.edges.Delete(id)
}

func (self *NetworkGraph) GetNode(id string) (*GraphNode, bool) {
	node, ok := self.nodes[id]
	return node, ok
}

func (self *NetworkGraph) GetEdge(id string) (*GraphEdge, bool) {
	edge, ok := self.edges[id]
	return edge, ok
}

// Neighbor node ids of the given node. Parallel edges contribute one entry
// each, which is harmless for traversal.
func (self *NetworkGraph) Adjacency(id string) []string {
	return self.adjacency.Get(id)
}

// All edges incident to the given node.
func (self *NetworkGraph) EdgesAt(id string) []*GraphEdge {
	edges := make([]*GraphEdge, 0, 4)
	for _, edge := range self.edges {
		if edge.NodeA == id || edge.NodeB == id {
			edges = append(edges, edge)
		}
	}
	return edges
}

// All edges connecting a and b, in either orientation.
func (self *NetworkGraph) EdgesBetween(a, b string) []*GraphEdge {
	edges := make([]*GraphEdge, 0, 1)
	for _, edge := range self.edges {
		if (edge.NodeA == a && edge.NodeB == b) || (edge.NodeA == b && edge.NodeB == a) {
			edges = append(edges, edge)
		}
	}
	return edges
}

// Node ids in deterministic (sorted) order.
func (self *NetworkGraph) NodeIDs() []string {
	ids := make([]string, 0, self.nodes.Length())
	for id := range self.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Edge ids in deterministic (sorted) order.
func (self *NetworkGraph) EdgeIDs() []string {
	ids := make([]string, 0, self.edges.Length())
	for id := range self.edges {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (self *NetworkGraph) GetClosestNode(position geo.Point) (string, bool) {
	return self.index.GetClosestNode(position)
}

func (self *NetworkGraph) GetNearbyNodes(position geo.Point, radius float64) []string {
	return self.index.GetNearbyNodes(position, radius)
}

// Derives per-node load from the incident connections, called once per tick.
func (self *NetworkGraph) UpdateNodeLoads() {
	degrees := NewDict[string, int](self.nodes.Length())
	for _, edge := range self.edges {
		degrees[edge.NodeA] += 1
		degrees[edge.NodeB] += 1
	}
	for id, node := range self.nodes {
		capacity := node.Capacity
		if capacity < 1 {
			capacity = 1
		}
		load := float64(degrees[id]) / capacity
		if load > 1 {
			load = 1
		}
		node.CurrentLoad = load
	}
}

// Deep copy used by failure simulation, the live graph is never mutated
// while a scenario runs.
func (self *NetworkGraph) Clone() *NetworkGraph {
	clone := &NetworkGraph{
		nodes:     NewDict[string, *GraphNode](self.nodes.Length()),
		edges:     NewDict[string, *GraphEdge](self.edges.Length()),
		adjacency: NewDict[string, []string](self.adjacency.Length()),
		index:     NewSpatialIndex(geo.Point{X: self.index.bound.Min[0], Y: self.index.bound.Min[1]}, geo.Point{X: self.index.bound.Max[0], Y: self.index.bound.Max[1]}),
	}
	for id, node := range self.nodes {
		node_copy := *node
		clone.nodes.Set(id, &node_copy)
		clone.index.Add(id, node.Position)
	}
	for id, edge := range self.edges {
		edge_copy := *edge
		clone.edges.Set(id, &edge_copy)
	}
	for id, neighbors := range self.adjacency {
		clone.adjacency.Set(id, slices.Clone(neighbors))
	}
	return clone
}

func remove_first(list []string, value string) []string {
	for i, v := range list {
		if v == value {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
