package graph

import (
	"testing"

	"github.com/ttpr0/go-transport/geo"
)

func test_graph() *NetworkGraph {
	g := NewNetworkGraph(geo.NewPoint(-1000, -1000, -100), geo.NewPoint(1000, 1000, 100))
	g.AddNode(GraphNode{ID: "a", Position: geo.NewPoint(0, 0, 0), Type: INTERSECTION, Capacity: 100})
	g.AddNode(GraphNode{ID: "b", Position: geo.NewPoint(100, 0, 0), Type: INTERSECTION, Capacity: 100})
	g.AddNode(GraphNode{ID: "c", Position: geo.NewPoint(200, 0, 0), Type: HIGHWAY_RAMP, Capacity: 100})
	g.AddEdge(GraphEdge{ID: "ab", NodeA: "a", NodeB: "b", Type: ROAD, Length: 100, Capacity: 50, SpeedLimit: 50, Condition: 1.0})
	g.AddEdge(GraphEdge{ID: "bc", NodeA: "b", NodeB: "c", Type: ROAD, Length: 100, Capacity: 50, SpeedLimit: 50, Condition: 1.0})
	return g
}

func TestAddNode(t *testing.T) {
	g := test_graph()
	if g.NodeCount() != 3 {
		t.Errorf("expected 3 nodes, got %v", g.NodeCount())
	}
	err := g.AddNode(GraphNode{ID: "a", Position: geo.NewPoint(50, 50, 0)})
	if err == nil {
		t.Errorf("expected error on duplicate node id")
	}
	err = g.AddNode(GraphNode{ID: "far", Position: geo.NewPoint(5000, 0, 0)})
	if err == nil {
		t.Errorf("expected error on out-of-bounds position")
	}
	if g.NodeCount() != 3 {
		t.Errorf("failed inserts must not change the graph")
	}
}

func TestAddEdgeUnknownEndpoint(t *testing.T) {
	g := test_graph()
	edges_before := g.EdgeCount()
	adjacency_before := len(g.Adjacency("a"))

	err := g.AddEdge(GraphEdge{ID: "ax", NodeA: "a", NodeB: "x", Type: ROAD, Length: 100})
	if err == nil {
		t.Errorf("expected error on unknown endpoint")
	}
	if g.EdgeCount() != edges_before {
		t.Errorf("failed insert changed edge count")
	}
	if len(g.Adjacency("a")) != adjacency_before {
		t.Errorf("failed insert changed adjacency")
	}
}

func TestAdjacencySymmetric(t *testing.T) {
	g := test_graph()
	neighbors_b := g.Adjacency("b")
	if len(neighbors_b) != 2 {
		t.Errorf("expected 2 neighbors of b, got %v", len(neighbors_b))
	}
	found := false
	for _, n := range g.Adjacency("a") {
		if n == "b" {
			found = true
		}
	}
	if !found {
		t.Errorf("a should be adjacent to b")
	}
}

func TestRemoveNode(t *testing.T) {
	g := test_graph()
	g.RemoveNode("b")
	if g.NodeCount() != 2 {
		t.Errorf("expected 2 nodes, got %v", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Errorf("incident edges must be removed with the node")
	}
	if len(g.Adjacency("a")) != 0 {
		t.Errorf("adjacency of a should be empty")
	}
}

func TestEdgesBetween(t *testing.T) {
	g := test_graph()
	g.AddEdge(GraphEdge{ID: "ab2", NodeA: "b", NodeB: "a", Type: HIGHWAY, Length: 120})
	edges := g.EdgesBetween("a", "b")
	if len(edges) != 2 {
		t.Errorf("expected 2 parallel edges, got %v", len(edges))
	}
}

func TestGetClosestNode(t *testing.T) {
	g := test_graph()
	id, ok := g.GetClosestNode(geo.NewPoint(110, 5, 0))
	if !ok || id != "b" {
		t.Errorf("expected closest node b, got %v", id)
	}
}

func TestGetNearbyNodes(t *testing.T) {
	g := test_graph()
	nearby := g.GetNearbyNodes(geo.NewPoint(0, 0, 0), 150)
	if len(nearby) != 2 {
		t.Errorf("expected 2 nodes within radius, got %v", len(nearby))
	}
}

func TestClone(t *testing.T) {
	g := test_graph()
	clone := g.Clone()
	clone.RemoveNode("b")
	if g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Errorf("mutating the clone must not affect the original")
	}
	node, _ := clone.GetNode("a")
	node.CurrentLoad = 0.5
	orig, _ := g.GetNode("a")
	if orig.CurrentLoad == 0.5 {
		t.Errorf("clone must deep-copy nodes")
	}
}
