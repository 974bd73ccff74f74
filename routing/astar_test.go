package routing

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/ttpr0/go-transport/geo"
	"github.com/ttpr0/go-transport/graph"
)

func line_graph() *graph.NetworkGraph {
	g := graph.NewNetworkGraph(geo.NewPoint(-1000, -1000, -100), geo.NewPoint(1000, 1000, 100))
	names := []string{"a", "b", "c", "d"}
	for i, name := range names {
		g.AddNode(graph.GraphNode{ID: name, Position: geo.NewPoint(float64(i)*100, 0, 0), Capacity: 100})
	}
	for i := 0; i < 3; i++ {
		g.AddEdge(graph.GraphEdge{
			ID:         fmt.Sprintf("e%v", i),
			NodeA:      names[i],
			NodeB:      names[i+1],
			Type:       graph.ROAD,
			Length:     100,
			SpeedLimit: 50,
			Condition:  1.0,
		})
	}
	return g
}

func grid_graph(size int) *graph.NetworkGraph {
	g := graph.NewNetworkGraph(geo.NewPoint(-1000, -1000, -100), geo.NewPoint(5000, 5000, 100))
	node_id := func(x, y int) string { return fmt.Sprintf("n_%v_%v", x, y) }
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			g.AddNode(graph.GraphNode{ID: node_id(x, y), Position: geo.NewPoint(float64(x)*100, float64(y)*100, 0), Capacity: 100})
		}
	}
	edge_count := 0
	add := func(a, b string) {
		g.AddEdge(graph.GraphEdge{ID: fmt.Sprintf("e%v", edge_count), NodeA: a, NodeB: b, Type: graph.ROAD, SpeedLimit: 50, Condition: 1.0})
		edge_count += 1
	}
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			if x+1 < size {
				add(node_id(x, y), node_id(x+1, y))
			}
			if y+1 < size {
				add(node_id(x, y), node_id(x, y+1))
			}
			if x+1 < size && y+1 < size && (x+y)%2 == 0 {
				add(node_id(x, y), node_id(x+1, y+1))
			}
		}
	}
	return g
}

func path_cost(g *graph.NetworkGraph, path []string, criteria PathCriteria) float64 {
	cost := 0.0
	for i := 0; i < len(path)-1; i++ {
		_, c, ok := cheapest_edge(g, path[i], path[i+1], criteria)
		if !ok {
			return math.Inf(1)
		}
		cost += c
	}
	return cost
}

func TestFindPathLine(t *testing.T) {
	g := line_graph()
	engine := NewPathfindingEngine(0)
	result, err := engine.FindPath(g, "a", "d", PathCriteria{OptimizeFor: SHORTEST_DISTANCE})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Path) != 4 {
		t.Errorf("expected 4 path nodes, got %v", len(result.Path))
	}
	if math.Abs(result.TotalDistance-300) > 1e-3 {
		t.Errorf("expected total distance 300, got %v", result.TotalDistance)
	}
	if math.Abs(result.EstimatedTime-6.0) > 1e-3 {
		t.Errorf("expected estimated time 6.0, got %v", result.EstimatedTime)
	}
}

func TestFindPathNotFound(t *testing.T) {
	g := line_graph()
	g.AddNode(graph.GraphNode{ID: "island", Position: geo.NewPoint(500, 500, 0), Capacity: 100})
	engine := NewPathfindingEngine(0)
	_, err := engine.FindPath(g, "a", "island", PathCriteria{OptimizeFor: SHORTEST_DISTANCE})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFindPathCached(t *testing.T) {
	g := line_graph()
	engine := NewPathfindingEngine(0)
	criteria := PathCriteria{OptimizeFor: SHORTEST_DISTANCE}
	engine.FindPath(g, "a", "d", criteria)
	engine.FindPath(g, "a", "d", criteria)
	stats := engine.Stats()
	if stats.SearchCount != 1 {
		t.Errorf("expected single search, got %v", stats.SearchCount)
	}
	if stats.CacheHits != 1 {
		t.Errorf("expected 1 cache hit, got %v", stats.CacheHits)
	}
}

func TestAdmissibility(t *testing.T) {
	g := grid_graph(5)
	criteria := PathCriteria{OptimizeFor: SHORTEST_DISTANCE}
	space := NewGraphSpace(g, criteria)

	astar_path, err := CalcAStar[string](space, "n_0_0", "n_4_4", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dijkstra_path, err := CalcDijkstra[string](space, "n_0_0", "n_4_4", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	astar_cost := path_cost(g, astar_path, criteria)
	dijkstra_cost := path_cost(g, dijkstra_path, criteria)
	if astar_cost > dijkstra_cost+1e-3 {
		t.Errorf("a-star path (%v) longer than dijkstra reference (%v)", astar_cost, dijkstra_cost)
	}
}

func TestAdmissibilityFastestTime(t *testing.T) {
	// a slow direct edge against a faster two-edge detour over 100-speed
	// roads, the detour is optimal in travel time
	g := graph.NewNetworkGraph(geo.NewPoint(-1000, -1000, -100), geo.NewPoint(1000, 1000, 100))
	g.AddNode(graph.GraphNode{ID: "a", Position: geo.NewPoint(0, 0, 0), Capacity: 100})
	g.AddNode(graph.GraphNode{ID: "b", Position: geo.NewPoint(200, 0, 0), Capacity: 100})
	g.AddNode(graph.GraphNode{ID: "m", Position: geo.NewPoint(100, 120, 0), Capacity: 100})
	g.AddEdge(graph.GraphEdge{ID: "direct", NodeA: "a", NodeB: "b", Type: graph.ROAD, Length: 200, SpeedLimit: 50, Condition: 1.0})
	g.AddEdge(graph.GraphEdge{ID: "fast_1", NodeA: "a", NodeB: "m", Type: graph.HIGHWAY, Length: 160, SpeedLimit: 100, Condition: 1.0})
	g.AddEdge(graph.GraphEdge{ID: "fast_2", NodeA: "m", NodeB: "b", Type: graph.HIGHWAY, Length: 160, SpeedLimit: 100, Condition: 1.0})

	criteria := PathCriteria{OptimizeFor: FASTEST_TIME}
	space := NewGraphSpace(g, criteria)

	astar_path, err := CalcAStar[string](space, "a", "b", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dijkstra_path, err := CalcDijkstra[string](space, "a", "b", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	astar_cost := path_cost(g, astar_path, criteria)
	dijkstra_cost := path_cost(g, dijkstra_path, criteria)
	if astar_cost > dijkstra_cost+1e-3 {
		t.Errorf("a-star path (%v) slower than dijkstra reference (%v)", astar_cost, dijkstra_cost)
	}
	if len(astar_path) != 3 || astar_path[1] != "m" {
		t.Errorf("expected the fast detour via m, got %v", astar_path)
	}
}

func TestDeterminism(t *testing.T) {
	g := grid_graph(5)
	space := NewGraphSpace(g, PathCriteria{OptimizeFor: SHORTEST_DISTANCE})
	first, err := CalcAStar[string](space, "n_0_0", "n_4_4", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for run := 0; run < 5; run++ {
		path, _ := CalcAStar[string](space, "n_0_0", "n_4_4", 0)
		if len(path) != len(first) {
			t.Fatalf("path length changed between runs")
		}
		for i := range path {
			if path[i] != first[i] {
				t.Fatalf("path differs between runs at index %v", i)
			}
		}
	}
}

func TestTollAvoidance(t *testing.T) {
	g := graph.NewNetworkGraph(geo.NewPoint(-1000, -1000, -100), geo.NewPoint(1000, 1000, 100))
	g.AddNode(graph.GraphNode{ID: "a", Position: geo.NewPoint(0, 0, 0), Capacity: 100})
	g.AddNode(graph.GraphNode{ID: "b", Position: geo.NewPoint(200, 0, 0), Capacity: 100})
	g.AddNode(graph.GraphNode{ID: "via", Position: geo.NewPoint(100, 100, 0), Capacity: 100})
	// direct toll road vs a longer free detour
	g.AddEdge(graph.GraphEdge{ID: "toll", NodeA: "a", NodeB: "b", Type: graph.HIGHWAY, Length: 200, SpeedLimit: 100, Condition: 1.0, TollCost: 5})
	g.AddEdge(graph.GraphEdge{ID: "d1", NodeA: "a", NodeB: "via", Type: graph.ROAD, Length: 150, SpeedLimit: 50, Condition: 1.0})
	g.AddEdge(graph.GraphEdge{ID: "d2", NodeA: "via", NodeB: "b", Type: graph.ROAD, Length: 150, SpeedLimit: 50, Condition: 1.0})

	space := NewGraphSpace(g, PathCriteria{OptimizeFor: SHORTEST_DISTANCE, AvoidTollRoads: true})
	path, err := CalcAStar[string](space, "a", "b", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) != 3 || path[1] != "via" {
		t.Errorf("expected detour around the toll road, got %v", path)
	}
}

func TestFreeSpaceSearch(t *testing.T) {
	sampler := NewFreeSpaceSampler()
	start := geo.NewPoint(0, 0, 0).Key()
	goal := geo.NewPoint(500, 0, 0).Key()
	path, err := CalcAStar[geo.PointKey](sampler, start, goal, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(path) != 6 {
		t.Errorf("expected 6 sampled points, got %v", len(path))
	}
	last := path[len(path)-1].Point()
	if last.Distance(geo.NewPoint(500, 0, 0)) >= GOAL_TOLERANCE {
		t.Errorf("final point %v not within goal tolerance", last)
	}
}

func TestFreeSpaceWaypoints(t *testing.T) {
	sampler := NewFreeSpaceSampler()
	start := geo.NewPoint(0, 0, 0).Key()
	goal := geo.NewPoint(400, 0, 0).Key()
	waypoints := []geo.PointKey{geo.NewPoint(200, 0, 0).Key()}
	path, err := CalcAStarWithWaypoints[geo.PointKey](sampler, start, goal, waypoints, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path[0] != start {
		t.Errorf("path must begin at the start point")
	}
	visited := false
	for _, key := range path {
		if key.Point().Distance(geo.NewPoint(200, 0, 0)) < GOAL_TOLERANCE {
			visited = true
		}
	}
	if !visited {
		t.Errorf("path must pass through the waypoint")
	}
}

func TestBudgetExceeded(t *testing.T) {
	sampler := NewFreeSpaceSampler()
	start := geo.NewPoint(0, 0, 0).Key()
	goal := geo.NewPoint(100000, 100000, 0).Key()
	_, err := CalcAStar[geo.PointKey](sampler, start, goal, 100)
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Errorf("expected ErrBudgetExceeded, got %v", err)
	}
}
