package routing

import (
	"math"

	"github.com/ttpr0/go-transport/graph"
)

//*******************************************
// graph search space
//*******************************************

// GraphSpace searches along the edges of a NetworkGraph, weighting each edge
// by the criteria's optimization target.
type GraphSpace struct {
	graph     *graph.NetworkGraph
	criteria  PathCriteria
	max_speed float64
}

func NewGraphSpace(g *graph.NetworkGraph, criteria PathCriteria) GraphSpace {
	// the fastest-time heuristic divides by the highest speed limit in the
	// graph, a fixed divisor would overestimate on faster edges
	max_speed := 1.0
	for _, edge_id := range g.EdgeIDs() {
		if edge, ok := g.GetEdge(edge_id); ok && edge.SpeedLimit > max_speed {
			max_speed = edge.SpeedLimit
		}
	}
	return GraphSpace{graph: g, criteria: criteria, max_speed: max_speed}
}

func (self GraphSpace) Neighbors(node string) []string {
	return self.graph.Adjacency(node)
}

func (self GraphSpace) Cost(from, to string) float64 {
	_, cost, ok := cheapest_edge(self.graph, from, to, self.criteria)
	if !ok {
		return math.Inf(1)
	}
	return cost
}

// Scaled Euclidean distance. Every scale factor is a lower bound on the
// per-unit edge cost of its target, which keeps the heuristic admissible.
func (self GraphSpace) Heuristic(node, goal string) float64 {
	node_a, ok_a := self.graph.GetNode(node)
	node_b, ok_b := self.graph.GetNode(goal)
	if !ok_a || !ok_b {
		return math.Inf(1)
	}
	distance := node_a.Position.Distance(node_b.Position)
	switch self.criteria.OptimizeFor {
	case FASTEST_TIME:
		return distance / self.max_speed
	case LOWEST_COST:
		return distance * 0.1
	case ECO_FRIENDLY:
		return distance * 0.1
	default:
		return distance
	}
}

func (self GraphSpace) IsGoal(node, goal string) bool {
	return node == goal
}

//*******************************************
// edge weighting
//*******************************************

// Weight of a single edge under the given target.
func edge_cost(edge *graph.GraphEdge, criteria PathCriteria) float64 {
	var cost float64
	switch criteria.OptimizeFor {
	case SHORTEST_DISTANCE:
		cost = edge.Length
	case FASTEST_TIME:
		cost = edge.Length / math.Max(edge.SpeedLimit, 1.0)
	case LOWEST_COST:
		cost = edge.TollCost + edge.Length*0.1
	case LEAST_TRAFFIC:
		cost = edge.Length * (1.0 + edge.CurrentTraffic)
	case MOST_RELIABLE:
		cost = edge.Length * (2.0 - edge.Condition)
	case ECO_FRIENDLY:
		cost = edge.Length * edge.Type.EcoFactor()
	default:
		cost = edge.Length
	}
	if criteria.AvoidTollRoads && edge.TollCost > 0 {
		cost *= 10.0
	}
	return cost
}

// Of all edges between from and to, picks the one with the lowest weight
// under the criteria. Parallel edges are resolved here, never upstream.
func cheapest_edge(g *graph.NetworkGraph, from, to string, criteria PathCriteria) (*graph.GraphEdge, float64, bool) {
	var best *graph.GraphEdge
	best_cost := math.Inf(1)
	for _, edge := range g.EdgesBetween(from, to) {
		cost := edge_cost(edge, criteria)
		if cost < best_cost {
			best = edge
			best_cost = cost
		}
	}
	if best == nil {
		return nil, math.Inf(1), false
	}
	return best, best_cost, true
}
