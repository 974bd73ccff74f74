package analysis

import (
	"math"
	"sync"

	"github.com/panjf2000/ants/v2"
	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"

	"github.com/ttpr0/go-transport/graph"
	. "github.com/ttpr0/go-transport/util"
)

// Number of source nodes betweenness is sampled from. Exact betweenness is
// quadratic in the node count, sampling keeps analysis of large networks
// tractable.
const BETWEENNESS_SAMPLE_SIZE = 64

// Workers used for the per-source shortest-path sweeps.
const ANALYSIS_WORKERS = 4

//*******************************************
// connectivity analysis
//*******************************************

type ConnectivityReport struct {
	ConnectedComponents [][]string `json:"connected_components"`
	IsolatedNodes       []string   `json:"isolated_nodes"`
	OverallConnectivity float64    `json:"overall_connectivity"`
}

type CentralityMetrics struct {
	NodeID      string  `json:"node_id"`
	Degree      float64 `json:"degree"`
	Closeness   float64 `json:"closeness"`
	Betweenness float64 `json:"betweenness"`
}

// NetworkAnalyzer computes structural properties of a network graph. All
// methods treat the graph as read-only.
type NetworkAnalyzer struct{}

func NewNetworkAnalyzer() *NetworkAnalyzer {
	return &NetworkAnalyzer{}
}

// AnalyzeConnectivity finds the connected components of the network.
// Components are discovered by depth-first search; single nodes are reported
// separately as isolated.
func (self *NetworkAnalyzer) AnalyzeConnectivity(g *graph.NetworkGraph) ConnectivityReport {
	visited := NewDict[string, bool](g.NodeCount())
	components := make([][]string, 0)
	isolated := make([]string, 0)

	for _, node_id := range g.NodeIDs() {
		if visited.ContainsKey(node_id) {
			continue
		}
		component := depth_first_component(g, node_id, visited)
		slices.Sort(component)
		if len(component) > 1 {
			components = append(components, component)
		} else {
			isolated = append(isolated, component[0])
		}
	}

	return ConnectivityReport{
		ConnectedComponents: components,
		IsolatedNodes:       isolated,
		OverallConnectivity: overall_connectivity(g),
	}
}

func depth_first_component(g *graph.NetworkGraph, start string, visited Dict[string, bool]) []string {
	component := make([]string, 0)
	stack := []string{start}
	for len(stack) > 0 {
		node_id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited.ContainsKey(node_id) {
			continue
		}
		visited.Set(node_id, true)
		component = append(component, node_id)
		for _, neighbour := range g.Adjacency(node_id) {
			if !visited.ContainsKey(neighbour) {
				stack = append(stack, neighbour)
			}
		}
	}
	return component
}

// Ratio of existing edges to the edge count of a complete graph over the
// same nodes.
func overall_connectivity(g *graph.NetworkGraph) float64 {
	node_count := g.NodeCount()
	if node_count < 2 {
		return 0.0
	}
	max_edges := float64(node_count*(node_count-1)) / 2.0
	return float64(g.EdgeCount()) / max_edges
}

//*******************************************
// centrality
//*******************************************

// CalculateCentrality computes degree, closeness and sampled betweenness
// for every node. The per-source shortest-path sweeps run on a worker pool.
func (self *NetworkAnalyzer) CalculateCentrality(g *graph.NetworkGraph) []CentralityMetrics {
	node_ids := g.NodeIDs()
	node_count := len(node_ids)
	if node_count == 0 {
		return nil
	}

	betweenness := self.sample_betweenness(g, node_ids)

	metrics := make([]CentralityMetrics, 0, node_count)
	for _, node_id := range node_ids {
		degree := float64(len(g.Adjacency(node_id)))
		if node_count > 1 {
			degree /= float64(node_count - 1)
		}
		metrics = append(metrics, CentralityMetrics{
			NodeID:      node_id,
			Degree:      degree,
			Closeness:   closeness_centrality(g, node_id, node_count),
			Betweenness: betweenness.Get(node_id),
		})
	}
	return metrics
}

func closeness_centrality(g *graph.NetworkGraph, source string, node_count int) float64 {
	distances := shortest_distances(g, source)
	total := 0.0
	reached := 0
	for node_id, distance := range distances {
		if node_id == source {
			continue
		}
		total += distance
		reached += 1
	}
	if total == 0 || reached == 0 {
		return 0.0
	}
	return float64(reached) / total
}

// Betweenness by dependency accumulation from a sample of source nodes.
// Sources are taken in sorted node order so repeated runs agree.
func (self *NetworkAnalyzer) sample_betweenness(g *graph.NetworkGraph, node_ids []string) Dict[string, float64] {
	sample_size := len(node_ids)
	if sample_size > BETWEENNESS_SAMPLE_SIZE {
		sample_size = BETWEENNESS_SAMPLE_SIZE
	}
	sources := node_ids[:sample_size]

	betweenness := NewDict[string, float64](len(node_ids))
	var lock sync.Mutex
	var wg sync.WaitGroup

	pool, err := ants.NewPool(ANALYSIS_WORKERS)
	if err != nil {
		slog.Warn("failed to create analysis pool, falling back to sequential sweeps", "error", err)
		for _, source := range sources {
			accumulate_dependencies(g, source, betweenness, &lock)
		}
		return betweenness
	}
	defer pool.Release()

	for _, source := range sources {
		source := source
		wg.Add(1)
		submit_err := pool.Submit(func() {
			defer wg.Done()
			accumulate_dependencies(g, source, betweenness, &lock)
		})
		if submit_err != nil {
			wg.Done()
			slog.Warn("betweenness sweep not scheduled", "source", source, "error", submit_err)
		}
	}
	wg.Wait()
	return betweenness
}

// Single-source stage of the Brandes accumulation: shortest-path counts by
// Dijkstra, then dependencies pushed back in reverse settlement order.
func accumulate_dependencies(g *graph.NetworkGraph, source string, betweenness Dict[string, float64], lock *sync.Mutex) {
	distance := NewDict[string, float64](g.NodeCount())
	sigma := NewDict[string, float64](g.NodeCount())
	predecessors := NewDict[string, []string](g.NodeCount())
	settled := make([]string, 0, g.NodeCount())
	closed := NewDict[string, bool](g.NodeCount())

	sigma.Set(source, 1.0)
	distance.Set(source, 0.0)
	heap := NewPriorityQueue[string, float64](g.NodeCount())
	heap.Enqueue(source, 0.0)

	for {
		node_id, ok := heap.Dequeue()
		if !ok {
			break
		}
		if closed.ContainsKey(node_id) {
			continue
		}
		closed.Set(node_id, true)
		settled = append(settled, node_id)

		for _, neighbour := range g.Adjacency(node_id) {
			edge_length, ok := cheapest_edge_length(g, node_id, neighbour)
			if !ok {
				continue
			}
			candidate := distance.Get(node_id) + edge_length
			if !distance.ContainsKey(neighbour) || candidate < distance.Get(neighbour) {
				distance.Set(neighbour, candidate)
				sigma.Set(neighbour, sigma.Get(node_id))
				predecessors.Set(neighbour, []string{node_id})
				heap.Enqueue(neighbour, candidate)
			} else if candidate == distance.Get(neighbour) {
				sigma.Set(neighbour, sigma.Get(neighbour)+sigma.Get(node_id))
				predecessors.Set(neighbour, append(predecessors.Get(neighbour), node_id))
			}
		}
	}

	dependency := NewDict[string, float64](len(settled))
	for i := len(settled) - 1; i >= 0; i-- {
		node_id := settled[i]
		for _, predecessor := range predecessors.Get(node_id) {
			share := sigma.Get(predecessor) / sigma.Get(node_id) * (1.0 + dependency.Get(node_id))
			dependency.Set(predecessor, dependency.Get(predecessor)+share)
		}
	}

	lock.Lock()
	for node_id, value := range dependency {
		if node_id == source {
			continue
		}
		betweenness.Set(node_id, betweenness.Get(node_id)+value)
	}
	lock.Unlock()
}

// Shortest distances from source over edge lengths, parallel edges collapse
// to the shortest one.
func shortest_distances(g *graph.NetworkGraph, source string) Dict[string, float64] {
	distance := NewDict[string, float64](g.NodeCount())
	closed := NewDict[string, bool](g.NodeCount())
	distance.Set(source, 0.0)
	heap := NewPriorityQueue[string, float64](g.NodeCount())
	heap.Enqueue(source, 0.0)

	for {
		node_id, ok := heap.Dequeue()
		if !ok {
			break
		}
		if closed.ContainsKey(node_id) {
			continue
		}
		closed.Set(node_id, true)
		for _, neighbour := range g.Adjacency(node_id) {
			edge_length, ok := cheapest_edge_length(g, node_id, neighbour)
			if !ok {
				continue
			}
			candidate := distance.Get(node_id) + edge_length
			if !distance.ContainsKey(neighbour) || candidate < distance.Get(neighbour) {
				distance.Set(neighbour, candidate)
				heap.Enqueue(neighbour, candidate)
			}
		}
	}
	return distance
}

func cheapest_edge_length(g *graph.NetworkGraph, from, to string) (float64, bool) {
	best := math.Inf(1)
	found := false
	for _, edge := range g.EdgesBetween(from, to) {
		if edge.Length < best {
			best = edge.Length
			found = true
		}
	}
	return best, found
}
