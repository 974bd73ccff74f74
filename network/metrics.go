package network

import (
	"golang.org/x/exp/slices"

	"github.com/ttpr0/go-transport/graph"
	"github.com/ttpr0/go-transport/traffic"
	. "github.com/ttpr0/go-transport/util"
)

// Congestion level above which an edge counts as a bottleneck point.
const METRIC_BOTTLENECK_CONGESTION = 0.8

// NetworkMetrics is the aggregate health snapshot recomputed every tick.
type NetworkMetrics struct {
	TotalNodes          int      `json:"total_nodes"`
	TotalEdges          int      `json:"total_edges"`
	AverageConnectivity float64  `json:"average_connectivity"`
	NetworkEfficiency   float64  `json:"network_efficiency"`
	BottleneckPoints    []string `json:"bottleneck_points"`
	RedundancyLevel     float64  `json:"redundancy_level"`
}

func (self *NetworkMetrics) Update(g *graph.NetworkGraph, traffic_data Dict[string, *traffic.TrafficData]) {
	self.TotalNodes = g.NodeCount()
	self.TotalEdges = g.EdgeCount()
	self.update_average_connectivity(g)
	self.update_network_efficiency(g)
	self.update_bottleneck_points(traffic_data)
	self.update_redundancy_level(g)
}

// Mean node degree.
func (self *NetworkMetrics) update_average_connectivity(g *graph.NetworkGraph) {
	if g.NodeCount() == 0 {
		self.AverageConnectivity = 0.0
		return
	}
	total_degree := 0
	for _, node_id := range g.NodeIDs() {
		total_degree += len(g.Adjacency(node_id))
	}
	self.AverageConnectivity = float64(total_degree) / float64(g.NodeCount())
}

// Edge count relative to a complete graph over the same nodes.
func (self *NetworkMetrics) update_network_efficiency(g *graph.NetworkGraph) {
	if g.NodeCount() < 2 {
		self.NetworkEfficiency = 0.0
		return
	}
	max_edges := float64(g.NodeCount()*(g.NodeCount()-1)) / 2.0
	self.NetworkEfficiency = float64(g.EdgeCount()) / max_edges
}

func (self *NetworkMetrics) update_bottleneck_points(traffic_data Dict[string, *traffic.TrafficData]) {
	points := make([]string, 0)
	for edge_id, data := range traffic_data {
		if data.CongestionLevel > METRIC_BOTTLENECK_CONGESTION {
			points = append(points, edge_id)
		}
	}
	slices.Sort(points)
	self.BottleneckPoints = points
}

// Nodes with more than two connections provide alternative paths; the
// surplus degree averaged over all nodes approximates redundancy.
func (self *NetworkMetrics) update_redundancy_level(g *graph.NetworkGraph) {
	if g.NodeCount() < 2 {
		self.RedundancyLevel = 0.0
		return
	}
	total := 0.0
	for _, node_id := range g.NodeIDs() {
		degree := len(g.Adjacency(node_id))
		if degree > 2 {
			total += float64(degree - 2)
		}
	}
	self.RedundancyLevel = total / float64(g.NodeCount())
}
