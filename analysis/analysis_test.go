package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttpr0/go-transport/geo"
	"github.com/ttpr0/go-transport/graph"
	"github.com/ttpr0/go-transport/traffic"
	. "github.com/ttpr0/go-transport/util"
)

// Two triangles joined at b, plus an isolated node far away.
//
//	a - b - c
//	 \ /|
//	  d e - f
func test_graph(t *testing.T) *graph.NetworkGraph {
	g := graph.NewNetworkGraph(geo.NewPoint(-1000, -1000, 0), geo.NewPoint(1000, 1000, 0))
	nodes := map[string]geo.Point{
		"a":        geo.NewPoint(0, 0, 0),
		"b":        geo.NewPoint(100, 0, 0),
		"c":        geo.NewPoint(200, 0, 0),
		"d":        geo.NewPoint(50, 100, 0),
		"e":        geo.NewPoint(100, 100, 0),
		"f":        geo.NewPoint(200, 100, 0),
		"isolated": geo.NewPoint(900, 900, 0),
	}
	for id, position := range nodes {
		require.NoError(t, g.AddNode(graph.GraphNode{ID: id, Position: position, Type: graph.INTERSECTION, Capacity: 100}))
	}
	edges := [][2]string{{"a", "b"}, {"b", "c"}, {"a", "d"}, {"b", "d"}, {"b", "e"}, {"e", "f"}}
	for _, pair := range edges {
		require.NoError(t, g.AddEdge(graph.GraphEdge{
			ID:        "edge_" + pair[0] + pair[1],
			NodeA:     pair[0],
			NodeB:     pair[1],
			Type:      graph.ROAD,
			Capacity:  100,
			Condition: 1.0,
		}))
	}
	return g
}

func TestAnalyzeConnectivity(t *testing.T) {
	g := test_graph(t)
	report := NewNetworkAnalyzer().AnalyzeConnectivity(g)

	require.Len(t, report.ConnectedComponents, 1)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, report.ConnectedComponents[0])
	assert.Equal(t, []string{"isolated"}, report.IsolatedNodes)
	// 6 edges out of 7*6/2 possible
	assert.InDelta(t, 6.0/21.0, report.OverallConnectivity, 1e-9)
}

func TestCentralityHighestAtHub(t *testing.T) {
	g := test_graph(t)
	metrics := NewNetworkAnalyzer().CalculateCentrality(g)

	by_node := NewDict[string, CentralityMetrics](len(metrics))
	for _, metric := range metrics {
		by_node.Set(metric.NodeID, metric)
	}

	hub := by_node.Get("b")
	assert.InDelta(t, 4.0/6.0, hub.Degree, 1e-9)
	for _, metric := range metrics {
		if metric.NodeID == "b" {
			continue
		}
		assert.LessOrEqual(t, metric.Degree, hub.Degree)
		assert.LessOrEqual(t, metric.Betweenness, hub.Betweenness)
	}
	assert.Greater(t, hub.Betweenness, 0.0)
	assert.Equal(t, 0.0, by_node.Get("isolated").Closeness)
}

func TestDetectBottlenecksRanked(t *testing.T) {
	g := test_graph(t)
	ab, _ := g.GetEdge("edge_ab")
	ab.CurrentTraffic = 95
	bc, _ := g.GetEdge("edge_bc")
	bc.CurrentTraffic = 50

	traffic_data := NewDict[string, *traffic.TrafficData](2)
	severe := traffic.NewTrafficData("edge_ab")
	severe.CongestionLevel = 0.9
	traffic_data.Set("edge_ab", severe)
	mild := traffic.NewTrafficData("edge_bc")
	mild.CongestionLevel = 0.85
	traffic_data.Set("edge_bc", mild)

	rankings := NewBottleneckDetector().DetectBottlenecks(g, traffic_data)

	require.Len(t, rankings, 2)
	assert.Equal(t, "edge_ab", rankings[0].LocationID)
	assert.InDelta(t, 0.9*0.95, rankings[0].SeverityScore, 1e-9)
	assert.Equal(t, "edge_bc", rankings[1].LocationID)
	assert.InDelta(t, 200.0, rankings[0].ImpactRadius, 1e-9)
}

func TestDetectBottlenecksBelowThresholds(t *testing.T) {
	g := test_graph(t)
	traffic_data := NewDict[string, *traffic.TrafficData](1)
	calm := traffic.NewTrafficData("edge_ab")
	calm.CongestionLevel = 0.5
	traffic_data.Set("edge_ab", calm)

	rankings := NewBottleneckDetector().DetectBottlenecks(g, traffic_data)
	assert.Empty(t, rankings)
}

func TestBottleneckEconomicImpact(t *testing.T) {
	data := traffic.NewTrafficData("edge_ab")
	data.CongestionLevel = 0.9
	data.AddIncident(traffic.TrafficIncident{ID: "inc_1", Type: traffic.ACCIDENT, Severity: 1.0, Duration: 2.0})
	assert.InDelta(t, 100.0, economic_impact(data), 1e-9)
}

func TestSimulateNodeFailure(t *testing.T) {
	g := test_graph(t)
	simulator := NewFailureSimulator()

	result := simulator.Simulate(FailureScenario{
		ScenarioID:       "scenario_1",
		FailedComponents: []string{"b"},
		FailureType:      COMPONENT_FAILURE,
		Duration:         4.0,
	}, g)

	assert.Less(t, result.NetworkPerformance, 1.0)
	assert.InDelta(t, 0.9, result.NetworkPerformance, 1e-6)
	assert.Equal(t, 100, result.AffectedUsers)
	assert.InDelta(t, 6.0, result.RecoveryTime, 1e-9)
	assert.InDelta(t, 100*6.0*10.0, result.EconomicLoss, 1e-6)

	// the input graph stays intact
	_, ok := g.GetNode("b")
	assert.True(t, ok)
	assert.Equal(t, 6, g.EdgeCount())
	require.Len(t, simulator.Results(), 1)
}

func TestSimulateMixedFailure(t *testing.T) {
	g := test_graph(t)
	result := NewFailureSimulator().Simulate(FailureScenario{
		ScenarioID:       "scenario_2",
		FailedComponents: []string{"b", "edge_ef", "unknown"},
		FailureType:      CASCADING_FAILURE,
		Duration:         2.0,
	}, g)

	assert.Equal(t, 150, result.AffectedUsers)
	assert.InDelta(t, 1.0-0.1-0.05, result.NetworkPerformance, 1e-6)
}
