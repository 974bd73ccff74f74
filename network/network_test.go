package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ttpr0/go-transport/analysis"
	"github.com/ttpr0/go-transport/geo"
	"github.com/ttpr0/go-transport/graph"
	"github.com/ttpr0/go-transport/maintenance"
	"github.com/ttpr0/go-transport/routing"
	"github.com/ttpr0/go-transport/traffic"
)

// a - b - c with a slower detour a - d - c
func test_network(t *testing.T) *TransportationNetwork {
	net := NewTransportationNetwork(geo.NewPoint(-1000, -1000, 0), geo.NewPoint(1000, 1000, 0), 0)
	nodes := map[string]geo.Point{
		"a": geo.NewPoint(0, 0, 0),
		"b": geo.NewPoint(100, 0, 0),
		"c": geo.NewPoint(200, 0, 0),
		"d": geo.NewPoint(100, 300, 0),
	}
	for id, position := range nodes {
		require.NoError(t, net.AddNode(graph.GraphNode{ID: id, Position: position, Type: graph.INTERSECTION, Capacity: 10}))
	}
	edges := [][2]string{{"a", "b"}, {"b", "c"}, {"a", "d"}, {"d", "c"}}
	for _, pair := range edges {
		require.NoError(t, net.AddEdge(graph.GraphEdge{
			ID:        "edge_" + pair[0] + pair[1],
			NodeA:     pair[0],
			NodeB:     pair[1],
			Type:      graph.ROAD,
			Capacity:  1000,
			Condition: 1.0,
		}))
	}
	return net
}

func TestFindShortestPath(t *testing.T) {
	net := test_network(t)
	result, err := net.FindShortestPath("a", "c", routing.PathCriteria{OptimizeFor: routing.SHORTEST_DISTANCE})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, result.Path)
	assert.InDelta(t, 200.0, result.TotalDistance, 1e-6)
}

func TestAddEdgeTracksTraffic(t *testing.T) {
	net := test_network(t)
	data, ok := net.TrafficDataFor("edge_ab")
	require.True(t, ok)
	assert.Equal(t, "edge_ab", data.EdgeID)

	net.RemoveEdge("edge_ab")
	_, ok = net.TrafficDataFor("edge_ab")
	assert.False(t, ok)
}

func TestUpdateSyncsTrafficToGraph(t *testing.T) {
	net := test_network(t)
	data, _ := net.TrafficDataFor("edge_ab")
	data.Volume = 900

	net.Update(1.0)

	edge, _ := net.Graph().GetEdge("edge_ab")
	assert.InDelta(t, 900.0, edge.CurrentTraffic, 1e-6)
	assert.InDelta(t, 0.9, data.CongestionLevel, 1e-6)

	metrics := net.Metrics()
	assert.Equal(t, 4, metrics.TotalNodes)
	assert.Equal(t, 4, metrics.TotalEdges)
	assert.Equal(t, []string{"edge_ab"}, metrics.BottleneckPoints)
	assert.InDelta(t, 2.0, metrics.AverageConnectivity, 1e-9)
}

func TestDetectBottlenecksFacade(t *testing.T) {
	net := test_network(t)
	data, _ := net.TrafficDataFor("edge_ab")
	data.Volume = 900
	net.Update(1.0)

	rankings := net.DetectBottlenecks()
	require.Len(t, rankings, 1)
	assert.Equal(t, "edge_ab", rankings[0].LocationID)
}

func TestSimulateFailureLeavesNetworkIntact(t *testing.T) {
	net := test_network(t)
	result := net.SimulateFailure(analysis.FailureScenario{
		ScenarioID:       "scenario_1",
		FailedComponents: []string{"b"},
		FailureType:      analysis.COMPONENT_FAILURE,
		Duration:         2.0,
	})

	assert.Less(t, result.NetworkPerformance, 1.0)
	assert.Equal(t, 100, result.AffectedUsers)
	_, ok := net.Graph().GetNode("b")
	assert.True(t, ok)

	// the unchanged network still routes through b
	path, err := net.FindShortestPath("a", "c", routing.PathCriteria{OptimizeFor: routing.SHORTEST_DISTANCE})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, path.Path)
}

func TestMaintenanceRecommendedOnce(t *testing.T) {
	net := test_network(t)
	net.Infrastructure().Register(maintenance.InfrastructureData{
		ID:              "bridge_1",
		Condition:       0.4,
		Utilization:     0.5,
		MaintenanceCost: 1000,
	})
	allocator := net.Scheduler().Allocator()
	allocator.AddResource(maintenance.Resource{ResourceID: "eng_1", ResourceType: "engineer", Capacity: 1})
	allocator.AddResource(maintenance.Resource{ResourceID: "crew_1", ResourceType: "repair_crew", Capacity: 1})
	allocator.AddResource(maintenance.Resource{ResourceID: "parts_1", ResourceType: "replacement_parts", Capacity: 5})

	net.Update(1.0)
	require.Len(t, net.Scheduler().Dispatched(), 1)
	assert.Equal(t, "maint_bridge_1", net.Scheduler().Dispatched()[0].Task.ID)

	// the same degraded asset is not recommended again next tick
	net.Update(1.0)
	assert.Len(t, net.Scheduler().Dispatched(), 1)
	assert.Equal(t, 0, net.Scheduler().QueueLength())
}

func TestScheduleMaintenanceTaskValidated(t *testing.T) {
	net := test_network(t)
	err := net.ScheduleMaintenanceTask(maintenance.MaintenanceTask{ID: "task_1", EstimatedDuration: 0})
	assert.Error(t, err)
}

func TestOptimizeInfrastructureUpgrades(t *testing.T) {
	net := test_network(t)
	net.Infrastructure().Planner().AddUpgrade(maintenance.PlannedUpgrade{ID: "upgrade_1", EstimatedCost: 100, ExpectedBenefit: 300})
	net.Infrastructure().Planner().AddUpgrade(maintenance.PlannedUpgrade{ID: "upgrade_2", EstimatedCost: 500, ExpectedBenefit: 600})

	selected := net.OptimizeInfrastructureUpgrades(150)
	require.Len(t, selected, 1)
	assert.Equal(t, "upgrade_1", selected[0].ID)
}

func TestReportIncidentUnknownEdge(t *testing.T) {
	net := test_network(t)
	assert.Error(t, net.ReportIncident("edge_zz", traffic.TrafficIncident{ID: "inc_1"}))
}
