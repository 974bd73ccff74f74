package network

import (
	"fmt"

	"golang.org/x/exp/slog"

	"github.com/ttpr0/go-transport/analysis"
	"github.com/ttpr0/go-transport/geo"
	"github.com/ttpr0/go-transport/graph"
	"github.com/ttpr0/go-transport/maintenance"
	"github.com/ttpr0/go-transport/routing"
	"github.com/ttpr0/go-transport/traffic"
	. "github.com/ttpr0/go-transport/util"
)

//*******************************************
// transportation network
//*******************************************

// TransportationNetwork ties the graph, live traffic state, pathfinding,
// analysis and maintenance together behind one tick-driven facade. All
// mutation goes through this type; the subsystems never reach out on
// their own.
type TransportationNetwork struct {
	graph           *graph.NetworkGraph
	traffic_data    Dict[string, *traffic.TrafficData]
	infrastructure  *maintenance.InfrastructureManager
	engine          *routing.PathfindingEngine
	analyzer        *analysis.NetworkAnalyzer
	bottlenecks     *analysis.BottleneckDetector
	simulator       *analysis.FailureSimulator
	scheduler       *maintenance.MaintenanceScheduler
	metrics         NetworkMetrics
	recommended     Dict[string, bool]
	simulation_time float64
}

func NewTransportationNetwork(min, max geo.Point, max_expansions int) *TransportationNetwork {
	self := &TransportationNetwork{
		graph:          graph.NewNetworkGraph(min, max),
		traffic_data:   NewDict[string, *traffic.TrafficData](100),
		infrastructure: maintenance.NewInfrastructureManager(),
		engine:         routing.NewPathfindingEngine(max_expansions),
		analyzer:       analysis.NewNetworkAnalyzer(),
		bottlenecks:    analysis.NewBottleneckDetector(),
		simulator:      analysis.NewFailureSimulator(),
		recommended:    NewDict[string, bool](10),
	}
	allocator := maintenance.NewResourceAllocator(func() float64 { return self.simulation_time })
	self.scheduler = maintenance.NewMaintenanceScheduler(allocator)
	return self
}

func (self *TransportationNetwork) Graph() *graph.NetworkGraph {
	return self.graph
}

func (self *TransportationNetwork) Engine() *routing.PathfindingEngine {
	return self.engine
}

func (self *TransportationNetwork) Scheduler() *maintenance.MaintenanceScheduler {
	return self.scheduler
}

func (self *TransportationNetwork) Infrastructure() *maintenance.InfrastructureManager {
	return self.infrastructure
}

func (self *TransportationNetwork) Metrics() NetworkMetrics {
	return self.metrics
}

//*******************************************
// topology
//*******************************************

func (self *TransportationNetwork) AddNode(node graph.GraphNode) error {
	return self.graph.AddNode(node)
}

// AddEdge adds the edge and starts tracking traffic on it.
func (self *TransportationNetwork) AddEdge(edge graph.GraphEdge) error {
	if err := self.graph.AddEdge(edge); err != nil {
		return err
	}
	self.traffic_data.Set(edge.ID, traffic.NewTrafficData(edge.ID))
	return nil
}

func (self *TransportationNetwork) RemoveNode(id string) {
	for _, edge := range self.graph.EdgesAt(id) {
		self.traffic_data.Delete(edge.ID)
	}
	self.graph.RemoveNode(id)
}

func (self *TransportationNetwork) RemoveEdge(id string) {
	self.graph.RemoveEdge(id)
	self.traffic_data.Delete(id)
}

// TrafficDataFor returns the live traffic state of one edge.
func (self *TransportationNetwork) TrafficDataFor(edge_id string) (*traffic.TrafficData, bool) {
	if !self.traffic_data.ContainsKey(edge_id) {
		return nil, false
	}
	return self.traffic_data.Get(edge_id), true
}

// ReportIncident attaches an incident to an edge's traffic state.
func (self *TransportationNetwork) ReportIncident(edge_id string, incident traffic.TrafficIncident) error {
	if !self.traffic_data.ContainsKey(edge_id) {
		return fmt.Errorf("unknown edge %v", edge_id)
	}
	self.traffic_data.Get(edge_id).AddIncident(incident)
	return nil
}

//*******************************************
// operations
//*******************************************

func (self *TransportationNetwork) FindShortestPath(start, end string, criteria routing.PathCriteria) (routing.PathResult, error) {
	return self.engine.FindPath(self.graph, start, end, criteria)
}

func (self *TransportationNetwork) AnalyzeConnectivity() analysis.ConnectivityReport {
	return self.analyzer.AnalyzeConnectivity(self.graph)
}

func (self *TransportationNetwork) CalculateCentrality() []analysis.CentralityMetrics {
	return self.analyzer.CalculateCentrality(self.graph)
}

func (self *TransportationNetwork) DetectBottlenecks() []analysis.BottleneckRanking {
	return self.bottlenecks.DetectBottlenecks(self.graph, self.traffic_data)
}

func (self *TransportationNetwork) SimulateFailure(scenario analysis.FailureScenario) analysis.SimulationResult {
	return self.simulator.Simulate(scenario, self.graph)
}

func (self *TransportationNetwork) ScheduleMaintenanceTask(task maintenance.MaintenanceTask) error {
	return self.scheduler.ScheduleTask(task)
}

func (self *TransportationNetwork) OptimizeInfrastructureUpgrades(budget float64) []maintenance.PlannedUpgrade {
	return self.infrastructure.OptimizeUpgrades(budget)
}

//*******************************************
// tick
//*******************************************

// Update advances the network by delta seconds: traffic state, node loads,
// infrastructure checks, cache cleanup, maintenance dispatch, metrics.
func (self *TransportationNetwork) Update(delta float64) {
	self.simulation_time += delta
	hour := int(self.simulation_time/3600.0) % 24

	self.update_network_state(delta, hour)
	self.update_infrastructure(delta)
	self.engine.CleanupCache()
	self.scheduler.ProcessSchedulingQueue()
	self.metrics.Update(self.graph, self.traffic_data)
}

func (self *TransportationNetwork) update_network_state(delta float64, hour int) {
	for edge_id, data := range self.traffic_data {
		data.Update(delta, hour)
		if edge, ok := self.graph.GetEdge(edge_id); ok {
			edge.CurrentTraffic = data.Volume
		}
	}
	self.graph.UpdateNodeLoads()
}

// Capacity checks plus turning degraded assets into scheduled tasks. Each
// asset is recommended at most once until its task leaves the queue.
func (self *TransportationNetwork) update_infrastructure(delta float64) {
	self.infrastructure.UpdateInfrastructureState(delta)
	self.infrastructure.CheckCapacityUtilization()
	for _, task := range self.infrastructure.GenerateMaintenanceRecommendations() {
		if self.recommended.ContainsKey(task.ID) {
			continue
		}
		if err := self.scheduler.ScheduleTask(task); err != nil {
			slog.Warn("maintenance recommendation rejected", "task", task.ID, "error", err)
			continue
		}
		self.recommended.Set(task.ID, true)
	}
}
