package main

import (
	"github.com/ttpr0/go-transport/analysis"
	"github.com/ttpr0/go-transport/geo"
	"github.com/ttpr0/go-transport/graph"
	"github.com/ttpr0/go-transport/maintenance"
	"github.com/ttpr0/go-transport/planner"
	"github.com/ttpr0/go-transport/routing"
	"github.com/ttpr0/go-transport/traffic"
)

//**********************************************************
// route planning handlers
//**********************************************************

func HandlePlanRoute(request planner.RouteRequest) Result {
	var result planner.RouteResult
	var err error
	MANAGER.WithLock(func() {
		result, err = MANAGER.planner.PlanRoute(request)
	})
	if err != nil {
		return BadRequest(err.Error())
	}
	return OK(result)
}

type ReplanRequest struct {
	Route    planner.RouteResult  `json:"route"`
	Position geo.Point            `json:"position"`
	Reason   planner.ReplanReason `json:"reason"`
}

func HandleReplanRoute(request ReplanRequest) Result {
	var result planner.RouteResult
	var err error
	MANAGER.WithLock(func() {
		result, err = MANAGER.planner.ReplanRoute(request.Route, request.Position, request.Reason)
	})
	if err != nil {
		return BadRequest(err.Error())
	}
	return OK(result)
}

type AlternativesRequest struct {
	Route planner.RouteResult `json:"route"`
	Count int                 `json:"count"`
}

func HandleAlternativeRoutes(request AlternativesRequest) Result {
	var alternatives []planner.RouteResult
	MANAGER.WithLock(func() {
		alternatives = MANAGER.planner.GetAlternativeRoutes(request.Route, request.Count)
	})
	return OK(alternatives)
}

func HandleRouteStatistics(route planner.RouteResult) Result {
	return OK(MANAGER.planner.GetRouteStatistics(route))
}

func HandleTrafficFeed(feed traffic.TrafficFeed) Result {
	MANAGER.WithLock(func() {
		MANAGER.planner.UpdateTrafficConditions(feed)
	})
	return OK(true)
}

//**********************************************************
// network handlers
//**********************************************************

func HandleAddNode(node graph.GraphNode) Result {
	var err error
	MANAGER.WithLock(func() {
		err = MANAGER.network.AddNode(node)
	})
	if err != nil {
		return BadRequest(err.Error())
	}
	return OK(node.ID)
}

func HandleAddEdge(edge graph.GraphEdge) Result {
	var err error
	MANAGER.WithLock(func() {
		err = MANAGER.network.AddEdge(edge)
	})
	if err != nil {
		return BadRequest(err.Error())
	}
	return OK(edge.ID)
}

type PathRequest struct {
	Start    string               `json:"start"`
	End      string               `json:"end"`
	Criteria routing.PathCriteria `json:"criteria"`
}

func HandleFindPath(request PathRequest) Result {
	var result routing.PathResult
	var err error
	MANAGER.WithLock(func() {
		result, err = MANAGER.network.FindShortestPath(request.Start, request.End, request.Criteria)
	})
	if err != nil {
		return BadRequest(err.Error())
	}
	return OK(result)
}

type IncidentRequest struct {
	EdgeID   string                  `json:"edge_id"`
	Incident traffic.TrafficIncident `json:"incident"`
}

func HandleReportIncident(request IncidentRequest) Result {
	var err error
	MANAGER.WithLock(func() {
		err = MANAGER.network.ReportIncident(request.EdgeID, request.Incident)
	})
	if err != nil {
		return BadRequest(err.Error())
	}
	return OK(true)
}

func HandleConnectivity(_ none) Result {
	var report analysis.ConnectivityReport
	MANAGER.WithLock(func() {
		report = MANAGER.network.AnalyzeConnectivity()
	})
	return OK(report)
}

func HandleCentrality(_ none) Result {
	var metrics []analysis.CentralityMetrics
	MANAGER.WithLock(func() {
		metrics = MANAGER.network.CalculateCentrality()
	})
	return OK(metrics)
}

func HandleBottlenecks(_ none) Result {
	var rankings []analysis.BottleneckRanking
	MANAGER.WithLock(func() {
		rankings = MANAGER.network.DetectBottlenecks()
	})
	return OK(rankings)
}

func HandleSimulateFailure(scenario analysis.FailureScenario) Result {
	var result analysis.SimulationResult
	MANAGER.WithLock(func() {
		result = MANAGER.network.SimulateFailure(scenario)
	})
	return OK(result)
}

func HandleNetworkMetrics(_ none) Result {
	return OK(MANAGER.network.Metrics())
}

func HandlePathfindingStats(_ none) Result {
	return OK(MANAGER.network.Engine().Stats())
}

//**********************************************************
// maintenance handlers
//**********************************************************

func HandleScheduleMaintenance(task maintenance.MaintenanceTask) Result {
	var err error
	MANAGER.WithLock(func() {
		err = MANAGER.network.ScheduleMaintenanceTask(task)
	})
	if err != nil {
		return BadRequest(err.Error())
	}
	return OK(task.ID)
}

type UpgradeRequest struct {
	Budget float64 `json:"budget"`
}

func HandleOptimizeUpgrades(request UpgradeRequest) Result {
	budget := request.Budget
	if budget <= 0 {
		budget = MANAGER.budget
	}
	var upgrades []maintenance.PlannedUpgrade
	MANAGER.WithLock(func() {
		upgrades = MANAGER.network.OptimizeInfrastructureUpgrades(budget)
	})
	return OK(upgrades)
}
