package main

import (
	"net/http"

	"golang.org/x/exp/slog"
)

var MANAGER *TransportManager

func main() {
	SetupLogging()

	config := ReadConfig("./config.yaml")
	MANAGER = NewTransportManager(config)

	app := http.DefaultServeMux

	MapPost(app, "/v0/routes/plan", HandlePlanRoute)
	MapPost(app, "/v0/routes/replan", HandleReplanRoute)
	MapPost(app, "/v0/routes/alternatives", HandleAlternativeRoutes)
	MapPost(app, "/v0/routes/statistics", HandleRouteStatistics)
	MapPost(app, "/v0/traffic/feed", HandleTrafficFeed)
	MapPost(app, "/v0/traffic/incident", HandleReportIncident)

	MapPost(app, "/v0/network/nodes", HandleAddNode)
	MapPost(app, "/v0/network/edges", HandleAddEdge)
	MapPost(app, "/v0/network/paths", HandleFindPath)
	MapGet(app, "/v0/network/connectivity", HandleConnectivity)
	MapGet(app, "/v0/network/centrality", HandleCentrality)
	MapGet(app, "/v0/network/bottlenecks", HandleBottlenecks)
	MapPost(app, "/v0/network/simulate-failure", HandleSimulateFailure)
	MapGet(app, "/v0/network/metrics", HandleNetworkMetrics)
	MapGet(app, "/v0/network/stats", HandlePathfindingStats)

	MapPost(app, "/v0/maintenance/tasks", HandleScheduleMaintenance)
	MapPost(app, "/v0/maintenance/upgrades", HandleOptimizeUpgrades)

	go MANAGER.RunTicker(config.Network.TickSeconds)

	slog.Info("listening on " + config.Server.Address)
	http.ListenAndServe(config.Server.Address, nil)
}
