package planner

import (
	"golang.org/x/exp/slog"

	"github.com/ttpr0/go-transport/traffic"
)

//*******************************************
// real-time adaptation
//*******************************************

// IAdapterStage is one pass of the real-time adapter. A stage may return its
// input unchanged; a failing stage is skipped.
type IAdapterStage interface {
	Name() string
	Apply(route RouteResult) (RouteResult, error)
}

// RealTimeAdapter reworks a planned route against live conditions. Stages
// run in a fixed order: traffic adjustment, incident detour, weather
// adjustment, road condition adjustment.
type RealTimeAdapter struct {
	stages []IAdapterStage
}

func NewRealTimeAdapter(predictor *traffic.TrafficPredictor) *RealTimeAdapter {
	return &RealTimeAdapter{
		stages: []IAdapterStage{
			traffic_adjustment_stage{predictor: predictor},
			incident_detour_stage{predictor: predictor},
			weather_adjustment_stage{},
			road_condition_stage{},
		},
	}
}

func (self *RealTimeAdapter) AdaptToConditions(route RouteResult) RouteResult {
	adapted := route
	for _, stage := range self.stages {
		result, err := stage.Apply(adapted)
		if err != nil {
			slog.Warn("adapter stage failed", "stage", stage.Name(), "error", err)
			continue
		}
		adapted = result
	}
	return adapted
}

//*******************************************
// stages
//*******************************************

// Reclassifies each segment's traffic level from the latest predictor
// sample and reprices the durations accordingly.
type traffic_adjustment_stage struct {
	predictor *traffic.TrafficPredictor
}

func (self traffic_adjustment_stage) Name() string {
	return "traffic_adjustment"
}
func (self traffic_adjustment_stage) Apply(route RouteResult) (RouteResult, error) {
	if self.predictor == nil || len(route.ModeSegments) > 0 {
		return route, nil
	}
	changed := false
	segments := make([]RouteSegment, len(route.RouteSegments))
	for i, segment := range route.RouteSegments {
		if conditions, ok := self.predictor.CurrentConditions(segment.StartPoint); ok {
			level := LIGHT
			if conditions.CongestionLevel > 0.7 {
				level = HEAVY
			} else if conditions.CongestionLevel > 0.4 {
				level = MODERATE
			}
			if level != segment.TrafficConditions {
				segment.TrafficConditions = level
				changed = true
			}
		}
		segments[i] = segment
	}
	if !changed {
		return route, nil
	}
	route.RouteSegments = segments
	return recompute_durations(route), nil
}

// Surfaces known incidents as a confidence penalty; rerouting around them is
// the replanning path's job, not a silent in-place detour.
type incident_detour_stage struct {
	predictor *traffic.TrafficPredictor
}

func (self incident_detour_stage) Name() string {
	return "incident_detour"
}
func (self incident_detour_stage) Apply(route RouteResult) (RouteResult, error) {
	if self.predictor == nil {
		return route, nil
	}
	incident_count := 0
	for _, segment := range route.RouteSegments {
		if conditions, ok := self.predictor.CurrentConditions(segment.StartPoint); ok {
			incident_count += conditions.IncidentCount
		}
	}
	if incident_count == 0 {
		return route, nil
	}
	confidence := route.OriginalRequest.PlanningType.ConfidenceScore() - 0.05*float64(incident_count)
	if confidence < 0.5 {
		confidence = 0.5
	}
	route.ConfidenceScore = confidence
	return route, nil
}

type weather_adjustment_stage struct{}

func (self weather_adjustment_stage) Name() string {
	return "weather_adjustment"
}
func (self weather_adjustment_stage) Apply(route RouteResult) (RouteResult, error) {
	return route, nil
}

type road_condition_stage struct{}

func (self road_condition_stage) Name() string {
	return "road_condition_adjustment"
}
func (self road_condition_stage) Apply(route RouteResult) (RouteResult, error) {
	return route, nil
}
