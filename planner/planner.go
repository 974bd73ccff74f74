package planner

import (
	"fmt"
	"math"

	"golang.org/x/exp/slices"
	"golang.org/x/exp/slog"

	"github.com/ttpr0/go-transport/cache"
	"github.com/ttpr0/go-transport/geo"
	"github.com/ttpr0/go-transport/routing"
	"github.com/ttpr0/go-transport/traffic"
)

// Distance below which a waypoint counts as visited during replanning.
const WAYPOINT_VISITED_DISTANCE = 100.0

// Speed assumed on free-space segments without further road information.
const DEFAULT_SPEED_LIMIT = 50.0

//*******************************************
// route planner
//*******************************************

// RoutePlanner is the free-space planning orchestrator. It owns the route
// cache and the traffic predictor; traffic data is pushed in through
// UpdateTrafficConditions, planning never pulls external state.
type RoutePlanner struct {
	optimizer      *RouteOptimizer
	multimodal     *MultiModalPlanner
	adapter        *RealTimeAdapter
	cache          *RouteCache
	predictor      *traffic.TrafficPredictor
	preferences    UserRoutePreferences
	idgen          IIdGenerator
	max_expansions int
}

func NewRoutePlanner(idgen IIdGenerator, max_expansions int) *RoutePlanner {
	return NewRoutePlannerWithPolicy(idgen, max_expansions, cache.LRU)
}

func NewRoutePlannerWithPolicy(idgen IIdGenerator, max_expansions int, policy cache.EvictionPolicy) *RoutePlanner {
	predictor := traffic.NewTrafficPredictor()
	return &RoutePlanner{
		optimizer:      NewRouteOptimizer(),
		multimodal:     NewMultiModalPlanner(),
		adapter:        NewRealTimeAdapter(predictor),
		cache:          NewRouteCache(policy),
		predictor:      predictor,
		preferences:    DefaultUserRoutePreferences(),
		idgen:          idgen,
		max_expansions: max_expansions,
	}
}

func (self *RoutePlanner) Predictor() *traffic.TrafficPredictor {
	return self.predictor
}

func (self *RoutePlanner) Optimizer() *RouteOptimizer {
	return self.optimizer
}

// PlanRoute runs the full planning pipeline: cached lookup, path search per
// planning type, optimization passes, real-time adaptation.
func (self *RoutePlanner) PlanRoute(request RouteRequest) (RouteResult, error) {
	if cached, ok := self.cache.Get(request); ok {
		if self.is_route_still_valid(cached) {
			return cached, nil
		}
	}

	var route RouteResult
	var err error
	if request.PlanningType == MULTI_MODAL {
		route, err = self.multimodal.PlanCombinedRoute(request, self.idgen)
	} else {
		route, err = self.plan_unimodal(request)
	}
	if err != nil {
		return RouteResult{}, err
	}

	route = self.optimizer.Optimize(route, request.OptimizationCriteria)
	route = self.adapter.AdaptToConditions(route)

	self.cache.Insert(request, route)
	return route, nil
}

// ReplanRoute rebuilds the request from the current position, drops visited
// waypoints and sets reason-specific flags, then runs the full pipeline.
// Replanning is never incremental.
func (self *RoutePlanner) ReplanRoute(current_route RouteResult, current_position geo.Point, reason ReplanReason) (RouteResult, error) {
	new_request := current_route.OriginalRequest
	new_request.StartLocation = current_position
	new_request.Waypoints = self.filter_remaining_waypoints(current_route, current_position)

	switch reason {
	case TRAFFIC_CONGESTION:
		new_request.PlanningType = FASTEST
		new_request.AvoidTraffic = true
	case ROAD_CLOSURE:
		new_request.AvoidClosedRoads = true
	case USER_PREFERENCE_CHANGE:
	case VEHICLE_ISSUE:
		new_request.EmergencyMode = true
	}

	return self.PlanRoute(new_request)
}

// GetAlternativeRoutes plans variations of the primary request with varied
// planning types, keeps the ones that differ noticeably from the primary
// and sorts them by duration.
func (self *RoutePlanner) GetAlternativeRoutes(primary RouteResult, count int) []RouteResult {
	alternatives := make([]RouteResult, 0, count)
	for i := 0; i < count; i++ {
		alt_request := primary.OriginalRequest
		alt_request.AlternativePreference = float64(i) * 0.2
		switch i % 3 {
		case 0:
			alt_request.PlanningType = SHORTEST
		case 1:
			alt_request.PlanningType = ECONOMICAL
		case 2:
			alt_request.PlanningType = SCENIC
		}
		alt_route, err := self.PlanRoute(alt_request)
		if err != nil {
			slog.Warn("alternative planning failed", "index", i, "error", err)
			continue
		}
		if is_significantly_different(alt_route, primary) {
			alternatives = append(alternatives, alt_route)
		}
	}
	slices.SortFunc(alternatives, func(a, b RouteResult) int {
		if a.EstimatedDuration < b.EstimatedDuration {
			return -1
		}
		if a.EstimatedDuration > b.EstimatedDuration {
			return 1
		}
		return 0
	})
	return alternatives
}

// UpdateTrafficConditions feeds new samples to the predictor and drops
// cached routes through changed regions.
func (self *RoutePlanner) UpdateTrafficConditions(feed traffic.TrafficFeed) {
	self.predictor.UpdateConditions(feed)
	removed := self.cache.InvalidateAffected(self.predictor)
	if removed > 0 {
		slog.Info("invalidated cached routes", "count", removed)
	}
}

func (self *RoutePlanner) SetUserPreferences(preferences UserRoutePreferences) {
	self.preferences = preferences
}

func (self *RoutePlanner) GetRouteStatistics(route RouteResult) RouteStatistics {
	return RouteStatistics{
		TotalDistance:     route.TotalDistance,
		EstimatedDuration: route.EstimatedDuration,
		FuelConsumption:   route.TotalDistance * 0.08,
		TollCosts:         5.50,
		DifficultyRating:  difficulty_rating(route),
		ScenicRating:      7.5,
		TrafficDensity:    average_traffic_density(route),
		RoadQualityRating: 8.2,
		ElevationGain:     elevation_gain(route),
		WeatherImpact:     1.0,
	}
}

//*******************************************
// planning internals
//*******************************************

func (self *RoutePlanner) plan_unimodal(request RouteRequest) (RouteResult, error) {
	sampler := routing.NewFreeSpaceSampler()
	waypoints := make([]geo.PointKey, 0, len(request.Waypoints))
	for _, waypoint := range request.Waypoints {
		waypoints = append(waypoints, waypoint.Key())
	}
	keys, err := routing.CalcAStarWithWaypoints[geo.PointKey](sampler, request.StartLocation.Key(), request.Destination.Key(), waypoints, self.max_expansions)
	if err != nil {
		return RouteResult{}, fmt.Errorf("path search failed: %w", err)
	}
	path := make([]geo.Point, 0, len(keys))
	for _, key := range keys {
		path = append(path, key.Point())
	}

	segments := self.create_route_segments(path)
	instructions := self.generate_navigation_instructions(segments, request.Destination)

	total_distance := 0.0
	total_duration := 0.0
	for _, segment := range segments {
		total_distance += segment.Distance
		total_duration += segment.EstimatedDuration
	}

	return RouteResult{
		RouteID:                self.idgen.NewID("route"),
		OriginalRequest:        request,
		RouteSegments:          segments,
		NavigationInstructions: instructions,
		TotalDistance:          total_distance,
		EstimatedDuration:      total_duration,
		ConfidenceScore:        request.PlanningType.ConfidenceScore(),
	}, nil
}

func (self *RoutePlanner) create_route_segments(path []geo.Point) []RouteSegment {
	segments := make([]RouteSegment, 0, len(path))
	for i := 0; i < len(path)-1; i++ {
		start := path[i]
		end := path[i+1]
		distance := start.Distance(end)
		level := self.traffic_level_at(start)
		speed := DEFAULT_SPEED_LIMIT * level.SpeedFactor()
		if speed < 1 {
			speed = 1
		}
		segments = append(segments, RouteSegment{
			SegmentID:         self.idgen.NewID("segment"),
			StartPoint:        start,
			EndPoint:          end,
			Distance:          distance,
			EstimatedDuration: distance / speed * 3.6,
			RoadType:          URBAN,
			SpeedLimit:        DEFAULT_SPEED_LIMIT,
			TrafficConditions: level,
			ElevationChange:   end.Z - start.Z,
		})
	}
	return segments
}

func (self *RoutePlanner) traffic_level_at(point geo.Point) TrafficLevel {
	conditions, ok := self.predictor.CurrentConditions(point)
	if !ok {
		return LIGHT
	}
	if conditions.CongestionLevel > 0.7 {
		return HEAVY
	}
	if conditions.CongestionLevel > 0.4 {
		return MODERATE
	}
	return LIGHT
}

func (self *RoutePlanner) generate_navigation_instructions(segments []RouteSegment, destination geo.Point) []NavigationInstruction {
	instructions := make([]NavigationInstruction, 0, len(segments)+1)
	for i, segment := range segments {
		typ := CONTINUE
		description := fmt.Sprintf("Continue for %.1f km", segment.Distance/1000.0)
		if i == 0 {
			typ = DEPART
			description = fmt.Sprintf("Depart and continue for %.1f km", segment.Distance/1000.0)
		}
		instructions = append(instructions, NavigationInstruction{
			InstructionID:  self.idgen.NewID("instruction"),
			SequenceNumber: i,
			Type:           typ,
			Description:    description,
			DistanceToNext: segment.Distance,
			EstimatedTime:  segment.EstimatedDuration,
			Location:       segment.StartPoint,
		})
	}
	instructions = append(instructions, NavigationInstruction{
		InstructionID:  self.idgen.NewID("instruction"),
		SequenceNumber: len(segments),
		Type:           ARRIVE,
		Description:    "You have arrived at your destination",
		Location:       destination,
	})
	return instructions
}

func (self *RoutePlanner) is_route_still_valid(route RouteResult) bool {
	for _, segment := range route.RouteSegments {
		if self.predictor.HasSignificantChanges(segment.StartPoint, segment.EndPoint) {
			return false
		}
	}
	return true
}

// Keeps every waypoint after the last one the vehicle has come within
// WAYPOINT_VISITED_DISTANCE of. When none was visited yet, all waypoints
// remain.
func (self *RoutePlanner) filter_remaining_waypoints(route RouteResult, current_position geo.Point) []geo.Point {
	waypoints := route.OriginalRequest.Waypoints
	last_visited := -1
	for i, waypoint := range waypoints {
		if current_position.Distance(waypoint) < WAYPOINT_VISITED_DISTANCE {
			last_visited = i
		}
	}
	remaining := make([]geo.Point, 0, len(waypoints))
	remaining = append(remaining, waypoints[last_visited+1:]...)
	return remaining
}

func is_significantly_different(route_a, route_b RouteResult) bool {
	distance_diff := math.Abs(route_a.TotalDistance - route_b.TotalDistance)
	time_diff := math.Abs(route_a.EstimatedDuration - route_b.EstimatedDuration)
	return distance_diff > route_a.TotalDistance*0.1 || time_diff > route_a.EstimatedDuration*0.15
}

func difficulty_rating(route RouteResult) float64 {
	difficulty := 1.0
	for _, segment := range route.RouteSegments {
		elevation_factor := math.Abs(segment.ElevationChange) / 100.0
		traffic_factor := 1.0
		switch segment.TrafficConditions {
		case MODERATE:
			traffic_factor = 1.5
		case HEAVY:
			traffic_factor = 2.0
		}
		difficulty += elevation_factor * traffic_factor * 0.1
	}
	return math.Min(difficulty, 10.0)
}

func average_traffic_density(route RouteResult) float64 {
	if len(route.RouteSegments) == 0 {
		return 0.0
	}
	total := 0.0
	for _, segment := range route.RouteSegments {
		switch segment.TrafficConditions {
		case HEAVY:
			total += 0.9
		case MODERATE:
			total += 0.6
		default:
			total += 0.3
		}
	}
	return total / float64(len(route.RouteSegments))
}

func elevation_gain(route RouteResult) float64 {
	gain := 0.0
	for _, segment := range route.RouteSegments {
		if segment.ElevationChange > 0 {
			gain += segment.ElevationChange
		}
	}
	return gain
}
