package planner

import (
	"encoding/json"
	"errors"

	"github.com/ttpr0/go-transport/geo"
	. "github.com/ttpr0/go-transport/util"
)

//**********************************************************
// transport modes
//**********************************************************

type TransportMode byte

const (
	WALKING        TransportMode = 0
	CYCLING        TransportMode = 1
	DRIVING        TransportMode = 2
	PUBLIC_TRANSIT TransportMode = 3
	AVIATION       TransportMode = 4
	MARITIME       TransportMode = 5
	RAIL           TransportMode = 6
)

func (self TransportMode) String() string {
	switch self {
	case WALKING:
		return "walking"
	case CYCLING:
		return "cycling"
	case DRIVING:
		return "driving"
	case PUBLIC_TRANSIT:
		return "public_transit"
	case AVIATION:
		return "aviation"
	case MARITIME:
		return "maritime"
	case RAIL:
		return "rail"
	default:
		panic("unknown transport mode")
	}
}
func (self TransportMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *TransportMode) UnmarshalJSON(data []byte) error {
	var mode string
	if err := json.Unmarshal(data, &mode); err != nil {
		return err
	}
	m, err := TransportModeFromString(mode)
	*self = m
	return err
}

func TransportModeFromString(s string) (TransportMode, error) {
	switch s {
	case "walking":
		return WALKING, nil
	case "cycling":
		return CYCLING, nil
	case "driving":
		return DRIVING, nil
	case "public_transit":
		return PUBLIC_TRANSIT, nil
	case "aviation":
		return AVIATION, nil
	case "maritime":
		return MARITIME, nil
	case "rail":
		return RAIL, nil
	default:
		return WALKING, errors.New("unknown transport mode")
	}
}

type ModeConfiguration struct {
	AverageSpeed        float64 `json:"average_speed"`
	CostPerUnit         float64 `json:"cost_per_unit"`
	ComfortRating       float64 `json:"comfort_rating"`
	EnvironmentalImpact float64 `json:"environmental_impact"`
	Availability        float64 `json:"availability"`
}

type MultiModalSegment struct {
	Mode            TransportMode `json:"mode"`
	StartPoint      geo.Point     `json:"start_point"`
	EndPoint        geo.Point     `json:"end_point"`
	Distance        float64       `json:"distance"`
	Duration        float64       `json:"duration"`
	Cost            float64       `json:"cost"`
	CarbonFootprint float64       `json:"carbon_footprint"`
	ComfortScore    float64       `json:"comfort_score"`
}

type ModeTransition struct {
	FromMode        TransportMode `json:"from_mode"`
	ToMode          TransportMode `json:"to_mode"`
	TransitionPoint geo.Point     `json:"transition_point"`
	TransitionTime  float64       `json:"transition_time"`
	TransitionCost  float64       `json:"transition_cost"`
}

//**********************************************************
// multi-modal planner
//**********************************************************

// Time charged for switching modes when no specific penalty is configured.
const DEFAULT_TRANSITION_PENALTY = 5.0

// Distance walked to and from the main mode at the ends of a combined route.
const ACCESS_LEG_DISTANCE = 200.0

// MultiModalPlanner composes walking access legs with a main travel mode and
// reduces the legs plus transition penalties into a single route result.
type MultiModalPlanner struct {
	modes                Dict[TransportMode, ModeConfiguration]
	transition_penalties Dict[Tuple[TransportMode, TransportMode], float64]
}

func NewMultiModalPlanner() *MultiModalPlanner {
	modes := NewDict[TransportMode, ModeConfiguration](4)
	modes.Set(WALKING, ModeConfiguration{
		AverageSpeed:  5.0,
		ComfortRating: 3.0,
		Availability:  1.0,
	})
	modes.Set(DRIVING, ModeConfiguration{
		AverageSpeed:        50.0,
		CostPerUnit:         0.15,
		ComfortRating:       8.0,
		EnvironmentalImpact: 0.2,
		Availability:        0.95,
	})
	modes.Set(PUBLIC_TRANSIT, ModeConfiguration{
		AverageSpeed:        25.0,
		CostPerUnit:         0.05,
		ComfortRating:       6.0,
		EnvironmentalImpact: 0.05,
		Availability:        0.7,
	})
	modes.Set(CYCLING, ModeConfiguration{
		AverageSpeed:        15.0,
		CostPerUnit:         0.01,
		ComfortRating:       5.0,
		Availability:        0.8,
	})
	return &MultiModalPlanner{
		modes:                modes,
		transition_penalties: NewDict[Tuple[TransportMode, TransportMode], float64](10),
	}
}

// SetTransitionPenalty overrides the time penalty for one mode switch.
func (self *MultiModalPlanner) SetTransitionPenalty(from, to TransportMode, penalty float64) {
	self.transition_penalties.Set(MakeTuple(from, to), penalty)
}

func (self *MultiModalPlanner) transition_penalty(from, to TransportMode) float64 {
	if self.transition_penalties.ContainsKey(MakeTuple(from, to)) {
		return self.transition_penalties.Get(MakeTuple(from, to))
	}
	return DEFAULT_TRANSITION_PENALTY
}

func (self *MultiModalPlanner) PlanCombinedRoute(request RouteRequest, idgen IIdGenerator) (RouteResult, error) {
	segments, err := self.find_mode_combination(request)
	if err != nil {
		return RouteResult{}, err
	}
	transitions := self.calculate_transitions(segments)
	return self.build_result(segments, transitions, request, idgen), nil
}

// Walking access leg, one main leg, walking egress leg. Short trips stay
// fully on foot; the main mode follows the environmental preference.
func (self *MultiModalPlanner) find_mode_combination(request RouteRequest) ([]MultiModalSegment, error) {
	total_distance := request.StartLocation.Distance(request.Destination)
	if total_distance == 0 {
		return nil, errors.New("start and destination coincide")
	}

	walking := self.modes.Get(WALKING)
	if total_distance <= 2*ACCESS_LEG_DISTANCE {
		return []MultiModalSegment{self.make_segment(WALKING, walking, request.StartLocation, request.Destination)}, nil
	}

	main_mode := DRIVING
	if request.UserPreferences.EnvironmentalImportance > 0.5 {
		main_mode = PUBLIC_TRANSIT
	}
	main_config := self.modes.Get(main_mode)

	// interpolate the access points along the direct line
	fraction := ACCESS_LEG_DISTANCE / total_distance
	entry := interpolate(request.StartLocation, request.Destination, fraction)
	exit := interpolate(request.StartLocation, request.Destination, 1-fraction)

	return []MultiModalSegment{
		self.make_segment(WALKING, walking, request.StartLocation, entry),
		self.make_segment(main_mode, main_config, entry, exit),
		self.make_segment(WALKING, walking, exit, request.Destination),
	}, nil
}

func (self *MultiModalPlanner) make_segment(mode TransportMode, config ModeConfiguration, start, end geo.Point) MultiModalSegment {
	distance := start.Distance(end)
	return MultiModalSegment{
		Mode:            mode,
		StartPoint:      start,
		EndPoint:        end,
		Distance:        distance,
		Duration:        distance / config.AverageSpeed,
		Cost:            distance * config.CostPerUnit,
		CarbonFootprint: distance * config.EnvironmentalImpact,
		ComfortScore:    config.ComfortRating,
	}
}

func (self *MultiModalPlanner) calculate_transitions(segments []MultiModalSegment) []ModeTransition {
	transitions := make([]ModeTransition, 0, len(segments))
	for i := 0; i < len(segments)-1; i++ {
		if segments[i].Mode == segments[i+1].Mode {
			continue
		}
		transitions = append(transitions, ModeTransition{
			FromMode:        segments[i].Mode,
			ToMode:          segments[i+1].Mode,
			TransitionPoint: segments[i].EndPoint,
			TransitionTime:  self.transition_penalty(segments[i].Mode, segments[i+1].Mode),
		})
	}
	return transitions
}

func (self *MultiModalPlanner) build_result(segments []MultiModalSegment, transitions []ModeTransition, request RouteRequest, idgen IIdGenerator) RouteResult {
	total_distance := 0.0
	total_duration := 0.0
	route_segments := make([]RouteSegment, 0, len(segments))
	for _, segment := range segments {
		total_distance += segment.Distance
		total_duration += segment.Duration
		config := self.modes.Get(segment.Mode)
		route_segments = append(route_segments, RouteSegment{
			SegmentID:         idgen.NewID("segment"),
			StartPoint:        segment.StartPoint,
			EndPoint:          segment.EndPoint,
			Distance:          segment.Distance,
			EstimatedDuration: segment.Duration,
			RoadType:          URBAN,
			SpeedLimit:        config.AverageSpeed,
			TrafficConditions: LIGHT,
			ElevationChange:   segment.EndPoint.Z - segment.StartPoint.Z,
		})
	}
	for _, transition := range transitions {
		total_duration += transition.TransitionTime
	}
	return RouteResult{
		RouteID:           idgen.NewID("multimodal"),
		OriginalRequest:   request,
		RouteSegments:     route_segments,
		ModeSegments:      segments,
		TotalDistance:     total_distance,
		EstimatedDuration: total_duration,
		ConfidenceScore:   MULTI_MODAL.ConfidenceScore(),
	}
}

func interpolate(a, b geo.Point, t float64) geo.Point {
	return geo.NewPoint(
		a.X+(b.X-a.X)*t,
		a.Y+(b.Y-a.Y)*t,
		a.Z+(b.Z-a.Z)*t,
	)
}
