package planner

import (
	"encoding/json"
	"errors"

	"github.com/ttpr0/go-transport/geo"
	. "github.com/ttpr0/go-transport/util"
)

//**********************************************************
// planning types
//**********************************************************

type RoutePlanningType byte

const (
	FASTEST     RoutePlanningType = 0
	SHORTEST    RoutePlanningType = 1
	ECONOMICAL  RoutePlanningType = 2
	SCENIC      RoutePlanningType = 3
	MULTI_MODAL RoutePlanningType = 4
)

func (self RoutePlanningType) String() string {
	switch self {
	case FASTEST:
		return "fastest"
	case SHORTEST:
		return "shortest"
	case ECONOMICAL:
		return "economical"
	case SCENIC:
		return "scenic"
	case MULTI_MODAL:
		return "multi_modal"
	default:
		panic("unknown planning type")
	}
}
func (self RoutePlanningType) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *RoutePlanningType) UnmarshalJSON(data []byte) error {
	var typ string
	if err := json.Unmarshal(data, &typ); err != nil {
		return err
	}
	planning_typ, err := RoutePlanningTypeFromString(typ)
	*self = planning_typ
	return err
}

func RoutePlanningTypeFromString(s string) (RoutePlanningType, error) {
	switch s {
	case "fastest":
		return FASTEST, nil
	case "shortest":
		return SHORTEST, nil
	case "economical":
		return ECONOMICAL, nil
	case "scenic":
		return SCENIC, nil
	case "multi_modal":
		return MULTI_MODAL, nil
	default:
		return FASTEST, errors.New("unknown planning type")
	}
}

// How much a result of this planning type can be trusted to hold up in
// practice.
func (self RoutePlanningType) ConfidenceScore() float64 {
	switch self {
	case FASTEST:
		return 0.95
	case SHORTEST:
		return 0.98
	case ECONOMICAL:
		return 0.92
	case SCENIC:
		return 0.85
	case MULTI_MODAL:
		return 0.88
	default:
		return 0.9
	}
}

//**********************************************************
// replan reasons
//**********************************************************

type ReplanReason byte

const (
	TRAFFIC_CONGESTION     ReplanReason = 0
	ROAD_CLOSURE           ReplanReason = 1
	USER_PREFERENCE_CHANGE ReplanReason = 2
	VEHICLE_ISSUE          ReplanReason = 3
)

func (self ReplanReason) String() string {
	switch self {
	case TRAFFIC_CONGESTION:
		return "traffic_congestion"
	case ROAD_CLOSURE:
		return "road_closure"
	case USER_PREFERENCE_CHANGE:
		return "user_preference_change"
	case VEHICLE_ISSUE:
		return "vehicle_issue"
	default:
		panic("unknown replan reason")
	}
}
func (self ReplanReason) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *ReplanReason) UnmarshalJSON(data []byte) error {
	var reason string
	if err := json.Unmarshal(data, &reason); err != nil {
		return err
	}
	r, err := ReplanReasonFromString(reason)
	*self = r
	return err
}

func ReplanReasonFromString(s string) (ReplanReason, error) {
	switch s {
	case "traffic_congestion":
		return TRAFFIC_CONGESTION, nil
	case "road_closure":
		return ROAD_CLOSURE, nil
	case "user_preference_change":
		return USER_PREFERENCE_CHANGE, nil
	case "vehicle_issue":
		return VEHICLE_ISSUE, nil
	default:
		return TRAFFIC_CONGESTION, errors.New("unknown replan reason")
	}
}

//**********************************************************
// constraints and preferences
//**********************************************************

type VehicleConstraints struct {
	VehicleType         string     `json:"vehicle_type"`
	MaxWeight           float64    `json:"max_weight"`
	MaxDimensions       [3]float64 `json:"max_dimensions"`
	FuelType            string     `json:"fuel_type"`
	EmissionClass       string     `json:"emission_class"`
	SpecialRequirements []string   `json:"special_requirements,omitempty"`
}

func DefaultVehicleConstraints() VehicleConstraints {
	return VehicleConstraints{
		VehicleType:   "car",
		MaxWeight:     2000.0,
		MaxDimensions: [3]float64{5.0, 2.0, 2.0},
		FuelType:      "gasoline",
		EmissionClass: "euro6",
	}
}

type UserRoutePreferences struct {
	TimeImportance          float64  `json:"time_importance"`
	DistanceImportance      float64  `json:"distance_importance"`
	CostImportance          float64  `json:"cost_importance"`
	ComfortImportance       float64  `json:"comfort_importance"`
	EnvironmentalImportance float64  `json:"environmental_importance"`
	AvoidTraffic            bool     `json:"avoid_traffic"`
	AvoidTolls              bool     `json:"avoid_tolls"`
	AvoidHighways           bool     `json:"avoid_highways"`
	PreferScenicRoutes      bool     `json:"prefer_scenic_routes"`
	AccessibilityNeeds      []string `json:"accessibility_needs,omitempty"`
}

func DefaultUserRoutePreferences() UserRoutePreferences {
	return UserRoutePreferences{
		TimeImportance:          0.4,
		DistanceImportance:      0.2,
		CostImportance:          0.2,
		ComfortImportance:       0.1,
		EnvironmentalImportance: 0.1,
		AvoidTraffic:            true,
	}
}

//**********************************************************
// optimization criteria
//**********************************************************

type OptimizationObjective byte

const (
	MINIMIZE_TIME                 OptimizationObjective = 0
	MINIMIZE_DISTANCE             OptimizationObjective = 1
	MINIMIZE_FUEL_CONSUMPTION     OptimizationObjective = 2
	MINIMIZE_COST                 OptimizationObjective = 3
	MAXIMIZE_COMFORT              OptimizationObjective = 4
	MINIMIZE_ENVIRONMENTAL_IMPACT OptimizationObjective = 5
)

type OptimizationCriteria struct {
	PrimaryObjective    OptimizationObjective   `json:"primary_objective"`
	SecondaryObjectives []OptimizationObjective `json:"secondary_objectives,omitempty"`
	MaxCost             Optional[float64]       `json:"-"`
	MaxTime             Optional[float64]       `json:"-"`
}

func DefaultOptimizationCriteria() OptimizationCriteria {
	return OptimizationCriteria{
		PrimaryObjective:    MINIMIZE_TIME,
		SecondaryObjectives: []OptimizationObjective{MINIMIZE_DISTANCE},
	}
}

//**********************************************************
// route requests
//**********************************************************

type RouteRequest struct {
	RequestID             string               `json:"request_id"`
	StartLocation         geo.Point            `json:"start_location"`
	Destination           geo.Point            `json:"destination"`
	Waypoints             []geo.Point          `json:"waypoints,omitempty"`
	DepartureTime         Optional[int64]      `json:"-"`
	ArrivalTime           Optional[int64]      `json:"-"`
	PlanningType          RoutePlanningType    `json:"planning_type"`
	VehicleConstraints    VehicleConstraints   `json:"vehicle_constraints"`
	UserPreferences       UserRoutePreferences `json:"user_preferences"`
	OptimizationCriteria  OptimizationCriteria `json:"optimization_criteria"`
	AvoidTraffic          bool                 `json:"avoid_traffic"`
	AvoidTolls            bool                 `json:"avoid_tolls"`
	AvoidHighways         bool                 `json:"avoid_highways"`
	AvoidClosedRoads      bool                 `json:"avoid_closed_roads"`
	EmergencyMode         bool                 `json:"emergency_mode"`
	AlternativePreference float64              `json:"alternative_preference"`
}

// RequestKey is the comparable cache key of a request. Spatial fields are
// quantized through geo.PointKey and scalar floats are truncated to integer
// buckets, so two logically-equal requests always map to the same key. The
// request id is deliberately excluded.
type RequestKey struct {
	Start             geo.PointKey
	Destination       geo.PointKey
	WaypointCount     int
	DepartureTime     int64
	ArrivalTime       int64
	PlanningType      RoutePlanningType
	AvoidTraffic      bool
	AvoidTolls        bool
	AvoidHighways     bool
	AvoidClosedRoads  bool
	EmergencyMode     bool
	AlternativeBucket int32
}

func (self RouteRequest) Key() RequestKey {
	departure := int64(0)
	if self.DepartureTime.HasValue() {
		departure = self.DepartureTime.Value
	}
	arrival := int64(0)
	if self.ArrivalTime.HasValue() {
		arrival = self.ArrivalTime.Value
	}
	return RequestKey{
		Start:             self.StartLocation.Key(),
		Destination:       self.Destination.Key(),
		WaypointCount:     len(self.Waypoints),
		DepartureTime:     departure,
		ArrivalTime:       arrival,
		PlanningType:      self.PlanningType,
		AvoidTraffic:      self.AvoidTraffic,
		AvoidTolls:        self.AvoidTolls,
		AvoidHighways:     self.AvoidHighways,
		AvoidClosedRoads:  self.AvoidClosedRoads,
		EmergencyMode:     self.EmergencyMode,
		AlternativeBucket: int32(self.AlternativePreference * 10),
	}
}
