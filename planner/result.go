package planner

import (
	"encoding/json"
	"errors"

	"github.com/ttpr0/go-transport/geo"
)

//**********************************************************
// road and traffic classification
//**********************************************************

type RoadType byte

const (
	URBAN       RoadType = 0
	MOTORWAY    RoadType = 1
	RURAL       RoadType = 2
	RESIDENTIAL RoadType = 3
	INDUSTRIAL  RoadType = 4
)

func (self RoadType) String() string {
	switch self {
	case URBAN:
		return "urban"
	case MOTORWAY:
		return "motorway"
	case RURAL:
		return "rural"
	case RESIDENTIAL:
		return "residential"
	case INDUSTRIAL:
		return "industrial"
	default:
		panic("unknown road type")
	}
}
func (self RoadType) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}

type TrafficLevel byte

const (
	LIGHT    TrafficLevel = 0
	MODERATE TrafficLevel = 1
	HEAVY    TrafficLevel = 2
)

func (self TrafficLevel) String() string {
	switch self {
	case LIGHT:
		return "light"
	case MODERATE:
		return "moderate"
	case HEAVY:
		return "heavy"
	default:
		panic("unknown traffic level")
	}
}
func (self TrafficLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *TrafficLevel) UnmarshalJSON(data []byte) error {
	var level string
	if err := json.Unmarshal(data, &level); err != nil {
		return err
	}
	switch level {
	case "light":
		*self = LIGHT
	case "moderate":
		*self = MODERATE
	case "heavy":
		*self = HEAVY
	default:
		return errors.New("unknown traffic level")
	}
	return nil
}

// Relative slowdown of travel under this traffic level.
func (self TrafficLevel) SpeedFactor() float64 {
	switch self {
	case MODERATE:
		return 0.85
	case HEAVY:
		return 0.6
	default:
		return 1.0
	}
}

//**********************************************************
// route results
//**********************************************************

type RouteSegment struct {
	SegmentID         string       `json:"segment_id"`
	StartPoint        geo.Point    `json:"start_point"`
	EndPoint          geo.Point    `json:"end_point"`
	Distance          float64      `json:"distance"`
	EstimatedDuration float64      `json:"estimated_duration"`
	RoadType          RoadType     `json:"road_type"`
	SpeedLimit        float64      `json:"speed_limit"`
	TrafficConditions TrafficLevel `json:"traffic_conditions"`
	ElevationChange   float64      `json:"elevation_change"`
}

type InstructionType byte

const (
	DEPART   InstructionType = 0
	CONTINUE InstructionType = 1
	ARRIVE   InstructionType = 2
)

func (self InstructionType) String() string {
	switch self {
	case DEPART:
		return "depart"
	case CONTINUE:
		return "continue"
	case ARRIVE:
		return "arrive"
	default:
		panic("unknown instruction type")
	}
}
func (self InstructionType) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}

type NavigationInstruction struct {
	InstructionID     string          `json:"instruction_id"`
	SequenceNumber    int             `json:"sequence_number"`
	Type              InstructionType `json:"type"`
	Description       string          `json:"description"`
	DistanceToNext    float64         `json:"distance_to_next"`
	EstimatedTime     float64         `json:"estimated_time"`
	Location          geo.Point       `json:"location"`
}

// RouteResult is the outcome of one planning cycle. Results are immutable,
// replanning produces a new result instead of patching one in place.
type RouteResult struct {
	RouteID                string                  `json:"route_id"`
	OriginalRequest        RouteRequest            `json:"original_request"`
	RouteSegments          []RouteSegment          `json:"route_segments"`
	NavigationInstructions []NavigationInstruction `json:"navigation_instructions"`
	ModeSegments           []MultiModalSegment     `json:"mode_segments,omitempty"`
	TotalDistance          float64                 `json:"total_distance"`
	EstimatedDuration      float64                 `json:"estimated_duration"`
	AlternativeRoutes      []RouteResult           `json:"alternative_routes,omitempty"`
	ConfidenceScore        float64                 `json:"confidence_score"`
}

type RouteStatistics struct {
	TotalDistance     float64 `json:"total_distance"`
	EstimatedDuration float64 `json:"estimated_duration"`
	FuelConsumption   float64 `json:"fuel_consumption"`
	TollCosts         float64 `json:"toll_costs"`
	DifficultyRating  float64 `json:"difficulty_rating"`
	ScenicRating      float64 `json:"scenic_rating"`
	TrafficDensity    float64 `json:"traffic_density"`
	RoadQualityRating float64 `json:"road_quality_rating"`
	ElevationGain     float64 `json:"elevation_gain"`
	WeatherImpact     float64 `json:"weather_impact"`
}
