package routing

import (
	"encoding/json"
	"errors"

	"github.com/ttpr0/go-transport/graph"
	. "github.com/ttpr0/go-transport/util"
)

//**********************************************************
// optimization targets
//**********************************************************

type OptimizationTarget byte

const (
	SHORTEST_DISTANCE OptimizationTarget = 0
	FASTEST_TIME      OptimizationTarget = 1
	LOWEST_COST       OptimizationTarget = 2
	LEAST_TRAFFIC     OptimizationTarget = 3
	MOST_RELIABLE     OptimizationTarget = 4
	ECO_FRIENDLY      OptimizationTarget = 5
)

func (self OptimizationTarget) String() string {
	switch self {
	case SHORTEST_DISTANCE:
		return "shortest_distance"
	case FASTEST_TIME:
		return "fastest_time"
	case LOWEST_COST:
		return "lowest_cost"
	case LEAST_TRAFFIC:
		return "least_traffic"
	case MOST_RELIABLE:
		return "most_reliable"
	case ECO_FRIENDLY:
		return "eco_friendly"
	default:
		panic("unknown optimization target")
	}
}
func (self OptimizationTarget) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *OptimizationTarget) UnmarshalJSON(data []byte) error {
	var target string
	if err := json.Unmarshal(data, &target); err != nil {
		return err
	}
	t, err := OptimizationTargetFromString(target)
	*self = t
	return err
}

func OptimizationTargetFromString(s string) (OptimizationTarget, error) {
	switch s {
	case "shortest_distance":
		return SHORTEST_DISTANCE, nil
	case "fastest_time":
		return FASTEST_TIME, nil
	case "lowest_cost":
		return LOWEST_COST, nil
	case "least_traffic":
		return LEAST_TRAFFIC, nil
	case "most_reliable":
		return MOST_RELIABLE, nil
	case "eco_friendly":
		return ECO_FRIENDLY, nil
	default:
		return SHORTEST_DISTANCE, errors.New("unknown optimization target")
	}
}

//**********************************************************
// path criteria
//**********************************************************

type PathCriteria struct {
	OptimizeFor         OptimizationTarget         `json:"optimize_for"`
	VehicleType         string                     `json:"vehicle_type"`
	VehicleRestrictions []graph.VehicleRestriction `json:"vehicle_restrictions,omitempty"`
	TimeConstraints     Optional[graph.TimeWindow] `json:"-"`
	CostLimit           Optional[float64]          `json:"-"`
	AvoidTollRoads      bool                       `json:"avoid_toll_roads"`
	PreferHighways      bool                       `json:"prefer_highways"`
}
