package graph

import (
	"encoding/json"
	"errors"
)

//**********************************************************
// node types
//**********************************************************

type NodeType byte

const (
	INTERSECTION NodeType = 0
	HIGHWAY_RAMP NodeType = 1
	AIRPORT      NodeType = 2
	PORT         NodeType = 3
	RAIL_STATION NodeType = 4
	PARKING_LOT  NodeType = 5
	SERVICE_STOP NodeType = 6
	CHECKPOINT   NodeType = 7
)

func (self NodeType) String() string {
	switch self {
	case INTERSECTION:
		return "intersection"
	case HIGHWAY_RAMP:
		return "highway_ramp"
	case AIRPORT:
		return "airport"
	case PORT:
		return "port"
	case RAIL_STATION:
		return "rail_station"
	case PARKING_LOT:
		return "parking_lot"
	case SERVICE_STOP:
		return "service_stop"
	case CHECKPOINT:
		return "checkpoint"
	default:
		panic("unknown node type")
	}
}
func (self NodeType) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *NodeType) UnmarshalJSON(data []byte) error {
	var typ string
	if err := json.Unmarshal(data, &typ); err != nil {
		return err
	}
	node_typ, err := NodeTypeFromString(typ)
	*self = node_typ
	return err
}

func NodeTypeFromString(s string) (NodeType, error) {
	switch s {
	case "intersection":
		return INTERSECTION, nil
	case "highway_ramp":
		return HIGHWAY_RAMP, nil
	case "airport":
		return AIRPORT, nil
	case "port":
		return PORT, nil
	case "rail_station":
		return RAIL_STATION, nil
	case "parking_lot":
		return PARKING_LOT, nil
	case "service_stop":
		return SERVICE_STOP, nil
	case "checkpoint":
		return CHECKPOINT, nil
	default:
		return INTERSECTION, errors.New("unknown node type")
	}
}

//**********************************************************
// edge types
//**********************************************************

type EdgeType byte

const (
	ROAD            EdgeType = 0
	HIGHWAY         EdgeType = 1
	BRIDGE          EdgeType = 2
	TUNNEL          EdgeType = 3
	AIR_ROUTE       EdgeType = 4
	SEA_ROUTE       EdgeType = 5
	RAIL_TRACK      EdgeType = 6
	PEDESTRIAN_PATH EdgeType = 7
)

func (self EdgeType) String() string {
	switch self {
	case ROAD:
		return "road"
	case HIGHWAY:
		return "highway"
	case BRIDGE:
		return "bridge"
	case TUNNEL:
		return "tunnel"
	case AIR_ROUTE:
		return "air_route"
	case SEA_ROUTE:
		return "sea_route"
	case RAIL_TRACK:
		return "rail_track"
	case PEDESTRIAN_PATH:
		return "pedestrian_path"
	default:
		panic("unknown edge type")
	}
}
func (self EdgeType) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *EdgeType) UnmarshalJSON(data []byte) error {
	var typ string
	if err := json.Unmarshal(data, &typ); err != nil {
		return err
	}
	edge_typ, err := EdgeTypeFromString(typ)
	*self = edge_typ
	return err
}

func EdgeTypeFromString(s string) (EdgeType, error) {
	switch s {
	case "road":
		return ROAD, nil
	case "highway":
		return HIGHWAY, nil
	case "bridge":
		return BRIDGE, nil
	case "tunnel":
		return TUNNEL, nil
	case "air_route":
		return AIR_ROUTE, nil
	case "sea_route":
		return SEA_ROUTE, nil
	case "rail_track":
		return RAIL_TRACK, nil
	case "pedestrian_path":
		return PEDESTRIAN_PATH, nil
	default:
		return ROAD, errors.New("unknown edge type")
	}
}

// Relative emission factor per distance unit travelled on this edge type.
func (self EdgeType) EcoFactor() float64 {
	switch self {
	case HIGHWAY:
		return 1.2
	case BRIDGE:
		return 1.1
	case TUNNEL:
		return 1.3
	case RAIL_TRACK:
		return 0.3
	case PEDESTRIAN_PATH:
		return 0.1
	default:
		return 1.0
	}
}

//**********************************************************
// restrictions
//**********************************************************

type RestrictionType byte

const (
	FORBIDDEN       RestrictionType = 0
	REQUIRES_PERMIT RestrictionType = 1
	TOLL_REQUIRED   RestrictionType = 2
	WEIGHT_LIMIT    RestrictionType = 3
	SIZE_LIMIT      RestrictionType = 4
	TIME_RESTRICTED RestrictionType = 5
	COMMERCIAL_ONLY RestrictionType = 6
	EMERGENCY_ONLY  RestrictionType = 7
)

type TimeWindow struct {
	StartHour  int   `json:"start_hour"`
	EndHour    int   `json:"end_hour"`
	DaysOfWeek []int `json:"days_of_week"`
}

type VehicleRestriction struct {
	Type         RestrictionType `json:"type"`
	VehicleTypes []string        `json:"vehicle_types"`
	TimeWindow   *TimeWindow     `json:"time_window,omitempty"`
	WeightLimit  float64         `json:"weight_limit,omitempty"`
}
