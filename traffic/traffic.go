package traffic

import (
	"encoding/json"
	"errors"
	"math"

	"github.com/ttpr0/go-transport/geo"
)

//**********************************************************
// incidents
//**********************************************************

type IncidentType byte

const (
	ACCIDENT     IncidentType = 0
	CONSTRUCTION IncidentType = 1
	WEATHER      IncidentType = 2
	EMERGENCY    IncidentType = 3
	EVENT        IncidentType = 4
)

func (self IncidentType) String() string {
	switch self {
	case ACCIDENT:
		return "accident"
	case CONSTRUCTION:
		return "construction"
	case WEATHER:
		return "weather"
	case EMERGENCY:
		return "emergency"
	case EVENT:
		return "event"
	default:
		panic("unknown incident type")
	}
}
func (self IncidentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *IncidentType) UnmarshalJSON(data []byte) error {
	var typ string
	if err := json.Unmarshal(data, &typ); err != nil {
		return err
	}
	incident_typ, err := IncidentTypeFromString(typ)
	*self = incident_typ
	return err
}

func IncidentTypeFromString(s string) (IncidentType, error) {
	switch s {
	case "accident":
		return ACCIDENT, nil
	case "construction":
		return CONSTRUCTION, nil
	case "weather":
		return WEATHER, nil
	case "emergency":
		return EMERGENCY, nil
	case "event":
		return EVENT, nil
	default:
		return ACCIDENT, errors.New("unknown incident type")
	}
}

type TrafficIncident struct {
	ID            string       `json:"id"`
	Position      geo.Point    `json:"position"`
	Type          IncidentType `json:"type"`
	Severity      float64      `json:"severity"`
	Duration      float64      `json:"duration"` // remaining minutes
	AffectedLanes int          `json:"affected_lanes"`
	Description   string       `json:"description"`
}

//**********************************************************
// traffic data
//**********************************************************

type TrafficPattern struct {
	Hour                  int     `json:"hour"`
	AverageVolume         float64 `json:"average_volume"`
	CongestionProbability float64 `json:"congestion_probability"`
}

// TrafficData tracks the live traffic state of one edge.
type TrafficData struct {
	EdgeID             string            `json:"edge_id"`
	Volume             float64           `json:"volume"`
	AverageSpeed       float64           `json:"average_speed"`
	CongestionLevel    float64           `json:"congestion_level"`
	Incidents          []TrafficIncident `json:"incidents"`
	HistoricalPatterns []TrafficPattern  `json:"historical_patterns,omitempty"`
}

func NewTrafficData(edge_id string) *TrafficData {
	return &TrafficData{
		EdgeID:       edge_id,
		AverageSpeed: 60.0,
	}
}

// Update advances the traffic state by delta seconds. The current hour is
// passed in rather than read from the wall clock, the orchestrator owns time.
func (self *TrafficData) Update(delta float64, hour int) {
	self.update_volume_from_patterns(hour)
	self.process_incidents(delta)
	self.update_congestion_level()
}

func (self *TrafficData) AddIncident(incident TrafficIncident) {
	self.Incidents = append(self.Incidents, incident)
}

func (self *TrafficData) update_volume_from_patterns(hour int) {
	for _, pattern := range self.HistoricalPatterns {
		if pattern.Hour == hour {
			self.Volume = pattern.AverageVolume
			break
		}
	}
}

// Incidents expire by counting their remaining duration down to zero.
func (self *TrafficData) process_incidents(delta float64) {
	remaining := self.Incidents[:0]
	for _, incident := range self.Incidents {
		incident.Duration -= delta / 60.0
		if incident.Duration > 0 {
			remaining = append(remaining, incident)
		}
	}
	self.Incidents = remaining
}

func (self *TrafficData) update_congestion_level() {
	incident_impact := 0.0
	for _, incident := range self.Incidents {
		incident_impact += incident.Severity * 0.1
	}
	self.CongestionLevel = math.Min(self.Volume*0.001+incident_impact, 1.0)
	self.AverageSpeed = 60.0 * (1.0 - self.CongestionLevel*0.8)
}
