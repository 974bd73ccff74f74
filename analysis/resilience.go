package analysis

import (
	"encoding/json"
	"errors"

	"github.com/ttpr0/go-transport/graph"
)

//*******************************************
// failure types
//*******************************************

type FailureType byte

const (
	COMPONENT_FAILURE   FailureType = 0
	CASCADING_FAILURE   FailureType = 1
	SYSTEM_WIDE_FAILURE FailureType = 2
	PARTIAL_FAILURE     FailureType = 3
	TEMPORARY_FAILURE   FailureType = 4
)

func (self FailureType) String() string {
	switch self {
	case COMPONENT_FAILURE:
		return "component_failure"
	case CASCADING_FAILURE:
		return "cascading_failure"
	case SYSTEM_WIDE_FAILURE:
		return "system_wide_failure"
	case PARTIAL_FAILURE:
		return "partial_failure"
	case TEMPORARY_FAILURE:
		return "temporary_failure"
	default:
		panic("unknown failure type")
	}
}
func (self FailureType) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *FailureType) UnmarshalJSON(data []byte) error {
	var typ string
	if err := json.Unmarshal(data, &typ); err != nil {
		return err
	}
	t, err := FailureTypeFromString(typ)
	*self = t
	return err
}

func FailureTypeFromString(s string) (FailureType, error) {
	switch s {
	case "component_failure":
		return COMPONENT_FAILURE, nil
	case "cascading_failure":
		return CASCADING_FAILURE, nil
	case "system_wide_failure":
		return SYSTEM_WIDE_FAILURE, nil
	case "partial_failure":
		return PARTIAL_FAILURE, nil
	case "temporary_failure":
		return TEMPORARY_FAILURE, nil
	default:
		return COMPONENT_FAILURE, errors.New("unknown failure type")
	}
}

//*******************************************
// failure simulation
//*******************************************

// Per failed node: users affected and connectivity lost.
const NODE_FAILURE_USERS = 100
const NODE_FAILURE_CONNECTIVITY = 0.1

// Per failed edge: users affected and connectivity lost.
const EDGE_FAILURE_USERS = 50
const EDGE_FAILURE_CONNECTIVITY = 0.05

// Recovery takes longer than the failure itself.
const RECOVERY_TIME_FACTOR = 1.5

// Assumed cost per affected user per hour of recovery.
const USER_HOUR_COST = 10.0

type FailureScenario struct {
	ScenarioID       string      `json:"scenario_id"`
	FailedComponents []string    `json:"failed_components"`
	FailureType      FailureType `json:"failure_type"`
	Duration         float64     `json:"duration"`
	Probability      float64     `json:"probability"`
}

type SimulationResult struct {
	ScenarioID         string  `json:"scenario_id"`
	NetworkPerformance float64 `json:"network_performance"`
	AffectedUsers      int     `json:"affected_users"`
	RecoveryTime       float64 `json:"recovery_time"`
	EconomicLoss       float64 `json:"economic_loss"`
}

// FailureSimulator plays failure scenarios against a copy of the network.
// The input graph is never modified; each run works on its own clone with
// the failed components removed.
type FailureSimulator struct {
	results []SimulationResult
}

func NewFailureSimulator() *FailureSimulator {
	return &FailureSimulator{}
}

func (self *FailureSimulator) Simulate(scenario FailureScenario, g *graph.NetworkGraph) SimulationResult {
	degraded := g.Clone()

	affected_users := 0
	connectivity_delta := 0.0
	for _, component := range scenario.FailedComponents {
		if _, ok := degraded.GetNode(component); ok {
			degraded.RemoveNode(component)
			affected_users += NODE_FAILURE_USERS
			connectivity_delta -= NODE_FAILURE_CONNECTIVITY
		} else if _, ok := degraded.GetEdge(component); ok {
			degraded.RemoveEdge(component)
			affected_users += EDGE_FAILURE_USERS
			connectivity_delta -= EDGE_FAILURE_CONNECTIVITY
		}
	}

	performance := 1.0 + connectivity_delta
	if performance < 0 {
		performance = 0
	}
	recovery_time := scenario.Duration * RECOVERY_TIME_FACTOR

	result := SimulationResult{
		ScenarioID:         scenario.ScenarioID,
		NetworkPerformance: performance,
		AffectedUsers:      affected_users,
		RecoveryTime:       recovery_time,
		EconomicLoss:       float64(affected_users) * recovery_time * USER_HOUR_COST,
	}
	self.results = append(self.results, result)
	return result
}

// Results returns all simulation runs in order.
func (self *FailureSimulator) Results() []SimulationResult {
	return self.results
}
