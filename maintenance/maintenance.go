package maintenance

import (
	"encoding/json"
	"errors"
)

//*******************************************
// maintenance types
//*******************************************

type MaintenanceType byte

const (
	ROUTINE    MaintenanceType = 0
	PREVENTIVE MaintenanceType = 1
	CORRECTIVE MaintenanceType = 2
	EMERGENCY  MaintenanceType = 3
	UPGRADE    MaintenanceType = 4
)

func (self MaintenanceType) String() string {
	switch self {
	case ROUTINE:
		return "routine"
	case PREVENTIVE:
		return "preventive"
	case CORRECTIVE:
		return "corrective"
	case EMERGENCY:
		return "emergency"
	case UPGRADE:
		return "upgrade"
	default:
		panic("unknown maintenance type")
	}
}
func (self MaintenanceType) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *MaintenanceType) UnmarshalJSON(data []byte) error {
	var typ string
	if err := json.Unmarshal(data, &typ); err != nil {
		return err
	}
	t, err := MaintenanceTypeFromString(typ)
	*self = t
	return err
}

func MaintenanceTypeFromString(s string) (MaintenanceType, error) {
	switch s {
	case "routine":
		return ROUTINE, nil
	case "preventive":
		return PREVENTIVE, nil
	case "corrective":
		return CORRECTIVE, nil
	case "emergency":
		return EMERGENCY, nil
	case "upgrade":
		return UPGRADE, nil
	default:
		return ROUTINE, errors.New("unknown maintenance type")
	}
}

// Severity is the base priority contribution of the task type.
func (self MaintenanceType) Severity() float64 {
	switch self {
	case EMERGENCY:
		return 1.0
	case CORRECTIVE:
		return 0.8
	case PREVENTIVE:
		return 0.6
	case ROUTINE:
		return 0.4
	case UPGRADE:
		return 0.3
	default:
		panic("unknown maintenance type")
	}
}

//*******************************************
// tasks
//*******************************************

type MaintenanceTask struct {
	ID                string          `json:"id"`
	TargetID          string          `json:"target_id"`
	Type              MaintenanceType `json:"type"`
	EstimatedCost     float64         `json:"estimated_cost"`
	EstimatedDuration float64         `json:"estimated_duration"` // hours
	RequiredResources []string        `json:"required_resources"`
}

type ResourceRequirement struct {
	ResourceType string  `json:"resource_type"`
	Quantity     float64 `json:"quantity"`
	Duration     float64 `json:"duration"`
}

// ScheduledTask is a queued maintenance task with its computed priority.
type ScheduledTask struct {
	Task          MaintenanceTask       `json:"task"`
	ScheduledTime float64               `json:"scheduled_time"`
	Requirements  []ResourceRequirement `json:"requirements"`
	PriorityScore float64               `json:"priority_score"`
}

//*******************************************
// priority calculation
//*******************************************

// WeightingScheme holds the factor weights of the priority calculation.
// Safety, reliability and user impact are reserved for richer task
// metadata; the calculation currently wires cost and efficiency.
type WeightingScheme struct {
	SafetyWeight      float64 `json:"safety_weight"`
	CostWeight        float64 `json:"cost_weight"`
	EfficiencyWeight  float64 `json:"efficiency_weight"`
	ReliabilityWeight float64 `json:"reliability_weight"`
	UserImpactWeight  float64 `json:"user_impact_weight"`
}

func DefaultWeightingScheme() WeightingScheme {
	return WeightingScheme{
		SafetyWeight:      0.4,
		CostWeight:        0.2,
		EfficiencyWeight:  0.2,
		ReliabilityWeight: 0.15,
		UserImpactWeight:  0.05,
	}
}

type PriorityCalculator struct {
	weights WeightingScheme
}

func NewPriorityCalculator() *PriorityCalculator {
	return &PriorityCalculator{weights: DefaultWeightingScheme()}
}

// CalculatePriority scores a task from its type severity, cost and
// duration. Cheaper and shorter tasks of the same type rank higher.
func (self *PriorityCalculator) CalculatePriority(task MaintenanceTask) float64 {
	priority := task.Type.Severity()
	priority += 1.0 / (task.EstimatedCost/1000.0 + 1.0) * self.weights.CostWeight
	priority += 1.0 / (task.EstimatedDuration/24.0 + 1.0) * self.weights.EfficiencyWeight
	return priority
}
