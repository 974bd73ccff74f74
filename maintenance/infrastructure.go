package maintenance

import (
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/ttpr0/go-transport/geo"
	. "github.com/ttpr0/go-transport/util"
)

//*******************************************
// infrastructure state
//*******************************************

type InfrastructureData struct {
	ID                 string    `json:"id"`
	InfrastructureType string    `json:"infrastructure_type"`
	Position           geo.Point `json:"position"`
	Capacity           float64   `json:"capacity"`
	Utilization        float64   `json:"utilization"`
	Condition          float64   `json:"condition"`
	MaintenanceCost    float64   `json:"maintenance_cost"`
}

func (self *InfrastructureData) NeedsMaintenance() bool {
	return self.Condition < 0.7 || self.Utilization > 0.9
}

func (self *InfrastructureData) MaintenanceType() MaintenanceType {
	if self.Condition < 0.3 {
		return EMERGENCY
	}
	if self.Condition < 0.5 {
		return CORRECTIVE
	}
	if self.Utilization > 0.85 {
		return PREVENTIVE
	}
	return ROUTINE
}

// Base maintenance cost scaled up for worn infrastructure.
func (self *InfrastructureData) EstimateMaintenanceCost() float64 {
	return self.MaintenanceCost * (1.0 + (1.0-self.Condition)*2.0)
}

// Duration in hours by maintenance type, worse condition takes longer.
func (self *InfrastructureData) EstimateMaintenanceDuration() float64 {
	base := 0.0
	switch self.MaintenanceType() {
	case ROUTINE:
		base = 4.0
	case PREVENTIVE:
		base = 8.0
	case CORRECTIVE:
		base = 16.0
	case EMERGENCY:
		base = 24.0
	case UPGRADE:
		base = 72.0
	}
	return base * (2.0 - self.Condition)
}

func (self *InfrastructureData) RequiredResources() []string {
	switch self.MaintenanceType() {
	case ROUTINE:
		return []string{"technician", "basic_tools"}
	case PREVENTIVE:
		return []string{"technician", "specialized_tools"}
	case CORRECTIVE:
		return []string{"engineer", "repair_crew", "replacement_parts"}
	case EMERGENCY:
		return []string{"emergency_crew", "heavy_equipment"}
	case UPGRADE:
		return []string{"construction_crew", "project_manager", "upgrade_materials"}
	default:
		return nil
	}
}

//*******************************************
// capacity monitoring
//*******************************************

type AlertSeverity byte

const (
	LOW      AlertSeverity = 0
	MEDIUM   AlertSeverity = 1
	HIGH     AlertSeverity = 2
	CRITICAL AlertSeverity = 3
)

func (self AlertSeverity) String() string {
	switch self {
	case LOW:
		return "low"
	case MEDIUM:
		return "medium"
	case HIGH:
		return "high"
	case CRITICAL:
		return "critical"
	default:
		panic("unknown alert severity")
	}
}
func (self AlertSeverity) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.String())
}
func (self *AlertSeverity) UnmarshalJSON(data []byte) error {
	var severity string
	if err := json.Unmarshal(data, &severity); err != nil {
		return err
	}
	s, err := AlertSeverityFromString(severity)
	*self = s
	return err
}

func AlertSeverityFromString(s string) (AlertSeverity, error) {
	switch s {
	case "low":
		return LOW, nil
	case "medium":
		return MEDIUM, nil
	case "high":
		return HIGH, nil
	case "critical":
		return CRITICAL, nil
	default:
		return LOW, errors.New("unknown alert severity")
	}
}

type CongestionAlert struct {
	LocationID         string        `json:"location_id"`
	Severity           AlertSeverity `json:"severity"`
	PredictedDuration  float64       `json:"predicted_duration"`
	RecommendedActions []string      `json:"recommended_actions"`
}

// Assumed congestion duration in minutes when an alert fires.
const CONGESTION_ALERT_DURATION = 60.0

// CapacityMonitor raises congestion alerts for infrastructure whose
// utilization exceeds its configured threshold.
type CapacityMonitor struct {
	thresholds Dict[string, float64]
	alerts     []CongestionAlert
}

func NewCapacityMonitor() *CapacityMonitor {
	return &CapacityMonitor{
		thresholds: NewDict[string, float64](10),
	}
}

func (self *CapacityMonitor) SetThreshold(infrastructure_id string, threshold float64) {
	self.thresholds.Set(infrastructure_id, threshold)
}

// CheckThresholds rebuilds the alert list. Only infrastructure with a
// configured threshold is monitored; ids are checked in sorted order so
// the alert list is stable.
func (self *CapacityMonitor) CheckThresholds(registry Dict[string, *InfrastructureData]) []CongestionAlert {
	self.alerts = self.alerts[:0]
	ids := make([]string, 0, registry.Length())
	for id := range registry {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		if !self.thresholds.ContainsKey(id) {
			continue
		}
		infra := registry.Get(id)
		if infra.Utilization <= self.thresholds.Get(id) {
			continue
		}
		severity := LOW
		switch {
		case infra.Utilization > 0.95:
			severity = CRITICAL
		case infra.Utilization > 0.85:
			severity = HIGH
		case infra.Utilization > 0.75:
			severity = MEDIUM
		}
		self.alerts = append(self.alerts, CongestionAlert{
			LocationID:         id,
			Severity:           severity,
			PredictedDuration:  CONGESTION_ALERT_DURATION,
			RecommendedActions: recommended_actions(infra),
		})
	}
	return self.alerts
}

func (self *CapacityMonitor) Alerts() []CongestionAlert {
	return self.alerts
}

func recommended_actions(infra *InfrastructureData) []string {
	actions := make([]string, 0, 3)
	if infra.Utilization > 0.9 {
		actions = append(actions, "Consider traffic diversion")
		actions = append(actions, "Implement demand management")
	}
	if infra.Condition < 0.7 {
		actions = append(actions, "Schedule immediate maintenance")
	}
	return actions
}

//*******************************************
// upgrade planning
//*******************************************

type PlannedUpgrade struct {
	ID                   string  `json:"id"`
	TargetInfrastructure string  `json:"target_infrastructure"`
	UpgradeType          string  `json:"upgrade_type"`
	EstimatedCost        float64 `json:"estimated_cost"`
	ExpectedBenefit      float64 `json:"expected_benefit"`
}

// UpgradePlanner picks upgrades greedily by benefit-cost ratio until the
// budget runs out.
type UpgradePlanner struct {
	planned []PlannedUpgrade
}

func NewUpgradePlanner() *UpgradePlanner {
	return &UpgradePlanner{}
}

func (self *UpgradePlanner) AddUpgrade(upgrade PlannedUpgrade) {
	self.planned = append(self.planned, upgrade)
}

func (self *UpgradePlanner) OptimizeUpgrades(budget float64) []PlannedUpgrade {
	candidates := make([]PlannedUpgrade, len(self.planned))
	copy(candidates, self.planned)
	slices.SortFunc(candidates, func(a, b PlannedUpgrade) int {
		ratio_a := a.ExpectedBenefit / a.EstimatedCost
		ratio_b := b.ExpectedBenefit / b.EstimatedCost
		if ratio_a > ratio_b {
			return -1
		}
		if ratio_a < ratio_b {
			return 1
		}
		return 0
	})

	selected := make([]PlannedUpgrade, 0, len(candidates))
	remaining := budget
	for _, upgrade := range candidates {
		if upgrade.EstimatedCost <= remaining {
			remaining -= upgrade.EstimatedCost
			selected = append(selected, upgrade)
		}
	}
	return selected
}

//*******************************************
// infrastructure manager
//*******************************************

// InfrastructureManager tracks infrastructure condition, watches capacity
// and turns degraded assets into maintenance tasks.
type InfrastructureManager struct {
	registry Dict[string, *InfrastructureData]
	monitor  *CapacityMonitor
	planner  *UpgradePlanner
}

func NewInfrastructureManager() *InfrastructureManager {
	return &InfrastructureManager{
		registry: NewDict[string, *InfrastructureData](10),
		monitor:  NewCapacityMonitor(),
		planner:  NewUpgradePlanner(),
	}
}

func (self *InfrastructureManager) Register(data InfrastructureData) {
	self.registry.Set(data.ID, &data)
}

func (self *InfrastructureManager) Get(id string) (*InfrastructureData, bool) {
	if !self.registry.ContainsKey(id) {
		return nil, false
	}
	return self.registry.Get(id), true
}

// Wear rate per second of simulation time, scaled by utilization.
const CONDITION_DECAY_RATE = 0.00001

// UpdateInfrastructureState degrades asset condition with use. Heavily
// utilized assets wear faster.
func (self *InfrastructureManager) UpdateInfrastructureState(delta float64) {
	for _, infra := range self.registry {
		infra.Condition -= CONDITION_DECAY_RATE * (1.0 + infra.Utilization) * delta
		if infra.Condition < 0 {
			infra.Condition = 0
		}
	}
}

func (self *InfrastructureManager) Monitor() *CapacityMonitor {
	return self.monitor
}

func (self *InfrastructureManager) Planner() *UpgradePlanner {
	return self.planner
}

// CheckCapacityUtilization runs the capacity monitor over the registry.
func (self *InfrastructureManager) CheckCapacityUtilization() []CongestionAlert {
	return self.monitor.CheckThresholds(self.registry)
}

// GenerateMaintenanceRecommendations builds a task for every asset that
// needs maintenance, in sorted id order.
func (self *InfrastructureManager) GenerateMaintenanceRecommendations() []MaintenanceTask {
	ids := make([]string, 0, self.registry.Length())
	for id := range self.registry {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	tasks := make([]MaintenanceTask, 0)
	for _, id := range ids {
		infra := self.registry.Get(id)
		if !infra.NeedsMaintenance() {
			continue
		}
		tasks = append(tasks, MaintenanceTask{
			ID:                fmt.Sprintf("maint_%v", infra.ID),
			TargetID:          infra.ID,
			Type:              infra.MaintenanceType(),
			EstimatedCost:     infra.EstimateMaintenanceCost(),
			EstimatedDuration: infra.EstimateMaintenanceDuration(),
			RequiredResources: infra.RequiredResources(),
		})
	}
	return tasks
}

// OptimizeUpgrades delegates to the upgrade planner.
func (self *InfrastructureManager) OptimizeUpgrades(budget float64) []PlannedUpgrade {
	return self.planner.OptimizeUpgrades(budget)
}
