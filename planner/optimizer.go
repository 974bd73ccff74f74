package planner

import (
	"golang.org/x/exp/slog"
)

//*******************************************
// optimization strategies
//*******************************************

// IOptimizationStrategy is one pass of the route optimizer. Apply must be
// idempotent: applying a strategy twice yields the same aggregates as
// applying it once, so strategies derive values from segment geometry
// instead of compounding previous adjustments.
type IOptimizationStrategy interface {
	Name() string
	AppliesTo(criteria OptimizationCriteria) bool
	Apply(route RouteResult, criteria OptimizationCriteria) (RouteResult, error)
}

// RouteOptimizer runs a registered, ordered list of strategies over a route
// and finishes with a constraint pass. A failing strategy is logged and
// skipped, it never fails the surrounding planning call.
type RouteOptimizer struct {
	strategies []IOptimizationStrategy
	solver     ConstraintSolver
}

func NewRouteOptimizer() *RouteOptimizer {
	optimizer := &RouteOptimizer{}
	optimizer.Register(TrafficAvoidanceStrategy{})
	optimizer.Register(FuelEfficiencyStrategy{})
	optimizer.Register(TimeMinimizationStrategy{})
	optimizer.Register(ComfortMaximizationStrategy{})
	optimizer.Register(CostMinimizationStrategy{})
	return optimizer
}

func (self *RouteOptimizer) Register(strategy IOptimizationStrategy) {
	self.strategies = append(self.strategies, strategy)
}

func (self *RouteOptimizer) Optimize(route RouteResult, criteria OptimizationCriteria) RouteResult {
	optimized := route
	for _, strategy := range self.strategies {
		if !strategy.AppliesTo(criteria) {
			continue
		}
		result, err := strategy.Apply(optimized, criteria)
		if err != nil {
			slog.Warn("optimization strategy failed", "strategy", strategy.Name(), "error", err)
			continue
		}
		optimized = result
	}
	return self.solver.EnforceConstraints(optimized, criteria)
}

// Recomputes segment durations from distance, speed limit and the traffic
// level, then re-aggregates the totals. Shared by the strategies so every
// pass derives from the same base quantities.
func recompute_durations(route RouteResult) RouteResult {
	// multi-modal durations follow mode speeds and transition penalties,
	// repricing them against speed limits would discard both
	if len(route.ModeSegments) > 0 {
		return route
	}
	total_distance := 0.0
	total_duration := 0.0
	segments := make([]RouteSegment, len(route.RouteSegments))
	for i, segment := range route.RouteSegments {
		speed := segment.SpeedLimit * segment.TrafficConditions.SpeedFactor()
		if speed < 1 {
			speed = 1
		}
		segment.EstimatedDuration = segment.Distance / speed * 3.6
		segments[i] = segment
		total_distance += segment.Distance
		total_duration += segment.EstimatedDuration
	}
	route.RouteSegments = segments
	route.TotalDistance = total_distance
	route.EstimatedDuration = total_duration
	return route
}

func has_objective(criteria OptimizationCriteria, objective OptimizationObjective) bool {
	if criteria.PrimaryObjective == objective {
		return true
	}
	for _, secondary := range criteria.SecondaryObjectives {
		if secondary == objective {
			return true
		}
	}
	return false
}

//*******************************************
// built-in strategies
//*******************************************

// TrafficAvoidanceStrategy reprices congested segments so the aggregate
// duration reflects the current traffic levels.
type TrafficAvoidanceStrategy struct{}

func (self TrafficAvoidanceStrategy) Name() string {
	return "traffic_avoidance"
}
func (self TrafficAvoidanceStrategy) AppliesTo(criteria OptimizationCriteria) bool {
	return has_objective(criteria, MINIMIZE_TIME)
}
func (self TrafficAvoidanceStrategy) Apply(route RouteResult, criteria OptimizationCriteria) (RouteResult, error) {
	return recompute_durations(route), nil
}

type FuelEfficiencyStrategy struct{}

func (self FuelEfficiencyStrategy) Name() string {
	return "fuel_efficiency"
}
func (self FuelEfficiencyStrategy) AppliesTo(criteria OptimizationCriteria) bool {
	return has_objective(criteria, MINIMIZE_FUEL_CONSUMPTION) || has_objective(criteria, MINIMIZE_ENVIRONMENTAL_IMPACT)
}
func (self FuelEfficiencyStrategy) Apply(route RouteResult, criteria OptimizationCriteria) (RouteResult, error) {
	return route, nil
}

// TimeMinimizationStrategy keeps the aggregate duration consistent with the
// per-segment estimates.
type TimeMinimizationStrategy struct{}

func (self TimeMinimizationStrategy) Name() string {
	return "time_minimization"
}
func (self TimeMinimizationStrategy) AppliesTo(criteria OptimizationCriteria) bool {
	return has_objective(criteria, MINIMIZE_TIME)
}
func (self TimeMinimizationStrategy) Apply(route RouteResult, criteria OptimizationCriteria) (RouteResult, error) {
	return recompute_durations(route), nil
}

type ComfortMaximizationStrategy struct{}

func (self ComfortMaximizationStrategy) Name() string {
	return "comfort_maximization"
}
func (self ComfortMaximizationStrategy) AppliesTo(criteria OptimizationCriteria) bool {
	return has_objective(criteria, MAXIMIZE_COMFORT)
}
func (self ComfortMaximizationStrategy) Apply(route RouteResult, criteria OptimizationCriteria) (RouteResult, error) {
	return route, nil
}

type CostMinimizationStrategy struct{}

func (self CostMinimizationStrategy) Name() string {
	return "cost_minimization"
}
func (self CostMinimizationStrategy) AppliesTo(criteria OptimizationCriteria) bool {
	return has_objective(criteria, MINIMIZE_COST)
}
func (self CostMinimizationStrategy) Apply(route RouteResult, criteria OptimizationCriteria) (RouteResult, error) {
	return route, nil
}

//*******************************************
// constraint solver
//*******************************************

// ConstraintSolver is the final optimization pass. Hard limits cannot be
// repaired by reshaping an already-planned route, so violations are logged
// and the route passes through unchanged.
type ConstraintSolver struct{}

func (self ConstraintSolver) EnforceConstraints(route RouteResult, criteria OptimizationCriteria) RouteResult {
	if criteria.MaxTime.HasValue() && route.EstimatedDuration > criteria.MaxTime.Value {
		slog.Warn("route exceeds time constraint", "duration", route.EstimatedDuration, "limit", criteria.MaxTime.Value)
	}
	if criteria.MaxCost.HasValue() {
		cost := route.TotalDistance * 0.1
		if cost > criteria.MaxCost.Value {
			slog.Warn("route exceeds cost constraint", "cost", cost, "limit", criteria.MaxCost.Value)
		}
	}
	return route
}
