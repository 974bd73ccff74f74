package maintenance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func test_allocator() *ResourceAllocator {
	allocator := NewResourceAllocator(func() float64 { return 0.0 })
	allocator.AddResource(Resource{ResourceID: "crew_1", ResourceType: "repair_crew", Capacity: 2})
	allocator.AddResource(Resource{ResourceID: "tech_1", ResourceType: "technician", Capacity: 1})
	return allocator
}

func task(id string, typ MaintenanceType, resources ...string) MaintenanceTask {
	return MaintenanceTask{
		ID:                id,
		TargetID:          "edge_1",
		Type:              typ,
		EstimatedCost:     1000,
		EstimatedDuration: 8,
		RequiredResources: resources,
	}
}

func TestScheduleTaskRejectsInvalidDuration(t *testing.T) {
	scheduler := NewMaintenanceScheduler(test_allocator())
	invalid := task("task_1", ROUTINE, "technician")
	invalid.EstimatedDuration = 0
	assert.Error(t, scheduler.ScheduleTask(invalid))
	assert.Equal(t, 0, scheduler.QueueLength())
}

func TestScheduleTaskPriorityOrder(t *testing.T) {
	scheduler := NewMaintenanceScheduler(test_allocator())
	require.NoError(t, scheduler.ScheduleTask(task("routine_1", ROUTINE, "technician")))
	require.NoError(t, scheduler.ScheduleTask(task("emergency_1", EMERGENCY, "repair_crew")))
	require.NoError(t, scheduler.ScheduleTask(task("routine_2", ROUTINE, "technician")))

	queue := scheduler.Queue()
	require.Len(t, queue, 3)
	assert.Equal(t, "emergency_1", queue[0].Task.ID)
	// equal priorities keep arrival order
	assert.Equal(t, "routine_1", queue[1].Task.ID)
	assert.Equal(t, "routine_2", queue[2].Task.ID)
}

func TestPriorityCalculation(t *testing.T) {
	calculator := NewPriorityCalculator()
	emergency := task("task_1", EMERGENCY)
	emergency.EstimatedCost = 1000
	emergency.EstimatedDuration = 24
	// 1.0 + 0.5*0.2 + 0.5*0.2
	assert.InDelta(t, 1.2, calculator.CalculatePriority(emergency), 1e-9)

	cheap := task("task_2", EMERGENCY)
	cheap.EstimatedCost = 0
	cheap.EstimatedDuration = 24
	assert.Greater(t, calculator.CalculatePriority(cheap), calculator.CalculatePriority(emergency))
}

func TestProcessQueueDispatches(t *testing.T) {
	allocator := test_allocator()
	scheduler := NewMaintenanceScheduler(allocator)
	require.NoError(t, scheduler.ScheduleTask(task("task_1", CORRECTIVE, "repair_crew")))
	require.NoError(t, scheduler.ScheduleTask(task("task_2", ROUTINE, "technician")))

	dispatched := scheduler.ProcessSchedulingQueue()
	require.Len(t, dispatched, 2)
	assert.Equal(t, "task_1", dispatched[0].Task.ID)
	assert.Equal(t, 0, scheduler.QueueLength())

	allocator.OptimizeAllocations()
	assert.InDelta(t, 0.5, allocator.UtilizationRate("repair_crew"), 1e-9)
	assert.InDelta(t, 1.0, allocator.UtilizationRate("technician"), 1e-9)
}

func TestScheduleTaskRejectsUnknownResource(t *testing.T) {
	scheduler := NewMaintenanceScheduler(test_allocator())
	err := scheduler.ScheduleTask(task("impossible", EMERGENCY, "heavy_equipment"))
	assert.Error(t, err)
	assert.Equal(t, 0, scheduler.QueueLength())

	// a well-formed task still goes through the queue
	require.NoError(t, scheduler.ScheduleTask(task("ready", ROUTINE, "technician")))
	dispatched := scheduler.ProcessSchedulingQueue()
	require.Len(t, dispatched, 1)
	assert.Equal(t, "ready", dispatched[0].Task.ID)
}

func TestProcessQueueHeadOfLineBlocking(t *testing.T) {
	allocator := test_allocator()
	scheduler := NewMaintenanceScheduler(allocator)
	// exhaust the single repair crew so the head task cannot allocate
	require.True(t, allocator.AllocateResources(task("occupier_1", CORRECTIVE, "repair_crew")))
	require.True(t, allocator.AllocateResources(task("occupier_2", CORRECTIVE, "repair_crew")))
	require.NoError(t, scheduler.ScheduleTask(task("blocked", EMERGENCY, "repair_crew")))
	require.NoError(t, scheduler.ScheduleTask(task("ready", ROUTINE, "technician")))

	dispatched := scheduler.ProcessSchedulingQueue()
	assert.Empty(t, dispatched)
	assert.Equal(t, 2, scheduler.QueueLength())
	assert.Equal(t, "blocked", scheduler.Queue()[0].Task.ID)
}

func TestAllocatorExhaustedCapacity(t *testing.T) {
	allocator := test_allocator()
	first := task("task_1", ROUTINE, "technician")
	require.True(t, allocator.AllocateResources(first))
	second := task("task_2", ROUTINE, "technician")
	assert.False(t, allocator.CanAllocateResources(second))

	allocator.ReleaseResources(first)
	assert.True(t, allocator.CanAllocateResources(second))
}

func TestUpdatePrioritiesReorders(t *testing.T) {
	scheduler := NewMaintenanceScheduler(test_allocator())
	require.NoError(t, scheduler.ScheduleTask(task("task_1", ROUTINE, "technician")))
	require.NoError(t, scheduler.ScheduleTask(task("task_2", EMERGENCY, "repair_crew")))
	scheduler.UpdatePriorities()
	require.Equal(t, 2, scheduler.QueueLength())
	assert.Equal(t, "task_2", scheduler.Queue()[0].Task.ID)
}

func TestInfrastructureRecommendations(t *testing.T) {
	manager := NewInfrastructureManager()
	manager.Register(InfrastructureData{ID: "bridge_1", Condition: 0.4, Utilization: 0.5, MaintenanceCost: 1000})
	manager.Register(InfrastructureData{ID: "road_1", Condition: 0.9, Utilization: 0.5, MaintenanceCost: 500})

	tasks := manager.GenerateMaintenanceRecommendations()
	require.Len(t, tasks, 1)
	assert.Equal(t, "maint_bridge_1", tasks[0].ID)
	assert.Equal(t, CORRECTIVE, tasks[0].Type)
	// base cost scaled by wear: 1000 * (1 + 0.6*2)
	assert.InDelta(t, 2200.0, tasks[0].EstimatedCost, 1e-6)
	// corrective base of 16h scaled by condition: 16 * 1.6
	assert.InDelta(t, 25.6, tasks[0].EstimatedDuration, 1e-6)
	assert.Contains(t, tasks[0].RequiredResources, "repair_crew")
}

func TestCapacityAlerts(t *testing.T) {
	manager := NewInfrastructureManager()
	manager.Register(InfrastructureData{ID: "junction_1", Condition: 0.9, Utilization: 0.96})
	manager.Register(InfrastructureData{ID: "junction_2", Condition: 0.6, Utilization: 0.8})
	manager.Register(InfrastructureData{ID: "junction_3", Condition: 0.9, Utilization: 0.99})
	manager.Monitor().SetThreshold("junction_1", 0.75)
	manager.Monitor().SetThreshold("junction_2", 0.75)
	// junction_3 is not monitored

	alerts := manager.CheckCapacityUtilization()
	require.Len(t, alerts, 2)
	assert.Equal(t, "junction_1", alerts[0].LocationID)
	assert.Equal(t, CRITICAL, alerts[0].Severity)
	assert.Contains(t, alerts[0].RecommendedActions, "Consider traffic diversion")
	assert.Equal(t, MEDIUM, alerts[1].Severity)
	assert.Contains(t, alerts[1].RecommendedActions, "Schedule immediate maintenance")
}

func TestUpgradePlannerBudget(t *testing.T) {
	planner := NewUpgradePlanner()
	planner.AddUpgrade(PlannedUpgrade{ID: "upgrade_1", EstimatedCost: 100, ExpectedBenefit: 500})
	planner.AddUpgrade(PlannedUpgrade{ID: "upgrade_2", EstimatedCost: 200, ExpectedBenefit: 400})
	planner.AddUpgrade(PlannedUpgrade{ID: "upgrade_3", EstimatedCost: 1000, ExpectedBenefit: 800})

	selected := planner.OptimizeUpgrades(350)
	require.Len(t, selected, 2)
	assert.Equal(t, "upgrade_1", selected[0].ID)
	assert.Equal(t, "upgrade_2", selected[1].ID)
}
