package maintenance

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slog"
)

//*******************************************
// maintenance scheduler
//*******************************************

// MaintenanceScheduler keeps a priority-ordered queue of maintenance tasks
// and dispatches them as resources become available. Equal priorities keep
// their arrival order.
type MaintenanceScheduler struct {
	queue      []ScheduledTask
	allocator  *ResourceAllocator
	calculator *PriorityCalculator
	dispatched []ScheduledTask
}

func NewMaintenanceScheduler(allocator *ResourceAllocator) *MaintenanceScheduler {
	return &MaintenanceScheduler{
		allocator:  allocator,
		calculator: NewPriorityCalculator(),
	}
}

func (self *MaintenanceScheduler) Allocator() *ResourceAllocator {
	return self.allocator
}

// ScheduleTask validates the task, scores it and inserts it into the queue
// in priority order. Tasks naming an unregistered resource type are rejected
// here, a queued task that can never allocate would block the head of the
// queue forever.
func (self *MaintenanceScheduler) ScheduleTask(task MaintenanceTask) error {
	if task.EstimatedDuration <= 0 {
		return errors.New("invalid task duration")
	}
	for _, resource_type := range task.RequiredResources {
		if !self.allocator.HasResource(resource_type) {
			return fmt.Errorf("unknown resource type %v", resource_type)
		}
	}

	priority := self.calculator.CalculatePriority(task)
	requirements := make([]ResourceRequirement, 0, len(task.RequiredResources))
	for _, resource_type := range task.RequiredResources {
		requirements = append(requirements, ResourceRequirement{
			ResourceType: resource_type,
			Quantity:     1.0,
			Duration:     task.EstimatedDuration,
		})
	}
	scheduled := ScheduledTask{
		Task:          task,
		Requirements:  requirements,
		PriorityScore: priority,
	}

	// insert before the first strictly lower priority, equal scores stay
	// in arrival order
	position := len(self.queue)
	for i, existing := range self.queue {
		if existing.PriorityScore < priority {
			position = i
			break
		}
	}
	self.queue = append(self.queue, ScheduledTask{})
	copy(self.queue[position+1:], self.queue[position:])
	self.queue[position] = scheduled
	return nil
}

// ProcessSchedulingQueue dispatches tasks from the front of the queue until
// one cannot get its resources. That task stays at the head and dispatching
// stops, lower-priority tasks never overtake it.
func (self *MaintenanceScheduler) ProcessSchedulingQueue() []ScheduledTask {
	dispatched := make([]ScheduledTask, 0)
	for len(self.queue) > 0 {
		next := self.queue[0]
		if !self.allocator.CanAllocateResources(next.Task) {
			break
		}
		self.queue = self.queue[1:]
		self.allocator.AllocateResources(next.Task)
		dispatched = append(dispatched, next)
		slog.Info("maintenance task dispatched", "task", next.Task.ID, "target", next.Task.TargetID, "priority", next.PriorityScore)
	}
	self.dispatched = append(self.dispatched, dispatched...)
	return dispatched
}

// UpdatePriorities rescores every queued task and rebuilds the queue order.
func (self *MaintenanceScheduler) UpdatePriorities() {
	pending := self.queue
	self.queue = nil
	for _, scheduled := range pending {
		if err := self.ScheduleTask(scheduled.Task); err != nil {
			slog.Warn("task dropped during rescheduling", "task", scheduled.Task.ID, "error", err)
		}
	}
}

// QueueLength returns the number of pending tasks.
func (self *MaintenanceScheduler) QueueLength() int {
	return len(self.queue)
}

// Queue returns the pending tasks in dispatch order.
func (self *MaintenanceScheduler) Queue() []ScheduledTask {
	return self.queue
}

// Dispatched returns every task dispatched so far.
func (self *MaintenanceScheduler) Dispatched() []ScheduledTask {
	return self.dispatched
}
