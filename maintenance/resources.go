package maintenance

import (
	. "github.com/ttpr0/go-transport/util"
)

//*******************************************
// resource allocation
//*******************************************

type Resource struct {
	ResourceID        string  `json:"resource_id"`
	ResourceType      string  `json:"resource_type"`
	Capacity          float64 `json:"capacity"`
	CurrentAllocation float64 `json:"current_allocation"`
	CostPerUnit       float64 `json:"cost_per_unit"`
}

type AllocationRecord struct {
	Timestamp       float64 `json:"timestamp"`
	ResourceID      string  `json:"resource_id"`
	TaskID          string  `json:"task_id"`
	AllocatedAmount float64 `json:"allocated_amount"`
	Duration        float64 `json:"duration"`
}

// ResourceAllocator tracks maintenance resources by type and hands them out
// one unit at a time. The clock is injectable so allocation records carry
// simulation time in tests.
type ResourceAllocator struct {
	resources         Dict[string, *Resource]
	assignments       Dict[string, string]
	utilization_rates Dict[string, float64]
	history           []AllocationRecord
	clock             func() float64
}

func NewResourceAllocator(clock func() float64) *ResourceAllocator {
	return &ResourceAllocator{
		resources:         NewDict[string, *Resource](10),
		assignments:       NewDict[string, string](10),
		utilization_rates: NewDict[string, float64](10),
		clock:             clock,
	}
}

// AddResource registers a resource pool under its type.
func (self *ResourceAllocator) AddResource(resource Resource) {
	self.resources.Set(resource.ResourceType, &resource)
}

// HasResource reports whether a pool is registered for the resource type.
func (self *ResourceAllocator) HasResource(resource_type string) bool {
	return self.resources.ContainsKey(resource_type)
}

// CanAllocateResources reports whether every required resource type exists
// and has free capacity. An unknown resource type always fails.
func (self *ResourceAllocator) CanAllocateResources(task MaintenanceTask) bool {
	for _, required := range task.RequiredResources {
		if !self.resources.ContainsKey(required) {
			return false
		}
		resource := self.resources.Get(required)
		if resource.CurrentAllocation >= resource.Capacity {
			return false
		}
	}
	return true
}

// AllocateResources takes one unit of every required resource and records
// the assignment. Nothing is taken when any requirement cannot be met.
func (self *ResourceAllocator) AllocateResources(task MaintenanceTask) bool {
	if !self.CanAllocateResources(task) {
		return false
	}
	for _, required := range task.RequiredResources {
		resource := self.resources.Get(required)
		resource.CurrentAllocation += 1.0
		self.assignments.Set(task.ID, required)
		self.history = append(self.history, AllocationRecord{
			Timestamp:       self.clock(),
			ResourceID:      resource.ResourceID,
			TaskID:          task.ID,
			AllocatedAmount: 1.0,
			Duration:        task.EstimatedDuration,
		})
	}
	return true
}

// ReleaseResources returns one unit of every required resource.
func (self *ResourceAllocator) ReleaseResources(task MaintenanceTask) {
	for _, required := range task.RequiredResources {
		if !self.resources.ContainsKey(required) {
			continue
		}
		resource := self.resources.Get(required)
		if resource.CurrentAllocation > 0 {
			resource.CurrentAllocation -= 1.0
		}
	}
	self.assignments.Delete(task.ID)
}

// OptimizeAllocations refreshes the per-resource utilization rates.
func (self *ResourceAllocator) OptimizeAllocations() {
	for resource_type, resource := range self.resources {
		utilization := 0.0
		if resource.Capacity > 0 {
			utilization = resource.CurrentAllocation / resource.Capacity
		}
		self.utilization_rates.Set(resource_type, utilization)
	}
}

func (self *ResourceAllocator) UtilizationRate(resource_type string) float64 {
	return self.utilization_rates.Get(resource_type)
}

func (self *ResourceAllocator) History() []AllocationRecord {
	return self.history
}
