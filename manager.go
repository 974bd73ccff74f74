package main

import (
	"sync"
	"time"

	"golang.org/x/exp/slog"

	"github.com/ttpr0/go-transport/cache"
	"github.com/ttpr0/go-transport/maintenance"
	"github.com/ttpr0/go-transport/network"
	"github.com/ttpr0/go-transport/planner"
)

//**********************************************************
// transport manager
//**********************************************************

// TransportManager owns the network and the route planner and serializes
// access from the HTTP handlers and the tick loop.
type TransportManager struct {
	network *network.TransportationNetwork
	planner *planner.RoutePlanner
	budget  float64
	lock    sync.Mutex
}

func NewTransportManager(config Config) *TransportManager {
	net := network.NewTransportationNetwork(config.WorldMin(), config.WorldMax(), config.Routing.MaxExpansions)
	for _, option := range config.Maintenance.Resources {
		net.Scheduler().Allocator().AddResource(maintenance.Resource{
			ResourceID:   option.ID,
			ResourceType: option.Type,
			Capacity:     option.Capacity,
			CostPerUnit:  option.CostPerUnit,
		})
	}
	policy, err := cache.EvictionPolicyFromString(config.Cache.Policy)
	if err != nil {
		slog.Warn("unknown cache policy, using lru", "policy", config.Cache.Policy)
		policy = cache.LRU
	}
	return &TransportManager{
		network: net,
		planner: planner.NewRoutePlannerWithPolicy(planner.NewUUIDGenerator(), config.Routing.MaxExpansions, policy),
		budget:  config.Maintenance.UpgradeBudget,
	}
}

// RunTicker drives the network simulation until the process exits.
func (self *TransportManager) RunTicker(seconds float64) {
	ticker := time.NewTicker(time.Duration(seconds * float64(time.Second)))
	defer ticker.Stop()
	for range ticker.C {
		self.lock.Lock()
		self.network.Update(seconds)
		self.lock.Unlock()
	}
}

func (self *TransportManager) WithLock(fn func()) {
	self.lock.Lock()
	defer self.lock.Unlock()
	fn()
}
