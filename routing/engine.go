package routing

import (
	"math"

	"github.com/ttpr0/go-transport/cache"
	"github.com/ttpr0/go-transport/graph"
)

//*******************************************
// path results
//*******************************************

type TrafficCondition struct {
	EdgeID          string  `json:"edge_id"`
	CongestionLevel float64 `json:"congestion_level"`
	ExpectedDelay   float64 `json:"expected_delay"`
}

type PathResult struct {
	Path              []string           `json:"path"`
	TotalDistance     float64            `json:"total_distance"`
	EstimatedTime     float64            `json:"estimated_time"`
	TotalCost         float64            `json:"total_cost"`
	ReliabilityScore  float64            `json:"reliability_score"`
	TrafficConditions []TrafficCondition `json:"traffic_conditions"`
}

type PathfindingStats struct {
	SearchCount int `json:"search_count"`
	CacheHits   int `json:"cache_hits"`
	CacheMisses int `json:"cache_misses"`
}

//*******************************************
// pathfinding engine
//*******************************************

type path_key struct {
	start  string
	end    string
	target OptimizationTarget
}

const (
	PATH_CACHE_SIZE   = 10000
	PATH_CACHE_EXPIRY = 3600.0
)

// PathfindingEngine computes node-to-node paths over a NetworkGraph and
// memoizes them. Cached paths expire after an hour; traffic-driven
// invalidation happens at the route level, the path cache only ages out.
type PathfindingEngine struct {
	cache          *cache.Cache[path_key, PathResult]
	max_expansions int
	search_count   int
}

func NewPathfindingEngine(max_expansions int) *PathfindingEngine {
	return &PathfindingEngine{
		cache:          cache.NewCache[path_key, PathResult](cache.LRU, PATH_CACHE_SIZE, PATH_CACHE_EXPIRY),
		max_expansions: max_expansions,
	}
}

// FindPath runs an A* search between two node ids.
//
// Returns ErrNotFound when the nodes are disconnected and ErrBudgetExceeded
// when the expansion budget runs out first.
func (self *PathfindingEngine) FindPath(g *graph.NetworkGraph, start, end string, criteria PathCriteria) (PathResult, error) {
	key := path_key{start: start, end: end, target: criteria.OptimizeFor}
	if result, ok := self.cache.Get(key); ok {
		return result, nil
	}

	self.search_count += 1
	space := NewGraphSpace(g, criteria)
	path, err := CalcAStar[string](space, start, end, self.max_expansions)
	if err != nil {
		return PathResult{}, err
	}

	result := create_path_result(g, path, criteria)
	self.cache.Set(key, result)
	return result, nil
}

// CleanupCache drops expired cache entries, called once per tick.
func (self *PathfindingEngine) CleanupCache() {
	self.cache.Purge()
}

func (self *PathfindingEngine) Stats() PathfindingStats {
	return PathfindingStats{
		SearchCount: self.search_count,
		CacheHits:   self.cache.HitCount(),
		CacheMisses: self.cache.MissCount(),
	}
}

func create_path_result(g *graph.NetworkGraph, path []string, criteria PathCriteria) PathResult {
	total_distance := 0.0
	total_cost := 0.0
	estimated_time := 0.0
	condition_sum := 0.0
	conditions := make([]TrafficCondition, 0, len(path))

	for i := 0; i < len(path)-1; i++ {
		edge, _, ok := cheapest_edge(g, path[i], path[i+1], criteria)
		if !ok {
			continue
		}
		total_distance += edge.Length
		total_cost += edge.TollCost + edge.Length*0.1
		estimated_time += edge.Length / math.Max(edge.SpeedLimit, 1.0)
		condition_sum += edge.Condition
		conditions = append(conditions, TrafficCondition{
			EdgeID:          edge.ID,
			CongestionLevel: edge.CurrentTraffic,
			ExpectedDelay:   edge.CurrentTraffic * 10.0,
		})
	}

	reliability := 0.8
	if len(conditions) > 0 {
		reliability = condition_sum / float64(len(conditions))
	}

	return PathResult{
		Path:              path,
		TotalDistance:     total_distance,
		EstimatedTime:     estimated_time,
		TotalCost:         total_cost,
		ReliabilityScore:  reliability,
		TrafficConditions: conditions,
	}
}
