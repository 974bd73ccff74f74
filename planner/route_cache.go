package planner

import (
	"github.com/ttpr0/go-transport/cache"
	"github.com/ttpr0/go-transport/traffic"
)

const (
	ROUTE_CACHE_SIZE   = 1000
	ROUTE_CACHE_EXPIRY = 3600.0
)

//*******************************************
// route cache
//*******************************************

// RouteCache memoizes full planning results keyed by the quantized request
// key. Entries age out after an hour; traffic-driven invalidation drops
// every route touching a flagged segment (the whole route, never a partial
// patch).
type RouteCache struct {
	cache *cache.Cache[RequestKey, RouteResult]
}

func NewRouteCache(policy cache.EvictionPolicy) *RouteCache {
	return &RouteCache{
		cache: cache.NewCache[RequestKey, RouteResult](policy, ROUTE_CACHE_SIZE, ROUTE_CACHE_EXPIRY),
	}
}

func (self *RouteCache) Get(request RouteRequest) (RouteResult, bool) {
	return self.cache.Get(request.Key())
}

func (self *RouteCache) Insert(request RouteRequest, route RouteResult) {
	self.cache.Set(request.Key(), route)
}

// InvalidateAffected drops every cached route with a segment in a changed
// traffic region and resets the predictor's change flags.
func (self *RouteCache) InvalidateAffected(predictor *traffic.TrafficPredictor) int {
	removed := self.cache.RemoveIf(func(key RequestKey, route RouteResult) bool {
		for _, segment := range route.RouteSegments {
			if predictor.HasSignificantChanges(segment.StartPoint, segment.EndPoint) {
				return true
			}
		}
		return false
	})
	predictor.ClearChanges()
	return removed
}

func (self *RouteCache) Length() int {
	return self.cache.Length()
}
