package analysis

import (
	"golang.org/x/exp/slices"

	"github.com/ttpr0/go-transport/graph"
	"github.com/ttpr0/go-transport/traffic"
	. "github.com/ttpr0/go-transport/util"
)

// Congestion level above which an edge counts as a bottleneck.
const BOTTLENECK_CONGESTION_THRESHOLD = 0.8

// Capacity utilization above which an edge counts as a bottleneck.
const BOTTLENECK_UTILIZATION_THRESHOLD = 0.9

// Assumed cost per hour of incident delay.
const DELAY_COST_PER_HOUR = 50.0

type BottleneckRanking struct {
	LocationID     string  `json:"location_id"`
	SeverityScore  float64 `json:"severity_score"`
	ImpactRadius   float64 `json:"impact_radius"`
	Frequency      float64 `json:"frequency"`
	EconomicImpact float64 `json:"economic_impact"`
}

// BottleneckDetector flags edges whose live traffic exceeds the congestion
// or utilization thresholds and ranks them by severity.
type BottleneckDetector struct {
	rankings []BottleneckRanking
}

func NewBottleneckDetector() *BottleneckDetector {
	return &BottleneckDetector{}
}

// DetectBottlenecks scans the traffic data of every edge. The result is
// sorted by severity, most severe first; ties keep a stable order by
// location id.
func (self *BottleneckDetector) DetectBottlenecks(g *graph.NetworkGraph, traffic_data Dict[string, *traffic.TrafficData]) []BottleneckRanking {
	bottlenecks := make([]BottleneckRanking, 0)
	for edge_id, data := range traffic_data {
		edge, ok := g.GetEdge(edge_id)
		if !ok {
			continue
		}
		utilization := 0.0
		if edge.Capacity > 0 {
			utilization = edge.CurrentTraffic / edge.Capacity
		}
		if data.CongestionLevel <= BOTTLENECK_CONGESTION_THRESHOLD && utilization <= BOTTLENECK_UTILIZATION_THRESHOLD {
			continue
		}
		bottlenecks = append(bottlenecks, BottleneckRanking{
			LocationID:     edge_id,
			SeverityScore:  data.CongestionLevel * utilization,
			ImpactRadius:   edge.Length * 2.0,
			Frequency:      congestion_frequency(data),
			EconomicImpact: economic_impact(data),
		})
	}

	slices.SortFunc(bottlenecks, func(a, b BottleneckRanking) int {
		if a.SeverityScore > b.SeverityScore {
			return -1
		}
		if a.SeverityScore < b.SeverityScore {
			return 1
		}
		if a.LocationID < b.LocationID {
			return -1
		}
		if a.LocationID > b.LocationID {
			return 1
		}
		return 0
	})
	self.rankings = bottlenecks
	return bottlenecks
}

// Rankings returns the result of the most recent detection run.
func (self *BottleneckDetector) Rankings() []BottleneckRanking {
	return self.rankings
}

// Mean congestion probability over the recorded patterns.
func congestion_frequency(data *traffic.TrafficData) float64 {
	if len(data.HistoricalPatterns) == 0 {
		return 0.0
	}
	total := 0.0
	for _, pattern := range data.HistoricalPatterns {
		total += pattern.CongestionProbability
	}
	return total / float64(len(data.HistoricalPatterns))
}

// Delay cost from the remaining durations of active incidents.
func economic_impact(data *traffic.TrafficData) float64 {
	delay_hours := 0.0
	for _, incident := range data.Incidents {
		delay_hours += incident.Duration
	}
	return delay_hours * DELAY_COST_PER_HOUR
}
