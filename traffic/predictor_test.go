package traffic

import (
	"math"
	"testing"

	"github.com/ttpr0/go-transport/geo"
	. "github.com/ttpr0/go-transport/util"
)

func TestTrafficDataUpdate(t *testing.T) {
	data := NewTrafficData("e1")
	data.HistoricalPatterns = []TrafficPattern{{Hour: 8, AverageVolume: 500}}
	data.AddIncident(TrafficIncident{ID: "i1", Type: ACCIDENT, Severity: 2.0, Duration: 5.0})

	data.Update(60, 8)
	if math.Abs(data.Volume-500) > 1e-9 {
		t.Errorf("expected pattern volume 500, got %v", data.Volume)
	}
	// volume 500 -> 0.5, incident severity 2.0 -> 0.2
	if math.Abs(data.CongestionLevel-0.7) > 1e-9 {
		t.Errorf("expected congestion 0.7, got %v", data.CongestionLevel)
	}
	expected_speed := 60.0 * (1.0 - 0.7*0.8)
	if math.Abs(data.AverageSpeed-expected_speed) > 1e-9 {
		t.Errorf("expected speed %v, got %v", expected_speed, data.AverageSpeed)
	}
}

func TestIncidentExpiry(t *testing.T) {
	data := NewTrafficData("e1")
	data.AddIncident(TrafficIncident{ID: "short", Severity: 1.0, Duration: 1.0})
	data.AddIncident(TrafficIncident{ID: "long", Severity: 1.0, Duration: 30.0})

	// 2 minutes pass
	data.Update(120, 0)
	if len(data.Incidents) != 1 {
		t.Fatalf("expected 1 remaining incident, got %v", len(data.Incidents))
	}
	if data.Incidents[0].ID != "long" {
		t.Errorf("short incident should have expired")
	}
}

func TestCongestionCapped(t *testing.T) {
	data := NewTrafficData("e1")
	data.Volume = 5000
	data.Update(1, 0)
	if data.CongestionLevel > 1.0 {
		t.Errorf("congestion must be capped at 1.0, got %v", data.CongestionLevel)
	}
}

func feed(segment_id string, data CurrentTrafficData) TrafficFeed {
	segments := NewDict[string, CurrentTrafficData](1)
	segments.Set(segment_id, data)
	return TrafficFeed{SegmentData: segments, DataSource: "test", ReliabilityScore: 1.0}
}

func TestSegmentID(t *testing.T) {
	if SegmentID(geo.NewPoint(250, 480, 0)) != "segment_2_4" {
		t.Errorf("unexpected segment id %v", SegmentID(geo.NewPoint(250, 480, 0)))
	}
}

func TestHasSignificantChanges(t *testing.T) {
	predictor := NewTrafficPredictor()
	location := geo.NewPoint(250, 480, 0)
	segment_id := SegmentID(location)

	predictor.UpdateConditions(feed(segment_id, CurrentTrafficData{CongestionLevel: 0.2}))
	if predictor.HasSignificantChanges(location, location) {
		t.Errorf("first sample must not count as a change")
	}

	// small drift is not significant
	predictor.UpdateConditions(feed(segment_id, CurrentTrafficData{CongestionLevel: 0.3}))
	if predictor.HasSignificantChanges(location, location) {
		t.Errorf("small congestion drift should not flag the segment")
	}

	predictor.UpdateConditions(feed(segment_id, CurrentTrafficData{CongestionLevel: 0.8}))
	if !predictor.HasSignificantChanges(location, location) {
		t.Errorf("large congestion jump must flag the segment")
	}

	predictor.ClearChanges()
	if predictor.HasSignificantChanges(location, location) {
		t.Errorf("flags must reset after ClearChanges")
	}
}

func TestIncidentCountFlagsChange(t *testing.T) {
	predictor := NewTrafficPredictor()
	location := geo.NewPoint(0, 0, 0)
	segment_id := SegmentID(location)

	predictor.UpdateConditions(feed(segment_id, CurrentTrafficData{CongestionLevel: 0.5}))
	predictor.UpdateConditions(feed(segment_id, CurrentTrafficData{CongestionLevel: 0.5, IncidentCount: 1}))
	if !predictor.HasSignificantChanges(location, location) {
		t.Errorf("new incidents must flag the segment")
	}
}

func TestPredictFutureConditions(t *testing.T) {
	predictor := NewTrafficPredictor()
	result := predictor.PredictFutureConditions(geo.NewPoint(0, 0, 0), 1800)
	if result.PredictedSpeed != 50.0 || result.ConfidenceScore != 0.7 {
		t.Errorf("expected baseline prediction, got %v", result)
	}
	if result.HorizonSeconds != 1800 {
		t.Errorf("expected horizon 1800, got %v", result.HorizonSeconds)
	}
}
