package traffic

import (
	"fmt"
	"math"

	"github.com/ttpr0/go-transport/geo"
	. "github.com/ttpr0/go-transport/util"
)

//**********************************************************
// feed data
//**********************************************************

// CurrentTrafficData is one live sample for a coarse road segment, pushed in
// by an external feed.
type CurrentTrafficData struct {
	FlowRate              float64 `json:"flow_rate"`
	AverageSpeed          float64 `json:"average_speed"`
	CongestionLevel       float64 `json:"congestion_level"`
	IncidentCount         int     `json:"incident_count"`
	VisibilityConditions  float64 `json:"visibility_conditions"`
	RoadSurfaceConditions float64 `json:"road_surface_conditions"`
}

// TrafficFeed is a batch of segment samples from one source.
type TrafficFeed struct {
	SegmentData      Dict[string, CurrentTrafficData] `json:"segment_data"`
	Timestamp        float64                          `json:"timestamp"`
	DataSource       string                           `json:"data_source"`
	ReliabilityScore float64                          `json:"reliability_score"`
}

//**********************************************************
// prediction models
//**********************************************************

type PredictionResult struct {
	PredictedFlowRate float64 `json:"predicted_flow_rate"`
	PredictedSpeed    float64 `json:"predicted_speed"`
	ConfidenceScore   float64 `json:"confidence_score"`
	HorizonSeconds    float64 `json:"horizon_seconds"`
}

// IPredictionModel turns a current segment sample into a short-horizon
// forecast. Implementations range from a constant baseline to learned
// models; the predictor only depends on this interface.
type IPredictionModel interface {
	Predict(current CurrentTrafficData, horizon float64) PredictionResult
}

// BaselineModel ignores the sample and forecasts average conditions with
// moderate confidence.
type BaselineModel struct{}

func (self BaselineModel) Predict(current CurrentTrafficData, horizon float64) PredictionResult {
	return PredictionResult{
		PredictedFlowRate: 0.5,
		PredictedSpeed:    50.0,
		ConfidenceScore:   0.7,
		HorizonSeconds:    horizon,
	}
}

//**********************************************************
// traffic predictor
//**********************************************************

// Congestion delta above which a segment counts as significantly changed.
const SIGNIFICANT_CONGESTION_DELTA = 0.2

// TrafficPredictor blends historical per-segment averages with live feed
// samples. It is the sole invalidation signal for cached routes: a segment
// is flagged as changed when a new sample moves congestion by more than
// SIGNIFICANT_CONGESTION_DELTA or reports new incidents. Flagging too
// eagerly only costs cache hits, so doubt resolves towards flagging.
type TrafficPredictor struct {
	historical Dict[string, []float64]
	real_time  Dict[string, CurrentTrafficData]
	changed    Dict[string, bool]
	model      IPredictionModel
}

func NewTrafficPredictor() *TrafficPredictor {
	return &TrafficPredictor{
		historical: NewDict[string, []float64](100),
		real_time:  NewDict[string, CurrentTrafficData](100),
		changed:    NewDict[string, bool](100),
		model:      BaselineModel{},
	}
}

func (self *TrafficPredictor) SetModel(model IPredictionModel) {
	self.model = model
}

// SegmentID quantizes a location to the coarse grid segment it falls into.
func SegmentID(location geo.Point) string {
	return fmt.Sprintf("segment_%v_%v", int(location.X)/100, int(location.Y)/100)
}

func (self *TrafficPredictor) UpdateConditions(feed TrafficFeed) {
	for segment_id, data := range feed.SegmentData {
		if prev, ok := self.real_time[segment_id]; ok {
			if math.Abs(data.CongestionLevel-prev.CongestionLevel) > SIGNIFICANT_CONGESTION_DELTA || data.IncidentCount > prev.IncidentCount {
				self.changed.Set(segment_id, true)
			}
		}
		self.real_time.Set(segment_id, data)
	}
}

// SetHistoricalAverages stores hourly volume averages for a segment.
func (self *TrafficPredictor) SetHistoricalAverages(segment_id string, hourly []float64) {
	self.historical.Set(segment_id, hourly)
}

// HasSignificantChanges reports whether the segment of either endpoint has
// been flagged since the last ClearChanges.
func (self *TrafficPredictor) HasSignificantChanges(start, end geo.Point) bool {
	return self.changed.ContainsKey(SegmentID(start)) || self.changed.ContainsKey(SegmentID(end))
}

// ClearChanges resets the change flags, called after an invalidation sweep.
func (self *TrafficPredictor) ClearChanges() {
	self.changed = NewDict[string, bool](100)
}

func (self *TrafficPredictor) PredictFutureConditions(location geo.Point, horizon float64) PredictionResult {
	segment_id := SegmentID(location)
	current, ok := self.real_time[segment_id]
	if !ok {
		return BaselineModel{}.Predict(CurrentTrafficData{}, horizon)
	}
	return self.model.Predict(current, horizon)
}

// CurrentConditions returns the latest sample for a location, if any.
func (self *TrafficPredictor) CurrentConditions(location geo.Point) (CurrentTrafficData, bool) {
	data, ok := self.real_time[SegmentID(location)]
	return data, ok
}
