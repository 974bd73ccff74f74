package routing

import (
	"github.com/ttpr0/go-transport/geo"
)

// Distance below which a sampled point counts as having reached the goal.
// Continuous coordinates rarely coincide exactly, so the goal test is a
// tolerance check rather than equality.
const GOAL_TOLERANCE = 10.0

// Sampling offsets of the free-space neighborhood, 4 axis-aligned steps of
// 100 units and 4 diagonal steps of the same length.
var free_space_offsets = [8][2]float64{
	{100.0, 0.0},
	{-100.0, 0.0},
	{0.0, 100.0},
	{0.0, -100.0},
	{70.7, 70.7},
	{-70.7, -70.7},
	{70.7, -70.7},
	{-70.7, 70.7},
}

//*******************************************
// free-space sampling
//*******************************************

// FreeSpaceSampler explores open terrain by stepping a fixed offset pattern
// from the current position. Nodes are quantized point keys so revisits of
// the same location are detected despite floating-point drift.
type FreeSpaceSampler struct{}

func NewFreeSpaceSampler() FreeSpaceSampler {
	return FreeSpaceSampler{}
}

func (self FreeSpaceSampler) Neighbors(node geo.PointKey) []geo.PointKey {
	point := node.Point()
	neighbors := make([]geo.PointKey, 0, len(free_space_offsets))
	for _, offset := range free_space_offsets {
		neighbor := geo.NewPoint(point.X+offset[0], point.Y+offset[1], point.Z)
		neighbors = append(neighbors, neighbor.Key())
	}
	return neighbors
}

func (self FreeSpaceSampler) Cost(from, to geo.PointKey) float64 {
	return from.Point().Distance(to.Point())
}

func (self FreeSpaceSampler) Heuristic(node, goal geo.PointKey) float64 {
	return node.Point().Distance(goal.Point())
}

func (self FreeSpaceSampler) IsGoal(node, goal geo.PointKey) bool {
	return node.Point().Distance(goal.Point()) < GOAL_TOLERANCE
}
