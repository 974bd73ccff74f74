package graph

import (
	"errors"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/quadtree"

	"github.com/ttpr0/go-transport/geo"
)

//*******************************************
// spatial index
//*******************************************

type node_pointer struct {
	id    string
	point orb.Point
}

func (self *node_pointer) Point() orb.Point {
	return self.point
}

// SpatialIndex answers proximity queries over node positions. Positions are
// projected onto the x/y plane, elevation does not affect lookups.
type SpatialIndex struct {
	tree  *quadtree.Quadtree
	bound orb.Bound
}

func NewSpatialIndex(min, max geo.Point) *SpatialIndex {
	bound := orb.Bound{Min: min.ToOrb(), Max: max.ToOrb()}
	return &SpatialIndex{
		tree:  quadtree.New(bound),
		bound: bound,
	}
}

func (self *SpatialIndex) Add(id string, position geo.Point) error {
	point := position.ToOrb()
	if !self.bound.Contains(point) {
		return errors.New("position outside of index bounds")
	}
	return self.tree.Add(&node_pointer{id: id, point: point})
}

func (self *SpatialIndex) Remove(id string, position geo.Point) {
	self.tree.Remove(&node_pointer{id: id, point: position.ToOrb()}, func(p orb.Pointer) bool {
		np, ok := p.(*node_pointer)
		return ok && np.id == id
	})
}

func (self *SpatialIndex) GetClosestNode(position geo.Point) (string, bool) {
	found := self.tree.Find(position.ToOrb())
	if found == nil {
		return "", false
	}
	return found.(*node_pointer).id, true
}

func (self *SpatialIndex) GetNearbyNodes(position geo.Point, radius float64) []string {
	center := position.ToOrb()
	query := orb.Bound{
		Min: orb.Point{center[0] - radius, center[1] - radius},
		Max: orb.Point{center[0] + radius, center[1] + radius},
	}
	pointers := self.tree.InBound(nil, query)
	nearby := make([]string, 0, len(pointers))
	for _, p := range pointers {
		np := p.(*node_pointer)
		if planar.Distance(np.point, center) <= radius {
			nearby = append(nearby, np.id)
		}
	}
	return nearby
}
