package routing

import (
	"errors"
	"math"

	. "github.com/ttpr0/go-transport/util"
)

var (
	ErrNotFound       = errors.New("no path found")
	ErrBudgetExceeded = errors.New("search budget exceeded")
)

// Expansion cap applied when callers pass a budget of 0.
const DEFAULT_MAX_EXPANSIONS = 50000

//*******************************************
// search space
//*******************************************

// ISearchSpace abstracts the neighborhood a search explores. The graph-based
// space works on node ids, the free-space sampler on quantized points.
type ISearchSpace[N comparable] interface {
	// Neighbors of the given node. May contain nodes whose Cost is +Inf,
	// those are skipped by the search.
	Neighbors(node N) []N
	Cost(from, to N) float64
	// Heuristic estimate of the remaining cost, must never overestimate.
	Heuristic(node, goal N) float64
	IsGoal(node, goal N) bool
}

//*******************************************
// a-star search
//*******************************************

// CalcAStar runs an A* search from start towards goal.
//
// Nodes with equal f-score are expanded in discovery order, so repeated runs
// on an unchanged space yield the same path. max_expansions bounds the number
// of expanded nodes (0 selects DEFAULT_MAX_EXPANSIONS); when the budget runs
// out before the goal is reached ErrBudgetExceeded is returned, while an
// exhausted open set returns ErrNotFound.
func CalcAStar[N comparable](space ISearchSpace[N], start, goal N, max_expansions int) ([]N, error) {
	if max_expansions <= 0 {
		max_expansions = DEFAULT_MAX_EXPANSIONS
	}

	heap := NewPriorityQueue[N, float64](100)
	came_from := NewDict[N, N](100)
	g_score := NewDict[N, float64](100)
	closed := NewDict[N, bool](100)

	g_score.Set(start, 0)
	heap.Enqueue(start, space.Heuristic(start, goal))

	expansions := 0
	for {
		curr, ok := heap.Dequeue()
		if !ok {
			return nil, ErrNotFound
		}
		if closed.ContainsKey(curr) {
			continue
		}
		if space.IsGoal(curr, goal) {
			return reconstruct_path(came_from, start, curr), nil
		}
		closed.Set(curr, true)
		expansions += 1
		if expansions > max_expansions {
			return nil, ErrBudgetExceeded
		}
		for _, neighbor := range space.Neighbors(curr) {
			if closed.ContainsKey(neighbor) {
				continue
			}
			cost := space.Cost(curr, neighbor)
			if math.IsInf(cost, 1) {
				continue
			}
			new_g := g_score.Get(curr) + cost
			if g_score.ContainsKey(neighbor) && new_g >= g_score.Get(neighbor) {
				continue
			}
			came_from.Set(neighbor, curr)
			g_score.Set(neighbor, new_g)
			heap.Enqueue(neighbor, new_g+space.Heuristic(neighbor, goal))
		}
	}
}

// CalcAStarWithWaypoints searches leg by leg through the waypoints and
// concatenates the results, dropping each leg's duplicated start node.
func CalcAStarWithWaypoints[N comparable](space ISearchSpace[N], start, goal N, waypoints []N, max_expansions int) ([]N, error) {
	path := []N{start}
	curr := start
	for _, waypoint := range waypoints {
		leg, err := CalcAStar(space, curr, waypoint, max_expansions)
		if err != nil {
			return nil, err
		}
		path = append(path, leg[1:]...)
		curr = path[len(path)-1]
	}
	leg, err := CalcAStar(space, curr, goal, max_expansions)
	if err != nil {
		return nil, err
	}
	path = append(path, leg[1:]...)
	return path, nil
}

func reconstruct_path[N comparable](came_from Dict[N, N], start, end N) []N {
	path := []N{end}
	curr := end
	for curr != start {
		prev, ok := came_from[curr]
		if !ok {
			break
		}
		path = append(path, prev)
		curr = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

//*******************************************
// dijkstra reference
//*******************************************

type zero_heuristic[N comparable] struct {
	ISearchSpace[N]
}

func (self zero_heuristic[N]) Heuristic(node, goal N) float64 {
	return 0
}

// CalcDijkstra is the exhaustive reference search, equivalent to CalcAStar
// with a zero heuristic.
func CalcDijkstra[N comparable](space ISearchSpace[N], start, goal N, max_expansions int) ([]N, error) {
	return CalcAStar[N](zero_heuristic[N]{space}, start, goal, max_expansions)
}
