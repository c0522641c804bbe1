package civ

import "container/heap"

// aStar is a generic A* search reused for both grid-cell road routing and
// site-graph route comparison. There's no graph-search library in the
// dependency set this module draws on, so this is hand-rolled over
// container/heap rather than reached for a third-party graph package.
func aStar[T comparable](
	start T,
	goal func(T) bool,
	heuristic func(T) float64,
	neighbors func(T) []T,
	cost func(a, b T) float64,
	maxIters int,
) ([]T, float64, bool) {
	open := &priorityQueue[T]{}
	heap.Init(open)
	heap.Push(open, pqItem[T]{node: start, priority: heuristic(start)})

	cameFrom := make(map[T]T)
	gScore := map[T]float64{start: 0}

	iters := 0
	for open.Len() > 0 && iters < maxIters {
		iters++
		cur := heap.Pop(open).(pqItem[T]).node
		if goal(cur) {
			return reconstruct(cameFrom, cur), gScore[cur], true
		}
		for _, next := range neighbors(cur) {
			step := cost(cur, next)
			if step >= 1e17 {
				continue // impassable
			}
			tentative := gScore[cur] + step
			if existing, ok := gScore[next]; ok && tentative >= existing {
				continue
			}
			cameFrom[next] = cur
			gScore[next] = tentative
			heap.Push(open, pqItem[T]{node: next, priority: tentative + heuristic(next)})
		}
	}
	return nil, 0, false
}

func reconstruct[T comparable](cameFrom map[T]T, end T) []T {
	path := []T{end}
	for {
		prev, ok := cameFrom[path[len(path)-1]]
		if !ok {
			break
		}
		path = append(path, prev)
	}
	// reverse into start->end order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

type pqItem[T any] struct {
	node     T
	priority float64
}

type priorityQueue[T any] []pqItem[T]

func (q priorityQueue[T]) Len() int            { return len(q) }
func (q priorityQueue[T]) Less(i, j int) bool  { return q[i].priority < q[j].priority }
func (q priorityQueue[T]) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *priorityQueue[T]) Push(x interface{}) { *q = append(*q, x.(pqItem[T])) }
func (q *priorityQueue[T]) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
