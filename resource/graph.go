package resource

import "fmt"

// GraphNode holds one live instance plus the dependency edges used to
// tear it down transitively when a parent is removed.
type GraphNode struct {
	Name      Name
	Instance  Resource
	DependsOn []Name
}

// Graph is the resource dependency graph: a mapping from Name to
// instance, plus the DAG of depends_on edges. It is not safe for
// concurrent mutation; callers (LocalRobot) serialize apply_config against
// dispatch with their own guard
type Graph struct {
	nodes map[Name]*GraphNode
}

func NewGraph() *Graph {
	return &Graph{nodes: map[Name]*GraphNode{}}
}

func (g *Graph) Add(node *GraphNode) {
	g.nodes[node.Name] = node
}

func (g *Graph) Remove(name Name) {
	delete(g.nodes, name)
}

func (g *Graph) Get(name Name) (Resource, bool) {
	n, ok := g.nodes[name]
	if !ok {
		return nil, false
	}
	return n.Instance, true
}

func (g *Graph) Node(name Name) (*GraphNode, bool) {
	n, ok := g.nodes[name]
	return n, ok
}

func (g *Graph) Names() []Name {
	out := make([]Name, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	return out
}

func (g *Graph) Len() int { return len(g.nodes) }

// Children returns the names whose DependsOn includes parent — used to
// cascade removal of instances only reachable from a removed parent
//.
func (g *Graph) Children(parent Name) []Name {
	var out []Name
	for name, n := range g.nodes {
		for _, dep := range n.DependsOn {
			if dep == parent {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// Clone produces a shallow copy of the graph's node set, used to build a
// candidate graph for a pending apply_config before committing it.
func (g *Graph) Clone() *Graph {
	clone := NewGraph()
	for name, n := range g.nodes {
		cp := *n
		clone.nodes[name] = &cp
	}
	return clone
}

// TopologicalOrder returns names in an order where every name appears
// after all of its DependsOn entries, using edges drawn from the supplied
// dependsOn map rather than the graph's own stored nodes — this lets
// LocalRobot compute an instantiation order for a *new* config snapshot
// before any instance exists. It returns a DependencyCycleError if the
// edges don't form a DAG, and a DependencyNotFoundError if an edge names
// something absent from names.
func TopologicalOrder(names []Name, dependsOn map[Name][]Name) ([]Name, error) {
	present := make(map[Name]bool, len(names))
	for _, n := range names {
		present[n] = true
	}
	for n, deps := range dependsOn {
		for _, d := range deps {
			if !present[d] {
				return nil, &DependencyNotFoundError{Name: n, Dep: d}
			}
		}
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[Name]int, len(names))
	var order []Name
	var stack []Name

	var visit func(n Name) error
	visit = func(n Name) error {
		switch color[n] {
		case black:
			return nil
		case gray:
			cycle := append(append([]Name{}, stack...), n)
			return &DependencyCycleError{Cycle: cycle}
		}
		color[n] = gray
		stack = append(stack, n)
		for _, dep := range dependsOn[n] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		order = append(order, n)
		return nil
	}

	for _, n := range names {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	if len(order) != len(names) {
		return nil, fmt.Errorf("resource: topological sort produced %d names, expected %d", len(order), len(names))
	}
	return order, nil
}
