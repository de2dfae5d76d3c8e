package resource

import (
	"testing"

	"go.viam.com/test"
)

var graphAPI = APINamespaceRDK.WithComponentType("sensor")

func TestTopologicalOrderLinear(t *testing.T) {
	a := NewName(graphAPI, "a")
	b := NewName(graphAPI, "b")
	c := NewName(graphAPI, "c")

	order, err := TopologicalOrder([]Name{c, b, a}, map[Name][]Name{
		b: {a},
		c: {b},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, order, test.ShouldResemble, []Name{a, b, c})
}

func TestTopologicalOrderCycle(t *testing.T) {
	a := NewName(graphAPI, "a")
	b := NewName(graphAPI, "b")

	_, err := TopologicalOrder([]Name{a, b}, map[Name][]Name{
		a: {b},
		b: {a},
	})
	test.That(t, err, test.ShouldNotBeNil)
	_, ok := err.(*DependencyCycleError)
	test.That(t, ok, test.ShouldBeTrue)
}

func TestTopologicalOrderMissingDependency(t *testing.T) {
	a := NewName(graphAPI, "a")
	missing := NewName(graphAPI, "ghost")

	_, err := TopologicalOrder([]Name{a}, map[Name][]Name{
		a: {missing},
	})
	test.That(t, err, test.ShouldNotBeNil)
	_, ok := err.(*DependencyNotFoundError)
	test.That(t, ok, test.ShouldBeTrue)
}

func TestGraphChildrenCascade(t *testing.T) {
	g := NewGraph()
	board := NewName(graphAPI, "board")
	s1 := NewName(graphAPI, "s1")
	s2 := NewName(graphAPI, "s2")

	g.Add(&GraphNode{Name: board})
	g.Add(&GraphNode{Name: s1, DependsOn: []Name{board}})
	g.Add(&GraphNode{Name: s2, DependsOn: []Name{board}})

	children := g.Children(board)
	test.That(t, len(children), test.ShouldEqual, 2)
}
