package resource

import "fmt"

// NotFoundError is returned by Graph.Get/LocalRobot.Get when name has no
// live instance — the clean "NotFound" RPCs observe against removed
// instances
type NotFoundError struct {
	Name Name
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource %q not found", e.Name)
}

func NewNotFoundError(name Name) error {
	return &NotFoundError{Name: name}
}

// DependencyNotFoundError is returned when a ComponentConfig's depends_on
// list references a name absent from the graph.
type DependencyNotFoundError struct {
	Name Name
	Dep  Name
}

func (e *DependencyNotFoundError) Error() string {
	return fmt.Sprintf("resource %q depends on %q which does not exist", e.Name, e.Dep)
}

// DependencyCycleError is returned when depends_on forms a cycle.
type DependencyCycleError struct {
	Cycle []Name
}

func (e *DependencyCycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %v", e.Cycle)
}

// AlreadyRegisteredError is returned by Register on a duplicate
// (api, model) pair; registration never overwrites.
type AlreadyRegisteredError struct {
	API   API
	Model Model
}

func (e *AlreadyRegisteredError) Error() string {
	return fmt.Sprintf("resource with API %s and model %s already registered", e.API, e.Model)
}

// DependencyTypeError reports that a resolved dependency handle does not
// satisfy the expected Go interface R.
func DependencyTypeError[R any](name Name, actual interface{}) error {
	var zero R
	return fmt.Errorf("dependency %q should be an implementation of %T but it was a %T", name, zero, actual)
}

// TypeError reports that a resource does not satisfy the expected Go
// interface R.
func TypeError[R any](actual interface{}) error {
	var zero R
	return fmt.Errorf("expected implementation of %T but it was a %T", zero, actual)
}
