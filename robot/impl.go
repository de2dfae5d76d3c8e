// Package robot implements LocalRobot: the resource graph and
// uniform RPC dispatch over every component instance.
package robot

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"go.viam.com/micrordk/config"
	"go.viam.com/micrordk/errkind"
	"go.viam.com/micrordk/logging"
	"go.viam.com/micrordk/registry"
	"go.viam.com/micrordk/resource"
)

// Status is a snapshot of one resource for Robot.GetStatus, matching the
// GetStatus response shape.
type Status struct {
	Name resource.Name
}

// LocalRobot owns the ResourceGraph. Config apply is not concurrent with
// RPC dispatch: epochMu is held as a writer for the whole of
// apply_config and as a reader for the span of a dispatch lookup, so
// in-flight RPCs against removed instances observe a clean NotFound once
// apply_config completes.
type LocalRobot struct {
	epochMu sync.RWMutex
	graph   *resource.Graph
	current config.RobotConfig
	logger  logging.Logger
}

func New(logger logging.Logger) *LocalRobot {
	return &LocalRobot{
		graph:  resource.NewGraph(),
		logger: logger,
	}
}

// ApplyConfig diffs newCfg against the currently-applied snapshot and
// brings the graph to match it. It returns an error (and
// leaves the graph untouched) only for a structural failure — a
// non-DAG depends_on graph. Individual component instantiation failures
// are logged and the component is simply absent from the resulting graph;
// siblings still apply.
func (r *LocalRobot) ApplyConfig(ctx context.Context, newCfg config.RobotConfig) error {
	if err := config.ValidateDAG(newCfg); err != nil {
		return errkind.ConfigError(err)
	}

	r.epochMu.Lock()
	defer r.epochMu.Unlock()

	diff := config.DiffConfigs(r.current, newCfg)

	dirty := make(map[string]bool, len(diff.Added)+len(diff.Modified))
	for _, c := range diff.Added {
		dirty[c.Name] = true
	}
	for _, c := range diff.Modified {
		dirty[c.Name] = true
	}

	byName := make(map[string]config.ComponentConfig, len(newCfg.Components))
	dependsOn := make(map[resource.Name][]resource.Name, len(newCfg.Components))
	nameByLocal := make(map[string]resource.Name, len(newCfg.Components))
	for _, c := range newCfg.Components {
		byName[c.Name] = c
	}

	// Propagate dirtiness to any component that (transitively) depends on
	// a dirty one, so a changed dependency forces its dependents to rebuild too.
	changed := true
	for changed {
		changed = false
		for _, c := range newCfg.Components {
			if dirty[c.Name] {
				continue
			}
			for _, dep := range c.DependsOn {
				if dirty[dep] {
					dirty[c.Name] = true
					changed = true
					break
				}
			}
		}
	}

	// Resolve each component's API once so we can build resource.Name
	// values for the dependency graph.
	resolvedAPI := make(map[string]resource.API, len(newCfg.Components))
	var skipErr error
	for _, c := range newCfg.Components {
		api, err := registry.APIByName(c.API)
		if err != nil {
			skipErr = multierr.Append(skipErr, fmt.Errorf("component %q: unknown api %q: %w", c.Name, c.API, err))
			continue
		}
		resolvedAPI[c.Name] = api
		n := resource.NewName(api, c.Name)
		nameByLocal[c.Name] = n
	}

	order, err := topoOrderLocal(newCfg)
	if err != nil {
		// Should not happen: ValidateDAG already checked this, but stay
		// defensive since ValidateDAG and this local sort are separate
		// implementations.
		return errkind.ConfigError(err)
	}

	newGraph := resource.NewGraph()

	for _, localName := range order {
		c, ok := byName[localName]
		if !ok {
			continue
		}
		api, ok := resolvedAPI[localName]
		if !ok {
			continue
		}
		n := nameByLocal[localName]

		if !dirty[localName] {
			if existingNode, ok := r.graph.Node(n); ok {
				newGraph.Add(existingNode)
				continue
			}
			// Shouldn't happen (an unchanged component always existed),
			// but fall through to (re)build defensively.
		}

		deps, err := r.resolveDependencies(newGraph, c, nameByLocal)
		if err != nil {
			skipErr = multierr.Append(skipErr, fmt.Errorf("component %q: unresolved dependency: %w", localName, err))
			continue
		}

		model := resource.NewModel(c.Model)
		reg, ok := resource.LookupRegistration(api, model)
		if !ok {
			skipErr = multierr.Append(skipErr, fmt.Errorf("component %q: unregistered model %s/%s", localName, c.API, c.Model))
			continue
		}

		resCfg := resource.Config{
			Name:       c.Name,
			API:        api,
			Model:      model,
			Attributes: c.Attributes,
			DependsOn:  depNames(c.DependsOn, nameByLocal),
		}

		instance, err := reg.Constructor(ctx, deps, resCfg, r.logger.Named(localName))
		if err != nil {
			skipErr = multierr.Append(skipErr, fmt.Errorf("component %q: instantiation failed: %w", localName, err))
			continue
		}

		newGraph.Add(&resource.GraphNode{
			Name:      n,
			Instance:  instance,
			DependsOn: resCfg.DependsOn,
		})
	}

	// Close every instance present in the old graph that the new graph no
	// longer holds (removed, rebuilt because it or a dependency changed, or
	// skipped due to a build failure), exactly once.
	for _, oldName := range r.graph.Names() {
		oldNode, ok := r.graph.Node(oldName)
		if !ok || oldNode.Instance == nil {
			continue
		}
		if newNode, stillPresent := newGraph.Node(oldName); stillPresent && newNode == oldNode {
			continue
		}
		if err := oldNode.Instance.Close(ctx); err != nil {
			r.logger.Errorw("error closing removed resource", "name", oldName, "error", err)
		}
	}

	r.graph = newGraph
	r.current = newCfg

	if skipErr != nil {
		r.logger.Errorw("some components were skipped applying config", "errors", multierr.Errors(skipErr))
	}
	return nil
}

func (r *LocalRobot) resolveDependencies(newGraph *resource.Graph, c config.ComponentConfig, nameByLocal map[string]resource.Name) (resource.Dependencies, error) {
	deps := resource.Dependencies{}
	for _, depLocal := range c.DependsOn {
		depName, ok := nameByLocal[depLocal]
		if !ok {
			return nil, fmt.Errorf("dependency %q not resolved", depLocal)
		}
		inst, ok := newGraph.Get(depName)
		if !ok {
			return nil, fmt.Errorf("dependency %q not yet instantiated", depLocal)
		}
		deps[depName] = inst
	}

	// Extra dependencies declared via attribute keys, e.g. fake_moisture's "board" attribute.
	api, _ := registry.APIByName(c.API)
	model := resource.NewModel(c.Model)
	if reg, ok := resource.LookupRegistration(api, model); ok && reg.DependencyExtractor != nil {
		extra, err := reg.DependencyExtractor(resource.Config{Name: c.Name, API: api, Attributes: c.Attributes})
		if err != nil {
			return nil, err
		}
		for _, depName := range extra {
			inst, ok := newGraph.Get(depName)
			if !ok {
				return nil, fmt.Errorf("dependency %q not yet instantiated", depName)
			}
			deps[depName] = inst
		}
	}
	return deps, nil
}

func depNames(locals []string, nameByLocal map[string]resource.Name) []resource.Name {
	out := make([]resource.Name, 0, len(locals))
	for _, l := range locals {
		if n, ok := nameByLocal[l]; ok {
			out = append(out, n)
		}
	}
	return out
}

// topoOrderLocal sorts newCfg.Components by local (string) depends_on
// edges, used to drive instantiation order before resource.Name values
// are known for every entry.
func topoOrderLocal(cfg config.RobotConfig) ([]string, error) {
	deps := make(map[string][]string, len(cfg.Components))
	var names []string
	for _, c := range cfg.Components {
		deps[c.Name] = c.DependsOn
		names = append(names, c.Name)
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}
	var order []string

	var visit func(name string) error
	visit = func(name string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("robot: dependency cycle at %q", name)
		}
		color[name] = gray
		for _, dep := range deps[name] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		color[name] = black
		order = append(order, name)
		return nil
	}

	for _, n := range names {
		if err := visit(n); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// Get performs an O(1) lookup, returning a NotFoundError if absent or
// removed by a concurrent apply_config.
func (r *LocalRobot) Get(name resource.Name) (resource.Resource, error) {
	r.epochMu.RLock()
	defer r.epochMu.RUnlock()
	inst, ok := r.graph.Get(name)
	if !ok {
		return nil, resource.NewNotFoundError(name)
	}
	return inst, nil
}

// Dispatch is the uniform RPC entry point; callers
// (GrpcServer) still perform the actual method invocation against the
// concrete API interface after narrowing it with a type switch — Dispatch
// only guarantees the name resolves to a live instance under the epoch
// guard.
func (r *LocalRobot) Dispatch(ctx context.Context, name resource.Name) (resource.Resource, error) {
	return r.Get(name)
}

// ResourceNames returns every live resource name.
func (r *LocalRobot) ResourceNames() []resource.Name {
	r.epochMu.RLock()
	defer r.epochMu.RUnlock()
	return r.graph.Names()
}

// GetStatusAll snapshots every instance for Robot.GetStatus.
func (r *LocalRobot) GetStatusAll(ctx context.Context) []Status {
	r.epochMu.RLock()
	defer r.epochMu.RUnlock()
	names := r.graph.Names()
	out := make([]Status, 0, len(names))
	for _, n := range names {
		out = append(out, Status{Name: n})
	}
	return out
}

// StopAll invokes the stop hook on every stoppable resource and returns
// the first error. Nothing in this module calls it.
func (r *LocalRobot) StopAll(ctx context.Context) error {
	r.epochMu.RLock()
	names := r.graph.Names()
	r.epochMu.RUnlock()

	var firstErr error
	for _, n := range names {
		inst, err := r.Get(n)
		if err != nil {
			continue
		}
		if stopper, ok := inst.(interface {
			Stop(ctx context.Context, extra map[string]interface{}) error
		}); ok {
			if err := stopper.Stop(ctx, nil); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
