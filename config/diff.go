package config

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
)

// Diff is the result of comparing two RobotConfig snapshots, named the
// way a config refresh is applied: a deep compare against the previous snapshot
// detects drift."
type Diff struct {
	Added     []ComponentConfig
	Removed   []ComponentConfig
	Modified  []ComponentConfig
	Unchanged []ComponentConfig
}

// Equal reports whether two snapshots are identical by value, using
// go-cmp for the deep comparison.
func Equal(a, b RobotConfig) bool {
	return cmp.Equal(a, b)
}

// DiffConfigs computes the by-name diff between an old and new snapshot.
// "Modified" covers any ComponentConfig whose (api, model, attributes,
// depends_on) changed meaningfully, ComponentInstance
// lifecycle rule.
func DiffConfigs(oldCfg, newCfg RobotConfig) Diff {
	oldByName := indexByName(oldCfg.Components)
	newByName := indexByName(newCfg.Components)

	var d Diff
	for name, newC := range newByName {
		oldC, existed := oldByName[name]
		if !existed {
			d.Added = append(d.Added, newC)
			continue
		}
		if componentChanged(oldC, newC) {
			d.Modified = append(d.Modified, newC)
		} else {
			d.Unchanged = append(d.Unchanged, newC)
		}
	}
	for name, oldC := range oldByName {
		if _, stillPresent := newByName[name]; !stillPresent {
			d.Removed = append(d.Removed, oldC)
		}
	}
	return d
}

func componentChanged(a, b ComponentConfig) bool {
	return !cmp.Equal(a, b)
}

func indexByName(cs []ComponentConfig) map[string]ComponentConfig {
	m := make(map[string]ComponentConfig, len(cs))
	for _, c := range cs {
		m[c.Name] = c
	}
	return m
}

// ValidateDAG checks that every depends_on entry names a component present
// in cfg and that the graph they form is acyclic, invariant.
// Cycle detection is a depth-first search of its own over the
// depends_on strings (detectCycle); it does not call
// resource.TopologicalOrder.
func ValidateDAG(cfg RobotConfig) error {
	names := make(map[string]bool, len(cfg.Components))
	for _, c := range cfg.Components {
		names[c.Name] = true
	}
	for _, c := range cfg.Components {
		for _, dep := range c.DependsOn {
			if !names[dep] {
				return fmt.Errorf("config: component %q depends on %q which is not present in the snapshot", c.Name, dep)
			}
		}
	}
	return detectCycle(cfg)
}

func detectCycle(cfg RobotConfig) error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	deps := make(map[string][]string, len(cfg.Components))
	for _, c := range cfg.Components {
		deps[c.Name] = c.DependsOn
	}
	color := make(map[string]int, len(cfg.Components))

	var visit func(name string, stack []string) error
	visit = func(name string, stack []string) error {
		switch color[name] {
		case black:
			return nil
		case gray:
			return fmt.Errorf("config: dependency cycle detected: %v", append(stack, name))
		}
		color[name] = gray
		stack = append(stack, name)
		for _, dep := range deps[name] {
			if err := visit(dep, stack); err != nil {
				return err
			}
		}
		color[name] = black
		return nil
	}

	for _, c := range cfg.Components {
		if err := visit(c.Name, nil); err != nil {
			return err
		}
	}
	return nil
}
