package resource

// Config is what a factory receives to build one component instance: its
// own name/api/model plus the declarative attribute tree and the already
// topologically-resolved dependency names. The cloud-facing, list-shaped
// ComponentConfig (with depends_on as strings) lives in package config and
// is lowered into one of these per name before the registry is invoked.
type Config struct {
	Name       string
	API        API
	Model      Model
	Attributes map[string]interface{}
	DependsOn  []Name
}

func (c Config) ResourceName() Name {
	return NewName(c.API, c.Name)
}
