package config

// File represents the structure of the depstrap.yaml configuration file.
type File struct {
	Version      string            `yaml:"version"`
	CacheDir     string            `yaml:"cacheDir"`
	Env          map[string]string `yaml:"env"`
	Repositories []*RepositoryDTO  `yaml:"repositories"`
	Stages       []*StageDTO       `yaml:"stages"`
}

// RepositoryDTO represents a repository definition in the configuration.
type RepositoryDTO struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Depth int    `yaml:"depth"`
}

// StageDTO represents a build stage definition in the configuration.
type StageDTO struct {
	Name    string            `yaml:"name"`
	Repo    string            `yaml:"repo"`
	Env     map[string]string `yaml:"env"`
	Build   [][]string        `yaml:"build"`
	Test    [][]string        `yaml:"test"`
	Install []string          `yaml:"install"`
}
