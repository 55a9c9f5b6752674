// Package domain contains the core types for the bootstrap pipeline.
package domain

import (
	"path/filepath"

	"go.trai.ch/zerr"
)

// Repository describes one source repository to materialize in the cache.
type Repository struct {
	Name  string
	URL   string
	Depth int
}

// Stage is one ordered unit of the bootstrap pipeline, bound to one
// repository's own build tooling. Stages are read-only after plan
// construction.
type Stage struct {
	Name string

	// Repo names the Repository whose checkout is the working directory.
	Repo string

	// Env is exported for this stage and every stage after it.
	Env map[string]string

	Build   [][]string
	Test    [][]string
	Install []string
}

// Plan is the full bootstrap description: where the cache lives, which
// repositories must exist there, and the ordered stage table.
type Plan struct {
	CacheRoot    string
	Env          map[string]string
	Repositories []Repository
	Stages       []Stage
}

// StageDir returns the working directory of a stage under the cache root.
func (p *Plan) StageDir(s *Stage) string {
	return filepath.Join(p.CacheRoot, s.Repo)
}

// RepoDir returns the checkout directory of a repository under the cache root.
func (p *Plan) RepoDir(r *Repository) string {
	return filepath.Join(p.CacheRoot, r.Name)
}

// Stage looks up a stage by name.
func (p *Plan) Stage(name string) (*Stage, bool) {
	for i := range p.Stages {
		if p.Stages[i].Name == name {
			return &p.Stages[i], true
		}
	}
	return nil, false
}

// Validate checks the structural invariants of the plan: a cache root is
// set, names are unique, every stage references a known repository and every
// declared command has at least an argv[0].
func (p *Plan) Validate() error {
	if p.CacheRoot == "" {
		return ErrMissingCacheRoot
	}

	repos := make(map[string]bool, len(p.Repositories))
	for i := range p.Repositories {
		r := &p.Repositories[i]
		if r.Name == "" || r.URL == "" {
			return zerr.With(ErrInvalidRepository, "repository", r.Name)
		}
		if repos[r.Name] {
			return zerr.With(ErrDuplicateRepository, "repository", r.Name)
		}
		repos[r.Name] = true
	}

	stages := make(map[string]bool, len(p.Stages))
	for i := range p.Stages {
		s := &p.Stages[i]
		if s.Name == "" {
			return ErrInvalidStageName
		}
		if stages[s.Name] {
			return zerr.With(ErrDuplicateStage, "stage", s.Name)
		}
		stages[s.Name] = true

		if !repos[s.Repo] {
			return zerr.With(zerr.With(ErrUnknownRepository, "stage", s.Name), "repository", s.Repo)
		}

		for _, argv := range s.commands() {
			if len(argv) == 0 || argv[0] == "" {
				return zerr.With(ErrEmptyCommand, "stage", s.Name)
			}
		}
	}

	return nil
}

// commands returns every command of the stage in execution order.
func (s *Stage) commands() [][]string {
	cmds := make([][]string, 0, len(s.Build)+len(s.Test)+1)
	cmds = append(cmds, s.Build...)
	cmds = append(cmds, s.Test...)
	if len(s.Install) > 0 {
		cmds = append(cmds, s.Install)
	}
	return cmds
}
