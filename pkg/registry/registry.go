// Package registry provides a thread-safe, name-keyed store of skill
// instances, plus a lazily-created process-wide registry for callers
// that do not manage their own.
package registry

import (
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/openclaw/go-skills/pkg/skill"
	"github.com/pkg/errors"
)

// Registry maps unique skill names to skill instances. All operations
// hold the registry lock for their full duration, so registrations,
// lookups, and enumerations are linearizable with respect to each
// other. The zero value is not usable; call New.
type Registry struct {
	mu     sync.RWMutex
	skills map[string]skill.Skill
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{skills: make(map[string]skill.Skill)}
}

// Register adds a skill under its own name. It fails with
// skill.ErrInvalidSkill for a nil skill or an empty name, and with
// skill.ErrDuplicate when the name is already taken.
func (r *Registry) Register(s skill.Skill) error {
	if s == nil {
		return errors.Wrap(skill.ErrInvalidSkill, "expected a skill instance, got nil")
	}
	name := s.Name()
	if name == "" {
		return errors.Wrap(skill.ErrInvalidSkill, "skill name must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.skills[name]; exists {
		return errors.Wrapf(skill.ErrDuplicate,
			"skill %q is already registered, unregister it first or use a different name", name)
	}
	r.skills[name] = s
	return nil
}

// Unregister removes the named skill and returns it. It fails with
// skill.ErrNotFound when the name is absent.
func (r *Registry) Unregister(name string) (skill.Skill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, exists := r.skills[name]
	if !exists {
		return nil, errors.Wrapf(skill.ErrNotFound, "no skill registered with name %q", name)
	}
	delete(r.skills, name)
	return s, nil
}

// Get looks up a skill by name. It fails with skill.ErrNotFound when
// the name is absent.
func (r *Registry) Get(name string) (skill.Skill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, exists := r.skills[name]
	if !exists {
		return nil, errors.Wrapf(skill.ErrNotFound, "no skill registered with name %q", name)
	}
	return s, nil
}

// Has reports whether a skill is registered under the given name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.skills[name]
	return exists
}

// ListSkills returns the metadata of every registered skill. Order is
// unspecified; use SkillNames for a deterministic listing.
func (r *Registry) ListSkills() []skill.Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]skill.Info, 0, len(r.skills))
	for _, s := range r.skills {
		infos = append(infos, skill.Describe(s))
	}
	return infos
}

// SkillNames returns all registered skill names, lexicographically
// sorted.
func (r *Registry) SkillNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.skills))
	for name := range r.skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clear removes every registered skill.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.skills = make(map[string]skill.Skill)
}

// Len returns the number of registered skills.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.skills)
}

// RegisterFunc instantiates a skill via its zero-argument constructor
// and registers it, returning the registered instance. The constructor
// must not be nil and must produce a valid skill.
func (r *Registry) RegisterFunc(newSkill func() skill.Skill) (skill.Skill, error) {
	if newSkill == nil {
		return nil, errors.Wrap(skill.ErrInvalidSkill, "skill constructor must not be nil")
	}

	s := newSkill()
	if err := r.Register(s); err != nil {
		return nil, err
	}
	return s, nil
}

// RegisterAll registers each of the given skills, continuing past
// individual failures and returning them accumulated.
func (r *Registry) RegisterAll(skills ...skill.Skill) error {
	var errs *multierror.Error
	for _, s := range skills {
		if err := r.Register(s); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

var (
	globalOnce     sync.Once
	globalRegistry *Registry
)

// Global returns the process-wide shared registry, creating it on first
// call. It is never reset implicitly; tests that use it should Clear it
// themselves.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = New()
	})
	return globalRegistry
}
