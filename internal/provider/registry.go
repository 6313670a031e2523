package provider

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when a profile does not exist.
	ErrNotFound = errors.New("provider not found")
	// ErrAlreadyExists is returned when adding a profile whose name is taken.
	ErrAlreadyExists = errors.New("provider already exists")
)

// Match is a provider that can serve a given model name, with the model id
// actually sent to that provider.
type Match struct {
	Provider    string
	BaseURL     string
	APIKey      string
	ActualModel string
	Headers     map[string]string
}

// Registry stores provider profiles.
type Registry interface {
	List() []*Profile
	Names() []string
	Get(name string) (*Profile, error)
	Add(p *Profile) error
	Update(name string, p *Profile) error
	Delete(name string) error
	FindByModel(modelID string) []Match
}

type registry struct {
	path     string
	profiles []*Profile
	log      logrus.FieldLogger
}

// Store file layout: a single YAML document with the profile list, so the
// file stays hand-editable.
type storeFile struct {
	Providers []*Profile `yaml:"providers"`
}

// NewRegistry loads (or initializes) the profile store at path.
func NewRegistry(log logrus.FieldLogger, path string) (Registry, error) {
	r := &registry{
		path: path,
		log:  log.WithField("component", "provider_registry"),
	}

	if err := r.load(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *registry) load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			r.profiles = []*Profile{}
			return nil
		}
		return fmt.Errorf("reading provider store: %w", err)
	}

	var store storeFile
	if err := yaml.Unmarshal(data, &store); err != nil {
		return fmt.Errorf("parsing provider store: %w", err)
	}

	r.profiles = store.Providers
	if r.profiles == nil {
		r.profiles = []*Profile{}
	}

	r.log.WithField("count", len(r.profiles)).Debug("loaded provider profiles")

	return nil
}

func (r *registry) save() error {
	data, err := yaml.Marshal(&storeFile{Providers: r.profiles})
	if err != nil {
		return fmt.Errorf("encoding provider store: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating store directory: %w", err)
		}
	}

	// Profiles hold API keys, keep the store private to the user.
	if err := os.WriteFile(r.path, data, 0o600); err != nil {
		return fmt.Errorf("writing provider store: %w", err)
	}

	return nil
}

func (r *registry) List() []*Profile {
	out := make([]*Profile, len(r.profiles))
	copy(out, r.profiles)
	return out
}

func (r *registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for _, p := range r.profiles {
		names = append(names, p.Name)
	}
	return names
}

func (r *registry) Get(name string) (*Profile, error) {
	for _, p := range r.profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func (r *registry) Add(p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if _, err := r.Get(p.Name); err == nil {
		return fmt.Errorf("%w: %q", ErrAlreadyExists, p.Name)
	}

	r.profiles = append(r.profiles, p)
	if err := r.save(); err != nil {
		return err
	}

	r.log.WithField("provider", p.Name).Info("provider added")

	return nil
}

func (r *registry) Update(name string, p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	// A rename must not collide with another profile.
	if p.Name != name {
		if _, err := r.Get(p.Name); err == nil {
			return fmt.Errorf("%w: %q", ErrAlreadyExists, p.Name)
		}
	}

	for i, existing := range r.profiles {
		if existing.Name == name {
			r.profiles[i] = p
			if err := r.save(); err != nil {
				return err
			}

			r.log.WithField("provider", p.Name).Info("provider updated")

			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrNotFound, name)
}

func (r *registry) Delete(name string) error {
	for i, existing := range r.profiles {
		if existing.Name == name {
			r.profiles = append(r.profiles[:i], r.profiles[i+1:]...)
			if err := r.save(); err != nil {
				return err
			}

			r.log.WithField("provider", name).Info("provider deleted")

			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrNotFound, name)
}

// FindByModel searches every profile's supported models and mapping keys.
// A profile can match twice when a friendly name shadows a raw model id.
func (r *registry) FindByModel(modelID string) []Match {
	var matches []Match

	for _, p := range r.profiles {
		for _, m := range p.Models {
			if m == modelID {
				matches = append(matches, Match{
					Provider:    p.Name,
					BaseURL:     p.Endpoint(),
					APIKey:      p.Key(),
					ActualModel: modelID,
					Headers:     p.Headers,
				})
				break
			}
		}

		if actual, ok := p.ModelMappings[modelID]; ok {
			matches = append(matches, Match{
				Provider:    p.Name,
				BaseURL:     p.Endpoint(),
				APIKey:      p.Key(),
				ActualModel: actual,
				Headers:     p.Headers,
			})
		}
	}

	return matches
}
