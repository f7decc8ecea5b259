// Package pinstore is a reference on-disk pin file reader/writer, gps's
// "lock file" concept backed by pelletier/go-toml's struct-tag
// Marshal/Unmarshal the way golang-dep's registry_config.go uses it, rather
// than its older TomlTree query API in toml.go - this store has no nested
// array-of-tables shape complex enough to need that.
package pinstore

import (
	"bytes"
	"io"
	"sort"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/depresolve/gpscore/resolve"
)

// PinName is the on-disk pin file's conventional name.
const PinName = "resolve.lock"

// Store is the decoded contents of a pin file: one Pin per locked package.
type Store struct {
	Pins []Pin
}

// Pin is a single locked package entry: exactly one of Version, Branch, or
// Unversioned should be set, matching the Requirement tagged variant a Pin
// seeds into the resolver.
type Pin struct {
	Name        string
	Source      string
	Version     string
	Branch      string
	Unversioned bool
}

type rawStore struct {
	Pin []rawPin `toml:"pin"`
}

type rawPin struct {
	Name        string `toml:"name"`
	Source      string `toml:"source,omitempty"`
	Version     string `toml:"version,omitempty"`
	Branch      string `toml:"branch,omitempty"`
	Unversioned bool   `toml:"unversioned,omitempty"`
}

// Read decodes a pin store from r.
func Read(r io.Reader) (*Store, error) {
	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, "pinstore: reading pin file")
	}

	var raw rawStore
	if err := toml.Unmarshal(buf.Bytes(), &raw); err != nil {
		return nil, errors.Wrap(err, "pinstore: parsing pin file as TOML")
	}

	s := &Store{Pins: make([]Pin, len(raw.Pin))}
	for i, rp := range raw.Pin {
		if err := validateRawPin(rp); err != nil {
			return nil, errors.Wrapf(err, "pinstore: pin %q", rp.Name)
		}
		s.Pins[i] = Pin{
			Name:        rp.Name,
			Source:      rp.Source,
			Version:     rp.Version,
			Branch:      rp.Branch,
			Unversioned: rp.Unversioned,
		}
	}
	return s, nil
}

func validateRawPin(rp rawPin) error {
	set := 0
	if rp.Version != "" {
		set++
	}
	if rp.Branch != "" {
		set++
	}
	if rp.Unversioned {
		set++
	}
	if set != 1 {
		return errors.New("exactly one of version, branch, or unversioned must be set")
	}
	return nil
}

// Write encodes the store to w, with pins sorted by name for a stable diff.
func (s *Store) Write(w io.Writer) error {
	sorted := append([]Pin{}, s.Pins...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	raw := rawStore{Pin: make([]rawPin, len(sorted))}
	for i, p := range sorted {
		raw.Pin[i] = rawPin{
			Name:        p.Name,
			Source:      p.Source,
			Version:     p.Version,
			Branch:      p.Branch,
			Unversioned: p.Unversioned,
		}
	}

	out, err := toml.Marshal(raw)
	if err != nil {
		return errors.Wrap(err, "pinstore: marshaling pin file to TOML")
	}
	_, err = w.Write(out)
	return errors.Wrap(err, "pinstore: writing pin file")
}

// Constraints converts the store's pins into the resolve.Constraint slice a
// Resolver.Resolve call expects as its pins argument.
func (s *Store) Constraints() ([]resolve.Constraint, error) {
	out := make([]resolve.Constraint, 0, len(s.Pins))
	for _, p := range s.Pins {
		req, err := p.requirement()
		if err != nil {
			return nil, errors.Wrapf(err, "pinstore: pin %q", p.Name)
		}
		out = append(out, resolve.Constraint{
			Id:          resolve.PackageId{Name: p.Name, Source: p.Source},
			Requirement: req,
		})
	}
	return out, nil
}

func (p Pin) requirement() (resolve.Requirement, error) {
	switch {
	case p.Unversioned:
		return resolve.UnversionedRequirement{}, nil
	case p.Branch != "":
		return resolve.RevisionRequirement{Revision: resolve.Revision(p.Branch)}, nil
	case p.Version != "":
		v, err := resolve.NewVersion(p.Version)
		if err != nil {
			return nil, err
		}
		return resolve.VersionSetRequirement{Set: resolve.ExactVersionSet(v)}, nil
	default:
		return nil, errors.Errorf("pin has no version, branch, or unversioned marker")
	}
}

// FromBindings builds a Store from a successful resolution's bindings, the
// write-back half of the lock-file round trip: resolving once and pinning
// the result is what keeps a second, unrelated resolve from picking
// different versions.
func FromBindings(bindings []resolve.Binding) *Store {
	s := &Store{Pins: make([]Pin, 0, len(bindings))}
	for _, b := range bindings {
		p := Pin{Name: b.Id.Name, Source: b.Id.Source}
		switch bv := b.Bound.(type) {
		case resolve.VersionBinding:
			p.Version = bv.Version.String()
		case resolve.RevisionBinding:
			p.Branch = string(bv.Revision)
		case resolve.UnversionedBinding:
			p.Unversioned = true
		case resolve.ExcludedBinding:
			continue
		}
		s.Pins = append(s.Pins, p)
	}
	return s
}
