// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bitwizard

import (
	"errors"
	"fmt"
	"regexp"
)

// Type is a board type, as reported in the first word of the identity string,
// e.g. "spi_3fets".
type Type string

// AutoDetect asks for the board type to be read from the board itself.
//
// The empty Type means AutoDetect too.
const AutoDetect Type = "auto_detect"

func (t Type) autoDetect() bool {
	return t == AutoDetect || t == ""
}

// Feature is a capability of a board.
type Feature string

// Known features.
const (
	FeatureMotor   Feature = "motor"
	FeatureStepper Feature = "stepper"
	FeaturePWM     Feature = "pwm"
	FeatureInputs  Feature = "inputs"
	FeatureOutputs Feature = "outputs"
)

// Descriptor describes one kind of board.
type Descriptor struct {
	// Name is a short name for the board, unique in a Registry.
	Name string
	// Pattern matches both the board type and the identity string of the
	// board.
	Pattern *regexp.Regexp
	// DefaultAddr is the factory address of the board.
	DefaultAddr int
	Features    []Feature
	// New returns the board features on top of an identified handle.
	New func(d *Dev) (Board, error)
}

// Has returns true if the board has feature f.
func (d *Descriptor) Has(f Feature) bool {
	for _, g := range d.Features {
		if g == f {
			return true
		}
	}
	return false
}

func (d *Descriptor) String() string {
	return d.Name
}

// Registry is the list of boards that can be identified.
//
// It is immutable once created and safe for concurrent use.
type Registry struct {
	descs []*Descriptor
}

// NewRegistry returns a Registry of the boards descs.
//
// Matching is done in the order of descs and the first match wins, so the
// patterns must not overlap.
func NewRegistry(descs ...*Descriptor) (*Registry, error) {
	names := map[string]bool{}
	for i, d := range descs {
		if d == nil {
			return nil, fmt.Errorf("bitwizard: descriptor #%d is nil", i)
		}
		if d.Name == "" {
			return nil, fmt.Errorf("bitwizard: descriptor #%d has no name", i)
		}
		if names[d.Name] {
			return nil, fmt.Errorf("bitwizard: descriptor %q registered twice", d.Name)
		}
		names[d.Name] = true
		if d.Pattern == nil {
			return nil, fmt.Errorf("bitwizard: descriptor %q has no pattern", d.Name)
		}
		if d.New == nil {
			return nil, fmt.Errorf("bitwizard: descriptor %q has no constructor", d.Name)
		}
		if err := ValidAddr(d.DefaultAddr); err != nil {
			return nil, fmt.Errorf("bitwizard: descriptor %q: %w", d.Name, err)
		}
	}
	r := &Registry{descs: make([]*Descriptor, len(descs))}
	copy(r.descs, descs)
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error.
func MustRegistry(descs ...*Descriptor) *Registry {
	r, err := NewRegistry(descs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Descriptors returns a copy of the registered descriptors.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, len(r.descs))
	copy(out, r.descs)
	return out
}

// Match returns the first descriptor whose pattern matches s, or nil.
func (r *Registry) Match(s string) *Descriptor {
	for _, d := range r.descs {
		if d.Pattern.MatchString(s) {
			return d
		}
	}
	return nil
}

// Lookup returns the descriptor of board type t.
func (r *Registry) Lookup(t Type) (*Descriptor, error) {
	if t.autoDetect() {
		return nil, errors.New("bitwizard: can't look up auto_detect")
	}
	if d := r.Match(string(t)); d != nil {
		return d, nil
	}
	return nil, fmt.Errorf("bitwizard: don't know what board %q is: %w", t, ErrConfiguration)
}

// DefaultRegistry contains all the boards supported by this package.
var DefaultRegistry = MustRegistry(
	&Descriptor{
		Name:        "motor",
		Pattern:     regexp.MustCompile(`(spi|i2c)_motor`),
		DefaultAddr: 0x90,
		Features:    []Feature{FeatureMotor, FeatureStepper, FeaturePWM},
		New:         newMotor,
	},
	&Descriptor{
		Name:        "3fets",
		Pattern:     regexp.MustCompile(`(spi|i2c)_3fets`),
		DefaultAddr: 0x8a,
		Features:    []Feature{FeatureInputs, FeatureOutputs, FeatureStepper, FeaturePWM},
		New: func(d *Dev) (Board, error) {
			return newFETs(d, 3)
		},
	},
	&Descriptor{
		Name:        "7fets",
		Pattern:     regexp.MustCompile(`(spi|i2c)_7fets`),
		DefaultAddr: 0x88,
		Features:    []Feature{FeatureInputs, FeatureOutputs, FeatureStepper, FeaturePWM},
		New: func(d *Dev) (Board, error) {
			return newFETs(d, 7)
		},
	},
)
