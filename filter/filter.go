package filter

import (
	"fmt"
	"image"

	"github.com/sirupsen/logrus"
)

// Filter is a single pixel operation applied to a still image.
type Filter interface {
	// Apply processes the image and returns the modified result.
	Apply(img image.Image) (image.Image, error)
	// GetName returns the operation name for identification.
	GetName() string
}

// Factory expands a spec into its concrete operation chain. A color
// grade expands to two operations; most kinds expand to one.
type Factory func(spec Spec) []Filter

// Registry maps spec kinds to factories. New filter families register
// themselves here instead of extending a central dispatcher.
type Registry struct {
	factories map[Kind]Factory
}

// NewRegistry creates an empty filter registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]Factory)}
}

// NewDefaultRegistry creates a registry with every built-in static
// filter family installed.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(KindColorGrade, func(s Spec) []Filter { return GradeChain(s.Grade) })
	r.Register(KindVibrance, func(s Spec) []Filter { return []Filter{NewVibrance(s.Intensity)} })
	r.Register(KindBlur, func(s Spec) []Filter { return []Filter{NewBoxBlur(int(s.Intensity))} })
	r.Register(KindVignette, func(s Spec) []Filter { return []Filter{NewVignette(s.Intensity)} })
	r.Register(KindChromaticAberration, func(s Spec) []Filter { return []Filter{NewChromaticAberration(int(s.Intensity))} })
	r.Register(KindFilmGrain, func(s Spec) []Filter { return []Filter{NewFilmGrain(s.Intensity)} })
	return r
}

// Register installs a factory for a spec kind, replacing any previous
// registration.
func (r *Registry) Register(kind Kind, factory Factory) {
	r.factories[kind] = factory
}

// Resolve expands a spec into its operation chain. Motion specs and
// unknown kinds resolve to an empty chain.
func (r *Registry) Resolve(spec Spec) []Filter {
	if spec.IsMotion() {
		return nil
	}
	factory, ok := r.factories[spec.Kind]
	if !ok {
		logrus.WithFields(logrus.Fields{
			"function": "Resolve",
			"kind":     spec.Kind,
		}).Debug("Unknown filter kind, treating as no-op")
		return nil
	}
	return factory(spec)
}

// Pipeline applies declarative spec lists to images.
type Pipeline struct {
	registry *Registry
}

// NewPipeline creates a pipeline backed by the given registry.
func NewPipeline(registry *Registry) *Pipeline {
	return &Pipeline{registry: registry}
}

// Apply maps the ordered spec list to concrete operations and applies
// them in order, returning the composed result. The input image is
// never mutated; with no applicable specs a copy-free passthrough of
// the original is returned.
func (p *Pipeline) Apply(img image.Image, specs []Spec) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: input image is nil", ErrFilterFailed)
	}

	current := img
	applied := 0
	for _, spec := range specs {
		for _, f := range p.registry.Resolve(spec) {
			result, err := f.Apply(current)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"function": "Apply",
					"kind":     spec.Kind,
					"filter":   f.GetName(),
					"error":    err.Error(),
				}).Error("Filter operation failed")
				return nil, fmt.Errorf("%w: %s: %v", ErrFilterFailed, f.GetName(), err)
			}
			current = result
			applied++
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":      "Apply",
		"spec_count":    len(specs),
		"applied_count": applied,
	}).Debug("Filter pipeline applied")

	return current, nil
}
