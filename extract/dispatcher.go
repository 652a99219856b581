package extract

import (
	"slices"

	"github.com/fwojciec/jobtext"
)

// Plan is the extraction plan for one site identity.
type Plan struct {
	Identity jobtext.SiteIdentity

	// Direct strategies run once, outside any page context, before the page
	// is scraped. The first non-nil result wins and the page is not scraped.
	Direct []jobtext.Strategy

	// DirectRules normalize Direct results.
	DirectRules jobtext.RuleSet

	// PerContext strategies run in order inside every execution context
	// until one returns content.
	PerContext []jobtext.Strategy

	// Rules normalize PerContext results.
	Rules jobtext.RuleSet
}

// PlanFunc builds the plan for an identity of the kind it is registered for.
type PlanFunc func(id jobtext.SiteIdentity) Plan

// Dispatcher selects the extraction plan for a site identity, falling back
// to a generic plan for kinds with no registered plan.
type Dispatcher struct {
	fallback PlanFunc
	plans    map[jobtext.SiteKind]PlanFunc
}

// NewDispatcher creates a Dispatcher with the given fallback plan.
func NewDispatcher(fallback PlanFunc) *Dispatcher {
	return &Dispatcher{
		fallback: fallback,
		plans:    make(map[jobtext.SiteKind]PlanFunc),
	}
}

// Register sets the plan for a site kind, replacing any previous one.
func (d *Dispatcher) Register(kind jobtext.SiteKind, fn PlanFunc) {
	d.plans[kind] = fn
}

// Plan returns the plan for id.
func (d *Dispatcher) Plan(id jobtext.SiteIdentity) Plan {
	fn, ok := d.plans[id.Kind]
	if !ok {
		fn = d.fallback
	}
	p := fn(id)
	p.Identity = id
	return p
}

// List returns the registered site kinds in a stable order.
func (d *Dispatcher) List() []jobtext.SiteKind {
	kinds := make([]jobtext.SiteKind, 0, len(d.plans))
	for k := range d.plans {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
