package order

import (
	"errors"
	"fmt"
	"slices"

	"cardorders/internal/pkg/errs"
)

// ErrInvalidTransition is returned whenever a requested edge is not part of
// the policy, including when a concurrent writer changed the order first.
// Its message is a stable identifier surfaced to callers.
var ErrInvalidTransition = errors.New("invalid-transition")

// Edge is a single legal transition. When Trigger is AnyTrigger the edge
// accepts every trigger; otherwise the trigger is required and any other
// trigger is a denial.
type Edge struct {
	From    State
	To      State
	Trigger Trigger
}

// NewEdge returns an edge that accepts any trigger.
func NewEdge(from, to State) Edge {
	return Edge{From: from, To: to, Trigger: AnyTrigger}
}

// NewTriggeredEdge returns an edge that is only legal for the given trigger.
func NewTriggeredEdge(from, to State, trigger Trigger) Edge {
	return Edge{From: from, To: to, Trigger: trigger}
}

func (e Edge) String() string {
	return fmt.Sprintf("%s -[%s]-> %s", e.From, e.Trigger, e.To)
}

// Validate checks that the edge joins two valid states, does not leave a
// terminal state and does not point backwards along the pipeline.
func (e Edge) Validate() error {
	if err := errors.Join(e.From.Validate(), e.To.Validate()); err != nil {
		return err
	}
	if e.Trigger != AnyTrigger {
		if err := e.Trigger.Validate(); err != nil {
			return err
		}
	}
	if e.From.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("edge", fmt.Errorf("%s leaves terminal state %s", e, e.From))
	}
	if e.To.rank() < e.From.rank() {
		return errs.NewValueIsInvalidErrorWithCause("edge", fmt.Errorf("%s points backwards", e))
	}
	return nil
}

func (e Edge) accepts(trigger Trigger) bool {
	return e.Trigger == AnyTrigger || e.Trigger == trigger
}

type stateTransition struct {
	from State
	to   State
}

// TransitionPolicy is the immutable table of legal edges. It performs no I/O
// and is safe for concurrent use.
type TransitionPolicy struct {
	edges map[stateTransition][]Edge
}

// NewTransitionPolicy builds a policy from an explicit edge list. Self
// transitions are only legal when listed.
func NewTransitionPolicy(edges ...Edge) (TransitionPolicy, error) {
	policy := TransitionPolicy{edges: make(map[stateTransition][]Edge, len(edges))}
	for _, edge := range edges {
		if err := edge.Validate(); err != nil {
			return TransitionPolicy{}, err
		}
		key := stateTransition{from: edge.From, to: edge.To}
		if !slices.Contains(policy.edges[key], edge) {
			policy.edges[key] = append(policy.edges[key], edge)
		}
	}
	return policy, nil
}

// PolicyOption customizes DefaultTransitionPolicy.
type PolicyOption func(*policyConfig)

type policyConfig struct {
	nonCancelable []State
	extra         []Edge
}

// WithoutCancellationFrom removes the cancellation edge of the given states.
func WithoutCancellationFrom(states ...State) PolicyOption {
	return func(c *policyConfig) {
		c.nonCancelable = append(c.nonCancelable, states...)
	}
}

// WithEdges adds edges on top of the default graph, for example an explicit
// self transition when re-applying the current state must succeed.
func WithEdges(edges ...Edge) PolicyOption {
	return func(c *policyConfig) {
		c.extra = append(c.extra, edges...)
	}
}

// DefaultTransitionPolicy returns the fulfillment pipeline: each state
// advances to the next one, Captured → Paid requires the payment trigger, and
// every non-terminal state may be canceled unless excluded by an option.
func DefaultTransitionPolicy(opts ...PolicyOption) (TransitionPolicy, error) {
	var cfg policyConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	edges := []Edge{
		NewEdge(Initialized, Captured),
		NewTriggeredEdge(Captured, Paid, PaymentTrigger),
		NewEdge(Paid, Actionable),
		NewEdge(Actionable, Reviewed),
		NewEdge(Reviewed, Creating),
		NewEdge(Creating, Created),
		NewEdge(Created, Enroute),
		NewEdge(Enroute, Fulfilled),
	}
	for _, state := range States() {
		if state.IsTerminal() || slices.Contains(cfg.nonCancelable, state) {
			continue
		}
		edges = append(edges, NewEdge(state, Canceled))
	}
	edges = append(edges, cfg.extra...)

	return NewTransitionPolicy(edges...)
}

// MustDefaultTransitionPolicy is DefaultTransitionPolicy for option sets known to be valid.
func MustDefaultTransitionPolicy(opts ...PolicyOption) TransitionPolicy {
	policy, err := DefaultTransitionPolicy(opts...)
	if err != nil {
		panic(err)
	}
	return policy
}

// IsAllowed reports whether the policy has an edge from → to accepting trigger.
func (p TransitionPolicy) IsAllowed(from, to State, trigger Trigger) bool {
	for _, edge := range p.edges[stateTransition{from: from, to: to}] {
		if edge.accepts(trigger) {
			return true
		}
	}
	return false
}

// Check is IsAllowed returning ErrInvalidTransition with context on denial.
func (p TransitionPolicy) Check(from, to State, trigger Trigger) error {
	if !p.IsAllowed(from, to, trigger) {
		return fmt.Errorf("%w: %s -> %s (trigger %q)", ErrInvalidTransition, from, to, trigger)
	}
	return nil
}

// Edges returns every edge of the policy ordered by source then target state.
func (p TransitionPolicy) Edges() []Edge {
	edges := make([]Edge, 0, len(p.edges))
	for _, group := range p.edges {
		edges = append(edges, group...)
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		if a.From != b.From {
			return int(a.From) - int(b.From)
		}
		if a.To != b.To {
			return int(a.To) - int(b.To)
		}
		return int(a.Trigger) - int(b.Trigger)
	})
	return edges
}

// Targets lists the states reachable from the given state with the trigger.
func (p TransitionPolicy) Targets(from State, trigger Trigger) []State {
	targets := make([]State, 0)
	for _, to := range States() {
		if p.IsAllowed(from, to, trigger) {
			targets = append(targets, to)
		}
	}
	return targets
}
