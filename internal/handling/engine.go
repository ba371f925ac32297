package handling

import (
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/alexiusacademia/gogirder/internal/criteria"
	"github.com/alexiusacademia/gogirder/internal/fem"
	"github.com/alexiusacademia/gogirder/internal/model"
	"github.com/alexiusacademia/gogirder/internal/segment"
)

// Engine runs lifting and hauling analyses and designs against one rule set.
// It holds no per-analysis state and is safe for concurrent use when its
// providers are.
type Engine struct {
	providers segment.Providers
	rules     criteria.Rules
	solver    fem.Solver
}

// Option customizes an Engine.
type Option func(*Engine)

// WithSolver replaces the default stiffness solver.
func WithSolver(s fem.Solver) Option {
	return func(e *Engine) { e.solver = s }
}

// NewEngine checks the providers and rules and returns an engine.
func NewEngine(providers segment.Providers, rules criteria.Rules, opts ...Option) (*Engine, error) {
	if err := providers.Validate(); err != nil {
		return nil, err
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", segment.ErrInvalidConfiguration, err)
	}
	e := &Engine{providers: providers, rules: rules, solver: fem.NewStiffness()}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Rules returns the rule set of the engine.
func (e *Engine) Rules() criteria.Rules { return e.rules }

// AnalyzeLifting evaluates a segment hung from lift points.
func (e *Engine) AnalyzeLifting(key segment.Key, cfg Configuration) (*Artifact, error) {
	return e.analyze(ModeLifting, key, cfg)
}

// AnalyzeHauling evaluates a segment supported on truck bunks.
func (e *Engine) AnalyzeHauling(key segment.Key, cfg Configuration) (*Artifact, error) {
	return e.analyze(ModeHauling, key, cfg)
}

// DesignLifting searches for the smallest lift point overhangs within bounds
// at which every lifting check passes.
func (e *Engine) DesignLifting(key segment.Key, bounds Bounds, opts DesignOptions) (*DesignOutcome, error) {
	return e.design(ModeLifting, key, bounds, opts)
}

// DesignHauling searches for the smallest bunk overhangs within bounds at
// which every hauling check passes.
func (e *Engine) DesignHauling(key segment.Key, bounds Bounds, opts DesignOptions) (*DesignOutcome, error) {
	return e.design(ModeHauling, key, bounds, opts)
}

func (e *Engine) design(mode Mode, key segment.Key, bounds Bounds, opts DesignOptions) (*DesignOutcome, error) {
	length, err := e.providers.Sections.SegmentLength(key)
	if err != nil {
		return nil, withKind(err, key, "design")
	}
	if err := bounds.validate(key, length); err != nil {
		return nil, err
	}
	log.Debugf("design %s %s: left [%.4f, %.4f] m, right [%.4f, %.4f] m", mode, key, bounds.LeftMin, bounds.LeftMax, bounds.RightMin, bounds.RightMax)

	base := opts.Base
	return search(bounds, opts, func(sup model.Supports) (*Artifact, []Check, error) {
		cfg := base
		cfg.UseDefaults = false
		cfg.LeftOverhang, cfg.RightOverhang = sup.Left, sup.Right
		art, err := e.analyze(mode, key, cfg)
		if err != nil {
			return nil, nil, err
		}
		return art, requiredChecks(art.checks, opts.Threshold), nil
	})
}

func (e *Engine) analyze(mode Mode, key segment.Key, cfg Configuration) (*Artifact, error) {
	if cfg.UseDefaults {
		d := e.rules.Lifting.DefaultOverhang
		if mode == ModeHauling {
			d = e.rules.Hauling.DefaultOverhang
		}
		cfg.LeftOverhang, cfg.RightOverhang = d, d
		cfg.UseDefaults = false
	}
	art, err := e.run(mode, key, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s analysis of %s with %s: %w", mode, key, cfg, err)
	}
	return art, nil
}

func (e *Engine) run(mode Mode, key segment.Key, cfg Configuration) (*Artifact, error) {
	p := e.providers

	var interval segment.IntervalIndex
	var err error
	if mode == ModeLifting {
		interval, err = p.Intervals.LiftingInterval(key)
	} else {
		interval, err = p.Intervals.HaulingInterval(key)
	}
	if err != nil {
		return nil, withKind(err, key, "interval")
	}

	concrete, err := p.Materials.ConcreteProperties(key, interval)
	if err != nil {
		return nil, withKind(err, key, "concrete")
	}
	if cfg.Concrete.Fc > 0 {
		concrete.Fc = cfg.Concrete.Fc
	}
	if cfg.Concrete.Ec > 0 {
		concrete.Ec = cfg.Concrete.Ec
	}
	if concrete.Fc <= 0 || concrete.Ec <= 0 {
		return nil, segment.New(segment.KindIncompleteInput, key, "concrete strength and modulus are required").In("concrete")
	}

	pois, err := p.POIs.PointsOfInterest(key, 0)
	if err != nil {
		return nil, withKind(err, key, "points of interest")
	}
	length, err := p.Sections.SegmentLength(key)
	if err != nil {
		return nil, withKind(err, key, "segment length")
	}
	pois = append(pois,
		segment.PointOfInterest{Segment: key, Station: cfg.LeftOverhang, Attributes: segment.AttrSupport},
		segment.PointOfInterest{Segment: key, Station: length - cfg.RightOverhang, Attributes: segment.AttrSupport},
	)
	bm, err := model.NewBuilder(p.Sections, p.Materials).Build(key, interval, cfg.Supports(), pois, model.Options{Ec: concrete.Ec})
	if err != nil {
		return nil, err
	}

	policy := e.policy(mode)
	ev, err := NewEvaluator(e.solver, p.Sections).Evaluate(bm, policy)
	if err != nil {
		return nil, err
	}
	stresses := ev.Stresses

	mid, err := p.Sections.SectionProperties(key, interval, bm.Length/2)
	if err != nil {
		return nil, withKind(err, key, "section properties")
	}
	lat := lateral{
		key:      key,
		weight:   bm.Weight(),
		length:   bm.Length,
		overhang: (cfg.LeftOverhang + cfg.RightOverhang) / 2,
		ec:       concrete.Ec,
		mid:      mid,
	}
	if err := lat.check(); err != nil {
		return nil, segment.New(segment.KindIncompleteInput, key, "lateral stability").At(bm.Length / 2).Wrap(err)
	}

	cr := &crackingInput{fc: concrete.Fc, props: make(map[int]segment.SectionProperties, bm.Arena.Len())}
	for _, poi := range bm.Arena.Points() {
		props, err := p.Sections.SectionProperties(key, interval, poi.Station)
		if err != nil {
			return nil, withKind(err, key, "section properties")
		}
		cr.props[poi.ID] = props
	}

	art := &Artifact{
		id:       uuid.New(),
		mode:     mode,
		key:      key,
		interval: interval,
		config:   cfg,
		concrete: concrete,
		length:   bm.Length,
		policy:   policy.Name(),
		stresses: stresses,

		reactions:  [2]float64{ev.LeftReaction, ev.RightReaction},
		deflection: ev.MaxDeflection,
	}
	if mid.TopWidth <= 0 || mid.BottomWidth <= 0 {
		art.warnings = append(art.warnings, "flange widths are unknown; lateral bending stresses are omitted")
	}

	span := bm.Supports.Span(bm.Length)
	var gov Governing
	if mode == ModeLifting {
		rules := e.rules.Lifting
		cr.tension = rules.Tension
		f := liftingStability(lat, span, rules, stresses, cr)
		art.lifting = &f
		gov = f.Cracking
		art.checks = []Check{
			{Name: "cracking", Value: f.FSCracking, Required: rules.MinFSCracking},
			{Name: "failure", Value: f.FSFailure, Required: rules.MinFSFailure},
		}
		if !f.Stable {
			art.warnings = append(art.warnings, fmt.Sprintf("unstable equilibrium: lateral deflection %.4f m reaches the roll axis height %.4f m", f.LateralDeflection, f.RollAxisHeight))
		}
	} else {
		rules := e.rules.Hauling
		cr.tension = rules.Tension
		f := haulingStability(lat, span, rules, stresses, cr)
		art.hauling = &f
		gov = f.Cracking
		art.checks = []Check{
			{Name: "cracking", Value: f.FSCracking, Required: rules.MinFSCracking},
			{Name: "rollover", Value: f.FSRollover, Required: rules.MinFSRollover},
			{Name: "failure", Value: f.FSFailure, Required: rules.MinFSFailure},
		}
		if !f.Stable {
			art.warnings = append(art.warnings, fmt.Sprintf("unstable equilibrium: radius of stability %.4f m does not exceed centroid height plus lateral deflection", f.StabilityRadius))
		}
	}
	art.controlling = gov.String()

	log.Debugf("%s %s [%s]: %s, %d points, %d load cases, governing %s", mode, key, art.id, cfg, bm.Arena.Len(), len(policy.Cases()), art.controlling)
	return art, nil
}

// policy picks the load scaling of a handling mode.
func (e *Engine) policy(mode Mode) model.LoadScaling {
	if mode == ModeHauling {
		if r := e.rules.Hauling.Regional; r != nil {
			return model.RegionalImpact{Overhang: r.Overhang, Interior: r.Interior}
		}
		return model.UniformImpact{Up: e.rules.Hauling.ImpactUp, Down: e.rules.Hauling.ImpactDown}
	}
	return model.UniformImpact{Up: e.rules.Lifting.ImpactUp, Down: e.rules.Lifting.ImpactDown}
}

// withKind passes classified errors through and marks the rest as missing data.
func withKind(err error, key segment.Key, op string) error {
	if segment.KindOf(err) != 0 {
		return err
	}
	return segment.New(segment.KindDataUnavailable, key, "").Wrap(err).In(op)
}
