package recommend

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kalambet/skinrec/internal/catalog"
	"github.com/kalambet/skinrec/internal/metrics"
	"github.com/kalambet/skinrec/internal/profile"
	"github.com/kalambet/skinrec/internal/scoring"
)

// Defaults applied when Options leave a field zero.
const (
	DefaultTopPerProblem = 3
	DefaultParallelism   = 4
)

// Options tunes an Engine.
type Options struct {
	TopPerProblem int
	Parallelism   int
	Logger        *slog.Logger
}

// Engine answers recommendation queries against an immutable catalog and
// scorer. It is safe for concurrent use.
type Engine struct {
	catalog     *catalog.Catalog
	scorer      *scoring.Scorer
	topN        int
	parallelism int
	logger      *slog.Logger
}

// NewEngine builds an Engine.
func NewEngine(c *catalog.Catalog, s *scoring.Scorer, opts Options) *Engine {
	e := &Engine{
		catalog:     c,
		scorer:      s,
		topN:        opts.TopPerProblem,
		parallelism: opts.Parallelism,
		logger:      opts.Logger,
	}
	if e.topN <= 0 {
		e.topN = DefaultTopPerProblem
	}
	if e.parallelism <= 0 {
		e.parallelism = DefaultParallelism
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Strategy names the scoring strategy in use.
func (e *Engine) Strategy() string { return e.scorer.Strategy().Name() }

type candidate struct {
	tmpl   catalog.Template
	result scoring.Result
}

// Select returns up to topN recommendations for one problem, ranked by final
// probability and at most one per method. topN <= 0 uses the engine default.
// Failures are returned as *Error.
func (e *Engine) Select(p profile.Profile, problem string, topN int) ([]Recommendation, error) {
	if topN <= 0 {
		topN = e.topN
	}
	skinType, ageRange := string(p.SkinType), string(p.AgeRange)

	templates := e.catalog.Applicable(problem, skinType, ageRange)
	if len(templates) == 0 {
		return nil, &Error{Kind: KindNoTemplates, Problem: problem, SkinType: skinType, AgeRange: ageRange}
	}
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return nil, &Error{Kind: KindMalformedTemplate, Problem: problem, SkinType: skinType, AgeRange: ageRange, Err: err}
		}
	}

	candidates := make([]candidate, 0, len(templates))
	for _, t := range templates {
		r, err := e.scorer.Score(p, problem, t)
		if err != nil {
			return nil, &Error{Kind: KindScoringFailure, Problem: problem, SkinType: skinType, AgeRange: ageRange, Err: err}
		}
		candidates = append(candidates, candidate{tmpl: t, result: r})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].result.SuccessProb > candidates[j].result.SuccessProb
	})

	seen := make(map[string]bool)
	var recs []Recommendation
	for _, c := range candidates {
		if len(recs) == topN {
			break
		}
		method := c.tmpl.Method.String()
		if seen[method] {
			continue
		}
		seen[method] = true
		recs = append(recs, newRecommendation(c.tmpl, c.result))
	}
	if len(recs) == 0 {
		return nil, &Error{Kind: KindNoRecommendations, Problem: problem, SkinType: skinType, AgeRange: ageRange}
	}
	return recs, nil
}

// Description labels that list expected effects when a template has none.
var effectLabels = []string{"Ожидаемые эффекты", "Expected effects"}

func expectedEffects(t catalog.Template) []string {
	if len(t.Effects) > 0 {
		return t.Effects
	}
	for _, label := range effectLabels {
		if effects := catalog.FieldValues(t.Description, label); len(effects) > 0 {
			return effects
		}
	}
	return nil
}

func newRecommendation(t catalog.Template, r scoring.Result) Recommendation {
	effect := strings.Join(expectedEffects(t), ", ")
	if strings.TrimSpace(effect) == "" {
		effect = NotSpecified
	}
	duration := t.CourseDuration
	if duration == "" {
		duration = NotSpecified
	}
	contra := t.ContraindicationList()
	if len(contra) == 0 {
		contra = []string{"None"}
	}
	ingredients := append([]string{}, t.ActiveIngredients...)

	return Recommendation{
		Method:            t.Method.String(),
		Type:              t.Type,
		SuccessProb:       r.SuccessProb,
		Template:          t.Description,
		ExpectedEffect:    effect,
		CourseDuration:    duration,
		ActiveIngredients: ingredients,
		Contraindications: contra,
		BaseProb:          r.BaseProb,
		Warning:           r.Warning,
		Corrections:       r.Corrections,
	}
}

// Recommend evaluates every problem of the profile independently and returns
// one slot per problem in request order. A failing problem never affects the
// others; its slot carries the error instead. topPerProblem <= 0 uses the
// engine default. The only error returned is ctx's.
func (e *Engine) Recommend(ctx context.Context, p profile.Profile, topPerProblem int) ([]ProblemResult, error) {
	metrics.RecordRequest()
	p = p.Clone()
	e.logger.DebugContext(ctx, "recommending", "profile", p.Summary(), "problems", len(p.Problems))
	results := make([]ProblemResult, len(p.Problems))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i, problem := range p.Problems {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = e.evaluate(gCtx, p, problem, topPerProblem)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Engine) evaluate(ctx context.Context, p profile.Profile, problem string, topN int) ProblemResult {
	start := time.Now()
	recs, err := e.Select(p, problem, topN)
	elapsed := time.Since(start)

	if err != nil {
		kind := KindOf(err)
		metrics.RecordProblem(string(kind), elapsed)
		level := slog.LevelWarn
		if kind == KindScoringFailure {
			level = slog.LevelError
		}
		e.logger.Log(ctx, level, "problem has no recommendations",
			"problem", problem, "kind", kind, "error", err)
		return ProblemResult{Problem: problem, Error: err.Error(), ErrorKind: kind, Err: err}
	}

	metrics.RecordProblem(metrics.OutcomeOK, elapsed)
	for _, r := range recs {
		metrics.RecordSuccessProb(r.SuccessProb)
	}
	e.logger.DebugContext(ctx, "problem evaluated", "problem", problem, "recommendations", len(recs), "elapsed", elapsed)
	return ProblemResult{Problem: problem, Recommendations: recs}
}
