package gen

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/derive/compiler/diag"
	"github.com/syssam/derive/compiler/load"
)

// Generator runs capabilities over loaded types.
type Generator struct {
	cfg  *Config
	caps []Capability
}

// NewGenerator creates a generator for the given capabilities. Capabilities
// disabled in cfg are skipped.
func NewGenerator(cfg *Config, caps ...Capability) *Generator {
	if cfg == nil {
		cfg = MustNewConfig()
	}
	cfg.defaults()
	return &Generator{cfg: cfg, caps: caps}
}

// UnitResult summarizes one generated unit.
type UnitResult struct {
	Name    string
	File    string
	Members []string
	Flushed bool
}

// Report is the result of a generation run.
type Report struct {
	Diagnostics *diag.Bag
	// Units are sorted by name.
	Units []UnitResult
	// Outcomes maps written file paths to what the file sink did, when the
	// file sink is used.
	Outcomes map[string]Outcome
	Duration time.Duration
}

// Generate processes every type with every enabled capability. Types are
// independent and processed in parallel with at most cfg.Workers
// goroutines. Diagnostics go to both the report bag and r, if not nil.
// The returned error is only set for cancellation or a cache failure.
func (g *Generator) Generate(ctx context.Context, types []*load.Type, r diag.Reporter) (*Report, error) {
	start := time.Now()
	logger := g.cfg.Logger
	bag := diag.NewBag()
	var reporter diag.Reporter = diag.BagReporter{Bag: bag}
	if r != nil {
		reporter = diag.MultiReporter{reporter, r}
	}

	var (
		cache *Cache
		err   error
	)
	if g.cfg.CachePath != "" && !g.cfg.DryRun {
		if cache, err = OpenCache(g.cfg.CachePath); err != nil {
			return nil, err
		}
	}
	sink := g.cfg.Sink
	fileSink, _ := sink.(*FileSink)
	if sink == nil {
		fileSink = NewFileSink(g.cfg, cache)
		sink = fileSink
	}
	p := &Processor{Header: g.cfg.Output().Header, Sink: sink, Reporter: reporter, Logger: logger}

	// Claims are handed out in input order, so the same type loses a
	// collision on every run.
	type job struct {
		t    *Type
		caps []Capability
	}
	cl := newClaims(g.cfg.Output())
	jobs := make([]job, 0, len(types))
	for _, lt := range types {
		j := job{t: NewType(lt)}
		for _, c := range g.caps {
			if g.cfg.Enabled(c.Name()) && c.Enabled(j.t) && cl.claim(j.t, c, reporter) {
				j.caps = append(j.caps, c)
			}
		}
		jobs = append(jobs, j)
	}

	var (
		mu      sync.Mutex
		results []UnitResult
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.cfg.Workers)
	for _, j := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for _, c := range j.caps {
				u, ok := p.Process(j.t, c)
				mu.Lock()
				results = append(results, UnitResult{
					Name:    u.Name,
					File:    u.File,
					Members: Names(u.Members),
					Flushed: ok,
				})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := cache.Save(); err != nil {
		return nil, err
	}
	slices.SortFunc(results, func(a, b UnitResult) int {
		return strings.Compare(a.Name, b.Name)
	})
	bag.Sort()
	report := &Report{Diagnostics: bag, Units: results, Duration: time.Since(start)}
	if fileSink != nil {
		report.Outcomes = fileSink.Outcomes()
	}
	logger.Info("generation finished",
		zap.Int("types", len(types)),
		zap.Int("units", len(results)),
		zap.Int("errors", bag.Count(diag.SevError)),
		zap.Int("warnings", bag.Count(diag.SevWarning)),
		zap.Duration("duration", report.Duration),
	)
	return report, nil
}
