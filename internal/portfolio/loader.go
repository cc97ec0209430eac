package portfolio

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/clientdesk/internal/datasource"
	"github.com/seenimoa/clientdesk/pkg/models"
)

// ErrLoadFailed wraps every error returned by Loader.Load.
var ErrLoadFailed = errors.New("portfolio load failed")

// Policy decides what a failed secondary fetch does to the load.
type Policy int

const (
	// PolicyStrict fails the whole load when any of the four fetches fails.
	PolicyStrict Policy = iota
	// PolicyDegrade leaves a failed risks, sentiments or satisfaction
	// section empty and records a warning. A failed portfolio fetch is
	// still fatal.
	PolicyDegrade
)

func (p Policy) String() string {
	if p == PolicyDegrade {
		return "degrade"
	}
	return "strict"
}

// Secondary sections, indexed by their slot in Load.
const (
	sectionRisks = iota
	sectionSentiments
	sectionSatisfaction
)

var secondarySections = [...]string{
	sectionRisks:        "risks",
	sectionSentiments:   "sentiments",
	sectionSatisfaction: "satisfaction",
}

// Loader fetches the four resources behind a portfolio view.
type Loader struct {
	source datasource.DataSource
	policy Policy
	logger zerolog.Logger
}

// NewLoader creates a loader reading from src.
func NewLoader(src datasource.DataSource, policy Policy, logger zerolog.Logger) *Loader {
	return &Loader{source: src, policy: policy, logger: logger}
}

// Policy returns the loader's failure policy.
func (l *Loader) Policy() Policy { return l.policy }

// Load fetches portfolio, daily risks, daily sentiments and satisfaction for
// clientID concurrently and returns once all four have settled. Under
// PolicyStrict the first failure cancels the others and fails the load.
func (l *Loader) Load(ctx context.Context, clientID string) (*Bundle, error) {
	var (
		b Bundle
		// one slot per secondary section, in render order
		warnings [len(secondarySections)]string
	)

	// soft applies the policy to a secondary fetch error.
	soft := func(slot int, err error) error {
		section := secondarySections[slot]
		if l.policy == PolicyStrict {
			return fmt.Errorf("%s: %w", section, err)
		}
		l.logger.Warn().Err(err).Str("client_id", clientID).Str("section", section).
			Msg("section unavailable, rendering empty")
		warnings[slot] = section + " unavailable"
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p, err := l.source.Portfolio(gctx, clientID)
		if err != nil {
			return fmt.Errorf("portfolio: %w", err)
		}
		b.Portfolio = p
		return nil
	})

	g.Go(func() error {
		risks, err := l.source.DailyRisks(gctx, clientID)
		if err != nil {
			return soft(sectionRisks, err)
		}
		b.Risks = risks
		return nil
	})

	g.Go(func() error {
		sets, err := l.source.DailySentiments(gctx, clientID)
		if err != nil {
			return soft(sectionSentiments, err)
		}
		b.Sentiments = firstSentimentSet(sets)
		return nil
	})

	g.Go(func() error {
		s, err := l.source.Satisfaction(gctx, clientID)
		if err != nil {
			return soft(sectionSatisfaction, err)
		}
		b.Satisfaction = s
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w for client %s: %w", ErrLoadFailed, clientID, err)
	}
	for _, w := range warnings {
		if w != "" {
			b.Warnings = append(b.Warnings, w)
		}
	}
	return &b, nil
}

// View loads and builds the view for clientID, logging unrecognized
// sentiment categories.
func (l *Loader) View(ctx context.Context, clientID string) (View, error) {
	b, err := l.Load(ctx, clientID)
	if err != nil {
		return View{}, err
	}
	return Build(clientID, b, WithUnrecognized(l.logUnrecognized(clientID))), nil
}

func (l *Loader) logUnrecognized(clientID string) UnrecognizedFunc {
	return func(ch models.Channel, date, category string) {
		l.logger.Warn().
			Str("client_id", clientID).
			Str("channel", ch.Key()).
			Str("date", date).
			Str("category", category).
			Msg("skipping sentiment event with unrecognized category")
	}
}

// firstSentimentSet unwraps the sequence-of-one wrapper. An empty wrapper
// yields no records.
func firstSentimentSet(sets []models.DailySentimentSet) []models.DailySentiment {
	if len(sets) == 0 {
		return nil
	}
	return sets[0].DailySentiments
}
