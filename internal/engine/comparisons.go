package engine

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-winnow/internal/compare"
	"github.com/gcbaptista/go-winnow/model"
	"github.com/gcbaptista/go-winnow/services"
)

// Compare compares two registered documents.
func (e *Engine) Compare(ctx context.Context, sourceID, targetID string) (*model.ComparisonResult, error) {
	source, err := e.input(ctx, sourceID)
	if err != nil {
		return nil, err
	}
	target, err := e.input(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return e.comparer.Compare(source, target)
}

func (e *Engine) input(ctx context.Context, docID string) (compare.Input, error) {
	doc, err := e.indexer.Document(docID)
	if err != nil {
		return compare.Input{}, err
	}
	fps, err := e.indexer.Fingerprints(ctx, docID)
	if err != nil {
		return compare.Input{}, err
	}
	return compare.Input{Fingerprints: fps, Text: doc.Text, Meta: doc.Meta}, nil
}

// CompareBatch runs independent comparisons on up to MaxWorkers goroutines.
// Outcomes follow the order of pairs. A failing pair records its error in
// its own outcome and never affects the others. Once ctx is done no new
// comparisons start; their outcomes carry the context error, which is also
// returned.
func (e *Engine) CompareBatch(ctx context.Context, pairs []model.ComparisonPair, progress services.ProgressFunc) ([]model.PairOutcome, error) {
	outcomes := make([]model.PairOutcome, len(pairs))
	for i, pair := range pairs {
		outcomes[i] = model.PairOutcome{SourceID: pair.SourceID, TargetID: pair.TargetID}
	}

	var done atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(e.maxWorkers)

	for i, pair := range pairs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				outcomes[i].Error = err.Error()
				return nil
			}
			result, err := e.Compare(ctx, pair.SourceID, pair.TargetID)
			if err != nil {
				outcomes[i].Error = err.Error()
			} else {
				outcomes[i].Result = result
			}
			if progress != nil {
				progress(int(done.Add(1)), len(pairs))
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		for i := range outcomes {
			if outcomes[i].Result == nil && outcomes[i].Error == "" {
				outcomes[i].Error = err.Error()
			}
		}
		return outcomes, err
	}
	return outcomes, nil
}
