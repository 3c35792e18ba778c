package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"yield_aggregator/src/apy"
)

type checkStore interface {
	LastVenue() (apy.Venue, error)
	SaveCheck(c Check) error
}

// Aggregator fetches both venues' rates, turns them into yields and decides
// where the custody contract should hold WETH. It only reports the decision;
// moving funds is up to the contract owner.
type Aggregator struct {
	compound     RateSource
	aave         RateSource
	compoundCalc *apy.CompoundCalculator
	aaveCalc     *apy.AaveCalculator
	store        checkStore
	notifier     Notifier
	metrics      *Metrics
	log          *zap.SugaredLogger
	now          func() time.Time

	mu     sync.RWMutex
	latest *Check
}

func NewAggregator(
	compound, aave RateSource,
	compoundCalc *apy.CompoundCalculator,
	aaveCalc *apy.AaveCalculator,
	store checkStore,
	notifier Notifier,
	metrics *Metrics,
	log *zap.SugaredLogger,
) *Aggregator {
	return &Aggregator{
		compound:     compound,
		aave:         aave,
		compoundCalc: compoundCalc,
		aaveCalc:     aaveCalc,
		store:        store,
		notifier:     notifier,
		metrics:      metrics,
		log:          log,
		now:          time.Now,
	}
}

// Check runs one round. Both rates are fetched concurrently and both must
// succeed; a failed venue never falls back to a zero yield.
func (a *Aggregator) Check(ctx context.Context) (Check, error) {
	var compoundSnap, aaveSnap RateSnapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap, err := a.compound.FetchRate(gctx)
		compoundSnap = snap
		return err
	})
	g.Go(func() error {
		snap, err := a.aave.FetchRate(gctx)
		aaveSnap = snap
		return err
	})
	if err := g.Wait(); err != nil {
		a.metrics.ObserveFailure(resultFetchError)
		return Check{}, err
	}

	compoundYield, err := a.compoundCalc.Compute(compoundSnap.Rate)
	if err != nil {
		a.metrics.ObserveFailure(resultComputeError)
		return Check{}, fmt.Errorf("computing compound yield from rate %s: %w", compoundSnap.Rate, err)
	}

	aaveYield, err := a.aaveCalc.Compute(aaveSnap.Rate, aaveSnap.Reserve)
	if err != nil {
		a.metrics.ObserveFailure(resultComputeError)
		return Check{}, fmt.Errorf("computing aave yield from rate %s: %w", aaveSnap.Rate, err)
	}

	current, err := a.store.LastVenue()
	if err != nil {
		a.metrics.ObserveFailure(resultStoreError)
		return Check{}, fmt.Errorf("loading current venue: %w", err)
	}

	check := Check{
		Compound:  compoundSnap,
		Aave:      aaveSnap,
		Decision:  apy.Select(current, compoundYield, aaveYield),
		CheckedAt: a.now(),
	}

	if err := a.store.SaveCheck(check); err != nil {
		a.metrics.ObserveFailure(resultStoreError)
		return Check{}, fmt.Errorf("saving check: %w", err)
	}

	a.mu.Lock()
	a.latest = &check
	a.mu.Unlock()

	a.metrics.ObserveCheck(check)
	a.log.Infow("yield check",
		"compound", compoundYield.String(),
		"aave", aaveYield.String(),
		"from", check.Decision.From.String(),
		"to", check.Decision.To.String(),
	)

	if check.Decision.Moved() {
		if err := a.notifier.Notify(formatDecision(check)); err != nil {
			a.log.Errorw("sending notification", "err", err)
		}
	}

	return check, nil
}

// Latest returns the most recent successful check.
func (a *Aggregator) Latest() (Check, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.latest == nil {
		return Check{}, false
	}
	return *a.latest, true
}
