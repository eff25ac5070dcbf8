// Package health reports on the freshness of cached blocks and the state
// of backend guards.
//
// A Checker reports one component. FreshnessChecker grades a block cache
// by the business staleness tiers of its entries: any entry past the
// warning age makes it degraded, any entry past the error age makes it
// unhealthy. BreakerChecker grades a resilience circuit breaker. An
// Aggregator runs many checkers and folds them into one status.
//
//	agg := health.NewAggregator()
//	agg.Register(health.NewFreshnessChecker("local-data-card", svc.Cache()))
//	report := agg.Run(ctx)
//	if report.Status != health.StatusHealthy {
//	    log.Printf("blocks: %s", report.Status)
//	}
package health
