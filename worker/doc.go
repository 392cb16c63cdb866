// Package worker runs independent calls in parallel with a bounded number
// of goroutines and returns their results in input order.
//
// Example usage:
//
//	results := worker.Run(ctx, codes, 4, func(ctx context.Context, code string) (tx.LookupResult, error) {
//	    return c.LookupCodeDisplay(ctx, system, code)
//	})
//	for _, r := range results {
//	    if r.Err != nil {
//	        // Handle error
//	    }
//	}
package worker
