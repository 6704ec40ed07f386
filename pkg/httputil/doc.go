// Package httputil provides retry helpers for the primary store's HTTP
// transport.
//
// Wrap transient failures (network errors, 5xx responses) in a
// [RetryableError]; [Retry] re-runs the operation with exponential backoff
// and gives up immediately on any other error:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    body, err = fetch(ctx, url)
//	    return err
//	})
//
// Defaults are 3 attempts starting with a 1 second delay that doubles on
// every retry.
package httputil
