// Package httputil holds the retry policy shared by the remote archive
// fetchers.
//
// Transient failures (network errors, 5xx responses) are marked with
// [RetryableError]; everything else fails immediately:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    return httputil.CheckStatus(resp)
//	})
//
// The delay doubles after every failed attempt.
package httputil
