// Package httputil provides the bounded retry loop used by registry clients.
//
// [Retry] runs an operation a fixed number of times. Only failures wrapped
// with [Retryable] are attempted again; anything else ends the loop at once.
// The delay between attempts starts at the given base and doubles:
//
//	err := httputil.Retry(ctx, 3, 250*time.Millisecond, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return httputil.Retryable(err)
//	    }
//	    ...
//	})
//
// A zero delay retries immediately, which tests rely on.
package httputil
