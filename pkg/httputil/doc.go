// Package httputil provides the HTTP client used to fetch remote datasets.
//
// # Overview
//
//   - [Client]: GET with status classification and default headers
//   - [Retry]: retry with exponential backoff for transient failures
//
// # Retry
//
// Only errors wrapped in [RetryableError] are retried. [Client] wraps
// network failures and 5xx responses; 404 and other 4xx responses fail
// immediately:
//
//	c := httputil.NewClient(nil)
//	var body []byte
//	err := httputil.RetryWithBackoff(ctx, func() (err error) {
//	    body, err = c.Get(ctx, url)
//	    return err
//	})
//
// # Configuration
//
//   - Request timeout: 10 seconds
//   - Attempts: 3
//   - Base backoff: 1 second, doubling
package httputil
