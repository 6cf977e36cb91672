// Package integrations provides the shared HTTP plumbing for package registry
// API clients.
//
// # Overview
//
// Each registry has its own subpackage built on [Client]:
//
//   - [pypi]: Python Package Index license metadata
//
// # Client Pattern
//
// Registry clients embed [Client] and follow a consistent pattern:
//
//	client := pypi.NewClient(cache.NewMemoryCache(), 24*time.Hour)
//	licenses := client.FetchLicense(ctx, "flask", "3.0.0", 3)
//
// [Client] handles:
//   - JSON GET requests with default headers
//   - Classification of failures into [ErrNotFound], [ErrNetwork], [ErrDecode]
//   - Response caching through any [cache.Cache] backend
//   - HTTP and cache events via the observability hooks
//
// Retry policy belongs to the registry client: [Client] marks transient
// failures with [httputil.RetryableError] but never retries on its own.
//
// [pypi]: github.com/matzehuels/licensetower/pkg/integrations/pypi
// [cache.Cache]: github.com/matzehuels/licensetower/pkg/cache.Cache
// [httputil.RetryableError]: github.com/matzehuels/licensetower/pkg/httputil.RetryableError
package integrations
