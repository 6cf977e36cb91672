// Package pypi fetches license metadata from the Python Package Index.
//
// # Usage
//
//	client := pypi.NewClient(cache.NewMemoryCache(), 24*time.Hour)
//	licenses := client.FetchLicense(ctx, "flask", "3.0.0", 3)
//	fmt.Println(licenses.Sorted()) // [BSD License]
//
// # License Sources
//
// A release's licenses are the union of its "License ::" trove classifiers
// and its short license and license_expression fields. Free-text fields longer
// than 12 characters are ignored because they usually hold full license texts.
//
// # Memoization
//
// Every completed lookup is stored in the client's cache under
// pypi:{name}:{version}, including lookups that found nothing. Use a
// [cache.MemoryCache] for a per-session memo, or a file or Redis backend to
// share lookups across runs and processes.
//
// [cache.MemoryCache]: github.com/matzehuels/licensetower/pkg/cache.MemoryCache
package pypi
