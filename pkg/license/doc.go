// Package license attaches license metadata to a package graph.
//
// [Annotate] looks up every package through a [Fetcher] (normally the PyPI
// client), substitutes [Unknown] where nothing was found, and then rewrites
// each set through the [AliasTable] so that spelling variants such as "MIT"
// and "MIT License" are counted as one license.
//
//	client := pypi.NewClient(cache.NewMemoryCache(), 0)
//	err := license.Annotate(ctx, g, client, license.AnnotateOptions{Concurrency: 4})
//	counts := license.Counts(g)
package license
