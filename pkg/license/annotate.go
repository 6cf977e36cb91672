package license

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/licensetower/pkg/dag"
	"github.com/matzehuels/licensetower/pkg/deptree"
)

// DefaultRetries is the number of registry attempts made per package.
const DefaultRetries = 3

// Fetcher looks up the license set of one package version. A nil result
// means no license data is available; implementations must not distinguish
// failed lookups from lookups that found nothing.
type Fetcher interface {
	FetchLicense(ctx context.Context, name, version string, maxRetries int) Set
}

// FetcherFunc adapts a plain function to [Fetcher].
type FetcherFunc func(ctx context.Context, name, version string, maxRetries int) Set

// FetchLicense calls f.
func (f FetcherFunc) FetchLicense(ctx context.Context, name, version string, maxRetries int) Set {
	return f(ctx, name, version, maxRetries)
}

// AnnotateOptions configures [Annotate].
type AnnotateOptions struct {
	Aliases     AliasTable           // Alias table for normalization (default: DefaultAliases)
	Retries     int                  // Registry attempts per package (default: DefaultRetries)
	Concurrency int                  // Parallel lookups (default: 1, sequential)
	OnProgress  func(done, total int) // Called after each lookup (optional, may run concurrently)
}

func (o AnnotateOptions) withDefaults() AnnotateOptions {
	if o.Aliases == nil {
		o.Aliases = DefaultAliases
	}
	if o.Retries <= 0 {
		o.Retries = DefaultRetries
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	return o
}

// Annotate attaches a license set to every non-root node of g.
//
// Annotation runs in two phases. First every package is looked up through f
// (in parallel when Concurrency > 1); nodes without data get {UNKNOWN}. Only
// after all lookups have completed is each attached set normalized against
// the alias table, so normalization always sees the complete raw set.
// The root node is skipped entirely.
//
// If ctx is cancelled before the lookups finish, Annotate returns ctx.Err()
// and leaves g untouched.
func Annotate(ctx context.Context, g *dag.DAG, f Fetcher, opts AnnotateOptions) error {
	opts = opts.withDefaults()

	var ids []string
	for _, id := range g.NodeIDs() {
		if !deptree.PackageID(id).IsRoot() {
			ids = append(ids, id)
		}
	}

	raw := make([]Set, len(ids))
	var (
		mu   sync.Mutex
		done int
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.Concurrency)
	for i, id := range ids {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			name, version := deptree.PackageID(id).Split()
			raw[i] = f.FetchLicense(egCtx, name, version, opts.Retries)
			if opts.OnProgress != nil {
				mu.Lock()
				done++
				opts.OnProgress(done, len(ids))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for i, id := range ids {
		set := raw[i]
		if set.Len() == 0 {
			set = NewSet(Unknown)
		}
		_ = g.SetLicenses(id, set.Sorted())
	}

	for _, id := range ids {
		n, _ := g.Node(id)
		normalized := Normalize(NewSet(n.Licenses...), opts.Aliases)
		_ = g.SetLicenses(id, normalized.Sorted())
	}
	return nil
}
