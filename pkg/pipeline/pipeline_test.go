package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/licensetower/pkg/license"
	"github.com/matzehuels/licensetower/pkg/observability"
)

const deptreeJSON = `[
  {"package": {"package_name": "flask", "installed_version": "3.0.0"},
   "dependencies": [
     {"package_name": "click", "installed_version": "8.1.7", "dependencies": []},
     {"package_name": "readline", "installed_version": "8.0", "dependencies": []}
   ]},
  {"package": {"package_name": "click", "installed_version": "8.1.7"}, "dependencies": []},
  {"package": {"package_name": "readline", "installed_version": "8.0"}, "dependencies": []}
]`

var registry = map[string][]string{
	"flask":    {"BSD"},
	"click":    {"BSD License"},
	"readline": {"GPL"},
}

func fakeFetcher() license.Fetcher {
	return license.FetcherFunc(func(ctx context.Context, name, version string, maxRetries int) license.Set {
		if ls, ok := registry[name]; ok {
			return license.NewSet(ls...)
		}
		return nil
	})
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"dot", false},
		{"json", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if o.Retries != DefaultRetries || o.Concurrency != DefaultConcurrency {
		t.Errorf("got retries=%d concurrency=%d", o.Retries, o.Concurrency)
	}
	// idempotent
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}

	bad := []Options{{Retries: -1}, {Concurrency: -1}, {Concurrency: MaxConcurrency + 1}}
	for _, o := range bad {
		if err := o.ValidateAndSetDefaults(); err == nil {
			t.Errorf("%+v should be rejected", o)
		}
	}
}

func TestExecuteReader(t *testing.T) {
	r := NewRunner(fakeFetcher(), nil)
	result, err := r.ExecuteReader(context.Background(), strings.NewReader(deptreeJSON), Options{})
	if err != nil {
		t.Fatalf("ExecuteReader: %v", err)
	}

	g := result.Graph
	if g.NodeCount() != 4 {
		t.Errorf("got %d nodes, want 4 (ROOT + 3 packages)", g.NodeCount())
	}
	if g.OutDegree("ROOT") != 1 {
		t.Errorf("root out-degree = %d, want 1", g.OutDegree("ROOT"))
	}

	counts := license.Counts(g)
	if counts["BSD License"] != 2 || counts["GPL"] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if result.Stats.Records != 3 || result.Stats.UnknownCount != 0 {
		t.Errorf("stats = %+v", result.Stats)
	}
}

func TestExecuteNoRoot(t *testing.T) {
	r := NewRunner(fakeFetcher(), nil)
	result, err := r.ExecuteReader(context.Background(), strings.NewReader(deptreeJSON), Options{NoRoot: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.Graph.HasNode("ROOT") {
		t.Error("ROOT should be omitted")
	}
}

func TestExecuteCustomAliases(t *testing.T) {
	r := NewRunner(fakeFetcher(), nil)
	opts := Options{Aliases: license.AliasTable{
		{Canonical: "GNU General Public License", Variants: []string{"GPL"}},
	}}
	result, err := r.ExecuteReader(context.Background(), strings.NewReader(deptreeJSON), opts)
	if err != nil {
		t.Fatal(err)
	}
	if license.Counts(result.Graph)["GNU General Public License"] != 1 {
		t.Errorf("counts = %v", license.Counts(result.Graph))
	}
}

func TestExecuteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deptree.json")
	if err := os.WriteFile(path, []byte(deptreeJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fakeFetcher(), nil)
	if _, err := r.ExecuteFile(context.Background(), path, Options{}); err != nil {
		t.Fatalf("ExecuteFile: %v", err)
	}
	if _, err := r.ExecuteFile(context.Background(), path+".missing", Options{}); err == nil {
		t.Error("missing file should fail")
	}
}

func TestExecuteInvalidDocument(t *testing.T) {
	r := NewRunner(fakeFetcher(), nil)
	if _, err := r.ExecuteReader(context.Background(), strings.NewReader(`{"not": "a list"}`), Options{}); err == nil {
		t.Error("non-array document should fail")
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRunner(fakeFetcher(), nil)
	_, err := r.ExecuteReader(ctx, strings.NewReader(deptreeJSON), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	h.events = append(h.events, e)
	h.mu.Unlock()
}

func (h *recordingHooks) OnBuildStart(context.Context, int) { h.add("build-start") }
func (h *recordingHooks) OnBuildComplete(context.Context, int, int, time.Duration) {
	h.add("build-complete")
}
func (h *recordingHooks) OnAnnotateStart(context.Context, int) { h.add("annotate-start") }
func (h *recordingHooks) OnAnnotateComplete(context.Context, int, int, time.Duration, error) {
	h.add("annotate-complete")
}
func (h *recordingHooks) OnAnalyzeComplete(context.Context, int, int, time.Duration) {
	h.add("analyze")
}

func TestExecuteEmitsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	r := NewRunner(fakeFetcher(), nil)
	result, err := r.ExecuteReader(context.Background(), strings.NewReader(deptreeJSON), Options{})
	if err != nil {
		t.Fatal(err)
	}
	r.Analyze(context.Background(), result.Graph, license.NewSet("GPL"))

	want := "build-start,build-complete,annotate-start,annotate-complete,analyze"
	if got := strings.Join(hooks.events, ","); got != want {
		t.Errorf("events = %s, want %s", got, want)
	}
}

func TestAnalyze(t *testing.T) {
	r := NewRunner(fakeFetcher(), nil)
	result, _ := r.ExecuteReader(context.Background(), strings.NewReader(deptreeJSON), Options{})

	res := r.Analyze(context.Background(), result.Graph, license.NewSet("GPL"))
	if strings.Join(res.Blacklisted, ",") != "readline==8.0" {
		t.Errorf("blacklisted = %v", res.Blacklisted)
	}
	if strings.Join(res.Dependents, ",") != "flask==3.0.0" {
		t.Errorf("dependents = %v", res.Dependents)
	}
}

func TestRender(t *testing.T) {
	r := NewRunner(fakeFetcher(), nil)
	ctx := context.Background()
	result, _ := r.ExecuteReader(ctx, strings.NewReader(deptreeJSON), Options{})
	res := r.Analyze(ctx, result.Graph, license.NewSet("GPL"))

	dot, err := r.Render(ctx, result.Graph, res, RenderOptions{Format: FormatDOT})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), `"readline==8.0" [label="readline==8.0", tooltip="GPL", fillcolor=red`) {
		t.Errorf("blacklisted node not highlighted:\n%s", dot)
	}

	hidden, err := r.Render(ctx, result.Graph, res, RenderOptions{Format: FormatJSON, HideBlacklisted: true})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(hidden), "readline") {
		t.Error("hidden node present in JSON output")
	}

	if _, err := r.Render(ctx, result.Graph, res, RenderOptions{Format: "png"}); err == nil {
		t.Error("unsupported format should fail")
	}
}
