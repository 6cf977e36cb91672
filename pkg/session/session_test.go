package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/licensetower/pkg/dag"
	"github.com/matzehuels/licensetower/pkg/license"
)

func sampleGraph(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New()
	for _, n := range []dag.Node{
		{ID: "ROOT"},
		{ID: "a==1", Licenses: []string{"MIT"}},
		{ID: "b==1", Licenses: []string{"GPL"}},
	} {
		_, err := g.AddNode(n)
		require.NoError(t, err)
	}
	require.NoError(t, g.AddEdge(dag.Edge{From: "ROOT", To: "a==1"}))
	require.NoError(t, g.AddEdge(dag.Edge{From: "a==1", To: "b==1"}))
	return g
}

func TestNew(t *testing.T) {
	g := sampleGraph(t)
	sess := New("env", g)

	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "env", sess.Name)
	assert.Equal(t, 1, sess.Version)
	assert.Equal(t, 3, sess.Graph().NodeCount())

	// later changes to the caller's graph are not visible
	_, _ = g.AddNode(dag.Node{ID: "c==1"})
	assert.Equal(t, 3, sess.Graph().NodeCount())

	assert.NotEqual(t, sess.ID, New("env", g).ID)
}

func TestGraphReturnsCopy(t *testing.T) {
	sess := New("env", sampleGraph(t))

	g := sess.Graph()
	require.NoError(t, g.SetLicenses("a==1", []string{"GPL"}))
	_, _ = g.AddNode(dag.Node{ID: "x==1"})

	fresh := sess.Graph()
	n, ok := fresh.Node("a==1")
	require.True(t, ok)
	assert.Equal(t, []string{"MIT"}, n.Licenses)
	assert.False(t, fresh.HasNode("x==1"))
}

func TestReplace(t *testing.T) {
	sess := New("env", sampleGraph(t))
	before := sess.UpdatedAt

	sess.Replace(dag.New())
	assert.Equal(t, 2, sess.Version)
	assert.Equal(t, 0, sess.Graph().NodeCount())
	assert.False(t, sess.UpdatedAt.Before(before))

	sess.Replace(nil)
	assert.Equal(t, 3, sess.Version)
}

func TestQueries(t *testing.T) {
	sess := New("env", sampleGraph(t))

	assert.Equal(t, map[string]int{"MIT": 1, "GPL": 1}, sess.LicenseCounts())

	res := sess.Analyze(license.NewSet("GPL"))
	assert.Equal(t, []string{"b==1"}, res.Blacklisted)
	assert.Equal(t, []string{"a==1"}, res.Dependents)

	info := sess.Info()
	assert.Equal(t, 3, info.NodeCount)
	assert.Equal(t, 2, info.EdgeCount)
}

func TestJSONRoundTrip(t *testing.T) {
	sess := New("env", sampleGraph(t))

	data, err := json.Marshal(sess)
	require.NoError(t, err)

	var decoded Session
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sess.ID, decoded.ID)
	assert.Equal(t, sess.Name, decoded.Name)
	assert.True(t, sess.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, sess.Graph().Edges(), decoded.Graph().Edges())
}

func TestJSONRejectsBrokenGraph(t *testing.T) {
	data := `{"id":"x","graph":{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"missing"}]}}`
	var s Session
	assert.ErrorIs(t, json.Unmarshal([]byte(data), &s), dag.ErrUnknownNode)
}

func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "missing"), ErrNotFound)

	first := New("first", sampleGraph(t))
	second := New("second", dag.New())
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	require.NoError(t, store.Put(ctx, first))
	require.NoError(t, store.Put(ctx, second))

	got, err := store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Name)
	assert.Equal(t, first.LicenseCounts(), got.LicenseCounts())

	// stored copies are snapshots
	first.Replace(dag.New())
	got, err = store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, 3, got.Graph().NodeCount())

	require.NoError(t, store.Put(ctx, first))
	got, err = store.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Version)

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, first.ID, infos[0].ID)
	assert.Equal(t, second.ID, infos[1].ID)

	require.NoError(t, store.Delete(ctx, second.ID))
	_, err = store.Get(ctx, second.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	infos, err = store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	testStore(t, store)
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	defer store.Close()
	testStore(t, store)
}

func TestFileStore_PathTraversal(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, id := range []string{"", "..", "../x", `a\b`} {
		_, err := store.Get(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound, id)
	}

	sess := New("bad", nil)
	sess.ID = "../escape"
	assert.Error(t, store.Put(ctx, sess))
}

func TestFileStore_SkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, New("ok", nil)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0600))

	infos, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 1)

	_, err = store.Get(ctx, "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
