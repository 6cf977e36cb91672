// Package session holds analysed dependency graphs between requests.
//
// A [Session] owns one annotated graph. Queries against it (license counts,
// blacklist analysis, rendering) never mutate the graph: [Session.Graph]
// returns a copy, and the only way to change what a session holds is
// [Session.Replace], which bumps the session's version.
//
// Sessions are persisted through the [Store] interface, with implementations
// for different backends:
//   - memory: in-process storage for tests and single-shot servers
//   - file: JSON files for the CLI and single-instance deployments
//   - mongo: MongoDB collection for multi-instance deployments
//
// # Usage
//
//	res, err := runner.ExecuteFile(ctx, "pipdeptree.json", pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	sess := session.New("my-env", res.Graph)
//	if err := store.Put(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err = store.Get(ctx, id)
//	if errors.Is(err, session.ErrNotFound) {
//	    // unknown or deleted session
//	}
//	result := sess.Analyze(license.NewSet("GPL"))
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/licensetower/pkg/analysis"
	"github.com/matzehuels/licensetower/pkg/dag"
	graphio "github.com/matzehuels/licensetower/pkg/io"
	"github.com/matzehuels/licensetower/pkg/license"
)

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("session not found")

// Session is one analysed environment. It is safe for concurrent use.
type Session struct {
	ID        string
	Name      string
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time

	mu    sync.RWMutex
	graph *dag.DAG
}

// New creates a session holding a copy of g. A nil g yields an empty graph.
func New(name string, g *dag.DAG) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		Name:      name,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
		graph:     cloneOrEmpty(g),
	}
}

// Graph returns a copy of the session's graph.
func (s *Session) Graph() *dag.DAG {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.Clone()
}

// Replace swaps in a copy of g and bumps the version.
func (s *Session) Replace(g *dag.DAG) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph = cloneOrEmpty(g)
	s.Version++
	s.UpdatedAt = time.Now().UTC()
}

// LicenseCounts returns how many packages carry each license.
func (s *Session) LicenseCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return license.Counts(s.graph)
}

// Analyze runs blacklist analysis over the session's graph.
func (s *Session) Analyze(blacklist license.Set, opts ...analysis.Option) analysis.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return analysis.Analyze(s.graph, blacklist, opts...)
}

// Info returns the session's metadata without its graph.
func (s *Session) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.infoLocked()
}

func (s *Session) infoLocked() Info {
	return Info{
		ID:        s.ID,
		Name:      s.Name,
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		NodeCount: s.graph.NodeCount(),
		EdgeCount: s.graph.EdgeCount(),
	}
}

// Info summarizes a stored session. It is what [Store.List] returns.
type Info struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Version   int       `json:"version" bson:"version"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
	NodeCount int       `json:"node_count" bson:"node_count"`
	EdgeCount int       `json:"edge_count" bson:"edge_count"`
}

// record is the persisted form shared by all stores.
type record struct {
	Info  `bson:",inline"`
	Graph graphio.Document `json:"graph" bson:"graph"`
}

func (s *Session) record() record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return record{Info: s.infoLocked(), Graph: graphio.FromDAG(s.graph)}
}

func (r record) session() (*Session, error) {
	g, err := graphio.ToDAG(r.Graph)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", r.ID, err)
	}
	return &Session{
		ID:        r.ID,
		Name:      r.Name,
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		graph:     g,
	}, nil
}

// MarshalJSON encodes the session with its graph in the [graphio.Document]
// layout.
func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.record())
}

// UnmarshalJSON decodes a session written by [Session.MarshalJSON].
func (s *Session) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	decoded, err := r.session()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ID, s.Name, s.Version = decoded.ID, decoded.Name, decoded.Version
	s.CreatedAt, s.UpdatedAt = decoded.CreatedAt, decoded.UpdatedAt
	s.graph = decoded.graph
	return nil
}

// Store is the interface for session storage backends.
//
// Stores keep snapshots: a session changed after Put is not visible through
// Get until it is Put again.
type Store interface {
	// Get retrieves a session by ID. Returns ErrNotFound if it doesn't exist.
	Get(ctx context.Context, id string) (*Session, error)

	// Put creates or overwrites a session.
	Put(ctx context.Context, sess *Session) error

	// Delete removes a session. Returns ErrNotFound if it doesn't exist.
	Delete(ctx context.Context, id string) error

	// List returns all sessions ordered by creation time.
	List(ctx context.Context) ([]Info, error)

	// Close releases resources held by the store.
	Close() error
}

func cloneOrEmpty(g *dag.DAG) *dag.DAG {
	if g == nil {
		return dag.New()
	}
	return g.Clone()
}
