package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/licensetower/pkg/config"
	graphio "github.com/matzehuels/licensetower/pkg/io"
	"github.com/matzehuels/licensetower/pkg/pipeline"
	"github.com/matzehuels/licensetower/pkg/server"
	"github.com/matzehuels/licensetower/pkg/session"
)

// Session store kinds for --store.
const (
	storeMemory = "memory"
	storeFile   = "file"
	storeMongo  = "mongo"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string
	store     string
	seeds     []string
	noCache   bool
	rootLabel string
	maxUpload int64
}

// serveCommand creates the serve command, which runs the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve uploaded environments over HTTP",
		Long: `Serve uploaded environments over HTTP.

Sessions are kept in memory unless the config names a session directory
(file store) or a MongoDB URI (mongo store); --store overrides the choice.
Graph files passed with --seed are loaded as sessions at startup.

Examples:
  licensetower serve --addr :8080
  licensetower serve --seed example.graph.json
  curl --data-binary @deps.json 'localhost:8080/sessions?name=deps'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.store, "store", "", "session store: memory, file, mongo (default from config)")
	cmd.Flags().StringArrayVar(&opts.seeds, "seed", nil, "graph file to preload as a session (repeatable)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the license cache")
	cmd.Flags().StringVar(&opts.rootLabel, "root-label", "", "label of the root node in rendered graphs")
	cmd.Flags().Int64Var(&opts.maxUpload, "max-upload", server.DefaultMaxUploadBytes, "maximum upload size in bytes")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg, opts.store)
	if err != nil {
		return err
	}
	defer store.Close()
	if _, ok := store.(*session.MemoryStore); ok {
		printWarning("Sessions are kept in memory and lost on exit")
	}

	for _, path := range opts.seeds {
		id, err := seedSession(ctx, store, path)
		if err != nil {
			return fmt.Errorf("seed %s: %w", path, err)
		}
		logger.Info("seeded session", "id", id, "file", path)
	}

	runner, backend := c.newRunner(ctx, cfg, opts.noCache)
	defer backend.Close()

	srv := server.New(runner, store, logger, server.Config{
		MaxUploadBytes: opts.maxUpload,
		RootLabel:      opts.rootLabel,
		Pipeline:       pipelineOptions(cfg, pipeline.Options{}),
	})

	addr := opts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	return srv.ListenAndServe(ctx, addr)
}

// openStore picks the session store. An explicit kind wins; otherwise a
// configured MongoDB URI selects mongo and a session directory selects file.
func openStore(ctx context.Context, cfg *config.Config, kind string) (session.Store, error) {
	if kind == "" {
		switch {
		case cfg.Server.MongoURI != "":
			kind = storeMongo
		case cfg.Server.SessionDir != "":
			kind = storeFile
		default:
			kind = storeMemory
		}
	}

	switch kind {
	case storeMemory:
		return session.NewMemoryStore(), nil
	case storeFile:
		fs, err := session.NewFileStore(cfg.Server.SessionDir)
		if err != nil {
			return nil, err
		}
		return fs, nil
	case storeMongo:
		if cfg.Server.MongoURI == "" {
			return nil, fmt.Errorf("mongo store needs server.mongo_uri in the config")
		}
		ms, err := session.NewMongoStore(ctx, cfg.Server.MongoURI, cfg.Server.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		return ms, nil
	default:
		return nil, fmt.Errorf("unknown session store %q (must be one of: memory, file, mongo)", kind)
	}
}

// seedSession stores the graph file at path as a new session named after the
// file.
func seedSession(ctx context.Context, store session.Store, path string) (string, error) {
	g, err := graphio.ImportJSON(path)
	if err != nil {
		return "", err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sess := session.New(name, g)
	if err := store.Put(ctx, sess); err != nil {
		return "", err
	}
	return sess.ID, nil
}
