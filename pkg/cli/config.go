package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/edumentor/pkg/adapter"
	"github.com/m-mizutani/edumentor/pkg/policy"
	"github.com/m-mizutani/edumentor/pkg/repository"
	"github.com/m-mizutani/edumentor/pkg/store"
	"github.com/m-mizutani/edumentor/pkg/usecase/tutor"
	"github.com/m-mizutani/edumentor/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

const (
	storeFile      = "file"
	storeSQLite    = "sqlite"
	storeFirestore = "firestore"
	storeGCS       = "gcs"
	storeMemory    = "memory"
)

// config holds configuration values
type config struct {
	// Store
	storeBackend string
	dataDir      string
	project      string
	database     string
	collection   string
	bucket       string
	prefix       string
	credentials  string

	// Misc
	logLevel  string
	policyDir string

	// Adapters
	geminiAPIKey   string
	geminiProject  string
	geminiLocation string
	geminiModel    string
	geminiEndpoint string
	structured     bool
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".edumentor"
	}
	return filepath.Join(dir, "edumentor")
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "store",
			Usage:       "Storage backend of history and saved topics (file, sqlite, firestore, gcs, memory)",
			Value:       storeFile,
			Sources:     cli.EnvVars("EDUMENTOR_STORE"),
			Destination: &cfg.storeBackend,
		},
		&cli.StringFlag{
			Name:        "data-dir",
			Usage:       "Directory for the file and sqlite backends",
			Value:       defaultDataDir(),
			Sources:     cli.EnvVars("EDUMENTOR_DATA_DIR"),
			Destination: &cfg.dataDir,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID for the firestore backend",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "collection",
			Usage:       "Firestore collection of the slots",
			Value:       repository.DefaultCollection,
			Sources:     cli.EnvVars("EDUMENTOR_FIRESTORE_COLLECTION"),
			Destination: &cfg.collection,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Usage:       "Cloud Storage bucket for the gcs backend",
			Sources:     cli.EnvVars("EDUMENTOR_BUCKET"),
			Destination: &cfg.bucket,
		},
		&cli.StringFlag{
			Name:        "prefix",
			Usage:       "Object prefix for the gcs backend",
			Value:       "edumentor",
			Sources:     cli.EnvVars("EDUMENTOR_BUCKET_PREFIX"),
			Destination: &cfg.prefix,
		},
		&cli.StringFlag{
			Name:        "credentials",
			Usage:       "Path to a Google Cloud credentials JSON file",
			Sources:     cli.EnvVars("EDUMENTOR_CREDENTIALS"),
			Destination: &cfg.credentials,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "warn",
			Sources:     cli.EnvVars("EDUMENTOR_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// llmFlags returns flags for LLM-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key",
			Sources:     cli.EnvVars("GEMINI_API_KEY"),
			Destination: &cfg.geminiAPIKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini on Vertex AI, used when no API key is set",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model name",
			Value:       adapter.DefaultGenerativeModel,
			Sources:     cli.EnvVars("GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
		&cli.StringFlag{
			Name:        "gemini-endpoint",
			Usage:       "Override the Gemini API endpoint",
			Sources:     cli.EnvVars("GEMINI_ENDPOINT"),
			Destination: &cfg.geminiEndpoint,
		},
		&cli.BoolFlag{
			Name:        "structured-output",
			Usage:       "Constrain model output with the response JSON schema",
			Sources:     cli.EnvVars("EDUMENTOR_STRUCTURED_OUTPUT"),
			Destination: &cfg.structured,
		},
		&cli.StringFlag{
			Name:        "policy-dir",
			Usage:       "Directory of Rego policies filtering recommended resources",
			Sources:     cli.EnvVars("EDUMENTOR_POLICY_DIR"),
			Destination: &cfg.policyDir,
		},
	}
}

// logger installs the configured logger into ctx. An unknown level fails
// the command before any output is written.
func (cfg *config) logger(ctx context.Context) (context.Context, error) {
	level, err := logging.ParseLevel(cfg.logLevel)
	if err != nil {
		return ctx, err
	}

	logger := logging.New(level, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger), nil
}

func (cfg *config) clientOptions() []option.ClientOption {
	if cfg.credentials == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(cfg.credentials)}
}

// newRepository creates the slot repository of the selected backend
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	switch cfg.storeBackend {
	case storeFile:
		return repository.NewFile(cfg.dataDir)

	case storeSQLite:
		if err := os.MkdirAll(cfg.dataDir, 0o700); err != nil {
			return nil, goerr.Wrap(err, "failed to create data directory", goerr.V("dir", cfg.dataDir))
		}
		return repository.NewSQLite(ctx, filepath.Join(cfg.dataDir, "edumentor.db"))

	case storeFirestore:
		if cfg.project == "" {
			return nil, goerr.New("project is required for the firestore backend")
		}
		if cfg.database == "" {
			return nil, goerr.New("database is required for the firestore backend")
		}
		return repository.NewFirestore(ctx, cfg.project, cfg.database, cfg.collection, cfg.clientOptions()...)

	case storeGCS:
		st, err := cfg.newStorage(ctx)
		if err != nil {
			return nil, err
		}
		return repository.NewCloudStorage(st, cfg.prefix), nil

	case storeMemory:
		return repository.NewMemory(), nil

	default:
		return nil, goerr.New("unknown store backend", goerr.V("store", cfg.storeBackend))
	}
}

// newStorage creates a new Storage adapter instance
func (cfg *config) newStorage(ctx context.Context) (adapter.Storage, error) {
	if cfg.bucket == "" {
		return nil, goerr.New("bucket is required for the gcs backend")
	}

	storage, err := adapter.NewStorage(ctx, cfg.bucket, cfg.clientOptions()...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}

// newStore opens the repository and loads the collections
func (cfg *config) newStore(ctx context.Context) (*store.Store, error) {
	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, err
	}

	st := store.New(repo)
	if err := st.Initialize(ctx); err != nil {
		return nil, goerr.Wrap(err, "failed to initialize store")
	}
	return st, nil
}

// newGemini creates a new Gemini adapter instance. An API key selects the
// Gemini API, otherwise Vertex AI is used.
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	opts := []adapter.GeminiOption{adapter.WithGenerativeModel(cfg.geminiModel)}
	if cfg.geminiEndpoint != "" {
		opts = append(opts, adapter.WithBaseURL(cfg.geminiEndpoint))
	}

	if cfg.geminiAPIKey != "" {
		client, err := adapter.NewGemini(ctx, cfg.geminiAPIKey, opts...)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	if cfg.geminiProject == "" {
		return nil, goerr.New("gemini-api-key or gemini-project is required")
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}
	client, err := adapter.NewVertexGemini(ctx, cfg.geminiProject, cfg.geminiLocation, opts...)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// newTutor wires the tutor use case with terminal feedback
func (cfg *config) newTutor(ctx context.Context, st *store.Store) (*tutor.UseCase, error) {
	gemini, err := cfg.newGemini(ctx)
	if err != nil {
		return nil, err
	}

	engine, err := policy.New(ctx, cfg.policyDir)
	if err != nil {
		return nil, err
	}

	return tutor.New(gemini, st,
		tutor.WithNotifier(newNotifier(os.Stderr)),
		tutor.WithPending(newSpinner(os.Stderr)),
		tutor.WithPolicy(engine),
		tutor.WithStructuredOutput(cfg.structured),
	), nil
}

// closeStore tears the store down, logging a failure
func closeStore(ctx context.Context, st *store.Store) {
	if err := st.Teardown(ctx); err != nil {
		logging.From(ctx).Warn("failed to close store", "error", err)
	}
}
