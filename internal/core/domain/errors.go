package domain

import "go.trai.ch/zerr"

var (
	// ErrMissingCacheRoot is returned when a plan has no cache root.
	ErrMissingCacheRoot = zerr.New("no cache root configured")

	// ErrInvalidRepository is returned when a repository entry is missing a name or URL.
	ErrInvalidRepository = zerr.New("repository needs a name and a url")

	// ErrDuplicateRepository is returned when two repositories share a name.
	ErrDuplicateRepository = zerr.New("duplicate repository")

	// ErrInvalidStageName is returned when a stage has no name.
	ErrInvalidStageName = zerr.New("stage needs a name")

	// ErrDuplicateStage is returned when two stages share a name.
	ErrDuplicateStage = zerr.New("duplicate stage")

	// ErrUnknownRepository is returned when a stage references a repository the plan does not declare.
	ErrUnknownRepository = zerr.New("stage references unknown repository")

	// ErrEmptyCommand is returned when a stage declares a command with no argv.
	ErrEmptyCommand = zerr.New("empty command")

	// ErrStageNotFound is returned when a requested stage is not in the plan.
	ErrStageNotFound = zerr.New("stage not found")

	// ErrCacheRootCreateFailed is returned when the cache root directory cannot be created.
	ErrCacheRootCreateFailed = zerr.New("failed to create cache root")

	// ErrCloneFailed is returned when cloning a repository fails.
	ErrCloneFailed = zerr.New("failed to clone repository")

	// ErrUpdateFailed is returned when refreshing a source tree fails.
	ErrUpdateFailed = zerr.New("failed to update repository")

	// ErrStageExecutionFailed is returned when a stage command exits non-zero.
	ErrStageExecutionFailed = zerr.New("stage execution failed")

	// ErrBootstrapFailed is returned when the bootstrap run as a whole fails.
	ErrBootstrapFailed = zerr.New("bootstrap failed")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrManifestCreateFailed is returned when the manifest directory cannot be created.
	ErrManifestCreateFailed = zerr.New("failed to create manifest directory")

	// ErrManifestReadFailed is returned when a manifest entry cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest entry")

	// ErrManifestUnmarshalFailed is returned when a manifest entry cannot be unmarshaled.
	ErrManifestUnmarshalFailed = zerr.New("failed to unmarshal manifest entry")

	// ErrManifestMarshalFailed is returned when a manifest entry cannot be marshaled.
	ErrManifestMarshalFailed = zerr.New("failed to marshal manifest entry")

	// ErrManifestWriteFailed is returned when a manifest entry cannot be written.
	ErrManifestWriteFailed = zerr.New("failed to write manifest entry")
)
