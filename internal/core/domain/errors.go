package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidExtname is returned when a target extension does not start with a dot.
	ErrInvalidExtname = zerr.New("invalid target extname")

	// ErrDuplicateTargetOutput is returned when two targets resolve to the same extension and output directory.
	ErrDuplicateTargetOutput = zerr.New("targets resolve to the same output")

	// ErrInvalidPackageOverride is returned when a package override key does not name a package.json file.
	ErrInvalidPackageOverride = zerr.New("package overrides may only target package.json files")

	// ErrInvalidModuleType is returned when a target type hint is neither commonjs nor module.
	ErrInvalidModuleType = zerr.New("target type must be either commonjs or module")

	// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
	ErrConfigNotFound = zerr.New("could not find tsmulti config file")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidMaxWorkers is returned when maxWorkers is not a positive integer.
	ErrInvalidMaxWorkers = zerr.New("maxWorkers must be an integer greater than or equal to 1")

	// ErrEnvFileReadFailed is returned when the .env file exists but cannot be parsed.
	ErrEnvFileReadFailed = zerr.New("failed to read env file")

	// ErrProjectGlobFailed is returned when a project pattern is malformed.
	ErrProjectGlobFailed = zerr.New("failed to expand project pattern")

	// ErrWorkerSpawnFailed is returned when a worker process cannot be started.
	ErrWorkerSpawnFailed = zerr.New("failed to spawn worker")

	// ErrWorkerRequestEncode is returned when a build request cannot be serialized for a worker.
	ErrWorkerRequestEncode = zerr.New("failed to encode build request")

	// ErrWorkerRequestDecode is returned when a worker cannot decode the build request on stdin.
	ErrWorkerRequestDecode = zerr.New("failed to decode build request")

	// ErrCompilerNotFound is returned when the requested compiler cannot be resolved.
	ErrCompilerNotFound = zerr.New("cannot find compiler")

	// ErrTypeCheckFailed is returned when the external type checker cannot be run.
	ErrTypeCheckFailed = zerr.New("failed to run type checker")

	// ErrProjectAlreadyExists is returned when a project is added to the graph twice.
	ErrProjectAlreadyExists = zerr.New("project already exists")

	// ErrMissingProjectReference is returned when a project references a project that is not in the graph.
	ErrMissingProjectReference = zerr.New("missing project reference")

	// ErrProjectReferenceCycle is returned when project references form a cycle.
	ErrProjectReferenceCycle = zerr.New("project references form a cycle")

	// ErrStateReadFailed is returned when an incremental state file cannot be read.
	ErrStateReadFailed = zerr.New("failed to read build info")

	// ErrStateUnmarshalFailed is returned when an incremental state file cannot be decoded.
	ErrStateUnmarshalFailed = zerr.New("failed to unmarshal build info")

	// ErrStateMarshalFailed is returned when an incremental state file cannot be encoded.
	ErrStateMarshalFailed = zerr.New("failed to marshal build info")

	// ErrStateWriteFailed is returned when an incremental state file cannot be written.
	ErrStateWriteFailed = zerr.New("failed to write build info")

	// ErrOverrideReadFailed is returned when the file behind a package override cannot be read or decoded.
	ErrOverrideReadFailed = zerr.New("failed to read overridden package file")

	// ErrSourceMapRewriteFailed is returned when an emitted source map cannot be patched.
	ErrSourceMapRewriteFailed = zerr.New("failed to rewrite source map")

	// ErrWatcherFailed is returned when the file watcher cannot be started.
	ErrWatcherFailed = zerr.New("failed to start file watcher")

	// ErrFileHashFailed is returned when a source file cannot be hashed.
	ErrFileHashFailed = zerr.New("failed to hash file")

	// ErrBuildFailed is returned when at least one worker exits with a non-zero status.
	ErrBuildFailed = zerr.New("build failed")
)
