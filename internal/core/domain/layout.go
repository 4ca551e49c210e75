package domain

const (
	// ConfigFileYAML is the preferred name of the tsmulti configuration file.
	ConfigFileYAML = "tsmulti.yaml"

	// ConfigFileYML is the alternative YAML spelling of the configuration file.
	ConfigFileYML = "tsmulti.yml"

	// ConfigFileJSON is the JSON spelling of the configuration file.
	ConfigFileJSON = "tsmulti.json"

	// EnvFileName is the dotenv file consulted for TSMULTI_* overrides.
	EnvFileName = ".env"

	// TSConfigFileName is the project descriptor looked up inside project directories.
	TSConfigFileName = "tsconfig.json"

	// PackageJSONFileName is the only file name package overrides may target.
	PackageJSONFileName = "package.json"

	// BuildInfoExt is the extension of incremental state files.
	BuildInfoExt = ".tsbuildinfo"

	// WorkerCommand is the hidden subcommand a worker process is started with.
	WorkerCommand = "worker"

	// DefaultCompiler is the compiler loaded when none is configured.
	DefaultCompiler = "typescript"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// ConfigFileNames lists the configuration file names in lookup order.
func ConfigFileNames() []string {
	return []string{ConfigFileYAML, ConfigFileYML, ConfigFileJSON}
}
