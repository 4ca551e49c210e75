package domain

// Config is the loaded tsmulti configuration.
type Config struct {
	// Path is the config file that was read, empty when none was found.
	Path string
	// Dir is the directory project patterns of the file are relative to.
	Dir        string
	Projects   []string
	Targets    []Target
	Compiler   string
	MaxWorkers int
}
