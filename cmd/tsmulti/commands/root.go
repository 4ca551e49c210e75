// Package commands implements the CLI commands for tsmulti.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/tsmulti/internal/adapters/detector"
	"go.trai.ch/tsmulti/internal/app"
	"go.trai.ch/tsmulti/internal/build"
	"go.trai.ch/tsmulti/internal/core/domain"
)

// CLI represents the command line interface for tsmulti.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	stdin   io.Reader
	// color reports whether diagnostics should be colorized.
	color func() bool
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.BuildOptions) error
	RunWorker(ctx context.Context, stdin io.Reader, stdout io.Writer) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{
		app:   a,
		stdin: os.Stdin,
		color: func() bool { return detector.ColorEnabled(os.Stdout) },
	}

	rootCmd := &cobra.Command{
		Use:           "tsmulti [projects...]",
		Short:         "Compile a TypeScript project into multiple targets",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		RunE:          c.runBuild,
	}

	flags := rootCmd.Flags()
	flags.BoolP("watch", "w", false, "Watch input files and rebuild on change")
	flags.Bool("clean", false, "Delete the outputs of all projects")
	flags.BoolP("dry", "d", false, "Show what would be built without writing anything")
	flags.BoolP("force", "f", false, "Build all projects, including those that appear to be up to date")
	flags.BoolP("verbose", "v", false, "Enable verbose logging")
	flags.String("cwd", "", "Working directory (default: current directory)")
	flags.StringP("config", "c", "", "Path to the config file")
	flags.String("compiler", "", "Compiler to load (typescript, esbuild or a path)")
	flags.Int("maxWorkers", 0, "Maximum number of concurrent workers")

	// -v belongs to --verbose, so the version flag is added after it.
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c.rootCmd = rootCmd
	rootCmd.AddCommand(c.newWorkerCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) runBuild(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	watch, _ := flags.GetBool("watch")
	clean, _ := flags.GetBool("clean")
	dry, _ := flags.GetBool("dry")
	force, _ := flags.GetBool("force")
	verbose, _ := flags.GetBool("verbose")
	cwd, _ := flags.GetString("cwd")
	configPath, _ := flags.GetString("config")
	compiler, _ := flags.GetString("compiler")
	maxWorkers, _ := flags.GetInt("maxWorkers")

	if flags.Changed("maxWorkers") && maxWorkers < 1 {
		return domain.ErrInvalidMaxWorkers
	}

	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		cwd = wd
	}

	return c.app.Build(cmd.Context(), app.BuildOptions{
		Cwd:        cwd,
		ConfigPath: configPath,
		Compiler:   compiler,
		MaxWorkers: maxWorkers,
		Projects:   args,
		Color:      c.color(),
		Flags: domain.BuildFlags{
			Watch:   watch,
			Clean:   clean,
			Dry:     dry,
			Force:   force,
			Verbose: verbose,
		},
	})
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// SetInput sets the stream worker requests are read from. Used for testing.
func (c *CLI) SetInput(in io.Reader) {
	c.stdin = in
}

// SetColor overrides color detection. Used for testing.
func (c *CLI) SetColor(enabled bool) {
	c.color = func() bool { return enabled }
}
