package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"cvgen/internal"
	"cvgen/internal/config"
	"cvgen/internal/generation"
	"cvgen/internal/logutil"

	"github.com/spf13/cobra"
)

// ErrNoAgreement is returned when the user declines cleaning a non-empty output directory.
var ErrNoAgreement = errors.New("explicit agreement was not given")

func NewCLI() *cobra.Command {
	cfg := config.FromEnvironment()

	rootCmd := &cobra.Command{
		Use:   "cvgen",
		Short: "Generate Go operation wrappers from JavaCPP OpenCV declarations",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
			slog.SetDefault(logutil.NewLogger(cmd.ErrOrStderr(), logutil.Level(cfg.Debug)))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.Resources, "resources", cfg.Resources, "Directory holding the declaration sources")
	flags.StringVar(&cfg.Catalog, "catalog", cfg.Catalog, "Catalog file replacing the built-in catalog")
	flags.StringVar(&cfg.BindingModule, "binding-module", cfg.BindingModule, "Module path of the native binding packages")
	flags.StringVar(&cfg.OutputModule, "output-module", cfg.OutputModule, "Module path of the generated packages")
	flags.BoolVar(&cfg.Strict, "strict", cfg.Strict, "Fail on unmatched entries and ambiguous matches")
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Show additional debug information")
	internal.PanicOnError(rootCmd.MarkPersistentFlagDirname("resources"))
	internal.PanicOnError(rootCmd.MarkPersistentFlagFilename("catalog", "yaml", "yml"))

	cobra.EnableCommandSorting = false

	var clean, forceClean bool
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the operation packages and the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateHandler(cmd, cfg, clean || forceClean, forceClean)
		},
	}
	generateCmd.Flags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Directory the generated code is written to")
	generateCmd.Flags().BoolVar(&clean, "clean", false, "Remove the output directory before writing, after confirmation")
	generateCmd.Flags().BoolVar(&forceClean, "force-clean", false, "Remove the output directory before writing, without confirmation")
	internal.PanicOnError(generateCmd.MarkFlagDirname("output"))

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Show how the catalog entries matched the declarations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportHandler(cmd, cfg)
		},
	}

	envCmd := &cobra.Command{
		Use:   "env",
		Short: "Show the CVGEN_* environment variables in effect",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			envHandler(cmd.OutOrStdout(), cfg)
		},
	}

	rootCmd.AddCommand(
		generateCmd,
		reportCmd,
		envCmd,
	)

	return rootCmd
}

func generateHandler(cmd *cobra.Command, cfg config.Config, clean bool, silent bool) error {
	generator, err := cfg.Generator()
	if err != nil {
		return err
	}

	output, err := generator.GenerateAll()
	if err != nil {
		return err
	}

	if clean {
		err := ClearDirectoryIfNotEmpty(cfg.Output, silent, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	written, err := generation.WriteUnits(cmd.Context(), cfg.Output, output.Units)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d units, %d files written to %s.\n", len(output.Units), written, cfg.Output)
	for _, unmatched := range output.Unmatched {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s matched no declaration\n", unmatched)
	}
	for _, diagnostic := range output.Diagnostics {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", diagnostic)
	}

	return nil
}

func envHandler(w io.Writer, cfg config.Config) {
	vars := cfg.AsMap()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(w, "%s=%v\t%s\n", name, vars[name].Value, vars[name].Description)
	}
}

// Removes the directory when it holds anything. Asks the user first unless silent.
func ClearDirectoryIfNotEmpty(path string, silent bool, in io.Reader, out io.Writer) error {
	directory, err := os.Open(path)
	if err != nil {
		return err
	}
	defer directory.Close()

	_, err = directory.Readdirnames(1)
	if err == io.EOF {
		return nil
	}

	if err != nil {
		return err
	}

	var response string
	if !silent {
		fmt.Fprint(out, "Output directory is not empty. Continuation will result in removing all output files. Proceed? [Y/n] ")
		fmt.Fscan(in, &response)
		if strings.ToUpper(response) != "Y" {
			return ErrNoAgreement
		}
	}

	fmt.Fprintln(out, "Cleaning output directory.")
	return os.RemoveAll(path)
}
