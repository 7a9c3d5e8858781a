package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"golang.org/x/sync/errgroup"

	"metajs/pkg/driver"
)

var version = "dev"

// report is the per-file output of the run command.
type report struct {
	File    string              `json:"file" cbor:"file"`
	Name    string              `json:"name" cbor:"name"`
	Results []driver.StepResult `json:"results" cbor:"results"`
	Error   string              `json:"error,omitempty" cbor:"error,omitempty"`
}

func main() {
	root := &cobra.Command{
		Use:           "metajs",
		Short:         "Prototype object runtime scenario runner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCommand(), newVersionCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the metajs version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "metajs %s\n", version)
		},
	}
}

func newRunCommand() *cobra.Command {
	var (
		configPath string
		format     string
		jobs       int
		verbose    int
	)

	cmd := &cobra.Command{
		Use:   "run [flags] <scenario-files>...",
		Short: "Run YAML scenarios, one isolated realm per file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "cbor" {
				return fmt.Errorf("unknown output format %q (want json or cbor)", format)
			}
			cfg, err := driver.LoadConfig(configPath)
			if err != nil {
				return err
			}

			verbosity := cfg.Log.Verbosity
			if verbose > 0 {
				verbosity = verbose
			}
			var logPath *string
			if cfg.Log.File != "" {
				logPath = &cfg.Log.File
			}
			commonlog.Configure(verbosity, logPath)

			reports, runErr := runScenarios(cfg, args, jobs)
			if err := writeReports(cmd.OutOrStdout(), format, reports); err != nil {
				return err
			}
			return runErr
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a metajs.toml configuration file")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or cbor")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 4, "maximum number of scenarios run concurrently")
	cmd.Flags().CountVarP(&verbose, "verbose", "v", "increase log verbosity (overrides the config file)")

	return cmd
}

// runScenarios runs every file in its own session. All reports are
// returned; the error is the first failure encountered.
func runScenarios(cfg *driver.Config, files []string, jobs int) ([]report, error) {
	reports := make([]report, len(files))

	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			reports[i].File = file
			err := runScenario(cfg, file, &reports[i])
			if err != nil {
				reports[i].Error = err.Error()
			}
			return err
		})
	}
	return reports, g.Wait()
}

func runScenario(cfg *driver.Config, file string, r *report) error {
	sc, err := driver.LoadScenario(file)
	if err != nil {
		return err
	}
	r.Name = sc.Name

	session, err := driver.NewSession(cfg)
	if err != nil {
		return err
	}
	r.Results, err = session.RunScenario(sc)
	return err
}

func writeReports(w io.Writer, format string, reports []report) error {
	if format == "cbor" {
		data, err := cbor.Marshal(reports)
		if err != nil {
			return fmt.Errorf("cbor encoding failed: %w", err)
		}
		_, err = w.Write(data)
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}
