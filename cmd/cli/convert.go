package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apperrors "github.com/anstrom/nmapflat/internal/errors"
	"github.com/anstrom/nmapflat/internal/flatten"
	"github.com/anstrom/nmapflat/internal/logging"
	"github.com/anstrom/nmapflat/internal/nmapxml"
	"github.com/anstrom/nmapflat/internal/output"
)

var (
	convertInput  string
	convertOutput string
	convertStatus string
	convertFormat string
)

// convertCmd represents the convert command.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert nmap XML output to flat records",
	Long: `Convert an nmap XML document into a flat list of per-port records.
Each record carries the host's first ipv4 address and hostname, the port
in PROTOCOL/ID form, its state, and any service and script details nmap
reported. Records can be filtered by port status and written as JSON
(the default) or as a table.`,
	Example: `  nmapflat convert -i scan.xml
  nmapflat convert -i scan.xml -o scan.json
  nmapflat convert -i scan.xml -s open
  cat scan.xml | nmapflat convert -i - --format table`,
	Run: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertInput, "input", "i", "", "Input nmap XML file ('-' reads stdin)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output file (default: stdout)")
	convertCmd.Flags().StringVarP(&convertStatus, "status", "s", "",
		"Filter by port status: all, open, closed, filtered")
	convertCmd.Flags().StringVar(&convertFormat, "format", "", "Output format: json, table")

	if err := convertCmd.MarkFlagRequired("input"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to mark input flag required: %v\n", err)
	}
}

func runConvert(_ *cobra.Command, _ []string) {
	opts := convertOptions{
		input:  convertInput,
		output: convertOutput,
		status: convertStatus,
		format: convertFormat,
	}

	if err := executeConvert(opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// convertOptions holds the resolved inputs of one conversion run.
type convertOptions struct {
	input  string
	output string
	status string
	format string
}

// executeConvert runs one conversion: load, transform, write. Any error is
// fatal for the whole run; nothing is emitted on failure.
func executeConvert(opts convertOptions, stdout io.Writer) error {
	// Fall back to configured defaults for unset flags.
	if opts.status == "" {
		opts.status = viper.GetString("convert.default_status")
	}
	if opts.format == "" {
		opts.format = viper.GetString("convert.default_format")
	}

	filter, err := flatten.ParseStatusFilter(opts.status)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	log := logging.Default().WithComponent("convert").WithRunID(uuid.New().String())
	log.InfoConvert("Starting conversion", opts.input, "status", filter.String(), "format", string(format))

	run, err := nmapxml.Load(opts.input)
	if err != nil {
		log.ErrorConvert("Failed to load input document", opts.input, err)
		return err
	}

	records := flatten.Transform(run, filter)
	log.InfoConvert("Transformation complete", opts.input,
		"hosts", len(run.Hosts), "records", len(records))

	if err := writeRecords(records, format, opts.output, stdout); err != nil {
		log.ErrorOutput("Failed to write results", destinationLabel(opts.output), err)
		return err
	}

	log.InfoOutput("Results written", destinationLabel(opts.output), "records", len(records))
	return nil
}

// writeRecords serializes records in the requested format to a file or to
// the default output stream.
func writeRecords(records []flatten.Record, format output.Format, destination string, stdout io.Writer) error {
	if format == output.FormatTable {
		w := stdout
		if destination != "" {
			file, err := os.Create(destination)
			if err != nil {
				return apperrors.ErrOutputWrite(destination, err)
			}
			defer file.Close()
			w = file
		}
		return output.RenderTable(w, records)
	}

	if destination != "" {
		return output.SaveJSON(records, destination)
	}
	return output.WriteJSON(stdout, records)
}

// destinationLabel names the output destination in diagnostics.
func destinationLabel(destination string) string {
	if destination == "" {
		return "stdout"
	}
	return destination
}
