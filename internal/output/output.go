// Package output serializes flattened scan records. JSON output is the
// machine-readable contract; the table format exists for interactive use.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/tablewriter"

	"github.com/anstrom/nmapflat/internal/errors"
	"github.com/anstrom/nmapflat/internal/flatten"
)

// Format selects the serialization of the record sequence.
type Format string

const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// outFilePerm is the mode for created output files.
const outFilePerm = 0644

// ParseFormat validates an output format value. The empty string selects
// the JSON default.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatTable:
		return Format(s), nil
	case "":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("invalid output format %q (valid: json, table)", s)
}

// WriteJSON writes records to w as a JSON array with 2-space indentation.
func WriteJSON(w io.Writer, records []flatten.Record) error {
	// A nil slice must still encode as an empty array, not null.
	if records == nil {
		records = []flatten.Record{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return errors.WrapOutputError(errors.CodeOutputEncode, "Failed to encode records", err)
	}
	return nil
}

// SaveJSON writes records as an indented JSON array to a file. Records are
// marshaled before the file is touched, so an encoding failure leaves no
// partial output behind.
func SaveJSON(records []flatten.Record, path string) error {
	if records == nil {
		records = []flatten.Record{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.WrapOutputError(errors.CodeOutputEncode, "Failed to encode records", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, outFilePerm); err != nil {
		return errors.ErrOutputWrite(path, err)
	}
	return nil
}

// RenderTable displays records in a table format on w.
func RenderTable(w io.Writer, records []flatten.Record) error {
	table := tablewriter.NewWriter(w)
	table.Header("FQDN", "IP", "Port", "Status", "Service", "Version")

	for i := range records {
		rec := &records[i]
		if err := table.Append([]string{
			rec.FQDN,
			rec.IP,
			rec.Port,
			rec.PortStatus,
			rec.Service,
			rec.ServiceDetails["combined_info"],
		}); err != nil {
			return errors.WrapOutputError(errors.CodeOutputWrite, "Failed to build table", err)
		}
	}

	if err := table.Render(); err != nil {
		return errors.WrapOutputError(errors.CodeOutputWrite, "Failed to render table", err)
	}
	return nil
}
