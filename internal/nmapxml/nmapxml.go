// Package nmapxml loads nmap XML documents into parsed scan runs.
// The XML grammar itself is owned by the nmap library; this package only
// handles locating the document and classifying load failures.
package nmapxml

import (
	"io"
	"os"

	"github.com/Ullaakut/nmap/v2"

	"github.com/anstrom/nmapflat/internal/errors"
)

// StdinSource is the input value that selects standard input.
const StdinSource = "-"

// StdinLabel is the source label used in diagnostics for stdin input.
const StdinLabel = "stdin"

// Load reads and parses an nmap XML document from the given source.
// A source of "-" reads from stdin; anything else is a file path.
// Any failure is fatal for the conversion; there are no partial results.
func Load(source string) (*nmap.Run, error) {
	if source == StdinSource {
		return Read(os.Stdin, StdinLabel)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrInputNotFound(source, err)
		}
		return nil, errors.WrapParseErrorWithSource(
			errors.CodeInputRead, "Failed to read input file", source, err)
	}

	return Parse(data, source)
}

// Read parses an nmap XML document from the given reader. The source label
// is used only in diagnostics.
func Read(r io.Reader, source string) (*nmap.Run, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapParseErrorWithSource(
			errors.CodeInputRead, "Failed to read input", source, err)
	}
	return Parse(data, source)
}

// Parse parses raw nmap XML content into a scan run.
func Parse(data []byte, source string) (*nmap.Run, error) {
	run, err := nmap.Parse(data)
	if err != nil {
		return nil, errors.ErrParseFailed(source, err)
	}
	return run, nil
}
