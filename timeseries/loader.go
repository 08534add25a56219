package timeseries

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadOptions holds options for loading phase records.
type LoadOptions struct {
	Tau0     float64 // Sampling interval in seconds (default: 1)
	Column   int     // Zero-based column holding phase (default: 0)
	Scale    float64 // Multiplier applied to every value, e.g. 1e-9 for ns (default: 1)
	Comments string  // Characters that start a comment line (default: "#%")
	SkipRows int     // Number of lines to skip at start
	MaxRows  int     // Keep at most this many samples; 0 keeps all
}

// DefaultLoadOptions returns default options for phase loading.
func DefaultLoadOptions() *LoadOptions {
	return &LoadOptions{
		Tau0:     1,
		Scale:    1,
		Comments: "#%",
	}
}

// LoadPhase loads a phase record from a text file. Files ending in ".gz"
// are decompressed transparently.
func LoadPhase(filename string, opts *LoadOptions) (*Series, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var r io.Reader = file
	if strings.HasSuffix(filename, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}

	s, err := LoadPhaseFromReader(r, opts)
	if err != nil {
		return nil, err
	}
	s.Name = filename
	return s, nil
}

// LoadPhaseFromReader loads a phase record from an io.Reader. Fields may be
// separated by whitespace, commas or semicolons. Lines that do not parse
// (headers, blanks) are skipped.
func LoadPhaseFromReader(r io.Reader, opts *LoadOptions) (*Series, error) {
	if opts == nil {
		opts = DefaultLoadOptions()
	}
	tau0 := opts.Tau0
	if tau0 == 0 {
		tau0 = 1
	}
	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	comments := opts.Comments
	if comments == "" {
		comments = "#%"
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var values []float64
	line := 0
	for scanner.Scan() {
		line++
		if line <= opts.SkipRows {
			continue
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.ContainsRune(comments, rune(text[0])) {
			continue
		}

		fields := strings.FieldsFunc(text, func(c rune) bool {
			return c == ' ' || c == '\t' || c == ',' || c == ';'
		})
		if opts.Column < 0 || opts.Column >= len(fields) {
			continue
		}

		val, err := strconv.ParseFloat(strings.Trim(fields[opts.Column], "\""), 64)
		if err != nil {
			continue // header or malformed row
		}
		values = append(values, val*scale)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(values) == 0 {
		return nil, errors.New("no valid phase data found")
	}

	s := New(values, tau0)
	if opts.MaxRows > 0 {
		s = s.Slice(0, opts.MaxRows)
	}
	return s, nil
}

// SavePhase writes one phase value per line.
func SavePhase(w io.Writer, series *Series) error {
	writer := bufio.NewWriter(w)
	for _, v := range series.Values {
		writer.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		writer.WriteString("\n")
	}
	return writer.Flush()
}

// SavePhaseFile writes the series to filename, one value per line.
func SavePhaseFile(series *Series, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := SavePhase(file, series); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
