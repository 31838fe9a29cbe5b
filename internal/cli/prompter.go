package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/packsmith/packsmith/internal/engine"
	"github.com/packsmith/packsmith/internal/model"
)

// Composer is the slice of the composition engine a scan session needs.
type Composer interface {
	AddScan(ctx context.Context, shipment *model.Shipment, rawToken string) (engine.Decision, error)
}

// ScanSession runs an interactive scan loop against a draft shipment.
// Each line of input is one scan token; an empty line or "done" ends
// the session.
type ScanSession struct {
	composer Composer
	reader   *ScanReader
	writer   io.Writer
}

// NewScanSession creates a scan session over the given input and output.
func NewScanSession(composer Composer, input io.Reader, output io.Writer) *ScanSession {
	return &ScanSession{
		composer: composer,
		reader:   NewScanReader(input),
		writer:   output,
	}
}

// Run reads scan tokens until the input ends or the context is canceled.
// It returns the total number of units admitted during the session.
func (s *ScanSession) Run(ctx context.Context, shipment *model.Shipment) (int, error) {
	fmt.Fprintln(s.writer, FormatTitle("Scanning into "+shipment.Name))
	fmt.Fprintln(s.writer, SubtleStyle.Render("Scan a barcode or type a SKU. Empty line or \"done\" to finish."))

	admitted := 0
	for {
		fmt.Fprint(s.writer, FormatPrompt(ScannerIcon+" scan"))

		line, err := s.reader.ReadLine(ctx)
		if errors.Is(err, ErrInputCancelled) || errors.Is(err, io.EOF) {
			fmt.Fprintln(s.writer)
			return admitted, nil
		}
		if err != nil {
			return admitted, fmt.Errorf("reading scan input: %w", err)
		}

		if line == "" || strings.EqualFold(line, "done") {
			return admitted, nil
		}

		d, err := s.composer.AddScan(ctx, shipment, line)
		s.report(line, d, err)
		if err == nil {
			admitted += d.Admitted
		}
	}
}

// report prints one styled line per scan outcome.
func (s *ScanSession) report(token string, d engine.Decision, err error) {
	switch {
	case err != nil && d.Reason != "":
		fmt.Fprintln(s.writer, FormatError(fmt.Sprintf("%s: %s", token, d.Reason)))
	case err != nil:
		fmt.Fprintln(s.writer, FormatError(fmt.Sprintf("%s: %v", token, err)))
	case d.Adjusted():
		fmt.Fprintln(s.writer, FormatWarning(fmt.Sprintf("%s: requested %d, added %d (%s)",
			token, d.Requested, d.Admitted, d.Reason)))
	default:
		fmt.Fprintln(s.writer, FormatSuccess(fmt.Sprintf("%s: added %d", token, d.Admitted)))
	}
}

// Confirm asks a yes/no question and reads the answer from input. Only an
// explicit "y" or "yes" counts as confirmation.
func Confirm(ctx context.Context, input io.Reader, output io.Writer, question string) (bool, error) {
	fmt.Fprint(output, FormatPrompt(question+" [y/N]"))

	line, err := NewScanReader(input).ReadLine(ctx)
	if errors.Is(err, ErrInputCancelled) || errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
