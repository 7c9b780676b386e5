package engine

import (
	"context"

	"github.com/jaa/id3fix/internal/report"
)

// ConfirmFunc asks the operator whether a file's corrections should be
// written. Returning a context error aborts the run.
type ConfirmFunc func(ctx context.Context, file report.File) (bool, error)

type ScanOptions struct {
	Paths []string
	// Interactive applies each record after confirmation instead of
	// collecting it into the report document.
	Interactive bool
	DryRun      bool
	Confirm     ConfirmFunc
}

type ApplyOptions struct {
	Interactive bool
	DryRun      bool
	Confirm     ConfirmFunc
}

type Result struct {
	Scanned     int
	Corrected   int
	Skipped     int
	Failed      int
	Updated     int
	Declined    int
	Interrupted bool
}
