package service

import (
	"errors"
	"fmt"
)

// ErrPdfNotFound signals an unknown document id; controllers map it to 404.
var ErrPdfNotFound = errors.New("pdf not found")

// Ingestion stages. The pipeline aborts only on document-level stages;
// per-page faults degrade instead.
const (
	StageCreated    = "created"
	StageStored     = "stored"
	StageVerified   = "verified"
	StageRasterized = "rasterized"
)

// PipelineError is a fatal document-level ingestion failure. It carries
// the stage and a human-readable detail so the 5xx body is actionable.
type PipelineError struct {
	Stage  string
	Detail string
	Err    error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ingestion failed at stage %q: %s: %v", e.Stage, e.Detail, e.Err)
	}
	return fmt.Sprintf("ingestion failed at stage %q: %s", e.Stage, e.Detail)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
