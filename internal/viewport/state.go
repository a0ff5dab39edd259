package viewport

import (
	"errors"
	"fmt"

	"github.com/Faultbox/modelview/internal/engine/camera"
	"github.com/Faultbox/modelview/internal/engine/model"
	"github.com/Faultbox/modelview/internal/resource"
	"github.com/Faultbox/modelview/internal/store"
)

var (
	// ErrFetch classifies failures to obtain model metadata.
	ErrFetch = errors.New("fetch failed")
	// ErrTransfer classifies failures to obtain model bytes.
	ErrTransfer = errors.New("transfer failed")
)

// Token identifies one request. Tokens increase strictly per Viewport.
type Token uint64

// Status is the variant of a LoadState.
type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// LoadState is the displayed model's lifecycle state. Model, Meta, Camera
// and Handle are set only when Loaded; Err only when Failed.
type LoadState struct {
	Status Status
	Token  Token
	ID     store.ID

	Model  *model.Normalized
	Meta   store.Metadata
	Camera camera.Pose
	Handle *resource.Handle

	Err *LoadError
}

// Phase names the pipeline step a load failed in.
type Phase string

const (
	PhaseFetch     Phase = "fetch"
	PhaseTransfer  Phase = "transfer"
	PhaseParse     Phase = "parse"
	PhaseNormalize Phase = "normalize"
)

// LoadError describes a failed load. Kind is one of ErrFetch, ErrTransfer,
// formats.ErrUnsupportedFormat, formats.ErrMalformedGeometry or
// model.ErrEmptyGeometry; both Kind and Err match with errors.Is.
type LoadError struct {
	ID    store.ID
	Phase Phase
	Kind  error
	Err   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %v", e.Phase, e.Err)
}

func (e *LoadError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Summary is a one-line description of the state for window titles and
// status output.
func (s LoadState) Summary() string {
	switch s.Status {
	case Loading:
		return fmt.Sprintf("loading %s", s.ID)
	case Loaded:
		name := s.Meta.Name
		if name == "" {
			name = string(s.ID)
		}
		if s.Model == nil || s.Model.Geometry == nil {
			return name
		}
		return fmt.Sprintf("%s (%d triangles)", name, s.Model.Geometry.TriangleCount())
	case Failed:
		if s.Err == nil {
			return fmt.Sprintf("failed to load %s", s.ID)
		}
		return fmt.Sprintf("failed to load %s: %v", s.ID, s.Err)
	}
	return "no model"
}
