package pastor

import (
	"errors"
	"fmt"
)

// Kind classifies orchestrator failures for the transport layer.
type Kind string

const (
	KindValidation            Kind = "validation"
	KindNotFound              Kind = "not_found"
	KindGenerationUnavailable Kind = "generation_unavailable"
	KindInternal              Kind = "internal"
)

// Stage names a step of the chat pipeline.
type Stage string

const (
	StageValidate      Stage = "validate"
	StageLoadUser      Stage = "load_user"
	StageLoadSession   Stage = "load_session"
	StageAnalyze       Stage = "analyze"
	StageUpdateSession Stage = "update_session_state"
	StageAssemble      Stage = "assemble_prompt"
	StageGenerate      Stage = "generate"
	StagePostprocess   Stage = "postprocess"
	StagePersist       Stage = "persist"
	StageRespond       Stage = "respond"
)

// Error is returned by Service.Respond for every terminal failure.
type Error struct {
	Kind   Kind
	Stage  Stage
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at %s: %v", e.Kind, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Stage, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the stable, client-safe summary for the failure.
func (e *Error) Message() string {
	switch e.Kind {
	case KindValidation, KindNotFound:
		return e.Detail
	case KindGenerationUnavailable:
		return "Spiritual guidance temporarily unavailable"
	default:
		return "Something went wrong"
	}
}

// Hint is a human-readable retry suggestion, empty when retrying won't help.
func (e *Error) Hint() string {
	switch e.Kind {
	case KindGenerationUnavailable:
		return "The AI preacher is renewing our understanding. Please try again shortly."
	case KindInternal:
		return "Please try again in a moment."
	default:
		return ""
	}
}

// KindOf extracts the Kind from err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return KindInternal
}

func validation(detail string) *Error {
	return &Error{Kind: KindValidation, Stage: StageValidate, Detail: detail}
}

func notFound(stage Stage, detail string) *Error {
	return &Error{Kind: KindNotFound, Stage: stage, Detail: detail}
}

func internal(stage Stage, err error) *Error {
	return &Error{Kind: KindInternal, Stage: stage, Err: err}
}
