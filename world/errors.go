package world

import "fmt"

type StartupKind int

const (
	KindConfig StartupKind = iota
	KindTexture
	KindProgram
	KindEngine
)

func (k StartupKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTexture:
		return "texture"
	case KindProgram:
		return "program"
	case KindEngine:
		return "engine"
	}
	return fmt.Sprintf("StartupKind(%d)", int(k))
}

// StartupError is returned for anything that prevents the simulation or the
// display from starting. There is no degraded mode; callers exit.
type StartupError struct {
	Kind StartupKind
	Path string
	Err  error
}

func (e *StartupError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *StartupError) Unwrap() error {
	return e.Err
}

func NewStartupError(kind StartupKind, path string, err error) *StartupError {
	return &StartupError{Kind: kind, Path: path, Err: err}
}
