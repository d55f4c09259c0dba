package app

import (
	"context"

	"github.com/charmbracelet/log"
)

// Context carries app-wide dependencies and metadata.
type Context struct {
	Ctx       context.Context
	Config    Config
	Workspace WorkspaceHandle
	Logger    *log.Logger
}

// WorkspaceHandle is a minimal contract the workspace package provides.
type WorkspaceHandle interface {
	Path(parts ...string) string
	SettingsPath() string
	GeneratorsPath() string
}
