package cmd

import (
	"fmt"

	"github.com/teemow/inboxroute/internal/server"
	"github.com/teemow/inboxroute/internal/tools/calendar_tools"
	"github.com/teemow/inboxroute/internal/tools/gmail_tools"
	"github.com/teemow/inboxroute/internal/tools/maps_tools"
	"github.com/teemow/inboxroute/internal/tools/registry"
)

// buildRegistry registers every tool family. In read-only mode the tools
// that change remote state are left out.
func buildRegistry(sc *server.ServerContext, readOnly bool) (*registry.Registry, error) {
	reg := registry.New()

	if err := gmail_tools.Register(reg, sc, readOnly); err != nil {
		return nil, fmt.Errorf("failed to register Gmail tools: %w", err)
	}

	if err := calendar_tools.Register(reg, sc, readOnly); err != nil {
		return nil, fmt.Errorf("failed to register Calendar tools: %w", err)
	}

	if err := maps_tools.Register(reg, sc); err != nil {
		return nil, fmt.Errorf("failed to register Maps tools: %w", err)
	}

	return reg, nil
}
