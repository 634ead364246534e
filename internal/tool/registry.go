package tool

import (
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"incident-intelligence-backend/internal/dto"
)

// ErrUnknownTool is returned when resolving a name not in the registry.
// Model-hallucinated tool names are expected input, so callers should treat
// this as a per-call failure rather than aborting the diagnosis.
var ErrUnknownTool = fmt.Errorf("unknown tool")

// Registry maps stable tool names to instances, preserving registration
// order for schema and listing output.
type Registry struct {
	names []string
	tools map[string]Tool
}

func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		name := t.Name()
		if _, exists := r.tools[name]; exists {
			return nil, fmt.Errorf("tool %q already registered", name)
		}
		r.tools[name] = t
		r.names = append(r.names, name)
	}
	return r, nil
}

// Resolve returns the tool registered under name.
func (r *Registry) Resolve(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	return t, nil
}

// Definitions returns the function schemas for the model's tool-calling API.
func (r *Registry) Definitions() []openai.Tool {
	defs := make([]openai.Tool, 0, len(r.names))
	for _, name := range r.names {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Listing returns the static discovery enumeration for external surfaces.
func (r *Registry) Listing() []dto.ToolInfo {
	infos := make([]dto.ToolInfo, 0, len(r.names))
	for _, name := range r.names {
		infos = append(infos, dto.ToolInfo{
			Name:        name,
			Description: r.tools[name].Description(),
		})
	}
	return infos
}
