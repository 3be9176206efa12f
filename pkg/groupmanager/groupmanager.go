// Package groupmanager implements the Group Manager (spec §4.F): resolving
// a curated Group against the Discovery Cache into the tools, resources and
// prompts actually exposed to a client, plus resource-conflict diagnostics.
package groupmanager

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/agentmesh/mcpgw/pkg/gwlog"
	"github.com/agentmesh/mcpgw/pkg/gwtypes"
	"github.com/agentmesh/mcpgw/pkg/schema"
	"github.com/agentmesh/mcpgw/pkg/uritmpl"
)

// ResolvedTool is a client-visible tool together with the backend identity
// the Proxy needs to actually invoke it.
type ResolvedTool struct {
	ClientName      string
	Description     string
	InputSchema     map[string]any
	ServerName      string
	OriginalName    string
	ArgumentMapping *gwtypes.ArgumentMapping
}

// ResolvedResource is a client-visible resource with its backing server.
type ResolvedResource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
	ServerName  string
}

// ResolvedPrompt is a client-visible prompt with its backing server.
type ResolvedPrompt struct {
	Name        string
	Description string
	ServerName  string
}

// RequiredServers returns the union of server names referenced by group.
func RequiredServers(group gwtypes.Group) []string {
	return group.RequiredServers()
}

// ToolsForGroup resolves group's tool overrides against the discovered
// backend tools. Overrides whose backend tool is missing are dropped with a
// warning; client-visible name collisions keep the first entry (spec §4.F).
func ToolsForGroup(group gwtypes.Group, toolsByServer map[string][]mcp.Tool) []ResolvedTool {
	index := indexTools(toolsByServer)

	seen := make(map[string]struct{}, len(group.Tools))
	out := make([]ResolvedTool, 0, len(group.Tools))

	for _, override := range group.Tools {
		backend, ok := index[toolKey{override.ServerName, override.OriginalName}]
		if !ok {
			gwlog.Warnf("group %q: tool %q on backend %q not found, dropping", group.Name, override.OriginalName, override.ServerName)
			continue
		}

		clientName := override.ClientVisibleName()
		if _, dup := seen[clientName]; dup {
			gwlog.Warnf("group %q: duplicate client-visible tool name %q, first wins", group.Name, clientName)
			continue
		}
		seen[clientName] = struct{}{}

		description := override.Description
		if description == "" {
			description = backend.Description
		}

		out = append(out, ResolvedTool{
			ClientName:      clientName,
			Description:     description,
			InputSchema:     schema.Generate(toSchemaMap(backend), override),
			ServerName:      override.ServerName,
			OriginalName:    override.OriginalName,
			ArgumentMapping: override.ArgumentMapping,
		})
	}
	return out
}

// ResourcesForGroup resolves group's resource refs, deduplicating by URI and
// keeping the first (highest-priority) occurrence's metadata.
func ResourcesForGroup(group gwtypes.Group, resourcesByServer map[string][]mcp.Resource) []ResolvedResource {
	seen := make(map[string]struct{}, len(group.Resources))
	out := make([]ResolvedResource, 0, len(group.Resources))

	for _, ref := range group.Resources {
		for _, r := range resourcesByServer[ref.ServerName] {
			if r.URI != ref.URI {
				continue
			}
			if _, dup := seen[r.URI]; dup {
				continue
			}
			seen[r.URI] = struct{}{}
			out = append(out, ResolvedResource{
				URI: r.URI, Name: r.Name, Description: r.Description, MimeType: r.MimeType,
				ServerName: ref.ServerName,
			})
		}
	}
	return out
}

// PromptsForGroup resolves group's prompt refs, deduplicating by name and
// keeping the first (highest-priority) occurrence.
func PromptsForGroup(group gwtypes.Group, promptsByServer map[string][]mcp.Prompt) []ResolvedPrompt {
	seen := make(map[string]struct{}, len(group.Prompts))
	out := make([]ResolvedPrompt, 0, len(group.Prompts))

	for _, ref := range group.Prompts {
		for _, p := range promptsByServer[ref.ServerName] {
			if p.Name != ref.Name {
				continue
			}
			if _, dup := seen[p.Name]; dup {
				continue
			}
			seen[p.Name] = struct{}{}
			out = append(out, ResolvedPrompt{Name: p.Name, Description: p.Description, ServerName: ref.ServerName})
		}
	}
	return out
}

// DetectResourceConflicts classifies every pair of refs whose URI spaces
// collide, per spec §4.F. Order within refs determines which side of
// template-covers-exact / exact-covered-by-template a pair falls on.
func DetectResourceConflicts(refs []gwtypes.ResourceRef) ([]gwtypes.ResourceConflict, error) {
	var conflicts []gwtypes.ResourceConflict
	for i := 0; i < len(refs); i++ {
		for j := i + 1; j < len(refs); j++ {
			a, b := refs[i], refs[j]
			overlap, err := uritmpl.Compare(a.URI, b.URI)
			if err != nil {
				return nil, err
			}
			ct, ok := conflictType(overlap)
			if !ok {
				continue
			}
			if ct == gwtypes.ConflictExactDuplicate && uritmpl.IsTemplate(a.URI) {
				ct = gwtypes.ConflictTemplateOverlap
			}
			example, err := exampleURIFor(a, b, overlap)
			if err != nil {
				return nil, err
			}
			conflicts = append(conflicts, gwtypes.ResourceConflict{Type: ct, A: a, B: b, ExampleURI: example})
		}
	}
	return conflicts, nil
}

func conflictType(overlap uritmpl.Overlap) (gwtypes.ConflictType, bool) {
	switch overlap {
	case uritmpl.OverlapIntersecting:
		return gwtypes.ConflictExactDuplicate, true
	case uritmpl.OverlapACoversB:
		return gwtypes.ConflictTemplateCoversExact, true
	case uritmpl.OverlapBCoversA:
		return gwtypes.ConflictExactCoveredTemplate, true
	default:
		return "", false
	}
}

func exampleURIFor(a, b gwtypes.ResourceRef, overlap uritmpl.Overlap) (string, error) {
	switch {
	case uritmpl.IsTemplate(a.URI):
		return uritmpl.ExampleURI(a.URI)
	case uritmpl.IsTemplate(b.URI):
		return uritmpl.ExampleURI(b.URI)
	case overlap == uritmpl.OverlapIntersecting:
		return a.URI, nil
	default:
		return a.URI, nil
	}
}

type toolKey struct {
	server string
	name   string
}

func indexTools(byServer map[string][]mcp.Tool) map[toolKey]mcp.Tool {
	out := make(map[toolKey]mcp.Tool)
	for server, tools := range byServer {
		for _, t := range tools {
			out[toolKey{server, t.Name}] = t
		}
	}
	return out
}

// toSchemaMap normalises an mcp-go Tool's structured InputSchema into the
// plain map[string]any the Schema Generator and JSONata transforms operate
// on, round-tripping through JSON since the two shapes are wire-compatible.
func toSchemaMap(t mcp.Tool) map[string]any {
	raw, err := json.Marshal(t.InputSchema)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}
