package gwtypes

import "fmt"

// ToolOverride describes how one backend tool is exposed (possibly renamed
// and re-mapped) inside a group.
type ToolOverride struct {
	ServerName      string           `json:"serverName"`
	OriginalName    string           `json:"originalName"`
	Name            string           `json:"name,omitempty"`
	Description     string           `json:"description,omitempty"`
	InputSchema     map[string]any   `json:"inputSchema,omitempty"`
	ArgumentMapping *ArgumentMapping `json:"argumentMapping,omitempty"`
}

// ClientVisibleName is the name the client sees: the override name if set,
// else the backend's original name.
func (t ToolOverride) ClientVisibleName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.OriginalName
}

// ResourceRef points at a resource (possibly an RFC 6570 template URI) on a
// specific backend.
type ResourceRef struct {
	ServerName string `json:"serverName"`
	URI        string `json:"uri"`
}

// PromptRef points at a named prompt on a specific backend.
type PromptRef struct {
	ServerName string `json:"serverName"`
	Name       string `json:"name"`
}

// Group is a user-curated bundle of tools/resources/prompts exposed to the
// client as a single MCP endpoint. Slice order is significant: it defines
// fallback priority for resources and prompts, and first-wins precedence for
// colliding tool names.
type Group struct {
	Name      string         `json:"name"`
	Tools     []ToolOverride `json:"tools"`
	Resources []ResourceRef  `json:"resources"`
	Prompts   []PromptRef    `json:"prompts"`
}

// RequiredServers returns the set of backend server names referenced
// anywhere in the group (tools, resources, prompts).
func (g Group) RequiredServers() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, t := range g.Tools {
		add(t.ServerName)
	}
	for _, r := range g.Resources {
		add(r.ServerName)
	}
	for _, p := range g.Prompts {
		add(p.ServerName)
	}
	return out
}

// Validate checks the group-level invariant that client-visible tool names
// are unique within the group, and that every tool override's argument
// mapping, if it has one, validates structurally.
func (g Group) Validate() error {
	seen := make(map[string]struct{}, len(g.Tools))
	for _, t := range g.Tools {
		name := t.ClientVisibleName()
		if name == "" {
			return fmt.Errorf("group %q: tool with empty client-visible name", g.Name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("group %q: duplicate client-visible tool name %q", g.Name, name)
		}
		seen[name] = struct{}{}
		if t.ArgumentMapping != nil {
			if err := t.ArgumentMapping.Validate(); err != nil {
				return fmt.Errorf("group %q: tool %q: %w", g.Name, name, err)
			}
		}
	}
	return nil
}

// GroupsConfig is the top-level groups.json document.
type GroupsConfig struct {
	Groups map[string]Group `json:"groups"`
}

// Validate runs Group.Validate over every entry.
func (c *GroupsConfig) Validate() error {
	for name, g := range c.Groups {
		if g.Name == "" {
			g.Name = name
		}
		if err := g.Validate(); err != nil {
			return err
		}
	}
	return nil
}
