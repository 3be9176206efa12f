package groupmanager

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentmesh/mcpgw/pkg/gwtypes"
)

func TestToolsForGroup_DropsMissingBackendTool(t *testing.T) {
	group := gwtypes.Group{
		Name: "g1",
		Tools: []gwtypes.ToolOverride{
			{ServerName: "s1", OriginalName: "missing"},
		},
	}
	out := ToolsForGroup(group, map[string][]mcp.Tool{"s1": {{Name: "other"}}})
	assert.Empty(t, out)
}

func TestToolsForGroup_FirstWinsOnCollision(t *testing.T) {
	group := gwtypes.Group{
		Name: "g1",
		Tools: []gwtypes.ToolOverride{
			{ServerName: "s1", OriginalName: "a", Name: "shared"},
			{ServerName: "s2", OriginalName: "b", Name: "shared"},
		},
	}
	byServer := map[string][]mcp.Tool{
		"s1": {{Name: "a", Description: "first"}},
		"s2": {{Name: "b", Description: "second"}},
	}
	out := ToolsForGroup(group, byServer)
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].Description)
	assert.Equal(t, "s1", out[0].ServerName)
}

func TestToolsForGroup_NameFallsBackToOriginal(t *testing.T) {
	group := gwtypes.Group{
		Name:  "g1",
		Tools: []gwtypes.ToolOverride{{ServerName: "s1", OriginalName: "orig"}},
	}
	out := ToolsForGroup(group, map[string][]mcp.Tool{"s1": {{Name: "orig", Description: "d"}}})
	require.Len(t, out, 1)
	assert.Equal(t, "orig", out[0].ClientName)
}

func TestResourcesForGroup_DedupKeepsFirst(t *testing.T) {
	group := gwtypes.Group{
		Resources: []gwtypes.ResourceRef{
			{ServerName: "s1", URI: "file:///a"},
			{ServerName: "s2", URI: "file:///a"},
		},
	}
	byServer := map[string][]mcp.Resource{
		"s1": {{URI: "file:///a", Name: "from-s1"}},
		"s2": {{URI: "file:///a", Name: "from-s2"}},
	}
	out := ResourcesForGroup(group, byServer)
	require.Len(t, out, 1)
	assert.Equal(t, "from-s1", out[0].Name)
}

func TestPromptsForGroup_DedupByName(t *testing.T) {
	group := gwtypes.Group{
		Prompts: []gwtypes.PromptRef{
			{ServerName: "s1", Name: "p"},
			{ServerName: "s2", Name: "p"},
		},
	}
	byServer := map[string][]mcp.Prompt{
		"s1": {{Name: "p", Description: "first"}},
		"s2": {{Name: "p", Description: "second"}},
	}
	out := PromptsForGroup(group, byServer)
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].Description)
}

func TestDetectResourceConflicts_ExactDuplicate(t *testing.T) {
	refs := []gwtypes.ResourceRef{
		{ServerName: "s1", URI: "file:///a"},
		{ServerName: "s2", URI: "file:///a"},
	}
	conflicts, err := DetectResourceConflicts(refs)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, gwtypes.ConflictExactDuplicate, conflicts[0].Type)
	assert.Equal(t, "file:///a", conflicts[0].ExampleURI)
}

func TestDetectResourceConflicts_TemplateCoversExact(t *testing.T) {
	refs := []gwtypes.ResourceRef{
		{ServerName: "s1", URI: "file:///{name}"},
		{ServerName: "s2", URI: "file:///a"},
	}
	conflicts, err := DetectResourceConflicts(refs)
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, gwtypes.ConflictTemplateCoversExact, conflicts[0].Type)
	assert.NotEmpty(t, conflicts[0].ExampleURI)
}

func TestDetectResourceConflicts_NoOverlap(t *testing.T) {
	refs := []gwtypes.ResourceRef{
		{ServerName: "s1", URI: "file:///a"},
		{ServerName: "s2", URI: "file:///b"},
	}
	conflicts, err := DetectResourceConflicts(refs)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestRequiredServers_UnionsAllRefs(t *testing.T) {
	group := gwtypes.Group{
		Tools:     []gwtypes.ToolOverride{{ServerName: "s1"}},
		Resources: []gwtypes.ResourceRef{{ServerName: "s2"}},
		Prompts:   []gwtypes.PromptRef{{ServerName: "s1"}},
	}
	assert.ElementsMatch(t, []string{"s1", "s2"}, RequiredServers(group))
}
