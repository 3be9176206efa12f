package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentmesh/mcpgw/pkg/config"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate backend-servers.json and groups.json without starting the gateway",
		RunE:  runValidate,
	}
	cmd.Flags().StringVar(&backendServersPath, "backend-servers", "backend-servers.json", "path to backend-servers.json")
	cmd.Flags().StringVar(&groupsPath, "groups", "groups.json", "path to groups.json")
	return cmd
}

func runValidate(_ *cobra.Command, _ []string) error {
	backendsCfg, err := config.LoadBackendServers(backendServersPath)
	if err != nil {
		return fmt.Errorf("backend-servers.json invalid: %w", err)
	}
	groupsCfg, err := config.LoadGroups(groupsPath)
	if err != nil {
		return fmt.Errorf("groups.json invalid: %w", err)
	}

	for name, group := range groupsCfg.Groups {
		for _, required := range group.RequiredServers() {
			if _, ok := backendsCfg.MCPServers[required]; !ok {
				return fmt.Errorf("group %q references undefined backend %q", name, required)
			}
		}
	}

	fmt.Printf("ok: %d backend(s), %d group(s)\n", len(backendsCfg.MCPServers), len(groupsCfg.Groups))
	return nil
}
