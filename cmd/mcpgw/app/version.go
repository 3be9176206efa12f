package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mcpgw version",
		RunE: func(*cobra.Command, []string) error {
			fmt.Println(version)
			return nil
		},
	}
}
