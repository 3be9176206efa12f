package app

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

// newAdminCmd is a thin client for a running gateway's loopback admin
// endpoint. The admin UI itself (editing configs, browsing capabilities) is
// a separately-developed surface; this only covers the one operation core
// needs to expose for scripting: triggering a reload.
func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Operate a running gateway's loopback admin endpoint",
	}
	cmd.PersistentFlags().StringVar(&adminAddr, "admin-addr", "127.0.0.1:8282", "loopback address of the running gateway's admin endpoint")
	cmd.AddCommand(newAdminReloadCmd())
	return cmd
}

func newAdminReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Trigger a discovery refresh and group re-resolution on a running gateway",
		RunE: func(*cobra.Command, []string) error {
			url := fmt.Sprintf("http://%s/reload", adminAddr)
			resp, err := http.Post(url, "application/json", nil)
			if err != nil {
				return fmt.Errorf("reload request failed: %w", err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("reload request returned %s", resp.Status)
			}
			fmt.Println("reload triggered")
			return nil
		},
	}
}
