package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Report tasks and users whose ownership links disagree",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.close()

			violations, err := a.coordinator().Audit(cmd.Context())
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool("json")
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(violations); err != nil {
					return err
				}
			} else {
				for _, v := range violations {
					fmt.Printf("%-18s task=%s user=%s %s\n", v.Kind, v.TaskID, v.UserID, v.Detail)
				}
			}

			if len(violations) > 0 {
				return fmt.Errorf("found %d violations", len(violations))
			}
			a.logger.Info("no violations found")
			return nil
		},
	}

	cmd.Flags().BoolP("json", "j", false, "Output as JSON")

	return cmd
}
