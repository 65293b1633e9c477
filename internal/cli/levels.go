package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/levelforge/levelforge/pkg/errors"
	"github.com/levelforge/levelforge/pkg/store"
)

// levelsCommand creates the levels command group for managing the local
// level store.
func (c *CLI) levelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "Manage saved levels",
	}

	cmd.AddCommand(c.levelsListCommand())
	cmd.AddCommand(c.levelsDeleteCommand())

	return cmd
}

// levelsListCommand creates the "levels list" subcommand.
func (c *CLI) levelsListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved levels, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := newStore()
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			recs, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No saved levels")
				printNextStep("Save one with", "levelforge generate --save")
				return nil
			}

			for _, rec := range recs {
				name := rec.Name
				if name == "" {
					name = StyleDim.Render("(unnamed)")
				}
				fmt.Println(StyleHighlight.Render(rec.ID))
				printDetail("%s · %s · %dx%d · seed %d · %s",
					name, rec.Mode,
					rec.Level.Width, rec.Level.Height, rec.Level.Seed,
					rec.CreatedAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n levels (0 = all)")
	return cmd
}

// levelsDeleteCommand creates the "levels delete" subcommand.
func (c *CLI) levelsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [level-id]",
		Short: "Delete a saved level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if err := errors.ValidateLevelID(id); err != nil {
				return err
			}

			st, err := newStore()
			if err != nil {
				return err
			}
			defer st.Close(cmd.Context())

			if _, err := st.Get(cmd.Context(), id); err == store.ErrNotFound {
				return errors.New(errors.ErrCodeLevelNotFound, "no stored level named %s", id)
			} else if err != nil {
				return err
			}

			if err := st.Delete(cmd.Context(), id); err != nil {
				return err
			}
			printSuccess("Deleted level %s", id)
			return nil
		},
	}
}
