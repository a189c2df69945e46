package cli

import (
	"nameboard/internal/roster"

	"github.com/spf13/cobra"
)

func newRosterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage the project's characters",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List characters (optionally by group or name)",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := roster.Load(app.store().RosterPath(app.ProjectID))
			if err != nil {
				return writeErr(cmd, err)
			}
			group, _ := cmd.Flags().GetString("group")
			name, _ := cmd.Flags().GetString("name")
			out := r.Characters
			switch {
			case name != "":
				out = r.FindByName(name)
			case group != "":
				out = r.InGroup(group)
			}
			if out == nil {
				out = characterList{}
			}
			return writeData(cmd, app, characterList(out), map[string]any{"count": len(out)})
		},
	}
	list.Flags().String("group", "", "Only characters in this group")
	list.Flags().String("name", "", "Find by name (case and width insensitive)")

	add := &cobra.Command{
		Use:   "add",
		Short: "Add a character",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			desc, _ := cmd.Flags().GetString("description")
			groups, _ := cmd.Flags().GetStringSlice("groups")
			path := app.store().RosterPath(app.ProjectID)
			r, err := roster.Load(path)
			if err != nil {
				return writeErr(cmd, err)
			}
			c, err := r.Add(name, desc, groups...)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := r.Save(path); err != nil {
				return writeErr(cmd, err)
			}
			return writeData(cmd, app, c, nil)
		},
	}
	add.Flags().String("name", "", "Character name")
	add.Flags().String("description", "", "Short description")
	add.Flags().StringSlice("groups", nil, "Character group ids (comma separated)")
	_ = add.MarkFlagRequired("name")

	groups := &cobra.Command{
		Use:   "groups",
		Short: "List character groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := roster.Load(app.store().RosterPath(app.ProjectID))
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeData(cmd, app, characterGroupList(r.Groups), nil)
		},
	}

	groupAdd := &cobra.Command{
		Use:   "add",
		Short: "Add a character group",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			color, _ := cmd.Flags().GetString("color")
			path := app.store().RosterPath(app.ProjectID)
			r, err := roster.Load(path)
			if err != nil {
				return writeErr(cmd, err)
			}
			g, err := r.AddGroup(name, color)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := r.Save(path); err != nil {
				return writeErr(cmd, err)
			}
			return writeData(cmd, app, g, nil)
		},
	}
	groupAdd.Flags().String("name", "", "Group name")
	groupAdd.Flags().String("color", "", "Display color (#rrggbb)")
	_ = groupAdd.MarkFlagRequired("name")
	groups.AddCommand(groupAdd)

	cmd.AddCommand(list, add, groups)
	return cmd
}
