package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zeptools/fichas/models"
	"github.com/zeptools/fichas/sheets"
)

func newRecipesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Inspect recipe sheets",
	}
	var f sheets.Filter
	var sheetType string
	list := &cobra.Command{
		Use:   "list",
		Short: "List recipe sheets with their client",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			f.SheetType = models.SheetType(sheetType)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tRECEITA\tTIPO\tCLIENTE\tATUALIZADA")
			for _, l := range c.Sheets.Search(c.RootCtx, f) {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					l.Recipe.ID, l.Recipe.Name, l.Recipe.SheetType, l.ClientName, l.Recipe.UpdatedAt.Format("02/01/2006 15:04"))
			}
			return tw.Flush()
		},
	}
	list.Flags().StringVar(&f.Query, "q", "", "search recipe name, preparer and company")
	list.Flags().StringVar(&f.ClientID, "cliente", "", "client id")
	list.Flags().StringVar(&sheetType, "tipo", "", `sheet type ("Subficha" or "Prato principal")`)
	cmd.AddCommand(list)
	return cmd
}

func newClientsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "Inspect clients",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tNOME\tEMAIL\tTELEFONE")
			for _, cl := range c.Repos.Clients.GetAll(c.RootCtx) {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", cl.ID, cl.Name, cl.Email, cl.Phone)
			}
			return tw.Flush()
		},
	})
	return cmd
}
