package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/zeptools/fichas/pdfs"
)

func newExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <recipe-id>",
		Short: "Render a recipe sheet to ficha-tecnica-<name>.pdf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			dir := c.ExportDir()
			if out != "" {
				dir = out
			}
			name, err := c.Sheets.Export(c.RootCtx, args[0], pdfs.DirSaver{Dir: dir})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, name))
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (default: the configured out_dir)")
	return cmd
}
