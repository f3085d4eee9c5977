package conf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/zeptools/fichas/pdfs"
	"github.com/zeptools/fichas/sheets"
	"github.com/zeptools/fichas/uds"
)

// AdminCommands is the command set of the admin console
func AdminCommands(s *sheets.Service, exportDir string) map[string]uds.CmdHnd {
	return map[string]uds.CmdHnd{
		"recipes": {
			Desc:  "list recipe sheets, optionally filtered by a search text",
			Usage: "recipes [text...]",
			Fn: func(ctx context.Context, args []string, w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for _, l := range s.Search(ctx, sheets.Filter{Query: strings.Join(args, " ")}) {
					_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.Recipe.ID, l.Recipe.Name, l.Recipe.SheetType, l.ClientName)
				}
				return tw.Flush()
			},
		},
		"clients": {
			Desc: "list clients",
			Fn: func(ctx context.Context, _ []string, w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for _, c := range s.Repos().Clients.GetAll(ctx) {
					_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", c.ID, c.Name, c.Email)
				}
				return tw.Flush()
			},
		},
		"export": {
			Desc:  "render a recipe sheet to a PDF file in the export directory",
			Usage: "export <recipe-id>",
			Fn: func(ctx context.Context, args []string, w io.Writer) error {
				if len(args) != 1 {
					return errors.New("usage: export <recipe-id>")
				}
				name, err := s.Export(ctx, args[0], pdfs.DirSaver{Dir: exportDir})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(w, "saved %s\n", name)
				return err
			},
		},
	}
}
