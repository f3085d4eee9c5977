package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zeptools/fichas/datauri"
)

// encode needs no storage, so it skips app loading
func newEncodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "encode <image-file>",
		Short: "Print an image file as a data URI for a photo or logo field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uri, err := datauri.EncodeFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), uri)
			return err
		},
	}
}
