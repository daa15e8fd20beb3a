package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/pointbuf/rawio"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Print the header of a point file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			r, err := rawio.NewReader(f)
			if err != nil {
				return err
			}
			defer r.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "points:         %d\n", r.Count())
			fmt.Fprintf(out, "point size:     %d\n", r.Layout().Size())
			fmt.Fprintf(out, "compression:    %s\n", r.Compression())
			fmt.Fprintf(out, "schema codec:   %s\n", r.Codec())
			fmt.Fprintf(out, "payload offset: %d\n", r.PayloadOffset())
			fmt.Fprintln(out, "layout:")

			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(r.Layout()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
