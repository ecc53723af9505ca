package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ByLCY/dotmatrix/layout"
)

func newMeasureCmd(a *app) *cobra.Command {
	var (
		in   string
		xml  bool
		data string
	)
	cmd := &cobra.Command{
		Use:   "measure",
		Short: "Print the preferred size of a document's root node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadDocument(in, xml, data)
			if err != nil {
				return err
			}
			if err := layout.Validate(doc.Root); err != nil {
				return err
			}
			ctx := a.cfg.TextContext()
			m := layout.Measure(doc.Root, ctx, layout.DefaultMetrics{})
			fmt.Fprintf(cmd.OutOrStdout(), "%s %dx%d dots (%.1fx%.1f mm @ %d dpi)\n",
				m.Kind, m.PreferredWidth, m.PreferredHeight,
				layout.DotsToMM(m.PreferredWidth, ctx.DPI), layout.DotsToMM(m.PreferredHeight, ctx.DPI), ctx.DPI)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "document path (.dmx or .xml)")
	cmd.Flags().BoolVar(&xml, "xml", false, "parse the input as XML regardless of extension")
	cmd.Flags().StringVar(&data, "data", "", "JSON data bound to the document, inline or @file")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
