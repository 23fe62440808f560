package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/nino/internal/extract"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <utterance...>",
		Short: "Print product codes and brand mentioned in an utterance",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			codes := extract.ProductCodes(text)
			if len(codes) == 0 {
				fmt.Fprintln(out, "codes: -")
			} else {
				fmt.Fprintln(out, "codes:", strings.Join(codes, ", "))
			}
			if brand, ok := extract.Brand(text); ok {
				fmt.Fprintln(out, "brand:", brand)
			} else {
				fmt.Fprintln(out, "brand: -")
			}
			return nil
		},
	}
}
