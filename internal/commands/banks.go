package commands

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-parser/internal/extractor"
	"github.com/insightdelivered/statement-parser/internal/parser"
)

func newBanksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List supported banks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tLAYOUT\tALIASES")
			for _, v := range parser.Banks() {
				layout := "text"
				if v.Grid {
					layout = "table"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.Bank, v.Name, layout, strings.Join(v.Aliases, ", "))
			}
			return tw.Flush()
		},
	}
}

func newDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <statement.pdf|statement.txt>...",
		Short: "Identify the bank of each statement",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				bank, err := detect(path)
				if err != nil {
					failed++
					fmt.Fprintf(out, "%s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", path, bank)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d statements could not be identified", failed, len(args))
			}
			return nil
		},
	}
}

func detect(path string) (string, error) {
	src, err := sourceFor(path)
	if err != nil {
		return "", err
	}
	doc, err := src.Document()
	if err != nil {
		if errors.Is(err, extractor.ErrNoText) {
			return "", fmt.Errorf("%w (scanned statements need OCR first)", err)
		}
		return "", err
	}
	bank, err := parser.AutoDetect(doc)
	if err != nil {
		return "", err
	}
	return string(bank), nil
}

