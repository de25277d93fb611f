package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ig-gor95/finsplit-sub001/internal/importlog"
)

func newHistoryCommand(root *rootOptions) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past imports from logs/import-log.csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(root)
			if err != nil {
				return err
			}
			return runHistory(p, owner, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "only show imports for this owner")

	return cmd
}

func runHistory(p *project, owner string, out io.Writer) error {
	entries, err := importlog.Read(p.dir)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tOWNER\tBANK\tFILE\tTOTAL\tIMPORTED\tUPDATED\tSKIPPED\tERRORS")
	shown := 0
	for _, e := range entries {
		if owner != "" && e.Owner != owner {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\n",
			e.Timestamp.Local().Format("2006-01-02 15:04"), e.Owner, e.Bank, e.File,
			e.Total, e.Imported, e.Updated, e.Skipped, e.Errors)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(out, "No imports recorded.")
		return nil
	}
	return tw.Flush()
}
