package cmds

import (
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fraugster/xpq/internal/aggregate"
	"github.com/fraugster/xpq/internal/assemble"
	"github.com/fraugster/xpq/internal/output"
)

var (
	frequencyColumns *[]string
	frequencyFormat  *string
)

func init() {
	frequencyColumns = frequencyCmd.PersistentFlags().StringSliceP("columns", "c", nil, "Select columns by dotted path, all leaf columns when omitted")
	frequencyFormat = frequencyCmd.PersistentFlags().StringP("format", "f", "", "Output format, one of "+formatList)
	rootCmd.AddCommand(frequencyCmd)
}

var frequencyCmd = &cobra.Command{
	Use:   "frequency file-name.parquet",
	Short: "Print per-column value frequency counts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFrequency(os.Stdout, args[0], *frequencyColumns, *frequencyFormat)
	},
}

func runFrequency(w io.Writer, path string, columns []string, formatFlag string) error {
	format, _, err := resolveFormat(formatFlag)
	if err != nil {
		return err
	}

	f, err := assemble.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	paths := columns
	if len(paths) == 0 {
		for _, leaf := range f.Schema().Leaves() {
			paths = append(paths, leaf.DottedPath())
		}
	}
	results, err := aggregate.FrequencyFile(f, paths)
	if err != nil {
		return err
	}

	ow := output.NewWriter(w, format, []string{"FIELD", "VALUE", "COUNT"})
	for i, entries := range results {
		for _, e := range entries {
			cells := []string{paths[i], e.Value, strconv.FormatInt(e.Count, 10)}
			if err := ow.Write(cells); err != nil {
				return err
			}
		}
	}
	return ow.Flush()
}
