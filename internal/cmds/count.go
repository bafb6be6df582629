package cmds

import (
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fraugster/xpq/internal/assemble"
	"github.com/fraugster/xpq/internal/output"
)

var countFormat *string

func init() {
	countFormat = countCmd.PersistentFlags().StringP("format", "f", "", "Output format, one of "+formatList)
	rootCmd.AddCommand(countCmd)
}

var countCmd = &cobra.Command{
	Use:   "count file-name.parquet",
	Short: "Print the number of rows without reading row data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCount(os.Stdout, args[0], *countFormat)
	},
}

func runCount(w io.Writer, path, formatFlag string) error {
	format, _, err := resolveFormat(formatFlag)
	if err != nil {
		return err
	}

	f, err := assemble.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ow := output.NewWriter(w, format, []string{"count"})
	if err := ow.Write([]string{strconv.FormatInt(f.NumRows(), 10)}); err != nil {
		return err
	}
	return ow.Flush()
}
