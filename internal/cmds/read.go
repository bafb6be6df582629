package cmds

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fraugster/xpq/internal/assemble"
)

var (
	readColumns *[]string
	readLimit   *int
	readFormat  *string
)

func init() {
	readColumns = readCmd.PersistentFlags().StringSliceP("columns", "c", nil, "Select columns by dotted path, all leaf columns when omitted")
	readLimit = readCmd.PersistentFlags().IntP("limit", "l", 0, "Max number of rows to print (default from config, 500)")
	readFormat = readCmd.PersistentFlags().StringP("format", "f", "", "Output format, one of "+formatList)
	rootCmd.AddCommand(readCmd)
}

var readCmd = &cobra.Command{
	Use:   "read file-name.parquet",
	Short: "Print rows of the Parquet file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRead(os.Stdout, args[0], *readColumns,
			*readLimit, cmd.Flags().Changed("limit"), *readFormat)
	},
}

// runRead prints up to limit rows. An unset limit means "use the configured
// default".
func runRead(w io.Writer, path string, columns []string, limit int, limitSet bool, formatFlag string) error {
	format, cfg, err := resolveFormat(formatFlag)
	if err != nil {
		return err
	}
	if !limitSet {
		limit = cfg.Read.Limit
	}
	if limit < 0 {
		return fmt.Errorf("invalid limit %d: must not be negative", limit)
	}

	f, err := assemble.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cols, err := selectColumns(f.Schema(), columns)
	if err != nil {
		return err
	}

	ow := newRowWriter(w, format, columnHeaders(cols), cfg)
	r := f.Rows()
	defer r.Close()

	for n := 0; n < limit; n++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if err := ow.Write(rowCells(row, cols)); err != nil {
			return err
		}
	}
	return ow.Flush()
}
