package cmds

import (
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fraugster/xpq/internal/aggregate"
	"github.com/fraugster/xpq/internal/assemble"
)

var (
	sampleColumns *[]string
	sampleSize    *int
	sampleSeed    *int64
	sampleFormat  *string
)

func init() {
	sampleColumns = sampleCmd.PersistentFlags().StringSliceP("columns", "c", nil, "Select columns by dotted path, all leaf columns when omitted")
	sampleSize = sampleCmd.PersistentFlags().IntP("size", "n", 0, "Number of rows to sample (default from config, 10)")
	sampleSeed = sampleCmd.PersistentFlags().Int64P("seed", "s", 0, "Random seed, the same seed always selects the same rows (default drawn from the clock)")
	sampleFormat = sampleCmd.PersistentFlags().StringP("format", "f", "", "Output format, one of "+formatList)
	rootCmd.AddCommand(sampleCmd)
}

var sampleCmd = &cobra.Command{
	Use:   "sample file-name.parquet",
	Short: "Print a uniform random sample of rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSample(os.Stdout, args[0], *sampleColumns,
			*sampleSize, cmd.Flags().Changed("size"), *sampleSeed, *sampleFormat)
	},
}

// runSample prints a reservoir sample. An unset size means "use the
// configured default"; a zero seed falls back to the configured seed, and to
// the clock when that is zero too.
func runSample(w io.Writer, path string, columns []string, size int, sizeSet bool, seed int64, formatFlag string) error {
	format, cfg, err := resolveFormat(formatFlag)
	if err != nil {
		return err
	}
	if !sizeSet {
		size = cfg.Sample.Size
	}
	if seed == 0 {
		seed = cfg.Sample.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
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

	r := f.Rows()
	defer r.Close()
	rows, err := aggregate.Sample(r, size, seed)
	if err != nil {
		return err
	}

	ow := newRowWriter(w, format, columnHeaders(cols), cfg)
	for _, row := range rows {
		if err := ow.Write(rowCells(row, cols)); err != nil {
			return err
		}
	}
	return ow.Flush()
}
