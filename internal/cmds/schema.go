package cmds

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fraugster/xpq/internal/assemble"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema file-name.parquet",
	Short: "Print the parquet file schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchema(os.Stdout, args[0])
	},
}

func runSchema(w io.Writer, path string) error {
	f, err := assemble.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	f.Schema().Print(w)
	return nil
}
