package commands

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"

	"cardorders/cmd"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	envFile string
	appCtx  *cmd.CompositionRoot
	store   cmd.Store
)

// Execute runs the orderctl command tree.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "orderctl",
		Short:         "Administer card orders directly against the order store",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			if appCtx != nil {
				return nil
			}
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			configs, err := cmd.LoadConfig(os.Getenv)
			if err != nil {
				return err
			}
			store, err = cmd.OpenStore(c.Context(), configs)
			if err != nil {
				return err
			}

			app, err := cmd.NewCompositionRoot(configs, store, nil, nil)
			if err != nil {
				return err
			}
			appCtx = &app
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return store.Close()
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with the store configuration")

	root.AddCommand(transitionCmd(), batchCmd(), historyCmd(), showCmd(), openCmd())
	return root
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
