package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	rpc "github.com/cometbft/cometbft/rpc/client/http"

	"github.com/spf13/cobra"

	"github.com/latticebft/lattice/abci"
)

// Used for flags.
var printAsJSON bool

func init() {
	infoCmd.PersistentFlags().BoolVarP(&printAsJSON, "json", "j", false,
		"Display the information in a JSON format.")

	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the current node's ABCI information",
	Long: `Print the current node's ABCI information including:

  - the latest committed block height ; and
  - the application's AppHash ; and
  - the negotiated ABCI and application protocol versions.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := cmtlog.NewTMLogger(cmtlog.NewSyncWriter(os.Stdout))
		cli, err := rpc.New(rpcAddr, "/websocket")
		if err != nil {
			return fmt.Errorf("could not connect to RPC server: %w", err)
		}
		cli.SetLogger(logger)

		response, err := cli.ABCIInfo(cmd.Context())
		if err != nil {
			return fmt.Errorf("could not retrieve ABCI information: %w", err)
		}

		appInfo := struct {
			ABCIVersion string
			AppVersion  uint64
			LastHeight  int64
			AppHash     string
		}{
			response.Response.Version,
			response.Response.AppVersion,
			response.Response.LastBlockHeight,
			fmt.Sprintf("%x", response.Response.LastBlockAppHash),
		}

		if printAsJSON {
			out, _ := json.MarshalIndent(appInfo, "", "  ")
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("lattice v1.0 (app v%d) - ABCI: \n", abci.AppVersion)
		fmt.Printf("  ABCI Version: %s\n", appInfo.ABCIVersion)
		fmt.Printf("   App Version: %d\n", appInfo.AppVersion)
		fmt.Printf("   Last Height: %d\n", appInfo.LastHeight)
		fmt.Printf("      App Hash: %s\n", appInfo.AppHash)
		return nil
	},
}
