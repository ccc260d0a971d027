package cmd

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	cmtlog "github.com/cometbft/cometbft/libs/log"
	rpc "github.com/cometbft/cometbft/rpc/client/http"

	"github.com/spf13/cobra"

	"github.com/latticebft/lattice/errs"
)

// Used for flags.
var queryAddress string

func init() {
	queryCmd.PersistentFlags().StringVar(&queryAddress, "address", "",
		"Address to query the coins balance of, as hex")
	queryCmd.PersistentFlags().BoolVarP(&printAsJSON, "json", "j", false,
		"Display the information in a JSON format.")

	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a running lattice node for an account balance",
	Long: `Query a running lattice node's coins.Accounts /balance path for the
current balance held by an address.`,

	Example: `  lattice query
  lattice query --address "DEADBEEF..."`,

	RunE: func(cmd *cobra.Command, args []string) error {
		logger := cmtlog.NewTMLogger(cmtlog.NewSyncWriter(os.Stdout))
		cli, err := rpc.New(rpcAddr, "/websocket")
		if err != nil {
			return fmt.Errorf("could not connect to RPC server: %w", err)
		}
		cli.SetLogger(logger)

		if queryAddress == "" {
			fmt.Print("Enter the address to query: ")
			reader := bufio.NewReader(os.Stdin)
			input, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("could not read address: %w", err)
			}
			queryAddress = strings.TrimSuffix(input, "\n")
		}

		addr, err := hex.DecodeString(queryAddress)
		if err != nil {
			return fmt.Errorf("could not parse address: %w", err)
		}

		response, err := cli.ABCIQuery(cmd.Context(), "/balance", addr)
		if err != nil {
			return fmt.Errorf("error occurred on query: %w", err)
		}
		if response.Response.Code != errs.CodeOK {
			return fmt.Errorf("query rejected: (%d) %s", response.Response.Code, response.Response.Log)
		}

		var balance uint64
		if len(response.Response.Value) == 8 {
			balance = binary.BigEndian.Uint64(response.Response.Value)
		}

		info := struct {
			Address string
			Balance uint64
		}{queryAddress, balance}

		if printAsJSON {
			out, _ := json.MarshalIndent(info, "", "  ")
			fmt.Println(string(out))
			return nil
		}

		fmt.Printf("   Address: %s\n", info.Address)
		fmt.Printf("   Balance: %d\n", info.Balance)
		return nil
	},
}
