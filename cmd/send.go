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
	"golang.org/x/term"

	"github.com/latticebft/lattice/coins"
	"github.com/latticebft/lattice/errs"
	"github.com/latticebft/lattice/identity"
	"github.com/latticebft/lattice/plugins"
)

// Used for flags.
var (
	sendNonce       uint64
	sendFee         uint64
	sendTo          string
	sendAmount      uint64
	alsoBroadcastTx bool
	rpcAddr         string
)

func init() {
	sendCmd.PersistentFlags().Uint64Var(&sendNonce, "nonce", 0, "Transaction nonce")
	sendCmd.PersistentFlags().Uint64Var(&sendFee, "fee", 0, "Fee to attach to the transaction")
	sendCmd.PersistentFlags().StringVar(&sendTo, "to", "", "Recipient address, as hex")
	sendCmd.PersistentFlags().Uint64Var(&sendAmount, "amount", 0, "Amount to transfer")
	sendCmd.PersistentFlags().BoolVarP(&alsoBroadcastTx, "commit", "c", false,
		"Broadcast and commit the transaction")
	sendCmd.PersistentFlags().StringVar(&rpcAddr, "rpc", "http://localhost:26657",
		"CometBFT RPC address to broadcast against")

	rootCmd.AddCommand(sendCmd)
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and optionally broadcast a coins transfer transaction",
	Long:  `Build, sign, and optionally broadcast a native coins.Accounts transfer call.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseKeyKind(keyKind)
		if err != nil {
			return err
		}

		fmt.Print("Enter your password: ")
		pw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Print("\n")
		if err != nil {
			return fmt.Errorf("could not read password: %w", err)
		}

		if _, statErr := os.Stat(idFile); os.IsNotExist(statErr) {
			if _, _, genErr := identity.Generate(idFile, kind, pw); genErr != nil {
				return fmt.Errorf("could not generate identity: %w", genErr)
			}
		}
		id, err := identity.Open(idFile, kind, pw)
		if err != nil {
			return fmt.Errorf("could not open identity: %w", err)
		}

		if sendTo == "" {
			fmt.Print("Enter the recipient address (hex): ")
			reader := bufio.NewReader(os.Stdin)
			input, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("could not read recipient address: %w", err)
			}
			sendTo = strings.TrimSuffix(input, "\n")
		}

		to, err := hex.DecodeString(sendTo)
		if err != nil {
			return fmt.Errorf("could not parse recipient address: %w", err)
		}

		call := transferCall(plugins.Address(to), sendAmount)
		body := plugins.PackNativeBody(sendNonce, chainID, sendFee, call)

		sig, err := id.Sign(body)
		if err != nil {
			return fmt.Errorf("could not sign transaction: %w", err)
		}
		pub, err := id.PubKeyBytes()
		if err != nil {
			return fmt.Errorf("could not read public key: %w", err)
		}

		signerKind := plugins.SignerEd25519
		if kind == identity.KeySecp256k1 {
			signerKind = plugins.SignerSecp256k1
		}

		tx := &plugins.NativeTx{
			SignerKind: signerKind,
			SignerPub:  pub,
			Signature:  sig,
			Body:       body,
		}
		txbz, err := tx.Marshal()
		if err != nil {
			return fmt.Errorf("could not encode transaction: %w", err)
		}

		// Prefix the native envelope marker SDK-compat sniffs for.
		envelope := append([]byte{0xFF}, txbz...)

		if !alsoBroadcastTx {
			fmt.Println("Signed transaction bytes: ")
			fmt.Printf("0x%x\n", envelope)
			return nil
		}

		logger := cmtlog.NewTMLogger(cmtlog.NewSyncWriter(os.Stdout))
		cli, err := rpc.New(rpcAddr, "/websocket")
		if err != nil {
			return fmt.Errorf("could not connect to RPC server: %w", err)
		}
		cli.SetLogger(logger)

		response, err := cli.BroadcastTxCommit(cmd.Context(), envelope)
		if err != nil {
			return fmt.Errorf("could not broadcast transaction: %w", err)
		}

		if response.TxResult.Code == errs.CodeOK {
			fmt.Println("Transaction successfully broadcast!")
			fmt.Printf("Transaction Hash: %x\n", response.Hash)
			fmt.Printf("Committed Height: %d\n", response.Height)
			return nil
		}

		fmt.Println("An error occurred trying to broadcast transaction.")
		resCheckTx, _ := json.MarshalIndent(response.CheckTx, "", "  ")
		resTxResult, _ := json.MarshalIndent(response.TxResult, "", "  ")
		fmt.Println("CheckTx: ")
		fmt.Print(string(resCheckTx))
		fmt.Println("TxResult: ")
		fmt.Print(string(resTxResult))
		return nil
	},
}

// transferCall builds the opcode+args payload coins.Accounts.Call expects
// for an OpTransfer call: the opcode byte, the 20-byte recipient, then an
// 8-byte big-endian amount.
func transferCall(to plugins.Address, amount uint64) []byte {
	out := make([]byte, 0, 1+len(to)+8)
	out = append(out, byte(coins.OpTransfer))
	out = append(out, to...)
	amt := make([]byte, 8)
	binary.BigEndian.PutUint64(amt, amount)
	out = append(out, amt...)
	return out
}
