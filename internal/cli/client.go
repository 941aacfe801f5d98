package cli

import (
	"fmt"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/passsecure/passsecure/internal/cipher"
	"github.com/passsecure/passsecure/internal/client"
	"github.com/passsecure/passsecure/internal/config"
)

var (
	clientOpts       config.ClientOptions
	clientConfigPath string

	clientCmd = &cobra.Command{
		Use:   "client",
		Short: "Connect to a pass-secure server",
		RunE:  runClient,
	}
)

func init() {
	clientCmd.Flags().StringVarP(&clientOpts.Addr, "addr", "a", "localhost"+config.DefaultAddr, "server address to connect to")
	clientCmd.Flags().StringVar(&clientOpts.Salt, "salt", "", "hex-encoded deployment salt for key derivation")
	clientCmd.Flags().StringVarP(&clientConfigPath, "config", "c", "", "path to a JSON config file")
}

func runClient(_ *cobra.Command, _ []string) error {
	if err := config.LoadClient(clientConfigPath, &clientOpts); err != nil {
		return err
	}

	salt, err := config.DecodeSalt(clientOpts.Salt)
	if err != nil {
		return err
	}

	conn, err := net.Dial("tcp", clientOpts.Addr)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", clientOpts.Addr, err)
	}
	defer conn.Close()

	repl := client.New(conn, os.Stdin, os.Stdout, cipher.New(salt))
	return repl.Run()
}
