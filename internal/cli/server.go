package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/passsecure/passsecure/internal/cipher"
	"github.com/passsecure/passsecure/internal/config"
	"github.com/passsecure/passsecure/internal/logger"
	"github.com/passsecure/passsecure/internal/server"
	"github.com/passsecure/passsecure/internal/vault"
)

var (
	serverOpts       config.ServerOptions
	serverConfigPath string

	serverCmd = &cobra.Command{
		Use:   "server",
		Short: "Start the pass-secure server",
		RunE:  runServer,
	}
)

func init() {
	serverCmd.Flags().StringVarP(&serverOpts.Addr, "addr", "a", config.DefaultAddr, "listen address (ip:port)")
	serverCmd.Flags().StringVarP(&serverOpts.Vault, "vault", "v", "./", "path of the vault used to store and retrieve passwords")
	serverCmd.Flags().IntVarP(&serverOpts.Workers, "workers", "t", config.DefaultWorkers, "maximum number of concurrently served connections")
	serverCmd.Flags().StringVar(&serverOpts.DebugAddr, "debug-addr", "", "serve the HTTP debug endpoint on this address")
	serverCmd.Flags().StringVar(&serverOpts.Salt, "salt", "", "hex-encoded deployment salt for key derivation")
	serverCmd.Flags().StringVar(&serverOpts.LogLevel, "log-level", "Info", "log level")
	serverCmd.Flags().StringVarP(&serverConfigPath, "config", "c", "", "path to a JSON config file")
}

func runServer(_ *cobra.Command, _ []string) error {
	if err := config.LoadServer(serverConfigPath, &serverOpts); err != nil {
		return err
	}

	log := logger.New()
	if err := log.Init(serverOpts.LogLevel); err != nil {
		return err
	}
	defer func() { _ = log.Log.Sync() }()

	salt, err := config.DecodeSalt(serverOpts.Salt)
	if err != nil {
		return err
	}

	store := vault.NewStore(serverOpts.Vault)
	engine := cipher.New(salt)
	srv := server.New(serverOpts.Workers, store, engine, log.Log)

	if serverOpts.DebugAddr != "" {
		server.ServeDebug(serverOpts.DebugAddr, srv, log.Log)
	}

	log.Log.Info("starting server",
		zap.String("vault", serverOpts.Vault),
		zap.Int("workers", serverOpts.Workers))
	return srv.ListenAndServe(serverOpts.Addr)
}
