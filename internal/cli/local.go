package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/passsecure/passsecure/internal/cipher"
	"github.com/passsecure/passsecure/internal/config"
	"github.com/passsecure/passsecure/internal/passgen"
	"github.com/passsecure/passsecure/internal/vault"
)

// Offline mode: the local commands open the vault directory directly,
// without a server. They share the storage and cipher code the server
// uses, so a vault written offline reads back identically online.
var (
	localVault string
	localUser  string
	localSalt  string

	localOverwrite  bool
	localPassphrase string
	localLength     int
	localSpecial    bool
	localAdd        bool

	localCmd = &cobra.Command{
		Use:   "local",
		Short: "Operate on a vault directory without a server",
	}
)

func init() {
	localCmd.PersistentFlags().StringVarP(&localVault, "vault", "v", "./", "path of the vault")
	localCmd.PersistentFlags().StringVarP(&localUser, "user", "u", "", "vault user the entries belong to")
	localCmd.PersistentFlags().StringVar(&localSalt, "salt", "", "hex-encoded deployment salt for key derivation")
	_ = localCmd.MarkPersistentFlagRequired("user")

	localAddCmd.Flags().BoolVarP(&localOverwrite, "overwrite", "o", false, "overwrite an existing entry")
	localAddCmd.Flags().StringVarP(&localPassphrase, "password", "p", "", "passphrase used to encrypt the entry")

	localGetCmd.Flags().StringVarP(&localPassphrase, "password", "p", "", "passphrase used to decrypt the entry")

	localGenerateCmd.Flags().IntVarP(&localLength, "length", "l", passgen.DefaultLength, "length of the generated password")
	localGenerateCmd.Flags().BoolVarP(&localSpecial, "special", "s", false, "include special characters")
	localGenerateCmd.Flags().BoolVar(&localAdd, "add", false, "store the generated password in the vault")
	localGenerateCmd.Flags().BoolVarP(&localOverwrite, "overwrite", "o", false, "overwrite an existing entry")
	localGenerateCmd.Flags().StringVarP(&localPassphrase, "password", "p", "", "passphrase used to encrypt the entry")

	localCmd.AddCommand(localAddCmd)
	localCmd.AddCommand(localGetCmd)
	localCmd.AddCommand(localRemoveCmd)
	localCmd.AddCommand(localGenerateCmd)
}

// localEngine builds the cipher engine from the salt flag.
func localEngine() (*cipher.Engine, error) {
	salt, err := config.DecodeSalt(localSalt)
	if err != nil {
		return nil, err
	}
	return cipher.New(salt), nil
}

var localAddCmd = &cobra.Command{
	Use:   "add <name> <password>",
	Short: "Add a password to the vault",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		name, password := args[0], args[1]

		content := password
		if localPassphrase != "" {
			engine, err := localEngine()
			if err != nil {
				return err
			}
			if content, err = engine.Encrypt(password, localPassphrase); err != nil {
				return err
			}
		}

		store := vault.NewStore(localVault)
		if err := store.Write(localUser, name, content, localOverwrite); err != nil {
			return err
		}
		fmt.Println(color.GreenString("Successfully saved password"))
		return nil
	},
}

var localGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Get the password for a specific name",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		store := vault.NewStore(localVault)
		content, err := store.Read(localUser, args[0])
		if err != nil {
			return err
		}

		if localPassphrase != "" {
			engine, err := localEngine()
			if err != nil {
				return err
			}
			if content, err = engine.Decrypt(content, localPassphrase); err != nil {
				return err
			}
		}
		fmt.Println("Password : " + content)
		return nil
	},
}

var localRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a password from the vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		store := vault.NewStore(localVault)
		if err := store.Remove(localUser, args[0]); err != nil {
			return err
		}
		fmt.Println(color.GreenString("Successfully removed password"))
		return nil
	},
}

var localGenerateCmd = &cobra.Command{
	Use:   "generate <name>",
	Short: "Generate a new password",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		password, err := passgen.Generate(localLength, localSpecial)
		if err != nil {
			return err
		}
		fmt.Println("Generated password : " + password)

		if !localAdd {
			return nil
		}

		content := password
		if localPassphrase != "" {
			engine, err := localEngine()
			if err != nil {
				return err
			}
			if content, err = engine.Encrypt(password, localPassphrase); err != nil {
				return err
			}
		}

		store := vault.NewStore(localVault)
		if err := store.Write(localUser, args[0], content, localOverwrite); err != nil {
			return err
		}
		fmt.Println(color.GreenString("Successfully saved password"))
		return nil
	},
}
