package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/mtlobby/internal/config"
	"github.com/mcoot/mtlobby/internal/dependencies/random"
	"github.com/mcoot/mtlobby/internal/model"
	"github.com/mcoot/mtlobby/internal/services/cipher"
)

func newIdentityCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Work with handshake identity blobs",
	}

	cmd.AddCommand(newIdentitySealCmd(cfg))
	cmd.AddCommand(newIdentityOpenCmd(cfg))

	return cmd
}

func newIdentitySealCmd(cfg *Config) *cobra.Command {
	var (
		userToken string
		name      string
		avatar    string
		rating    float64
		tables    []string
	)

	cmd := &cobra.Command{
		Use:   "seal",
		Short: "Encrypt an identity blob the way the game server does",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userToken == "" {
				return errors.New("--user-token is required")
			}
			svc, err := newCipher(cfg.CipherKey)
			if err != nil {
				return err
			}

			identity := &model.Identity{
				Name:      name,
				Avatar:    avatar,
				PlayerID:  model.PlayerID(userToken),
				CreatedAt: time.Now().UTC(),
				Rating:    rating,
			}
			for _, t := range tables {
				identity.Tables = append(identity.Tables, model.TableEntry{TableID: model.TableID(t)})
			}

			blob, err := svc.Encrypt(identity)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(blob))
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.CipherKey, "key", cfg.CipherKey, "Cipher key, raw or base64: prefixed (env: CIPHER_KEY)")
	cmd.Flags().StringVar(&userToken, "user-token", "", "Player's user token")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar URL")
	cmd.Flags().Float64Var(&rating, "rating", 0, "Player rating")
	cmd.Flags().StringArrayVar(&tables, "table", nil, "Side table token held by the player (repeatable)")

	return cmd
}

func newIdentityOpenCmd(cfg *Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <blob>",
		Short: "Decrypt an identity blob and print its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newCipher(cfg.CipherKey)
			if err != nil {
				return err
			}

			identity, err := svc.Decrypt([]byte(args[0]))
			if err != nil {
				return err
			}
			NewOutput("json", cmd.OutOrStdout()).Print(identity)
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.CipherKey, "key", cfg.CipherKey, "Cipher key, raw or base64: prefixed (env: CIPHER_KEY)")

	return cmd
}

func newCipher(raw string) (*cipher.Service, error) {
	if raw == "" {
		return nil, errors.New("a cipher key is required (--key or CIPHER_KEY)")
	}
	key, err := (&config.Config{CipherKey: raw}).Key()
	if err != nil {
		return nil, err
	}
	return cipher.New(key, random.New())
}
