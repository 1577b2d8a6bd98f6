package main

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harrisonrobin/systasks/pkg/auth"
	"github.com/harrisonrobin/systasks/pkg/config"
	"github.com/harrisonrobin/systasks/pkg/keychain"
	"github.com/harrisonrobin/systasks/pkg/notion"
	"github.com/harrisonrobin/systasks/pkg/store"
)

var revealSecret bool

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Store the Notion credentials and pick the store and notifiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		kc, err := keychain.Open(cfgDir)
		if err != nil {
			return err
		}

		token := kc.Get(keychain.TokenKey)
		dbID := kc.Get(keychain.DatabaseKey)
		backend := cfg.Store
		notifiers := slices.Clone(cfg.Notifiers)
		calendarName := cfg.Calendar

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Notion integration token").
					Description("Settings → Connections → Develop or manage integrations").
					EchoMode(huh.EchoModePassword).
					Value(&token).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return errors.New("token is required")
						}
						return nil
					}),
				huh.NewInput().
					Title("Systems database id").
					Description("The 32 hex characters in the database URL").
					Value(&dbID).
					Validate(func(s string) error {
						_, err := notion.NormalizeID(s)
						return err
					}),
			),
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Snapshot store").
					Options(
						huh.NewOption("JSON files", store.BackendFile),
						huh.NewOption("SQLite database", store.BackendSQLite),
					).
					Value(&backend),
				huh.NewMultiSelect[string]().
					Title("Notify through").
					Options(
						huh.NewOption("Terminal", "terminal"),
						huh.NewOption("Google Calendar", "calendar"),
					).
					Value(&notifiers),
				huh.NewInput().
					Title("Google Calendar name").
					Value(&calendarName),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}

		dbID, _ = notion.NormalizeID(dbID)
		if err := kc.Set(keychain.TokenKey, strings.TrimSpace(token)); err != nil {
			return err
		}
		if err := kc.Set(keychain.DatabaseKey, dbID); err != nil {
			return err
		}

		cfg.Store = backend
		cfg.Notifiers = notifiers
		cfg.Calendar = calendarName
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("error saving config: %w", err)
		}
		fmt.Printf("Saved credentials to %s\n", kc.Path)
		if slices.Contains(notifiers, "calendar") {
			fmt.Println("Run `systasks auth` to authorize Google Calendar.")
		}
		return nil
	},
}

var keychainCmd = &cobra.Command{
	Use:   "keychain",
	Short: "Read or write stored secrets",
}

var keychainSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a secret (" + keychain.TokenKey + ", " + keychain.DatabaseKey + ")",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kc, err := keychain.Open(cfgDir)
		if err != nil {
			return err
		}
		value := args[1]
		if args[0] == keychain.DatabaseKey {
			if value, err = notion.NormalizeID(value); err != nil {
				return err
			}
		}
		if err := kc.Set(args[0], value); err != nil {
			return err
		}
		logger.Info("secret stored", zap.String("key", args[0]), zap.String("path", kc.Path))
		return nil
	},
}

var keychainGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a secret, or list the stored keys",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kc, err := keychain.Open(cfgDir)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			for _, k := range kc.Keys() {
				fmt.Println(k)
			}
			return nil
		}
		if !kc.Contains(args[0]) {
			return fmt.Errorf("no secret stored under %q", args[0])
		}
		value := kc.Get(args[0])
		if !revealSecret {
			value = mask(value)
		}
		fmt.Println(value)
		return nil
	},
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize Google Calendar for the calendar notifier",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := auth.RemoveToken(cfgDir); err != nil {
			return err
		}
		if _, err := auth.GetCalendarService(cmd.Context(), cfgDir, logger); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Authentication successful! Token saved to %s\n", auth.TokenFile)
		return nil
	},
}

func init() {
	keychainGetCmd.Flags().BoolVar(&revealSecret, "reveal", false, "Print the full secret")
	keychainCmd.AddCommand(keychainSetCmd, keychainGetCmd)
	rootCmd.AddCommand(setupCmd, keychainCmd, authCmd)
}

// mask keeps the first and last four characters of long secrets.
func mask(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}
