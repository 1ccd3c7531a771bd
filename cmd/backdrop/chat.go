package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/latentecho/backdrop/internal/chat"
	"github.com/latentecho/backdrop/internal/chat/widget"
	"github.com/latentecho/backdrop/internal/config"
	"github.com/latentecho/backdrop/internal/pin"
	"github.com/latentecho/backdrop/internal/storage"
	"github.com/latentecho/backdrop/internal/style"
	"github.com/latentecho/backdrop/internal/telemetry"
	"github.com/latentecho/backdrop/internal/theme"
)

var chatClear bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the PIN-protected chat",
	Long: `Open the chat widget in the terminal. The widget stays locked until the PIN matching
chat.pin_hash is entered; generate a hash with "backdrop pinhash".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Chat.PINHash == "" {
			return errors.New("chat.pin_hash is not set; generate one with backdrop pinhash")
		}
		gate, err := pin.NewGate(cfg.Chat.PINHash)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		tp, err := telemetry.Setup(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName)
		if err != nil {
			return err
		}
		defer shutdownTelemetry(tp)

		store, err := storage.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		if chatClear {
			if err := store.ClearMessages(ctx); err != nil {
				return err
			}
		}

		sheet, err := style.LoadStylesheet(cfg.Theme.Stylesheet)
		if err != nil {
			return err
		}
		themeName, err := storedTheme(ctx, store, cfg)
		if err != nil {
			return err
		}

		client := chat.NewClient(cfg.ChatEndpoint(),
			chat.WithTimeout(cfg.Chat.Timeout),
			chat.WithTracer(tp.Tracer("backdrop/chat")),
		)
		dispatcher := chat.NewDispatcher(client, cfg.Chat.Workers)
		defer dispatcher.Close()

		model := widget.New(gate, dispatcher,
			widget.WithTranscript(store),
			widget.WithTokens(style.NewResolver(sheet, style.StaticTheme(themeName))),
			widget.WithContext(ctx),
		)
		if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
			return fmt.Errorf("running chat: %w", err)
		}
		return nil
	},
}

func init() {
	chatCmd.Flags().BoolVar(&chatClear, "clear", false, "clear the saved transcript first")
	rootCmd.AddCommand(chatCmd)
}

// storedTheme returns the persisted theme, or the one the environment and config default select.
func storedTheme(ctx context.Context, store storage.Store, cfg *config.Config) (string, error) {
	name, err := store.Get(ctx, theme.StorageKey)
	switch {
	case err == nil && name != "":
		return name, nil
	case err != nil && !errors.Is(err, storage.ErrNotFound):
		return "", err
	}
	if dark, _ := preference(cfg).PrefersDark(); dark {
		return style.ThemeDark, nil
	}
	return style.ThemeLight, nil
}
