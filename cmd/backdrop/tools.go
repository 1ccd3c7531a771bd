package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/latentecho/backdrop/engine/host"
	"github.com/latentecho/backdrop/internal/dirtree"
	"github.com/latentecho/backdrop/internal/pin"
	"github.com/latentecho/backdrop/internal/readtime"
	"github.com/latentecho/backdrop/internal/storage"
	"github.com/latentecho/backdrop/internal/theme"
)

var pinhashCmd = &cobra.Command{
	Use:   "pinhash PIN",
	Short: "Print the SHA-256 hash of a chat PIN",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := pin.Validate(args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), pin.Hash(args[0]))
		return nil
	},
}

var themeCmd = &cobra.Command{
	Use:   "theme [get|set THEME|toggle]",
	Short: "Show or change the stored theme preference",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := storage.OpenSQLite(cfg.Storage.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		m := theme.NewManager(host.NewMemoryDocument(), store,
			theme.WithPreference(preference(cfg)),
		)
		if err := m.Init(ctx); err != nil {
			return err
		}
		defer m.Teardown()

		action := "get"
		if len(args) > 0 {
			action = args[0]
		}
		switch action {
		case "get":
		case "set":
			if len(args) != 2 {
				return errors.New("theme set requires a theme name")
			}
			if err := m.Apply(ctx, args[1]); err != nil {
				return err
			}
		case "toggle":
			if _, err := m.Toggle(ctx); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown theme action %q", action)
		}
		fmt.Fprintln(cmd.OutOrStdout(), m.Theme())
		return nil
	},
}

var (
	treeOutput      string
	treeIgnoreDirs  []string
	treeIgnoreFiles []string
)

var treeCmd = &cobra.Command{
	Use:   "tree [DIR]",
	Short: "Write a directory tree report",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := "."
		if len(args) == 1 {
			root = args[0]
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			return err
		}

		var opts []dirtree.GeneratorBuilderOption
		if cmd.Flags().Changed("ignore-dir") {
			opts = append(opts, dirtree.WithIgnoreDirs(treeIgnoreDirs...))
		}
		if cmd.Flags().Changed("ignore-file") {
			opts = append(opts, dirtree.WithIgnoreFiles(treeIgnoreFiles...))
		}
		lines, err := dirtree.NewGenerator(opts...).Generate(os.DirFS(abs), abs)
		if err != nil {
			return err
		}

		if treeOutput == "-" {
			return dirtree.Write(cmd.OutOrStdout(), lines, time.Now())
		}
		f, err := os.Create(treeOutput)
		if err != nil {
			return err
		}
		if err := dirtree.Write(f, lines, time.Now()); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Directory tree has been saved to %s\n", treeOutput)
		return nil
	},
}

var readtimeCmd = &cobra.Command{
	Use:   "readtime FILE",
	Short: "Estimate the reading time of a text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), readtime.Label(string(data)))
		return nil
	},
}

func init() {
	treeCmd.Flags().StringVarP(&treeOutput, "output", "o", "directory_tree.txt", `output file, "-" for stdout`)
	treeCmd.Flags().StringSliceVar(&treeIgnoreDirs, "ignore-dir", dirtree.DefaultIgnoreDirs, "directory name patterns to skip")
	treeCmd.Flags().StringSliceVar(&treeIgnoreFiles, "ignore-file", dirtree.DefaultIgnoreFiles, "file name patterns to skip")

	rootCmd.AddCommand(pinhashCmd, themeCmd, treeCmd, readtimeCmd)
}
