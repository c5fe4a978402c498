package cli

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/13pathak/AI-Popup-Infopedia/internal/config"
)

// Version is reported by --version
var Version = "dev"

type rootFlags struct {
	configPath string
	debug      bool
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:     "infopedia",
		Version: Version,
		Short:   "Read with AI explanations one selection away",
		Long: `infopedia opens a document in the terminal. Drag across a word or phrase
and an explanation pops up next to it, from whichever model you configured.
Explanations can be saved to word lists, read aloud and backed up.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&flags.configPath, "config", config.DefaultPath(), "config file")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "write debug entries to the log")

	root.AddGroup(
		&cobra.Group{ID: "read", Title: "Reading:"},
		&cobra.Group{ID: "data", Title: "Saved Data:"},
	)

	root.AddCommand(
		newReadCmd(flags),
		newDefineCmd(flags),
		newListsCmd(flags),
		newHistoryCmd(flags),
		newBackupCmd(flags),
		newConfigCmd(flags),
	)
	return root
}

// Execute runs the root command and prints any error
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		PrintError(root.ErrOrStderr(), err.Error())
		return 1
	}
	return 0
}

// withDeps opens the dependencies for the duration of fn
func withDeps(flags *rootFlags, fn func(*Dependencies) error) error {
	deps, err := NewDependencies(flags.configPath, flags.debug)
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close() }()
	return fn(deps)
}

func newReadCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "read <file|url|->",
		Short:   "Open a document in the reader",
		GroupID: "read",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withDeps(flags, func(deps *Dependencies) error {
				return ReadCommand(ctx, deps, args[0], cmd.InOrStdin())
			})
		},
	}
}

func newDefineCmd(flags *rootFlags) *cobra.Command {
	var opts DefineOptions
	cmd := &cobra.Command{
		Use:     "define <text>...",
		Short:   "Explain a word or phrase without opening the reader",
		GroupID: "read",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(flags, func(deps *Dependencies) error {
				return DefineCommand(cmd.Context(), deps, cmd.OutOrStdout(), joinArgs(args), opts)
			})
		},
	}
	cmd.Flags().StringVarP(&opts.ModelID, "model", "m", "", "model id (default from config)")
	cmd.Flags().StringVarP(&opts.PromptID, "prompt", "p", "", "custom prompt id")
	cmd.Flags().StringVarP(&opts.SaveTo, "save", "s", "", "save the result to this list, creating it if needed")
	return cmd
}

func newListsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lists",
		Short:   "Show word lists",
		GroupID: "data",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(flags, func(deps *Dependencies) error {
				return ListsCommand(cmd.Context(), deps, cmd.OutOrStdout())
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a word list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(flags, func(deps *Dependencies) error {
				return CreateListCommand(cmd.Context(), deps, cmd.OutOrStdout(), joinArgs(args))
			})
		},
	})
	return cmd
}

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var opts HistoryOptions
	cmd := &cobra.Command{
		Use:     "history",
		Short:   "Show saved explanations",
		GroupID: "data",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(flags, func(deps *Dependencies) error {
				return HistoryCommand(cmd.Context(), deps, cmd.OutOrStdout(), opts)
			})
		},
	}
	cmd.Flags().StringVarP(&opts.List, "list", "l", "", "only this list")
	cmd.Flags().StringVar(&opts.Match, "match", "", "glob matched against the word, e.g. 'photo*'")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 50, "maximum entries (0 for all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete every saved explanation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(flags, func(deps *Dependencies) error {
				return ClearHistoryCommand(cmd.Context(), deps, cmd.OutOrStdout())
			})
		},
	})
	return cmd
}

func newBackupCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "backup",
		Short:   "Export or check backups",
		GroupID: "data",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Write a backup now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(flags, func(deps *Dependencies) error {
				return BackupExportCommand(cmd.Context(), deps, cmd.OutOrStdout())
			})
		},
	})

	var run bool
	status := &cobra.Command{
		Use:   "status",
		Short: "Show the last backup and whether one is due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(flags, func(deps *Dependencies) error {
				return BackupStatusCommand(cmd.Context(), deps, cmd.OutOrStdout(), run)
			})
		},
	}
	status.Flags().BoolVar(&run, "run", false, "export a backup if one is due")
	cmd.AddCommand(status)
	return cmd
}

func newConfigCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ConfigPathCommand(cmd.OutOrStdout(), flags.configPath)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ConfigInitCommand(cmd.OutOrStdout(), flags.configPath, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

