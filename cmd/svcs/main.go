// cmd/svcs/main.go
package main

import (
	"fmt"
	"io"
	"os"

	"svcs/internal/config"
	apperrors "svcs/internal/errors"
	"svcs/internal/logging"
	"svcs/internal/parcel"

	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const usage = `These are SVCS commands:
config      Get and set a username.
add         Add a file to the index.
log         Show commit logs.
commit      Save changes.
checkout    Restore a file.
`

var (
	success = color.New(color.FgGreen)
	notice  = color.New(color.FgYellow)
)

// app carries what every command needs. Commands write to out and never to
// os.Stdout directly.
type app struct {
	root   string
	cfg    *config.Config
	logger *logging.Logger
	out    io.Writer
	errOut io.Writer

	parcel *parcel.Parcel
}

func main() {
	cfg, err := config.LoadOrDefault(config.Path())
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: initializing logger:", err)
		os.Exit(1)
	}

	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error: getting current directory:", err)
		os.Exit(1)
	}

	a := &app{
		root:   dir,
		cfg:    cfg,
		logger: logger,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	code := a.run(os.Args[1:])
	logger.Sync()
	os.Exit(code)
}

// run executes one command and returns the process exit code. Typed outcomes
// such as "Nothing to commit." are printed and count as success.
func (a *app) run(args []string) int {
	defer func() {
		if err := a.parcel.Close(); err != nil {
			a.logger.Warn("closing repository", zap.Error(err))
		}
		a.parcel = nil
	}()

	// cobra falls back to os.Args when given nil.
	if args == nil {
		args = []string{}
	}

	cmd := newRootCmd(a)

	// Only the first token names a command. cobra skips flag-shaped tokens
	// while looking for a subcommand, so anything else is pinned to the root.
	if len(args) > 0 && !isSubcommand(cmd, args[0]) {
		args = append([]string{"--"}, args...)
	}
	cmd.SetArgs(args)
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	err := cmd.Execute()
	if err == nil {
		return 0
	}
	if e, ok := apperrors.As(err); ok {
		notice.Fprintln(a.out, e.Message)
		return 0
	}

	a.logger.Error("command failed", zap.Strings("args", args), zap.Error(err))
	fmt.Fprintln(a.errOut, "error:", err)
	return 1
}

func (a *app) open() error {
	if a.parcel != nil {
		return nil
	}
	p, err := parcel.New(a.root, parcel.Options{
		DirName:   a.cfg.RepoDir,
		CacheSize: a.cfg.Cache.Size,
		Logger:    a.logger.Logger,
	})
	if err != nil {
		return fmt.Errorf("opening repository: %w", err)
	}
	a.parcel = p
	return nil
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "svcs",
		Short:         "A minimal version control system",
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableFlagParsing: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && args[0] == "--" {
				args = args[1:]
			}
			if len(args) == 0 || args[0] == "" || args[0] == "--help" {
				return cmd.Help()
			}
			return apperrors.UnknownCommand(args[0])
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), usage)
	})
	// "help" is not a command of its own; it falls through to the unknown
	// command message like any other token.
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.AddCommand(
		newConfigCmd(a),
		newAddCmd(a),
		newLogCmd(a),
		newCommitCmd(a),
		newCheckoutCmd(a),
	)
	return rootCmd
}

func isSubcommand(root *cobra.Command, name string) bool {
	for _, c := range root.Commands() {
		if c.Name() == name {
			return true
		}
	}
	return false
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:                "config [name]",
		Short:              "Get and set a username.",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) > 0 {
				if err := a.parcel.SetUsername(args[0]); err != nil {
					return fmt.Errorf("setting username: %w", err)
				}
				success.Fprintf(out, "The username is %s.\n", args[0])
				return nil
			}

			name, ok, err := a.parcel.Username()
			if err != nil {
				return fmt.Errorf("reading username: %w", err)
			}
			if !ok {
				notice.Fprintln(out, "Please, tell me who you are.")
				return nil
			}
			fmt.Fprintf(out, "The username is %s.\n", name)
			return nil
		},
	}
}

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:                "add [path]",
		Short:              "Add a file to the index.",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				tracked, err := a.parcel.Tracked()
				if err != nil {
					return fmt.Errorf("listing tracked files: %w", err)
				}
				if len(tracked) == 0 {
					notice.Fprintln(out, "Add a file to the index.")
					return nil
				}
				fmt.Fprintln(out, "Tracked files:")
				for _, path := range tracked {
					fmt.Fprintln(out, path)
				}
				return nil
			}

			name, added, err := a.parcel.Track(args[0])
			if err != nil {
				return err
			}
			if !added {
				fmt.Fprintf(out, "The file '%s' is already tracked.\n", name)
				return nil
			}
			success.Fprintf(out, "The file '%s' is tracked.\n", name)
			return nil
		},
	}
}

func newLogCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:                "log",
		Short:              "Show commit logs.",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.parcel.Log()
			if err != nil {
				return fmt.Errorf("reading log: %w", err)
			}
			if text == "" {
				notice.Fprintln(cmd.OutOrStdout(), "No commits yet.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newCommitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:                "commit <message>",
		Short:              "Save changes.",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var message string
			if len(args) > 0 {
				message = args[0]
			}

			// The catalog is secondary: a commit goes ahead without it when
			// the database cannot be opened, e.g. while another process holds it.
			if message != "" && a.cfg.Catalog.Enabled {
				if err := a.parcel.OpenCatalog(); err != nil {
					a.logger.Warn("catalog unavailable", zap.Error(err))
				}
			}

			id, err := a.parcel.Commit(message)
			if err != nil {
				return err
			}

			a.logger.Debug("commit created", zap.String("id", id))
			success.Fprintln(cmd.OutOrStdout(), "Changes are committed.")
			return nil
		},
	}
}

func newCheckoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:                "checkout <id>",
		Short:              "Restore a file.",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) > 0 {
				id = args[0]
			}

			if _, err := a.parcel.Checkout(id); err != nil {
				return err
			}

			success.Fprintf(cmd.OutOrStdout(), "Switched to commit %s.\n", id)
			return nil
		},
	}
}
