// Command sitelist browses a remote list of websites, keeping an offline copy
// for when the source is unreachable.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/morikuni/failure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/five82/sitelist/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		msg := err.Error()
		if fmsg := failure.MessageOf(err); fmsg != "" {
			msg = fmsg.String()
		}
		fmt.Fprintf(os.Stderr, "sitelist: %s\n", msg)
		return 1
	}
	return 0
}

func addGlobalFlags(fs *pflag.FlagSet, opts *app.Options) {
	fs.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/sitelist/config.toml)")
	fs.StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default ~/.config/sitelist/prefs.toml)")
	fs.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr for non-interactive commands")
}

func interactive() bool {
	for _, f := range []*os.File{os.Stdin, os.Stdout} {
		if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
			return false
		}
	}
	return true
}

func newRootCmd() *cobra.Command {
	opts := &app.Options{}

	root := &cobra.Command{
		Use:           "sitelist",
		Short:         "Browse a remote list of websites",
		SilenceErrors: true,
		SilenceUsage:  true,
		Long: `sitelist shows a list of websites fetched from a remote JSON endpoint.
The last good list is kept as an offline copy and shown when the endpoint
cannot be reached.

Run without arguments in a terminal to open the interactive browser. When
output is not a terminal the list is printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !interactive() {
				return app.List(cmd.Context(), *opts, app.ListOptions{}, cmd.OutOrStdout())
			}
			return app.Run(cmd.Context(), *opts)
		},
	}
	addGlobalFlags(root.PersistentFlags(), opts)

	root.AddCommand(
		newListCmd(opts),
		newCacheCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newListCmd(opts *app.Options) *cobra.Command {
	var lopts app.ListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch once and print the websites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.List(cmd.Context(), *opts, lopts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&lopts.Search, "search", "s", "", "only websites whose name or description contains this text")
	cmd.Flags().BoolVar(&lopts.Sort, "sort", false, "sort by name, case-insensitively")
	cmd.Flags().BoolVar(&lopts.JSON, "json", false, "print the list as a JSON array")
	return cmd
}

func newCacheCmd(opts *app.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or remove the offline copy",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Describe the offline copy",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.ShowCache(cmd.Context(), *opts, cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete the offline copy",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return app.ClearCache(cmd.Context(), *opts, cmd.OutOrStdout())
			},
		},
	)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sitelist version %s\n", app.Version())
		},
	}
}
