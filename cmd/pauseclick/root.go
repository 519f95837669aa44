package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/pauseclick/internal/app"
	"github.com/dshills/pauseclick/internal/host"
	"github.com/dshills/pauseclick/internal/plugin"
)

// rootOptions are the flags every subcommand shares.
type rootOptions struct {
	configPath     string
	logLevel       string
	hostVersion    string
	nativeInterval time.Duration
}

func (o *rootOptions) appOptions(cmd *cobra.Command) app.Options {
	return app.Options{
		ConfigPath:     o.configPath,
		LogLevel:       o.logLevel,
		LogOutput:      cmd.ErrOrStderr(),
		HostVersion:    o.hostVersion,
		NativeInterval: o.nativeInterval,
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "pauseclick",
		Short: plugin.Description,
		Long: plugin.Description + `.

Runs the pause_click plugin inside a reference media player host. Scenario
scripts drive the host with a virtual clock; the terminal host lets you click
the "video" yourself.`,
		Version:       fmt.Sprintf("%s (plugin %s)", version, plugin.Version),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "settings file (TOML, YAML or JSON)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.hostVersion, "host-version", host.DefaultVersion.String(), "imitated host release (2.1, 2.2, 3, 4)")
	flags.DurationVar(&opts.nativeInterval, "native-interval", host.DefaultNativeInterval, "the host's own double-click interval")

	root.AddCommand(
		newRunCmd(opts),
		newTermCmd(opts),
		newManifestCmd(opts),
		newSettingsCmd(opts),
		newVersionCmd(),
	)
	return root
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var allVersions bool

	cmd := &cobra.Command{
		Use:   "run <script.lua>...",
		Short: "Run scenario scripts against the reference host",
		Example: `  pauseclick run testdata/single_click.lua
  pauseclick run --all-versions -c pauseclick.toml scripts/*.lua`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(opts.appOptions(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			var versions []host.Version
			if allVersions {
				versions = host.Versions()
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			reports, err := a.RunScenarios(ctx, versions, args, cmd.OutOrStdout())
			a.Logger().Info("%d runs: %s", len(reports), a.Metrics().Snapshot())
			return err
		},
	}
	cmd.Flags().BoolVar(&allVersions, "all-versions", false, "run every script against every host release")
	return cmd
}

func newTermCmd(opts *rootOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "term",
		Short: "Run the interactive terminal host",
		Long: `Run the reference host in the terminal. Clicking the screen drives the
plugin. Keys: q quits, m toggles the disc menu, i attaches or detaches the
interface sub-module.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, ok := cmd.OutOrStdout().(*os.File)
			if !ok {
				return app.ErrNotATerminal
			}
			if err := app.CheckTerminal(f.Fd()); err != nil {
				return err
			}

			o := opts.appOptions(cmd)
			o.Watch = watch
			// The screen owns the terminal; log lines would corrupt it.
			o.LogOutput = io.Discard
			a, err := app.New(o)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return a.RunTerminal(ctx, nil)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", true, "reload the settings file when it changes")
	return cmd
}

func newManifestCmd(opts *rootOptions) *cobra.Command {
	var text bool

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Print the plugin manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(opts.appOptions(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			m := a.Manifest()
			if err := m.Validate(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if text {
				_, err := io.WriteString(out, m.Text())
				return err
			}
			data, err := m.JSON()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(data))
			return err
		},
	}
	cmd.Flags().BoolVar(&text, "text", false, "print the manifest as text instead of JSON")
	return cmd
}

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Print the resolved settings and where each came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(opts.appOptions(cmd))
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tVALUE\tSOURCE")
			for _, v := range a.SettingValues() {
				fmt.Fprintf(tw, "%s\t%v\t%s\n", v.Key, v.Value, v.Source)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "\nhost %s: %s\n", a.HostVersion(), a.Settings())
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pauseclick %s\n", version)
			fmt.Fprintf(out, "Plugin: %s %s\n", plugin.Name, plugin.Version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
