package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MKhiriev/go-zk-vault/internal/client"
	"github.com/MKhiriev/go-zk-vault/internal/config"
	"github.com/MKhiriev/go-zk-vault/internal/logger"
	"github.com/MKhiriev/go-zk-vault/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// passwordPrompt asks for a secret without echoing it.
type passwordPrompt func(label string) (string, error)

// cli holds the state shared by all zkvault commands. The app is opened
// lazily by the commands that need a store.
type cli struct {
	in     io.Reader
	lines  *bufio.Reader
	out    io.Writer
	errOut io.Writer
	prompt passwordPrompt
	info   models.AppBuildInfo

	app *client.App
	log *logger.Logger
}

func newCLI(in io.Reader, out, errOut io.Writer) *cli {
	c := &cli{
		in:     in,
		out:    out,
		errOut: errOut,
		info:   models.NewAppBuildInfo(buildVersion, buildDate, buildCommit),
	}
	c.prompt = c.readPassword
	return c
}

func (c *cli) root() *cobra.Command {
	root := &cobra.Command{
		Use:   "zkvault",
		Short: "zkvault - a zero-knowledge password vault.",
		Long: `zkvault keeps passwords in vaults that are encrypted on this machine.

Every vault has its own random key, wrapped under a key derived from the
vault password. Only ciphertext ever reaches the storage backend, which can
be a local SQLite database, a JSON file or a remote vault server.

Usage:
  zkvault <command> [flags]

Run 'zkvault help <command>' for more details on a specific command.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		c.vaultCmd(),
		c.itemCmd(),
		c.generateCmd(),
		c.sessionCmd(),
		c.versionCmd(),
	)
	return root
}

// open loads the configuration and opens the client app.
func (c *cli) open(cmd *cobra.Command, _ []string) error {
	cfg, err := config.GetClientConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}

	c.log = logger.NewClientLogger("zkvault", cfg.App.LogFile)

	app, err := client.NewApp(cmd.Context(), cfg, c.info, c.log)
	if err != nil {
		c.log.Err(err).Str("func", "main.open").Msg("init client app error")
		return err
	}
	c.app = app
	return nil
}

func (c *cli) close(*cobra.Command, []string) error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

// withApp wraps run so the app is closed on every path, including errors.
func (c *cli) withApp(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if err = c.open(cmd, args); err != nil {
			return err
		}
		cmd.SetContext(c.log.WithContext(cmd.Context()))
		defer func() {
			if closeErr := c.close(cmd, args); err == nil {
				err = closeErr
			}
		}()
		return run(cmd, args)
	}
}

// unlock opens the vault named by ref, asking for its password.
func (c *cli) unlock(ctx context.Context, ref string) (models.VaultSummary, error) {
	summary, err := c.app.ResolveVault(ctx, ref)
	if err != nil {
		return models.VaultSummary{}, err
	}

	pw, err := c.prompt(fmt.Sprintf("Password for vault %q: ", summary.Name))
	if err != nil {
		return models.VaultSummary{}, err
	}
	if err = c.app.Vaults().Unlock(ctx, summary.ID, pw); err != nil {
		return models.VaultSummary{}, err
	}
	return summary, nil
}

// readPassword reads a line without echo when stdin is a terminal, and a
// plain line otherwise so that scripts can pipe the password in.
func (c *cli) readPassword(label string) (string, error) {
	fmt.Fprint(c.errOut, label)

	if f, ok := c.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.errOut)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(pw), nil
	}

	if c.lines == nil {
		c.lines = bufio.NewReader(c.in)
	}
	line, err := c.lines.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) success(format string, args ...any) {
	fmt.Fprintln(c.out, color.GreenString("✓")+" "+fmt.Sprintf(format, args...))
}

func (c *cli) hint(format string, args ...any) {
	fmt.Fprintln(c.out, color.CyanString("→")+" "+fmt.Sprintf(format, args...))
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printBuildInfo(c.out, c.info)
		},
	}
}
