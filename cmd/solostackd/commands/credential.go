package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/solostack/solostack/internal/securestore"
	"github.com/solostack/solostack/internal/selftest"
)

func credentialCommand() *cli.Command {
	return &cli.Command{
		Name:  "credential",
		Usage: "manage sync provider credentials in the OS secure store",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "print the stored auth value for a provider",
				ArgsUsage: "<provider>",
				Action:    credentialGetAction,
			},
			{
				Name:      "set",
				Usage:     "store an auth value for a provider (read from the terminal, never argv)",
				ArgsUsage: "<provider>",
				Action:    credentialSetAction,
			},
			{
				Name:      "delete",
				Usage:     "remove the stored auth value for a provider",
				ArgsUsage: "<provider>",
				Action:    credentialDeleteAction,
			},
			{
				Name:   "self-test",
				Usage:  "exercise the secure store with a write/read/delete round trip",
				Action: credentialSelfTestAction,
			},
		},
	}
}

// newCredentialService builds the credential service the same way the serve
// path does, minus the UI bridge: the CLI only runs on desktop platforms.
func newCredentialService(cmd *cli.Command) (*securestore.Service, error) {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	backend, err := securestore.ForPlatform(cfg.SecureStore.Service, nil, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to select secure store backend: %w", err)
	}

	return securestore.NewService(backend, slog.Default())
}

func providerArg(cmd *cli.Command) (string, error) {
	provider := cmd.Args().First()
	if provider == "" {
		return "", fmt.Errorf("missing <provider> argument")
	}
	return provider, nil
}

func credentialGetAction(ctx context.Context, cmd *cli.Command) error {
	provider, err := providerArg(cmd)
	if err != nil {
		return err
	}

	creds, err := newCredentialService(cmd)
	if err != nil {
		return err
	}

	secret, found, err := creds.GetAuth(ctx, provider)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no credential stored for provider %q", provider)
	}

	fmt.Println(secret)
	return nil
}

func credentialSetAction(ctx context.Context, cmd *cli.Command) error {
	provider, err := providerArg(cmd)
	if err != nil {
		return err
	}

	creds, err := newCredentialService(cmd)
	if err != nil {
		return err
	}

	auth, err := readSecret()
	if err != nil {
		return fmt.Errorf("reading auth value: %w", err)
	}

	if err := creds.SetAuth(ctx, provider, auth); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "credential stored for provider %q\n", provider)
	return nil
}

func credentialDeleteAction(ctx context.Context, cmd *cli.Command) error {
	provider, err := providerArg(cmd)
	if err != nil {
		return err
	}

	creds, err := newCredentialService(cmd)
	if err != nil {
		return err
	}

	if err := creds.DeleteAuth(ctx, provider); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "credential deleted for provider %q\n", provider)
	return nil
}

func credentialSelfTestAction(ctx context.Context, cmd *cli.Command) error {
	creds, err := newCredentialService(cmd)
	if err != nil {
		return err
	}

	result := selftest.Run(ctx, creds.Backend())

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if !result.RoundtripOK {
		return fmt.Errorf("secure store self-test failed: %s", result.Detail)
	}
	return nil
}

// readSecret reads the auth value without echo when stdin is a terminal, or
// from piped stdin otherwise.
func readSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Auth value: ")
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
