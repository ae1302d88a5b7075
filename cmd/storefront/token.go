package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/youta-t/flarc"

	"github.com/shanedle/cipher-cart/internal/identity"
	"github.com/shanedle/cipher-cart/pkg/config"
)

type tokenFlags struct {
	User  string        `flag:"user" help:"required. user id carried by the token"`
	Name  string        `flag:"name" help:"full name"`
	Email string        `flag:"email" help:"primary email"`
	TTL   time.Duration `flag:"ttl" help:"token lifetime"`
}

func newTokenCommand(cfg config.Config) (flarc.Command, error) {
	return flarc.NewCommand(
		"Print a session token for local testing.",
		tokenFlags{TTL: 24 * time.Hour},
		flarc.Args{},
		func(ctx context.Context, c flarc.Commandline[tokenFlags], _ []any) error {
			return mintToken(c.Stdout(), cfg, c.Flags())
		},
		flarc.WithDescription(`
Sign a session token with SESSION_SECRET:

	{{ .Command }} --user user_1 --name "Ada Lovelace" --email ada@example.com
`),
	)
}

func mintToken(out io.Writer, cfg config.Config, flags tokenFlags) error {
	if flags.User == "" {
		return fmt.Errorf("%w: flag `--user` is required", flarc.ErrUsage)
	}
	if cfg.Session.Secret == "" {
		return errors.New("SESSION_SECRET must be set to mint tokens")
	}

	token, err := identity.Sign([]byte(cfg.Session.Secret), cfg.Session.Issuer, identity.User{
		ID:           flags.User,
		FullName:     flags.Name,
		PrimaryEmail: flags.Email,
	}, flags.TTL)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
