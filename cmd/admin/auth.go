package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	adminusecase "papertrade_backend/internal/feature/admin/usecase"
	"papertrade_backend/internal/platform/config"
	jwtmw "papertrade_backend/internal/platform/jwt"
)

type tokenCmd struct {
	ttl time.Duration
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "print an admin bearer token signed with ADMIN_JWT_SECRET" }
func (*tokenCmd) Usage() string {
	return `token [-ttl <duration>]
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.ttl, "ttl", 0, "token lifetime (defaults to ADMIN_TOKEN_TTL)")
}

func (c *tokenCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if cfg.Admin.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "Error: ADMIN_JWT_SECRET is not set.")
		return subcommands.ExitFailure
	}
	ttl := c.ttl
	if ttl <= 0 {
		ttl = cfg.Admin.TokenTTL
	}
	token, err := jwtmw.NewGenerator(cfg.Admin.JWTSecret, ttl).GenerateToken("admin", jwtmw.RoleAdmin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(token)
	return subcommands.ExitSuccess
}

type hashPasswordCmd struct {
	password string
}

func (*hashPasswordCmd) Name() string     { return "hash-password" }
func (*hashPasswordCmd) Synopsis() string { return "print the bcrypt hash to use as ADMIN_PASSWORD_HASH" }
func (*hashPasswordCmd) Usage() string {
	return `hash-password -password <password>
`
}

func (c *hashPasswordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.password, "password", "", "admin password (at least 8 characters)")
}

func (c *hashPasswordCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	hash, err := adminusecase.HashPassword(c.password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	fmt.Println(hash)
	return subcommands.ExitSuccess
}
