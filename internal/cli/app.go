// Package cli implements authctl, the admin tool for creating accounts and
// inspecting session tokens with the same configuration as the server.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
)

// ErrUsage means the command line could not be understood.
var ErrUsage = errors.New("usage error")

const Usage = `usage: authctl [config flags] <command> [args]

commands:
  adduser <username>         create an account, password is read from the terminal
  addadmin <username>        same as adduser with the admin flag set
  issue <uid> <username>     print a signed session token
  verify <token>             check a session token and print its claims
`

type UserRegistrar interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	RegisterAdmin(ctx context.Context, username, password string) (*models.User, error)
}

type Tokens interface {
	Issue(uid int64, username string) (string, error)
	Verify(token string) (*auth.Claims, error)
}

type App struct {
	config *config.Config
	out    io.Writer
	tokens Tokens

	// openUsers connects to the store on demand; only adduser needs it.
	openUsers func(ctx context.Context, c *config.Config) (UserRegistrar, io.Closer, error)
}

func NewApp(c *config.Config, out io.Writer) (*App, error) {
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Secret:    c.SecretKey,
		Algorithm: c.SigningAlgorithm,
		TTL:       c.TokenTTL(),
	})
	if err != nil {
		return nil, err
	}
	return &App{config: c, out: out, tokens: tokens, openUsers: openUserService}, nil
}

func openUserService(ctx context.Context, c *config.Config) (UserRegistrar, io.Closer, error) {
	db, m, err := repomanager.Open(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	return services.NewUserService(db, m), db, nil
}

// Run executes one command. args are positional arguments only.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", ErrUsage)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "adduser":
		return a.addUser(ctx, rest, false)
	case "addadmin":
		return a.addUser(ctx, rest, true)
	case "issue":
		return a.issue(rest)
	case "verify":
		return a.verify(rest)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

func (a *App) addUser(ctx context.Context, args []string, admin bool) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected <username>", ErrUsage)
	}

	password, err := getNewPassword(a.out)
	if err != nil {
		return err
	}

	users, closer, err := a.openUsers(ctx, a.config)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closer.Close()

	register := users.Register
	if admin {
		register = users.RegisterAdmin
	}

	u, err := register(ctx, args[0], password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return fmt.Errorf("user %q already exists", args[0])
		}
		return err
	}

	fmt.Fprintf(a.out, "created user %s (id %d, admin %t)\n", u.UserName, u.ID, u.IsAdmin)
	return nil
}

func (a *App) issue(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: expected <uid> <username>", ErrUsage)
	}

	uid, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: uid must be an integer", ErrUsage)
	}

	token, err := a.tokens.Issue(uid, args[1])
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, token)
	return nil
}

func (a *App) verify(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected <token>", ErrUsage)
	}

	claims, err := a.tokens.Verify(args[0])
	if err != nil {
		return err
	}

	exp := "none"
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.UTC().Format(time.RFC3339)
	}
	fmt.Fprintf(a.out, "valid\nuid: %d\nusername: %s\nexpires: %s\n", claims.UID, claims.Username, exp)
	return nil
}
