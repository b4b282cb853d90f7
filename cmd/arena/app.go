package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/urfave/cli/v2"

	"github.com/njprem/DiceArena_BackEnd/internal/client"
	"github.com/njprem/DiceArena_BackEnd/internal/domain"
	"github.com/njprem/DiceArena_BackEnd/internal/game"
	"github.com/njprem/DiceArena_BackEnd/internal/repository/badger"
	"github.com/njprem/DiceArena_BackEnd/internal/session"
	"github.com/njprem/DiceArena_BackEnd/internal/util"
)

const requestTimeout = 30 * time.Second

// runtime is opened in Before and closed in After.
type runtime struct {
	db     *badgerdb.DB
	store  *session.Store
	client *client.Client
	out    *printer
}

func fromContext(c *cli.Context) *runtime {
	rt, _ := c.App.Metadata["runtime"].(*runtime)
	return rt
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dice-arena"
	}
	return filepath.Join(home, ".dice-arena")
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "arena",
		Usage: "Play Dice Arena from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Value:   "http://localhost:8080",
				Usage:   "API base URL",
				EnvVars: []string{"DICE_ARENA_API"},
			},
			&cli.StringFlag{
				Name:    "state-dir",
				Value:   defaultStateDir(),
				Usage:   "Directory holding the local session",
				EnvVars: []string{"DICE_ARENA_STATE_DIR"},
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Value:   string(formatJSON),
				Usage:   "Output format (json, yaml)",
			},
		},
		Before: func(c *cli.Context) error {
			out, err := newPrinter(c.App.Writer, c.String("output"))
			if err != nil {
				return err
			}
			db, err := badger.Open(c.String("state-dir"), nil)
			if err != nil {
				return err
			}
			store := session.NewStore(badger.NewSessionStorage(db))
			c.App.Metadata = map[string]any{"runtime": &runtime{
				db:     db,
				store:  store,
				client: client.New(c.String("api"), store),
				out:    out,
			}}
			return nil
		},
		After: func(c *cli.Context) error {
			if rt := fromContext(c); rt != nil && rt.db != nil {
				return rt.db.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			keygenCommand(),
			loginCommand(),
			{
				Name:  "logout",
				Usage: "Forget the stored access token",
				Action: func(c *cli.Context) error {
					rt := fromContext(c)
					rt.client.Logout()
					return rt.out.print(map[string]any{"signedIn": false})
				},
			},
			{
				Name:   "status",
				Usage:  "Show the local session state",
				Action: statusAction,
			},
			{
				Name:  "me",
				Usage: "Show the wallet behind the stored token",
				Action: func(c *cli.Context) error {
					rt := fromContext(c)
					ctx, cancel := context.WithTimeout(c.Context, requestTimeout)
					defer cancel()

					wallet, err := rt.client.Me(ctx)
					if err != nil {
						return err
					}
					return rt.out.print(map[string]any{"wallet": wallet})
				},
			},
			tournamentsCommand(),
			claimCommand(),
		},
	}
}

func keygenCommand() *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "Create a new wallet keypair file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Usage: "Where to write the keypair", Required: true},
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Overwrite an existing file"},
		},
		Action: func(c *cli.Context) error {
			rt := fromContext(c)
			path := c.String("out")
			if _, err := os.Stat(path); err == nil && !c.Bool("force") {
				return fmt.Errorf("%s already exists, pass --force to overwrite", path)
			}

			kp, err := util.GenerateKeypair()
			if err != nil {
				return err
			}
			secret, err := kp.SecretJSON()
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, secret, 0o600); err != nil {
				return fmt.Errorf("write keypair: %w", err)
			}
			return rt.out.print(map[string]any{"wallet": kp.PublicKey(), "path": path})
		},
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Sign in with a wallet keypair",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "keypair",
				Aliases:  []string{"k"},
				Usage:    "Path to a keypair file (JSON byte array or base58)",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			rt := fromContext(c)
			raw, err := os.ReadFile(c.String("keypair"))
			if err != nil {
				return fmt.Errorf("read keypair: %w", err)
			}
			kp, err := util.ParseKeypair(string(raw))
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(c.Context, requestTimeout)
			defer cancel()
			wallet, err := rt.client.Login(ctx, kp)
			if err != nil {
				return err
			}
			expiry, _ := rt.store.TokenExpiry()
			return rt.out.print(map[string]any{
				"wallet":    wallet,
				"expiresAt": expiry.UTC().Format(time.RFC3339),
			})
		},
	}
}

func statusAction(c *cli.Context) error {
	rt := fromContext(c)
	status := map[string]any{
		"signedIn": rt.store.IsTokenValid(),
	}
	if expiry, ok := rt.store.TokenExpiry(); ok {
		status["expiresAt"] = expiry.UTC().Format(time.RFC3339)
	}
	return rt.out.print(status)
}

func tournamentsCommand() *cli.Command {
	return &cli.Command{
		Name:    "tournaments",
		Aliases: []string{"t"},
		Usage:   "Browse tournaments",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List tournaments, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "status", Usage: "Only tournaments with this status"},
					&cli.IntFlag{Name: "limit", Usage: "Maximum number of tournaments"},
				},
				Action: func(c *cli.Context) error {
					rt := fromContext(c)
					ctx, cancel := context.WithTimeout(c.Context, requestTimeout)
					defer cancel()

					items, err := rt.client.ListTournaments(ctx, c.String("status"), c.Int("limit"))
					if err != nil {
						return err
					}
					return rt.out.print(map[string]any{"tournaments": items, "count": len(items)})
				},
			},
			{
				Name:      "get",
				Usage:     "Show one tournament",
				ArgsUsage: "ID",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "wallet", Usage: "Show the roll button state for this wallet"},
					&cli.StringFlag{Name: "ability", Usage: "Highlight this ability in the ability list"},
				},
				Action: tournamentGetAction,
			},
		},
	}
}

func tournamentGetAction(c *cli.Context) error {
	id := strings.TrimSpace(c.Args().First())
	if id == "" {
		return errors.New("tournament ID is required")
	}
	rt := fromContext(c)
	ctx, cancel := context.WithTimeout(c.Context, requestTimeout)
	defer cancel()

	tournament, err := rt.client.GetTournament(ctx, id)
	if err != nil {
		return err
	}

	view := tournamentView(tournament, strings.TrimSpace(c.String("wallet")), c.String("ability"), rt.store.IsTokenValid())
	return rt.out.print(view)
}

// tournamentView is what `tournaments get` prints: the record plus the arena
// widgets derived from it.
func tournamentView(tournament domain.Tournament, wallet, ability string, sessionValid bool) map[string]any {
	view := map[string]any{"tournament": tournament}
	rolls := game.DiceRollsFromRecord(tournament)

	if bar, target, ok := game.RollProgress(tournament, rolls); ok {
		view["progress"] = map[string]any{
			"rolled":   len(rolls),
			"target":   target,
			"percent":  bar.Percent,
			"complete": bar.Complete,
		}
	}

	if abilities := game.AbilitiesFromRecord(tournament); len(abilities) > 0 {
		items := make([]map[string]any, 0, len(abilities))
		for _, item := range game.AbilityList(abilities, ability) {
			items = append(items, map[string]any{
				"ability":     item.Ability,
				"highlighted": item.Highlighted,
			})
		}
		view["abilities"] = items
	}

	if wallet != "" {
		button := game.RollButton(rolls, wallet, sessionValid, false)
		view["rollButton"] = map[string]any{
			"label":    button.Label,
			"disabled": button.Disabled,
		}
		view["hasRolled"] = rolls.HasRolled(wallet)
	}
	return view
}

func claimCommand() *cli.Command {
	return &cli.Command{
		Name:  "claim-xp",
		Usage: "Grant XP to a profile (not idempotent)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "profile", Usage: "Profile address", Required: true},
			&cli.StringFlag{Name: "amount", Usage: "XP amount", Required: true},
		},
		Action: func(c *cli.Context) error {
			rt := fromContext(c)
			ctx, cancel := context.WithTimeout(c.Context, requestTimeout)
			defer cancel()

			res, err := rt.client.ClaimXP(ctx, c.String("profile"), json.Number(strings.TrimSpace(c.String("amount"))))
			if err != nil {
				return err
			}
			return rt.out.print(res)
		},
	}
}
