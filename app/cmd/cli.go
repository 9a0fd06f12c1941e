package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/UltraPon/SellUp/app/configs"
	"github.com/UltraPon/SellUp/app/db/seeders"
	"github.com/UltraPon/SellUp/app/models/migrations"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func RunCli(env configs.ENV, logger *zap.Logger) error {
	cmd := &cli.Command{
		Name:  "sellup",
		Usage: "classifieds marketplace API",
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, env, logger)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP API",
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx, env, logger)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, logger)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					logger.Info("migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Seed roles, the admin account and the reference category tree",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "demo", Usage: "also create fake users and listings"},
					&cli.IntFlag{Name: "users", Value: 5, Usage: "number of demo users"},
					&cli.IntFlag{Name: "listings", Value: 40, Usage: "number of demo listings"},
					&cli.StringFlag{Name: "admin-email", Value: "admin@sellup.local", Sources: cli.EnvVars("ADMIN_EMAIL")},
					&cli.StringFlag{Name: "admin-password", Value: "admin12345", Sources: cli.EnvVars("ADMIN_PASSWORD")},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, logger)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					return seeders.DBSeed(ctx, db, seeders.Options{
						AdminEmail:    c.String("admin-email"),
						AdminPassword: c.String("admin-password"),
						Demo:          c.Bool("demo"),
						DemoUsers:     int(c.Int("users")),
						DemoListings:  int(c.Int("listings")),
					}, logger)
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate session, CSRF and JWT keys for .env",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Value: "generated_keys.txt", Usage: "file to write the keys to"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					keys, err := configs.GenerateSessionKeys(c.String("out"))
					if err != nil {
						return err
					}
					for _, name := range []string{"APP_AUTH_KEY", "APP_ENC_KEY", "CSRF_KEY", "JWT_SECRET"} {
						fmt.Printf("%s=%s\n", name, keys[name])
					}
					logger.Info("keys written, copy them to your .env file", zap.String("file", c.String("out")))
					return nil
				},
			},
		},
	}

	return cmd.Run(context.Background(), os.Args)
}
