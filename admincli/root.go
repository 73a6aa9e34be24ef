// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package admincli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/danielhkuo/polls/cliparse"
	"github.com/danielhkuo/polls/db"
	"github.com/danielhkuo/polls/store"
)

const (
	keyDatabaseURL  = "database_url"
	keyDatabaseType = "database_type"
)

// app holds what every subcommand shares
type app struct {
	v   *viper.Viper
	now func() time.Time
}

// NewRootCommand builds the pollsctl command tree. Database settings come
// from --database-url/--database-type or DATABASE_URL/DATABASE_TYPE.
func NewRootCommand() *cobra.Command {
	return newRootCommand(time.Now)
}

func newRootCommand(now func() time.Time) *cobra.Command {
	a := &app{v: viper.New(), now: now}
	a.v.AutomaticEnv()
	a.v.SetDefault(keyDatabaseType, cliparse.DatabaseSQLite)

	root := &cobra.Command{
		Use:           "pollsctl",
		Short:         "Manage polls questions, choices and users",
		Long:          `pollsctl is the administrator tool for the polls site. It edits the database directly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("database-url", "", "Database URL (env DATABASE_URL)")
	root.PersistentFlags().String("database-type", "", "Database type, sqlite or postgres (env DATABASE_TYPE)")
	a.v.BindPFlag(keyDatabaseURL, root.PersistentFlags().Lookup("database-url"))
	a.v.BindPFlag(keyDatabaseType, root.PersistentFlags().Lookup("database-type"))

	root.AddCommand(a.migrateCommand())
	root.AddCommand(a.questionCommand())
	root.AddCommand(a.choiceCommand())
	root.AddCommand(a.userCommand())

	return root
}

// openStore connects and makes sure the schema exists
func (a *app) openStore(ctx context.Context) (*store.Store, func(), error) {
	url := a.v.GetString(keyDatabaseURL)
	if url == "" {
		return nil, nil, fmt.Errorf("database URL required (use --database-url or DATABASE_URL env)")
	}

	conn, err := db.Open(ctx, a.v.GetString(keyDatabaseType), url)
	if err != nil {
		return nil, nil, err
	}
	if err := db.CreateSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, nil, err
	}

	return store.New(conn), func() { conn.Close() }, nil
}

func (a *app) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, closeDB, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			fmt.Fprintln(cmd.OutOrStdout(), "Schema ready")
			return nil
		},
	}
}
