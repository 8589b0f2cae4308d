// Copyright (c) 2026 Opsboard Team
// Opsboard - incident, ticket and dataset dashboard
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"os"

	clog "github.com/charmbracelet/log"
	"github.com/opsboard/opsboard/internal/config"
	"github.com/opsboard/opsboard/internal/db"
	"github.com/opsboard/opsboard/internal/i18n"
	"github.com/opsboard/opsboard/internal/logging"
	"github.com/opsboard/opsboard/internal/records"
	"github.com/opsboard/opsboard/internal/security"
	"github.com/opsboard/opsboard/internal/users"
	"github.com/spf13/cobra"
)

// flagKeys maps global flag names to config keys.
var flagKeys = map[string]string{
	"db-type": "database.type",
	"db-dsn":  "database.dsn",
	"lang":    "language",
}

// app carries everything a command needs for one invocation.
type app struct {
	cfgFile string
	verbose bool

	cfg   config.Config
	log   *clog.Logger
	store db.Store

	creds     *security.Credentials
	users     *users.Directory
	migrator  *users.Migrator
	incidents *records.Incidents
	tickets   *records.Tickets
	datasets  *records.Datasets
}

// setup loads configuration, opens the store and wires the services.
func (a *app) setup(cmd *cobra.Command) error {
	if a.store != nil {
		return nil
	}
	a.log = logging.L

	var cfgPath *string
	if cmd.Flags().Changed("config") {
		if _, err := os.Stat(a.cfgFile); err != nil {
			return fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
		}
		cfgPath = &a.cfgFile
	}

	cfg, found, err := config.LoadConfig[config.Config](cmd, config.Defaults(), cfgPath, flagKeys)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if !found {
		// First run: persist the defaults so users have a file to edit.
		def := defaultConfig()
		if path, werr := config.WriteConfigFile(&def, false); werr != nil {
			a.log.Warnf("could not write default config file: %v", werr)
		} else {
			a.log.Info(i18n.T("config.written", path))
		}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	if a.verbose {
		logging.SetDebug(true)
		db.SetDebug(true)
	} else if err := logging.SetLevel(cfg.Log.Level); err != nil {
		return err
	}
	i18n.Init(cfg.Language)

	scheme, err := security.ParseScheme(cfg.Security.HashScheme)
	if err != nil {
		return err
	}
	hasher, err := security.NewHasher(scheme, cfg.Security.BcryptCost)
	if err != nil {
		return err
	}

	store, err := db.NewStoreFromDSN(cfg.Database.Type, cfg.Database.Dsn)
	if err != nil {
		return fmt.Errorf("could not open %s database: %w", cfg.Database.Type, err)
	}
	a.store = store

	a.creds = security.NewCredentials(hasher, a.log)
	a.users = users.NewDirectory(store, a.creds, users.Options{
		MinSecretLength:     cfg.Users.MinSecretLength,
		MaxSecretLength:     cfg.Users.MaxSecretLength,
		UpgradeLegacyHashes: cfg.Users.UpgradeLegacyHashes,
		Logger:              a.log,
	})
	a.migrator = users.NewMigrator(a.users, a.log)
	a.incidents = records.NewIncidents(store.Incidents(), a.log)
	a.tickets = records.NewTickets(store.Tickets(), a.log)
	a.datasets = records.NewDatasets(store.Datasets(), a.log)

	if cfg.Users.MigrateFile != "" {
		if _, err := a.migrator.MigrateFile(cmd.Context(), cfg.Users.MigrateFile); err != nil {
			return fmt.Errorf("startup user migration: %w", err)
		}
	}
	return nil
}

// close releases the store. It is safe to call more than once.
func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		a.log.Warnf("closing database: %v", err)
	}
	a.store = nil
}

func (a *app) ctx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// defaultConfig is the Config equivalent of config.Defaults.
func defaultConfig() config.Config {
	var c config.Config
	c.Database.Type = db.TypeSQLite
	c.Database.Dsn = config.DefaultDSN
	c.Language = "en"
	c.Log.Level = "info"
	c.Security.HashScheme = string(security.SchemeBcrypt)
	c.Users.MinSecretLength = users.DefaultMinSecretLength
	c.Users.MaxSecretLength = users.DefaultMaxSecretLength
	c.Users.UpgradeLegacyHashes = true
	return c
}
