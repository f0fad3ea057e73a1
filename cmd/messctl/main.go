package main

import (
	"database/sql"
	"fmt"
	"os"

	"MessAPI/internal/config"
	"MessAPI/internal/databases"
	"MessAPI/internal/env"

	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
)

var rootCmd = &cobra.Command{
	Use:   "messctl",
	Short: "messctl administers the mess database",
	Long:  "messctl promotes users, prints headcounts and exports meal bookings straight from the mess database.",
	// Usage is noise once a command has started talking to the database.
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", env.GetEnv(env.EnvConfigPath, config.DefaultPath), "Path to the YAML config")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the SQLite database (overrides the config)")
}

// openDB loads the config and opens the migrated database.
func openDB() (*config.Config, *sql.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	path := cfg.Database.Path
	if dbPath != "" {
		path = dbPath
	}
	db, err := databases.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := databases.Migrate(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return cfg, db, nil
}


/*
This project is the backend API for the hostel mess. Meal slot bookings, weekly menus, announcements, complaints and feedback for residents and the mess office.
MessAPI Copyright (C) 2025 MessAPI contributors
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
