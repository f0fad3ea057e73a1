package main

import (
	"errors"
	"flag"

	"MessAPI/internal/config"
	"MessAPI/internal/databases"
	"MessAPI/internal/env"
	"MessAPI/internal/logging"

	"github.com/golang-migrate/migrate/v4"
)

func main() {
	logger := logging.New("info", true)

	cfg, err := config.Load(env.GetEnv(env.EnvConfigPath, config.DefaultPath))
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	path := flag.String("db", cfg.Database.Path, "path to the database file")
	down := flag.Bool("down", false, "roll migrations back instead of applying them")
	steps := flag.Int("steps", 0, "number of migrations to apply or roll back (0 means all)")
	flag.Parse()

	db, err := databases.Open(*path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *path).Msg("open database")
	}
	defer db.Close()

	m, err := databases.NewMigrator(db)
	if err != nil {
		logger.Fatal().Err(err).Msg("load migrations")
	}

	switch {
	case *steps > 0 && *down:
		err = m.Steps(-*steps)
	case *steps > 0:
		err = m.Steps(*steps)
	case *down:
		err = m.Down()
	default:
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		logger.Fatal().Err(err).Msg("read schema version")
	}
	logger.Info().Str("path", *path).Uint("version", version).Bool("dirty", dirty).Msg("database migration complete")
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
