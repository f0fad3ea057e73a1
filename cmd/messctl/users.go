package main

import (
	"fmt"

	"MessAPI/internal/auth"

	"github.com/spf13/cobra"
)

var promoteRole string

var promoteCmd = &cobra.Command{
	Use:   "promote <email>",
	Short: "Change the role of a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role := auth.Role(promoteRole)
		if !role.Valid() {
			return fmt.Errorf("invalid role %q", promoteRole)
		}

		_, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := cmd.Context()
		repo := auth.NewRepository(db)
		user, err := repo.GetUserByEmail(ctx, args[0])
		if err != nil {
			return err
		}
		if user == nil {
			return fmt.Errorf("no user with email %s", args[0])
		}
		if err := repo.UpdateUser(ctx, user.ID, &role, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, role)
		return nil
	},
}

func init() {
	promoteCmd.Flags().StringVar(&promoteRole, "role", string(auth.RoleAdmin), "Role to grant (resident or admin)")
	rootCmd.AddCommand(promoteCmd)
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
