package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"MessAPI/internal/v0/booking"
	"MessAPI/internal/v0/common"

	"github.com/spf13/cobra"
)

var (
	headcountDate string

	exportFrom  string
	exportTo    string
	exportMonth string
	exportOut   string
)

var headcountCmd = &cobra.Command{
	Use:   "headcount",
	Short: "Print plates per slot and preference for a day",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		date := headcountDate
		if date == "" {
			date = common.FormatDay(time.Now().In(cfg.Location()))
		}
		if _, err := common.ParseDay(date, cfg.Location()); err != nil {
			return err
		}

		rows, err := booking.NewRepository(db, false).Headcount(cmd.Context(), date)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No bookings for %s\n", date)
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "MEAL\tSLOT\tPREFERENCE\tCOUNT")
		total := 0
		for _, r := range rows {
			label, ok := booking.SlotLabel(r.MealType, r.TimeSlot)
			if !ok {
				label = r.TimeSlot
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", r.MealType, label, r.Preference, r.Count)
			total += r.Count
		}
		fmt.Fprintf(tw, "\t\tTOTAL\t%d\n", total)
		return tw.Flush()
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export bookings to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		from, to := exportFrom, exportTo
		if exportMonth != "" {
			if from, to, err = booking.MonthRange(exportMonth); err != nil {
				return err
			}
		}
		if from == "" {
			from = common.FormatDay(time.Now().In(cfg.Location()))
		}
		if to == "" {
			to = from
		}

		ctx := cmd.Context()
		repo := booking.NewRepository(db, false)
		rows, err := repo.ListRange(ctx, from, to)
		if err != nil {
			return err
		}
		names, err := repo.OwnerNames(ctx, rows)
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = fmt.Sprintf("bookings_%s_%s.xlsx", from, to)
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := booking.WriteWorkbook(f, rows, booking.Headcounts(rows), names); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bookings to %s\n", len(rows), out)
		return nil
	},
}

func init() {
	headcountCmd.Flags().StringVar(&headcountDate, "date", "", "Day to count (YYYY-MM-DD, default today)")

	exportCmd.Flags().StringVar(&exportFrom, "from", "", "First day (YYYY-MM-DD, default today)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "Last day (YYYY-MM-DD, default --from)")
	exportCmd.Flags().StringVar(&exportMonth, "month", "", "Whole month (YYYY-MM), overrides --from and --to")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file")

	rootCmd.AddCommand(headcountCmd, exportCmd)
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
