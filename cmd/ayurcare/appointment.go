package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var appointmentCmd = &cobra.Command{
	Use:   "appointment",
	Short: "Inspect booked appointments",
}

var appointmentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List appointments, newest first",
	Args:  cobra.NoArgs,
	RunE:  runAppointmentList,
}

func init() {
	appointmentCmd.PersistentFlags().StringVar(&dbPathOverride, "db", "",
		"Database path (overrides config and AYURCARE_DB_PATH)")
	appointmentCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output in JSON format")

	appointmentCmd.AddCommand(appointmentListCmd)
}

func runAppointmentList(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	appts, err := db.ListAppointments(context.Background())
	if err != nil {
		return fmt.Errorf("list appointments: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"appointments": appts,
			"total":        len(appts),
		})
	}

	if len(appts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No appointments found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintln(w, "ID\tDATE\tTIME\tPATIENT\tEMAIL\tDOCTOR\tSTATUS")
	for _, a := range appts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID,
			a.AppointmentDate,
			a.AppointmentTime,
			a.PatientName,
			a.PatientEmail,
			a.DoctorType,
			a.Status,
		)
	}
	w.Flush()

	return nil
}
