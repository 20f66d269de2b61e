package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/wagetrack/wagetrack/internal/errors"
	"github.com/wagetrack/wagetrack/internal/model"
	"github.com/wagetrack/wagetrack/internal/output"
	"github.com/wagetrack/wagetrack/internal/parser"
	"github.com/wagetrack/wagetrack/internal/records"
)

// Shift subcommand flags.
var (
	shiftAddFlagEmployee  string
	shiftAddFlagDate      string
	shiftAddFlagIn        string
	shiftAddFlagOut       string
	shiftListFlagEmployee string
	shiftEditFlagEmployee string
	shiftEditFlagDate     string
	shiftEditFlagIn       string
	shiftEditFlagOut      string
)

// shiftCmd represents the shift command.
var shiftCmd = &cobra.Command{
	Use:     "shift",
	Aliases: []string{"shifts"},
	Short:   "Log and manage shifts",
	Long: `Log shifts against employees. Hours and wages are computed when a
shift is closed, at the employee's rate at that moment.

Dates accept natural language: today, yesterday, "last friday", 2025-03-14.

Examples:
  wt shift add --employee <id> --date today --in 09:00 --out 17:00
  wt shift add --employee <id> --date today --in 13:00
  wt shift list this week
  wt shift update <id> --out 17:30
  wt shift delete <id>`,
	RunE: runShiftList,
}

var shiftListCmd = &cobra.Command{
	Use:   "list [PERIOD]",
	Short: "List shifts, optionally within a period",
	Args:  cobra.ArbitraryArgs,
	RunE:  runShiftList,
}

var shiftAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a shift",
	Args:  cobra.NoArgs,
	RunE:  runShiftAdd,
}

var shiftUpdateCmd = &cobra.Command{
	Use:   "update SHIFT_ID",
	Short: "Update a shift",
	Args:  cobra.ExactArgs(1),
	RunE:  runShiftUpdate,
}

var shiftDeleteCmd = &cobra.Command{
	Use:   "delete SHIFT_ID",
	Short: "Delete a shift",
	Args:  cobra.ExactArgs(1),
	RunE:  runShiftDelete,
}

func init() {
	shiftAddCmd.Flags().StringVarP(&shiftAddFlagEmployee, "employee", "e", "", "Employee ID")
	shiftAddCmd.Flags().StringVarP(&shiftAddFlagDate, "date", "d", "today", "Shift date")
	shiftAddCmd.Flags().StringVar(&shiftAddFlagIn, "in", "", "Clock-in time (HH:MM)")
	shiftAddCmd.Flags().StringVar(&shiftAddFlagOut, "out", "", "Clock-out time (HH:MM), omit for an open shift")
	shiftAddCmd.MarkFlagRequired("employee")
	shiftAddCmd.MarkFlagRequired("in")

	shiftListCmd.Flags().StringVarP(&shiftListFlagEmployee, "employee", "e", "", "Only this employee's shifts")

	shiftUpdateCmd.Flags().StringVarP(&shiftEditFlagEmployee, "employee", "e", "", "Reassign to employee ID")
	shiftUpdateCmd.Flags().StringVarP(&shiftEditFlagDate, "date", "d", "", "Update shift date")
	shiftUpdateCmd.Flags().StringVar(&shiftEditFlagIn, "in", "", "Update clock-in time")
	shiftUpdateCmd.Flags().StringVar(&shiftEditFlagOut, "out", "", "Update clock-out time")

	shiftCmd.AddCommand(shiftListCmd)
	shiftCmd.AddCommand(shiftAddCmd)
	shiftCmd.AddCommand(shiftUpdateCmd)
	shiftCmd.AddCommand(shiftDeleteCmd)
	rootCmd.AddCommand(shiftCmd)
}

func runShiftList(cmd *cobra.Command, args []string) error {
	_, state, err := requireSession()
	if err != nil {
		return err
	}

	shifts := state.Shifts
	if len(args) > 0 || cmd.Flags().Changed("employee") {
		rng, rerr := parser.ParseRange(strings.Join(args, " "))
		if rerr != nil {
			return userFacing(rerr)
		}
		shifts = filterShifts(state.Shifts, shiftListFlagEmployee, rng, len(args) > 0)
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintShifts(state, shifts)
	}
	ctx.CLIFormatter().PrintShifts(state, shifts)
	return nil
}

func runShiftAdd(cmd *cobra.Command, args []string) error {
	_, state, err := requireSession()
	if err != nil {
		return err
	}

	date, err := parser.ParseShiftDate(shiftAddFlagDate)
	if err != nil {
		return userFacing(err)
	}

	next, shift, err := records.AddShift(state, records.ShiftInput{
		EmployeeID: shiftAddFlagEmployee,
		Date:       date,
		ClockIn:    shiftAddFlagIn,
		ClockOut:   shiftAddFlagOut,
	})
	if err != nil {
		return err
	}
	if err := ctx.Engine.Commit(next); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewShiftOutput(next, shift))
	}
	ctx.CLIFormatter().PrintShiftSaved(next, shift)
	return nil
}

func runShiftUpdate(cmd *cobra.Command, args []string) error {
	_, state, err := requireSession()
	if err != nil {
		return err
	}

	shift, ok := state.Shift(args[0])
	if !ok {
		return errors.Wrapf(errors.ErrShiftNotFound, "shift %s", args[0])
	}

	in := records.ShiftInput{
		EmployeeID: shift.EmployeeID,
		Date:       shift.Date,
		ClockIn:    shift.ClockIn,
		ClockOut:   shift.ClockOut,
	}
	if shiftEditFlagEmployee != "" {
		in.EmployeeID = shiftEditFlagEmployee
	}
	if shiftEditFlagDate != "" {
		date, derr := parser.ParseShiftDate(shiftEditFlagDate)
		if derr != nil {
			return userFacing(derr)
		}
		in.Date = date
	}
	if shiftEditFlagIn != "" {
		in.ClockIn = shiftEditFlagIn
	}
	if shiftEditFlagOut != "" {
		in.ClockOut = shiftEditFlagOut
	}

	next, err := records.UpdateShift(state, shift.ID, in)
	if err != nil {
		return err
	}
	if err := ctx.Engine.Commit(next); err != nil {
		return err
	}

	updated, _ := next.Shift(shift.ID)
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewShiftOutput(next, updated))
	}
	ctx.CLIFormatter().PrintShiftSaved(next, updated)
	return nil
}

func runShiftDelete(cmd *cobra.Command, args []string) error {
	_, state, err := requireSession()
	if err != nil {
		return err
	}

	next, err := records.DeleteShift(state, args[0])
	if err != nil {
		return err
	}
	if err := ctx.Engine.Commit(next); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{"status": "deleted", "id": args[0]})
	}
	ctx.CLIFormatter().Success("Deleted shift " + args[0])
	return nil
}

func filterShifts(shifts []model.Shift, employeeID string, rng parser.Range, byRange bool) []model.Shift {
	out := make([]model.Shift, 0, len(shifts))
	for _, s := range shifts {
		if employeeID != "" && s.EmployeeID != employeeID {
			continue
		}
		if byRange && !rng.Contains(s.Date) {
			continue
		}
		out = append(out, s)
	}
	return out
}
