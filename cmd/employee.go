package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wagetrack/wagetrack/internal/errors"
	"github.com/wagetrack/wagetrack/internal/output"
	"github.com/wagetrack/wagetrack/internal/records"
)

// Employee subcommand flags.
var (
	employeeAddFlagRole   string
	employeeAddFlagRate   float64
	employeeAddFlagEmoji  string
	employeeEditFlagName  string
	employeeEditFlagRole  string
	employeeEditFlagRate  float64
	employeeEditFlagEmoji string
)

// employeeCmd represents the employee command.
var employeeCmd = &cobra.Command{
	Use:     "employee",
	Aliases: []string{"employees", "emp"},
	Short:   "Manage the employee roster",
	Long: `List, add, update, or delete employees.

Examples:
  wt employee list
  wt employee add "Alex Rivera" --role "Team Lead" --rate 25
  wt employee update <id> --rate 27.50
  wt employee delete <id>`,
	RunE: runEmployeeList,
}

var employeeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees",
	Args:  cobra.NoArgs,
	RunE:  runEmployeeList,
}

var employeeAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add an employee",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeeAdd,
}

var employeeUpdateCmd = &cobra.Command{
	Use:   "update EMPLOYEE_ID",
	Short: "Update an employee",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeeUpdate,
}

var employeeDeleteCmd = &cobra.Command{
	Use:   "delete EMPLOYEE_ID",
	Short: "Delete an employee and all their shifts",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeeDelete,
}

func init() {
	employeeAddCmd.Flags().StringVarP(&employeeAddFlagRole, "role", "r", "Staff", "Job role")
	employeeAddCmd.Flags().Float64Var(&employeeAddFlagRate, "rate", 0, "Hourly rate in dollars")
	employeeAddCmd.Flags().StringVar(&employeeAddFlagEmoji, "emoji", "", "Roster emoji")
	employeeAddCmd.MarkFlagRequired("rate")

	employeeUpdateCmd.Flags().StringVarP(&employeeEditFlagName, "name", "n", "", "Update display name")
	employeeUpdateCmd.Flags().StringVarP(&employeeEditFlagRole, "role", "r", "", "Update job role")
	employeeUpdateCmd.Flags().Float64Var(&employeeEditFlagRate, "rate", -1, "Update hourly rate")
	employeeUpdateCmd.Flags().StringVar(&employeeEditFlagEmoji, "emoji", "", "Update roster emoji")

	employeeCmd.AddCommand(employeeListCmd)
	employeeCmd.AddCommand(employeeAddCmd)
	employeeCmd.AddCommand(employeeUpdateCmd)
	employeeCmd.AddCommand(employeeDeleteCmd)
	rootCmd.AddCommand(employeeCmd)
}

func runEmployeeList(cmd *cobra.Command, args []string) error {
	_, state, err := requireSession()
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintEmployees(state.Employees)
	}
	ctx.CLIFormatter().PrintEmployees(state.Employees)
	return nil
}

func runEmployeeAdd(cmd *cobra.Command, args []string) error {
	_, state, err := requireSession()
	if err != nil {
		return err
	}

	next, emp, err := records.AddEmployee(state, records.EmployeeInput{
		Name:       args[0],
		Role:       employeeAddFlagRole,
		HourlyRate: employeeAddFlagRate,
		Emoji:      employeeAddFlagEmoji,
	})
	if err != nil {
		return err
	}
	if err := ctx.Engine.Commit(next); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewEmployeeOutput(emp))
	}

	cli := ctx.CLIFormatter()
	cli.Success("Added " + cli.EmployeeName(emp.Name))
	cli.Printf("  ID: %s\n", emp.ID)
	cli.Printf("  %s at %s\n", emp.Role, output.FormatRate(emp.HourlyRate))
	return nil
}

func runEmployeeUpdate(cmd *cobra.Command, args []string) error {
	_, state, err := requireSession()
	if err != nil {
		return err
	}

	emp, ok := state.Employee(args[0])
	if !ok {
		return employeeNotFound(args[0])
	}

	in := records.EmployeeInput{
		Name:       emp.Name,
		Role:       emp.Role,
		HourlyRate: emp.HourlyRate,
		Emoji:      employeeEditFlagEmoji,
	}
	if employeeEditFlagName != "" {
		in.Name = employeeEditFlagName
	}
	if employeeEditFlagRole != "" {
		in.Role = employeeEditFlagRole
	}
	if employeeEditFlagRate >= 0 {
		in.HourlyRate = employeeEditFlagRate
	}

	next, err := records.UpdateEmployee(state, emp.ID, in)
	if err != nil {
		return err
	}
	if err := ctx.Engine.Commit(next); err != nil {
		return err
	}

	updated, _ := next.Employee(emp.ID)
	if ctx.IsJSON() {
		return ctx.Formatter.JSON(output.NewEmployeeOutput(updated))
	}

	cli := ctx.CLIFormatter()
	cli.Success("Updated " + cli.EmployeeName(updated.Name))
	cli.Printf("  %s at %s\n", updated.Role, output.FormatRate(updated.HourlyRate))
	cli.Muted("  Existing shifts keep the wage they were logged at.")
	return nil
}

func runEmployeeDelete(cmd *cobra.Command, args []string) error {
	_, state, err := requireSession()
	if err != nil {
		return err
	}

	emp, ok := state.Employee(args[0])
	if !ok {
		return employeeNotFound(args[0])
	}
	removedShifts := len(state.ShiftsFor(emp.ID))

	next, err := records.DeleteEmployee(state, emp.ID)
	if err != nil {
		return err
	}
	if err := ctx.Engine.Commit(next); err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status":         "deleted",
			"id":             emp.ID,
			"removed_shifts": removedShifts,
		})
	}

	cli := ctx.CLIFormatter()
	cli.Success("Deleted " + cli.EmployeeName(emp.Name))
	if removedShifts > 0 {
		cli.Printf("  Removed %d shifts along with the employee.\n", removedShifts)
	}
	return nil
}

func employeeNotFound(id string) error {
	return errors.Wrapf(errors.ErrEmployeeNotFound, "employee %s", id)
}
