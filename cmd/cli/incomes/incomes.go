package incomes

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/fintrack-app/fintrack/cmd/cli/client"
	"github.com/fintrack-app/fintrack/cmd/cli/config"
	"github.com/fintrack-app/fintrack/cmd/cli/output"
	"github.com/fintrack-app/fintrack/internal/models"
)

// ==========================
// Init Incomes
// ==========================
func InitIncomes(rootCmd *cobra.Command) {
	incomesCmd := &cobra.Command{
		Use:   "incomes",
		Short: "Manage income records",
	}

	incomesCmd.AddCommand(
		listIncomesCmd(),
		addIncomeCmd(),
		updateIncomeCmd(),
		deleteIncomeCmd(),
	)

	rootCmd.AddCommand(incomesCmd)
}

func renderIncomes(incomes []models.Income) {
	rows := make([][]interface{}, 0, len(incomes))
	var total float64
	for _, in := range incomes {
		rows = append(rows, []interface{}{
			in.ID,
			fmt.Sprintf("%.2f", in.Amount),
			in.Description,
			in.IncomeDate.Format("2006-01-02"),
		})
		total += in.Amount
	}
	output.RenderTable([]string{"ID", "Amount", "Description", "Date"}, rows)
	fmt.Printf("%d record(s), total %.2f\n", len(incomes), total)
}

// ==========================
// LIST
// ==========================
func listIncomesCmd() *cobra.Command {
	var userID int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List income records as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the logged-in user's own records
			if userID == 0 {
				session, err := config.Load()
				if err != nil {
					return fmt.Errorf("please login first")
				}
				userID = session.User.ID
			}

			var incomes []models.Income
			if err := client.DoAuthed("GET", "/incomes?user_id="+strconv.Itoa(userID), nil, &incomes); err != nil {
				return err
			}
			renderIncomes(incomes)
			return nil
		},
	}

	cmd.Flags().IntVar(&userID, "user-id", 0, "List records for this user id (default: your own)")

	return cmd
}

// ==========================
// ADD
// ==========================
func addIncomeCmd() *cobra.Command {
	var amount float64
	var description, date string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new income",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := config.Load()
			if err != nil {
				return fmt.Errorf("please login first")
			}

			incomeDate := time.Now()
			if date != "" {
				incomeDate, err = time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date (want YYYY-MM-DD): %w", err)
				}
			}

			payload := map[string]interface{}{
				"userId":      session.User.ID,
				"amount":      amount,
				"description": description,
				"incomeDate":  incomeDate.Format(time.RFC3339),
			}

			var income models.Income
			if err := client.DoAuthed("POST", "/incomes", payload, &income); err != nil {
				return err
			}
			fmt.Printf("Recorded income %d\n", income.ID)
			renderIncomes([]models.Income{income})
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Income amount")
	cmd.Flags().StringVar(&description, "description", "", "Income description")
	cmd.Flags().StringVar(&date, "date", "", "Income date as YYYY-MM-DD (default: today)")
	cmd.MarkFlagRequired("amount")
	cmd.MarkFlagRequired("description")

	return cmd
}

// ==========================
// UPDATE
// ==========================
func updateIncomeCmd() *cobra.Command {
	var id int
	var amount float64
	var description, date string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update an income record (only the flags you pass change)",
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{}
			if cmd.Flags().Changed("amount") {
				payload["amount"] = amount
			}
			if cmd.Flags().Changed("description") {
				payload["description"] = description
			}
			if cmd.Flags().Changed("date") {
				incomeDate, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date (want YYYY-MM-DD): %w", err)
				}
				payload["incomeDate"] = incomeDate.Format(time.RFC3339)
			}
			if len(payload) == 0 {
				return fmt.Errorf("nothing to update: pass --amount, --description, or --date")
			}

			var income models.Income
			if err := client.DoAuthed("PUT", "/incomes/"+strconv.Itoa(id), payload, &income); err != nil {
				return err
			}
			renderIncomes([]models.Income{income})
			return nil
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "Income id")
	cmd.Flags().Float64Var(&amount, "amount", 0, "New amount")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&date, "date", "", "New date as YYYY-MM-DD")
	cmd.MarkFlagRequired("id")

	return cmd
}

// ==========================
// DELETE
// ==========================
func deleteIncomeCmd() *cobra.Command {
	var id int

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an income record",
		RunE: func(cmd *cobra.Command, args []string) error {
			var income models.Income
			if err := client.DoAuthed("DELETE", "/incomes/"+strconv.Itoa(id), nil, &income); err != nil {
				return err
			}
			fmt.Println("Deleted:")
			renderIncomes([]models.Income{income})
			return nil
		},
	}

	cmd.Flags().IntVar(&id, "id", 0, "Income id")
	cmd.MarkFlagRequired("id")

	return cmd
}
