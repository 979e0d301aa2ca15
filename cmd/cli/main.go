package main

import (
	"fmt"
	"os"

	"github.com/fintrack-app/fintrack/cmd/cli/auth"
	"github.com/fintrack-app/fintrack/cmd/cli/incomes"
	"github.com/fintrack-app/fintrack/cmd/cli/root"
	"github.com/fintrack-app/fintrack/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()

	auth.InitAuth(rootCmd)
	incomes.InitIncomes(rootCmd)
	users.InitUsers(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
