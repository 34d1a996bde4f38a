package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/cryptobud/cryptobud/internal/domain"
	"github.com/cryptobud/cryptobud/internal/importer"
	"github.com/cryptobud/cryptobud/internal/tax"
)

var (
	filePath string
	format   = importer.FormatBitcoin21
)

// Swappable for tests.
var bcryptGenerate = bcrypt.GenerateFromPassword

func main() {
	rootCmd := &cobra.Command{
		Use:   "cryptobud",
		Short: "Cryptobud CLI tool",
		Long:  `Compute German crypto tax reports from exchange export files, without a running server.`,
	}

	rootCmd.PersistentFlags().StringVar(&filePath, "file", "", "Path to the exchange export CSV")
	rootCmd.PersistentFlags().StringVar(&format, "format", importer.FormatBitcoin21, "Export format")

	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(upcomingCmd())
	rootCmd.AddCommand(hashPasswordCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func previewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Parse an export file and summarize it",
		RunE: func(cmd *cobra.Command, args []string) error {
			transactions, err := loadTransactions()
			if err != nil {
				return err
			}

			printJSON(map[string]any{
				"transactions": transactions,
				"stats":        importer.Summarize(transactions),
			})
			return nil
		},
	}
}

func reportCmd() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute the tax report for one calendar year",
		RunE: func(cmd *cobra.Command, args []string) error {
			transactions, err := loadTransactions()
			if err != nil {
				return err
			}

			report, err := tax.ComputeYearlyReport(transactions, year)
			if err != nil {
				return err
			}

			printJSON(report)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "Report year")
	return cmd
}

func upcomingCmd() *cobra.Command {
	var asOf string

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List lots that become tax exempt within the next year",
		RunE: func(cmd *cobra.Command, args []string) error {
			transactions, err := loadTransactions()
			if err != nil {
				return err
			}

			at := time.Now()
			if asOf != "" {
				at, err = time.ParseInLocation("2006-01-02", asOf, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --as-of date: %w", err)
				}
			}

			exemptions, err := tax.ProjectUpcomingExemptions(transactions, at)
			if err != nil {
				return err
			}

			printJSON(exemptions)
			return nil
		},
	}

	cmd.Flags().StringVar(&asOf, "as-of", "", "Projection date (YYYY-MM-DD, defaults to today)")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Hash a password for manual user seeding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hashed, err := bcryptGenerate([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return err
			}

			fmt.Println(string(hashed))
			return nil
		},
	}
}

func loadTransactions() ([]domain.Transaction, error) {
	if filePath == "" {
		return nil, fmt.Errorf("--file is required")
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	normalizer, err := importer.New(format)
	if err != nil {
		return nil, err
	}

	return normalizer.Normalize(f)
}

func printJSON(v any) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode output: %v\n", err)
		return
	}
	fmt.Println(string(encoded))
}
