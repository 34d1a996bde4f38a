package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read stdout: %v", err)
	}
	return buf.String()
}

func TestPrintJSON(t *testing.T) {
	out := captureOutput(t, func() {
		printJSON(struct {
			A int `json:"a"`
		}{A: 1})
	})

	expected := "{\n  \"a\": 1\n}\n"
	if out != expected {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestHashPasswordCmd(t *testing.T) {
	orig := bcryptGenerate
	bcryptGenerate = func(p []byte, cost int) ([]byte, error) {
		return []byte("hashed-value"), nil
	}
	defer func() { bcryptGenerate = orig }()

	cmd := hashPasswordCmd()
	cmd.SetArgs([]string{"secret"})

	out := captureOutput(t, func() {
		if err := cmd.Execute(); err != nil {
			t.Fatalf("command failed: %v", err)
		}
	})

	if strings.TrimSpace(out) != "hashed-value" {
		t.Fatalf("expected hashed-value, got %q", out)
	}
}

func TestReportCmdComputesFromExport(t *testing.T) {
	csv := "id,exchange_name,depot_name,transaction_date,buy_asset,buy_amount,sell_asset,sell_amount,fee_asset,fee_amount,transaction_type,note,linked_transaction\n" +
		"1,21bitcoin,main,01.02.2021 10:00:00,BTC,1.0,EUR,10000,EUR,0,trade,,\n" +
		"2,21bitcoin,main,01.03.2023 10:00:00,,,BTC,0.4,,,withdrawal,,\n"

	dir := t.TempDir()
	path := filepath.Join(dir, "export.csv")
	if err := os.WriteFile(path, []byte(csv), 0o600); err != nil {
		t.Fatalf("failed to write export: %v", err)
	}

	origFile, origFormat := filePath, format
	defer func() { filePath, format = origFile, origFormat }()
	filePath = path

	cmd := reportCmd()
	if err := cmd.Flags().Set("year", "2023"); err != nil {
		t.Fatalf("failed to set year: %v", err)
	}

	out := captureOutput(t, func() {
		if err := cmd.RunE(cmd, nil); err != nil {
			t.Fatalf("report command failed: %v", err)
		}
	})

	var report struct {
		Year             int    `json:"Year"`
		TotalTaxableGain string `json:"TotalTaxableGain"`
		Transfers        []struct {
			Asset     string `json:"Asset"`
			CostBasis string `json:"CostBasis"`
		} `json:"Transfers"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("failed to parse report output: %v\n%s", err, out)
	}

	if report.Year != 2023 {
		t.Fatalf("expected year 2023, got %d", report.Year)
	}
	if report.TotalTaxableGain != "0" {
		t.Fatalf("expected zero taxable gain, got %q", report.TotalTaxableGain)
	}
	if len(report.Transfers) != 1 {
		t.Fatalf("expected one transfer, got %d", len(report.Transfers))
	}
	if report.Transfers[0].Asset != "BTC" || report.Transfers[0].CostBasis != "4000" {
		t.Fatalf("unexpected transfer: %+v", report.Transfers[0])
	}
}

func TestLoadTransactionsRequiresFile(t *testing.T) {
	origFile := filePath
	defer func() { filePath = origFile }()
	filePath = ""

	if _, err := loadTransactions(); err == nil {
		t.Fatalf("expected error without --file")
	}
}
