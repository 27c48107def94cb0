package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const fixtureExport = `[
  {"UniqueTaskID": "1", "TaskTitle": "Roteiro", "ClientNickname": "ACME", "JobTitle": "Lançamento",
   "TaskCreationDate": "2024-03-01 09:00:00 UTC", "CurrentDueDate": "2024-03-02 18:00:00 UTC",
   "TaskOwnerDisplayName": "Maria", "TaskOwnerFullPath": "CRIAÇÃO / Redação", "PipelineStepTitle": "Concluída"},
  {"UniqueTaskID": "2", "TaskTitle": "Layout", "ClientNickname": "ACME", "JobTitle": "Lançamento",
   "TaskCreationDate": "2024-03-03 09:00:00 UTC", "CurrentDueDate": "2024-03-20 18:00:00 UTC",
   "TaskOwnerDisplayName": "João", "TaskOwnerFullPath": "CRIAÇÃO / Design", "PipelineStepTitle": "Em Produção"},
  {"UniqueTaskID": "2", "TaskTitle": "Layout (dup)", "ClientNickname": "ACME", "JobTitle": "Lançamento",
   "TaskCreationDate": "2024-03-03 09:00:00 UTC", "TaskOwnerDisplayName": "João"},
  {"UniqueTaskID": "3", "TaskTitle": "Mídia", "ClientNickname": "Beta", "JobTitle": "Verão",
   "TaskCreationDate": "2024-03-05 09:00:00 UTC", "CurrentDueDate": "2024-03-06 18:00:00 UTC",
   "TaskOwnerDisplayName": "Ana", "TaskOwnerFullPath": "MÍDIA / Planejamento", "PipelineStepTitle": "Backlog"}
]`

// withTempDir switches into a fresh directory for the duration of the test.
func withTempDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

// writeFixture writes the sample export into dir and returns its path.
func writeFixture(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "export.json")
	if err := os.WriteFile(path, []byte(fixtureExport), 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

// resetFlags restores every flag of cmd and its children to its default,
// since cobra keeps parsed values in package variables between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes the root command with args and returns its combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(RootCmd)
	var buf bytes.Buffer
	RootCmd.SetOut(&buf)
	RootCmd.SetErr(&buf)
	RootCmd.SetArgs(args)
	defer func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	}()

	err := RootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
