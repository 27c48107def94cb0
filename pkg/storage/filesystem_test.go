package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/felixgeelhaar/timeboard/pkg/domain/board"
)

func setupRepo(t *testing.T) *FilesystemRepository {
	t.Helper()
	dir := t.TempDir()
	repo := NewFilesystemRepository(dir)
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return repo
}

func writePolicyFile(t *testing.T, repo *FilesystemRepository, content string) {
	t.Helper()
	path := filepath.Join(repo.Root(), WorkspaceDir, PolicyFile)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write policy: %v", err)
	}
}

func TestRoot(t *testing.T) {
	dir := t.TempDir()
	repo := NewFilesystemRepository(dir)
	if repo.Root() != dir {
		t.Errorf("Root() = %q, want %q", repo.Root(), dir)
	}
}

func TestInitialize(t *testing.T) {
	dir := t.TempDir()
	repo := NewFilesystemRepository(dir)
	if repo.IsInitialized() {
		t.Fatal("fresh directory should not be initialized")
	}
	if err := repo.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !repo.IsInitialized() {
		t.Fatal("expected initialized workspace")
	}
	// Idempotent.
	if err := repo.Initialize(); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}
}

func TestResolvePath(t *testing.T) {
	repo := NewFilesystemRepository("/work")

	path, err := repo.ResolvePath(PolicyFile)
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	if want := filepath.Join("/work", WorkspaceDir, PolicyFile); path != want {
		t.Errorf("ResolvePath = %q, want %q", path, want)
	}

	for _, bad := range []string{"", "../x", "sub/file.yaml", "../../etc/passwd"} {
		if _, err := repo.ResolvePath(bad); err == nil {
			t.Errorf("ResolvePath(%q) should fail", bad)
		}
	}
}

func TestLoadPolicy_MissingFileUsesDefaults(t *testing.T) {
	repo := setupRepo(t)

	p, err := repo.LoadPolicy()
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	def := board.DefaultPolicy()
	if p.OtherGroup != def.OtherGroup || p.DefaultEndOffset != def.DefaultEndOffset {
		t.Errorf("LoadPolicy() = %+v, want defaults", p)
	}
	if len(p.KnownGroups) != len(def.KnownGroups) {
		t.Errorf("KnownGroups = %v, want %v", p.KnownGroups, def.KnownGroups)
	}
}

func TestPolicyRoundtrip(t *testing.T) {
	repo := setupRepo(t)

	p := board.DefaultPolicy()
	p.OtherGroup = "Outros"
	p.DefaultEndOffset = 48 * time.Hour
	p.ExcludedClients = []string{"ACME"}
	p.Location = "America/Sao_Paulo"

	if err := repo.SavePolicy(p); err != nil {
		t.Fatalf("SavePolicy: %v", err)
	}
	loaded, err := repo.LoadPolicy()
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	if loaded.OtherGroup != "Outros" {
		t.Errorf("OtherGroup = %q, want Outros", loaded.OtherGroup)
	}
	if loaded.DefaultEndOffset != 48*time.Hour {
		t.Errorf("DefaultEndOffset = %v, want 48h", loaded.DefaultEndOffset)
	}
	if len(loaded.ExcludedClients) != 1 || loaded.ExcludedClients[0] != "ACME" {
		t.Errorf("ExcludedClients = %v, want [ACME]", loaded.ExcludedClients)
	}
	if loaded.Location != "America/Sao_Paulo" {
		t.Errorf("Location = %q", loaded.Location)
	}
}

func TestLoadPolicy_PartialOverlay(t *testing.T) {
	repo := setupRepo(t)
	writePolicyFile(t, repo, "untitled_task: Untitled\n")

	p, err := repo.LoadPolicy()
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	if p.UntitledTask != "Untitled" {
		t.Errorf("UntitledTask = %q, want Untitled", p.UntitledTask)
	}
	if p.UnassignedProject != board.DefaultUnassignedProject {
		t.Errorf("UnassignedProject = %q, want default", p.UnassignedProject)
	}
}

func TestLoadPolicy_MapRulesReplaceDefaults(t *testing.T) {
	repo := setupRepo(t)
	writePolicyFile(t, repo, "group_overrides: {}\nstatus_priority:\n  Custom: high\n")

	p, err := repo.LoadPolicy()
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	if len(p.GroupOverrides) != 0 {
		t.Errorf("GroupOverrides = %v, want empty", p.GroupOverrides)
	}
	if len(p.StatusPriority) != 1 || p.StatusPriority["Custom"] != board.PriorityHigh {
		t.Errorf("StatusPriority = %v, want only Custom: high", p.StatusPriority)
	}
}

func TestLoadPolicy_AbsentMapRulesKeepDefaults(t *testing.T) {
	repo := setupRepo(t)
	writePolicyFile(t, repo, "other_group: Outros\n")

	p, err := repo.LoadPolicy()
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	def := board.DefaultPolicy()
	if len(p.GroupOverrides) != len(def.GroupOverrides) {
		t.Errorf("GroupOverrides = %v, want defaults", p.GroupOverrides)
	}
	if len(p.StatusPriority) != len(def.StatusPriority) {
		t.Errorf("StatusPriority = %v, want defaults", p.StatusPriority)
	}
}

func TestLoadPolicy_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "known_groups: [unterminated"},
		{"invalid priority", "status_priority:\n  Backlog: urgent\n"},
		{"invalid location", "location: Nowhere/City\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := setupRepo(t)
			writePolicyFile(t, repo, tt.content)
			if _, err := repo.LoadPolicy(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSavePolicy_RejectsInvalid(t *testing.T) {
	repo := setupRepo(t)
	p := board.DefaultPolicy()
	p.DefaultEndOffset = -time.Hour
	if err := repo.SavePolicy(p); err == nil {
		t.Fatal("expected validation error")
	}
}
