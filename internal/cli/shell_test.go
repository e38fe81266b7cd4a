package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	nferrors "github.com/matzehuels/nodeforest/pkg/errors"
	"github.com/matzehuels/nodeforest/pkg/forest"
	"github.com/matzehuels/nodeforest/pkg/repository"
	"github.com/matzehuels/nodeforest/pkg/service"
	"github.com/matzehuels/nodeforest/pkg/session"
)

func newTestShell(t *testing.T) (*shell, *bytes.Buffer, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository(repository.Seed())
	svc := service.New(repo, service.Options{Logger: log.New(io.Discard)})
	sel, err := session.NewSelection(context.Background(), session.NewMemoryStore(), nil)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	return newShell(svc, sel, &out), &out, repo
}

func parentOf(t *testing.T, repo repository.Repository, id int64) string {
	t.Helper()
	nodes, err := repo.Read(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return forest.FormatParent(forest.GetParentID(nodes, id))
}

func TestShell_Tree(t *testing.T) {
	sh, out, _ := newTestShell(t)
	ctx := context.Background()

	if err := sh.exec(ctx, "all"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "RF_冷卻水泵4") {
		t.Errorf("all should show every node:\n%s", out)
	}

	out.Reset()
	if err := sh.exec(ctx, "tree"); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out.String(), "B2_冰水泵1") {
		t.Errorf("tree should hide children of collapsed nodes:\n%s", out)
	}

	out.Reset()
	if err := sh.exec(ctx, "expand 1"); err != nil {
		t.Fatal(err)
	}
	if err := sh.exec(ctx, "tree"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "B2_冰水泵1") {
		t.Errorf("tree should show children of expanded nodes:\n%s", out)
	}
}

func TestShell_Ls(t *testing.T) {
	sh, out, _ := newTestShell(t)

	if err := sh.exec(context.Background(), "ls 1"); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, "B2_冰水泵2") || strings.Contains(got, "RF_冷卻水泵2") {
		t.Errorf("ls 1 should list only direct children:\n%s", got)
	}
}

func TestShell_SelectAndMove(t *testing.T) {
	sh, _, repo := newTestShell(t)
	ctx := context.Background()

	if err := sh.exec(ctx, "select 2 3"); err != nil {
		t.Fatal(err)
	}
	if err := sh.exec(ctx, "select 2 5"); !errors.Is(err, session.ErrNotSameLevel) {
		t.Errorf("cross-level select error = %v", err)
	}
	if got := sh.sel.Selected(); !equalIDs(got, []int64{2, 3}) {
		t.Errorf("rejected select changed the selection to %v", got)
	}

	if err := sh.exec(ctx, "move 4"); err != nil {
		t.Fatal(err)
	}
	if parentOf(t, repo, 2) != "4" || parentOf(t, repo, 3) != "4" {
		t.Error("selection should have moved under 4")
	}
	if len(sh.sel.Selected()) != 0 {
		t.Error("moving the selection should clear it")
	}

	if err := sh.exec(ctx, "move 5 root"); err != nil {
		t.Fatal(err)
	}
	if parentOf(t, repo, 5) != "root" {
		t.Error("node 5 should be a root")
	}
}

func TestShell_Toggle(t *testing.T) {
	sh, _, _ := newTestShell(t)
	ctx := context.Background()

	for _, line := range []string{"toggle 2", "toggle 3", "toggle 2"} {
		if err := sh.exec(ctx, line); err != nil {
			t.Fatalf("%s: %v", line, err)
		}
	}
	if got := sh.sel.Selected(); !equalIDs(got, []int64{3}) {
		t.Errorf("selected = %v, want [3]", got)
	}

	if err := sh.exec(ctx, "clear"); err != nil {
		t.Fatal(err)
	}
	if len(sh.sel.Selected()) != 0 {
		t.Error("clear should empty the selection")
	}
}

func TestShell_Errors(t *testing.T) {
	tests := []struct {
		line  string
		code  nferrors.Code
		check func(error) bool
	}{
		{line: "move 1 5", code: nferrors.ErrCodeDescendantCycle},
		{line: "move 3 3", code: nferrors.ErrCodeSelfParent},
		{line: "move root", code: nferrors.ErrCodeEmptyBatch},
		{line: "move", check: func(err error) bool { return err != nil }},
		{line: "select 42", check: func(err error) bool { return err != nil }},
		{line: "frobnicate", check: func(err error) bool { return strings.Contains(err.Error(), "unknown command") }},
		{line: "exit", check: func(err error) bool { return errors.Is(err, errExit) }},
		{line: "quit", check: func(err error) bool { return errors.Is(err, errExit) }},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			sh, _, repo := newTestShell(t)
			err := sh.exec(context.Background(), tt.line)
			if tt.check != nil {
				if err == nil || !tt.check(err) {
					t.Errorf("exec(%q) = %v", tt.line, err)
				}
				return
			}
			if !nferrors.Is(err, tt.code) {
				t.Errorf("exec(%q) = %v, want %s", tt.line, err, tt.code)
			}
			nodes, _ := repo.Read(context.Background())
			if !repository.Equal(nodes, repository.Seed()) {
				t.Error("rejected move changed the repository")
			}
		})
	}
}

func TestShell_BlankAndHelp(t *testing.T) {
	sh, out, _ := newTestShell(t)

	if err := sh.exec(context.Background(), "   "); err != nil {
		t.Errorf("blank line: %v", err)
	}
	if err := sh.exec(context.Background(), "help"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "move <target|root>") {
		t.Error("help should list the move command")
	}
}

func TestShell_RunScript(t *testing.T) {
	sh, _, repo := newTestShell(t)
	dir := t.TempDir()

	script := filepath.Join(dir, "reorg.nf")
	data := "# regroup the pumps\n\nselect 3 4\nmove 2\n"
	if err := os.WriteFile(script, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if err := sh.runScript(context.Background(), script); err != nil {
		t.Fatal(err)
	}
	if parentOf(t, repo, 3) != "2" || parentOf(t, repo, 4) != "2" {
		t.Error("script moves were not applied")
	}

	bad := filepath.Join(dir, "bad.nf")
	if err := os.WriteFile(bad, []byte("check\nmove 1 6\nmove 6 root\n"), 0644); err != nil {
		t.Fatal(err)
	}
	err := sh.runScript(context.Background(), bad)
	if err == nil || !strings.Contains(err.Error(), "bad.nf:2") {
		t.Errorf("runScript error = %v, want it to name line 2", err)
	}
	if parentOf(t, repo, 6) != "3" {
		t.Error("script should stop at the first error")
	}
}
