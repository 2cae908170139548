package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

type recordingTB struct {
	testing.TB
	failed string
}

func (r *recordingTB) Helper() {}

func (r *recordingTB) Fatalf(format string, args ...any) {
	r.failed = format
}

func writeFile(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestAssertNoDirectImports(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "pure.go", "package tmp\nimport \"strings\"\nvar _ = strings.ToUpper\n")
	writeFile(t, dir, "pure_test.go", "package tmp\nimport \"os\"\nvar _ = os.Getenv\n")
	if err := os.Mkdir(filepath.Join(dir, "sub.go"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	AssertNoDirectImports(t, dir, IOImportForbidden, "test files and directories are skipped")

	writeFile(t, dir, "leaky.go", "package tmp\nimport \"log/slog\"\nvar _ = slog.Info\n")
	rec := &recordingTB{TB: t}
	AssertNoDirectImports(rec, dir, IOImportForbidden, "pure")
	if rec.failed == "" {
		t.Fatalf("expected violation for log/slog")
	}
}

func TestAssertNoDirectImportsBadDir(t *testing.T) {
	rec := &recordingTB{TB: t}
	AssertNoDirectImports(rec, filepath.Join(t.TempDir(), "missing"), IOImportForbidden, "x")
	if rec.failed == "" {
		t.Fatalf("expected scan failure")
	}
}

func TestPredicates(t *testing.T) {
	cases := []struct {
		fn   func(string) bool
		in   string
		want bool
	}{
		{InternalImportForbidden, "rnacolumns/internal/columns", true},
		{InternalImportForbidden, "rnacolumns/pkg/domain", false},
		{InfraImportForbidden, "rnacolumns/internal/infra/cookie/s3", true},
		{InfraImportForbidden, "rnacolumns/internal/cookie", false},
		{IOImportForbidden, "os", true},
		{IOImportForbidden, "os/exec", true},
		{IOImportForbidden, "net/http", true},
		{IOImportForbidden, "log/slog", true},
		{IOImportForbidden, "rnacolumns/internal/infra/cookie/fs", true},
		{IOImportForbidden, "strings", false},
		{IOImportForbidden, "regexp", false},
		{IOImportForbidden, "rnacolumns/pkg/domain", false},
	}
	for _, c := range cases {
		if got := c.fn(c.in); got != c.want {
			t.Fatalf("predicate(%q)=%v want %v", c.in, got, c.want)
		}
	}
}
