package migrate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	script := `
create table users (id text primary key);
insert into roles (key, description) values ('VISITOR', 'semi;colon in a string');
`
	stmts := splitStatements(script)
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(stmts), stmts)
	}
	if stmts[0] != "create table users (id text primary key);" {
		t.Fatalf("unexpected first statement: %q", stmts[0])
	}
	// The semicolon inside the quoted literal must not split the statement.
	if want := "insert into roles (key, description) values ('VISITOR', 'semi;colon in a string');"; stmts[1] != want {
		t.Fatalf("unexpected second statement: %q", stmts[1])
	}
}

func TestSplitStatementsKeepsUnterminatedTail(t *testing.T) {
	stmts := splitStatements("select 1")
	if len(stmts) != 1 || stmts[0] != "select 1" {
		t.Fatalf("unexpected statements: %q", stmts)
	}
}

func TestCollectSQLOrdersByBaseName(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_roles.up.sql", "0001_users.up.sql", "0001_users.down.sql", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("select 1;"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	files, err := collectSQL(dir, ".up.sql")
	if err != nil {
		t.Fatalf("collectSQL: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 up migrations, got %d: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "0001_users.up.sql" || filepath.Base(files[1]) != "0002_roles.up.sql" {
		t.Fatalf("wrong order: %v", files)
	}
}

func TestCollectSQLMissingDir(t *testing.T) {
	files, err := collectSQL(filepath.Join(t.TempDir(), "absent"), ".sql")
	if err != nil {
		t.Fatalf("collectSQL: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no files, got %v", files)
	}
}
