package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/pimpoyo/internal/core"
	_ "github.com/JonMunkholm/pimpoyo/internal/core/tables"
	"github.com/JonMunkholm/pimpoyo/internal/export/postgres"
)

const testDump = "SET client_encoding = 'UTF8';\n" +
	"COPY pimpoyo.users (id, nickname, hashed_password, avatar_url, edad, genero, curso_escolar, consentimiento_obtenido, xp_actual, created_at) FROM stdin;\n" +
	"2\tbea\th\t\\N\t14\tF\t3ºB\tt\t120\t2024-01-02\n" +
	"1\tana\th\t\\N\t13\tF\t2ºA\tf\t90\t2024-01-01\n" +
	"\\.\n" +
	"COPY pimpoyo.legacy_scores (a) FROM stdin;\n" +
	"1\n" +
	"\\.\n"

func writeDump(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.sql")
	require.NoError(t, os.WriteFile(path, []byte(testDump), 0o600))
	return path
}

// run executes the root command and returns stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pimpoyo v"+Version)
}

func TestTables(t *testing.T) {
	out, err := run(t, "", "tables")
	require.NoError(t, err)
	assert.Contains(t, out, "Game Sessions")
	assert.Contains(t, out, "chat_sessions_news")

	out, err = run(t, "", "tables", "--format", "json")
	require.NoError(t, err)
	var infos []core.TableInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	assert.Len(t, infos, core.TableCount())
}

func TestSummary(t *testing.T) {
	path := writeDump(t)

	out, err := run(t, "", "summary", path)
	require.NoError(t, err)
	assert.Contains(t, out, "users")
	assert.Contains(t, out, "NaN fields: 0")
	assert.Contains(t, out, "tables without a schema: legacy_scores")

	out, err = run(t, "", "summary", path, "-f", "json")
	require.NoError(t, err)
	var body struct {
		Fingerprint string          `json:"fingerprint"`
		Stats       core.ParseStats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.Equal(t, 3, body.Stats.DataRows)
	assert.Equal(t, 2, body.Stats.RowsByTable["users"])
	assert.Equal(t, core.Fingerprint([]byte(testDump)), body.Fingerprint)
}

func TestRows(t *testing.T) {
	path := writeDump(t)

	out, err := run(t, "", "rows", path, "users", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "ana", "rows are sorted by id")
	assert.NotContains(t, out, "bea")
	assert.Contains(t, out, "(1 of 2 rows)")

	out, err = run(t, "", "rows", path, "users", "--offset", "1", "--format", "json")
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "bea", rows[0]["nickname"])
	assert.Equal(t, true, rows[0]["consentimiento_obtenido"])
}

func TestRows_Stdin(t *testing.T) {
	out, err := run(t, testDump, "rows", "-", "users", "-f", "json")
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Len(t, rows, 2)
}

func TestRows_UnregisteredTable(t *testing.T) {
	out, err := run(t, "", "rows", writeDump(t), "legacy_scores")
	require.NoError(t, err)
	assert.Contains(t, out, "no registered columns")
}

func TestErrors(t *testing.T) {
	path := writeDump(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown table", []string{"rows", path, "nope"}, "unknown table"},
		{"bad format", []string{"summary", path, "-f", "xml"}, "unknown format"},
		{"missing file", []string{"summary", filepath.Join(t.TempDir(), "none.sql")}, "open dump"},
		{"bad encoding", []string{"summary", path, "--encoding", "ebcdic"}, "unsupported dump encoding"},
		{"missing args", []string{"rows", path}, "accepts 2 arg(s)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEmptyStdin(t *testing.T) {
	_, err := run(t, "", "summary", "-")
	require.ErrorIs(t, err, core.ErrEmptyDump)
}

func TestExportSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "out.db")

	out, err := run(t, "", "export", "sqlite", writeDump(t), "--out", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "exported to sqlite")
	assert.Contains(t, out, "skipped legacy_scores")

	info, err := os.Stat(dbPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExportPostgres_NotConfigured(t *testing.T) {
	_, err := run(t, "", "export", "postgres", writeDump(t))
	require.ErrorIs(t, err, postgres.ErrNotConfigured)
}
