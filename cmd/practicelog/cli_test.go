package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const fixtureHistory = `{
  "records": [
    {"date": "2025-11-01 21:00:00", "file": "20251101.html", "count": 2},
    {"date": "2025-11-02 08:30:00", "count": 1, "questions": [
      {"number": 42, "title": "Trapping Rain Water", "difficulty": "困难", "file": "q/42.html"}
    ]},
    {"date": "2025-11-02 19:10:00", "count": 1, "questions": [
      {"number": "7", "title": "Reverse Integer", "difficulty": "medium"}
    ]}
  ],
  "last_updated": "2025-11-02 19:10:02"
}`

const fixtureDaily = `<div class="content">
<h1>1. Two Sum</h1><p>难度：简单</p><p>链接：<a href="https://leetcode.cn/problems/two-sum/">two-sum</a></p>
<hr>
<h1>2. Add Two Numbers</h1><p>难度：中等</p>
</div>`

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "history.json"), []byte(fixtureHistory), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20251101.html"), []byte(fixtureDaily), 0o644))
	return dir
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("PAGE_SIZE_OPTIONS", "2,10")
	t.Setenv("DEFAULT_PAGE_SIZE", "2")
	t.Setenv("HISTORY_FILE", "")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestDates(t *testing.T) {
	out, _, err := runCLI(t, "dates", "--source", fixtureDir(t))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Regexp(t, `^2025-11-02\s+2\s+2$`, lines[2])
	assert.Regexp(t, `^2025-11-01\s+1\s+2$`, lines[3])
}

func TestList_Paging(t *testing.T) {
	dir := fixtureDir(t)

	out, _, err := runCLI(t, "list", "--source", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2025-11-02 19:10:00")
	assert.Contains(t, out, "7. Reverse Integer")
	assert.Contains(t, out, "page 1/2, 3 sessions")

	out, _, err = runCLI(t, "list", "--source", dir, "--page", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "page 2/2, 3 sessions")
	assert.Contains(t, out, "20251101.html")

	_, _, err = runCLI(t, "list", "--source", dir, "--page-size", "3")
	assert.Error(t, err)
}

func TestDay(t *testing.T) {
	out, _, err := runCLI(t, "day", "2025-11-02", "--source", fixtureDir(t))
	require.NoError(t, err)
	assert.Contains(t, out, "08:30:00")
	assert.Contains(t, out, "19:10:00")
	assert.NotContains(t, out, "2025-11-02 08:30:00")
	assert.Contains(t, out, "page 1/1, 2 sessions")

	out, _, err = runCLI(t, "day", "1999-01-01", "--source", fixtureDir(t))
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions.")
}

func TestStats(t *testing.T) {
	out, _, err := runCLI(t, "stats", "--source", fixtureDir(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Total questions: 4")
	assert.Contains(t, out, "Practice days:   2")
	assert.Contains(t, out, "Most recent:     2025-11-02 19:10:00")
}

func TestStats_MissingFeedIsEmpty(t *testing.T) {
	out, errOut, err := runCLI(t, "stats", "--source", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "Total questions: 0")
	assert.Contains(t, out, "Most recent:     -")
	assert.Contains(t, errOut, "warning:")
}

func TestShow(t *testing.T) {
	dir := fixtureDir(t)

	out, _, err := runCLI(t, "show", "1", "--source", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2025-11-02 08:30:00")
	assert.Regexp(t, `42\s+Trapping Rain Water\s+Hard`, out)

	out, _, err = runCLI(t, "show", "2", "--expand", "--source", dir)
	require.NoError(t, err)
	assert.Regexp(t, `1\s+Two Sum\s+Easy\s+https://leetcode.cn/problems/two-sum/`, out)
	assert.Regexp(t, `2\s+Add Two Numbers\s+Medium\s+-`, out)

	_, _, err = runCLI(t, "show", "3", "--source", dir)
	assert.Error(t, err)
}

func TestPage(t *testing.T) {
	dir := fixtureDir(t)

	out, _, err := runCLI(t, "page", "20251101.html", "--source", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Two Sum")

	_, _, err = runCLI(t, "page", "missing.html", "--source", dir)
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", "s3cret")
	out, _, err := runCLI(t, "token", "--subject", "ops")
	require.NoError(t, err)

	token, err := jwt.Parse(strings.TrimSpace(out), func(*jwt.Token) (interface{}, error) {
		return []byte("s3cret"), nil
	})
	require.NoError(t, err)
	sub, err := token.Claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "ops", sub)

	t.Setenv("ADMIN_JWT_SECRET", "")
	_, _, err = runCLI(t, "token")
	assert.Error(t, err)
}

func TestReload_RequiresRedis(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	_, _, err := runCLI(t, "reload")
	assert.Error(t, err)
}

func TestDay_IndexOpensTheSameSession(t *testing.T) {
	dir := fixtureDir(t)

	for _, tc := range []struct {
		date string
		want []string
	}{
		{"2025-11-01", []string{"2025-11-01 21:00:00"}},
		{"2025-11-02", []string{"2025-11-02 19:10:00", "2025-11-02 08:30:00"}},
	} {
		t.Run(tc.date, func(t *testing.T) {
			out, _, err := runCLI(t, "day", tc.date, "--source", dir)
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSpace(out), "\n")
			require.GreaterOrEqual(t, len(lines), 2+len(tc.want))
			for i, want := range tc.want {
				index := strings.Fields(lines[2+i])[0]

				shown, _, err := runCLI(t, "show", index, "--source", dir)
				require.NoError(t, err)
				assert.True(t, strings.HasPrefix(shown, want), "day %s row %s opened %q", tc.date, index, shown)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		quiet, err := newLogger(env, false)
		require.NoError(t, err)
		assert.False(t, quiet.Core().Enabled(zapcore.InfoLevel), env)
		assert.True(t, quiet.Core().Enabled(zapcore.WarnLevel), env)

		loud, err := newLogger(env, true)
		require.NoError(t, err)
		assert.True(t, loud.Core().Enabled(zapcore.DebugLevel), env)
	}
}
