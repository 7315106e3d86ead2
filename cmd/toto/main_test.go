package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/wippyai/toto/bridge"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(append([]string{"--color", "never"}, args...), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := NewRootCommand(BuildInfo{Version: "test"})
	for _, name := range []string{"tokens", "check", "pos", "show", "browse", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
	for _, name := range []string{"unclosed", "char", "part"} {
		sub, _, err := cmd.Find([]string{"show", name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}
}

func TestTokens_Text(t *testing.T) {
	path := writeFile(t, "a.toml", "a = 1\n")

	code, out, errOut := execute(t, "tokens", path)
	require.Equal(t, ExitOK, code, errOut)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Contains(t, lines[0], "(13) key")
	assert.Contains(t, lines[0], `"a"`)
	assert.Contains(t, lines[2], "(09) equals")
	assert.NotContains(t, lines[2], `"`)
	assert.Contains(t, lines[5], `"\n"`)
}

func TestTokens_JSON(t *testing.T) {
	path := writeFile(t, "a.toml", "a = 1\n")

	code, out, errOut := execute(t, "tokens", "--format", "json", path)
	require.Equal(t, ExitOK, code, errOut)

	var records []record
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 6)

	assert.Equal(t, "key", records[0].Name)
	require.NotNil(t, records[0].Text)
	assert.Equal(t, "a", *records[0].Text)
	assert.Equal(t, int32(9), records[2].Tag)
	assert.Nil(t, records[2].Text)
	assert.Equal(t, 4, records[4].Start)
}

func TestTokens_YAML(t *testing.T) {
	path := writeFile(t, "a.toml", "[t]\nb = true\n")

	code, out, errOut := execute(t, "tokens", "--format", "yaml", path)
	require.Equal(t, ExitOK, code, errOut)

	var records []record
	require.NoError(t, yaml.Unmarshal([]byte(out), &records))
	require.NotEmpty(t, records)

	last := records[len(records)-2]
	assert.Equal(t, "boolean-true", last.Name)
	assert.Nil(t, last.Text)
}

func TestTokens_LexicalError(t *testing.T) {
	path := writeFile(t, "bad.toml", `a = "unterminated`)

	code, out, errOut := execute(t, "tokens", path)
	assert.Equal(t, ExitFault, code)
	assert.Contains(t, errOut, "unclosed string")
	assert.Contains(t, errOut, "1:5")
	assert.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 4)
}

func TestTokens_KeepGoing(t *testing.T) {
	path := writeFile(t, "bad.toml", "a = $\nb = 'x\nc = 3\n")

	code, out, errOut := execute(t, "tokens", "--keep-going", path)
	assert.Equal(t, ExitFault, code)
	assert.Equal(t, 2, strings.Count(errOut, "error:"))
	assert.Contains(t, out, `"3"`)
}

func TestTokens_InvalidUTF8(t *testing.T) {
	path := writeFile(t, "bad.toml", "a = \xff")

	code, _, errOut := execute(t, "tokens", path)
	assert.Equal(t, ExitFault, code)
	assert.Contains(t, errOut, "invalid_utf8")
}

func TestCheck(t *testing.T) {
	good := writeFile(t, "good.toml", "a = 1\n")
	bad := writeFile(t, "bad.toml", "a = 1\nb = yes\nc = $\n")
	missing := filepath.Join(t.TempDir(), "missing.toml")

	code, out, _ := execute(t, "check", "--workers", "2", good, bad, missing)
	assert.Equal(t, ExitFailures, code)

	goodAt := strings.Index(out, good+": ok (6 tokens)")
	badAt := strings.Index(out, bad+": FAIL (2 lexical errors)")
	missingAt := strings.Index(out, missing+": error")
	require.NotEqual(t, -1, goodAt, out)
	require.NotEqual(t, -1, badAt, out)
	require.NotEqual(t, -1, missingAt, out)
	assert.Less(t, goodAt, badAt)
	assert.Less(t, badAt, missingAt)

	assert.Contains(t, out, "invalid value")
	assert.Contains(t, out, "unexpected character '$'")
}

func TestCheck_AllGood(t *testing.T) {
	var paths []string
	for _, name := range []string{"a.toml", "b.toml", "c.toml", "d.toml"} {
		paths = append(paths, writeFile(t, name, "[x]\ny = [1, 2]\n"))
	}

	code, out, errOut := execute(t, append([]string{"check"}, paths...)...)
	assert.Equal(t, ExitOK, code, errOut)
	assert.Equal(t, 4, strings.Count(out, ": ok"))
}

func TestPos(t *testing.T) {
	path := writeFile(t, "lines.txt", "line1\nline2")

	code, out, errOut := execute(t, "pos", path, "6")
	require.Equal(t, ExitOK, code, errOut)
	assert.Equal(t, "2:1\n", out)

	code, out, errOut = execute(t, "pos", path, "99")
	assert.Equal(t, ExitFault, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "invalid_offset")

	code, _, _ = execute(t, "pos", path, "six")
	assert.Equal(t, ExitUsage, code)
}

func TestShow(t *testing.T) {
	path := writeFile(t, "a.toml", "a = 'open\nb = $\n")

	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{"unclosed", []string{"unclosed", path, "4"}, ExitOK, "^^^^^ opened here"},
		{"char", []string{"char", path, "14"}, ExitOK, "invalid character '$'"},
		{"part", []string{"part", path, "0", "1"}, ExitOK, "1 | a = 'open"},
		{"out_of_range", []string{"unclosed", path, "400"}, ExitFault, ""},
		{"reversed", []string{"part", path, "3", "1"}, ExitFault, ""},
		{"missing_arg", []string{"part", path, "3"}, ExitUsage, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, _ := execute(t, append([]string{"show"}, tt.args...)...)
			assert.Equal(t, tt.code, code)
			if tt.want != "" {
				assert.Contains(t, out, tt.want)
			} else {
				assert.Empty(t, out)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCommand(BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "toto 1.2.3 (commit abc, built today)\n", out.String())
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "toto.toml", `
color = "never"
format = "yaml"
workers = 3

[log]
level = "debug"
`)

	cfg, err := loadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, "never", cfg.Color)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown_key", `colour = "never"`},
		{"bad_color", `color = "sometimes"`},
		{"bad_format", `format = "xml"`},
		{"bad_workers", `workers = 0`},
		{"bad_level", "[log]\nlevel = \"loud\""},
		{"syntax", `color = `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeFile(t, "toto.toml", tt.content), true)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "toto.toml")

	cfg, err := loadConfig(missing, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = loadConfig(missing, true)
	assert.Error(t, err)
}

func TestConfigFileSetsFormat(t *testing.T) {
	cfgPath := writeFile(t, "toto.toml", `format = "json"`)
	src := writeFile(t, "a.toml", "a = 1\n")

	code, out, errOut := execute(t, "--config", cfgPath, "tokens", src)
	require.Equal(t, ExitOK, code, errOut)
	assert.True(t, strings.HasPrefix(out, "["), out)

	code, out, errOut = execute(t, "--config", cfgPath, "--format", "text", "tokens", src)
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, "(13) key")
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newLoadedModel(t *testing.T, src string) *browseModel {
	t.Helper()
	b := bridge.New(bridge.Options{Output: &bytes.Buffer{}})
	t.Cleanup(func() { b.Close() })

	m := newBrowseModel(b, "test.toml")
	m.Update(loadedMsg{src: []byte(src)})
	require.NoError(t, m.err)
	require.NotZero(t, m.h)
	return m
}

func TestBrowse_Step(t *testing.T) {
	m := newLoadedModel(t, "a = 1\n")

	m.Update(keyRunes("n"))
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.Len(t, m.steps, 2)
	assert.Equal(t, "a", m.steps[0].Text)

	m.Update(keyRunes("a"))
	assert.True(t, m.done)
	assert.Len(t, m.steps, 6)
	assert.Contains(t, m.View(), "6 tokens, 0 errors, finished")

	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Zero(t, m.h)
	tokenizers, _ := m.b.Live()
	assert.Zero(t, tokenizers)
}

func TestBrowse_Error(t *testing.T) {
	m := newLoadedModel(t, `a = "x`)

	m.Update(keyRunes("a"))
	assert.True(t, m.done)
	assert.Equal(t, 1, m.faults)
	assert.Contains(t, m.diag.String(), "unclosed string")

	_, errs := m.b.Live()
	assert.Zero(t, errs)
}

func TestBrowse_ResolveOffset(t *testing.T) {
	m := newLoadedModel(t, "line1\nline2")

	m.Update(keyRunes("g"))
	require.Equal(t, stateOffset, m.state)
	m.Update(keyRunes("6"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, stateStep, m.state)
	assert.Equal(t, "offset 6: row 2, column 1", m.position)

	m.Update(keyRunes("g"))
	m.Update(keyRunes("99"))
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, "offset 99: invalid offset", m.position)
}

func TestBrowse_QuitWhileEnteringOffset(t *testing.T) {
	m := newLoadedModel(t, "a = 1\n")

	m.Update(keyRunes("g"))
	require.Equal(t, stateOffset, m.state)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Zero(t, m.h)
	tokenizers, _ := m.b.Live()
	assert.Zero(t, tokenizers)
}

func TestBrowse_LoadError(t *testing.T) {
	b := bridge.New(bridge.Options{Output: &bytes.Buffer{}})
	defer b.Close()

	m := newBrowseModel(b, filepath.Join(t.TempDir(), "missing.toml"))
	msg := m.loadFile()
	m.Update(msg)
	assert.Error(t, m.err)
	assert.Contains(t, m.View(), "Error:")
}
