package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gnolang/tuplog/kernel"
)

const testdata = "../kernel/testdata"

func init() {
	color.NoColor = true
}

type mockVerifyEngine struct {
	mock.Mock
}

func (m *mockVerifyEngine) Run(path string) (kernel.Result, error) {
	args := m.Called(path)
	return args.Get(0).(kernel.Result), args.Error(1)
}

func (m *mockVerifyEngine) RunSource(source []byte) (kernel.Result, error) {
	args := m.Called(source)
	return args.Get(0).(kernel.Result), args.Error(1)
}

func newTestEngine(t *testing.T) *kernel.Engine {
	t.Helper()
	engine, err := kernel.NewEngine(kernel.DefaultConfig(), zap.NewNop())
	require.NoError(t, err)
	return engine
}

func TestRunVerifyProcess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		ok       bool
		contains []string
	}{
		{
			name:     "grounded directory",
			paths:    []string{filepath.Join(testdata, "proofs")},
			ok:       true,
			contains: []string{"ok: modus ponens", "3 proofs: 3 grounded, 0 ungrounded, 0 invalid"},
		},
		{
			name:     "invalid document",
			paths:    []string{filepath.Join(testdata, "invalid.yaml")},
			ok:       false,
			contains: []string{"invalid: swapped conjunction", "step 0.1 [conjunction-introduction]"},
		},
		{
			name:     "ungrounded document",
			paths:    []string{filepath.Join(testdata, "ungrounded.yaml")},
			ok:       false,
			contains: []string{"ungrounded: ungrounded", "not an axiom: q"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			ok, err := runVerifyProcess(context.Background(), zap.NewNop(), newTestEngine(t), tt.paths, &out, nil, false, "")
			require.NoError(t, err)
			assert.Equal(t, tt.ok, ok)
			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
		})
	}
}

func TestRunVerifyProcessJSON(t *testing.T) {
	t.Parallel()
	paths := []string{
		filepath.Join(testdata, "proofs", "modus_ponens.yaml"),
		filepath.Join(testdata, "invalid.yaml"),
	}

	var out bytes.Buffer
	ok, err := runVerifyProcess(context.Background(), zap.NewNop(), newTestEngine(t), paths, &out, nil, true, "")
	require.NoError(t, err)
	assert.False(t, ok)

	var items []jsonResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &items))
	require.Len(t, items, 2)
	assert.True(t, items[0].Valid)
	assert.True(t, items[0].Grounded)
	assert.False(t, items[1].Valid)
	assert.Equal(t, "0.1", items[1].Location)
	assert.NotEmpty(t, items[1].Error)
}

func TestRunVerifyProcessJSONFile(t *testing.T) {
	t.Parallel()
	target := filepath.Join(t.TempDir(), "out.json")
	paths := []string{filepath.Join(testdata, "proofs", "modus_ponens.yaml")}

	var out bytes.Buffer
	ok, err := runVerifyProcess(context.Background(), zap.NewNop(), newTestEngine(t), paths, &out, nil, true, target)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, out.String())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"grounded":true`)
}

func TestRunVerifyProcessWithMockEngine(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "lemma.yaml")
	require.NoError(t, os.WriteFile(path, []byte("proof: {}\n"), 0o644))

	engine := new(mockVerifyEngine)
	engine.On("Run", path).Return(kernel.Result{Name: "lemma", Path: path, Grounded: true}, nil)

	var out bytes.Buffer
	ok, err := runVerifyProcess(context.Background(), zap.NewNop(), engine, []string{path}, &out, nil, false, "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, out.String(), "ok: lemma")
	engine.AssertExpectations(t)
}

func TestRunVerifyProcessMissingPath(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	_, err := runVerifyProcess(context.Background(), zap.NewNop(), newTestEngine(t),
		[]string{filepath.Join(t.TempDir(), "nope.yaml")}, &out, nil, false, "")
	assert.Error(t, err)
}

func TestInitConfigurationFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), kernel.DefaultConfigFile)
	require.NoError(t, initConfigurationFile(path))

	config, err := kernel.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, kernel.DefaultConfig(), config)
}

func TestParseStepPath(t *testing.T) {
	t.Parallel()
	path, err := parseStepPath("0.2.1")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 1}, path)

	path, err = parseStepPath("")
	require.NoError(t, err)
	assert.Nil(t, path)

	for _, bad := range []string{"a", "0..1", "-1"} {
		_, err := parseStepPath(bad)
		assert.Error(t, err, bad)
	}
}

func TestRunInspect(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "clash.yaml")
	doc := `
name: clash
proof:
  premises: [p, [not, p], [not, [not, [not, p]]]]
  steps: []
  conclusions: []
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	var out bytes.Buffer
	require.NoError(t, runInspect(&out, path, ""))
	assert.Contains(t, out.String(), "proof:       clash")
	assert.True(t, strings.HasSuffix(out.String(), "contradictions:\n  p / (not p)\n"), out.String())
}

func TestRunInspectSubproof(t *testing.T) {
	t.Parallel()
	file := filepath.Join(testdata, "proofs", "nested", "verbatim.yaml")

	var out bytes.Buffer
	require.NoError(t, runInspect(&out, file, "2"))
	assert.Contains(t, out.String(), "step:        2")
	assert.Contains(t, out.String(), "implicit:    {(= (concat (verbatim (a)) (verbatim b)) (verbatim (a b)))}")
	assert.Contains(t, out.String(), "contradictions: none")

	out.Reset()
	assert.Error(t, runInspect(&out, file, "0"))
	assert.Error(t, runInspect(&out, file, "7"))
}
