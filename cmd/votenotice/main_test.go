package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/votenotice-go/internal/testsupport"
	"github.com/ukaji3/votenotice-go/pkg/votenotice/models"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	// Flag variables are package level; reset between runs.
	configPath, templateName, registerName = "", "", ""
	batchSize, workers = 0, 0
	sharePolicy, logLevel, logFormat = "", "", ""

	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunGeneratesDocuments(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "template.docx")
	testsupport.WriteRegister(t, filepath.Join(root, "register.xlsx"), [][]any{
		testsupport.OwnerRow("12", "45.5", "deed", "Ivanov", "1"),
		testsupport.OwnerRow("7", "30", "deed2", "Petrov/Sidorov", "1"),
	})

	stdout, stderr, err := execute(t, root, "--batch-size", "2", "--log-format", "json")
	require.NoError(t, err)

	assert.Contains(t, stdout, "3 persons")
	assert.Contains(t, stdout, "0-2")
	assert.Contains(t, stdout, "2-4")
	assert.Contains(t, stderr, `"msg":"batch written"`)

	files, err := filepath.Glob(filepath.Join(root, "output_*.docx"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestRunUsesConfigFile(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "notice.docx")
	testsupport.WriteRegister(t, filepath.Join(root, "register.xlsx"), [][]any{
		testsupport.OwnerRow("1", "10", "deed", "Ivanov", "1"),
	})
	require.NoError(t, os.WriteFile(filepath.Join(root, "votenotice.toml"), []byte("[files]\ntemplate = \"notice.docx\"\n"), 0o644))

	stdout, _, err := execute(t, root, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 persons")
}

func TestRunFlagOverridesInvalidConfigValue(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "template.docx")
	testsupport.WriteRegister(t, filepath.Join(root, "register.xlsx"), [][]any{
		testsupport.OwnerRow("1", "10", "deed", "Ivanov", "1"),
	})
	require.NoError(t, os.WriteFile(filepath.Join(root, "votenotice.toml"), []byte("[batch]\nsize = 0\n"), 0o644))

	_, _, err := execute(t, root, "--log-level", "error")
	require.Error(t, err)

	stdout, _, err := execute(t, root, "--log-level", "error", "--batch-size", "5")
	require.NoError(t, err)
	assert.Contains(t, stdout, "0-5")
}

func TestRunMissingInputs(t *testing.T) {
	root := t.TempDir()
	_, _, err := execute(t, root, "--log-level", "error")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input file not found")
}

func TestRunEmptyRegister(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteTemplate(t, root, "template.docx")
	testsupport.WriteRegister(t, filepath.Join(root, "register.xlsx"), [][]any{
		testsupport.OwnerRow("", "10", "deed", "Ivanov", "1"),
	})

	stdout, _, err := execute(t, root, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "nothing to generate")
}

func TestRunRejectsBadFlags(t *testing.T) {
	root := t.TempDir()
	_, _, err := execute(t, root, "--share-policy", "round")
	assert.Error(t, err)

	_, _, err = execute(t, root, "--batch-size", "0")
	assert.Error(t, err)

	_, _, err = execute(t, "a", "b")
	assert.Error(t, err)
}

func TestRenderSummary(t *testing.T) {
	out := renderSummary(&models.RunSummary{
		RunID:   "run-1",
		Rows:    3,
		Records: 4,
		Groups:  2,
		Batches: []models.BatchResult{
			{Start: 0, End: 50, Groups: 2, Rows: 4, Path: "/tmp/output_0_50_1.docx", Bytes: 2048},
		},
	})

	assert.True(t, strings.HasPrefix(out, "Run run-1: 3 rows, 4 records, 2 persons"))
	assert.Contains(t, out, "output_0_50_1.docx")
	assert.Contains(t, out, "2.0 kB")
	assert.Contains(t, out, "0-50")
}
