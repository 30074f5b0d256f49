package analyzer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bebsworthy/codescan/internal/debug"
	"github.com/bebsworthy/codescan/internal/language"
	"github.com/bebsworthy/codescan/internal/rules"
	"github.com/bebsworthy/codescan/internal/source"
)

const javaSource = `public class Sample {
    public boolean check(java.util.List<String> items, String name) {
        if (items.size() == 0) {
            return false;
        }
        try {
            load();
        } catch (Exception e) {}
        StringBuffer sb = new StringBuffer();
        return name.equals("admin");
    }
}
`

func collect(t *testing.T, files map[string]string) []source.File {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}
	c, err := source.NewCollector([]string{root}, nil).Collect()
	require.NoError(t, err)
	return c.Files
}

func resolve(t *testing.T, refs string) []*rules.Rule {
	t.Helper()
	r, err := rules.Resolve(refs)
	require.NoError(t, err)
	return r
}

type hit struct {
	Rule string
	Line int
}

func hits(res *Result) []hit {
	out := make([]hit, 0, len(res.Violations))
	for _, v := range res.Violations {
		out = append(out, hit{Rule: v.Rule.Name, Line: v.Line})
	}
	return out
}

func TestAnalyze(t *testing.T) {
	files := collect(t, map[string]string{"Sample.java": javaSource})

	a, err := New(resolve(t, "java-basic,java-design,java-strings"), Options{})
	require.NoError(t, err)

	res, err := a.Analyze(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, 1, res.FilesAnalyzed)
	assert.Empty(t, res.Errors)
	assert.Equal(t, []hit{
		{Rule: "UseCollectionIsEmpty", Line: 3},
		{Rule: "EmptyCatchBlock", Line: 8},
		{Rule: "UseStringBuilder", Line: 9},
		{Rule: "PositionLiteralsFirstInComparisons", Line: 10},
	}, hits(res))
	assert.Equal(t, 18, res.Violations[0].Column)
}

func TestAnalyzeMinimumPriority(t *testing.T) {
	files := collect(t, map[string]string{
		"Sample.java": javaSource,
		"app.js":      "var n = parseInt(s);\nif (a == b) {}\n",
	})

	a, err := New(resolve(t, "java-design,ecmascript-basic"), Options{MinimumPriority: 1})
	require.NoError(t, err)

	res, err := a.Analyze(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, []hit{{Rule: "UseBaseWithParseInt", Line: 1}}, hits(res))
}

func TestAnalyzeLanguageVersionGating(t *testing.T) {
	files := collect(t, map[string]string{"Sample.java": javaSource})
	ruleList := resolve(t, "java-strings/UseStringBuilder")

	old, err := language.Resolve("java", "1.4")
	require.NoError(t, err)
	a, err := New(ruleList, Options{Versions: map[string]language.Version{"java": old}})
	require.NoError(t, err)
	assert.Equal(t, 0, a.RuleCount())

	current, err := language.Resolve("java", "1.5")
	require.NoError(t, err)
	a, err = New(ruleList, Options{Versions: map[string]language.Version{"java": current}})
	require.NoError(t, err)
	res, err := a.Analyze(context.Background(), files)
	require.NoError(t, err)
	assert.Len(t, res.Violations, 1)
}

func TestAnalyzeSkipsOtherLanguages(t *testing.T) {
	files := collect(t, map[string]string{"app.js": "if (a == b) {}\n"})

	a, err := New(resolve(t, "java-basic"), Options{})
	require.NoError(t, err)

	res, err := a.Analyze(context.Background(), files)
	require.NoError(t, err)
	assert.Equal(t, 0, res.FilesAnalyzed)
	assert.Empty(t, res.Violations)
}

func TestAnalyzeDeterministicWithThreads(t *testing.T) {
	contents := map[string]string{}
	for _, name := range []string{"A.java", "B.java", "C.java", "D.java", "E.java"} {
		contents[name] = javaSource
	}
	files := collect(t, contents)
	ruleList := resolve(t, "java-basic,java-design")

	serial, err := New(ruleList, Options{Threads: 1})
	require.NoError(t, err)
	want, err := serial.Analyze(context.Background(), files)
	require.NoError(t, err)

	parallel, err := New(ruleList, Options{Threads: 4})
	require.NoError(t, err)
	got, err := parallel.Analyze(context.Background(), files)
	require.NoError(t, err)

	require.Equal(t, len(want.Violations), len(got.Violations))
	for i := range want.Violations {
		assert.Equal(t, want.Violations[i].File.Path, got.Violations[i].File.Path)
		assert.Equal(t, want.Violations[i].Line, got.Violations[i].Line)
		assert.Equal(t, want.Violations[i].Rule.Name, got.Violations[i].Rule.Name)
	}
}

func TestAnalyzeUnreadableFile(t *testing.T) {
	files := collect(t, map[string]string{"Gone.java": javaSource})
	require.NoError(t, os.Remove(files[0].Path))

	a, err := New(resolve(t, "java-basic"), Options{})
	require.NoError(t, err)

	res, err := a.Analyze(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, files[0].Path, res.Errors[0].File.Path)
}

func TestAnalyzeCanceled(t *testing.T) {
	files := collect(t, map[string]string{"Sample.java": javaSource})
	a, err := New(resolve(t, "java-basic"), Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = a.Analyze(ctx, files)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeLogsMatchesWhenDebugging(t *testing.T) {
	defer debug.Reset()
	var buf bytes.Buffer
	debug.Reset()
	debug.SetWriter(&buf)
	debug.Enable()

	files := collect(t, map[string]string{"Sample.java": javaSource})
	a, err := New(resolve(t, "java-design/UseCollectionIsEmpty"), Options{})
	require.NoError(t, err)

	_, err = a.Analyze(context.Background(), files)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `Pattern: "\\.size\\(\\)\\s*[!=]=\\s*0" against "        if (items.size() == 0) {" - matched`)
}
