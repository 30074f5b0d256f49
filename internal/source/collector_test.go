package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func rels(c *Collection) []string {
	out := make([]string, 0, len(c.Files))
	for _, f := range c.Files {
		out = append(out, f.Rel)
	}
	return out
}

func TestCollect(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/b/Beta.java":     "class Beta {}",
		"src/a/Alpha.java":    "class Alpha {}",
		"web/app.js":          "var x = 1;",
		"README.md":           "# readme",
		"generated/Gen.java":  "class Gen {}",
		"src/a/gen/Deep.java": "class Deep {}",
		"config/settings.xml": "<settings/>",
	})

	c, err := NewCollector([]string{root}, nil).Collect()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"config/settings.xml",
		"generated/Gen.java",
		"src/a/Alpha.java",
		"src/a/gen/Deep.java",
		"src/b/Beta.java",
		"web/app.js",
	}, rels(c))
	assert.Equal(t, int64(len("class Beta {}")+len("class Alpha {}")+len("var x = 1;")+
		len("class Gen {}")+len("class Deep {}")+len("<settings/>")), c.TotalBytes)

	groups := c.GroupByLanguage()
	assert.Len(t, groups["java"], 4)
	assert.Len(t, groups["ecmascript"], 1)
	assert.Len(t, groups["xml"], 1)
}

func TestCollectExclude(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"src/Alpha.java":     "class Alpha {}",
		"generated/Gen.java": "class Gen {}",
		"src/gen/Deep.java":  "class Deep {}",
		"src/AlphaTest.java": "class AlphaTest {}",
	})

	c, err := NewCollector([]string{root}, []string{"generated", "**/gen/**", "**/*Test.java"}).Collect()
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Alpha.java"}, rels(c))
}

func TestCollectMultipleRootsAndFiles(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()
	writeTree(t, a, map[string]string{"A.java": "class A {}"})
	writeTree(t, b, map[string]string{"b.js": "var b;"})
	single := filepath.Join(b, "b.js")

	c, err := NewCollector([]string{a, b, single}, nil).Collect()
	require.NoError(t, err)
	assert.Len(t, c.Files, 2, "a file reachable from two roots is collected once")
}

func TestCollectEmptyRoot(t *testing.T) {
	c, err := NewCollector([]string{t.TempDir()}, nil).Collect()
	require.NoError(t, err)
	assert.Empty(t, c.Files)
}

func TestCollectMissingRoot(t *testing.T) {
	_, err := NewCollector([]string{filepath.Join(t.TempDir(), "missing")}, nil).Collect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source root")
}

func TestCollectInvalidExclude(t *testing.T) {
	_, err := NewCollector([]string{t.TempDir()}, []string{"[unclosed"}).Collect()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid exclude pattern")
}

func TestSplitRoots(t *testing.T) {
	assert.Equal(t, []string{"src/main", "src/test"}, SplitRoots("src/main, src/test,"))
	assert.Nil(t, SplitRoots(""))
}
