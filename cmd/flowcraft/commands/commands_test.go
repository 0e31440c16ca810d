package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"flowcraft/diagram"
	"flowcraft/editor"
	"flowcraft/geometry"
	"flowcraft/shapes"
)

// run executes the root command with args from an empty working directory
// and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	strict, rerouteOutput, newName, newForce, statsYAML = false, "", "", false, false
	importFormat, importDirection = "", ""
	exportFormat, exportDirection = "", ""
	cfgFile, logLevel, noColor = "", "", false
	color.NoColor = true

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func workdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	// os.Chdir + restore instead of t.Chdir (Go 1.24+).
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
	t.Setenv("HOME", dir)
	return dir
}

// writeSample saves a diagram with a container, two rectangles and a
// connector between them.
func writeSample(t *testing.T, path string) {
	t.Helper()
	s := editor.New()
	s.AddShape(shapes.TypeContainer, 0, 0)
	a := s.AddShape(shapes.TypeRectangle, 400, 0)
	b := s.AddShape(shapes.TypeRectangle, 400, 200)
	require.NotNil(t, s.Connect(a.ID, b.ID))
	require.NotNil(t, s.ConnectToPoint(b.ID, "bottom", geometry.Point{X: 470, Y: 500}))

	data, err := s.SaveJSON()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestValidateCommand(t *testing.T) {
	dir := workdir(t)
	good := filepath.Join(dir, "good.json")
	writeSample(t, good)

	out, err := run(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+good)

	doc := readDoc(t, good)
	doc.Connectors[0].TargetShapeID = "ghost"
	bad := filepath.Join(dir, "bad.json")
	writeDoc(t, bad, doc)

	out, err = run(t, "validate", good, bad)
	require.Error(t, err)
	assert.Equal(t, "1 of 2 files failed validation", err.Error())
	assert.Contains(t, out, "✗ "+bad+" (1 problems)")
	assert.Contains(t, out, `target shape "ghost" does not exist`)
}

func TestValidateCommandStrict(t *testing.T) {
	dir := workdir(t)
	path := filepath.Join(dir, "d.json")
	writeSample(t, path)
	doc := readDoc(t, path)
	doc.Connectors[0].SourcePortID = "nowhere"
	writeDoc(t, path, doc)

	_, err := run(t, "validate", path)
	require.NoError(t, err)

	out, err := run(t, "validate", "--strict", path)
	require.Error(t, err)
	assert.Contains(t, out, `source port "nowhere" not found`)
}

func TestValidateCommandUnreadable(t *testing.T) {
	dir := workdir(t)
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	out, err := run(t, "validate", path, filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, out, "decode diagram json")
	assert.Contains(t, out, "missing.json")
}

func TestRerouteCommand(t *testing.T) {
	dir := workdir(t)
	path := filepath.Join(dir, "d.json")
	writeSample(t, path)
	routed := readDoc(t, path)

	doc := readDoc(t, path)
	for _, c := range doc.Connectors {
		if !c.Dangling() {
			c.Points = nil
		}
	}
	writeDoc(t, path, doc)

	dest := filepath.Join(dir, "out.json")
	out, err := run(t, "reroute", path, "--output", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "rerouted 2 connectors")

	got := readDoc(t, dest)
	require.Len(t, got.Connectors, 2)
	assert.Equal(t, routed.Connectors[0].Points, got.Connectors[0].Points)
	assert.Nil(t, readDoc(t, path).Connectors[0].Points, "input untouched with --output")
}

func TestConvertRoundTrip(t *testing.T) {
	dir := workdir(t)
	src := filepath.Join(dir, "d.json")
	writeSample(t, src)
	packed := filepath.Join(dir, "d.msgpack")
	back := filepath.Join(dir, "back.json")

	_, err := run(t, "convert", src, packed)
	require.NoError(t, err)
	_, err = run(t, "convert", packed, back)
	require.NoError(t, err)

	want, got := readDoc(t, src), readDoc(t, back)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestConvertMissingInput(t *testing.T) {
	dir := workdir(t)
	_, err := run(t, "convert", filepath.Join(dir, "nope.json"), filepath.Join(dir, "out.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read ")
}

func TestNewCommand(t *testing.T) {
	dir := workdir(t)
	t.Setenv("FLOWCRAFT_GRID_SIZE", "25")
	path := filepath.Join(dir, "new.json")

	_, err := run(t, "new", path, "--name", "Payments")
	require.NoError(t, err)
	doc := readDoc(t, path)
	assert.Equal(t, "Payments", doc.Name)
	assert.Equal(t, 25.0, doc.Settings.GridSize)
	assert.Len(t, doc.Layers, 1)

	_, err = run(t, "new", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = run(t, "new", path, "--force")
	require.NoError(t, err)
	assert.Equal(t, diagram.DefaultName, readDoc(t, path).Name)
}

func TestStatsCommand(t *testing.T) {
	dir := workdir(t)
	path := filepath.Join(dir, "d.json")
	writeSample(t, path)

	out, err := run(t, "stats", path)
	require.NoError(t, err)
	assert.Contains(t, out, "connectors  2 (1 dangling)")

	out, err = run(t, "stats", "--yaml", path)
	require.NoError(t, err)
	var got []Stats
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	want := []Stats{{
		File:       path,
		Name:       diagram.DefaultName,
		Layers:     1,
		Shapes:     3,
		Containers: 1,
		Connectors: 2,
		Dangling:   1,
		Types:      map[string]int{shapes.TypeContainer: 1, shapes.TypeRectangle: 2},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestImportCommand(t *testing.T) {
	dir := workdir(t)
	src := filepath.Join(dir, "checkout.mmd")
	require.NoError(t, os.WriteFile(src, []byte(`graph LR
  subgraph pay [Payment]
    cart[Cart] --> pay_step{Paid?}
  end
  pay_step -->|yes| done([Done])
  pay_step -. no .-> cart
`), 0o644))
	dest := filepath.Join(dir, "checkout.json")

	out, err := run(t, "import", src, dest)
	require.NoError(t, err)
	assert.Contains(t, out, "(Mermaid)")
	assert.Contains(t, out, "3 shapes, 1 containers, 3 connectors")

	doc := readDoc(t, dest)
	assert.Equal(t, "checkout", doc.Name)
	assert.Len(t, doc.Shapes, 4)
	assert.Len(t, doc.Connectors, 3)
	for _, c := range doc.Connectors {
		assert.GreaterOrEqual(t, len(c.Points), 2, "connectors are routed")
	}

	out, err = run(t, "validate", "--strict", dest)
	require.NoError(t, err, out)
}

func TestImportCommandFormats(t *testing.T) {
	dir := workdir(t)
	src := filepath.Join(dir, "deps.txt")
	require.NoError(t, os.WriteFile(src, []byte("digraph { a -> b; b -> c }"), 0o644))
	dest := filepath.Join(dir, "deps.msgpack")

	out, err := run(t, "import", src, dest, "--direction", "TB")
	require.NoError(t, err)
	assert.Contains(t, out, "(Graphviz)")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	doc, err := diagram.DecodeMsgpack(data)
	require.NoError(t, err)
	require.Len(t, doc.Shapes, 3)
	assert.Equal(t, doc.Shapes[0].X, doc.Shapes[1].X, "top to bottom keeps one column")
	assert.Less(t, doc.Shapes[0].Y, doc.Shapes[1].Y)

	_, err = run(t, "import", src, dest, "--format", "mermaid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported Mermaid diagram type")

	bad := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(bad, []byte("just words"), 0o644))
	_, err = run(t, "import", bad, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to detect format")
}

func TestExportCommand(t *testing.T) {
	dir := workdir(t)
	src := filepath.Join(dir, "flow.mmd")
	require.NoError(t, os.WriteFile(src, []byte("graph TB\n  a[Start] --> b{Ok?}\n  b -->|yes| c([Done])\n"), 0o644))
	diagramPath := filepath.Join(dir, "flow.json")
	_, err := run(t, "import", src, diagramPath)
	require.NoError(t, err)

	out, err := run(t, "export", diagramPath, "--direction", "TB")
	require.NoError(t, err)
	assert.Equal(t, `flowchart TB
    N1[Start]
    N2{Ok?}
    N3([Done])

    N1 --> N2
    N2 -->|yes| N3
`, out)

	dot := filepath.Join(dir, "flow.gv")
	out, err = run(t, "export", diagramPath, dot)
	require.NoError(t, err)
	assert.Contains(t, out, "(Graphviz)")
	data, err := os.ReadFile(dot)
	require.NoError(t, err)
	assert.Contains(t, string(data), `digraph "flow" {`)
	assert.Contains(t, string(data), `N2 -> N3 [label="yes"];`)
}

func TestExportCommandErrors(t *testing.T) {
	dir := workdir(t)
	path := filepath.Join(dir, "d.json")
	writeSample(t, path)

	_, err := run(t, "export", path, filepath.Join(dir, "d.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use --format")

	_, err = run(t, "export", path, "--format", "svg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")

	_, err = run(t, "export", filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestBadConfig(t *testing.T) {
	dir := workdir(t)
	path := filepath.Join(dir, "d.json")
	writeSample(t, path)
	t.Setenv("FLOWCRAFT_LOG_FORMAT", "xml")

	_, err := run(t, "stats", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func readDoc(t *testing.T, path string) *diagram.Document {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := diagram.DecodeJSON(data)
	require.NoError(t, err)
	return doc
}

func writeDoc(t *testing.T, path string, doc *diagram.Document) {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}
