package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bogem/id3v2/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/jaa/id3fix/internal/config"
	"github.com/jaa/id3fix/internal/exitcode"
	"github.com/jaa/id3fix/internal/report"
	"github.com/jaa/id3fix/internal/resolve"
)

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ID3FIX_CONFIG", "")

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	app := &AppContext{
		Build: BuildInfo{Version: "1.2.3", Commit: "abc", Date: "2026-10-18"},
		IO:    IOStreams{In: strings.NewReader(stdin), Out: &stdout, ErrOut: &stderr},
	}
	root := newRootCommand(app)
	root.SetArgs(args)
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(&stderr, "ERROR:", err)
	}
	return mapExitCode(err), stdout.String(), stderr.String()
}

func mojibake(t *testing.T, text string) string {
	t.Helper()
	raw, err := simplifiedchinese.GBK.NewEncoder().String(text)
	if err != nil {
		t.Fatalf("gbk encode: %v", err)
	}
	latin, err := charmap.ISO8859_1.NewDecoder().String(raw)
	if err != nil {
		t.Fatalf("latin-1 decode: %v", err)
	}
	return latin
}

func writeSong(t *testing.T, path string, title string) {
	t.Helper()
	audio := append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 400)...)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open tag: %v", err)
	}
	tag.AddTextFrame("TIT2", id3v2.EncodingISO, title)
	tag.AddTextFrame("TALB", id3v2.EncodingISO, "Album")
	if err := tag.Save(); err != nil {
		t.Fatalf("save tag: %v", err)
	}
	if err := tag.Close(); err != nil {
		t.Fatalf("close tag: %v", err)
	}
}

func readTitle(t *testing.T, path string) string {
	t.Helper()
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer tag.Close()
	return tag.GetTextFrame("TIT2").Text
}

func TestScanWritesReport(t *testing.T) {
	dir := t.TempDir()
	song := filepath.Join(dir, "song.mp3")
	writeSong(t, song, mojibake(t, "稻香"))
	reportFile := filepath.Join(t.TempDir(), "report.json")

	code, stdout, stderr := runCLI(t, "", dir, "--output", reportFile, "--no-color")
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr=%s)", code, stderr)
	}
	if !strings.Contains(stdout, song) || !strings.Contains(stdout, "report written to") {
		t.Fatalf("unexpected stdout %q", stdout)
	}

	doc, err := report.Load(reportFile)
	if err != nil {
		t.Fatalf("load report: %v", err)
	}
	if len(doc) != 1 || doc[0].Tags["title"][0].Preferred != "稻香" {
		t.Fatalf("unexpected report %+v", doc)
	}
	if got := readTitle(t, song); got != mojibake(t, "稻香") {
		t.Fatalf("scan must not modify files, title is %q", got)
	}
}

func TestApplyRepairsFileAndPrintsJobDone(t *testing.T) {
	dir := t.TempDir()
	song := filepath.Join(dir, "song.mp3")
	broken := mojibake(t, "稻香")
	writeSong(t, song, broken)

	reportFile := filepath.Join(dir, "report.json")
	doc := report.Document{{
		Path: song,
		Tags: map[string][]resolve.Correction{
			"title": {{Value: []string{"稻香", "稻香", broken}, Preferred: "稻香"}},
		},
	}}
	if err := report.Write(reportFile, doc); err != nil {
		t.Fatalf("write report: %v", err)
	}

	code, stdout, stderr := runCLI(t, "", "--apply", reportFile)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr=%s)", code, stderr)
	}
	if !strings.Contains(stdout, "Job done") {
		t.Fatalf("expected Job done, got %q", stdout)
	}
	if got := readTitle(t, song); got != "稻香" {
		t.Fatalf("expected repaired title, got %q", got)
	}
}

func TestApplyDryRunLeavesFileAlone(t *testing.T) {
	dir := t.TempDir()
	song := filepath.Join(dir, "song.mp3")
	broken := mojibake(t, "稻香")
	writeSong(t, song, broken)

	reportFile := filepath.Join(dir, "report.json")
	doc := report.Document{{
		Path: song,
		Tags: map[string][]resolve.Correction{"title": {{Value: []string{"稻香", broken}, Preferred: "稻香"}}},
	}}
	if err := report.Write(reportFile, doc); err != nil {
		t.Fatalf("write report: %v", err)
	}

	code, stdout, _ := runCLI(t, "", "apply", reportFile, "--dry-run")
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stdout, "would update file song.mp3") {
		t.Fatalf("expected dry-run notice, got %q", stdout)
	}
	if got := readTitle(t, song); got != broken {
		t.Fatalf("dry run must not write, title is %q", got)
	}
}

func TestApplyRejectsMalformedReport(t *testing.T) {
	dir := t.TempDir()
	song := filepath.Join(dir, "song.mp3")
	broken := mojibake(t, "稻香")
	writeSong(t, song, broken)

	reportFile := filepath.Join(dir, "report.json")
	if err := os.WriteFile(reportFile, []byte("{nope"), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}

	code, _, stderr := runCLI(t, "", "--apply", reportFile)
	if code != exitcode.InvalidReport {
		t.Fatalf("expected exit %d, got %d", exitcode.InvalidReport, code)
	}
	if !strings.Contains(stderr, "invalid report") {
		t.Fatalf("expected report error, got %q", stderr)
	}
	if got := readTitle(t, song); got != broken {
		t.Fatalf("no file should be touched, title is %q", got)
	}
}

func TestApplyRejectsCorrectionWithoutPreferred(t *testing.T) {
	dir := t.TempDir()
	song := filepath.Join(dir, "song.mp3")
	broken := mojibake(t, "中文")
	writeSong(t, song, broken)

	payload, err := report.Marshal([]map[string]any{{
		"path": song,
		"tags": map[string]any{
			"title": []map[string]any{{"value": []string{"中文", broken}}},
		},
	}})
	if err != nil {
		t.Fatalf("marshal report: %v", err)
	}
	reportFile := filepath.Join(dir, "report.json")
	if err := os.WriteFile(reportFile, payload, 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}

	code, _, stderr := runCLI(t, "", "--apply", reportFile)
	if code != exitcode.InvalidReport {
		t.Fatalf("expected exit %d, got %d", exitcode.InvalidReport, code)
	}
	if !strings.Contains(stderr, "no preferred value") {
		t.Fatalf("expected preferred error, got %q", stderr)
	}
	if got := readTitle(t, song); got != broken {
		t.Fatalf("no file should be touched, title is %q", got)
	}
}

func TestApplyCannotBeCombinedWithPaths(t *testing.T) {
	code, _, _ := runCLI(t, "", "--apply", "report.json", "music")
	if code != exitcode.InvalidUsage {
		t.Fatalf("expected usage error, got %d", code)
	}
}

func TestInteractiveScanAppliesConfirmedFile(t *testing.T) {
	dir := t.TempDir()
	song := filepath.Join(dir, "song.mp3")
	writeSong(t, song, mojibake(t, "稻香"))

	code, stdout, stderr := runCLI(t, "y\n", "scan", "-i", dir)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr=%s)", code, stderr)
	}
	if !strings.Contains(stdout, "Proceed with this? (y/n)") {
		t.Fatalf("expected confirmation prompt, got %q", stdout)
	}
	if !strings.Contains(stdout, `"preferred": "稻香"`) {
		t.Fatalf("expected corrections to be shown, got %q", stdout)
	}
	if got := readTitle(t, song); got != "稻香" {
		t.Fatalf("expected repaired title, got %q", got)
	}
}

func TestInteractiveScanDeclined(t *testing.T) {
	dir := t.TempDir()
	song := filepath.Join(dir, "song.mp3")
	broken := mojibake(t, "稻香")
	writeSong(t, song, broken)

	code, _, _ := runCLI(t, "n\n", dir, "--interactive")
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if got := readTitle(t, song); got != broken {
		t.Fatalf("declined file must not change, title is %q", got)
	}
}

func TestInteractiveRejectsJSONOutput(t *testing.T) {
	code, _, _ := runCLI(t, "", "scan", "-i", "--json", t.TempDir())
	if code != exitcode.InvalidUsage {
		t.Fatalf("expected usage error, got %d", code)
	}
}

func TestValidateTemplateConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(config.DefaultTemplate()), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	code, stdout, _ := runCLI(t, "", "--config", path, "validate")
	if code != exitcode.Success || !strings.Contains(stdout, "Config is valid.") {
		t.Fatalf("unexpected validate result code=%d stdout=%q", code, stdout)
	}
}

func TestValidateRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 1\ndefaults:\n  encodings: [\"klingon\"]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	code, _, stderr := runCLI(t, "", "--config", path, "validate")
	if code != exitcode.InvalidConfig || !strings.Contains(stderr, "klingon") {
		t.Fatalf("unexpected validate result code=%d stderr=%q", code, stderr)
	}
}

func TestInitWritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	code, stdout, _ := runCLI(t, "", "--config", path, "init")
	if code != exitcode.Success || !strings.Contains(stdout, "Wrote config") {
		t.Fatalf("unexpected init result code=%d stdout=%q", code, stdout)
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(payload) != config.DefaultTemplate() {
		t.Fatalf("unexpected config contents %q", payload)
	}

	code, _, _ = runCLI(t, "", "--config", path, "init")
	if code != exitcode.RuntimeFailure {
		t.Fatalf("expected refusal to overwrite without --force, got %d", code)
	}
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "version")
	if code != exitcode.Success || !strings.Contains(stdout, "id3fix version 1.2.3") {
		t.Fatalf("unexpected version output %q", stdout)
	}
}
