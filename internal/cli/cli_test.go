package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nameboard/internal/web"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// testWorkspace isolates HOME and returns a fresh workspace dir.
func testWorkspace(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"NAMEBOARD_DIR", "NAMEBOARD_CONFIG", "NAMEBOARD_EPISODE", "NAMEBOARD_FORMAT", "NAMEBOARD_PROJECT", "NAMEBOARD_REMOTE_URL", "NAMEBOARD_TOKEN"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return filepath.Join(t.TempDir(), "ws")
}

// mustRun runs the CLI against dir and decodes the JSON envelope.
func mustRun(t *testing.T, dir string, args ...string) map[string]any {
	t.Helper()
	out, errOut, err := runCLI(t, append([]string{"--dir", dir}, args...))
	if err != nil {
		t.Fatalf("%v: %v\nstderr: %s", args, err, string(errOut))
	}
	var env map[string]any
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("%v: expected JSON output: %v\n%s", args, err, string(out))
	}
	return env
}

func data(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	d, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %#v", env["data"])
	}
	return d
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// seedEpisode creates e1 with one group holding two panels; the first panel has two lines.
func seedEpisode(t *testing.T, dir string) (groupID, p1, p2, d1, d2 string) {
	t.Helper()
	mustRun(t, dir, "episodes", "create", "--episode", "e1", "--title", "Pilot")
	groupID = str(data(t, mustRun(t, dir, "groups", "add", "--episode", "e1", "--label", "Cold open"))["id"])
	p1 = str(data(t, mustRun(t, dir, "panels", "add", "--episode", "e1", "--group", groupID))["id"])
	p2 = str(data(t, mustRun(t, dir, "panels", "add", "--episode", "e1", "--group", groupID))["id"])
	d1 = str(data(t, mustRun(t, dir, "dialogues", "add", "--episode", "e1", "--panel", p1, "--speaker", "Ann", "--text", "hello"))["id"])
	d2 = str(data(t, mustRun(t, dir, "dialogues", "add", "--episode", "e1", "--panel", p1, "--speaker", "Bo", "--text", "bye"))["id"])
	return
}

func boardOf(t *testing.T, dir string) map[string]any {
	t.Helper()
	ep := data(t, mustRun(t, dir, "episodes", "show", "--episode", "e1"))
	b, ok := ep["structureBoard"].(map[string]any)
	if !ok {
		t.Fatalf("expected structureBoard, got %#v", ep)
	}
	return b
}

func dialogueIDsIn(t *testing.T, dir, panelID string) []string {
	t.Helper()
	for _, g := range boardOf(t, dir)["groups"].([]any) {
		for _, p := range g.(map[string]any)["panels"].([]any) {
			pm := p.(map[string]any)
			if str(pm["id"]) != panelID {
				continue
			}
			var ids []string
			for _, d := range pm["dialogues"].([]any) {
				ids = append(ids, str(d.(map[string]any)["id"]))
			}
			return ids
		}
	}
	t.Fatalf("panel %s not found", panelID)
	return nil
}

func TestInit(t *testing.T) {
	dir := testWorkspace(t)
	d := data(t, mustRun(t, dir, "init"))
	if str(d["dir"]) != dir {
		t.Fatalf("expected dir %q, got %#v", dir, d["dir"])
	}
	if _, err := os.Stat(filepath.Join(dir, "nameboard.db")); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
}

func TestEpisodes_CreateShowList(t *testing.T) {
	dir := testWorkspace(t)
	ep := data(t, mustRun(t, dir, "episodes", "create", "--episode", "e1", "--title", "Pilot"))
	if str(ep["id"]) != "e1" || str(ep["projectId"]) != "default" || str(ep["title"]) != "Pilot" {
		t.Fatalf("unexpected episode: %#v", ep)
	}

	_, _, err := runCLI(t, []string{"--dir", dir, "episodes", "create", "--episode", "e1"})
	if err == nil {
		t.Fatalf("expected duplicate create to fail")
	}

	env := mustRun(t, dir, "episodes", "list")
	list, ok := env["data"].([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("expected one episode, got %#v", env["data"])
	}
	if meta := env["meta"].(map[string]any); meta["count"].(float64) != 1 {
		t.Fatalf("expected count 1, got %#v", meta)
	}

	env = mustRun(t, dir, "episodes", "show", "e1")
	if groups := data(t, env)["structureBoard"].(map[string]any)["groups"].([]any); len(groups) != 0 {
		t.Fatalf("expected empty board, got %#v", groups)
	}
}

func TestEpisodes_MissingEpisode(t *testing.T) {
	dir := testWorkspace(t)
	_, stderr, err := runCLI(t, []string{"--dir", dir, "groups", "add"})
	if err == nil || !strings.Contains(string(stderr), "missing --episode") {
		t.Fatalf("expected missing --episode error, got %v (%s)", err, string(stderr))
	}
	_, stderr, err = runCLI(t, []string{"--dir", dir, "groups", "add", "--episode", "nope"})
	if err == nil || !strings.Contains(string(stderr), "episodes create") {
		t.Fatalf("expected a create hint, got %v (%s)", err, string(stderr))
	}
}

func TestEdits_AddUpdateTagDelete(t *testing.T) {
	dir := testWorkspace(t)
	g, p1, _, d1, _ := seedEpisode(t, dir)

	upd := data(t, mustRun(t, dir, "groups", "update", g, "--episode", "e1", "--classification", "Intro", "--tags", "night,rain"))
	if str(upd["label"]) != "Cold open" || str(upd["classification"]) != "Intro" {
		t.Fatalf("unexpected group: %#v", upd)
	}
	tagged := data(t, mustRun(t, dir, "groups", "tag", g, "rain", "--episode", "e1"))
	if tags := tagged["tags"].([]any); len(tags) != 1 || str(tags[0]) != "night" {
		t.Fatalf("expected rain toggled off, got %#v", tags)
	}

	line := data(t, mustRun(t, dir, "dialogues", "update", d1, "--episode", "e1", "--note", "whisper"))
	if str(line["text"]) != "hello" || str(line["note"]) != "whisper" {
		t.Fatalf("expected untouched text and new note, got %#v", line)
	}

	mustRun(t, dir, "panels", "delete", p1, "--episode", "e1")
	b := boardOf(t, dir)
	panels := b["groups"].([]any)[0].(map[string]any)["panels"].([]any)
	if len(panels) != 1 {
		t.Fatalf("expected one panel left, got %d", len(panels))
	}

	_, _, err := runCLI(t, []string{"--dir", dir, "dialogues", "update", d1, "--episode", "e1", "--text", "x"})
	if err == nil {
		t.Fatalf("expected update of a deleted dialogue to fail")
	}
}

func TestDialogues_Move(t *testing.T) {
	dir := testWorkspace(t)
	_, p1, p2, d1, d2 := seedEpisode(t, dir)

	res := data(t, mustRun(t, dir, "dialogues", "move", d1, "--episode", "e1", "--to", p2, "--index", "0"))
	if str(res["parentId"]) != p2 || res["index"].(float64) != 0 || str(res["fromParentId"]) != p1 {
		t.Fatalf("unexpected move result: %#v", res)
	}
	if got := dialogueIDsIn(t, dir, p1); len(got) != 1 || got[0] != d2 {
		t.Fatalf("expected %s left in p1, got %v", d2, got)
	}
	if got := dialogueIDsIn(t, dir, p2); len(got) != 1 || got[0] != d1 {
		t.Fatalf("expected %s in p2, got %v", d1, got)
	}

	// Reorder within the same panel: default index is last.
	mustRun(t, dir, "dialogues", "move", d2, "--episode", "e1", "--to", p2)
	if got := dialogueIDsIn(t, dir, p2); strings.Join(got, ",") != d1+","+d2 {
		t.Fatalf("expected [%s %s], got %v", d1, d2, got)
	}
}

func TestDrag_DropOnZone(t *testing.T) {
	dir := testWorkspace(t)
	_, p1, p2, d1, d2 := seedEpisode(t, dir)

	res := data(t, mustRun(t, dir, "drag", "dialogue", d1, "--episode", "e1", "--over", "item:"+d2, "--over", "container:"+p1+",zone:"+p2))
	if str(res["state"]) != "dropped" || res["changed"] != true {
		t.Fatalf("unexpected drag result: %#v", res)
	}
	if to := res["to"].(map[string]any); str(to["parentId"]) != p2 {
		t.Fatalf("expected drop into %s, got %#v", p2, to)
	}
	if got := dialogueIDsIn(t, dir, p2); len(got) != 1 || got[0] != d1 {
		t.Fatalf("expected %s in p2, got %v", d1, got)
	}
}

func TestDrag_CancelAndLeaveKeepBoard(t *testing.T) {
	dir := testWorkspace(t)
	_, p1, p2, d1, d2 := seedEpisode(t, dir)

	res := data(t, mustRun(t, dir, "drag", "dialogue", d1, "--episode", "e1", "--over", "zone:"+p2, "--cancel"))
	if str(res["state"]) != "cancelled" || res["changed"] != false {
		t.Fatalf("unexpected cancel result: %#v", res)
	}
	mustRun(t, dir, "drag", "dialogue", d1, "--episode", "e1", "--over", "zone:"+p2, "--leave")
	if got := dialogueIDsIn(t, dir, p1); strings.Join(got, ",") != d1+","+d2 {
		t.Fatalf("expected p1 unchanged, got %v", got)
	}
}

func TestDrag_RejectsBadTarget(t *testing.T) {
	dir := testWorkspace(t)
	_, _, _, d1, _ := seedEpisode(t, dir)
	_, _, err := runCLI(t, []string{"--dir", dir, "drag", "dialogue", d1, "--episode", "e1", "--over", "bogus"})
	if err == nil {
		t.Fatalf("expected invalid target to fail")
	}
}

func TestRoster_AddListAndLinkSpeaker(t *testing.T) {
	dir := testWorkspace(t)
	_, _, _, d1, _ := seedEpisode(t, dir)

	c := data(t, mustRun(t, dir, "roster", "add", "--name", "Annika", "--groups", "g1"))
	cid := str(c["id"])
	if cid == "" {
		t.Fatalf("expected character id: %#v", c)
	}
	env := mustRun(t, dir, "roster", "list", "--name", "ANN")
	if list := env["data"].([]any); len(list) != 1 {
		t.Fatalf("expected one match, got %#v", list)
	}
	env = mustRun(t, dir, "roster", "groups")
	if list := env["data"].([]any); len(list) != 3 {
		t.Fatalf("expected default groups, got %#v", list)
	}

	line := data(t, mustRun(t, dir, "dialogues", "speaker", d1, cid, "--episode", "e1"))
	if str(line["speaker"]) != "Annika" || str(line["speakerRef"]) != cid {
		t.Fatalf("expected linked speaker, got %#v", line)
	}
	line = data(t, mustRun(t, dir, "dialogues", "speaker", d1, "--episode", "e1"))
	if str(line["speaker"]) != "Annika" || line["speakerRef"] != nil {
		t.Fatalf("expected link cleared with name kept, got %#v", line)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "dialogues", "speaker", d1, "nobody", "--episode", "e1"}); err == nil {
		t.Fatalf("expected unknown character to fail")
	}
}

func TestExport_ToDir(t *testing.T) {
	dir := testWorkspace(t)
	seedEpisode(t, dir)
	to := t.TempDir()

	mustRun(t, dir, "export", "--episode", "e1", "--to", to)
	b, err := os.ReadFile(filepath.Join(to, "default", "e1.md"))
	if err != nil {
		t.Fatalf("expected exported file: %v", err)
	}
	md := string(b)
	for _, want := range []string{"# Pilot", "## Cold open", "**Ann**: hello"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in export:\n%s", want, md)
		}
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "export", "--episode", "e1", "--to", to}); err == nil {
		t.Fatalf("expected export without --overwrite to refuse")
	}

	out, _, err := runCLI(t, []string{"--dir", dir, "export", "--episode", "e1"})
	if err != nil || !strings.Contains(string(out), "## Cold open") {
		t.Fatalf("expected raw markdown on stdout, got %v\n%s", err, string(out))
	}
}

func TestFormats(t *testing.T) {
	dir := testWorkspace(t)
	seedEpisode(t, dir)

	out, _, err := runCLI(t, []string{"--dir", dir, "--format", "table", "episodes", "show", "--episode", "e1"})
	if err != nil {
		t.Fatalf("table show: %v", err)
	}
	if s := string(out); !strings.Contains(s, "KIND") || !strings.Contains(s, "Ann: hello") {
		t.Fatalf("expected board table, got:\n%s", s)
	}

	out, _, err = runCLI(t, []string{"--dir", dir, "--format", "edn", "episodes", "list"})
	if err != nil {
		t.Fatalf("edn list: %v", err)
	}
	if s := string(out); !strings.Contains(s, ":data") || !strings.Contains(s, ":last-edited") {
		t.Fatalf("expected EDN keywords, got:\n%s", s)
	}

	if _, _, err := runCLI(t, []string{"--dir", dir, "--format", "xml", "episodes", "list"}); err == nil {
		t.Fatalf("expected unknown format to fail")
	}
}

func TestDocs(t *testing.T) {
	dir := testWorkspace(t)
	topics := data(t, mustRun(t, dir, "docs"))["topics"].([]any)
	if len(topics) == 0 {
		t.Fatalf("expected topics")
	}
	out, _, err := runCLI(t, []string{"--dir", dir, "docs", "drag", "--raw"})
	if err != nil || !strings.HasPrefix(string(out), "#") {
		t.Fatalf("expected raw markdown, got %v\n%s", err, string(out))
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "docs", "nope"}); err == nil {
		t.Fatalf("expected unknown topic to fail")
	}
}

func TestDoctor_CleanWorkspace(t *testing.T) {
	dir := testWorkspace(t)
	seedEpisode(t, dir)
	env := mustRun(t, dir, "doctor", "--fail")
	if env["meta"].(map[string]any)["hasErrors"] != false {
		t.Fatalf("expected no errors, got %#v", env)
	}
}

func TestSync_PushPull(t *testing.T) {
	dir := testWorkspace(t)
	seedEpisode(t, dir)

	srv, err := web.NewServer(web.ServerConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	t.Setenv("NAMEBOARD_REMOTE_URL", ts.URL)

	pushed := data(t, mustRun(t, dir, "sync", "push", "--episode", "e1"))
	if str(pushed["id"]) != "e1" || str(pushed["title"]) != "Pilot" {
		t.Fatalf("unexpected push result: %#v", pushed)
	}
	env := mustRun(t, dir, "episodes", "list", "--remote")
	if list := env["data"].([]any); len(list) != 1 {
		t.Fatalf("expected one remote episode, got %#v", list)
	}

	// Pull into a second workspace.
	other := filepath.Join(t.TempDir(), "ws2")
	mustRun(t, other, "sync", "pull", "--episode", "e1")
	ep := data(t, mustRun(t, other, "episodes", "show", "--episode", "e1"))
	if groups := ep["structureBoard"].(map[string]any)["groups"].([]any); len(groups) != 1 {
		t.Fatalf("expected pulled board, got %#v", groups)
	}
}

func TestSync_RequiresRemote(t *testing.T) {
	dir := testWorkspace(t)
	seedEpisode(t, dir)
	_, stderr, err := runCLI(t, []string{"--dir", dir, "sync", "push", "--episode", "e1"})
	if err == nil || !strings.Contains(string(stderr), "no remote configured") {
		t.Fatalf("expected remote error, got %v (%s)", err, string(stderr))
	}
}

func TestEdit_NeedsTerminal(t *testing.T) {
	dir := testWorkspace(t)
	seedEpisode(t, dir)
	_, stderr, err := runCLI(t, []string{"--dir", dir, "--episode", "e1"})
	if err == nil || !strings.Contains(string(stderr), "terminal") {
		t.Fatalf("expected terminal error, got %v (%s)", err, string(stderr))
	}
}
