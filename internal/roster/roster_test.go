package roster

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoad_MissingFileSeedsDefaultGroups(t *testing.T) {
	r, err := Load(filepath.Join(t.TempDir(), "roster.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(r.Groups) != 3 || r.Groups[0].Name != "Main cast" {
		t.Fatalf("expected default groups; got %+v", r.Groups)
	}
	if r.Characters == nil {
		t.Fatalf("expected non-nil characters")
	}
}

func TestAddSaveLoadLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rosters", "p1.json")
	r := New()
	c, err := r.Add("Aki", "lead", "g1")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := r.Add("Nobody", "", "missing"); err == nil {
		t.Fatalf("expected unknown group error")
	}
	if _, err := r.Add("  ", ""); err == nil {
		t.Fatalf("expected empty name error")
	}
	if err := r.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, ok := loaded.Lookup(c.ID)
	if !ok || got.Name != "Aki" || got.Description != "lead" {
		t.Fatalf("expected Aki; got %+v %v", got, ok)
	}
	if n := len(loaded.InGroup("g1")); n != 1 {
		t.Fatalf("expected one main cast member; got %d", n)
	}
	if _, ok := loaded.Lookup("nope"); ok {
		t.Fatalf("expected missing lookup")
	}
}

func TestAdd_DropsRepeatedGroups(t *testing.T) {
	r := New()
	c, err := r.Add("Aki", "", "g1", "g2", "g1")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !reflect.DeepEqual(c.GroupIDs, []string{"g1", "g2"}) {
		t.Fatalf("expected groups [g1 g2]; got %v", c.GroupIDs)
	}
	if n := len(r.InGroup("g1")); n != 1 {
		t.Fatalf("expected one g1 member; got %d", n)
	}
}

func TestFindByName_FoldsCaseAndWidth(t *testing.T) {
	r := New()
	_, _ = r.Add("ＡＫＩ", "")
	_, _ = r.Add("Akira", "")
	_, _ = r.Add("Kenji", "")

	got := r.FindByName("aki")
	if len(got) != 2 {
		t.Fatalf("expected two matches; got %+v", got)
	}
	if got[0].Name != "ＡＫＩ" {
		t.Fatalf("expected exact match first; got %+v", got)
	}
	if len(r.FindByName("  ")) != 0 {
		t.Fatalf("expected no matches for blank query")
	}
}
