package level

import (
	"testing"
)

const sampleYAML = `
name: cloudreach
author: Maya
description: A tower level above the clouds.
difficulty: 42
engine_version: 12
music: clouds.ogg
boundaries: {x: 0, y: 0, w: 4000, h: -1000}
start_position: {x: 100, y: -300}
sprites:
  - type: secret_area
    uid: 14
    rect: {x: 900, y: -620, w: 120, h: -80}
  - type: beetle
    uid: 114
    color: red
    rest_living_time: 2.5
script: |
  -- level script body
`

func TestParse(t *testing.T) {
	lv, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if lv.Name != "cloudreach" || lv.Author != "Maya" {
		t.Errorf("metadata = %q by %q", lv.Name, lv.Author)
	}
	if lv.Difficulty != 42 || lv.EngineVersion != 12 {
		t.Errorf("difficulty/engine = %d/%d", lv.Difficulty, lv.EngineVersion)
	}
	if lv.Boundaries.H != -1000 {
		t.Errorf("boundaries height = %v, want -1000 (upward)", lv.Boundaries.H)
	}
	if lv.StartPosition.Y != -300 {
		t.Errorf("start position y = %v", lv.StartPosition.Y)
	}
	if len(lv.SecretAreas) != 1 || len(lv.Beetles) != 1 {
		t.Fatalf("sprites = %d secret areas, %d beetles", len(lv.SecretAreas), len(lv.Beetles))
	}
	if lv.Beetles[0].Color != "red" || lv.Beetles[0].RestLivingTime != 2.5 {
		t.Errorf("beetle = %+v", lv.Beetles[0])
	}
	if lv.Script == "" {
		t.Error("script text missing")
	}
}

func TestParseRejectsUnknownSprite(t *testing.T) {
	_, err := Parse([]byte("name: x\nsprites:\n  - {type: dragon, uid: 1}\n"))
	if err == nil {
		t.Fatal("expected error for unknown sprite type")
	}
}

func TestSpriteByUID(t *testing.T) {
	lv, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if s, class := lv.SpriteByUID(14); class != "SecretArea" || s != lv.SecretAreas[0] {
		t.Errorf("uid 14 = (%v, %q)", s, class)
	}
	if s, class := lv.SpriteByUID(114); class != "Beetle" || s != lv.Beetles[0] {
		t.Errorf("uid 114 = (%v, %q)", s, class)
	}
	if s, class := lv.SpriteByUID(999); s != nil || class != "" {
		t.Errorf("uid 999 = (%v, %q), want nothing", s, class)
	}
}

func TestReturnStackLIFO(t *testing.T) {
	p := NewPlayer(lvStart())

	p.PushReturn("world1", "entryA")
	p.PushReturn("world2", "entryB")

	if e, ok := p.PopReturn(); !ok || e != (ReturnEntry{Level: "world2", Entry: "entryB"}) {
		t.Fatalf("first pop = (%v, %v)", e, ok)
	}
	if e, ok := p.PopReturn(); !ok || e != (ReturnEntry{Level: "world1", Entry: "entryA"}) {
		t.Fatalf("second pop = (%v, %v)", e, ok)
	}
	if _, ok := p.PopReturn(); ok {
		t.Fatal("third pop should report no entry")
	}
}

func TestClearReturn(t *testing.T) {
	p := NewPlayer(lvStart())
	p.PushReturn("world1", "entryA")

	p.ClearReturn()

	if stack := p.ReturnStack(); len(stack) != 0 {
		t.Fatalf("stack after clear = %v", stack)
	}
}

func TestReturnStackSnapshotIsDetached(t *testing.T) {
	p := NewPlayer(lvStart())
	p.PushReturn("world1", "")

	snap := p.ReturnStack()
	snap[0].Level = "mutated"

	if got := p.ReturnStack()[0].Level; got != "world1" {
		t.Fatalf("snapshot mutation leaked into player: %q", got)
	}
}

func TestSecretAreaActivatesOnce(t *testing.T) {
	s := &SecretArea{UID: 14}
	var count int
	s.On("activate", eventCounter(&count))

	if err := s.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if err := s.Activate(); err != nil {
		t.Fatalf("second Activate: %v", err)
	}
	if count != 1 {
		t.Fatalf("activate fired %d times, want 1", count)
	}
	if !s.Activated {
		t.Error("Activated flag not set")
	}
}
