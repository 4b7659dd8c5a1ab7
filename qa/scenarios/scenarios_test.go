package scenarios

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScenarios(t *testing.T) {
	files, err := filepath.Glob("*.yaml")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no scenario files found")
	}
	for _, f := range files {
		sc, err := Load(f)
		if err != nil {
			t.Fatalf("load %s: %v", f, err)
		}
		t.Run(sc.Name, func(t *testing.T) {
			RunScenario(t, sc)
		})
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load("no-file.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
	tmp := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(tmp, []byte(":"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(tmp); err == nil {
		t.Fatal("expected unmarshal error")
	}
}

func TestBlockDefToLive(t *testing.T) {
	if _, err := (BlockDef{Start: "bogus", End: "10:00am", Event: "Swim"}).ToLive(); err == nil {
		t.Fatal("expected error for bad start")
	}
	blk, err := (BlockDef{Division: "Juniors", Start: "9:00am", End: "10:00am", Event: "Swim"}).ToLive()
	if err != nil {
		t.Fatalf("ToLive: %v", err)
	}
	if blk.StartMinute != 540 || blk.EndMinute != 600 {
		t.Fatalf("unexpected block %+v", blk)
	}
}
