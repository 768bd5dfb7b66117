package main

import (
	"testing"

	"github.com/plantsignal/sunbeam/model"
)

func TestRenderPlain(t *testing.T) {
	if got := renderPlain(model.ExposureReport{IsHit: true, State: model.StateDirectSun}); got != "on" {
		t.Errorf("hit report rendered %q, want on", got)
	}
	for _, state := range []string{model.StateBelowHorizon, model.StateNoWindowPath, model.StateUnknown} {
		if got := renderPlain(model.ExposureReport{State: state}); got != "off" {
			t.Errorf("state %s rendered %q, want off", state, got)
		}
	}
}

func TestLoadSceneMissingFile(t *testing.T) {
	if _, err := loadScene("testdata/does-not-exist.json"); err == nil {
		t.Fatal("expected error for missing config")
	}
}
