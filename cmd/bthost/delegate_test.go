package main

import (
	"testing"

	"github.com/rigado/bthost/sm"
)

func TestParseIOCap(t *testing.T) {
	for s, want := range map[string]sm.IOCapability{
		"display-only":   sm.IOCapabilityDisplayOnly,
		"display-yes-no": sm.IOCapabilityDisplayYesNo,
		"keyboard-only":  sm.IOCapabilityKeyboardOnly,
		"none":           sm.IOCapabilityNoInputNoOutput,
	} {
		got, err := parseIOCap(s)
		if err != nil || got != want {
			t.Errorf("%s: got %v, %v", s, got, err)
		}
	}
	if _, err := parseIOCap("keyboard-display"); err == nil {
		t.Error("expected an error for an unknown capability")
	}
}

func TestYes(t *testing.T) {
	for _, s := range []string{"y", "Y", "yes", "YES"} {
		if !yes(s) {
			t.Errorf("%q not accepted", s)
		}
	}
	for _, s := range []string{"", "n", "no", "yep"} {
		if yes(s) {
			t.Errorf("%q accepted", s)
		}
	}
}
