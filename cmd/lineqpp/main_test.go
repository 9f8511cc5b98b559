package main

import "testing"

func TestInputNameDefaultsToStdin(t *testing.T) {
	if got := inputName(nil); got != "<stdin>" {
		t.Fatalf("inputName(nil) = %q, want <stdin>", got)
	}
}

func TestInputNameUsesPositionalArg(t *testing.T) {
	if got := inputName([]string{"foo.svgpp"}); got != "foo.svgpp" {
		t.Fatalf("inputName = %q, want foo.svgpp", got)
	}
}
