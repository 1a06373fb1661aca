package main

import (
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/amonks/focus/internal/testsupport"
)

func TestVersionScripts(t *testing.T) {
	testscript.Run(t, testsupport.Params(t, "testdata/version"))
}
