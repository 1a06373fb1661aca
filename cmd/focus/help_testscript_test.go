package main

import (
	"testing"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/amonks/focus/internal/testsupport"
)

func TestHelpScripts(t *testing.T) {
	testscript.Run(t, testsupport.Params(t, "testdata/help"))
}
