package analysis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/exodus/internal/engine/analysis"
)

func TestImportSpecifiers_DocumentOrder(t *testing.T) {
	src := []byte(`
import { a } from "./first.js";
export { b } from "./second.js";
const c = require("third");
import "./first.js";
function lazy() {
  return require("./fourth.js");
}
`)
	specs, err := analysis.ImportSpecifiers(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, []string{"./first.js", "./second.js", "third", "./fourth.js"}, specs)
}

func TestImportSpecifiers_IgnoresDynamicRequire(t *testing.T) {
	src := []byte(`
var mod = require(pickModule());
var other = require("real");
`)
	specs, err := analysis.ImportSpecifiers(context.Background(), src)
	require.NoError(t, err)

	assert.Equal(t, []string{"real"}, specs)
}

func TestIsRelativeSpecifier(t *testing.T) {
	assert.True(t, analysis.IsRelativeSpecifier("./lib/a.js"))
	assert.True(t, analysis.IsRelativeSpecifier("../up.js"))
	assert.True(t, analysis.IsRelativeSpecifier("/root-relative.js"))
	assert.False(t, analysis.IsRelativeSpecifier("lodash"))
	assert.False(t, analysis.IsRelativeSpecifier("@scope/pkg"))
}
