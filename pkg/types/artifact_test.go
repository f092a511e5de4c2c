package types_test

import (
	"testing"

	"github.com/arthur-debert/wheelstage/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	c, err := types.ParseCategory("aot")
	require.NoError(t, err)
	assert.Equal(t, types.CategoryAOT, c)

	_, err = types.ParseCategory("docs")
	assert.Error(t, err)
}

func TestInputs_Artifacts(t *testing.T) {
	in := types.Inputs{
		Headers: []string{"a.h"},
		Srcs:    []string{"b.py", "c.py"},
		AOT:     []string{"d.cc"},
	}

	arts := in.Artifacts()
	require.Len(t, arts, 4)
	assert.Equal(t, types.Artifact{Category: types.CategoryHeaders, Path: "a.h"}, arts[0])
	assert.Equal(t, types.Artifact{Category: types.CategorySrcs, Path: "b.py"}, arts[1])
	assert.Equal(t, types.Artifact{Category: types.CategoryAOT, Path: "d.cc"}, arts[3])
	assert.Equal(t, 4, in.Len())
	assert.Nil(t, in.List(types.CategoryDeps))
}
