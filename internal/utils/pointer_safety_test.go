package utils_test

import (
	"testing"

	"github.com/jrsteele09/labit-client/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestPointerHelpers(t *testing.T) {
	require.Equal(t, 0, utils.Value[int](nil))
	require.Equal(t, 3, utils.Value(utils.Ptr(3)))
	require.Equal(t, "def", utils.ValueOr(nil, "def"))
	require.Equal(t, "set", utils.ValueOr(utils.Ptr("set"), "def"))
	require.Nil(t, utils.NilIfZero(int64(0)))
	require.Equal(t, int64(5), *utils.NilIfZero(int64(5)))
}
