package utils_test

import (
	"testing"

	"github.com/jrsteele09/go-social-connect/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	require.Equal(t, []string{"user.info.basic", "video.upload"}, utils.SplitList("user.info.basic,video.upload"))
	require.Equal(t, []string{"openid", "email"}, utils.SplitList("openid email"))
	require.Equal(t, []string{"a", "b"}, utils.SplitList(" a, ,b ,"))
	require.Empty(t, utils.SplitList(""))
}

func TestNonEmpty(t *testing.T) {
	require.Nil(t, utils.NonEmpty(""))
	require.Equal(t, "x", *utils.NonEmpty("x"))
	require.Nil(t, utils.NonEmpty(0))
}
