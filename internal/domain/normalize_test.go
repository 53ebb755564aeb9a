package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeUsername(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"natgeo", "natgeo"},
		{"  @cristiano ", "cristiano"},
		{"https://instagram.com/natgeo", "natgeo"},
		{"https://www.instagram.com/natgeo/", "natgeo"},
		{"http://instagram.com/natgeo?hl=en", "natgeo"},
		{"instagram.com/natgeo/reels", "natgeo"},
		{"@", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		require.Equal(t, c.want, NormalizeUsername(c.in), "input %q", c.in)
	}
}

func TestSplitUsernames(t *testing.T) {
	raw := "natgeo\n\n  @cristiano \nhttps://instagram.com/nasa\n   \n"
	require.Equal(t, []string{"natgeo", "cristiano", "nasa"}, SplitUsernames(raw))
}

func TestValidUsername(t *testing.T) {
	require.True(t, ValidUsername("nat.geo_1"))
	require.False(t, ValidUsername(""))
	require.False(t, ValidUsername("has space"))
	require.False(t, ValidUsername("way_too_long_for_an_instagram_handle_x"))
}
