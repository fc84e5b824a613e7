package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_joinSeatIDs(t *testing.T) {
	for _, tt := range []struct {
		ids  []int
		want string
	}{
		{nil, ""},
		{[]int{7}, "7"},
		{[]int{3, 4, 5, 6}, "3,4,5,6"},
		{[]int{0, 79}, "0,79"},
	} {
		t.Run(tt.want, func(t *testing.T) {
			require.Equal(t, tt.want, joinSeatIDs(tt.ids))
		})
	}
}

func Test_parseSeatIDs(t *testing.T) {
	t.Run("round_trip", func(t *testing.T) {
		ids, err := parseSeatIDs("3,4,5,6")
		require.NoError(t, err)
		require.Equal(t, []int{3, 4, 5, 6}, ids)
	})

	t.Run("tolerates_spaces", func(t *testing.T) {
		ids, err := parseSeatIDs("7, 8, 9")
		require.NoError(t, err)
		require.Equal(t, []int{7, 8, 9}, ids)
	})

	t.Run("empty", func(t *testing.T) {
		ids, err := parseSeatIDs("")
		require.NoError(t, err)
		require.Nil(t, ids)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := parseSeatIDs("3,x,5")
		require.Error(t, err)
	})
}
