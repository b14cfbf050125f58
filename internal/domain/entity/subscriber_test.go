package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSubscriber(t *testing.T) {
	s := NewSubscriber(10, "operator")
	require.Equal(t, int64(10), s.ChatID)
	require.Equal(t, "operator", s.UserName)
	require.False(t, s.CreatedAt.IsZero())
}
