package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_NewestFirst(t *testing.T) {
	feed := NewFeed(10)

	feed.Success("first")
	feed.Error("second")
	feed.Info("third")

	recent := feed.Recent()
	require.Len(t, recent, 3)
	assert.Equal(t, "third", recent[0].Message)
	assert.Equal(t, LevelInfo, recent[0].Level)
	assert.Equal(t, LevelError, recent[1].Level)
	assert.NotEmpty(t, recent[2].ID)

	last, ok := feed.Last()
	require.True(t, ok)
	assert.Equal(t, "third", last.Message)
}

func TestFeed_DropsOldest(t *testing.T) {
	feed := NewFeed(2)

	feed.Info("a")
	feed.Info("b")
	feed.Info("c")

	recent := feed.Recent()
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].Message)
	assert.Equal(t, "b", recent[1].Message)
}

func TestFeed_Empty(t *testing.T) {
	feed := NewFeed(0)

	_, ok := feed.Last()
	assert.False(t, ok)
	assert.Empty(t, feed.Recent())
}
