package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	session, _ := setupSessionTest()

	pendingID := session.AddVariant()
	require.NoError(t, session.SetVariantColor(pendingID, ColorChoice{CustomName: "Mint"}))
	_, err := session.AddPictures(pendingID, []PictureFile{{FileName: "m.jpg", Data: []byte("m")}})
	require.NoError(t, err)

	require.NoError(t, session.RemoveVariant("11"))
	require.NoError(t, session.RemovePicture("10", "101"))
	stagedIDs, err := session.AddPictures("10", []PictureFile{{FileName: "x.jpg", Data: []byte("x")}})
	require.NoError(t, err)

	summaries := session.Snapshot()
	require.Len(t, summaries, 3)

	// pending variants come first, in creation order
	mint := summaries[0]
	assert.Equal(t, pendingID, mint.ID)
	assert.True(t, mint.Pending)
	assert.Equal(t, "Mint", mint.ColorName)
	require.Len(t, mint.Pictures, 1)
	assert.True(t, mint.Pictures[0].Staged)
	assert.True(t, mint.Pictures[0].IsPrimary)

	red := summaries[1]
	assert.Equal(t, "10", red.ID)
	assert.False(t, red.Pending)
	assert.Equal(t, "Red", red.ColorName)
	require.Len(t, red.Pictures, 3)
	assert.False(t, red.Pictures[0].MarkedDeleted)
	assert.True(t, red.Pictures[1].MarkedDeleted)
	assert.Equal(t, stagedIDs[0], red.Pictures[2].ID)
	assert.True(t, red.Pictures[2].Staged)

	navy := summaries[2]
	assert.Equal(t, "11", navy.ID)
	assert.True(t, navy.MarkedDeleted)
}
