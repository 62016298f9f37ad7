package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/productivity/domain"
)

func TestDecodeSnapshot(t *testing.T) {
	payload := []byte(`{"service":"other","message_count":12,"unread_count":3,"mentions":1,"last_activity":"2026-10-15T09:30:00Z"}`)

	activity, err := decodeSnapshot("gmail", payload)
	require.NoError(t, err)

	assert.Equal(t, "gmail", activity.Service)
	assert.Equal(t, 12, activity.MessageCount)
	assert.Equal(t, 3, activity.UnreadCount)
	assert.Equal(t, 1, activity.Mentions)
	require.NotNil(t, activity.LastActivity)
	assert.Equal(t, 9, activity.LastActivity.Hour())
	assert.NotNil(t, activity.KeywordsDetected)
}

func TestDecodeSnapshotMalformed(t *testing.T) {
	_, err := decodeSnapshot("discord", []byte(`{not json`))
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestSnapshotKey(t *testing.T) {
	src := NewSnapshotSource(nil, "").(*snapshotSource)
	assert.Equal(t, "communication:snapshot:messenger", src.key("messenger"))
}
