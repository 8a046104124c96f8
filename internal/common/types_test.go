package common

import (
	"database/sql"
	"database/sql/driver"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	_ driver.Valuer = NotificationMetadata{}
	_ sql.Scanner   = (*NotificationMetadata)(nil)
)

func TestNotificationMetadata_DriverAcceptsValue(t *testing.T) {
	meta := NotificationMetadata{"from_user_id": "u1", "action": "friend_request"}

	// the default converter is what database/sql runs every parameter through
	out, err := driver.DefaultParameterConverter.ConvertValue(meta)
	require.NoError(t, err)
	require.IsType(t, []byte{}, out)
}

func TestNotificationMetadata_RoundTrip(t *testing.T) {
	meta := NotificationMetadata{"from_user_id": "u1", "count": float64(3)}

	value, err := meta.Value()
	require.NoError(t, err)

	var restored NotificationMetadata
	require.NoError(t, restored.Scan(value))
	require.Equal(t, meta, restored)
}

func TestNotificationMetadata_NilHandling(t *testing.T) {
	var meta NotificationMetadata

	value, err := meta.Value()
	require.NoError(t, err)
	require.Nil(t, value)

	restored := NotificationMetadata{"stale": true}
	require.NoError(t, restored.Scan(nil))
	require.Nil(t, restored)
}

func TestNotificationMetadata_ScanRejectsUnknownType(t *testing.T) {
	var meta NotificationMetadata
	require.Error(t, meta.Scan(42))
}
