package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestAdapter_SnapshotRoom(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	event := messageEvent()
	hashBytes := []byte{0xde, 0xad, 0xbe, 0xef}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(queryRoomFrontier)).
		WithArgs(event.RoomID).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "depth"}).
			AddRow("$frontier-2:hearth.test", int64(6)).
			AddRow("$frontier-1:hearth.test", int64(5)),
		)
	mock.ExpectQuery(regexp.QuoteMeta(querySelectContentHashes)).
		WithArgs("$frontier-2:hearth.test").
		WillReturnRows(sqlmock.NewRows([]string{"algorithm", "hash"}).
			AddRow("sha256", hashBytes),
		)
	mock.ExpectQuery(regexp.QuoteMeta(querySelectContentHashes)).
		WithArgs("$frontier-1:hearth.test").
		WillReturnRows(sqlmock.NewRows([]string{"algorithm", "hash"}))
	mock.ExpectCommit()

	snapshot, err := adapter.SnapshotRoom(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, event.RoomID, snapshot.RoomID)
	require.Len(t, snapshot.PrevEvents, 2)
	require.Equal(t, "$frontier-2:hearth.test", snapshot.PrevEvents[0].EventID)
	require.Equal(t, int64(6), snapshot.PrevEvents[0].Depth)
	require.Equal(t, "3q2+7w", snapshot.PrevEvents[0].Hashes["sha256"])
	require.Empty(t, snapshot.PrevEvents[1].Hashes)
	require.Nil(t, snapshot.StateKey)
	require.Empty(t, snapshot.PrevState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_SnapshotRoom_StateEvent(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	event := membershipEvent()
	event.PrevState = nil
	event.ReplacesState = nil

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(queryRoomFrontier)).
		WithArgs(event.RoomID).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "depth"}).
			AddRow("$frontier-1:hearth.test", int64(3)),
		)
	mock.ExpectQuery(regexp.QuoteMeta(querySelectContentHashes)).
		WithArgs("$frontier-1:hearth.test").
		WillReturnRows(sqlmock.NewRows([]string{"algorithm", "hash"}))
	mock.ExpectQuery(regexp.QuoteMeta(queryCurrentStateWithDepth)).
		WithArgs(event.RoomID, event.Type, *event.StateKey).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "depth"}).
			AddRow("$old-member:hearth.test", int64(2)),
		)
	mock.ExpectQuery(regexp.QuoteMeta(querySelectContentHashes)).
		WithArgs("$old-member:hearth.test").
		WillReturnRows(sqlmock.NewRows([]string{"algorithm", "hash"}))
	mock.ExpectCommit()

	snapshot, err := adapter.SnapshotRoom(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, event.Type, snapshot.StateType)
	require.Equal(t, *event.StateKey, *snapshot.StateKey)
	require.Len(t, snapshot.PrevState, 1)
	require.Equal(t, "$old-member:hearth.test", snapshot.PrevState[0].EventID)

	snapshot.FillPrevEvents(event)
	require.Equal(t, int64(4), event.Depth)
	require.Len(t, event.PrevEvents, 1)
	require.Equal(t, "$frontier-1:hearth.test", event.PrevEvents[0].EventID)
	require.NotNil(t, event.ReplacesState)
	require.Equal(t, "$old-member:hearth.test", *event.ReplacesState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_SnapshotRoom_EmptyRoom(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	event := messageEvent()
	event.Depth = 0

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(queryRoomFrontier)).
		WithArgs(event.RoomID).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "depth"}))
	mock.ExpectCommit()

	snapshot, err := adapter.SnapshotRoom(context.Background(), event)
	require.NoError(t, err)
	require.Empty(t, snapshot.PrevEvents)

	snapshot.FillPrevEvents(event)
	require.Equal(t, int64(0), event.Depth)
	require.Empty(t, event.PrevEvents)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_SnapshotRoom_QueryFailureRollsBack(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(queryRoomFrontier)).
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	_, err := adapter.SnapshotRoom(context.Background(), messageEvent())
	require.Error(t, err)
	require.ErrorContains(t, err, "snapshot_room")
	require.NoError(t, mock.ExpectationsWereMet())
}
