package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name     string
		recorded uint
		compiled uint
		wantErr  error
	}{
		{name: "fresh database", recorded: 0, compiled: SchemaVersion},
		{name: "up to date", recorded: SchemaVersion, compiled: SchemaVersion},
		{name: "behind gets migrated", recorded: 2, compiled: SchemaVersion},
		{name: "ahead is rejected", recorded: SchemaVersion + 1, compiled: SchemaVersion, wantErr: ErrSchemaFromFuture},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := checkVersion(tc.recorded, tc.compiled)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestEmbeddedDeltasMatchSchemaVersion(t *testing.T) {
	ups, err := fs.Glob(MigrationFiles, "*.up.sql")
	require.NoError(t, err)
	require.Len(t, ups, SchemaVersion)

	downs, err := fs.Glob(MigrationFiles, "*.down.sql")
	require.NoError(t, err)
	require.Len(t, downs, SchemaVersion)
}
