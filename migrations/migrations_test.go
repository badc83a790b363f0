package migrations

import (
	"io"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsParse(t *testing.T) {
	src, err := iofs.New(FS, ".")
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })

	version, err := src.First()
	require.NoError(t, err)
	assert.EqualValues(t, 1, version)

	var versions []uint
	for {
		versions = append(versions, version)

		up, _, err := src.ReadUp(version)
		require.NoError(t, err, "up migration for %d", version)
		_ = up.Close()
		down, _, err := src.ReadDown(version)
		require.NoError(t, err, "down migration for %d", version)
		_ = down.Close()

		version, err = src.Next(version)
		if err != nil {
			break
		}
	}
	assert.Equal(t, []uint{1, 2}, versions)
}

func TestAppointmentsMigrationGuardsSlots(t *testing.T) {
	f, err := FS.Open("000002_appointments.up.sql")
	require.NoError(t, err)
	defer f.Close()

	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(body), "WHERE status = 'confirmed'")
}
