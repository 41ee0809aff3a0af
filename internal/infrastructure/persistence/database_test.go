package persistence

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// openMockDatabase wires a Database around a sqlmock connection so pool and
// transaction behavior can be tested without Postgres.
func openMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &Database{DB: gormDB}, mock, mockDB
}

func TestConnectionStats(t *testing.T) {
	t.Run("zero value", func(t *testing.T) {
		var stats ConnectionStats

		assert.Zero(t, stats.MaxOpenConnections)
		assert.Zero(t, stats.OpenConnections)
		assert.Zero(t, stats.InUse)
		assert.Zero(t, stats.Idle)
		assert.Zero(t, stats.WaitCount)
		assert.Equal(t, time.Duration(0), stats.WaitDuration)
		assert.Zero(t, stats.MaxIdleClosed)
		assert.Zero(t, stats.MaxIdleTimeClosed)
		assert.Zero(t, stats.MaxLifetimeClosed)
	})

	t.Run("populated", func(t *testing.T) {
		stats := ConnectionStats{
			MaxOpenConnections: 25,
			OpenConnections:    10,
			InUse:              5,
			Idle:               5,
			WaitCount:          100,
			WaitDuration:       5 * time.Second,
			MaxIdleClosed:      50,
			MaxIdleTimeClosed:  30,
			MaxLifetimeClosed:  20,
		}

		assert.Equal(t, 25, stats.MaxOpenConnections)
		assert.Equal(t, 10, stats.OpenConnections)
		assert.Equal(t, 5, stats.InUse)
		assert.Equal(t, 5, stats.Idle)
		assert.Equal(t, int64(100), stats.WaitCount)
		assert.Equal(t, 5*time.Second, stats.WaitDuration)
		assert.Equal(t, int64(50), stats.MaxIdleClosed)
		assert.Equal(t, int64(30), stats.MaxIdleTimeClosed)
		assert.Equal(t, int64(20), stats.MaxLifetimeClosed)
	})
}

func TestDatabase_Stats(t *testing.T) {
	db, _, mockDB := openMockDatabase(t)
	defer mockDB.Close()

	stats, err := db.Stats()

	assert.NoError(t, err)
	assert.IsType(t, ConnectionStats{}, stats)
	assert.GreaterOrEqual(t, stats.OpenConnections, 0)
}

func TestDatabase_Ping(t *testing.T) {
	t.Run("succeeds", func(t *testing.T) {
		db, mock, mockDB := openMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectPing()

		assert.NoError(t, db.Ping())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("with monitored pings", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockDB.Close()

		// gorm.Open pings the connection itself.
		mock.ExpectPing()

		gormDB, err := gorm.Open(postgres.New(postgres.Config{
			Conn:       mockDB,
			DriverName: "postgres",
		}), &gorm.Config{
			SkipDefaultTransaction: true,
		})
		require.NoError(t, err)

		db := &Database{DB: gormDB}

		mock.ExpectPing()
		assert.NoError(t, db.Ping())
	})
}

func TestDatabase_Close(t *testing.T) {
	db, mock, _ := openMockDatabase(t)

	mock.ExpectClose()

	assert.NoError(t, db.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Transaction(t *testing.T) {
	type clientProfile struct {
		ID   uint
		Name string
	}

	t.Run("commits", func(t *testing.T) {
		db, mock, mockDB := openMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		// The postgres dialector issues INSERT ... RETURNING as a query.
		mock.ExpectQuery(`INSERT INTO "client_profiles"`).
			WithArgs("Martin Promo GmbH").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&clientProfile{Name: "Martin Promo GmbH"}).Error
		})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, mockDB := openMockDatabase(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := db.Transaction(func(tx *gorm.DB) error {
			return assert.AnError
		})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
