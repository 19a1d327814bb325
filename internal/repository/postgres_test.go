package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-assistant/internal/model"
)

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepositoryFromDB(sqlx.NewDb(db, "sqlmock")), mock
}

var propertyColumns = []string{
	"id", "building_name", "location", "street_name", "apartment_types", "apartment_sizes",
	"price_range", "amenities", "nearby_locations", "commute_times", "availability_status",
	"builder_name", "builder_contact", "latitude", "longitude", "photo_url",
}

func TestPostgresRepository_LoadProperties(t *testing.T) {
	repo, mock := newMockRepo(t)

	rows := sqlmock.NewRows(propertyColumns).
		AddRow(1, "Sea Breeze", "Kadri", "MG Road", "2BHK, 3BHK", "1200 sqft", "120-180", "Gym, Pool",
			"School, Mall", "Airport 20 min", "Ready", "Prestige", "999", 12.88, 74.85, nil).
		AddRow(2, "Palm Residency", "Bejai", "", "3BHK", "", "150-200", "", "", "", "", "", "", nil, nil, "http://x/p.jpg")
	mock.ExpectQuery("SELECT id(.|\n)*FROM properties").WillReturnRows(rows)

	got, err := repo.LoadProperties(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Sea Breeze", got[0].BuildingName)
	require.NotNil(t, got[0].Latitude)
	assert.InDelta(t, 12.88, *got[0].Latitude, 1e-9)
	assert.Nil(t, got[0].PhotoURL)

	assert.Nil(t, got[1].Latitude)
	require.NotNil(t, got[1].PhotoURL)
	assert.Equal(t, "http://x/p.jpg", *got[1].PhotoURL)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_LogTurn(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO chat_turn_logs").
		WithArgs("s1", "2bhk in kadri", "Here are some options", sqlmock.AnyArg(), sqlmock.AnyArg(),
			"discovery", false, false, int64(12)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	bhk := 2
	err := repo.LogTurn(context.Background(), model.TurnLog{
		SessionID:   "s1",
		Query:       "2bhk in kadri",
		Response:    "Here are some options",
		Preferences: model.PreferenceSet{BHK: &bhk},
		PropertyIDs: []int{1, 3},
		Stage:       model.StageDiscovery,
		TookMs:      12,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_EnsureSchema(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS properties").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
