package database

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itnihongo/kaiwa/schemas"
)

func TestMigrate(t *testing.T) {
	migrations := fstest.MapFS{
		"migrations/002_index.sql": {Data: []byte("CREATE INDEX idx ON lesson_views (updated_at);")},
		"migrations/001_init.sql":  {Data: []byte("CREATE TABLE lesson_views (id VARCHAR(191));")},
		"migrations/README.md":     {Data: []byte("ignored")},
	}

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      []string
		errMsg    string
	}{
		{
			name: "applies pending migrations in order",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT version FROM schema_migrations").
					WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("001_init"))
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX idx ON lesson_views (updated_at);")).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations (version) VALUES (?)")).
					WithArgs("002_index").
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
			want: []string{"002_index"},
		},
		{
			name: "nothing pending",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT version FROM schema_migrations").
					WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("001_init").AddRow("002_index"))
			},
			want: nil,
		},
		{
			name: "failed migration is rolled back",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery("SELECT version FROM schema_migrations").
					WillReturnRows(sqlmock.NewRows([]string{"version"}))
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE lesson_views")).WillReturnError(fmt.Errorf("syntax error"))
				mock.ExpectRollback()
			},
			errMsg: "apply 001_init",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setupMock(mock)

			got, err := Migrate(context.Background(), sqlx.NewDb(db, "mysql"), migrations)
			if tt.errMsg != "" {
				assert.ErrorContains(t, err, tt.errMsg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	body, err := schemas.Migrations.ReadFile("migrations/001_lesson_views.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS lesson_views")
}
