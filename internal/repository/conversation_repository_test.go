package repository

import (
	"context"
	"testing"

	"morse-mastery/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newMockConversationRepo 挂在 sqlmock 连接上的真实仓储实现
func newMockConversationRepo(t *testing.T) (IConversationRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return NewConversationRepository(db), mock
}

var duplicatePairKey = &mysqldrv.MySQLError{
	Number:  1062,
	Message: "Duplicate entry '1:2' for key 'pair_key'",
}

func TestConversationRepositoryGetOrCreateDirect(t *testing.T) {
	t.Run("existing_conversation_found", func(t *testing.T) {
		repo, mock := newMockConversationRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM `conversation`").
			WillReturnRows(sqlmock.NewRows([]string{"id", "is_group", "pair_key"}).
				AddRow(7, false, model.DirectPairKey(1, 2)))

		id, created, err := repo.GetOrCreateDirect(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.Equal(t, uint(7), id)
		assert.False(t, created)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost_race_rereads_winner", func(t *testing.T) {
		repo, mock := newMockConversationRepo(t)

		// 首次查不到，插入撞 pair_key 唯一键（并发对端先建成），重读拿到赢家
		mock.ExpectQuery("SELECT (.+) FROM `conversation`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `conversation`").
			WillReturnError(duplicatePairKey)
		mock.ExpectRollback()
		mock.ExpectQuery("SELECT (.+) FROM `conversation`").
			WillReturnRows(sqlmock.NewRows([]string{"id", "is_group", "pair_key"}).
				AddRow(42, false, model.DirectPairKey(1, 2)))

		id, created, err := repo.GetOrCreateDirect(context.Background(), 2, 1)
		require.NoError(t, err)
		assert.Equal(t, uint(42), id)
		assert.False(t, created)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unresolved_conflict_returns_duplicate", func(t *testing.T) {
		repo, mock := newMockConversationRepo(t)

		// 撞唯一键后重读仍然落空，按唯一键冲突上抛
		mock.ExpectQuery("SELECT (.+) FROM `conversation`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `conversation`").
			WillReturnError(duplicatePairKey)
		mock.ExpectRollback()
		mock.ExpectQuery("SELECT (.+) FROM `conversation`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, _, err := repo.GetOrCreateDirect(context.Background(), 1, 2)
		require.ErrorIs(t, err, ErrDuplicateKey)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("creates_conversation_with_participants", func(t *testing.T) {
		repo, mock := newMockConversationRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM `conversation`").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `conversation`").
			WillReturnResult(sqlmock.NewResult(9, 1))
		mock.ExpectExec("INSERT INTO `conversation_participant`").
			WillReturnResult(sqlmock.NewResult(1, 2))
		mock.ExpectCommit()

		id, created, err := repo.GetOrCreateDirect(context.Background(), 1, 2)
		require.NoError(t, err)
		assert.Equal(t, uint(9), id)
		assert.True(t, created)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
