package repository

import (
	"context"
	"regexp"
	"testing"

	"moneta/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestCommentRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &models.Comment{PostID: 1, ProfileID: 2, Content: "Congrats!"}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "post_comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, comment)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), comment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByPost(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	// Oldest comment first; conversation threads read top-down.
	mock.ExpectQuery(`SELECT \* FROM "post_comments" WHERE post_id = \$1.*ORDER BY created_at asc`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "profile_id", "content"}).
			AddRow(1, 1, 6, "well done").
			AddRow(2, 1, 5, "nice"))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5).AddRow(6))

	comments, err := repo.ListByPost(ctx, 1)
	assert.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, "well done", comments[0].Content)
	assert.Equal(t, "nice", comments[1].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_Delete_SoftDeletes(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "post_comments" WHERE "post_comments"."id" = $1`)).
		WithArgs(3, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id"}).AddRow(3, 1))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "post_comments" SET "deleted_at"=`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(ctx, 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}
