package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"imex-website/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var messageColumns = []string{"message_id", "first_name", "last_name", "email", "phone", "client_message", "post_date_time", "classification_id"}

func TestMessageRepositoryUnreadCount(t *testing.T) {
	db, state := newScriptedGormDB(t,
		query("SELECT count\\(\\*\\) FROM `messages` WHERE classification_id = \\?", []string{"count(*)"}, []driver.Value{int64(3)}).
			withArgs(int64(models.ClassificationUnread)),
	)

	total, err := NewMessageRepository(db).UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.NoError(t, state.verifyComplete())
}

func TestMessageRepositorySendStoresUnread(t *testing.T) {
	db, state := newScriptedGormDB(t, exec("INSERT INTO `messages`", 1))

	msg := &models.Message{FirstName: "Ana", LastName: "Pop", Email: "ana@example.com", ClientMessage: "Salut", ClassificationID: models.ClassificationRead}
	require.NoError(t, NewMessageRepository(db).Send(context.Background(), msg))

	assert.Equal(t, 1, msg.MessageID)
	assert.Equal(t, models.ClassificationUnread, msg.ClassificationID)
	assert.False(t, msg.PostDateTime.IsZero())
	require.NoError(t, state.verifyComplete())
}

func TestMessageRepositoryByIDLoadsClassification(t *testing.T) {
	posted := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	db, state := newScriptedGormDB(t,
		query("SELECT \\* FROM `messages` WHERE message_id = \\?", messageColumns,
			[]driver.Value{int64(4), "Ion", "Ionescu", "ion@example.com", "0700", "Buna ziua", posted, int64(2)}),
		query("SELECT \\* FROM `classifications` WHERE `classifications`.`classification_id` = \\?",
			[]string{"classification_id", "name"}, []driver.Value{int64(2), "Unread"}),
	)

	msg, err := NewMessageRepository(db).ByID(context.Background(), 4)
	require.NoError(t, err)
	require.NotNil(t, msg.Classification)
	assert.Equal(t, "Ion Ionescu", msg.FullName())
	assert.True(t, msg.IsUnread())
	require.NoError(t, state.verifyComplete())
}

func TestMessageRepositoryByIDNotFound(t *testing.T) {
	db, state := newScriptedGormDB(t,
		query("SELECT \\* FROM `messages` WHERE message_id = \\?", messageColumns),
	)

	msg, err := NewMessageRepository(db).ByID(context.Background(), 99)
	assert.Nil(t, msg)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, state.verifyComplete())
}

func TestMessageRepositoryMarkAsRead(t *testing.T) {
	t.Run("updates classification", func(t *testing.T) {
		db, state := newScriptedGormDB(t,
			exec("UPDATE `messages` SET `classification_id`=\\? WHERE message_id = \\?", 1).
				withArgs(int64(models.ClassificationRead), int64(5)),
		)
		require.NoError(t, NewMessageRepository(db).MarkAsRead(context.Background(), 5))
		require.NoError(t, state.verifyComplete())
	})

	t.Run("missing message", func(t *testing.T) {
		db, _ := newScriptedGormDB(t,
			exec("UPDATE `messages`", 0),
			query("SELECT count\\(\\*\\) FROM `messages` WHERE message_id = \\?", []string{"count(*)"}, []driver.Value{int64(0)}),
		)
		assert.ErrorIs(t, NewMessageRepository(db).MarkAsRead(context.Background(), 5), ErrNotFound)
	})

	t.Run("already read", func(t *testing.T) {
		db, state := newScriptedGormDB(t,
			exec("UPDATE `messages`", 0),
			query("SELECT count\\(\\*\\) FROM `messages` WHERE message_id = \\?", []string{"count(*)"}, []driver.Value{int64(1)}).
				withArgs(int64(5)),
		)
		require.NoError(t, NewMessageRepository(db).MarkAsRead(context.Background(), 5))
		require.NoError(t, state.verifyComplete())
	})
}

func TestMessageRepositoryDelete(t *testing.T) {
	db, state := newScriptedGormDB(t,
		exec("DELETE FROM `messages` WHERE message_id = \\?", 1).withArgs(int64(8)),
		exec("DELETE FROM `messages` WHERE message_id = \\?", 0).withArgs(int64(9)),
	)
	repo := NewMessageRepository(db)

	require.NoError(t, repo.Delete(context.Background(), 8))
	assert.ErrorIs(t, repo.Delete(context.Background(), 9), ErrNotFound)
	require.NoError(t, state.verifyComplete())
}

func TestMessageRepositoryCountWrapsDriverErrors(t *testing.T) {
	boom := errors.New("connection reset")
	db, _ := newScriptedGormDB(t,
		query("SELECT count\\(\\*\\) FROM `messages`", nil).failing(boom),
	)

	_, err := NewMessageRepository(db).Count(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestMessageRepositorySearchUsesEscapedPattern(t *testing.T) {
	like := "%50\\% off%"
	db, state := newScriptedGormDB(t,
		query("SELECT \\* FROM `messages` WHERE .*LIKE.* ORDER BY message_id DESC", messageColumns).
			withArgs(like, like, like, like, like, like),
	)

	messages, err := NewMessageRepository(db).Search(context.Background(), " 50% off ")
	require.NoError(t, err)
	assert.Empty(t, messages)
	require.NoError(t, state.verifyComplete())
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%ion%", likePattern(" ion "))
	assert.Equal(t, "%a\\_b%", likePattern("a_b"))
	assert.Equal(t, "%c:\\\\temp%", likePattern(`c:\temp`))
}

func TestApplicationRepositoryDeleteRemovesCV(t *testing.T) {
	db, state := newScriptedGormDB(t,
		exec("DELETE FROM `application_cvs` WHERE application_id = \\?", 1).withArgs(int64(3)),
		exec("DELETE FROM `applications` WHERE application_id = \\?", 1).withArgs(int64(3)),
	)

	require.NoError(t, NewApplicationRepository(db).Delete(context.Background(), 3))
	require.NoError(t, state.verifyComplete())
}

func TestApplicationRepositoryDeleteMissing(t *testing.T) {
	db, _ := newScriptedGormDB(t,
		exec("DELETE FROM `application_cvs`", 0),
		exec("DELETE FROM `applications`", 0),
	)

	assert.ErrorIs(t, NewApplicationRepository(db).Delete(context.Background(), 3), ErrNotFound)
}

func TestJobRepositoryEditMissing(t *testing.T) {
	db, state := newScriptedGormDB(t,
		exec("UPDATE `jobs` SET", 0),
		query("SELECT count\\(\\*\\) FROM `jobs` WHERE job_id = \\?", []string{"count(*)"}, []driver.Value{int64(0)}).
			withArgs(int64(12)),
	)

	err := NewJobRepository(db).Edit(context.Background(), &models.Job{JobID: 12, JobName: "Sudor"})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, state.verifyComplete())
}

func TestJobRepositoryEditUnchanged(t *testing.T) {
	db, state := newScriptedGormDB(t,
		exec("UPDATE `jobs` SET", 0),
		query("SELECT count\\(\\*\\) FROM `jobs` WHERE job_id = \\?", []string{"count(*)"}, []driver.Value{int64(1)}).
			withArgs(int64(12)),
	)

	err := NewJobRepository(db).Edit(context.Background(), &models.Job{JobID: 12, JobName: "Sudor"})
	require.NoError(t, err)
	require.NoError(t, state.verifyComplete())
}

func TestProjectRepositoryUpdateUnchangedReplacesGallery(t *testing.T) {
	db, state := newScriptedGormDB(t,
		exec("UPDATE `projects` SET", 0),
		query("SELECT count\\(\\*\\) FROM `projects` WHERE project_id = \\?", []string{"count(*)"}, []driver.Value{int64(1)}).
			withArgs(int64(7)),
		exec("DELETE FROM `project_pictures` WHERE project_id = \\?", 4).withArgs(int64(7)),
		exec("INSERT INTO `project_pictures`", 1),
	)

	project := &models.Project{
		ProjectID: 7,
		Title:     "Hala",
		Pictures:  []models.Picture{{ImageName: "hala.jpeg", ContentType: "image/jpeg", Extension: "jpeg"}},
	}
	require.NoError(t, NewProjectRepository(db).Update(context.Background(), project))
	assert.Equal(t, 7, project.Pictures[0].ProjectID)
	require.NoError(t, state.verifyComplete())
}

func TestProjectRepositoryUpdateMissingKeepsGallery(t *testing.T) {
	db, state := newScriptedGormDB(t,
		exec("UPDATE `projects` SET", 0),
		query("SELECT count\\(\\*\\) FROM `projects` WHERE project_id = \\?", []string{"count(*)"}, []driver.Value{int64(0)}),
	)

	project := &models.Project{ProjectID: 7, Title: "Hala", Pictures: []models.Picture{{ImageName: "hala.jpeg"}}}
	assert.ErrorIs(t, NewProjectRepository(db).Update(context.Background(), project), ErrNotFound)
	require.NoError(t, state.verifyComplete())
}

func TestProjectRepositoryPageLoadsPictureMetadata(t *testing.T) {
	posted := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	db, state := newScriptedGormDB(t,
		query("SELECT \\* FROM `projects` ORDER BY project_id DESC LIMIT",
			[]string{"project_id", "title", "description", "post_date_time"},
			[]driver.Value{int64(7), "Hala", "Hala industriala", posted}),
		query("SELECT `picture_id`,`project_id`,`image_name`,`content_type`,`extension` FROM `project_pictures` WHERE",
			[]string{"picture_id", "project_id", "image_name", "content_type", "extension"},
			[]driver.Value{int64(1), int64(7), "hala.jpeg", "image/jpeg", "jpeg"}),
	)

	projects, err := NewProjectRepository(db).Page(context.Background(), 1, 6)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, 7, projects[0].ProjectID)
	require.NotNil(t, projects[0].Cover())
	assert.Equal(t, "hala.jpeg", projects[0].Cover().ImageName)
	assert.Nil(t, projects[0].Pictures[0].ImageData)
	require.NoError(t, state.verifyComplete())
}

func TestProjectRepositoryLatestEmpty(t *testing.T) {
	db, _ := newScriptedGormDB(t,
		query("SELECT \\* FROM `projects` ORDER BY project_id DESC", []string{"project_id"}),
	)

	project, err := NewProjectRepository(db).Latest(context.Background())
	assert.Nil(t, project)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPolicyRepositoryUpdate(t *testing.T) {
	db, state := newScriptedGormDB(t, exec("UPDATE `policies` SET", 1))

	policy := &models.Policy{PolicyID: 1, Name: "Confidentialitate", Content: "<p>text</p>"}
	require.NoError(t, NewPolicyRepository(db).Update(context.Background(), policy))
	assert.False(t, policy.UpdatedAt.IsZero())
	require.NoError(t, state.verifyComplete())
}

func TestUserRepositoryByEmailSkipsDeleted(t *testing.T) {
	db, state := newScriptedGormDB(t,
		query("SELECT \\* FROM `users` WHERE email = \\? AND delete_at IS NULL", []string{"user_id"}),
	)

	user, err := NewUserRepository(db).ByEmail(context.Background(), "gone@example.com")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, state.verifyComplete())
}

func TestUserRepositoryRevokeResetTokensIgnoresAnonymous(t *testing.T) {
	db, state := newScriptedGormDB(t)

	require.NoError(t, NewUserRepository(db).RevokePasswordResetTokens(context.Background(), 0, time.Now()))
	require.NoError(t, state.verifyComplete())
}
