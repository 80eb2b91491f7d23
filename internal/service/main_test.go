package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/pkg/database"
	"school_edu_backend/pkg/locker"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testEpoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(database.Models()...))
	return db
}

type fixture struct {
	db       *gorm.DB
	mcq      *MCQService
	stats    *MCQStatisticsService
	question *MCQQuestionService
	clock    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	questions := repository.NewMCQQuestionRepository(db)
	sessions := repository.NewMCQSessionRepository(db)
	progress := repository.NewMCQProgressRepository(db)
	users := repository.NewUserRepository(db)

	f := &fixture{db: db, clock: testEpoch}
	f.mcq = NewMCQService(questions, sessions, progress, locker.NewLocalLocker(), db, 10)
	f.mcq.now = func() time.Time { return f.clock }
	f.stats = NewMCQStatisticsService(questions, sessions, progress, users)
	f.question = NewMCQQuestionService(questions)
	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

// seedCorpus 写入 n 道题，第 i 题的正确答案为 i%4
func (f *fixture) seedCorpus(t *testing.T, classID uint, subject, chapter string, n int) []model.MCQQuestion {
	t.Helper()
	questions := make([]model.MCQQuestion, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, model.MCQQuestion{
			ClassID:       classID,
			Subject:       subject,
			Chapter:       chapter,
			QuestionText:  fmt.Sprintf("%s question %d", chapter, i),
			Options:       datatypes.JSONSlice[string]{"A", "B", "C", "D"},
			CorrectAnswer: i % 4,
		})
	}
	require.NoError(t, f.db.Create(&questions).Error)
	return questions
}

func (f *fixture) seedStudent(t *testing.T, name string, classID uint) *model.User {
	t.Helper()
	u := &model.User{
		Name:     name,
		Email:    strings.ToLower(name) + "@school.test",
		Password: "x",
		Role:     model.Student,
		ClassID:  classID,
	}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func questionIDs(rows []model.MCQSessionQuestion) []uint {
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.QuestionID)
	}
	return ids
}

func idsOf(questions []model.MCQQuestion) []uint {
	ids := make([]uint, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	return ids
}

func intPtr(v int) *int { return &v }
