package service

import (
	"context"
	"testing"
	"time"

	"school_edu_backend/internal/model"
	"school_edu_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) seedEndedSession(t *testing.T, studentID uint, chapter string, correct, incorrect, skipped, served int) *model.MCQSession {
	t.Helper()
	end := testEpoch.Add(10 * time.Minute)
	s := &model.MCQSession{
		StudentID:      studentID,
		ClassID:        7,
		Subject:        "Math",
		Chapter:        chapter,
		StartTime:      testEpoch,
		EndTime:        &end,
		Duration:       600,
		CorrectCount:   correct,
		IncorrectCount: incorrect,
		SkippedCount:   skipped,
	}
	require.NoError(t, f.db.Create(s).Error)

	if served > 0 {
		questions := f.seedCorpus(t, 7, "Math", chapter, served)
		rows := newSessionRows(s.ID, questions)
		require.NoError(t, f.db.Omit("Question").Create(&rows).Error)
	}
	return s
}

func TestGetClassStatistics_TwoSessionsSameChapter(t *testing.T) {
	f := newFixture(t)
	alice := f.seedStudent(t, "Alice", 7)
	bob := f.seedStudent(t, "Bob", 7)

	f.seedEndedSession(t, alice.ID, "X", 8, 2, 0, 10) // 80%
	f.seedEndedSession(t, bob.ID, "X", 6, 4, 1, 11)   // 60%

	stats, err := f.stats.GetClassStatistics(context.Background(), 7, "Math")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalSessions)
	assert.Equal(t, 2, stats.TotalStudents)
	assert.Equal(t, 70.0, stats.AverageScore)

	chapter := stats.ChapterWisePerformance["X"]
	require.NotNil(t, chapter)
	assert.Equal(t, 2, chapter.Attempts)
	assert.Equal(t, 70.0, chapter.AverageScore)
	assert.Equal(t, 21, chapter.TotalQuestions)
	assert.Equal(t, 2, chapter.StudentCount)

	assert.Equal(t, "Alice", stats.StudentPerformance[alice.ID].Name)
	assert.Equal(t, 80.0, stats.StudentPerformance[alice.ID].AverageScore)
	assert.Equal(t, 1, stats.StudentPerformance[bob.ID].SkippedCount)
	assert.Equal(t, []string{"X"}, stats.StudentPerformance[bob.ID].CompletedChapters)
}

func TestGetClassStatistics_RunningMeanAndStudentTotals(t *testing.T) {
	f := newFixture(t)
	alice := f.seedStudent(t, "Alice", 7)

	f.seedEndedSession(t, alice.ID, "X", 1, 1, 0, 2) // 50
	f.seedEndedSession(t, alice.ID, "Y", 3, 0, 0, 3) // 100
	f.seedEndedSession(t, alice.ID, "X", 2, 0, 0, 2) // 100
	f.seedEndedSession(t, alice.ID, "X", 0, 0, 4, 4) // 0，无有效作答

	// 未结束的会话不计入
	require.NoError(t, f.db.Create(&model.MCQSession{
		StudentID: alice.ID, ClassID: 7, Subject: "Math", Chapter: "X", StartTime: testEpoch, CorrectCount: 5,
	}).Error)
	// 其他科目不计入
	end := testEpoch
	require.NoError(t, f.db.Create(&model.MCQSession{
		StudentID: alice.ID, ClassID: 7, Subject: "Physics", Chapter: "X", StartTime: testEpoch, EndTime: &end, CorrectCount: 5,
	}).Error)

	stats, err := f.stats.GetClassStatistics(context.Background(), 7, "Math")
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalSessions)
	assert.Equal(t, 1, stats.TotalStudents)
	assert.Equal(t, 62.5, stats.AverageScore)

	x := stats.ChapterWisePerformance["X"]
	assert.Equal(t, 3, x.Attempts)
	assert.Equal(t, 50.0, x.AverageScore)
	assert.Equal(t, 8, x.TotalQuestions)
	assert.Equal(t, 1, x.StudentCount)
	assert.Equal(t, 100.0, stats.ChapterWisePerformance["Y"].AverageScore)

	student := stats.StudentPerformance[alice.ID]
	assert.Equal(t, 4, student.Sessions)
	assert.Equal(t, 6, student.CorrectCount)
	assert.Equal(t, 1, student.IncorrectCount)
	assert.Equal(t, 4, student.SkippedCount)
	assert.Equal(t, []string{"X", "Y"}, student.CompletedChapters)
	assert.Equal(t, util.Round2(600.0/7.0), student.AverageScore)
}

func TestGetClassStatistics_Empty(t *testing.T) {
	f := newFixture(t)

	stats, err := f.stats.GetClassStatistics(context.Background(), 7, "Math")
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalSessions)
	assert.Equal(t, 0.0, stats.AverageScore)
	assert.Empty(t, stats.ChapterWisePerformance)
	assert.Empty(t, stats.StudentPerformance)
}

func TestGetStudentProgress(t *testing.T) {
	f := newFixture(t)
	alice := f.seedStudent(t, "Alice", 7)
	f.seedCorpus(t, 7, "Math", "X", 25)
	ctx := context.Background()

	start, err := f.mcq.StartSession(ctx, alice.ID, chapterX)
	require.NoError(t, err)
	_, err = f.mcq.NextBatch(ctx, alice.ID, start.Session.ID)
	require.NoError(t, err)

	questionID := start.Rows[0].QuestionID
	_, err = f.mcq.SubmitAnswer(ctx, alice.ID, SubmitAnswerRequest{SessionID: start.Session.ID, QuestionID: questionID, SelectedAnswer: intPtr(0)})
	require.NoError(t, err)
	_, err = f.mcq.SubmitAnswer(ctx, alice.ID, SubmitAnswerRequest{SessionID: start.Session.ID, QuestionID: start.Rows[1].QuestionID, SelectedAnswer: intPtr(0)})
	require.NoError(t, err)
	_, err = f.mcq.EndSession(ctx, alice.ID, start.Session.ID)
	require.NoError(t, err)

	progress, err := f.stats.GetStudentProgress(ctx, alice.ID, 7, "Math")
	require.NoError(t, err)
	require.Len(t, progress, 1)

	p := progress[0]
	assert.Equal(t, "X", p.Chapter)
	assert.Equal(t, 20, p.LastQuestionIndex)
	assert.Equal(t, int64(25), p.TotalQuestions)
	assert.Equal(t, 80.0, p.CompletionPercent)
	assert.Equal(t, 0, p.CompletedCycles)
	assert.Equal(t, 1, p.Sessions)
	assert.Equal(t, 50.0, p.AverageScore)

	_, err = f.stats.GetStudentProgress(ctx, 4242, 0, "")
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestGetStudentProgress_FullCycleStaysComplete(t *testing.T) {
	f := newFixture(t)
	alice := f.seedStudent(t, "Alice", 7)
	f.seedCorpus(t, 7, "Math", "X", 15)
	ctx := context.Background()

	// 10 + 5 道后回绕，游标回到 0
	start, err := f.mcq.StartSession(ctx, alice.ID, chapterX)
	require.NoError(t, err)
	next, err := f.mcq.NextBatch(ctx, alice.ID, start.Session.ID)
	require.NoError(t, err)
	require.Equal(t, 5, next.Session.LastQuestionIndex)
	_, err = f.mcq.EndSession(ctx, alice.ID, start.Session.ID)
	require.NoError(t, err)

	progress, err := f.stats.GetStudentProgress(ctx, alice.ID, 7, "Math")
	require.NoError(t, err)
	require.Len(t, progress, 1)
	assert.Equal(t, 5, progress[0].LastQuestionIndex)
	assert.Equal(t, 1, progress[0].CompletedCycles)
	assert.Equal(t, 100.0, progress[0].CompletionPercent)

	// 新会话从 5 开始，取到末尾再次回绕
	_, err = f.mcq.StartSession(ctx, alice.ID, chapterX)
	require.NoError(t, err)

	progress, err = f.stats.GetStudentProgress(ctx, alice.ID, 7, "Math")
	require.NoError(t, err)
	assert.Equal(t, 0, progress[0].LastQuestionIndex)
	assert.Equal(t, 2, progress[0].CompletedCycles)
	assert.Equal(t, 100.0, progress[0].CompletionPercent)
}
