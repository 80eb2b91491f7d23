package controller

import (
	"net/http"
	"testing"

	"school_edu_backend/internal/model"
	"school_edu_backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPracticeFlow(t *testing.T) {
	s := newTestServer(t)
	teacher := s.seedUser(t, "Teacher", model.Teacher, 0)
	student := s.seedUser(t, "Student", model.Student, 7)
	s.seedQuestions(t, teacher, 7, "Math", "Algebra", 12)

	start := service.StartSessionRequest{ClassID: 7, Subject: "Math", Chapter: "Algebra"}
	code, env := call(t, s.mcq.StartSession, student, http.MethodPost, "/start", "/start", start)
	require.Equal(t, http.StatusCreated, code, env.Message)

	var batch service.BatchResponse
	decode(t, env, &batch)
	assert.Equal(t, 12, batch.TotalQuestions)
	assert.Equal(t, 10, batch.CurrentBatch)
	assert.Equal(t, 2, batch.RemainingQuestions)
	require.Len(t, batch.Questions, 10)
	for _, q := range batch.Questions {
		assert.Nil(t, q.CorrectAnswer, "answers hidden while practising")
		assert.Equal(t, []string{"A", "B", "C", "D"}, q.Options)
	}
	sessionID := batch.Session.ID

	// 作答
	first := batch.Questions[0].QuestionID
	code, env = call(t, s.mcq.SubmitAnswer, student, http.MethodPost, "/submit", "/submit",
		service.SubmitAnswerRequest{SessionID: sessionID, QuestionID: first, SelectedAnswer: intPtr(0)})
	require.Equal(t, http.StatusOK, code, env.Message)
	var result service.AnswerResult
	decode(t, env, &result)
	require.NotNil(t, result.IsCorrect)
	assert.True(t, *result.IsCorrect)

	code, _ = call(t, s.mcq.SubmitAnswer, student, http.MethodPost, "/submit", "/submit",
		service.SubmitAnswerRequest{SessionID: sessionID, QuestionID: first, SelectedAnswer: intPtr(1)})
	assert.Equal(t, http.StatusConflict, code)

	// 跳过
	code, env = call(t, s.mcq.SubmitAnswer, student, http.MethodPost, "/submit", "/submit",
		service.SubmitAnswerRequest{SessionID: sessionID, QuestionID: batch.Questions[1].QuestionID})
	require.Equal(t, http.StatusOK, code, env.Message)
	decode(t, env, &result)
	assert.True(t, result.IsSkipped)

	code, _ = call(t, s.mcq.SubmitAnswer, student, http.MethodPost, "/submit", "/submit",
		service.SubmitAnswerRequest{SessionID: sessionID, QuestionID: batch.Questions[2].QuestionID, SelectedAnswer: intPtr(9)})
	assert.Equal(t, http.StatusBadRequest, code)

	// 下一批：2 道剩余 + 回绕 8 道
	code, env = call(t, s.mcq.NextBatch, student, http.MethodPost, "/next", "/next", service.SessionIDRequest{SessionID: sessionID})
	require.Equal(t, http.StatusOK, code, env.Message)
	decode(t, env, &batch)
	assert.Equal(t, 10, batch.CurrentBatch)
	assert.Equal(t, 8, batch.Session.LastQuestionIndex)
	assert.Equal(t, 2, batch.Session.BatchCount)

	code, env = call(t, s.mcq.EndSession, student, http.MethodPost, "/end", "/end", service.SessionIDRequest{SessionID: sessionID})
	require.Equal(t, http.StatusOK, code, env.Message)
	var ended service.SessionView
	decode(t, env, &ended)
	assert.Equal(t, 1, ended.CorrectCount)
	assert.Equal(t, 0, ended.IncorrectCount)
	assert.Equal(t, 1, ended.SkippedCount)
	require.NotNil(t, ended.EndTime)
	require.Len(t, ended.Questions, 20)
	assert.NotNil(t, ended.Questions[0].CorrectAnswer)

	code, _ = call(t, s.mcq.NextBatch, student, http.MethodPost, "/next", "/next", service.SessionIDRequest{SessionID: sessionID})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = call(t, s.mcq.EndSession, student, http.MethodPost, "/end", "/end", service.SessionIDRequest{SessionID: sessionID})
	assert.Equal(t, http.StatusOK, code, "ending twice is idempotent")
}

func TestStartSession_Errors(t *testing.T) {
	s := newTestServer(t)
	student := s.seedUser(t, "Student", model.Student, 7)

	code, _ := call(t, s.mcq.StartSession, student, http.MethodPost, "/start", "/start",
		service.StartSessionRequest{ClassID: 8, Subject: "Math", Chapter: "Algebra"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = call(t, s.mcq.StartSession, student, http.MethodPost, "/start", "/start",
		service.StartSessionRequest{ClassID: 7, Subject: "Math", Chapter: "Empty"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = call(t, s.mcq.StartSession, student, http.MethodPost, "/start", "/start",
		map[string]interface{}{"class_id": 7})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, s.mcq.StartSession, nil, http.MethodPost, "/start", "/start",
		service.StartSessionRequest{ClassID: 7, Subject: "Math", Chapter: "Algebra"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestGetSession_Visibility(t *testing.T) {
	s := newTestServer(t)
	teacher := s.seedUser(t, "Teacher", model.Teacher, 0)
	alice := s.seedUser(t, "Alice", model.Student, 7)
	bob := s.seedUser(t, "Bob", model.Student, 7)
	s.seedQuestions(t, teacher, 7, "Math", "Algebra", 3)

	code, env := call(t, s.mcq.StartSession, alice, http.MethodPost, "/start", "/start",
		service.StartSessionRequest{ClassID: 7, Subject: "Math", Chapter: "Algebra"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var batch service.BatchResponse
	decode(t, env, &batch)
	path := "/sessions/" + uintString(batch.Session.ID)

	code, env = call(t, s.mcq.GetSession, alice, http.MethodGet, "/sessions/:session_id", path, nil)
	require.Equal(t, http.StatusOK, code)
	var view service.SessionView
	decode(t, env, &view)
	require.Len(t, view.Questions, 3)
	assert.Nil(t, view.Questions[0].CorrectAnswer)

	code, _ = call(t, s.mcq.GetSession, bob, http.MethodGet, "/sessions/:session_id", path, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = call(t, s.mcq.GetSession, teacher, http.MethodGet, "/sessions/:session_id", path, nil)
	require.Equal(t, http.StatusOK, code)
	decode(t, env, &view)
	assert.NotNil(t, view.Questions[0].CorrectAnswer)

	code, _ = call(t, s.mcq.GetSession, teacher, http.MethodGet, "/sessions/:session_id", "/sessions/999", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStatisticsEndpoints(t *testing.T) {
	s := newTestServer(t)
	teacher := s.seedUser(t, "Teacher", model.Teacher, 0)
	student := s.seedUser(t, "Student", model.Student, 7)
	s.seedQuestions(t, teacher, 7, "Math", "Algebra", 4)

	code, env := call(t, s.mcq.StartSession, student, http.MethodPost, "/start", "/start",
		service.StartSessionRequest{ClassID: 7, Subject: "Math", Chapter: "Algebra"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var batch service.BatchResponse
	decode(t, env, &batch)
	for i, q := range batch.Questions {
		answer := 0
		if i == 3 {
			answer = 1
		}
		code, env = call(t, s.mcq.SubmitAnswer, student, http.MethodPost, "/submit", "/submit",
			service.SubmitAnswerRequest{SessionID: batch.Session.ID, QuestionID: q.QuestionID, SelectedAnswer: &answer})
		require.Equal(t, http.StatusOK, code, env.Message)
	}
	code, _ = call(t, s.mcq.EndSession, student, http.MethodPost, "/end", "/end", service.SessionIDRequest{SessionID: batch.Session.ID})
	require.Equal(t, http.StatusOK, code)

	code, env = call(t, s.mcq.GetClassStatistics, teacher, http.MethodGet, "/stats", "/stats?class_id=7&subject=Math", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var stats service.ClassStatistics
	decode(t, env, &stats)
	assert.Equal(t, 1, stats.TotalSessions)
	assert.Equal(t, 75.0, stats.AverageScore)

	code, _ = call(t, s.mcq.GetClassStatistics, teacher, http.MethodGet, "/stats", "/stats?class_id=7", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, s.mcq.GetStudentProgress, teacher, http.MethodGet, "/progress", "/progress?class_id=7", nil)
	assert.Equal(t, http.StatusBadRequest, code, "teachers must name a student")

	code, env = call(t, s.mcq.GetStudentProgress, student, http.MethodGet, "/progress", "/progress?class_id=7&subject=Math", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var progress []service.ChapterProgress
	decode(t, env, &progress)
	require.Len(t, progress, 1)
	assert.Equal(t, "Algebra", progress[0].Chapter)
	assert.Equal(t, 75.0, progress[0].AverageScore)
}
