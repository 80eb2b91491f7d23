package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"school_edu_backend/internal/model"
	"school_edu_backend/internal/repository"
	"school_edu_backend/internal/service"
	"school_edu_backend/internal/util"
	"school_edu_backend/pkg/database"
	"school_edu_backend/pkg/locker"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	db       *gorm.DB
	mcq      *MCQController
	question *MCQQuestionController
	user     *UserController
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:ctl_%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(database.Models()...))

	questions := repository.NewMCQQuestionRepository(db)
	sessions := repository.NewMCQSessionRepository(db)
	progress := repository.NewMCQProgressRepository(db)
	users := repository.NewUserRepository(db)

	mcqService := service.NewMCQService(questions, sessions, progress, locker.NewLocalLocker(), db, 10)
	stats := service.NewMCQStatisticsService(questions, sessions, progress, users)

	return &testServer{
		db:       db,
		mcq:      NewMCQController(mcqService, stats),
		question: NewMCQQuestionController(service.NewMCQQuestionService(questions), nil),
		user:     NewUserController(service.NewUserService(users)),
	}
}

func (s *testServer) seedUser(t *testing.T, name string, role model.UserRole, classID uint) *util.Claims {
	t.Helper()
	u := &model.User{Name: name, Email: strings.ToLower(name) + "@school.test", Password: "x", Role: role, ClassID: classID}
	require.NoError(t, s.db.Create(u).Error)
	return &util.Claims{UserID: u.ID, Role: role, Email: u.Email, ClassID: classID}
}

// call 以给定身份调用单个 handler，route 为注册的路由模板
func call(t *testing.T, h gin.HandlerFunc, claims *util.Claims, method, route, path string, body interface{}) (int, envelope) {
	t.Helper()

	r := gin.New()
	r.Handle(method, route, func(c *gin.Context) {
		if claims != nil {
			c.Set(util.ContextUserKey, claims)
		}
		c.Next()
	}, h)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func intPtr(v int) *int { return &v }

func uintString(v uint) string { return strconv.FormatUint(uint64(v), 10) }

func (s *testServer) seedQuestions(t *testing.T, teacher *util.Claims, classID uint, subject, chapter string, n int) []service.QuestionView {
	t.Helper()
	reqs := make([]service.QuestionRequest, 0, n)
	for i := 0; i < n; i++ {
		reqs = append(reqs, service.QuestionRequest{
			ClassID:       classID,
			Subject:       subject,
			Chapter:       chapter,
			QuestionText:  fmt.Sprintf("question %d", i),
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: intPtr(0),
		})
	}
	code, env := call(t, s.question.BulkCreate, teacher, http.MethodPost, "/questions/bulk", "/questions/bulk", reqs)
	require.Equal(t, http.StatusCreated, code, env.Message)

	var views []service.QuestionView
	decode(t, env, &views)
	return views
}
