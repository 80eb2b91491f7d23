package controller

import (
	"net/http"
	"testing"

	"school_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserController(t *testing.T) {
	s := newTestServer(t)
	admin := s.seedUser(t, "Admin", model.Admin, 0)
	teacher := s.seedUser(t, "Teacher", model.Teacher, 0)
	student := s.seedUser(t, "Student", model.Student, 7)
	s.seedUser(t, "Other", model.Student, 8)

	code, env := call(t, s.user.GetUsers, teacher, http.MethodGet, "/users", "/users?role=student&class_id=7", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
	var page struct {
		List  []model.User `json:"list"`
		Total int64        `json:"total"`
	}
	decode(t, env, &page)
	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.List, 1)
	assert.Equal(t, student.UserID, page.List[0].ID)

	code, _ = call(t, s.user.GetUsers, teacher, http.MethodGet, "/users", "/users?role=janitor", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, s.user.GetUser, teacher, http.MethodGet, "/users/:id", "/users/"+uintString(student.UserID), nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = call(t, s.user.GetUser, teacher, http.MethodGet, "/users/:id", "/users/999", nil)
	assert.Equal(t, http.StatusNotFound, code)

	route := "/admin/users/:id/disable"
	code, _ = call(t, s.user.DisableUser, admin, http.MethodPost, route, "/admin/users/"+uintString(student.UserID)+"/disable?disable=true", nil)
	require.Equal(t, http.StatusOK, code)
	var u model.User
	require.NoError(t, s.db.First(&u, student.UserID).Error)
	assert.True(t, u.Disabled)

	code, _ = call(t, s.user.DisableUser, admin, http.MethodPost, route, "/admin/users/"+uintString(student.UserID)+"/disable?disable=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, s.user.DisableUser, admin, http.MethodPost, route, "/admin/users/"+uintString(admin.UserID)+"/disable?disable=true", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, s.user.DisableUser, nil, http.MethodPost, route, "/admin/users/1/disable?disable=true", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
