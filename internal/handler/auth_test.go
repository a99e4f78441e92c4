package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"team-pdca/internal/handler"
	"team-pdca/internal/mocks"
	"team-pdca/internal/model"
	"team-pdca/internal/policy"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testSecret = []byte("test-secret")

func TestLoginIssuesToken(t *testing.T) {
	store := new(mocks.AuthStore)
	store.On("Login", mock.Anything, "alice", "secret123").Return(&model.UserProfile{
		ID:       1,
		Username: "alice",
		Name:     "Alice",
		Role:     "manager",
		TeamID:   team(2),
	}, nil)
	h := handler.NewAuthHandler(store, policy.New(noopResolver{}), testSecret)

	ctx, w := testCtx(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"secret123"}`, nil)
	h.Login(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp model.LoginResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)

	// token also lands in the session cookie
	cookies := w.Result().Cookies()
	var found bool
	for _, ck := range cookies {
		if ck.Name == "token" {
			found = true
			assert.Equal(t, resp.Token, ck.Value)
			assert.True(t, ck.HttpOnly)
		}
	}
	assert.True(t, found, "expected token cookie")
	store.AssertExpectations(t)
}

func TestLoginBadCredentials(t *testing.T) {
	store := new(mocks.AuthStore)
	store.On("Login", mock.Anything, "alice", "wrong").Return(nil, policy.ErrUnauthenticated)
	h := handler.NewAuthHandler(store, policy.New(noopResolver{}), testSecret)

	ctx, w := testCtx(t, http.MethodPost, "/api/auth/login", `{"username":"alice","password":"wrong"}`, nil)
	h.Login(ctx)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "token")
}

func TestLogoutClearsCookie(t *testing.T) {
	h := handler.NewAuthHandler(new(mocks.AuthStore), policy.New(noopResolver{}), testSecret)
	ctx, w := testCtx(t, http.MethodPost, "/api/auth/logout", "", nil)
	h.Logout(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	var cleared bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "token" {
			cleared = ck.MaxAge < 0
		}
	}
	assert.True(t, cleared, "expected expired token cookie")
}

func TestUpdateProfileSelf(t *testing.T) {
	store := new(mocks.AuthStore)
	store.On("UpdateProfile", mock.Anything, 1, model.ProfileUpdate{Name: "Alice B", Email: "alice@corp.test"}).Return(nil)
	h := handler.NewAuthHandler(store, policy.New(noopResolver{}), testSecret)

	me := policy.Identity{UserID: 1, Role: policy.Member}
	ctx, w := testCtx(t, http.MethodPut, "/api/auth/profile",
		`{"name":"Alice B","email":"alice@corp.test"}`, &me)
	h.UpdateProfile(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	store := new(mocks.AuthStore)
	store.On("ChangePassword", mock.Anything, 1, mock.Anything).
		Return(fmt.Errorf("%w: current password is incorrect", policy.ErrValidation))
	h := handler.NewAuthHandler(store, policy.New(noopResolver{}), testSecret)

	me := policy.Identity{UserID: 1, Role: policy.Member}
	ctx, w := testCtx(t, http.MethodPut, "/api/auth/password",
		`{"current_password":"nope","new_password":"secret123"}`, &me)
	h.ChangePassword(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChangePasswordRejectsShortNew(t *testing.T) {
	h := handler.NewAuthHandler(new(mocks.AuthStore), policy.New(noopResolver{}), testSecret)
	me := policy.Identity{UserID: 1, Role: policy.Member}
	ctx, w := testCtx(t, http.MethodPut, "/api/auth/password",
		`{"current_password":"secret123","new_password":"abc"}`, &me)
	h.ChangePassword(ctx)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVerifyEchoesIdentity(t *testing.T) {
	h := handler.NewAuthHandler(new(mocks.AuthStore), policy.New(noopResolver{}), testSecret)
	me := policy.Identity{UserID: 7, Role: policy.Manager, TeamID: team(3)}
	ctx, w := testCtx(t, http.MethodGet, "/api/auth/verify", "", &me)
	h.Verify(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `"role":"manager"`), body)
	assert.True(t, strings.Contains(body, `"team_id":3`), body)
}
