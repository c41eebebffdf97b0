package accounts

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anoixa/picture-vault/api/middleware"
	"github.com/anoixa/picture-vault/database/models"
	accountsRepo "github.com/anoixa/picture-vault/database/repo/accounts"
	"github.com/anoixa/picture-vault/internal/auth"
)

type testEnv struct {
	router *gin.Engine
	issuer *auth.TokenService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	issuer, err := auth.NewIssuer(key, time.Hour)
	require.NoError(t, err)

	accountService := auth.NewAccountService(accountsRepo.NewRepository(db))
	handler := NewHandler(accountService, issuer, "http://localhost:8080")

	router := gin.New()
	router.POST("/api/v1/auth/register", handler.RegisterHandlerFunc)
	router.POST("/api/v1/auth/login", handler.LoginHandlerFunc)
	router.GET("/api/v1/users/:id",
		middleware.BearerAuth(issuer),
		middleware.RequirePermission(models.PermissionRead),
		handler.FindUserHandlerFunc)

	return &testEnv{router: router, issuer: issuer}
}

func (e *testEnv) postJSON(path string, payload any, token string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func registerBody() gin.H {
	return gin.H{
		"username":  "alice",
		"password":  "averylongpassword",
		"firstName": "Alice",
		"lastName":  "Liddell",
		"email":     "alice@example.com",
	}
}

// TestRegister_Success 注册成功返回 201、新用户 id 和 Location 头
func TestRegister_Success(t *testing.T) {
	env := setupTestEnv(t)

	w := env.postJSON("/api/v1/auth/register", registerBody(), "")
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["id"])
	assert.Equal(t, "http://localhost:8080/api/v1/users/"+resp["id"], w.Header().Get("Location"))
}

// TestRegister_Duplicate 用户名或邮箱冲突返回 409
func TestRegister_Duplicate(t *testing.T) {
	env := setupTestEnv(t)

	w := env.postJSON("/api/v1/auth/register", registerBody(), "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.postJSON("/api/v1/auth/register", registerBody(), "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

// TestRegister_InvalidFields 字段校验失败返回 400
func TestRegister_InvalidFields(t *testing.T) {
	env := setupTestEnv(t)

	tests := []struct {
		name   string
		mutate func(body gin.H)
	}{
		{"invalid email", func(body gin.H) { body["email"] = "not-an-email" }},
		{"missing password", func(body gin.H) { delete(body, "password") }},
		{"short password", func(body gin.H) { body["password"] = "short" }},
		{"bad username", func(body gin.H) { body["username"] = "1nvalid" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := registerBody()
			tt.mutate(body)
			w := env.postJSON("/api/v1/auth/register", body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

// TestLogin_Success 登录成功返回 201 和访问令牌
func TestLogin_Success(t *testing.T) {
	env := setupTestEnv(t)
	require.Equal(t, http.StatusCreated, env.postJSON("/api/v1/auth/register", registerBody(), "").Code)

	w := env.postJSON("/api/v1/auth/login", gin.H{
		"username": "alice",
		"password": "averylongpassword",
	}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["access_token"])
}

// TestLogin_BadCredentials 密码错误和用户不存在返回同样的 401
func TestLogin_BadCredentials(t *testing.T) {
	env := setupTestEnv(t)
	require.Equal(t, http.StatusCreated, env.postJSON("/api/v1/auth/register", registerBody(), "").Code)

	w := env.postJSON("/api/v1/auth/login", gin.H{"username": "alice", "password": "wrongpassword1"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	wrongPasswordBody := w.Body.String()

	w = env.postJSON("/api/v1/auth/login", gin.H{"username": "nobody", "password": "wrongpassword1"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, wrongPasswordBody, w.Body.String())
}

// TestFindUser 带读权限的令牌能查到用户文档
func TestFindUser(t *testing.T) {
	env := setupTestEnv(t)

	w := env.postJSON("/api/v1/auth/register", registerBody(), "")
	require.Equal(t, http.StatusCreated, w.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = env.postJSON("/api/v1/auth/login", gin.H{"username": "alice", "password": "averylongpassword"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var login map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = env.get("/api/v1/users/"+created["id"], login["access_token"])
	assert.Equal(t, http.StatusOK, w.Code)

	var user map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "alice", user["username"])
	assert.Equal(t, created["id"], user["id"])
	// 密码哈希绝不出现在响应里
	assert.NotContains(t, w.Body.String(), "$argon2id$")
}

// TestFindUser_WithoutReadPermission 没有读权限的令牌返回 403
func TestFindUser_WithoutReadPermission(t *testing.T) {
	env := setupTestEnv(t)

	token, err := env.issuer.Issue(&models.User{
		Identifier:  "writer-1",
		Username:    "writer",
		Permissions: models.PermissionCreate,
	})
	require.NoError(t, err)

	w := env.get("/api/v1/users/some-id", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// TestFindUser_NotFound 不存在的用户返回 404
func TestFindUser_NotFound(t *testing.T) {
	env := setupTestEnv(t)

	token, err := env.issuer.Issue(&models.User{
		Identifier:  "reader-1",
		Username:    "reader",
		Permissions: models.PermissionRead,
	})
	require.NoError(t, err)

	w := env.get("/api/v1/users/missing-id", token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
