package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-library-lending/internal/core/database"
	"go-library-lending/internal/domain"
	"go-library-lending/internal/repo"
	"go-library-lending/internal/service"
)

// 起一个完整引擎：真中间件链 + 真服务层 + sqlite 临时库。
func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewGorm(database.Opts{
		Driver:             "sqlite",
		DSN:                filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:       1,
		MaxIdleConns:       1,
		ConnMaxLifetimeMin: 5,
		LogLevel:           "silent",
	}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Book{}, &domain.Loan{}))

	svc := service.NewLendingService(repo.NewUserRepo(db), repo.NewBookRepo(db), repo.NewLoanRepo(db), zap.NewNop())
	return NewAPIEngine(zap.NewNop(), svc)
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestCreateUser(t *testing.T) {
	r := newTestEngine(t)

	w := do(t, r, http.MethodPost, "/users", gin.H{"name": "Alice"})
	require.Equal(t, http.StatusCreated, w.Code)

	var u struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	decode(t, w, &u)
	assert.Equal(t, uint(1), u.ID)
	assert.Equal(t, "Alice", u.Name)

	// 空白名字在边界就挡下
	for _, name := range []string{"", "   "} {
		w = do(t, r, http.MethodPost, "/users", gin.H{"name": name})
		require.Equal(t, http.StatusBadRequest, w.Code)
		var body map[string]string
		decode(t, w, &body)
		assert.Equal(t, "validation", body["error"])
		assert.Equal(t, "name must not be empty", body["message"])
	}
}

func TestListUsers(t *testing.T) {
	r := newTestEngine(t)

	// 空库要出 []，不能是 null
	w := do(t, r, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))

	do(t, r, http.MethodPost, "/users", gin.H{"name": "Alice"})
	do(t, r, http.MethodPost, "/users", gin.H{"name": "Bob"})

	w = do(t, r, http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	decode(t, w, &users)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "Bob", users[1].Name)
}

func TestGetUserWithLoans(t *testing.T) {
	r := newTestEngine(t)

	w := do(t, r, http.MethodGet, "/users/1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "not_found", body["error"])
	assert.Equal(t, "User not found", body["message"])

	// 非数字 id 等同于不存在
	w = do(t, r, http.MethodGet, "/users/abc", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	do(t, r, http.MethodPost, "/users", gin.H{"name": "Alice"})
	do(t, r, http.MethodPost, "/books", gin.H{"name": "Dune"})
	do(t, r, http.MethodPost, "/books", gin.H{"name": "1984"})

	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/users/1/borrow/1", nil).Code)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/users/1/return/1", gin.H{"score": 5}).Code)
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/users/1/borrow/2", nil).Code)

	w = do(t, r, http.MethodGet, "/users/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Books struct {
			Past []struct {
				Name      string `json:"name"`
				UserScore int    `json:"userScore"`
			} `json:"past"`
			Present []struct {
				Name string `json:"name"`
			} `json:"present"`
		} `json:"books"`
	}
	decode(t, w, &view)
	assert.Equal(t, "Alice", view.Name)
	require.Len(t, view.Books.Past, 1)
	assert.Equal(t, "Dune", view.Books.Past[0].Name)
	assert.Equal(t, 5, view.Books.Past[0].UserScore)
	require.Len(t, view.Books.Present, 1)
	assert.Equal(t, "1984", view.Books.Present[0].Name)
}

func TestGetUserWithLoansEmptyPartitions(t *testing.T) {
	r := newTestEngine(t)
	do(t, r, http.MethodPost, "/users", gin.H{"name": "Alice"})

	w := do(t, r, http.MethodGet, "/users/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	// 两个分区都要以 [] 出现
	assert.Contains(t, w.Body.String(), `"past":[]`)
	assert.Contains(t, w.Body.String(), `"present":[]`)
}

func TestPathIDOutOfRange(t *testing.T) {
	r := newTestEngine(t)
	do(t, r, http.MethodPost, "/users", gin.H{"name": "Alice"})
	do(t, r, http.MethodPost, "/books", gin.H{"name": "Dune"})

	// uint 放不下的 id 不得截断回绕命中已有记录，一律 404
	for _, p := range []string{
		"/users/4294967297",           // 2^32 + 1
		"/users/18446744073709551617", // 2^64 + 1
	} {
		w := do(t, r, http.MethodGet, p, nil)
		require.Equal(t, http.StatusNotFound, w.Code, p)
		var body map[string]string
		decode(t, w, &body)
		assert.Equal(t, "User not found", body["message"], p)
	}

	w := do(t, r, http.MethodGet, "/books/18446744073709551617", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "Book not found", body["message"])
}

func TestBorrowAndReturnFlow(t *testing.T) {
	r := newTestEngine(t)
	do(t, r, http.MethodPost, "/users", gin.H{"name": "Alice"})
	do(t, r, http.MethodPost, "/users", gin.H{"name": "Bob"})
	do(t, r, http.MethodPost, "/books", gin.H{"name": "Dune"})

	type msgBody struct {
		Message string `json:"message"`
	}

	// 未知用户 / 未知书 → 404
	require.Equal(t, http.StatusNotFound, do(t, r, http.MethodPost, "/users/99/borrow/1", nil).Code)
	require.Equal(t, http.StatusNotFound, do(t, r, http.MethodPost, "/users/1/borrow/99", nil).Code)

	w := do(t, r, http.MethodPost, "/users/1/borrow/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var msg msgBody
	decode(t, w, &msg)
	assert.Equal(t, "Book borrowed successfully", msg.Message)

	// 本人重复借 → 400
	w = do(t, r, http.MethodPost, "/users/1/borrow/1", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var fail map[string]string
	decode(t, w, &fail)
	assert.Equal(t, "conflict", fail["error"])
	assert.Equal(t, "Book is already borrowed by this user", fail["message"])

	// 别人来借 → 400，另一条文案
	w = do(t, r, http.MethodPost, "/users/2/borrow/1", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &fail)
	assert.Equal(t, "Book is already borrowed by someone else", fail["message"])

	// Bob 还这本书轮不到 → 400 invalid_state
	w = do(t, r, http.MethodPost, "/users/2/return/1", gin.H{"score": 3})
	require.Equal(t, http.StatusBadRequest, w.Code)
	decode(t, w, &fail)
	assert.Equal(t, "invalid_state", fail["error"])
	assert.Equal(t, "This book is not currently borrowed by this user", fail["message"])

	w = do(t, r, http.MethodPost, "/users/1/return/1", gin.H{"score": 4})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &msg)
	assert.Equal(t, "Book returned successfully", msg.Message)

	// 还完再还 → 400
	require.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/users/1/return/1", gin.H{"score": 4}).Code)
}

func TestReturnBodyBinding(t *testing.T) {
	r := newTestEngine(t)
	do(t, r, http.MethodPost, "/users", gin.H{"name": "Alice"})
	do(t, r, http.MethodPost, "/books", gin.H{"name": "Dune"})
	require.Equal(t, http.StatusOK, do(t, r, http.MethodPost, "/users/1/borrow/1", nil).Code)

	// 坏 JSON → 400 validation
	req := httptest.NewRequest(http.MethodPost, "/users/1/return/1", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var fail map[string]string
	decode(t, w, &fail)
	assert.Equal(t, "validation", fail["error"])

	// 空对象可以过：score 缺省为 0,评分本来就不做校验
	w2 := do(t, r, http.MethodPost, "/users/1/return/1", gin.H{})
	require.Equal(t, http.StatusOK, w2.Code)
}

func TestGetBookWithAverageScore(t *testing.T) {
	r := newTestEngine(t)
	do(t, r, http.MethodPost, "/users", gin.H{"name": "Alice"})
	do(t, r, http.MethodPost, "/users", gin.H{"name": "Bob"})
	do(t, r, http.MethodPost, "/books", gin.H{"name": "Dune"})

	w := do(t, r, http.MethodGet, "/books/99", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	var fail map[string]string
	decode(t, w, &fail)
	assert.Equal(t, "Book not found", fail["message"])

	require.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/books/abc", nil).Code)

	type bookView struct {
		ID    uint    `json:"id"`
		Name  string  `json:"name"`
		Score float64 `json:"score"`
	}

	// 没有任何借阅：哨兵 -1
	w = do(t, r, http.MethodGet, "/books/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view bookView
	decode(t, w, &view)
	assert.Equal(t, "Dune", view.Name)
	assert.InDelta(t, -1.0, view.Score, 1e-9)

	// Alice 借还打 4 分 → 4
	do(t, r, http.MethodPost, "/users/1/borrow/1", nil)
	do(t, r, http.MethodPost, "/users/1/return/1", gin.H{"score": 4})
	w = do(t, r, http.MethodGet, "/books/1", nil)
	decode(t, w, &view)
	assert.InDelta(t, 4.0, view.Score, 1e-9)

	// Bob 在借按 0 计入 → (4+0)/2
	do(t, r, http.MethodPost, "/users/2/borrow/1", nil)
	w = do(t, r, http.MethodGet, "/books/1", nil)
	decode(t, w, &view)
	assert.InDelta(t, 2.0, view.Score, 1e-9)
}

func TestListBooks(t *testing.T) {
	r := newTestEngine(t)

	w := do(t, r, http.MethodGet, "/books", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))

	w = do(t, r, http.MethodPost, "/books", gin.H{"name": "Dune"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodPost, "/books", gin.H{"name": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, r, http.MethodGet, "/books", nil)
	var books []struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}
	decode(t, w, &books)
	require.Len(t, books, 1)
	assert.Equal(t, "Dune", books[0].Name)
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestEngine(t)

	w := do(t, r, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":1}`, w.Body.String())

	w = do(t, r, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_in_flight")
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestRequestIDHeader(t *testing.T) {
	r := newTestEngine(t)

	w := do(t, r, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	// 透传调用方带来的
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "rid-123")
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	assert.Equal(t, "rid-123", w2.Header().Get("X-Request-ID"))
}
