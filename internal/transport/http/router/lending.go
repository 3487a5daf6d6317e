package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"go-library-lending/internal/apperror"
	"go-library-lending/internal/domain"
	"go-library-lending/internal/service"
	httpez "go-library-lending/internal/transport/http/ez"
)

// MountLendingActions 集中注册借阅相关的全部接口。
func MountLendingActions(g *gin.RouterGroup, svc *service.LendingService) {
	ez := httpez.New(g)

	type nameIn struct {
		Name string `json:"name"`
	}
	type scoreIn struct {
		Score int `json:"score"`
	}
	type messageOut struct {
		Message string `json:"message"`
	}

	// --- GET /users 读者列表 ---
	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.User]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.User, error) {
			return svc.ListUsers(c.Request.Context())
		},
	})

	// --- POST /users 创建读者 ---
	httpez.RegisterAction(ez, httpez.Action[nameIn, *domain.User]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *nameIn) (*domain.User, error) {
			name := strings.TrimSpace(in.Name)
			if name == "" {
				return nil, apperror.Validation("name must not be empty")
			}
			return svc.CreateUser(c.Request.Context(), name)
		},
	})

	// --- GET /users/:userId 读者与借阅史 ---
	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.UserWithBooks]{
		Method: http.MethodGet,
		Path:   "/users/:userId",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.UserWithBooks, error) {
			return svc.GetUserWithLoans(c.Request.Context(), pathID(c, "userId"))
		},
	})

	// --- POST /users/:userId/borrow/:bookId 借书 ---
	httpez.RegisterAction(ez, httpez.Action[struct{}, messageOut]{
		Method: http.MethodPost,
		Path:   "/users/:userId/borrow/:bookId",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (messageOut, error) {
			msg, err := svc.BorrowBook(c.Request.Context(), pathID(c, "userId"), pathID(c, "bookId"))
			if err != nil {
				return messageOut{}, err
			}
			return messageOut{Message: msg}, nil
		},
	})

	// --- POST /users/:userId/return/:bookId 还书 + 评分 ---
	httpez.RegisterAction(ez, httpez.Action[scoreIn, messageOut]{
		Method: http.MethodPost,
		Path:   "/users/:userId/return/:bookId",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *scoreIn) (messageOut, error) {
			msg, err := svc.ReturnBook(c.Request.Context(), pathID(c, "userId"), pathID(c, "bookId"), in.Score)
			if err != nil {
				return messageOut{}, err
			}
			return messageOut{Message: msg}, nil
		},
	})

	// --- GET /books 书目列表 ---
	httpez.RegisterAction(ez, httpez.Action[struct{}, []domain.Book]{
		Method: http.MethodGet,
		Path:   "/books",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Book, error) {
			return svc.ListBooks(c.Request.Context())
		},
	})

	// --- POST /books 创建书目 ---
	httpez.RegisterAction(ez, httpez.Action[nameIn, *domain.Book]{
		Method: http.MethodPost,
		Path:   "/books",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *nameIn) (*domain.Book, error) {
			name := strings.TrimSpace(in.Name)
			if name == "" {
				return nil, apperror.Validation("name must not be empty")
			}
			return svc.CreateBook(c.Request.Context(), name)
		},
	})

	// --- GET /books/:bookId 书与平均评分 ---
	httpez.RegisterAction(ez, httpez.Action[struct{}, *domain.BookWithScore]{
		Method: http.MethodGet,
		Path:   "/books/:bookId",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.BookWithScore, error) {
			return svc.GetBookWithAverageScore(c.Request.Context(), pathID(c, "bookId"))
		},
	})
}

// pathID 路径参数转 uint；非数字或超出 uint 宽度的值一律按 0 处理，
// 由业务层按记录不存在返回 404。按平台位宽解析，避免窄 uint 下截断回绕。
func pathID(c *gin.Context, name string) uint {
	n, err := strconv.ParseUint(c.Param(name), 10, strconv.IntSize)
	if err != nil {
		return 0
	}
	return uint(n)
}
