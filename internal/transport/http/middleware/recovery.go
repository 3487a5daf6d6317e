package middleware

import (
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recovery panic 落 zap 并回 500，带调用栈
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.RecoveryWithZap(l, true)
}
