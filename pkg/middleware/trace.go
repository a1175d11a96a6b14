package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const HeaderXRequestID = "X-Request-ID"

// TraceMiddleware 追踪中间件，生成或获取 trace_id 并存入 Gin 上下文
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. 尝试从请求头拿（可能是反向代理传过来的）
		traceId := c.GetHeader(HeaderXRequestID)

		// 2. 如果没有，自己生成一个
		if traceId == "" {
			traceId = uuid.New().String()
		}

		// 3. 放入 Gin 的上下文，供后续日志使用
		c.Set("trace_id", traceId)

		// 4. 放入响应头，方便客户端拿着 ID 排查问题
		c.Header(HeaderXRequestID, traceId)

		c.Next()
	}
}
