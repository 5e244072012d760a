/*
Package response 接口层统一响应

HTTP 状态码映射只在接口层进行，领域层只返回带哨兵的 DomainError。
内部错误统一返回 "internal server error"，真实错误与堆栈只写日志。

	成功: { success: true, data: {...}, message: "...", code: 200, request_id: "..." }
	失败: { success: false, error: "ERROR_CODE", message: "用户可见消息", field: "...", code: 4xx/5xx, request_id: "..." }
*/
package response

import (
	stdErrors "errors"
	"net/http"
	"runtime"

	"ddd-kernel/domain/shared"
	"ddd-kernel/pkg/errors"
	"ddd-kernel/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestIDKey gin context 中保存请求 ID 的键
const RequestIDKey = "request_id"

type Response struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Field     string `json:"field,omitempty"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// HandleError 参数绑定等框架层错误
func HandleError(c *gin.Context, err error, message string, code int) {
	requestID := GetRequestID(c)

	logger.Warn(message,
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Int("status", code),
		zap.Error(err))

	c.JSON(code, &Response{
		Success:   false,
		Error:     string(errors.CodeBadRequest),
		Message:   message,
		Code:      code,
		RequestID: requestID,
	})
}

// HandleAppError 按错误码映射状态码
func HandleAppError(c *gin.Context, err error) {
	requestID := GetRequestID(c)
	appErr := errors.FromDomainError(err)
	httpStatus := appErr.HTTPStatusCode()

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("error_code", string(appErr.Code)),
		zap.Int("http_status", httpStatus),
	}
	if appErr.Err != nil {
		fields = append(fields, zap.Error(appErr.Err))
	}

	userMessage := appErr.Message
	if httpStatus >= http.StatusInternalServerError {
		fields = append(fields, zap.Strings("stack", extractStack(err)))
		logger.Error(appErr.Message, fields...)
		if appErr.Code == errors.CodeInternal {
			userMessage = "internal server error"
		}
	} else {
		logger.Info(appErr.Message, fields...)
	}

	c.JSON(httpStatus, &Response{
		Success:   false,
		Error:     string(appErr.Code),
		Field:     appErr.Field,
		Message:   userMessage,
		Code:      httpStatus,
		RequestID: requestID,
	})
}

func HandleSuccess(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusOK,
		RequestID: GetRequestID(c),
	})
}

func HandleCreated(c *gin.Context, data any, message string) {
	c.JSON(http.StatusCreated, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusCreated,
		RequestID: GetRequestID(c),
	})
}

func HandleNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// extractStack 优先取错误发生点的堆栈，否则取处理点
func extractStack(err error) []string {
	var stacker shared.Stacker
	if stdErrors.As(err, &stacker) {
		if stack := stacker.Stack(); len(stack) > 0 {
			return stack
		}
	}
	return captureStack(4)
}

func captureStack(skip int) []string {
	var pcs [16]uintptr
	n := runtime.Callers(skip, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		frame, more := frames.Next()
		if frame.Function != "" {
			stack = append(stack, frame.Function)
		}
		if !more {
			break
		}
	}
	return stack
}
