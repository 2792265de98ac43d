package serverutils

import "github.com/gofiber/fiber/v2"

// Response is the envelope every JSON endpoint answers with.
type Response[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Code:    fiber.StatusOK,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse[T any](code int, message string, data T) Response[T] {
	return Response[T]{
		Success: false,
		Code:    code,
		Message: message,
		Data:    data,
	}
}
