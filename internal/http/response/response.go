// Package response определяет единый формат JSON-ответов обработчиков.
// Все ручки отдают конверт {status, error, data}, чтобы клиентский код
// разбирал успех и ошибку одинаково.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Response — конверт ответа. Error заполняется при неуспехе,
// Data при успехе, одновременно оба поля не используются.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse — тип ошибки для Swagger-аннотаций @Failure.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// OK возвращает успешный Response без данных.
func OK() Response {
	return Response{Status: StatusOK}
}

// StatusOKWithData возвращает успешный Response с переданными данными.
func StatusOKWithData(data any) Response {
	return Response{Status: StatusOK, Data: data}
}

// Error возвращает ответ с текстом ошибки.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Status: StatusError, Error: msg}
}

// ValidationError собирает нарушения валидатора в один читаемый текст.
func ValidationError(errs validator.ValidationErrors) Response {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, fieldMessage(err))
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(msgs, ", "),
	}
}

func fieldMessage(err validator.FieldError) string {
	switch err.ActualTag() {
	case "required":
		return fmt.Sprintf("field %s is a required field", err.Field())
	case "email":
		return fmt.Sprintf("field %s must be a valid email address", err.Field())
	case "url":
		return fmt.Sprintf("field %s must be a valid url", err.Field())
	case "min":
		return fmt.Sprintf("field %s is too short", err.Field())
	case "max":
		return fmt.Sprintf("field %s is too long", err.Field())
	case "oneof":
		return fmt.Sprintf("field %s has an unsupported value", err.Field())
	default:
		return fmt.Sprintf("field %s is not a valid", err.Field())
	}
}
