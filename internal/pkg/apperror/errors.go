package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду и сообщению, чтобы errors.Is работал
// с обёрнутыми копиями сентинелов.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Database оборачивает ошибку хранилища. Доменные ошибки пропускаются как есть.
func Database(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return Wrap(err, ErrCodeDatabaseError, message)
}

func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	return CodeOf(err) == ErrCodeForbidden
}

func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

func IsConflict(err error) bool {
	return CodeOf(err) == ErrCodeConflict
}

var (
	ErrProjectNotFound      = New(ErrCodeNotFound, "проект не найден")
	ErrBidNotFound          = New(ErrCodeNotFound, "ставка не найдена")
	ErrOrderNotFound        = New(ErrCodeNotFound, "заказ не найден")
	ErrMilestoneNotFound    = New(ErrCodeNotFound, "этап не найден")
	ErrDisputeNotFound      = New(ErrCodeNotFound, "спор не найден")
	ErrGigNotFound          = New(ErrCodeNotFound, "услуга не найдена")
	ErrPackageNotFound      = New(ErrCodeNotFound, "пакет услуги не найден")
	ErrUserNotFound         = New(ErrCodeNotFound, "пользователь не найден")
	ErrNotificationNotFound = New(ErrCodeNotFound, "уведомление не найдено")

	ErrUnauthorized   = New(ErrCodeUnauthorized, "требуется авторизация")
	ErrForbidden      = New(ErrCodeForbidden, "недостаточно прав")
	ErrNotParticipant = New(ErrCodeForbidden, "вы не являетесь участником заказа")
	ErrAdminOnly      = New(ErrCodeForbidden, "действие доступно только администратору")
	ErrSelfBid        = New(ErrCodeForbidden, "нельзя делать ставку на собственный проект")
	ErrSelfPurchase   = New(ErrCodeForbidden, "нельзя купить собственную услугу")

	ErrProjectNotOpen         = New(ErrCodeConflict, "проект не принимает ставки")
	ErrDuplicateBid           = New(ErrCodeConflict, "вы уже сделали ставку на этот проект")
	ErrBidNotPending          = New(ErrCodeConflict, "ставка уже рассмотрена")
	ErrMilestonesExist        = New(ErrCodeConflict, "этапы для заказа уже созданы")
	ErrOrderHasMilestones     = New(ErrCodeConflict, "заказ сдаётся по этапам")
	ErrInvalidOrderState      = New(ErrCodeConflict, "действие недоступно в текущем статусе заказа")
	ErrMilestoneNotDelivered  = New(ErrCodeConflict, "этап ещё не сдан")
	ErrMilestoneNotActive     = New(ErrCodeConflict, "этап не находится в работе")
	ErrAlreadyDisputed        = New(ErrCodeConflict, "по заказу уже открыт спор")
	ErrDisputeAlreadyResolved = New(ErrCodeConflict, "спор уже закрыт")
	ErrOrderAlreadyCreated    = New(ErrCodeConflict, "заказ по этой ставке уже создан")
)
