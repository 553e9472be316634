package auth

import (
	"errors"

	domainerrors "classbook/internal/portal/domain/errors"
)

// OutcomeKind классифицирует результат запроса профиля.
type OutcomeKind int

// Виды исходов.
const (
	OutcomeOK OutcomeKind = iota
	// OutcomeAuthError - сервер ответил, но отверг токен или запрос.
	OutcomeAuthError
	// OutcomeNetworkError - ответа от сервера нет.
	OutcomeNetworkError
)

// String возвращает имя исхода.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeOK:
		return "ok"
	case OutcomeAuthError:
		return "auth_error"
	case OutcomeNetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

// Classify относит ошибку запроса профиля к виду исхода.
func Classify(err error) OutcomeKind {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domainerrors.ErrNetwork):
		return OutcomeNetworkError
	default:
		return OutcomeAuthError
	}
}

// Action - реакция контроллера на неуспешный исход.
type Action int

// Реакции.
const (
	// ActionDemote очищает хранилище токенов и переводит в Anonymous.
	ActionDemote Action = iota
	// ActionKeepTokens переводит в Anonymous, но оставляет токены для следующего запуска.
	ActionKeepTokens
)

// FailurePolicy выбирает реакцию по виду исхода.
type FailurePolicy func(kind OutcomeKind) Action

// DemoteOnAnyFailure - политика по умолчанию: любой сбой означает выход.
func DemoteOnAnyFailure(OutcomeKind) Action {
	return ActionDemote
}

// KeepTokensOnNetworkError сохраняет токены, если сервер недоступен.
func KeepTokensOnNetworkError(kind OutcomeKind) Action {
	if kind == OutcomeNetworkError {
		return ActionKeepTokens
	}
	return ActionDemote
}
