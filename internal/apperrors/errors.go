package apperrors

import (
	"github.com/palemoky/lobby-master/internal/protocol"
)

// LobbyError 大厅错误（校验失败统一走这里，不记录日志、不重试）
type LobbyError struct {
	Code    int
	Message string
}

func (e *LobbyError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrLobbyNotFound   = &LobbyError{Code: protocol.ErrCodeLobbyNotFound, Message: protocol.ErrorMessages[protocol.ErrCodeLobbyNotFound]}
	ErrLobbyFull       = &LobbyError{Code: protocol.ErrCodeLobbyFull, Message: protocol.ErrorMessages[protocol.ErrCodeLobbyFull]}
	ErrNotInLobby      = &LobbyError{Code: protocol.ErrCodeNotInLobby, Message: protocol.ErrorMessages[protocol.ErrCodeNotInLobby]}
	ErrAlreadyInLobby  = &LobbyError{Code: protocol.ErrCodeAlreadyInLobby, Message: protocol.ErrorMessages[protocol.ErrCodeAlreadyInLobby]}
	ErrLobbyDestroyed  = &LobbyError{Code: protocol.ErrCodeLobbyDestroyed, Message: protocol.ErrorMessages[protocol.ErrCodeLobbyDestroyed]}
	ErrNotAllowed      = &LobbyError{Code: protocol.ErrCodeNotAllowed, Message: protocol.ErrorMessages[protocol.ErrCodeNotAllowed]}
	ErrGameLive        = &LobbyError{Code: protocol.ErrCodeGameLive, Message: protocol.ErrorMessages[protocol.ErrCodeGameLive]}
	ErrInvalidTeam     = &LobbyError{Code: protocol.ErrCodeInvalidTeam, Message: protocol.ErrorMessages[protocol.ErrCodeInvalidTeam]}
	ErrTeamFull        = &LobbyError{Code: protocol.ErrCodeTeamFull, Message: protocol.ErrorMessages[protocol.ErrCodeTeamFull]}
	ErrInvalidUsername = &LobbyError{Code: protocol.ErrCodeInvalidUsername, Message: protocol.ErrorMessages[protocol.ErrCodeInvalidUsername]}
	ErrGameNotRunning  = &LobbyError{Code: protocol.ErrCodeGameNotRunning, Message: protocol.ErrorMessages[protocol.ErrCodeGameNotRunning]}
	ErrServersBusy     = &LobbyError{Code: protocol.ErrCodeServersBusy, Message: protocol.ErrorMessages[protocol.ErrCodeServersBusy]}
)
