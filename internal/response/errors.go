package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrSessionActive      ErrCode = "SESSION_ALREADY_ACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"
	ErrPremiumRequired ErrCode = "PREMIUM_REQUIRED"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound   ErrCode = "NOT_FOUND"
	ErrConflict   ErrCode = "CONFLICT"
	ErrUserExists ErrCode = "USER_EXISTS"

	// ─── Practice sessions ─────────────────────────────────────────────
	ErrEmptyConfiguration ErrCode = "EMPTY_CONFIGURATION"
	ErrNoActiveSession    ErrCode = "NO_ACTIVE_SESSION"
	ErrSessionReadOnly    ErrCode = "SESSION_READ_ONLY"
	ErrInvalidIndex       ErrCode = "INVALID_INDEX"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Usuário ou senha incorretos."
	case ErrSessionActive:
		return "Você já está conectado em outro dispositivo."
	case ErrSessionInvalidated:
		return "Sua sessão expirou. Faça login novamente."
	case ErrTokenRequired:
		return "Token de autenticação obrigatório."
	case ErrTokenInvalid:
		return "Token de autenticação inválido."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Você não tem permissão para acessar este recurso."
	case ErrAdminAccessOnly:
		return "Este recurso é restrito a administradores."
	case ErrPremiumRequired:
		return "Simulados deste tamanho exigem uma conta premium."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Falha de validação. Verifique os dados enviados."
	case ErrInvalidID:
		return "Formato de ID inválido."
	case ErrInvalidPayload:
		return "Corpo da requisição inválido."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Recurso não encontrado."
	case ErrConflict:
		return "O recurso já existe."
	case ErrUserExists:
		return "Este nome de usuário já está em uso."

	// ─── Practice sessions ─────────────────────────────────────────────
	case ErrEmptyConfiguration:
		return "Nenhuma questão encontrada para a configuração escolhida."
	case ErrNoActiveSession:
		return "Você não tem um simulado em andamento."
	case ErrSessionReadOnly:
		return "O simulado já foi finalizado; respostas não podem mais ser alteradas."
	case ErrInvalidIndex:
		return "Número de questão fora do intervalo do simulado."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Muitas requisições. Tente novamente em instantes."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Ocorreu um erro interno no servidor."
	default:
		return "Ocorreu um erro inesperado."
	}
}
