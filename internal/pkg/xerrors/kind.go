package xerrors

// Kind 面向调用方的错误分类，表现层只依赖这一层分类
type Kind int

const (
	KindNone Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindForbidden
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// KindOfCode 根据错误码归类
func KindOfCode(code ErrorCode) Kind {
	switch code {
	case CodeSuccess:
		return KindNone
	case CodeResourceNotFound, CodeBattleNotFound, CodeTrainerNotFound, CodeMonsterNotFound:
		return KindNotFound
	case CodeDuplicateResource, CodeBattleAlreadyActive, CodeBattleNotActive, CodeResourceLocked:
		return KindConflict
	case CodePermissionDenied, CodeAdminRequired, CodeNotOwner, CodeNotParticipant,
		CodeAuthenticationFailed, CodeInvalidToken, CodeSessionExpired:
		return KindForbidden
	case CodeInvalidParams, CodeInvalidRequest, CodeOperationNotAllowed, CodeBusinessLogicError:
		return KindValidation
	}
	if code >= 830000 && code < 860000 {
		return KindValidation
	}
	return KindInternal
}

// KindOf 对任意错误归类，非 AppError 一律视为内部错误
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	if appErr, ok := As(err); ok {
		return appErr.Kind()
	}
	return KindInternal
}
