package errs

// 错误码分段（handler 按分段映射 HTTP 状态）：
//
//	1xxx 参数/校验错误（调用方可修正后重试）
//	2xxx 记录不存在
//	3xxx 业务冲突
//	4xxx 鉴权/权限
//	5xxx 服务内部（含加解密，对外不暴露细节）
const (
	ArgsError = 1001

	RecordNotFoundError       = 2001
	UserNotFoundError         = 2002
	RequestNotFoundError      = 2003
	ConversationNotFoundError = 2004
	GroupNotFoundError        = 2005

	ConflictError         = 3001
	AlreadyFriendsError   = 3002
	DuplicateRequestError = 3003
	AlreadyProcessedError = 3004
	NoChangeError         = 3005

	NoPermissionError   = 4001
	TokenInvalidError   = 4002
	TokenExpiredError   = 4003
	NotMemberError      = 4004
	ServerInternalError = 5000
	CryptoFailedError   = 5001
)

// 通用预定义错误；业务专用错误放在各自 service 包里定义
var (
	ErrArgs                 = NewCodeError(ArgsError, "args invalid")
	ErrRecordNotFound       = NewCodeError(RecordNotFoundError, "record not found")
	ErrUserNotFound         = NewCodeError(UserNotFoundError, "user not found")
	ErrRequestNotFound      = NewCodeError(RequestNotFoundError, "friend request not found")
	ErrConversationNotFound = NewCodeError(ConversationNotFoundError, "conversation not found")
	ErrGroupNotFound        = NewCodeError(GroupNotFoundError, "group not found")
	ErrAlreadyFriends       = NewCodeError(AlreadyFriendsError, "users are already friends")
	ErrDuplicateRequest     = NewCodeError(DuplicateRequestError, "friend request already sent")
	ErrAlreadyProcessed     = NewCodeError(AlreadyProcessedError, "request already processed")
	ErrNoChange             = NewCodeError(NoChangeError, "no new members were added")
	ErrNoPermission         = NewCodeError(NoPermissionError, "no permission")
	ErrTokenInvalid         = NewCodeError(TokenInvalidError, "token invalid")
	ErrTokenExpired         = NewCodeError(TokenExpiredError, "token expired")
	ErrNotMember            = NewCodeError(NotMemberError, "not a member")
	ErrInternal             = NewCodeError(ServerInternalError, "server internal error")
	ErrCrypto               = NewCodeError(CryptoFailedError, "crypto failed")
)

// HTTPStatus 按错误码分段返回建议的 HTTP 状态码
func HTTPStatus(code int) int {
	switch {
	case code >= 1000 && code < 2000:
		return 400
	case code >= 2000 && code < 3000:
		return 404
	case code >= 3000 && code < 4000:
		return 409
	case code >= 4000 && code < 5000:
		return 403
	default:
		return 500
	}
}
