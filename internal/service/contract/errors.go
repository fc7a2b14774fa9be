package contract

import (
	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
)

var (
	// ErrRecipientRequired 알림의 수신자가 비어있거나 공백 문자로만 구성되어 있을 때 반환하는 에러입니다.
	ErrRecipientRequired = apperrors.New(apperrors.InvalidInput, "알림 수신자는 비워둘 수 없습니다")

	// ErrMessageRequired 알림의 본문 내용이 비어있거나 공백 문자로만 구성되어 있을 때 반환하는 에러입니다.
	ErrMessageRequired = apperrors.New(apperrors.InvalidInput, "알림 메시지 본문은 비워둘 수 없습니다")

	// ErrServiceStopped 서비스가 이미 중지되어 요청을 처리할 수 없을 때 반환하는 에러입니다.
	ErrServiceStopped = apperrors.New(apperrors.Unavailable, "서비스가 중지되어 요청을 처리할 수 없습니다")
)
