package api

import (
	apperrors "github.com/darkkaiser/notify-relay/internal/pkg/errors"
)

var (
	// ErrRelayerNotInitialized 서비스 시작 시 핵심 의존성 객체인 Relayer가 올바르게 초기화되지 않았을 때 반환하는 에러입니다.
	ErrRelayerNotInitialized = apperrors.New(apperrors.Internal, "Relayer 객체가 초기화되지 않았습니다")
)
