// Package service 애플리케이션을 구성하는 개별 서비스들의 공통 규약을 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service 생명주기 관리가 필요한 서비스가 구현해야 하는 인터페이스입니다.
//
// Start는 서비스를 시작한 후 즉시 반환하며, 실제 작업은 별도의 고루틴에서 수행됩니다.
// 서비스는 serviceStopCtx가 취소되면 스스로 종료하고, 종료가 완료된 시점에
// serviceStopWG.Done()을 호출해야 합니다. Start가 에러를 반환하는 경우에도
// Done() 호출은 서비스의 책임입니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}
