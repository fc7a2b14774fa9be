// Package auth 애플리케이션 단위의 API 인증을 담당합니다.
package auth

import (
	"crypto/subtle"
	"sync"

	"github.com/darkkaiser/notify-relay/internal/config"
	"github.com/darkkaiser/notify-relay/internal/service/api/constants"
	"github.com/darkkaiser/notify-relay/internal/service/api/model/domain"
	applog "github.com/darkkaiser/notify-relay/pkg/log"
)

// registeredApplication 인증 대상 애플리케이션과 해당 App Key를 함께 보관하는 내부 레코드입니다.
// App Key는 도메인 엔티티(domain.Application)에 노출되지 않습니다.
type registeredApplication struct {
	app    *domain.Application
	appKey string
}

// Authenticator 애플리케이션 인증을 담당하는 인증자입니다.
//
// 설정 파일에서 등록된 애플리케이션 정보를 메모리에 로드하고,
// Application ID와 App Key를 통한 인증을 처리합니다.
//
// 동시성 안전성:
//   - sync.RWMutex를 사용하여 여러 고루틴에서 동시에 Authenticate를 호출해도 안전합니다.
//   - 현재는 초기화 후 읽기 전용이지만, 향후 동적 추가/삭제 기능 확장 가능합니다.
type Authenticator struct {
	mu           sync.RWMutex
	applications map[string]*registeredApplication
}

// NewAuthenticator 설정에서 애플리케이션을 로드하여 Authenticator를 생성합니다.
func NewAuthenticator(appConfig *config.AppConfig) *Authenticator {
	applications := make(map[string]*registeredApplication)
	for _, application := range appConfig.NotifyAPI.Applications {
		applications[application.ID] = &registeredApplication{
			app: &domain.Application{
				ID:          application.ID,
				Title:       application.Title,
				Description: application.Description,
			},
			appKey: application.AppKey,
		}
	}

	return &Authenticator{
		applications: applications,
	}
}

// Authenticate 애플리케이션을 찾고 인증을 수행합니다.
// 성공 시 Application 객체를 반환하고, 실패 시 적절한 HTTP 에러를 반환합니다.
//
// 이 메서드는 동시성 안전하며, 여러 고루틴에서 동시에 호출 가능합니다.
func (a *Authenticator) Authenticate(applicationID, appKey string) (*domain.Application, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	registered, ok := a.applications[applicationID]
	if !ok {
		return nil, NewErrInvalidApplicationID(applicationID)
	}

	// 타이밍 공격을 피하기 위해 상수 시간 비교를 사용합니다.
	if subtle.ConstantTimeCompare([]byte(registered.appKey), []byte(appKey)) != 1 {
		applog.WithComponentAndFields(constants.ComponentMiddlewareAuthentication, applog.Fields{
			"application_id":   applicationID,
			"received_app_key": applog.MaskSensitiveData(appKey),
		}).Warn("APP_KEY 불일치")

		return nil, NewErrInvalidAppKey(applicationID)
	}

	return registered.app, nil
}
