package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/darkkaiser/notify-relay/internal/config"
	"github.com/darkkaiser/notify-relay/internal/pkg/version"
	"github.com/darkkaiser/notify-relay/internal/service"
	"github.com/darkkaiser/notify-relay/internal/service/api"
	"github.com/darkkaiser/notify-relay/internal/service/dispatch"
	"github.com/darkkaiser/notify-relay/internal/service/dispatch/fetcher"
	"github.com/darkkaiser/notify-relay/internal/service/relay"
	applog "github.com/darkkaiser/notify-relay/pkg/log"
)

// @title Notify Relay API
// @version 1.0.0
// @description 대화 스니펫을 구조화된 알림으로 변환하여 전달하는 릴레이 서버의 REST API입니다.
// @description
// @description 이 API를 사용하면 외부 애플리케이션에서 자연어 대화 내용을 그대로 전달하여
// @description 구조화된 알림(수신자, 메시지, 채널)으로 변환하고 설정된 엔드포인트로 발송할 수 있습니다.
// @description
// @description ## 주요 기능
// @description - 대화 스니펫에서 알림 필드(이벤트, 시간, 팀, 채널) 자동 추출
// @description - 템플릿 기반 메시지 렌더링 ({{name}} 플레이스홀더 지원)
// @description - 초안(Draft) 모드: 대화에 초안 요청 문구가 있으면 팀 대신 요청자 본인에게 발송
// @description - 초안 승인: 동일한 요청에 draft:false를 지정하여 재호출
// @description
// @description ## 인증 방법
// @description API 사용을 위해서는 사전에 등록된 애플리케이션 ID와 App Key가 필요합니다.
// @description 설정 파일(notify-relay.json)의 notify_api.applications에 애플리케이션을 등록한 후 사용하세요.
// @description
// @description ## 인증 플로우
// @description 1. **사전 준비**: notify-relay.json의 notify_api.applications에 애플리케이션 등록
// @description    - id, app_key 설정
// @description 2. **API 호출**: X-App-Key, X-Application-Id 헤더 전달
// @description    - POST /api/v1/relay
// @description 3. **인증 검증**: 서버에서 application_id와 app_key 확인
// @description    - 미등록 앱: 401 Unauthorized
// @description    - 잘못된 app_key: 401 Unauthorized
// @description 4. **릴레이 처리**: 인증 성공 시 알림 변환 및 발송
// @description    - 성공: 200 OK

// @contact.name DarkKaiser
// @contact.url https://github.com/DarkKaiser
// @contact.email darkkaiser@gmail.com

// @host localhost:8443
// @BasePath /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-App-Key
// @description Application Key for authentication

const (
	banner = `
  _   _         _    _   __         ____       _
 | \ | |  ___  | |_ (_) / _| _   _ |  _ \  ___| |  __ _  _   _
 |  \| |/ _ \ | __|| || |_ | | | || |_) |/ _ \ | / _' || | | |
 | |\  || (_) || |_ | ||  _|| |_| ||  _ <|  __/ || (_| || |_| |
 |_| \_| \___/  \__||_||_|   \__, ||_| \_\\___|_| \__,_| \__, |
                             |___/                       |___/  %s
                                                 developed by DarkKaiser
------------------------------------------------------------------------
`
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU()) // 모든 CPU 사용

	// 환경설정 정보를 읽어들인다.
	appConfig, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "환경설정 정보 로드 실패: %v\n", err)
		os.Exit(1)
	}

	// 로그를 초기화한다. 반환된 Closer는 종료 시점에 버퍼를 비우고 파일을 닫는다.
	logOptions := applog.NewProductionOptions(config.AppName)
	if appConfig.Debug {
		logOptions = applog.NewDevelopmentOptions(config.AppName)
	}
	logCloser, err := applog.Setup(logOptions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "로그 초기화 실패: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	// 아스키아트 출력(https://ko.rakko.tools/tools/68/, 폰트:standard)
	fmt.Printf(banner, version.Version())

	// 빌드 정보 출력
	buildInfo := version.Get()
	applog.WithFields(buildInfo.ToMap()).Infof("빌드 정보: %s", buildInfo)

	// 권장 설정 준수 여부를 진단하고 경고를 출력한다.
	for _, warning := range appConfig.VerifyRecommendations() {
		applog.WithComponent("main").Warn(warning)
	}

	// 서비스를 생성하고 초기화한다.
	httpFetcher := fetcher.New(appConfig.HTTPRetry.MaxRetries, appConfig.HTTPRetry.Delay())
	dispatcher := dispatch.NewHTTPDispatcher(appConfig.Relay.EndpointURL, httpFetcher)

	relayService := relay.NewService(appConfig, dispatcher)
	notifyAPIService := api.NewService(appConfig, relayService, buildInfo)

	// Set up cancellation context and waitgroup
	serviceStopCtx, cancel := context.WithCancel(context.Background())
	serviceStopWaiter := &sync.WaitGroup{}

	// 서비스를 시작한다.
	services := []service.Service{relayService, notifyAPIService}
	for _, s := range services {
		serviceStopWaiter.Add(1)
		if err := s.Start(serviceStopCtx, serviceStopWaiter); err != nil {
			applog.WithComponent("main").Errorf("서비스 시작 실패: %v", err)
			cancel() // 다른 서비스들도 종료
			serviceStopWaiter.Wait()
			applog.WithComponent("main").Fatal("서비스 초기화 실패로 프로그램을 종료합니다")
		}
	}

	// Handle sigterm and await termC signal
	termC := make(chan os.Signal, 1)
	signal.Notify(termC, syscall.SIGINT, syscall.SIGTERM)

	<-termC // Blocks here until interrupted

	// Handle shutdown
	applog.WithComponent("main").Info("Shutdown signal received")
	cancel()                 // Signal cancellation to context.Context
	serviceStopWaiter.Wait() // Block here until are workers are done
}
