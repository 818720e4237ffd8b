package application

import (
	"errors"
	"fmt"

	"github.com/ericfisherdev/gencheck/internal/domain/model"
	"github.com/ericfisherdev/gencheck/internal/domain/port/driven"
)

// User-facing messages.
const (
	msgSaveSucceeded     = "성공적으로 저장되었습니다."
	msgSaveFailed        = "저장 중 오류가 발생했습니다."
	msgServerUnreachable = "서버 연결 실패"
	msgKeyRequired       = "키를 입력해주세요."
	msgTestTransport     = "연결 테스트 중 오류 발생"
	msgTestUnknownError  = "알 수 없는 오류"

	msgJoinDateRequired  = "가입일을 입력해주세요."
	msgAnalysisFailed    = "분석 중 오류가 발생했습니다."
	msgAnalysisTransport = "서버와 통신 중 오류가 발생했습니다."
)

func msgTesting(p model.Provider) string {
	return fmt.Sprintf("%s 연결 테스트 중...", p)
}

func msgTestSucceeded(p model.Provider) string {
	return fmt.Sprintf("%s 연결 성공! ✨", p)
}

func msgTestRejected(p model.Provider, reason string) string {
	return fmt.Sprintf("%s 연결 실패: %s", p, reason)
}

// rejectionMessage returns the server-provided message of a rejection and
// whether err was a rejection at all. Any other error is transport-class.
func rejectionMessage(err error) (string, bool) {
	var rej *driven.RejectionError
	if !errors.As(err, &rej) {
		return "", false
	}
	return rej.Message, true
}

// describeFailure maps err to the text shown to the user: the server message
// for rejections, fallback for rejections without one, transport otherwise.
func describeFailure(err error, fallback, transport string) string {
	msg, rejected := rejectionMessage(err)
	switch {
	case !rejected:
		return transport
	case msg == "":
		return fallback
	default:
		return msg
	}
}
