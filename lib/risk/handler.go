package riskhandler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cpsms-backend/config"
	yagptclient "cpsms-backend/lib/risk/yagpt-client"
	"cpsms-backend/lib/utils/lock"
	"cpsms-backend/models"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Assessment - результат оценки риска работ внешним сервисом
type Assessment struct {
	RiskLevel     models.RiskLevel
	Justification string
}

// AssessmentError - отказ внешнего сервиса оценки, наряд не создаётся
type AssessmentError struct {
	Err error
}

func (e *AssessmentError) Error() string {
	return "Risk assessment failed: " + e.Err.Error()
}

func (e *AssessmentError) Unwrap() error {
	return e.Err
}

type Provider interface {
	Assess(ctx context.Context, description, ppeChecklist string) (Assessment, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		client:  yagptclient.NewClient(config.Conf.YandexGPT.IAMToken, config.Conf.YandexGPT.CatalogID),
		timeout: time.Second * time.Duration(config.Conf.YandexGPT.TimeoutInSec),
	}
}

type impl struct {
	client  yagptclient.Provider
	timeout time.Duration
}

const assessPromt = "You are an industrial plant safety officer. " +
	"Given a work description and a PPE checklist, assess the risk of the work. " +
	"Reply with the risk level (low, medium or high) on the first line " +
	"and a short justification on the following lines."

func (i impl) Assess(ctx context.Context, description, ppeChecklist string) (Assessment, error) {
	if !lock.Resource.Acquire(ctx, "RiskAssess") {
		return Assessment{}, &AssessmentError{Err: errors.New("оценка риска прервана")}
	}
	defer lock.Resource.Release("RiskAssess")

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	text := fmt.Sprintf("Work description: %s\nPPE checklist: %s", description, ppeChecklist)
	answer, err := i.client.GenerateByPromtAndText(ctx, assessPromt, text)
	if err != nil {
		log.WithError(err).Error("ошибка запроса оценки риска")
		return Assessment{}, &AssessmentError{Err: err}
	}
	assessment, err := parseAnswer(answer)
	if err != nil {
		log.WithError(err).
			WithField("answer", answer).
			Error("не удалось разобрать ответ сервиса оценки риска")
		return Assessment{}, &AssessmentError{Err: err}
	}
	return assessment, nil
}

func parseAnswer(answer string) (Assessment, error) {
	lines := strings.SplitN(strings.TrimSpace(answer), "\n", 2)
	level := models.RiskLevel(strings.ToLower(strings.Trim(lines[0], " .:")))
	if !level.IsValid() {
		return Assessment{}, errors.Errorf("неизвестный уровень риска: %v", lines[0])
	}
	justification := ""
	if len(lines) > 1 {
		justification = strings.TrimSpace(lines[1])
	}
	if justification == "" {
		justification = "Assessment based on description and PPE requirements."
	}
	return Assessment{
		RiskLevel:     level,
		Justification: justification,
	}, nil
}
