package authhandler

import (
	"time"

	"cpsms-backend/db"
	employeestore "cpsms-backend/lib/employee/store"
	authutils "cpsms-backend/lib/utils/auth-utils"
	visitorstore "cpsms-backend/lib/visitor/store"
	"cpsms-backend/models"
	authapimodels "cpsms-backend/models/api/auth"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var ErrBadCredentials = errors.New("Invalid credentials.")

type Provider interface {
	EmployeeLogin(data authapimodels.EmployeeLoginData) (authapimodels.TokenView, error)
	VisitorLogin(data authapimodels.VisitorLoginData) (authapimodels.TokenView, error)
	Refresh(data authapimodels.RefreshData) (authapimodels.TokenView, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		employeeStore: employeestore.NewInstance(db.DB),
		visitorStore:  visitorstore.NewInstance(db.DB),
	}
}

type impl struct {
	employeeStore employeestore.Provider
	visitorStore  visitorstore.Provider
}

func (i impl) EmployeeLogin(data authapimodels.EmployeeLoginData) (authapimodels.TokenView, error) {
	logger := log.WithField("employee_id", data.EmployeeID)
	if err := data.Validate(); err != nil {
		return authapimodels.TokenView{}, err
	}
	rec, err := i.employeeStore.GetByIDAndDob(data.EmployeeID, data.Dob)
	if err != nil {
		logger.WithError(err).Error("ошибка входа сотрудника")
		return authapimodels.TokenView{}, errors.Wrap(err, "ошибка входа сотрудника")
	}
	if rec == nil {
		return authapimodels.TokenView{}, ErrBadCredentials
	}
	return i.issueTokens(rec.ID, rec.GetFullName(), models.EmployeeRole, rec.Department)
}

// VisitorLogin - вход по номеру выданного пропуска, истёкший пропуск не пускаем
func (i impl) VisitorLogin(data authapimodels.VisitorLoginData) (authapimodels.TokenView, error) {
	logger := log.WithField("visitor_id", data.VisitorID)
	if err := data.Validate(); err != nil {
		return authapimodels.TokenView{}, err
	}
	rec, err := i.visitorStore.GetByIDAndDob(data.VisitorID, data.Dob)
	if err != nil {
		logger.WithError(err).Error("ошибка входа посетителя")
		return authapimodels.TokenView{}, errors.Wrap(err, "ошибка входа посетителя")
	}
	if rec == nil || !rec.IsActive(time.Now()) {
		return authapimodels.TokenView{}, ErrBadCredentials
	}
	return i.issueTokens(rec.ID, rec.Name, models.VisitorRole, "")
}

func (i impl) Refresh(data authapimodels.RefreshData) (authapimodels.TokenView, error) {
	claims, err := authutils.ParseToken(data.RefreshToken)
	if err != nil {
		return authapimodels.TokenView{}, ErrBadCredentials
	}
	userID, _ := claims["sub"].(string)
	if userID == "" {
		return authapimodels.TokenView{}, ErrBadCredentials
	}
	rec, err := i.employeeStore.GetByID(userID)
	if err != nil {
		return authapimodels.TokenView{}, errors.Wrap(err, "ошибка обновления токена")
	}
	if rec != nil {
		return i.issueTokens(rec.ID, rec.GetFullName(), models.EmployeeRole, rec.Department)
	}
	visitor, err := i.visitorStore.GetByID(userID)
	if err != nil {
		return authapimodels.TokenView{}, errors.Wrap(err, "ошибка обновления токена")
	}
	if visitor == nil || !visitor.IsActive(time.Now()) {
		return authapimodels.TokenView{}, ErrBadCredentials
	}
	return i.issueTokens(visitor.ID, visitor.Name, models.VisitorRole, "")
}

func (i impl) issueTokens(userID, name string, role models.UserRole, department models.Department) (authapimodels.TokenView, error) {
	accessToken, err := authutils.GetToken(userID, name, role, department)
	if err != nil {
		return authapimodels.TokenView{}, errors.Wrap(err, "ошибка выпуска токена")
	}
	refreshToken, err := authutils.GetRefreshToken(userID, name)
	if err != nil {
		return authapimodels.TokenView{}, errors.Wrap(err, "ошибка выпуска токена")
	}
	return authapimodels.TokenView{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Name:         name,
		Role:         string(role),
		Department:   string(department),
	}, nil
}
