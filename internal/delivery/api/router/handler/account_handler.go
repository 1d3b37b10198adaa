// Package handler contains the HTTP handlers for the application.
package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"careauth/internal/delivery/api/response"
	"careauth/internal/domain/entity"
	domainerrors "careauth/internal/domain/errors"
	"careauth/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AccountHandlerParams holds dependencies for AccountHandler, injected by Fx.
type AccountHandlerParams struct {
	fx.In

	AccountUC usecase.AccountUsecase
	Logger    *slog.Logger
}

// AccountHandler serves registration and login for every account kind.
type AccountHandler struct {
	accountUC usecase.AccountUsecase
	logger    *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler
func NewAccountHandler(params AccountHandlerParams) *AccountHandler {
	return &AccountHandler{
		accountUC: params.AccountUC,
		logger:    params.Logger,
	}
}

// RegisterRequest is the registration body. Age accepts a JSON number or a
// numeric string; anything else fails validation.
type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Specialization string `json:"specialization"`
	Age            any    `json:"age"`
}

// LoginRequest is the login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /auth/:kind/register.
func (h *AccountHandler) Register(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}

	return h.register(c, kind)
}

// Login handles POST /auth/:kind/login.
func (h *AccountHandler) Login(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}

	return h.login(c, kind)
}

// RegisterAs serves registration for a fixed kind, for routes without a :kind segment.
func (h *AccountHandler) RegisterAs(kind entity.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.register(c, kind)
	}
}

// LoginAs serves login for a fixed kind, for routes without a :kind segment.
func (h *AccountHandler) LoginAs(kind entity.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		return h.login(c, kind)
	}
}

func (h *AccountHandler) register(c echo.Context, kind entity.Kind) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}

	output, err := h.accountUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Kind:           kind,
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Specialization: req.Specialization,
		Age:            ageText(req.Age),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, output.Account)
}

func (h *AccountHandler) login(c echo.Context, kind entity.Kind) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}

	output, err := h.accountUC.Login(c.Request().Context(), &usecase.LoginInput{
		Kind:     kind,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output.Identity)
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"})
}

func kindParam(c echo.Context) (entity.Kind, error) {
	kind, err := entity.ParseKind(c.Param("kind"))
	if err != nil {
		return "", domainerrors.ErrUnknownKind.WrapMessage(err.Error())
	}

	return kind, nil
}

// ageText turns the decoded JSON age into the text the validator parses.
func ageText(v any) string {
	switch age := v.(type) {
	case nil:
		return ""
	case string:
		return age
	case float64:
		return strconv.FormatFloat(age, 'f', -1, 64)
	default:
		return fmt.Sprint(age)
	}
}
