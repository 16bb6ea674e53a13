package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/bjo163/shopadmin/internal/domain"
	"github.com/bjo163/shopadmin/internal/webserver"
	"github.com/bjo163/shopadmin/pkg/common"
)

type loginPayload struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,min=1,max=128"`
}

func registerAuthRoutes() {
	webserver.ApiPOST("/auth/login", login)
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse credentials", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var opr domain.SysOpr
	err := GetDB(c).Where("username = ?", strings.TrimSpace(payload.Username)).First(&opr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator", err.Error())
	}

	if !strings.EqualFold(opr.Status, common.ENABLED) {
		return fail(c, http.StatusForbidden, "OPERATOR_DISABLED", "Operator account is disabled", nil)
	}

	if bcrypt.CompareHashAndPassword([]byte(opr.Password), []byte(payload.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}

	cfg := GetAppContext(c).Config()
	expHours := cfg.Web.JwtExpt
	if expHours <= 0 {
		expHours = 24
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   opr.Username,
		"level": opr.Level,
		"exp":   time.Now().Add(time.Duration(expHours) * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(cfg.Web.Secret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to sign token", err.Error())
	}

	GetDB(c).Model(&domain.SysOpr{}).Where("id = ?", opr.ID).
		Update("last_login", time.Now())

	return ok(c, map[string]interface{}{
		"token":    signed,
		"username": opr.Username,
		"level":    opr.Level,
	})
}
