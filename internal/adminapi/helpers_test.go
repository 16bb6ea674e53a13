package adminapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/asaskevich/EventBus"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bjo163/shopadmin/config"
	"github.com/bjo163/shopadmin/internal/app"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	assert.NoError(t, err)
	return gdb, mock
}

type fakeAppContext struct {
	db  *gorm.DB
	cfg *config.AppConfig
	bus EventBus.Bus
}

var _ app.AppContext = (*fakeAppContext)(nil)

func newFakeAppContext(db *gorm.DB) *fakeAppContext {
	return &fakeAppContext{db: db, cfg: config.DefaultAppConfig, bus: EventBus.New()}
}

func (f *fakeAppContext) DB() *gorm.DB {
	return f.db
}

func (f *fakeAppContext) Config() *config.AppConfig {
	return f.cfg
}

func (f *fakeAppContext) Scheduler() *cron.Cron {
	return nil
}

func (f *fakeAppContext) Bus() EventBus.Bus {
	return f.bus
}

func (f *fakeAppContext) MigrateDB(track bool) error {
	return nil
}

func (f *fakeAppContext) InitDb() {}

func (f *fakeAppContext) DropAll() {}

func (f *fakeAppContext) GetSettingsStringValue(category, key string) string {
	return ""
}

func (f *fakeAppContext) GetSettingsInt64Value(category, key string) int64 {
	return 0
}

func (f *fakeAppContext) GetSettingsBoolValue(category, key string) bool {
	return false
}

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}
	return e
}

func TestOperatorNameFromBearerToken(t *testing.T) {
	secret := []byte("test-secret")
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "admin",
		"level": "super",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(secret)
	assert.NoError(t, err)

	// the JWT middleware must yield the operator name for audit rows
	e := newTestEcho()
	e.Use(echojwt.WithConfig(echojwt.Config{SigningKey: secret}))
	e.GET("/whoami", func(c echo.Context) error {
		return c.String(http.StatusOK, operatorName(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signed)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Body.String())
}

func TestOperatorNameWithoutToken(t *testing.T) {
	e := newTestEcho()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, "unknown", operatorName(c))
}
