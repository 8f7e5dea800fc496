package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	tmpl := template.New("")
	template.Must(tmpl.New("auth/register.html").Parse(`{{ .Error }}`))
	template.Must(tmpl.New("auth/confirm.html").Parse(`{{ .Success }}`))
	r.SetHTMLTemplate(tmpl)

	r.POST("/signup", NewAuthHandler().Register)
	return r
}

func signupRequest() *http.Request {
	form := url.Values{
		"email":    {"buyer@example.com"},
		"password": {"Sunny#Day1"},
		"nickname": {"buyer"},
		"address":  {"1 Main St"},
	}
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func expectNicknameFree(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
}

func TestRegisterDuplicateKeyIsConflict(t *testing.T) {
	mock := mockDB(t)
	expectNicknameFree(mock)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"})
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	authRouter().ServeHTTP(w, signupRequest())

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A transient database failure is not a duplicate account and must not be
// reported as one.
func TestRegisterTransientErrorIsNotADuplicate(t *testing.T) {
	mock := mockDB(t)
	expectNicknameFree(mock)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(errors.New("connection reset by peer"))
	mock.ExpectRollback()

	w := httptest.NewRecorder()
	authRouter().ServeHTTP(w, signupRequest())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Registration failed")
	assert.NotContains(t, w.Body.String(), "already registered")
	assert.NoError(t, mock.ExpectationsWereMet())
}
