package didemo

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, "", 0), &buf
}

func lines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSpace(buf.String()), "\n")
}

func TestMySQLHidesPassword(t *testing.T) {
	logger, buf := bufLogger()
	cfg := mysql.NewConfig()
	cfg.User = "homie"
	cfg.Passwd = "secret"
	cfg.Net = "tcp"
	cfg.Addr = "db:3306"
	cfg.DBName = "homie"
	svc := NewMySQLDatabaseService(logger, cfg)

	require.NoError(t, NewUserManager(svc).ManageUser())

	out := lines(buf)
	require.Len(t, out, 3)
	assert.Equal(t, "Connecting to MySQL...", out[0])
	assert.Equal(t, "  dsn: homie@tcp(db:3306)/homie", out[1])
	assert.Equal(t, "Fetching user data from MySQL...", out[2])
	assert.NotContains(t, buf.String(), "secret")
	assert.Equal(t, "secret", cfg.Passwd)
}

func TestSQLServerExtraMethod(t *testing.T) {
	logger, buf := bufLogger()
	svc := NewSQLServerDatabaseService(logger, "")
	require.NoError(t, NewUserManager(svc).ManageUser())
	svc.CloseConnection()

	assert.Equal(t, []string{
		"Connecting to SQL Server...",
		"Fetching user data from SQL Server...",
		"Closing SQL Server connection...",
	}, lines(buf))
}

func TestPostgreSQL(t *testing.T) {
	logger, buf := bufLogger()
	svc, err := NewPostgreSQLDatabaseService(logger, "postgres://homie@localhost:5432/homie?sslmode=disable")
	require.NoError(t, err)
	assert.Contains(t, svc.ConnString(), "host=localhost")
	assert.Contains(t, svc.ConnString(), "dbname=homie")

	require.NoError(t, NewUserManager(svc).ManageUser())
	svc.RollbackTransaction()
	out := lines(buf)
	assert.Equal(t, "Connecting to PostgreSQL...", out[0])
	assert.Equal(t, "Fetching user data from PostgreSQL...", out[2])
	assert.Equal(t, "Rolling back transaction in PostgreSQL...", out[3])

	_, err = NewPostgreSQLDatabaseService(logger, "mysql://nope")
	assert.Error(t, err)
}

func TestPostgreSQLHidesPassword(t *testing.T) {
	logger, buf := bufLogger()
	svc, err := NewPostgreSQLDatabaseService(logger, "postgres://homie:s3cret@db:5432/homie?sslmode=disable")
	require.NoError(t, err)
	assert.Contains(t, svc.ConnString(), "password=s3cret")
	assert.NotContains(t, svc.RedactedConnString(), "s3cret")
	assert.Contains(t, svc.RedactedConnString(), "user=homie")

	require.NoError(t, svc.Connect())
	assert.NotContains(t, buf.String(), "s3cret")
	assert.Contains(t, buf.String(), "host=db")
}

type failingService struct{ connectErr error }

func (f failingService) Connect() error     { return f.connectErr }
func (f failingService) GetUserData() error { panic("must not be called after a failed connect") }

func TestManageUserStopsOnConnectError(t *testing.T) {
	boom := errors.New("boom")
	err := NewUserManager(failingService{connectErr: boom}).ManageUser()
	assert.ErrorIs(t, err, boom)
}

func TestNewUserManagerRejectsNil(t *testing.T) {
	assert.Panics(t, func() { NewUserManager(nil) })
}
