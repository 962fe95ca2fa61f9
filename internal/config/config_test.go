package config

import (
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestParseDefaults(t *testing.T) {
	is := is.New(t)
	t.Setenv("SECRET_KEY", "s3cret")

	cfg, err := Parse()
	is.NoErr(err)
	is.Equal(cfg.AppPort, "5000")
	is.Equal(cfg.JWTExpiration, time.Hour)
	is.Equal(cfg.DB.Driver, DriverMySQL)
	is.Equal(cfg.DB.MaxOpenConns, 10)
	is.Equal(cfg.Reset.TokenTTL, 30*time.Minute)
	is.Equal(cfg.SMTP.Port, 465)
	is.True(cfg.SMTP.ImplicitTLS())
	is.Equal(cfg.CORSOrigins, []string{"*"})
}

func TestParseRequiresSecret(t *testing.T) {
	is := is.New(t)
	t.Setenv("SECRET_KEY", "")

	_, err := Parse()
	is.True(err != nil)
}

func TestParseRejectsUnknownDriver(t *testing.T) {
	is := is.New(t)
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Parse()
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "oracle"))
}

func TestAppURLTrailingSlash(t *testing.T) {
	is := is.New(t)
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("APP_URL", "https://sayabantu.id/")

	cfg, err := Parse()
	is.NoErr(err)
	is.Equal(cfg.AppURL, "https://sayabantu.id")
}

func TestDataSourceName(t *testing.T) {
	is := is.New(t)

	mysqlCfg := DBConfig{Driver: DriverMySQL, Host: "db", Port: "3306", User: "root", Password: "pw", Name: "sayabantu"}
	dsn := mysqlCfg.DataSourceName()
	is.True(strings.HasPrefix(dsn, "root:pw@tcp(db:3306)/sayabantu?"))
	is.True(strings.Contains(dsn, "parseTime=true"))

	pg := DBConfig{Driver: DriverPostgres, Host: "db", Port: "5432", User: "u", Password: "p", Name: "n"}
	is.Equal(pg.DataSourceName(), "host=db port=5432 user=u password=p dbname=n sslmode=disable")

	override := DBConfig{Driver: DriverSQLite, DSN: "file.db"}
	is.Equal(override.DataSourceName(), "file.db")
}

func TestSMTPSender(t *testing.T) {
	is := is.New(t)
	is.Equal(SMTPConfig{Username: "ops@sayabantu.id"}.Sender(), "Support <ops@sayabantu.id>")
	is.Equal(SMTPConfig{From: "Tim <a@b.c>", Username: "x"}.Sender(), "Tim <a@b.c>")
	is.Equal(SMTPConfig{Host: "smtp.example.com", Port: 587}.Addr(), "smtp.example.com:587")
}
