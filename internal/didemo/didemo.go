// Package didemo shows constructor injection over a small database
// service interface.  The services only log what they would do; no
// connection is ever opened.
package didemo

import (
	"fmt"
	"log"
	"net/url"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// DatabaseService is what UserManager depends on.
type DatabaseService interface {
	Connect() error
	GetUserData() error
}

// MySQLDatabaseService targets a MySQL server described by a driver
// config.
type MySQLDatabaseService struct {
	logger *log.Logger
	cfg    *mysql.Config
}

func NewMySQLDatabaseService(logger *log.Logger, cfg *mysql.Config) *MySQLDatabaseService {
	if cfg == nil {
		cfg = mysql.NewConfig()
	}
	return &MySQLDatabaseService{logger: logger, cfg: cfg}
}

// DSN renders the connection string with the password removed.
func (s *MySQLDatabaseService) DSN() string {
	c := s.cfg.Clone()
	c.Passwd = ""
	return c.FormatDSN()
}

func (s *MySQLDatabaseService) Connect() error {
	s.logger.Println("Connecting to MySQL...")
	s.logger.Printf("  dsn: %s", s.DSN())
	return nil
}

func (s *MySQLDatabaseService) GetUserData() error {
	s.logger.Println("Fetching user data from MySQL...")
	return nil
}

// SQLServerDatabaseService targets a SQL Server instance by host:port.
type SQLServerDatabaseService struct {
	logger *log.Logger
	server string
}

func NewSQLServerDatabaseService(logger *log.Logger, server string) *SQLServerDatabaseService {
	return &SQLServerDatabaseService{logger: logger, server: server}
}

func (s *SQLServerDatabaseService) Connect() error {
	s.logger.Println("Connecting to SQL Server...")
	if s.server != "" {
		s.logger.Printf("  server: %s", s.server)
	}
	return nil
}

func (s *SQLServerDatabaseService) GetUserData() error {
	s.logger.Println("Fetching user data from SQL Server...")
	return nil
}

// CloseConnection is specific to SQL Server and not part of
// DatabaseService.
func (s *SQLServerDatabaseService) CloseConnection() {
	s.logger.Println("Closing SQL Server connection...")
}

// PostgreSQLDatabaseService targets a PostgreSQL server.  The URL is
// converted to a libpq key/value connection string up front.
type PostgreSQLDatabaseService struct {
	logger   *log.Logger
	conn     string
	redacted string
}

func NewPostgreSQLDatabaseService(logger *log.Logger, rawURL string) (*PostgreSQLDatabaseService, error) {
	conn, err := pq.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("didemo: parse postgres url: %w", err)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("didemo: parse postgres url: %w", err)
	}
	redacted := conn
	if _, ok := u.User.Password(); ok {
		u.User = url.User(u.User.Username())
		if redacted, err = pq.ParseURL(u.String()); err != nil {
			return nil, fmt.Errorf("didemo: parse postgres url: %w", err)
		}
	}
	return &PostgreSQLDatabaseService{logger: logger, conn: conn, redacted: redacted}, nil
}

// ConnString is the full libpq connection string, password included.
func (s *PostgreSQLDatabaseService) ConnString() string { return s.conn }

// RedactedConnString is ConnString without the password.
func (s *PostgreSQLDatabaseService) RedactedConnString() string { return s.redacted }

func (s *PostgreSQLDatabaseService) Connect() error {
	s.logger.Println("Connecting to PostgreSQL...")
	s.logger.Printf("  conn: %s", s.redacted)
	return nil
}

func (s *PostgreSQLDatabaseService) GetUserData() error {
	s.logger.Println("Fetching user data from PostgreSQL...")
	return nil
}

func (s *PostgreSQLDatabaseService) RollbackTransaction() {
	s.logger.Println("Rolling back transaction in PostgreSQL...")
}

// UserManager receives its DatabaseService through NewUserManager and
// never picks one itself.
type UserManager struct {
	db DatabaseService
}

func NewUserManager(db DatabaseService) *UserManager {
	if db == nil {
		panic("nil database service passed to NewUserManager")
	}
	return &UserManager{db: db}
}

// ManageUser connects and then reads user data.
func (m *UserManager) ManageUser() error {
	if err := m.db.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if err := m.db.GetUserData(); err != nil {
		return fmt.Errorf("get user data: %w", err)
	}
	return nil
}
