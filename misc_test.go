package keysetpager

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// tGORMMock is one mocked GORM connection of a specific dialect. SQL emission
// tests run against every dialect in newGORMMocks.
type tGORMMock struct {
	dialect string
	db      *gorm.DB
	mock    sqlmock.Sqlmock
}

func newGORMMocks(t *testing.T) []tGORMMock {
	t.Helper()

	ret := make([]tGORMMock, 0, 2)
	for _, dialect := range []string{"mysql", "postgres"} {
		mockDB, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmock: %v", err)
		}

		var dialector gorm.Dialector
		switch dialect {
		case "mysql":
			dialector = mysql.New(mysql.Config{
				Conn:                      mockDB,
				SkipInitializeWithVersion: true,
			})
		case "postgres":
			dialector = postgres.New(postgres.Config{
				Conn: mockDB,
			})
		}

		db, err := gorm.Open(dialector, &gorm.Config{})
		if err != nil {
			t.Fatalf("gorm open: %v", err)
		}

		ret = append(ret, tGORMMock{
			dialect: dialect,
			db:      db.Debug(),
			mock:    mock,
		})
	}

	return ret
}
