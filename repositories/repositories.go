package repositories

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"shop-service/models"
)

const mysqlDuplicateEntry = 1062

// translateErr converts driver-level failures into the error kinds the
// rest of the service understands. Anything unrecognized passes through
// and is treated as an infrastructure failure by the transport layer.
func translateErr(err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return &models.ConstraintError{Err: err}
	}
	return err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
