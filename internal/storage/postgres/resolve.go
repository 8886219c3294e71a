package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/pizzeria/internal/domain"
)

// Queryer покрывает *sql.DB, *sql.Tx и *sql.Conn, чтобы разрешение
// идентификаторов работало и внутри транзакции, и вне её.
type Queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ResolveID выполняет параметризованный lookup id по natural key.
// table и column — константы на месте вызова, никогда не пользовательский
// ввод; параметризуется только value. Пустой результат — ErrNoIDFound
// с указанием искомого ключа; прочие ошибки запроса поднимаются без
// изменений, чтобы объемлющая транзакция была прервана.
func ResolveID(ctx context.Context, q Queryer, table, column string, value any) (int64, error) {
	var id int64
	err := q.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id FROM %s WHERE %s = $1`, table, column),
		value,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s %q in %s", domain.ErrNoIDFound, column, fmt.Sprint(value), table)
		}
		return 0, fmt.Errorf("resolve id in %s: %w", table, err)
	}
	return id, nil
}
