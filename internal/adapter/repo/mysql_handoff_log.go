package repo

import (
	"context"
	"database/sql"

	"github.com/aq2208/gorder-cart/internal/usecase"
)

// MySQLHandoffLog appends every handed-off order to an audit table.
type MySQLHandoffLog struct{ db *sql.DB }

func NewMySQLHandoffLog(db *sql.DB) *MySQLHandoffLog { return &MySQLHandoffLog{db: db} }

func (r *MySQLHandoffLog) PublishHandoff(ctx context.Context, m usecase.HandoffMsg) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO order_handoffs (ref,session_id,order_type,items,grand_total,created_at)
VALUES (?,?,?,?,?,?)
`, m.Ref, m.SessionID, m.OrderType, m.Items, m.GrandTotal, m.At)
	return err
}

var _ usecase.HandoffPublisher = (*MySQLHandoffLog)(nil)
