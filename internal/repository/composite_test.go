package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/tripgrid/backoffice/internal/domain"
)

// scriptTx records every statement run inside the transaction and can be
// told to fail the first statement whose SQL contains failOn.
type scriptTx struct {
	pgx.Tx
	statements []string
	args       [][]interface{}
	failOn     string
	parentKey  int64
	noParent   bool
	committed  bool
	rolledBack bool
}

func (tx *scriptTx) record(sql string, args []interface{}) {
	tx.statements = append(tx.statements, sql)
	tx.args = append(tx.args, args)
}

func (tx *scriptTx) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	tx.record(sql, args)
	if tx.failOn != "" && strings.Contains(sql, tx.failOn) {
		return errRow{err: errors.New("forced failure")}
	}
	if tx.noParent && strings.HasPrefix(sql, "SELECT") {
		return errRow{err: pgx.ErrNoRows}
	}
	return keyRow{key: tx.parentKey}
}

func (tx *scriptTx) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	tx.record(sql, args)
	if tx.failOn != "" && strings.Contains(sql, tx.failOn) {
		return pgconn.CommandTag{}, errors.New("forced failure")
	}
	if strings.HasPrefix(sql, "UPDATE") {
		if tx.noParent {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		}
		return pgconn.NewCommandTag("UPDATE 1"), nil
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (tx *scriptTx) Commit(ctx context.Context) error {
	tx.committed = true
	return nil
}

func (tx *scriptTx) Rollback(ctx context.Context) error {
	if tx.committed {
		return pgx.ErrTxClosed
	}
	tx.rolledBack = true
	return nil
}

type keyRow struct{ key int64 }

func (r keyRow) Scan(dest ...interface{}) error {
	if p, ok := dest[0].(*int64); ok {
		*p = r.key
		return nil
	}
	if p, ok := dest[0].(*int); ok {
		*p = 1
		return nil
	}
	return errors.New("unexpected scan target")
}

type errRow struct{ err error }

func (r errRow) Scan(dest ...interface{}) error { return r.err }

type fakeConn struct {
	tx       *scriptTx
	released bool
}

func (c *fakeConn) BeginTx(ctx context.Context, _ pgx.TxOptions) (pgx.Tx, error) {
	return c.tx, nil
}

func (c *fakeConn) Release() { c.released = true }

type fakeSource struct {
	conn *fakeConn
}

func (s *fakeSource) Acquire(ctx context.Context) (txConn, error) { return s.conn, nil }

func newScriptedWriter(tx *scriptTx) (*CompositeWriter, *fakeConn) {
	conn := &fakeConn{tx: tx}
	return &CompositeWriter{src: &fakeSource{conn: conn}}, conn
}

func bookingInsert() CompositeInsert {
	return CompositeInsert{
		Table:     "bookings",
		Columns:   []string{"ref", "status"},
		Values:    []interface{}{"TRV1", "PENDING"},
		KeyColumn: "id",
		Children: []ChildSet{{
			Table:    "booking_passengers",
			FKColumn: "booking_id",
			Columns:  []string{"first_name", "last_name"},
			Rows: [][]interface{}{
				{"Asha", "Verma"},
				{"Rohan", "Verma"},
			},
		}},
	}
}

func TestNewCompositeWriter(t *testing.T) {
	pool := &pgxpool.Pool{}
	writer := NewCompositeWriter(pool)
	assert.NotNil(t, writer)
}

func TestCompositeWriter_Insert_CommitsAndReleases(t *testing.T) {
	tx := &scriptTx{parentKey: 42}
	writer, conn := newScriptedWriter(tx)

	res, err := writer.Insert(context.Background(), bookingInsert())

	assert.NoError(t, err)
	assert.Equal(t, int64(42), res.Key)
	assert.Equal(t, 2, res.ChildCounts["booking_passengers"])

	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
	assert.True(t, conn.released)

	// Parent insert first, then one bulk statement per child set with the
	// parent key injected before each row's own values.
	assert.Len(t, tx.statements, 2)
	assert.Contains(t, tx.statements[0], "INSERT INTO bookings")
	assert.Contains(t, tx.statements[1], "INSERT INTO booking_passengers")
	assert.Equal(t, []interface{}{int64(42), "Asha", "Verma", int64(42), "Rohan", "Verma"}, tx.args[1])
}

func TestCompositeWriter_Insert_ChildFailureRollsBack(t *testing.T) {
	tx := &scriptTx{parentKey: 42, failOn: "booking_passengers"}
	writer, conn := newScriptedWriter(tx)

	res, err := writer.Insert(context.Background(), bookingInsert())

	assert.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	// The parent insert ran inside the transaction, so the rollback
	// leaves no booking row behind.
	assert.Contains(t, tx.statements[0], "INSERT INTO bookings")
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
	assert.True(t, conn.released)
}

func TestCompositeWriter_Replace_DeletesBeforeReinsert(t *testing.T) {
	tx := &scriptTx{}
	writer, conn := newScriptedWriter(tx)

	set := NewUpdateBuilder("airline")
	assert.NoError(t, set.Set("airline", "IndiGo"))

	update := CompositeUpdate{
		Table:     "offline_flights",
		KeyColumn: "id",
		Key:       7,
		Set:       set,
		Children: []ChildSet{{
			Table:    "offline_flight_filters",
			FKColumn: "flight_id",
			Columns:  []string{"name", "value"},
			Rows:     [][]interface{}{{"stops", "non-stop"}},
		}},
	}

	res, err := writer.Replace(context.Background(), update)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), res.Key)
	assert.Equal(t, 1, res.ChildCounts["offline_flight_filters"])
	assert.True(t, tx.committed)
	assert.True(t, conn.released)

	assert.Len(t, tx.statements, 3)
	assert.Contains(t, tx.statements[0], "UPDATE offline_flights")
	assert.Contains(t, tx.statements[1], "DELETE FROM offline_flight_filters")
	assert.Contains(t, tx.statements[2], "INSERT INTO offline_flight_filters")
}

func TestCompositeWriter_Replace_SecondRunLeavesOneCopy(t *testing.T) {
	update := CompositeUpdate{
		Table:     "offline_flights",
		KeyColumn: "id",
		Key:       7,
		Children: []ChildSet{{
			Table:    "offline_flight_filters",
			FKColumn: "flight_id",
			Columns:  []string{"name", "value"},
			Rows:     [][]interface{}{{"stops", "non-stop"}},
		}},
	}

	for run := 0; run < 2; run++ {
		tx := &scriptTx{parentKey: 7}
		writer, _ := newScriptedWriter(tx)

		res, err := writer.Replace(context.Background(), update)

		assert.NoError(t, err)
		assert.Equal(t, 1, res.ChildCounts["offline_flight_filters"])

		// Every run clears the full child set before re-inserting it, so
		// replaying the same payload cannot accumulate rows.
		assert.Contains(t, tx.statements[1], "DELETE FROM offline_flight_filters")
		assert.Contains(t, tx.statements[2], "INSERT INTO offline_flight_filters")
	}
}

func TestCompositeWriter_Replace_MissingParentIsNotFound(t *testing.T) {
	tx := &scriptTx{noParent: true}
	writer, conn := newScriptedWriter(tx)

	set := NewUpdateBuilder("airline")
	assert.NoError(t, set.Set("airline", "IndiGo"))

	res, err := writer.Replace(context.Background(), CompositeUpdate{
		Table:     "offline_flights",
		KeyColumn: "id",
		Key:       404,
		Set:       set,
	})

	assert.Error(t, err)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, tx.committed)
	assert.True(t, tx.rolledBack)
	assert.True(t, conn.released)
}

func TestParentInsertSQL(t *testing.T) {
	sql := parentInsertSQL("bookings", []string{"ref", "status"}, "id")
	assert.Equal(t, `INSERT INTO bookings (ref, status) VALUES ($1, $2) RETURNING id`, sql)
}

func TestChildInsertSQL_SingleRow(t *testing.T) {
	cs := ChildSet{
		Table:    "booking_passengers",
		FKColumn: "booking_id",
		Columns:  []string{"first_name", "last_name"},
	}
	sql := childInsertSQL(cs, 1)
	assert.Equal(t, `INSERT INTO booking_passengers (booking_id, first_name, last_name) VALUES ($1, $2, $3)`, sql)
}

func TestChildInsertSQL_MultiRow(t *testing.T) {
	cs := ChildSet{
		Table:    "hotel_filters",
		FKColumn: "hotel_id",
		Columns:  []string{"name", "value"},
	}
	sql := childInsertSQL(cs, 3)
	assert.Equal(t, `INSERT INTO hotel_filters (hotel_id, name, value) VALUES ($1, $2, $3), ($4, $5, $6), ($7, $8, $9)`, sql)
}

func TestUpdateBuilder_AllowlistedColumns(t *testing.T) {
	b := NewUpdateBuilder("airline", "price_minor")

	assert.NoError(t, b.Set("airline", "IndiGo"))
	assert.NoError(t, b.Set("price_minor", int64(749900)))
	assert.False(t, b.Empty())

	clause, args := b.Clause(1)
	assert.Equal(t, "airline = $1, price_minor = $2", clause)
	assert.Equal(t, []interface{}{"IndiGo", int64(749900)}, args)
}

func TestUpdateBuilder_RejectsUnknownColumn(t *testing.T) {
	b := NewUpdateBuilder("airline")

	err := b.Set("status; DROP TABLE bookings", "x")

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.True(t, b.Empty())
}

func TestUpdateBuilder_ClauseNumberingFromOffset(t *testing.T) {
	b := NewUpdateBuilder("name", "city")
	assert.NoError(t, b.Set("name", "Sea Pearl"))
	assert.NoError(t, b.Set("city", "Kochi"))

	clause, args := b.Clause(3)
	assert.Equal(t, "name = $3, city = $4", clause)
	assert.Len(t, args, 2)
}
