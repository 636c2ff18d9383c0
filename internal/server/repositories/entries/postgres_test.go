package entries

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avolkova/glucolog/internal/common"
	"github.com/avolkova/glucolog/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestInsert_AssignsID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+entries\s*\(id,\s*user_id,\s*date,\s*time,\s*sugar,\s*insulin,\s*type,\s*food\)`

	mock.ExpectExec(q).
		WithArgs(sqlmock.AnyArg(), "u1", "2026-08-30", "08:15", nil, 4.0, common.InsulinTypeApidra, "toast").
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := &models.Entry{UserID: "u1", Date: "2026-08-30", Time: "08:15", Insulin: 4, Type: common.InsulinTypeApidra, Food: "toast"}
	got, err := repo.Insert(context.Background(), e)
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGet_ScopedByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+id,\s*user_id,\s*date,\s*time,\s*sugar,\s*insulin,\s*type,\s*food\s+FROM\s+entries\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`

	rows := sqlmock.NewRows([]string{"id", "user_id", "date", "time", "sugar", "insulin", "type", "food"}).
		AddRow("e1", "u1", "2026-08-30", "08:15", 5.6, 4.0, common.InsulinTypeApidra, "toast")
	mock.ExpectQuery(q).WithArgs("e1", "u1").WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "u1", "e1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.Food != "toast" || got.Sugar == nil || *got.Sugar != 5.6 {
		t.Errorf("unexpected entry: %+v", got)
	}

	mock.ExpectQuery(q).WithArgs("e1", "u2").WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "date", "time", "sugar", "insulin", "type", "food"}))
	if _, err := repo.Get(context.Background(), "u2", "e1"); err != common.ErrorNotFound {
		t.Errorf("expected ErrorNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdate_BuildsSetList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+entries\s+SET\s+time\s*=\s*\$3,\s*insulin\s*=\s*\$4\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`

	mock.ExpectExec(q).
		WithArgs("e1", "u1", "09:00", 6.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tm := "09:00"
	insulin := 6.0
	err := repo.Update(context.Background(), "u1", "e1", models.EntryPatch{Time: &tm, Insulin: &insulin})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdate_SugarToNull(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+entries\s+SET\s+sugar\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`

	mock.ExpectExec(q).
		WithArgs("e1", "u1", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	var null *float64
	err := repo.Update(context.Background(), "u1", "e1", models.EntryPatch{Sugar: &null})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdate_EmptyPatchIsNoop(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	err := repo.Update(context.Background(), "u1", "e1", models.EntryPatch{})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unexpected db access: %v", err)
	}
}

func TestUpdate_ForeignRowNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^UPDATE\s+entries`).
		WithArgs("e1", "intruder", "09:00").
		WillReturnResult(sqlmock.NewResult(0, 0))

	tm := "09:00"
	err := repo.Update(context.Background(), "intruder", "e1", models.EntryPatch{Time: &tm})
	if err != common.ErrorNotFound {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+entries\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2$`).
		WithArgs("missing", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "u1", "missing")
	if err != common.ErrorNotFound {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestListByUser_OrdersNewestFirst(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)SELECT\s+id,\s*user_id,\s*date,\s*time,\s*sugar,\s*insulin,\s*type,\s*food\s+FROM\s+entries.*ORDER\s+BY\s+date\s+DESC,\s*time\s+DESC`

	rows := sqlmock.NewRows([]string{"id", "user_id", "date", "time", "sugar", "insulin", "type", "food"}).
		AddRow("e2", "u1", "2026-08-30", "12:30", 5.4, 6.0, common.InsulinTypeApidra, "soup").
		AddRow("e1", "u1", "2026-08-29", "22:00", nil, 12.0, common.InsulinTypeLong, "")

	mock.ExpectQuery(q).WithArgs("u1").WillReturnRows(rows)

	got, err := repo.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByUser error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].ID != "e2" || got[1].ID != "e1" {
		t.Errorf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].Sugar == nil || *got[0].Sugar != 5.4 {
		t.Errorf("sugar not scanned")
	}
	if got[1].Sugar != nil {
		t.Errorf("expected nil sugar for long entry")
	}
}
