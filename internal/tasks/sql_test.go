package tasks

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var dialects = []string{"postgres", "mysql"}

var taskColumns = []string{"id", "title", "description", "completed", "created_at"}

// placeholders renders n bind markers the way the driver expects them.
func placeholders(driver string, n int) []any {
	out := make([]any, n)
	for i := range out {
		if driver == "postgres" {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

// exact matches query literally after placeholders are filled in.
func exact(driver, query string) string {
	n := strings.Count(query, "%s")
	return regexp.QuoteMeta(fmt.Sprintf(query, placeholders(driver, n)...))
}

func newMockStore(t *testing.T, driver string) (*SQLStore, sqlmock.Sqlmock) {
	t.Helper()
	dbx, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
		dbx.Close()
	})
	return NewSQLStore(dbx, driver), mock
}

func TestSQLStore_Create(t *testing.T) {
	created := time.Date(2024, 1, 1, 11, 0, 0, 0, time.FixedZone("CET", 3600))

	for _, driver := range dialects {
		t.Run(driver, func(t *testing.T) {
			st, mock := newMockStore(t, driver)

			insert := exact(driver, "INSERT INTO tasks (title, description, completed) VALUES (%s, %s, %s)")
			if driver == "postgres" {
				mock.ExpectQuery(insert+" RETURNING id, created_at").
					WithArgs("Buy milk", "2 liters", false).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, created))
			} else {
				mock.ExpectExec(insert).
					WithArgs("Buy milk", "2 liters", false).
					WillReturnResult(sqlmock.NewResult(7, 1))
				mock.ExpectQuery(exact(driver, "SELECT id, title, description, completed, created_at FROM tasks WHERE id = %s")).
					WithArgs(7).
					WillReturnRows(sqlmock.NewRows(taskColumns).AddRow(7, "Buy milk", "2 liters", false, created))
			}

			got, err := st.Create(context.Background(), NewTask{Title: "  Buy milk ", Description: "2 liters"})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if got.ID != 7 || got.Title != "Buy milk" || got.Completed {
				t.Errorf("unexpected task %+v", got)
			}
			if !got.CreatedAt.Equal(created) || got.CreatedAt.Location() != time.UTC {
				t.Errorf("expected created_at %v in UTC, got %v", created, got.CreatedAt)
			}
		})
	}
}

func TestSQLStore_CreateBlankTitle(t *testing.T) {
	st, _ := newMockStore(t, "postgres")
	if _, err := st.Create(context.Background(), NewTask{Title: "   "}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestSQLStore_List(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, driver := range dialects {
		t.Run(driver, func(t *testing.T) {
			st, mock := newMockStore(t, driver)
			mock.ExpectQuery(exact(driver, "SELECT id, title, description, completed, created_at FROM tasks ORDER BY id")).
				WillReturnRows(sqlmock.NewRows(taskColumns).
					AddRow(1, "one", "", false, day).
					AddRow(2, "two", "d", true, day.Add(time.Hour)))

			all, err := st.List(context.Background())
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(all) != 2 || all[1].ID != 2 || !all[1].Completed || all[1].Description != "d" {
				t.Errorf("unexpected tasks %+v", all)
			}
		})
	}
}

func TestSQLStore_GetNotFound(t *testing.T) {
	for _, driver := range dialects {
		t.Run(driver, func(t *testing.T) {
			st, mock := newMockStore(t, driver)
			mock.ExpectQuery(exact(driver, "FROM tasks WHERE id = %s")).
				WithArgs(99).
				WillReturnRows(sqlmock.NewRows(taskColumns))

			if _, err := st.Get(context.Background(), 99); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestSQLStore_Update(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	for _, driver := range dialects {
		t.Run(driver, func(t *testing.T) {
			st, mock := newMockStore(t, driver)
			mock.ExpectBegin()
			mock.ExpectQuery(exact(driver, "FROM tasks WHERE id = %s FOR UPDATE")).
				WithArgs(1).
				WillReturnRows(sqlmock.NewRows(taskColumns).AddRow(1, "old", "keep", false, created))
			mock.ExpectExec(exact(driver, "UPDATE tasks SET title = %s, description = %s, completed = %s WHERE id = %s")).
				WithArgs("new", "keep", false, 1).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			title := " new "
			got, err := st.Update(context.Background(), 1, Patch{Title: &title})
			if err != nil {
				t.Fatalf("update: %v", err)
			}
			if got.Title != "new" || got.Description != "keep" || !got.CreatedAt.Equal(created) {
				t.Errorf("unexpected task %+v", got)
			}
		})
	}
}

func TestSQLStore_UpdateUnknownID(t *testing.T) {
	for _, driver := range dialects {
		t.Run(driver, func(t *testing.T) {
			st, mock := newMockStore(t, driver)
			mock.ExpectBegin()
			mock.ExpectQuery(exact(driver, "FROM tasks WHERE id = %s FOR UPDATE")).
				WithArgs(99).
				WillReturnRows(sqlmock.NewRows(taskColumns))
			mock.ExpectRollback()

			done := true
			if _, err := st.Update(context.Background(), 99, Patch{Completed: &done}); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestSQLStore_Delete(t *testing.T) {
	for _, driver := range dialects {
		t.Run(driver, func(t *testing.T) {
			st, mock := newMockStore(t, driver)
			del := exact(driver, "DELETE FROM tasks WHERE id = %s")
			mock.ExpectExec(del).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(del).WithArgs(42).WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectExec(del).WithArgs(43).WillReturnResult(sqlmock.NewErrorResult(errors.New("rows affected unavailable")))

			ctx := context.Background()
			if err := st.Delete(ctx, 1); err != nil {
				t.Errorf("delete: %v", err)
			}
			if err := st.Delete(ctx, 42); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
			err := st.Delete(ctx, 43)
			if err == nil || errors.Is(err, ErrNotFound) {
				t.Errorf("expected RowsAffected error to surface, got %v", err)
			}
		})
	}
}

func TestSQLStore_Toggle(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	for _, driver := range dialects {
		t.Run(driver, func(t *testing.T) {
			st, mock := newMockStore(t, driver)
			toggle := exact(driver, "UPDATE tasks SET completed = NOT completed WHERE id = %s")
			mock.ExpectExec(toggle).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectQuery(exact(driver, "FROM tasks WHERE id = %s")).
				WithArgs(1).
				WillReturnRows(sqlmock.NewRows(taskColumns).AddRow(1, "one", "", true, created))
			mock.ExpectExec(toggle).WithArgs(42).WillReturnResult(sqlmock.NewResult(0, 0))

			ctx := context.Background()
			got, err := st.Toggle(ctx, 1)
			if err != nil {
				t.Fatalf("toggle: %v", err)
			}
			if !got.Completed {
				t.Errorf("expected completed task, got %+v", got)
			}
			if _, err := st.Toggle(ctx, 42); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	}
}
