package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"size:64;uniqueIndex"`
	Name      string `gorm:"size:120"`
	Size      int
	Price     float64
	Active    bool
	Members   IDList `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (w widget) Attributes() Attrs {
	return Attrs{
		"code":    w.Code,
		"name":    w.Name,
		"size":    w.Size,
		"price":   w.Price,
		"active":  w.Active,
		"members": w.Members,
	}
}

type widgetTag struct {
	WidgetID uint   `gorm:"primaryKey;autoIncrement:false"`
	Tag      string `gorm:"primaryKey;size:32"`
}

// setupTestDB creates an in-memory SQLite DB for testing upserts
func setupTestDB(t *testing.T, dbName string) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	require.NoError(t, db.AutoMigrate(&widget{}, &widgetTag{}))
	return db
}

func widgetAttrs(name string, size int, members IDList) Attrs {
	return Attrs{
		"name":    name,
		"size":    size,
		"price":   12345.0 / 10000,
		"active":  true,
		"members": members,
	}
}

func TestUpsert_CreateThenUnchanged(t *testing.T) {
	db := setupTestDB(t, "upsert_create")
	ctx := context.Background()
	key := Attrs{"code": "W1"}

	row, outcome, err := Upsert[widget](ctx, db, key, widgetAttrs("Widget", 3, IDList{1}))
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)
	assert.NotZero(t, row.ID)
	assert.False(t, row.CreatedAt.IsZero(), "created_at should be stamped")
	assert.Equal(t, IDList{1}, row.Members)

	again, outcome, err := Upsert[widget](ctx, db, key, widgetAttrs("Widget", 3, IDList{1}))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, outcome)
	assert.Equal(t, row.ID, again.ID)
	assert.True(t, row.UpdatedAt.Equal(again.UpdatedAt), "unchanged upsert must not touch updated_at")

	var count int64
	db.Model(&widget{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpsert_UpdateWhenChanged(t *testing.T) {
	db := setupTestDB(t, "upsert_update")
	ctx := context.Background()
	key := Attrs{"code": "W2"}

	first, _, err := Upsert[widget](ctx, db, key, widgetAttrs("Old", 1, IDList{1}))
	require.NoError(t, err)

	row, outcome, err := Upsert[widget](ctx, db, key, widgetAttrs("New", 1, MergeIDs(first.Members, 2)))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, first.ID, row.ID)
	assert.Equal(t, "New", row.Name)
	assert.Equal(t, IDList{1, 2}, row.Members)
}

func TestUpsert_PartialAttributeSet(t *testing.T) {
	db := setupTestDB(t, "upsert_partial")
	ctx := context.Background()
	key := Attrs{"code": "W3"}

	_, _, err := Upsert[widget](ctx, db, key, widgetAttrs("Partial", 5, nil))
	require.NoError(t, err)

	row, outcome, err := Upsert[widget](ctx, db, key, Attrs{"members": IDList{7, 8}})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, "Partial", row.Name, "attributes outside the set are left alone")
	assert.Equal(t, IDList{7, 8}, row.Members)

	_, outcome, err = Upsert[widget](ctx, db, key, Attrs{"members": IDList{7, 8}})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, outcome)
}

func TestUpsert_MalformedStoredListIsEmpty(t *testing.T) {
	db := setupTestDB(t, "upsert_malformed")
	ctx := context.Background()

	require.NoError(t, db.Exec(`INSERT INTO widgets (code, name, size, price, active, members, created_at, updated_at) VALUES ('W4', 'Broken', 0, 0, 1, 'not-json', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`).Error)

	var stored widget
	require.NoError(t, db.Where("code = ?", "W4").Take(&stored).Error)
	assert.Equal(t, IDList{}, stored.Members)

	row, outcome, err := Upsert[widget](ctx, db, Attrs{"code": "W4"}, Attrs{"members": MergeIDs(stored.Members, 11)})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, IDList{11}, row.Members)
}

func TestLink(t *testing.T) {
	db := setupTestDB(t, "link")
	ctx := context.Background()

	added, err := Link(ctx, db, &widgetTag{WidgetID: 1, Tag: "red"})
	require.NoError(t, err)
	assert.True(t, added)

	added, err = Link(ctx, db, &widgetTag{WidgetID: 1, Tag: "red"})
	require.NoError(t, err)
	assert.False(t, added)

	var count int64
	db.Model(&widgetTag{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestUpsert_FindFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `widgets`").WillReturnError(errors.New("connection reset"))

	_, _, err := Upsert[widget](context.Background(), db, Attrs{"code": "W5"}, Attrs{"name": "x"})
	require.Error(t, err)

	var werr *WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, "find", werr.Op)
	assert.Equal(t, "widgets", werr.Table)
	assert.Contains(t, err.Error(), "code=W5")
}

func TestUpsert_CreateFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `widgets`").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `widgets`").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, _, err := Upsert[widget](context.Background(), db, Attrs{"code": "W6"}, Attrs{"name": "x"})
	require.Error(t, err)

	var werr *WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, "create", werr.Op)
	assert.ErrorContains(t, err, "disk full")
}

// insertBeforeCreate makes a concurrent writer insert row the first time a widget
// create runs, after the lookup has already missed.
func insertBeforeCreate(t *testing.T, db *gorm.DB, row widget) {
	t.Helper()
	fired := false
	err := db.Callback().Create().Before("gorm:create").Register("test:concurrent_insert", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "widgets" {
			return
		}
		fired = true
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Create(&row).Error)
	})
	require.NoError(t, err)
}

func TestUpsert_LostInsertRaceUpdates(t *testing.T) {
	db := setupTestDB(t, "upsert_race_update")
	ctx := context.Background()
	insertBeforeCreate(t, db, widget{Code: "R1", Name: "Rival", Size: 9, Members: IDList{7}})

	row, outcome, err := Upsert[widget](ctx, db, Attrs{"code": "R1"}, widgetAttrs("Mine", 2, IDList{7, 8}))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, outcome)
	assert.Equal(t, "Mine", row.Name)
	assert.Equal(t, 2, row.Size)
	assert.Equal(t, IDList{7, 8}, row.Members)

	var count int64
	require.NoError(t, db.Model(&widget{}).Where("code = ?", "R1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsert_LostInsertRaceUnchanged(t *testing.T) {
	db := setupTestDB(t, "upsert_race_unchanged")
	ctx := context.Background()
	insertBeforeCreate(t, db, widget{Code: "R2", Name: "Same", Size: 4, Price: 1.2345, Active: true, Members: IDList{3}})

	row, outcome, err := Upsert[widget](ctx, db, Attrs{"code": "R2"}, widgetAttrs("Same", 4, IDList{3}))
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, outcome)
	assert.Equal(t, "Same", row.Name)

	var count int64
	require.NoError(t, db.Model(&widget{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFindOrCreate_LostInsertRace(t *testing.T) {
	db := setupTestDB(t, "find_or_create_race")
	insertBeforeCreate(t, db, widget{Code: "R3", Name: "Rival"})

	row, outcome, err := FindOrCreate[widget](context.Background(), db, Attrs{"code": "R3"}, Attrs{"name": "Mine"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, outcome)
	assert.Equal(t, "Rival", row.Name)
}

func TestDiff(t *testing.T) {
	stored := Attrs{"a": int64(1), "b": "x", "c": []byte("y"), "d": 1.5}
	desired := Attrs{"a": 1, "b": "x", "c": "z", "d": 1.5, "e": true}
	assert.Equal(t, []string{"c", "e"}, Diff(stored, desired))
}

func TestFindOrCreate(t *testing.T) {
	db := setupTestDB(t, "find_or_create")
	ctx := context.Background()
	key := Attrs{"code": "EU-42"}

	row, outcome, err := FindOrCreate[widget](ctx, db, key, Attrs{"name": "Europe"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, outcome)
	assert.Equal(t, "Europe", row.Name)

	again, outcome, err := FindOrCreate[widget](ctx, db, key, Attrs{"name": "Europe (renamed)"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, outcome)
	assert.Equal(t, row.ID, again.ID)
	assert.Equal(t, "Europe", again.Name, "existing rows are never updated")
}
