package matches_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babalugats76/quizdini-2.0-learn/internal/match"
	"github.com/babalugats76/quizdini-2.0-learn/internal/matches"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
        CREATE TABLE matches (
            match_id     TEXT PRIMARY KEY,
            title        TEXT NOT NULL,
            author       TEXT NOT NULL DEFAULT '',
            instructions TEXT NOT NULL DEFAULT '',
            options      TEXT NOT NULL DEFAULT '{}',
            pairs        TEXT NOT NULL DEFAULT '[]',
            created_at   TEXT NOT NULL DEFAULT (datetime('now')),
            updated_at   TEXT NOT NULL DEFAULT (datetime('now'))
        );`)
	require.NoError(t, err)
	return db
}

func TestStoreRoundTrip(t *testing.T) {
	st := matches.NewStore(openTestDB(t))
	ctx := context.Background()

	def := &match.Definition{
		ID:           "geo42",
		Title:        "State Capitals",
		Author:       "Ms. Frizzle",
		Instructions: "Drag each state onto its capital.",
		Options:      match.Options{ColorScheme: "rainbow", Duration: 90, ItemsPerBoard: 4},
		Pairs: []match.PairText{
			{Term: "Ohio", Definition: "Columbus"},
			{Term: "Oregon", Definition: "Salem"},
		},
	}
	require.NoError(t, st.Upsert(ctx, def))

	got, err := st.Get(ctx, "geo42")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, def.Title, got.Title)
	assert.Equal(t, def.Options, got.Options)
	assert.Equal(t, def.Pairs, got.Pairs)
}

func TestStoreGetMissingIsNilNil(t *testing.T) {
	st := matches.NewStore(openTestDB(t))
	got, err := st.Get(context.Background(), "nothere")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoreUpsertReplaces(t *testing.T) {
	st := matches.NewStore(openTestDB(t))
	ctx := context.Background()

	def := &match.Definition{
		ID:    "geo42",
		Title: "Draft",
		Pairs: []match.PairText{{Term: "a", Definition: "b"}},
	}
	require.NoError(t, st.Upsert(ctx, def))

	def.Title = "Published"
	def.Pairs = append(def.Pairs, match.PairText{Term: "c", Definition: "d"})
	require.NoError(t, st.Upsert(ctx, def))

	got, err := st.Get(ctx, "geo42")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Published", got.Title)
	assert.Len(t, got.Pairs, 2)
}
