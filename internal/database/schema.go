package database

// Both dialects share the same logical layout: one row per competitor key and
// one row per settled (sport, item_key) pair.

const postgresSchema = `
CREATE TABLE IF NOT EXISTS ratings (
	key        TEXT PRIMARY KEY,
	rating     DOUBLE PRECISION NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS settled_results (
	sport       TEXT NOT NULL,
	item_key    TEXT NOT NULL,
	home_key    TEXT NOT NULL,
	away_key    TEXT NOT NULL,
	event_start TIMESTAMPTZ,
	settled_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (sport, item_key)
);

CREATE INDEX IF NOT EXISTS settled_results_home_idx ON settled_results (home_key, event_start DESC);
CREATE INDEX IF NOT EXISTS settled_results_away_idx ON settled_results (away_key, event_start DESC);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS ratings (
	key        TEXT PRIMARY KEY,
	rating     REAL NOT NULL,
	updated_at INTEGER NOT NULL DEFAULT (strftime('%s','now'))
);

CREATE TABLE IF NOT EXISTS settled_results (
	sport       TEXT NOT NULL,
	item_key    TEXT NOT NULL,
	home_key    TEXT NOT NULL,
	away_key    TEXT NOT NULL,
	event_start INTEGER, -- unix milliseconds
	settled_at  INTEGER NOT NULL,
	UNIQUE (sport, item_key)
);

CREATE INDEX IF NOT EXISTS settled_results_home_idx ON settled_results (home_key, event_start);
CREATE INDEX IF NOT EXISTS settled_results_away_idx ON settled_results (away_key, event_start);
`
