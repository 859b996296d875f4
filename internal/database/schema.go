package database

// Schema contains all SQL statements for creating tables and indexes
const Schema = `
-- Activities table: one row per exercise session, same columns as the
-- running page activities.json export
CREATE TABLE IF NOT EXISTS activities (
    run_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL DEFAULT '',
    distance REAL NOT NULL DEFAULT 0,
    moving_time TEXT NOT NULL DEFAULT '',
    elapsed_time TEXT NOT NULL DEFAULT '',
    type TEXT NOT NULL DEFAULT '',
    subtype TEXT NOT NULL DEFAULT '',

    -- Dates as "YYYY-MM-DD HH:MM:SS"
    start_date TEXT NOT NULL DEFAULT '',
    start_date_local TEXT NOT NULL DEFAULT '',

    location_country TEXT NOT NULL DEFAULT '',
    summary_polyline TEXT NOT NULL DEFAULT '',

    -- Optional metrics, NULL when the device did not record them
    average_heartrate REAL,
    elevation_gain REAL,

    average_speed REAL NOT NULL DEFAULT 0,
    streak INTEGER NOT NULL DEFAULT 0,

    -- Metadata
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activities_start_date_local ON activities(start_date_local DESC);
CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(type);
`
