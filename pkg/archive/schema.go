package archive

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- One row per listing; re-processing the same source URL updates the row.
CREATE TABLE IF NOT EXISTS listings (
    listing_rowid INTEGER PRIMARY KEY AUTOINCREMENT,
    listing_id TEXT,
    source_url TEXT NOT NULL UNIQUE,
    status TEXT NOT NULL,
    address TEXT,
    postal_code TEXT,
    place TEXT,
    province TEXT,
    price INTEGER DEFAULT 0,
    surface INTEGER DEFAULT 0,
    seo_title TEXT,
    seo_summary TEXT,
    article TEXT,
    map_path TEXT,
    lat REAL DEFAULT 0,
    lon REAL DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_listings_listing_id ON listings(listing_id);
CREATE INDEX IF NOT EXISTS idx_listings_status ON listings(status);
CREATE INDEX IF NOT EXISTS idx_listings_place ON listings(place);

-- One row per sync run, for the stats command.
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    finished_at TIMESTAMP,
    published INTEGER DEFAULT 0,
    duplicates INTEGER DEFAULT 0,
    skipped INTEGER DEFAULT 0,
    failed INTEGER DEFAULT 0
);
`
