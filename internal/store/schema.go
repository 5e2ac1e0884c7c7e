package store

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    document TEXT NOT NULL,
    total_chunks INTEGER NOT NULL,
    config TEXT NOT NULL,      -- chunking_config JSON
    statistics TEXT NOT NULL,  -- detailed_statistics JSON
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS chunks (
    chunk_id TEXT NOT NULL,
    run_id TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    page_number INTEGER NOT NULL,
    type TEXT NOT NULL,
    text TEXT NOT NULL,
    content_only TEXT NOT NULL,
    metadata TEXT NOT NULL,    -- metadata JSON
    PRIMARY KEY (run_id, ordinal),
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_chunks_run ON chunks(run_id);
CREATE INDEX IF NOT EXISTS idx_runs_document ON runs(document);
`
